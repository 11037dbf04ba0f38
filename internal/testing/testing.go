// Package testing holds test doubles shared by the command, service and ui tests.
//
// [FakeAPI] stands in for the review service; the helpers below fail writes, reads and round
// trips on demand so the error paths of the CLI and the transport can be driven.
package testing

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

var (
	errWriteFailed = errors.New("write failed")
	errReadFailed  = errors.New("read failed")
)

// BrokenWriter rejects every write.
type BrokenWriter struct{}

func (BrokenWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}

// CountingWriter forwards writes to an underlying writer until its allowance runs out.
type CountingWriter struct {
	allowed int
	calls   int
	target  io.Writer
}

// NewCountingWriter lets the first allowed writes through to target and fails the rest.
func NewCountingWriter(allowed int, target io.Writer) *CountingWriter {
	return &CountingWriter{allowed: allowed, target: target}
}

func (w *CountingWriter) Write(p []byte) (int, error) {
	if w.calls >= w.allowed {
		return 0, errors.New("write limit exceeded")
	}
	w.calls++
	return w.target.Write(p)
}

// Calls reports how many writes reached the target.
func (w *CountingWriter) Calls() int {
	return w.calls
}

// LockedWriter serializes writes to an underlying writer so several loggers can share it.
type LockedWriter struct {
	mu     sync.Mutex
	target io.Writer
}

func NewLockedWriter(target io.Writer) *LockedWriter {
	return &LockedWriter{target: target}
}

func (w *LockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target.Write(p)
}

// String returns the target's contents when it is a [fmt.Stringer], such as a bytes.Buffer.
func (w *LockedWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.target.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

// RoundTripFunc adapts a function into an [http.RoundTripper].
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// StaticClient returns an HTTP client whose every round trip yields resp and err.
func StaticClient(resp *http.Response, err error) *http.Client {
	return &http.Client{Transport: RoundTripFunc(func(*http.Request) (*http.Response, error) {
		return resp, err
	})}
}

// BrokenBody is a response body whose reads fail.
type BrokenBody struct{}

func (BrokenBody) Read([]byte) (int, error) {
	return 0, errReadFailed
}

func (BrokenBody) Close() error {
	return nil
}

// Chdir switches the working directory to dir and restores it when the test ends.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("Failed to restore working directory %s: %v", wd, err)
		}
	})
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("File does not exist: %s", path)
		return
	}
	if info.IsDir() {
		t.Errorf("Expected a file, found a directory: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
