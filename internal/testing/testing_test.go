package testing

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestLockedWriter(t *testing.T) {
	t.Run("Concurrent Writes", func(t *testing.T) {
		w := NewLockedWriter(&bytes.Buffer{})

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					w.Write([]byte("line\n"))
				}
			}()
		}
		wg.Wait()

		if n := strings.Count(w.String(), "line\n"); n != 400 {
			t.Errorf("expected 400 lines, got %d", n)
		}
	})

	t.Run("Non Stringer Target", func(t *testing.T) {
		w := NewLockedWriter(BrokenWriter{})
		if _, err := w.Write([]byte("x")); err == nil {
			t.Error("expected the target's error to pass through")
		}
		if w.String() != "" {
			t.Errorf("expected empty string, got %q", w.String())
		}
	})
}
