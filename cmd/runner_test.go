package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/services"
	"github.com/desertthunder/spindle/internal/session"
	"github.com/desertthunder/spindle/internal/shared"
	tu "github.com/desertthunder/spindle/internal/testing"
)

// harness runs commands against a [tu.FakeAPI] with an in-memory session.
type harness struct {
	fake     *tu.FakeAPI
	out      *bytes.Buffer
	logs     *tu.LockedWriter
	sessions *session.Store
	runner   *Runner
}

func newHarness(t *testing.T, username string) *harness {
	t.Helper()

	fake := tu.NewFakeAPI(t)
	sessions, err := session.New(session.NewMemoryBackend(), nil)
	if err != nil {
		t.Fatalf("failed to create session store: %v", err)
	}
	if username != "" {
		if err := sessions.Set(username); err != nil {
			t.Fatalf("failed to sign in: %v", err)
		}
	}

	config := shared.DefaultConfig()
	config.API.BaseURL = fake.URL()
	config.Database.Path = filepath.Join(t.TempDir(), "spindle.db")

	out := &bytes.Buffer{}
	logs := tu.NewLockedWriter(&bytes.Buffer{})
	runner := NewRunner(RunnerOpts{
		Config:   config,
		API:      services.NewReviewService(services.NewClient(services.ClientOpts{BaseURL: fake.URL()})),
		Sessions: sessions,
		Logger:   shared.NewLogger(logs),
		Output:   out,
	})

	return &harness{fake: fake, out: out, logs: logs, sessions: sessions, runner: runner}
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	return newApp(h.runner).Run(context.Background(), append([]string{"spindle"}, args...))
}

// seed adds two artists, a genre and two albums; Blue Train has one review.
func (h *harness) seed() (blue, train int) {
	davis := h.fake.AddArtist("Miles Davis")
	coltrane := h.fake.AddArtist("John Coltrane")
	jazz := h.fake.AddGenre("Jazz")
	blue = h.fake.AddAlbum("Kind of Blue", davis, "1959-08-17", jazz)
	train = h.fake.AddAlbum("Blue Train", coltrane, "1958-01-01")
	h.fake.AddComment(train, "carol", 8, "hard bop at its best")
	return blue, train
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := services.NewReviewService(services.NewClient(services.ClientOpts{}))
			sessions, _ := session.New(nil, nil)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
				Sessions:   sessions,
			})

			if runner.config != config || !runner.configured {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.sessions != sessions {
				t.Error("expected sessions to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.configured {
				t.Error("expected config file to be loaded later")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.BrokenWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			writer := tu.NewCountingWriter(1, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: writer})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if writer.Calls() != 1 {
				t.Errorf("expected the body write to succeed, got %d writes", writer.Calls())
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.BrokenWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("loads config file and env overrides", func(t *testing.T) {
		fake := tu.NewFakeAPI(t)
		davis := fake.AddArtist("Miles Davis")
		fake.AddAlbum("Kind of Blue", davis, "1959-08-17")

		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		conf := "[api]\nbase_url = \"http://127.0.0.1:1/unused\"\n"
		if err := os.WriteFile(configPath, []byte(conf), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv(shared.EnvAPIURL, fake.URL())
		t.Setenv(shared.EnvDBPath, filepath.Join(dir, "spindle.db"))

		out := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: out, Logger: shared.NewLogger(&bytes.Buffer{})})
		err := newApp(runner).Run(context.Background(), []string{"spindle", "--config", configPath, "--ephemeral", "albums", "list"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if runner.config.API.BaseURL != fake.URL() {
			t.Errorf("expected env override, got %s", runner.config.API.BaseURL)
		}
		if !strings.Contains(out.String(), "Kind of Blue") {
			t.Errorf("expected album from fake API, got %q", out.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "spindle.db")); !os.IsNotExist(err) {
			t.Error("expected albums list not to open the database")
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		conf := "[api]\nbase_url = \"http://localhost\"\ntimeout = \"soon\"\n"
		if err := os.WriteFile(configPath, []byte(conf), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})
		err := newApp(runner).Run(context.Background(), []string{"spindle", "--config", configPath, "genres", "list"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("persists session in the configured database", func(t *testing.T) {
		fake := tu.NewFakeAPI(t)
		fake.AddUser("alice", "alice@example.com", "hunter2")

		dir := t.TempDir()
		t.Setenv(shared.EnvAPIURL, fake.URL())
		t.Setenv(shared.EnvDBPath, filepath.Join(dir, "spindle.db"))
		configPath := filepath.Join(dir, "missing.toml")

		login := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})
		err := newApp(login).Run(context.Background(), []string{
			"spindle", "--config", configPath, "auth", "login", "--email", "alice@example.com", "--password", "hunter2",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if login.db != nil {
			t.Error("expected database to be closed after the command")
		}

		out := &bytes.Buffer{}
		whoami := NewRunner(RunnerOpts{Output: out, Logger: shared.NewLogger(&bytes.Buffer{})})
		if err := newApp(whoami).Run(context.Background(), []string{"spindle", "--config", configPath, "auth", "whoami"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.String() != "alice\n" {
			t.Errorf("expected session to survive restart, got %q", out.String())
		}
	})
}

func TestAlbumCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h := newHarness(t, "")
		blue, train := h.seed()

		if err := h.run("albums", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := h.out.String()
		first := strings.Index(out, "Blue Train")
		second := strings.Index(out, "Kind of Blue")
		if first < 0 || second < 0 || first > second {
			t.Errorf("expected reviewed album first, got %q", out)
		}

		if err := h.run("albums", "list", "--format", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var albums []models.AlbumSummary
		if err := json.Unmarshal(h.out.Bytes(), &albums); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(albums) != 2 || albums[0].ID != train || albums[1].ID != blue {
			t.Errorf("unexpected albums %+v", albums)
		}
	})

	t.Run("list as csv and markdown", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()

		if err := h.run("albums", "list", "--format", "csv"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(h.out.String(), "ID,Title,Artist") {
			t.Errorf("expected CSV header, got %q", h.out.String())
		}

		if err := h.run("albums", "list", "-f", "markdown"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.out.String(), "# Albums") {
			t.Errorf("expected markdown title, got %q", h.out.String())
		}
	})

	t.Run("list rejects unknown format", func(t *testing.T) {
		h := newHarness(t, "")

		err := h.run("albums", "list", "--format", "yaml")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("list surfaces server errors", func(t *testing.T) {
		h := newHarness(t, "")
		h.fake.Fail("GET /albums", http.StatusInternalServerError, "database unavailable", 1)

		err := h.run("albums", "list")
		var apiErr *services.APIError
		if !errors.As(err, &apiErr) || apiErr.Error() != "database unavailable" {
			t.Errorf("expected API error, got %v", err)
		}
	})

	t.Run("search", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()

		if err := h.run("albums", "search", "davis"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.out.String(), "Kind of Blue") || strings.Contains(h.out.String(), "Blue Train") {
			t.Errorf("expected only the Davis album, got %q", h.out.String())
		}
	})

	t.Run("search without query", func(t *testing.T) {
		h := newHarness(t, "")

		err := h.run("albums", "search")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if h.fake.Requests() != 0 {
			t.Errorf("expected no requests, got %v", h.fake.Paths())
		}
	})

	t.Run("show", func(t *testing.T) {
		h := newHarness(t, "")
		blue, _ := h.seed()

		if err := h.run("albums", "show", strconv.Itoa(blue)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := h.out.String()
		for _, want := range []string{"Kind of Blue", "Artist: Miles Davis", "Released: 1959-08-17", "Genres: Jazz", "No reviews yet."} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %q", want, out)
			}
		}
	})

	t.Run("show missing album", func(t *testing.T) {
		h := newHarness(t, "")

		err := h.run("albums", "show", "999")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("show invalid id", func(t *testing.T) {
		h := newHarness(t, "")

		err := h.run("albums", "show", "abc")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("show writes markdown directory", func(t *testing.T) {
		h := newHarness(t, "")
		blue, _ := h.seed()
		dir := filepath.Join(t.TempDir(), "album")

		if err := h.run("albums", "show", strconv.Itoa(blue), "--format", "markdown", "--output-dir", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		readme := filepath.Join(dir, "README.md")
		tu.AssertFileExists(t, readme)
		if !strings.Contains(tu.MustReadFile(t, readme), "Kind of Blue") {
			t.Error("expected album title in README")
		}
		if !strings.Contains(h.out.String(), "✓ Wrote "+dir) {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("output-dir requires markdown", func(t *testing.T) {
		h := newHarness(t, "")
		blue, _ := h.seed()

		err := h.run("albums", "show", strconv.Itoa(blue), "--output-dir", t.TempDir())
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("export with details", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()
		output := filepath.Join(t.TempDir(), "catalogue.md")

		if err := h.run("albums", "export", "--details", "--output", output); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		content := tu.MustReadFile(t, output)
		for _, want := range []string{"# Album Catalogue", "Kind of Blue", "Blue Train", "hard bop at its best"} {
			if !strings.Contains(content, want) {
				t.Errorf("expected %q in export", want)
			}
		}
		if !strings.Contains(h.out.String(), "✓ Exported 2 albums to "+output) {
			t.Errorf("unexpected output %q", h.out.String())
		}

		logs := h.logs.String()
		for _, want := range []string{"Found 2 albums", "catalogue exported"} {
			if !strings.Contains(logs, want) {
				t.Errorf("expected %q in logs from both the progress consumer and the exporter, got %q", want, logs)
			}
		}
	})

	t.Run("export to stdout as json", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()

		if err := h.run("albums", "export", "--format", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var export models.CatalogueExport
		if err := json.Unmarshal(h.out.Bytes(), &export); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(export.Albums) != 2 || export.Albums[0].Detail != nil {
			t.Errorf("expected summaries only, got %+v", export.Albums)
		}
	})

	t.Run("create", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()

		if err := h.run("albums", "create", "--title", "A Love Supreme", "--artist-id", "2", "--release-date", "1965-01-01"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.out.String() != "✓ Album created (id 7)\n" {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("create rejects bad date before sending", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()
		before := h.fake.Requests()

		err := h.run("albums", "create", "--title", "A Love Supreme", "--artist-id", "2", "--release-date", "01/01/1965")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if h.fake.Requests() != before {
			t.Error("expected no request")
		}
	})
}

func TestCommentCommand(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		h := newHarness(t, "")
		blue, _ := h.seed()

		if err := h.run("comment", strconv.Itoa(blue), "--rating", "9", "--text", "modal masterpiece"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		comments := h.fake.Comments(blue)
		if len(comments) != 1 || comments[0].Username != "" || comments[0].Rating != 9 {
			t.Fatalf("unexpected comments %+v", comments)
		}
		out := h.out.String()
		if !strings.Contains(out, "as anonymous") || !strings.Contains(out, "Kind of Blue now has 1 review") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("reload failure after post", func(t *testing.T) {
		h := newHarness(t, "")
		blue, _ := h.seed()
		h.fake.FailAfter("GET /albums/"+strconv.Itoa(blue), 1, http.StatusInternalServerError, "database is down", 1)

		if err := h.run("comment", strconv.Itoa(blue), "--rating", "8", "--text", "still great"); err != nil {
			t.Fatalf("expected a stored review to count as success, got %v", err)
		}
		if comments := h.fake.Comments(blue); len(comments) != 1 {
			t.Fatalf("expected exactly one stored review, got %+v", comments)
		}
		out := h.out.String()
		if !strings.Contains(out, "✓ Posted") || !strings.Contains(out, "Could not reload Kind of Blue") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("as signed-in user", func(t *testing.T) {
		h := newHarness(t, "alice")
		_, train := h.seed()

		if err := h.run("comment", strconv.Itoa(train), "-r", "7", "-t", "solid"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		comments := h.fake.Comments(train)
		if len(comments) != 2 || comments[0].Username != "alice" {
			t.Fatalf("expected newest comment by alice, got %+v", comments)
		}
		if !strings.Contains(h.out.String(), "Blue Train now has 2 reviews") {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("rating out of range", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()

		err := h.run("comment", "1", "--rating", "11", "--text", "too good")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
		if h.fake.Requests() != 0 {
			t.Errorf("expected no requests, got %v", h.fake.Paths())
		}
	})

	t.Run("empty text", func(t *testing.T) {
		h := newHarness(t, "")
		blue, _ := h.seed()

		err := h.run("comment", strconv.Itoa(blue), "--text", "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if len(h.fake.Comments(blue)) != 0 {
			t.Error("expected no comment to be created")
		}
	})

	t.Run("missing album", func(t *testing.T) {
		h := newHarness(t, "")

		err := h.run("comment", "42", "--text", "hello")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCatalogueCommands(t *testing.T) {
	t.Run("artists", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()

		if err := h.run("artists", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.out.String(), "Miles Davis") || !strings.Contains(h.out.String(), "John Coltrane") {
			t.Errorf("unexpected output %q", h.out.String())
		}

		if err := h.run("artists", "create", "--name", "Bill Evans"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.out.String() != "✓ Artist created (id 7)\n" {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("artists empty", func(t *testing.T) {
		h := newHarness(t, "")

		if err := h.run("artists", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.out.String() != "No artists found.\n" {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("genres", func(t *testing.T) {
		h := newHarness(t, "")
		h.seed()

		if err := h.run("genres", "list", "--format", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var genres []models.Genre
		if err := json.Unmarshal(h.out.Bytes(), &genres); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(genres) != 1 || genres[0].Name != "Jazz" {
			t.Errorf("unexpected genres %+v", genres)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login, whoami and logout", func(t *testing.T) {
		h := newHarness(t, "")
		h.fake.AddUser("alice", "alice@example.com", "hunter2")

		if err := h.run("auth", "login", "--email", "alice@example.com", "--password", "hunter2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.out.String() != "✓ Signed in as alice\n" {
			t.Errorf("unexpected output %q", h.out.String())
		}

		if err := h.run("auth", "whoami"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.out.String() != "alice\n" {
			t.Errorf("unexpected output %q", h.out.String())
		}

		before := h.fake.Requests()
		if err := h.run("auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := h.sessions.Get(); ok {
			t.Error("expected session to be cleared")
		}
		if h.fake.Requests() != before {
			t.Error("expected logout to stay local")
		}
	})

	t.Run("login failure", func(t *testing.T) {
		h := newHarness(t, "")
		h.fake.AddUser("alice", "alice@example.com", "hunter2")

		err := h.run("auth", "login", "--email", "alice@example.com", "--password", "nope")
		if err == nil || err.Error() != "Invalid credentials" {
			t.Errorf("expected server message, got %v", err)
		}
		if _, ok := h.sessions.Get(); ok {
			t.Error("expected no session")
		}
	})

	t.Run("signup", func(t *testing.T) {
		h := newHarness(t, "")

		err := h.run("auth", "signup", "--username", "bob", "--email", "bob@example.com", "--password", "secret")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if username, ok := h.sessions.Get(); !ok || username != "bob" {
			t.Errorf("expected bob to be signed in, got %q", username)
		}
		if !h.fake.HasUser("bob") {
			t.Error("expected account to be created")
		}
	})

	t.Run("whoami when signed out", func(t *testing.T) {
		h := newHarness(t, "")

		if err := h.run("auth", "whoami"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(h.out.String(), "Not signed in") {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})
}

func TestProfileCommand(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		h := newHarness(t, "")

		err := h.run("profile")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if h.fake.Requests() != 0 {
			t.Errorf("expected no requests, got %v", h.fake.Paths())
		}
	})

	t.Run("lists reviews", func(t *testing.T) {
		h := newHarness(t, "carol")
		h.seed()

		if err := h.run("profile"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := h.out.String()
		if !strings.Contains(out, "carol (1 review)") || !strings.Contains(out, "hard bop at its best") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("delete requires confirmation", func(t *testing.T) {
		h := newHarness(t, "carol")
		h.seed()

		err := h.run("profile", "--delete")
		if !errors.Is(err, shared.ErrConfirmationRequired) {
			t.Errorf("expected ErrConfirmationRequired, got %v", err)
		}
		if !h.fake.HasUser("carol") {
			t.Error("expected account to survive")
		}
	})

	t.Run("delete", func(t *testing.T) {
		h := newHarness(t, "carol")
		_, train := h.seed()

		if err := h.run("profile", "--delete", "--yes"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.fake.HasUser("carol") {
			t.Error("expected account to be deleted")
		}
		if len(h.fake.Comments(train)) != 0 {
			t.Error("expected reviews to be deleted")
		}
		if _, ok := h.sessions.Get(); ok {
			t.Error("expected session to be cleared")
		}
	})

	t.Run("delete already deleted account", func(t *testing.T) {
		h := newHarness(t, "ghost")

		if err := h.run("profile", "--delete", "--yes"); err != nil {
			t.Fatalf("expected not found to count as success, got %v", err)
		}
		if _, ok := h.sessions.Get(); ok {
			t.Error("expected session to be cleared")
		}
	})
}

func TestSetup(t *testing.T) {
	h := newHarness(t, "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	if err := h.run("--config", configPath, "setup"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, configPath)
	tu.AssertFileExists(t, h.runner.config.Database.Path)
	if !strings.Contains(h.out.String(), "✓ Database ready") {
		t.Errorf("unexpected output %q", h.out.String())
	}

	if err := h.run("--config", configPath, "setup"); err != nil {
		t.Fatalf("expected setup to be repeatable, got %v", err)
	}

	t.Run("rollback", func(t *testing.T) {
		if err := h.run("--config", configPath, "setup", "--rollback"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.out.String(), "✓ Rolled back") {
			t.Errorf("unexpected output %q", h.out.String())
		}

		if err := h.run("--config", configPath, "setup"); err != nil {
			t.Fatalf("expected migrations to reapply, got %v", err)
		}
	})
}
