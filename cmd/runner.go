package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/repositories"
	"github.com/desertthunder/spindle/internal/services"
	"github.com/desertthunder/spindle/internal/session"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

const envFile = ".env"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The review API client and the session store are built on first use so that commands which
// need neither (setup, help) never touch the network or the database.
type Runner struct {
	config     *shared.Config
	configured bool
	ephemeral  bool
	api        services.API
	sessions   *session.Store
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	API        services.API
	Sessions   *session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// A nil Config is replaced by the defaults and later by the file named with --config.
func NewRunner(opts RunnerOpts) *Runner {
	configured := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configured: configured,
		api:        opts.API,
		sessions:   opts.Sessions,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, albumsCommand, commentCommand, artistsCommand, genresCommand, authCommand, profileCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before applies the global flags: log level, .env file, config file and environment overrides.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	r.ephemeral = cmd.Bool("ephemeral")

	if r.configured {
		return ctx, nil
	}

	if err := shared.LoadEnvFile(envFile); err != nil {
		r.logger.Warn("ignoring env file", "path", envFile, "error", err)
	}

	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", configPath)
	}

	r.config.ApplyEnv()
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// After releases the database handle, if one was opened.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the logger used by the runner and by anything it builds afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// reviews returns the review API, building a client from the config on first use.
func (r *Runner) reviews() (services.API, error) {
	if r.api != nil {
		return r.api, nil
	}

	timeout, err := r.config.API.RequestTimeout()
	if err != nil {
		return nil, err
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL:           r.config.API.BaseURL,
		HTTPClient:        r.httpClient,
		Logger:            r.logger,
		Timeout:           timeout,
		RequestsPerSecond: r.config.API.RequestsPerSecond,
	})
	r.api = services.NewReviewService(client)
	r.logger.Debug("review API client ready", "base_url", client.BaseURL())
	return r.api, nil
}

// store returns the session store. Unless --ephemeral was passed it is backed by the settings
// table of the configured database.
func (r *Runner) store() (*session.Store, error) {
	if r.sessions != nil {
		return r.sessions, nil
	}

	var backend session.Backend
	if r.ephemeral {
		backend = session.NewMemoryBackend()
	} else {
		db, err := shared.OpenMigrated(r.config.Database)
		if err != nil {
			return nil, err
		}
		r.db = db
		backend = repositories.NewSessionSlot(repositories.NewSettingsRepository(db))
	}

	sessions, err := session.New(backend, r.logger)
	if err != nil {
		return nil, err
	}
	sessions.Subscribe(func(s models.Session) {
		if s.Active() {
			r.logger.Info("session stored", "username", s.Username, "ephemeral", r.ephemeral)
		} else {
			r.logger.Info("session cleared", "ephemeral", r.ephemeral)
		}
	})
	r.sessions = sessions
	return sessions, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
