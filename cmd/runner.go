package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/andrewwillette/willette/internal/admin"
	"github.com/andrewwillette/willette/internal/services"
	"github.com/andrewwillette/willette/internal/session"
	"github.com/andrewwillette/willette/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// dotEnvFile is loaded before the environment is read. Variables already set take precedence.
const dotEnvFile = ".env"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	loadConfig bool
	api        *services.APIService
	store      session.Store
	controller *admin.Controller
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	closers    []io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Dependencies left nil are built from the loaded configuration in [Runner.Before].
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Store      session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	loadConfig := opts.Config == nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		loadConfig: loadConfig,
		api:        opts.API,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if r.api != nil && r.store != nil {
		r.controller = admin.NewController(r.api, r.store, r.logger)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, logoutCommand, tokenCommand, urlsCommand, keyOfDayCommand, apiCommand,
		adminCommand, devServerCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads configuration and wires the token store, API client and controller.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.configPath == "" {
		r.configPath = cmd.String("config")
	}
	if err := r.readConfig(); err != nil {
		return ctx, err
	}

	if r.store == nil {
		store, err := r.openStore(cmd.Bool("ephemeral"))
		if err != nil {
			return ctx, err
		}
		r.store = store
	}

	if r.api == nil {
		api, err := r.newAPI()
		if err != nil {
			return ctx, err
		}
		r.api = api
	}

	r.controller = admin.NewController(r.api, r.store, r.logger)
	return ctx, nil
}

// After releases anything opened in [Runner.Before].
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

func (r *Runner) readConfig() error {
	if !r.loadConfig {
		return nil
	}

	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", shared.ErrInvalidConfig, dotEnvFile, err)
	}

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		if err := shared.ApplyEnv(r.config); err != nil {
			return err
		}
	}
	r.loadConfig = false
	return nil
}

func (r *Runner) openStore(ephemeral bool) (session.Store, error) {
	if ephemeral {
		return session.NewMemoryStore(), nil
	}

	store, err := session.OpenSQLiteStore(r.config.Storage.Path, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	r.closers = append(r.closers, store)
	return store, nil
}

func (r *Runner) newAPI() (*services.APIService, error) {
	baseURL, err := r.config.ResolveBaseURL()
	if err != nil {
		return nil, err
	}

	client := r.httpClient
	if client == nil {
		client = &http.Client{Timeout: r.config.API.Timeout.Duration}
	}

	r.logger.Debug("using backend", "base_url", baseURL)
	return services.NewAPIService(baseURL, services.APIServiceOpts{
		HTTPClient: client,
		Tokens:     r.store,
		Limiter:    services.NewLimiter(r.config.API.RateLimit, r.config.API.Burst),
		Logger:     r.logger,
	}), nil
}

// SetLogger swaps the logger for the runner and everything it built.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.api != nil {
		r.api.SetLogger(l)
		r.controller = admin.NewController(r.api, r.store, l)
	}
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
