package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/pages"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/services"
	"github.com/desertthunder/solvex/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.API
	sessions   repositories.SessionStore
	runs       *repositories.ExportRunRepository
	db         *sql.DB
	dbOnce     sync.Once
	dbErr      error
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	printer    *formatter.Printer
	assumeYes  bool
}

// RunnerOpts contains configuration options for creating a Runner.
//
// API and Sessions are built from the config by [Runner.Before] when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.API
	Sessions   repositories.SessionStore
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	UseColors  bool
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		sessions:   opts.Sessions,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		printer:    formatter.NewPrinter(opts.Output, opts.Output, opts.UseColors),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, problemsCommand, solutionsCommand, tagsCommand,
		resourcesCommand, accountCommand, dashboardCommand, healthCommand, exportCommand,
		tuiCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and wires the API client.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	r.assumeYes = cmd.Bool("yes")

	if path := cmd.String("config"); path != "" {
		r.configPath = path
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
	}
	r.config.ApplyEnv()

	if cmd.Bool("ephemeral") && r.sessions == nil {
		r.sessions = repositories.NewMemorySessionStore()
	}

	if r.api == nil {
		client := services.NewClient(r.config.API.BaseURL,
			services.WithTimeout(r.config.API.Timeout()),
			services.WithRateLimit(r.config.API.RateLimit),
			services.WithLogger(r.logger),
		)
		r.api = services.New(client)
	}
	r.logger.Debug("configured API", "base_url", r.config.API.BaseURL)
	return ctx, nil
}

// After releases the database opened by any command.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// sessionStore opens the local database on first use and returns the session store.
func (r *Runner) sessionStore(ctx context.Context) (repositories.SessionStore, error) {
	if r.sessions != nil {
		return r.sessions, nil
	}
	if err := r.openDatabase(ctx); err != nil {
		return nil, err
	}
	return r.sessions, nil
}

// exportRuns returns the export history repository, or nil when no database is in use.
func (r *Runner) exportRuns(ctx context.Context) (*repositories.ExportRunRepository, error) {
	if r.runs != nil {
		return r.runs, nil
	}
	if r.sessions != nil && r.db == nil {
		return nil, nil
	}
	if err := r.openDatabase(ctx); err != nil {
		return nil, err
	}
	return r.runs, nil
}

func (r *Runner) openDatabase(ctx context.Context) error {
	r.dbOnce.Do(func() {
		db, err := shared.OpenDatabase(ctx, r.config.Database)
		if err != nil {
			r.dbErr = fmt.Errorf("failed to open database: %w", err)
			return
		}
		r.db = db
		r.runs = repositories.NewExportRunRepository(db)
		if r.sessions == nil {
			r.sessions = repositories.NewSQLiteSessionStore(db)
		}
	})
	return r.dbErr
}

// confirmer returns the prompt used before destructive actions.
// --yes approves every prompt.
func (r *Runner) confirmer() pages.Confirmer {
	if r.assumeYes {
		return pages.AlwaysConfirm
	}
	return pages.ConfirmFunc(r.confirm)
}

func (r *Runner) confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.writePlain("%s [y/N]: ", prompt)

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// idArg reads a required positive integer argument.
func idArg(cmd *cli.Command, name string) (int, error) {
	id := cmd.IntArg(name)
	if id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", shared.ErrMissingArgument, name)
	}
	return id, nil
}
