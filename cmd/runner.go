package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"playdex/internal/services"
	"playdex/internal/shared"
	"playdex/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Logger     *log.Logger
	Output     io.Writer
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		indexCommand, analyzeCommand, compareCommand, playlistCommand, configCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, e.g. to redirect logs to a file
// while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// requireCatalog verifies the upstream client is configured and performs the
// client-credentials handshake.
func (r *Runner) requireCatalog(ctx context.Context) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized (run 'playdex config init' and set provider credentials)", shared.ErrServiceUnavailable)
	}
	if err := r.catalog.Authenticate(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return nil
}

// indexOptions builds indexer options from config defaults overridden by
// command-line flags.
func (r *Runner) indexOptions(cmd *cli.Command) tasks.Options {
	cfg := r.config.Indexer

	opts := tasks.Options{
		PageSize:       cfg.PageSize,
		BatchSize:      cfg.BatchSize,
		RateLimit:      cfg.RequestsPerSecond,
		ArtworkDir:     r.config.Output.ArtworkDir,
		ArtworkWorkers: cfg.ArtworkWorkers,
		ArtworkRetries: cfg.ArtworkRetries,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		FilenameMaxLen: cfg.FilenameMaxLength,
	}

	if v := cmd.Int("batch-size"); v > 0 {
		opts.BatchSize = int(v)
	}
	if v := cmd.Float("rate"); v > 0 {
		opts.RateLimit = v
	}
	if v := cmd.String("artwork-dir"); v != "" {
		opts.ArtworkDir = v
	}
	if v := cmd.Int("workers"); v > 0 {
		opts.ArtworkWorkers = int(v)
	}
	opts.ForceArtwork = cmd.Bool("force-artwork")
	opts.SkipFeatures = cmd.Bool("skip-features")

	return opts
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
