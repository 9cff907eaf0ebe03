package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/lifesim/internal/config"
	"github.com/roach88/lifesim/internal/engine"
)

// RootOptions holds global flags and the environment configuration.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Config is parsed from the environment when the root command is
	// built; flag defaults come from it.
	Config config.Config
	// configErr is reported before any command runs.
	configErr error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lifesim CLI.
func NewRootCommand() *cobra.Command {
	cfg, err := config.Load()
	opts := &RootOptions{Config: cfg, configErr: err}
	if err != nil {
		opts.Config = defaultConfig()
	}

	cmd := &cobra.Command{
		Use:   "lifesim",
		Short: "lifesim - a year-by-year life simulation",
		Long: `A year-by-year life simulation: education, career, business, investments,
relationships, and the events that interrupt them, until the character dies.

Configuration comes from LIFESIM_* environment variables; flags win.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", opts.configErr)
			}
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			setupLogging(opts, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}

// defaultConfig is the configuration with every variable unset.
func defaultConfig() config.Config {
	return config.Config{
		DB:           "lifesim.db",
		LogLevel:     "info",
		Addr:         "127.0.0.1:8080",
		MaxActions:   engine.DefaultMaxActions,
		RewardWindow: engine.DefaultRewardWindow,
	}
}

// setupLogging installs the default slog handler: debug with --verbose,
// otherwise LIFESIM_LOG_LEVEL.
func setupLogging(opts *RootOptions, w io.Writer) {
	level := opts.Config.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// engineOptions are the engine knobs shared by every command that builds
// an engine.
func engineOptions(opts *RootOptions) []engine.EngineOption {
	return []engine.EngineOption{
		engine.WithMaxActions(opts.Config.MaxActions),
		engine.WithRewardWindow(opts.Config.RewardWindow),
	}
}
