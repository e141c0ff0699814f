// Package cli implements the kitchenflow command line.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vbonduro/kitchenflow/internal/config"
	"github.com/vbonduro/kitchenflow/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kitchenflow CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kitchenflow",
		Short: "KitchenFlow - shopping list, inventory and pantry",
		Long:  "Manage a shopping list routed to the right store, a food inventory, pantry staples and cravings.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewInventoryCommand(opts))
	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewPrefsCommand(opts))
	cmd.AddCommand(NewStaplesCommand(opts))
	cmd.AddCommand(NewCravingCommand(opts))
	cmd.AddCommand(NewDeviceCommand(opts))

	return cmd
}

// loadConfig resolves the configuration and a logger. Client commands keep
// the log quiet unless --verbose is given; cleanup closes the log file.
func loadConfig(opts *RootOptions, quiet bool) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	level := cfg.LogLevel
	switch {
	case opts.Verbose:
		level = "debug"
	case quiet && logging.ParseLevel(level) < slog.LevelWarn:
		level = "warn"
	}

	logger, cleanup, err := logging.New(level, cfg.LogFile)
	if err != nil {
		return nil, nil, nil, WrapExitError(ExitCommandError, "failed to initialize logger", err)
	}
	return cfg, logger, cleanup, nil
}

// openApp wires an App for a client command. The caller must Close it.
func openApp(cmd *cobra.Command, opts *RootOptions) (*App, error) {
	cfg, logger, cleanup, err := loadConfig(opts, true)
	if err != nil {
		return nil, err
	}

	app, err := NewApp(cmd.Context(), cfg, logger)
	if err != nil {
		cleanup()
		return nil, WrapExitError(ExitCommandError, "failed to start", err)
	}
	// Closers run in reverse, so the log file is closed last.
	app.closers = append([]func(){cleanup}, app.closers...)
	return app, nil
}

type runFunc func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error

// withApp adapts run into a RunE that wires an App for the duration of the
// command.
func withApp(opts *RootOptions, run runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, opts)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, args, app, newOutput(cmd, opts))
	}
}
