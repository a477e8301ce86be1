// Package cli implements the cobra command tree for scriptwatch.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/scriptwatch/scriptwatch/internal/config"
	"github.com/scriptwatch/scriptwatch/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "scriptwatch",
		Short: "Rebuild-on-save watcher for project source directories",
		Long: `scriptwatch watches a configured directory under your project's asset
root for modifications to tracked source files and runs a rebuild command
exactly once per burst of changes.

Change notifications arrive on background watcher threads; scriptwatch
coalesces them and services a single rebuild per main-loop tick, so rapid
repeated saves never stack duplicate rebuilds.

The watched path, the enabled flag, and the tracked extension persist in a
per-project settings file, edited with the enable, disable, and path
subcommands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("assetRoot", cfg.AssetRoot),
				slog.Duration("tickInterval", cfg.TickInterval),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .scriptwatch.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("project-dir", ".", "project root directory")
	pf.String("asset-root", "Assets", "asset root prefix watch paths resolve under")
	pf.String("settings-file", ".scriptwatch/settings.yaml", "persisted watcher settings file")
	pf.Duration("tick-interval", 500*time.Millisecond, "main-loop tick period")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	// Register subcommands.
	cmd.AddCommand(
		newWatchCommand(),
		newEnableCommand(),
		newDisableCommand(),
		newPathCommand(),
		newStatusCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}
