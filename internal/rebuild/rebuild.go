// Package rebuild executes the configured rebuild command. The runner is
// only ever invoked from the scheduler's tick, so it always runs on the
// main loop goroutine, and it is safe to invoke redundantly: running the
// command with no pending changes is wasteful but harmless.
package rebuild

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single rebuild command execution.
const DefaultTimeout = 5 * time.Minute

// Runner executes one configured rebuild command per invocation.
type Runner struct {
	command string
	timeout time.Duration
	out     io.Writer
	logger  *slog.Logger
}

// NewRunner builds a runner for the given command line. The command is
// split on whitespace; shell quoting is not interpreted.
func NewRunner(command string, timeout time.Duration, out io.Writer, logger *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if out == nil {
		out = io.Discard
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		command: command,
		timeout: timeout,
		out:     out,
		logger:  logger,
	}
}

// Run executes the rebuild command once and prints a status line. An empty
// command is a logged no-op.
func (r *Runner) Run(ctx context.Context) error {
	argv := strings.Fields(r.command)
	if len(argv) == 0 {
		r.logger.Debug("no rebuild command configured")
		return nil
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now().Format("15:04:05")

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Stdout = r.out
	cmd.Stderr = r.out

	start := time.Now()

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(r.out, "[%s] rebuild → FAILED: %v\n", now, err)

		return fmt.Errorf("running rebuild command: %w", err)
	}

	fmt.Fprintf(r.out, "[%s] rebuild → OK (%s)\n", now, time.Since(start).Round(time.Millisecond))

	return nil
}
