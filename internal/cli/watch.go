package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scriptwatch/scriptwatch/internal/mainloop"
	"github.com/scriptwatch/scriptwatch/internal/rebuild"
	"github.com/scriptwatch/scriptwatch/internal/watch"
)

type watchOptions struct {
	exec           string
	rebuildTimeout time.Duration
	once           bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the configured directory and rebuild on change",
		Long: `Watch starts the main loop and services the persisted watcher
configuration until interrupted.

Every tracked write queues a rebuild; all writes arriving before the next
tick coalesce into a single execution of the rebuild command, which always
runs on the loop goroutine. A failing rebuild is logged and does not stop
the watcher.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.exec, "exec", "", "rebuild command, run once per change burst")
	f.DurationVar(&opts.rebuildTimeout, "rebuild-timeout", rebuild.DefaultTimeout, "timeout for one rebuild execution")
	f.BoolVar(&opts.once, "rebuild-on-start", false, "run the rebuild command once before watching")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *watchOptions) error {
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.ErrOrStderr()

	loop := mainloop.NewLoop()
	runner := rebuild.NewRunner(opts.exec, opts.rebuildTimeout, out, ws.logger)
	scheduler := mainloop.NewScheduler(loop, func() error { return runner.Run(sigCtx) }, ws.logger)

	controller := ws.newController(scheduler.SignalChange)

	controller.Start()
	defer controller.Stop()

	state, status := controller.Status()

	fmt.Fprintf(out, "%s\n", status)

	if state != watch.Watching {
		return &ExitError{Code: 1, Err: fmt.Errorf("not watching: %s", status)}
	}

	if opts.once {
		scheduler.SignalChange()
	}

	fmt.Fprintf(out, "tick=%s, exec=%q\n", ws.cfg.TickInterval, opts.exec)

	return loop.Run(sigCtx, ws.cfg.TickInterval)
}
