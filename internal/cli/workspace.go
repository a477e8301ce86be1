package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scriptwatch/scriptwatch/internal/config"
	"github.com/scriptwatch/scriptwatch/internal/logging"
	"github.com/scriptwatch/scriptwatch/internal/pathres"
	"github.com/scriptwatch/scriptwatch/internal/settings"
	"github.com/scriptwatch/scriptwatch/internal/watch"
)

// workspace bundles the per-project collaborators every subcommand needs.
type workspace struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *settings.FileStore
	resolver *pathres.Resolver
}

// openWorkspace builds the workspace from the loaded configuration in ctx.
func openWorkspace(ctx context.Context) (*workspace, error) {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	store, err := settings.OpenFileStore(cfg.ResolveSettingsFile(), logger)
	if err != nil {
		return nil, fmt.Errorf("opening settings store: %w", err)
	}

	return &workspace{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		resolver: pathres.New(cfg.AssetRoot, pathres.DirExists(cfg.ProjectDir)),
	}, nil
}

// newController wires a lifecycle controller over the workspace using the
// fsnotify provider. signal may be nil for one-shot status checks.
func (ws *workspace) newController(signal func()) *watch.Controller {
	if signal == nil {
		signal = func() {}
	}

	return watch.NewController(watch.Options{
		Store:    ws.store,
		Resolver: ws.resolver,
		Provider: watch.NewFsnotifyProvider(ws.cfg.ProjectDir, ws.logger),
		Signal:   signal,
		Logger:   ws.logger,
	})
}

// checkState runs one initialization pass and reports the resulting state
// without leaving a live watch behind.
func (ws *workspace) checkState() (watch.State, string) {
	c := ws.newController(nil)

	c.Start()
	state, status := c.Status()
	c.Stop()

	return state, status
}
