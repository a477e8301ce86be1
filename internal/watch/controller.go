package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/scriptwatch/scriptwatch/internal/pathres"
	"github.com/scriptwatch/scriptwatch/internal/settings"
)

// DefaultExtension is the tracked file extension when the settings store
// carries none.
const DefaultExtension = ".cs"

// Config is the persisted watcher configuration.
type Config struct {
	Enabled   bool
	Path      string
	Extension string
}

// LoadConfig reads the watcher configuration from the store, applying the
// default extension when none is persisted.
func LoadConfig(store settings.Store) Config {
	cfg := Config{
		Enabled:   store.GetBool(settings.KeyEnabled),
		Path:      store.GetString(settings.KeyPath),
		Extension: store.GetString(settings.KeyExtension),
	}

	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}

	return cfg
}

// Options configures a Controller.
type Options struct {
	// Store persists the enabled flag, path, and extension.
	Store settings.Store

	// Resolver normalizes the configured path.
	Resolver *pathres.Resolver

	// Provider creates the underlying OS watches.
	Provider Provider

	// Signal is invoked from the notification goroutine on every tracked
	// change; typically the scheduler's SignalChange.
	Signal func()

	// Logger is used for structured logging.
	Logger *slog.Logger
}

// Controller is the watcher lifecycle state machine. It owns at most one
// live Watcher; creating a new one always destroys the previous one first,
// so no watch handle ever outlives its configuration. All methods are safe
// for concurrent use, and state transitions are atomic from the caller's
// perspective.
type Controller struct {
	store    settings.Store
	resolver *pathres.Resolver
	provider Provider
	signal   func()
	logger   *slog.Logger

	mu          sync.Mutex
	initialized bool
	active      *Watcher
	state       State
	status      string
}

// NewController builds a stopped controller in the Disabled state.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		store:    opts.Store,
		resolver: opts.Resolver,
		provider: opts.Provider,
		signal:   opts.Signal,
		logger:   logger,
		state:    Disabled,
		status:   "watcher stopped",
	}
}

// Start loads the persisted configuration and runs the transition
// algorithm. Calling Start on a started controller re-initializes it.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.initialized = true
	c.reinitializeLocked()
}

// Stop destroys any live watch and detaches the controller. The persisted
// configuration is already current because the store's setters are
// write-through, so Stop does not touch the store. A pending rebuild
// already queued at stop time is allowed to fire; the rebuild action is
// idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.destroyActiveLocked()

	c.initialized = false
	c.state = Disabled
	c.status = "watcher stopped"
}

// Reinitialize re-runs the transition algorithm against the current
// persisted configuration. Call it after every configuration edit.
func (c *Controller) Reinitialize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reinitializeLocked()
}

// ReinitializeIfNeeded re-runs initialization only when the controller is
// not currently initialized. Hosts call it after reloads or on leaving a
// transient mode, to recover watches lost to a teardown the controller did
// not itself trigger.
func (c *Controller) ReinitializeIfNeeded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return
	}

	c.initialized = true
	c.reinitializeLocked()
}

// Status returns the current state and its human-readable status string.
func (c *Controller) Status() (State, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state, c.status
}

// Watching reports whether a live watch is active.
func (c *Controller) Watching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state == Watching
}

// reinitializeLocked runs the transition algorithm. Callers must hold mu.
//
// The previous watch is destroyed unconditionally before anything else, so
// no duplicate watches can survive reconfiguration.
func (c *Controller) reinitializeLocked() {
	cfg := LoadConfig(c.store)

	c.destroyActiveLocked()

	if !cfg.Enabled {
		c.setStateLocked(Disabled, "watcher disabled")
		return
	}

	canonical, err := c.resolver.Resolve(cfg.Path)

	switch {
	case errors.Is(err, pathres.ErrNoPath):
		c.setStateLocked(NoPathSpecified, "no watch path specified")
		return

	case errors.Is(err, pathres.ErrInvalidPath):
		c.setStateLocked(PathInvalid, fmt.Sprintf("watch path does not exist: %s", cfg.Path))
		return

	case err != nil:
		c.setStateLocked(PathInvalid, fmt.Sprintf("resolving watch path %s: %v", cfg.Path, err))
		return
	}

	// Watching the whole asset root is disallowed as a safety default,
	// even when named explicitly.
	if canonical == c.resolver.AssetRoot() {
		c.setStateLocked(NoPathSpecified, "refusing to watch the entire asset root; configure a subdirectory")
		return
	}

	w := NewWatcher(c.provider, cfg.Extension, c.signal)

	if err := w.Init(canonical); err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			c.setStateLocked(PermissionDenied, fmt.Sprintf("permission denied watching %s", canonical))
			return
		}

		c.setStateLocked(PathInvalid, fmt.Sprintf("cannot watch %s: %v", canonical, err))

		return
	}

	c.active = w
	c.setStateLocked(Watching, fmt.Sprintf("watching %s for %s changes", canonical, cfg.Extension))
}

// destroyActiveLocked tears down the live watch, if any. Callers must hold mu.
func (c *Controller) destroyActiveLocked() {
	if c.active == nil {
		return
	}

	c.active.Destroy()
	c.active = nil
}

// setStateLocked records a state transition. Callers must hold mu.
func (c *Controller) setStateLocked(state State, status string) {
	c.state = state
	c.status = status

	c.logger.Debug("watcher state",
		slog.String("state", state.String()),
		slog.String("status", status),
	)
}
