package mainloop

import (
	"log/slog"
	"sync"
)

// subscriptionName identifies the scheduler's one-shot tick registration.
const subscriptionName = "scriptwatch.rebuild"

// Scheduler coalesces change signals into a single rebuild per burst.
//
// SignalChange may be called from any goroutine at any rate; it sets a
// pending flag and attaches the scheduler to the tick registry, both
// idempotently. On the next tick the scheduler detaches itself, clears the
// flag, and runs the rebuild action exactly once. Signals arriving after a
// tick's rebuild has started belong to the next burst. A failing or
// panicking rebuild is logged and swallowed; the scheduler always ends a
// serviced tick detached and reset.
type Scheduler struct {
	registry Registry
	rebuild  func() error
	logger   *slog.Logger

	mu         sync.Mutex
	pending    bool
	subscribed bool
}

// NewScheduler wires a scheduler to the given registry and rebuild action.
func NewScheduler(registry Registry, rebuild func() error, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		registry: registry,
		rebuild:  rebuild,
		logger:   logger,
	}
}

// SignalChange marks a rebuild as pending and ensures the scheduler is
// subscribed for the next tick. Safe for concurrent use; redundant calls
// are no-ops.
func (s *Scheduler) SignalChange() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = true

	if !s.subscribed {
		s.subscribed = true
		s.registry.Subscribe(subscriptionName, s.Tick)
	}
}

// Tick services a pending rebuild. It is registered with the tick registry
// by SignalChange and runs on the loop goroutine; when nothing is pending
// it does nothing.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}

	s.pending = false
	s.subscribed = false

	// Detach before rebuilding so a failure below cannot leave the
	// scheduler subscribed. A detach failure is non-fatal: the loop
	// invokes a snapshot, so a stale entry costs one empty tick.
	if err := s.registry.Unsubscribe(subscriptionName); err != nil {
		s.logger.Warn("detaching rebuild scheduler from tick loop",
			slog.String("error", err.Error()))
	}
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("rebuild action panicked", slog.Any("error", r))
		}
	}()

	if err := s.rebuild(); err != nil {
		s.logger.Error("rebuild action failed", slog.String("error", err.Error()))
	}
}

// Pending reports whether a rebuild is queued but not yet serviced.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending
}
