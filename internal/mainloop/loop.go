// Package mainloop provides the single-threaded tick loop that drives the
// rebuild scheduler, and the scheduler itself. Change notifications arrive
// on arbitrary watcher goroutines; the rebuild action is only safe on the
// loop goroutine. The scheduler bridges the two: any number of signals
// before a tick coalesce into exactly one rebuild on that tick.
package mainloop

import (
	"context"
	"sync"
	"time"
)

// Registry is the tick-subscription surface of the host main loop. Both
// operations are idempotent: subscribing an already-subscribed name and
// unsubscribing an absent one are no-ops.
type Registry interface {
	Subscribe(name string, fn func())
	Unsubscribe(name string) error
}

// Loop is a concrete Registry that invokes its callbacks once per tick on
// a single goroutine.
type Loop struct {
	mu        sync.Mutex
	callbacks map[string]func()
}

// NewLoop returns a Loop with no subscriptions.
func NewLoop() *Loop {
	return &Loop{callbacks: make(map[string]func())}
}

// Subscribe registers fn under name. Re-subscribing an existing name keeps
// the original callback.
func (l *Loop) Subscribe(name string, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.callbacks[name]; ok {
		return
	}

	l.callbacks[name] = fn
}

// Unsubscribe removes the callback registered under name. Removing an
// absent name is a no-op.
func (l *Loop) Unsubscribe(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.callbacks, name)

	return nil
}

// Subscribed reports whether name currently has a callback registered.
func (l *Loop) Subscribed(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.callbacks[name]

	return ok
}

// Tick invokes a snapshot of the current callbacks. Callbacks may
// subscribe or unsubscribe during the tick; such changes take effect on
// the next tick.
func (l *Loop) Tick() {
	l.mu.Lock()
	snapshot := make([]func(), 0, len(l.callbacks))

	for _, fn := range l.callbacks {
		snapshot = append(snapshot, fn)
	}
	l.mu.Unlock()

	for _, fn := range snapshot {
		fn()
	}
}

// Run drives ticks at the given interval until ctx is cancelled. All
// callbacks run on the goroutine that called Run.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Tick()
		}
	}
}
