package watch

import (
	"sync"
	"sync/atomic"
)

// Watcher binds one live provider watch to a canonical path and forwards
// qualifying events as change signals. It does not batch: every tracked
// write produces one signal; coalescing is the scheduler's job.
type Watcher struct {
	provider  Provider
	extension string
	signal    func()

	destroyed atomic.Bool

	mu     sync.Mutex
	handle Handle
}

// NewWatcher returns an uninitialized Watcher that will report changes via
// signal once Init succeeds.
func NewWatcher(provider Provider, extension string, signal func()) *Watcher {
	return &Watcher{
		provider:  provider,
		extension: extension,
		signal:    signal,
	}
}

// Init creates the underlying recursive watch on canonical. On failure all
// partially-created resources are released by the provider before Init
// returns; permission problems surface as ErrPermissionDenied.
func (w *Watcher) Init(canonical string) error {
	handle, err := w.provider.Watch(canonical, w.extension, w.onChange)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.handle = handle
	w.mu.Unlock()

	return nil
}

// Destroy releases the watch. It is an idempotent no-op on repeated calls
// and on an uninitialized Watcher; after the first call no further change
// signals are forwarded, even if the provider still delivers events.
func (w *Watcher) Destroy() {
	if !w.destroyed.CompareAndSwap(false, true) {
		return
	}

	w.mu.Lock()
	handle := w.handle
	w.handle = nil
	w.mu.Unlock()

	if handle != nil {
		_ = handle.Close()
	}
}

// onChange runs on the provider's notification goroutine.
func (w *Watcher) onChange(string) {
	if w.destroyed.Load() {
		return
	}

	w.signal()
}
