package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
)

// FsnotifyProvider is the fsnotify-backed Provider. Canonical paths are
// slash-separated and resolved below the project root directory.
type FsnotifyProvider struct {
	root   string
	logger *slog.Logger
}

// NewFsnotifyProvider returns a Provider rooted at the project directory.
func NewFsnotifyProvider(root string, logger *slog.Logger) *FsnotifyProvider {
	if logger == nil {
		logger = slog.Default()
	}

	return &FsnotifyProvider{root: root, logger: logger}
}

// Watch creates one recursive watch on the canonical directory. onChange is
// invoked from the watcher's forwarding goroutine for every write to a file
// whose extension matches ext. Creation, deletion, and rename events are
// not signalled; newly created subdirectories are still added to the watch
// so later writes inside them are seen.
func (p *FsnotifyProvider) Watch(canonical, ext string, onChange func(file string)) (Handle, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dir := filepath.Join(p.root, filepath.FromSlash(canonical))

	if err := addRecursive(w, dir); err != nil {
		_ = w.Close()

		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, canonical)
		}

		return nil, fmt.Errorf("watching %s: %w", canonical, err)
	}

	h := &fsnotifyHandle{watcher: w, done: make(chan struct{})}

	go h.forward(ext, onChange, p.logger)

	return h, nil
}

// fsnotifyHandle owns the fsnotify watcher and its forwarding goroutine.
type fsnotifyHandle struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// Close releases the OS watch. Safe to call multiple times; after the
// first call returns, no further onChange callbacks fire.
func (h *fsnotifyHandle) Close() error {
	var err error

	h.once.Do(func() {
		err = h.watcher.Close()
		<-h.done
	})

	return err
}

// forward drains events until the watcher closes, signalling tracked writes.
func (h *fsnotifyHandle) forward(ext string, onChange func(string), logger *slog.Logger) {
	defer close(h.done)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// Keep recursion alive for directories created after the
			// initial walk. Directory creation itself is not a signal.
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addRecursive(h.watcher, event.Name)
					continue
				}
			}

			if isTrackedWrite(event, ext) {
				onChange(event.Name)
			}

		case watchErr, ok := <-h.watcher.Errors:
			if !ok {
				return
			}

			logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// addRecursive walks root and adds all non-hidden directories to the watcher.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	conf := &fastwalk.Config{Follow: false}

	var mu sync.Mutex

	return fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		// Skip hidden directories (e.g. .git).
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}

		// fastwalk runs the callback concurrently; fsnotify.Add is
		// serialized to keep error reporting deterministic.
		mu.Lock()
		defer mu.Unlock()

		return watcher.Add(path)
	})
}

// isTrackedWrite reports whether event is a content write to a file with
// the tracked extension.
func isTrackedWrite(event fsnotify.Event, ext string) bool {
	if !event.Has(fsnotify.Write) {
		return false
	}

	return strings.EqualFold(filepath.Ext(event.Name), ext)
}
