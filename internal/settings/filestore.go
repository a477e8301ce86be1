package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore persists settings as a flat YAML document. Every setter writes
// the file through immediately; a write failure is logged and the in-memory
// value is kept, so a read-only filesystem degrades to session-only settings
// rather than failing the caller.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	values map[string]any
}

// OpenFileStore loads (or initialises) the settings file at path. A missing
// file is not an error; it is created on first write.
func OpenFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &FileStore{
		path:   path,
		logger: logger,
		values: make(map[string]any),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("reading settings file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parsing settings file %q: %w", path, err)
	}

	if s.values == nil {
		s.values = make(map[string]any)
	}

	return s, nil
}

// GetBool returns the stored bool for key, or false when absent.
func (s *FileStore) GetBool(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, _ := s.values[prefixed(key)].(bool)

	return v
}

// SetBool stores value under key and writes the file through.
func (s *FileStore) SetBool(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[prefixed(key)] = value
	s.flushLocked()
}

// GetString returns the stored string for key, or "" when absent.
func (s *FileStore) GetString(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, _ := s.values[prefixed(key)].(string)

	return v
}

// SetString stores value under key and writes the file through.
func (s *FileStore) SetString(key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[prefixed(key)] = value
	s.flushLocked()
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// flushLocked serialises the current values to disk. Callers must hold mu.
func (s *FileStore) flushLocked() {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		s.logger.Error("marshaling settings", slog.String("error", err.Error()))
		return
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Error("creating settings directory",
				slog.String("dir", dir), slog.String("error", err.Error()))
			return
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("writing settings file",
			slog.String("path", s.path), slog.String("error", err.Error()))
	}
}
