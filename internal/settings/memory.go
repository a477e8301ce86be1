package settings

import "sync"

// Memory is an in-memory Store for tests and ephemeral runs. The zero
// value is not usable; construct via NewMemory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

// GetBool returns the stored bool for key, or false when absent.
func (m *Memory) GetBool(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, _ := m.values[prefixed(key)].(bool)

	return v
}

// SetBool stores value under key.
func (m *Memory) SetBool(key string, value bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[prefixed(key)] = value
}

// GetString returns the stored string for key, or "" when absent.
func (m *Memory) GetString(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, _ := m.values[prefixed(key)].(string)

	return v
}

// SetString stores value under key.
func (m *Memory) SetString(key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[prefixed(key)] = value
}
