// Package settings provides the key-value persistence layer for the
// watcher's per-project configuration. Values are addressed by short keys
// under a fixed namespace prefix, mirroring how editor-style preference
// stores work, so the watcher core stays decoupled from any concrete
// storage backend.
package settings

// Keys used by the watcher lifecycle controller.
const (
	KeyEnabled   = "enabled"
	KeyPath      = "path"
	KeyExtension = "extension"
)

// keyPrefix namespaces all scriptwatch values inside a shared store.
const keyPrefix = "scriptwatch."

// Store is the persistence surface the watcher core depends on. Getters
// return the zero value for missing keys; setters persist write-through.
type Store interface {
	GetBool(key string) bool
	SetBool(key string, value bool)
	GetString(key string) string
	SetString(key string, value string)
}

// prefixed returns the fully-qualified storage key.
func prefixed(key string) string {
	return keyPrefix + key
}
