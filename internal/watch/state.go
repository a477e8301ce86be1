package watch

// State is the watcher lifecycle state. Exactly one State is current at
// any time; every state except Watching has no live watch.
type State int

const (
	// Disabled means the watcher is switched off by configuration.
	Disabled State = iota

	// NoPathSpecified means no usable watch path is configured. Inputs
	// that collapse to the bare asset root land here as well.
	NoPathSpecified

	// PathInvalid means the configured path does not denote an existing
	// directory.
	PathInvalid

	// PermissionDenied means the OS refused to create the watch.
	PermissionDenied

	// Watching means one live watch is active on the canonical path.
	Watching
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Disabled:
		return "Disabled"
	case NoPathSpecified:
		return "NoPathSpecified"
	case PathInvalid:
		return "PathInvalid"
	case PermissionDenied:
		return "PermissionDenied"
	case Watching:
		return "Watching"
	default:
		return "Unknown"
	}
}
