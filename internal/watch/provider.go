package watch

import "errors"

// ErrPermissionDenied indicates the OS refused to create a watch on the
// requested directory for lack of access rights.
var ErrPermissionDenied = errors.New("watch permission denied")

// Handle releases one live OS watch. Close must be idempotent.
type Handle interface {
	Close() error
}

// Provider creates recursive directory watches. Implementations deliver
// onChange callbacks on an unspecified goroutine, once per modified file
// whose name carries ext, and must release all partially-created resources
// when returning an error.
type Provider interface {
	Watch(canonical, ext string, onChange func(file string)) (Handle, error)
}
