// Package watch provides the file-watching core of scriptwatch. It wraps a
// recursive directory watch filtered to one tracked file extension, and a
// lifecycle controller that owns at most one live watch at a time, driven
// by persisted configuration and host lifecycle events.
package watch
