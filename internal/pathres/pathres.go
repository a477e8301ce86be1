// Package pathres normalizes user-supplied watch paths into canonical,
// validated directory paths under the project's asset root.
//
// Canonical paths always use forward slashes, carry exactly one trailing
// slash, and begin with the asset-root prefix (e.g. "Assets/Scripts/").
package pathres

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resolution errors. Both are terminal for the current configuration; the
// caller surfaces them as state, not as a crash.
var (
	// ErrNoPath indicates the input named no directory to watch. An empty
	// input, ".", and inputs that collapse to the bare asset root all map
	// here: watching the entire asset tree from a trivial input is refused
	// as a safety default.
	ErrNoPath = errors.New("no watch path specified")

	// ErrInvalidPath indicates the canonical path does not denote an
	// existing directory.
	ErrInvalidPath = errors.New("watch path does not exist")
)

// ExistsFunc reports whether a canonical path denotes an existing directory.
type ExistsFunc func(path string) bool

// Resolver turns raw user input into canonical watch paths.
type Resolver struct {
	assetRoot string
	exists    ExistsFunc
}

// New constructs a Resolver for the given asset root. The root is
// normalized to carry exactly one trailing slash.
func New(assetRoot string, exists ExistsFunc) *Resolver {
	assetRoot = strings.TrimSuffix(assetRoot, "/") + "/"

	return &Resolver{assetRoot: assetRoot, exists: exists}
}

// AssetRoot returns the normalized asset-root prefix (with trailing slash).
func (r *Resolver) AssetRoot() string {
	return r.assetRoot
}

// Resolve normalizes raw into a canonical watch path. Resolve is idempotent:
// feeding its own output back in yields the same result.
//
// Normalization order: empty input is rejected, "." collapses to the asset
// root, a single leading slash is stripped, exactly one trailing slash is
// enforced, and the asset-root prefix is prepended when missing. The result
// must stay under the asset root after cleaning ".." segments, and it must
// denote an existing directory. An input that only reaches the bare
// asset root because the prefix was prepended (rather than the user naming
// the root explicitly) is rejected with ErrNoPath.
func (r *Resolver) Resolve(raw string) (string, error) {
	if raw == "" {
		return "", ErrNoPath
	}

	p := raw
	if p == "." {
		p = ""
	}

	p = strings.TrimPrefix(p, "/")

	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}

	prepended := false
	if !strings.HasPrefix(p, r.assetRoot) {
		p = r.assetRoot + p
		prepended = true
	}

	// Traversal segments must not lead outside the asset root.
	if !strings.HasPrefix(path.Clean(p)+"/", r.assetRoot) {
		return "", ErrInvalidPath
	}

	if !r.exists(p) {
		return "", ErrInvalidPath
	}

	if p == r.assetRoot && prepended {
		return "", ErrNoPath
	}

	return p, nil
}

// DirExists returns an ExistsFunc that checks canonical paths against the
// filesystem below root.
func DirExists(root string) ExistsFunc {
	return func(path string) bool {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(path)))

		return err == nil && info.IsDir()
	}
}
