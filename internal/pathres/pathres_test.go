package pathres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// existsAll accepts every canonical path.
func existsAll(string) bool { return true }

// existsOnly accepts exactly the listed canonical paths.
func existsOnly(paths ...string) ExistsFunc {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}

	return func(p string) bool { return set[p] }
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		exists  ExistsFunc
		want    string
		wantErr error
	}{
		{"empty input", "", existsAll, "", ErrNoPath},
		{"dot collapses to root", ".", existsAll, "", ErrNoPath},
		{"bare slash collapses to root", "/", existsAll, "", ErrNoPath},
		{"simple subdirectory", "Scripts", existsAll, "Assets/Scripts/", nil},
		{"leading slash stripped", "/Scripts", existsAll, "Assets/Scripts/", nil},
		{"trailing slash preserved", "Scripts/", existsAll, "Assets/Scripts/", nil},
		{"already prefixed", "Assets/Scripts", existsAll, "Assets/Scripts/", nil},
		{"already canonical", "Assets/Scripts/", existsAll, "Assets/Scripts/", nil},
		{"nested subdirectory", "Scripts/Editor", existsAll, "Assets/Scripts/Editor/", nil},
		{"explicit asset root allowed by resolver", "Assets/", existsAll, "Assets/", nil},
		{"missing directory", "Scripts", existsOnly("Assets/"), "", ErrInvalidPath},
		{"traversal out of root", "../etc", existsAll, "", ErrInvalidPath},
		{"traversal after prefix", "Assets/../etc", existsAll, "", ErrInvalidPath},
		{"bare parent segment", "..", existsAll, "", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("Assets", tt.exists)

			got, err := r.Resolve(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := New("Assets/", existsAll)

	for _, raw := range []string{"Scripts", "/Scripts", "Scripts/", "Assets/Scripts", "Scripts/Editor"} {
		first, err := r.Resolve(raw)
		require.NoError(t, err, "raw %q", raw)

		second, err := r.Resolve(first)
		require.NoError(t, err, "canonical %q", first)
		assert.Equal(t, first, second, "resolve must be idempotent for %q", raw)
	}
}

func TestNew_NormalizesAssetRoot(t *testing.T) {
	assert.Equal(t, "Assets/", New("Assets", existsAll).AssetRoot())
	assert.Equal(t, "Assets/", New("Assets/", existsAll).AssetRoot())
}

func TestDirExists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Assets", "Scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Assets", "readme.txt"), []byte("x"), 0o644))

	exists := DirExists(root)

	assert.True(t, exists("Assets/Scripts/"))
	assert.True(t, exists("Assets/"))
	assert.False(t, exists("Assets/Missing/"))
	assert.False(t, exists("Assets/readme.txt"), "plain files are not watch roots")
}
