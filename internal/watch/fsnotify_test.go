package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptwatch/scriptwatch/internal/mainloop"
	"github.com/scriptwatch/scriptwatch/internal/pathres"
	"github.com/scriptwatch/scriptwatch/internal/settings"
)

// newProjectDir lays out a minimal project tree under a temp root.
func newProjectDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Assets", "Scripts", "Editor"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Assets", ".cache"), 0o755))

	return root
}

func TestFsnotifyProvider_SignalsTrackedWrites(t *testing.T) {
	root := newProjectDir(t)
	file := filepath.Join(root, "Assets", "Scripts", "Player.cs")
	require.NoError(t, os.WriteFile(file, []byte("class Player {}"), 0o644))

	var changes atomic.Int32

	p := NewFsnotifyProvider(root, nil)

	h, err := p.Watch("Assets/Scripts/", ".cs", func(string) { changes.Add(1) })
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	require.NoError(t, os.WriteFile(file, []byte("class Player { int hp; }"), 0o644))

	assert.Eventually(t, func() bool {
		return changes.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond, "write to tracked file should signal")
}

func TestFsnotifyProvider_IgnoresOtherExtensions(t *testing.T) {
	root := newProjectDir(t)

	var changes atomic.Int32

	p := NewFsnotifyProvider(root, nil)

	h, err := p.Watch("Assets/Scripts/", ".cs", func(string) { changes.Add(1) })
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	other := filepath.Join(root, "Assets", "Scripts", "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("scratch"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("more scratch"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), changes.Load())
}

func TestFsnotifyProvider_WatchesSubdirectories(t *testing.T) {
	root := newProjectDir(t)
	nested := filepath.Join(root, "Assets", "Scripts", "Editor", "Tool.cs")
	require.NoError(t, os.WriteFile(nested, []byte("class Tool {}"), 0o644))

	var changes atomic.Int32

	p := NewFsnotifyProvider(root, nil)

	h, err := p.Watch("Assets/Scripts/", ".cs", func(string) { changes.Add(1) })
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	require.NoError(t, os.WriteFile(nested, []byte("class Tool { void Run() {} }"), 0o644))

	assert.Eventually(t, func() bool {
		return changes.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFsnotifyProvider_NoCallbacksAfterClose(t *testing.T) {
	root := newProjectDir(t)
	file := filepath.Join(root, "Assets", "Scripts", "Player.cs")
	require.NoError(t, os.WriteFile(file, []byte("class Player {}"), 0o644))

	var changes atomic.Int32

	p := NewFsnotifyProvider(root, nil)

	h, err := p.Watch("Assets/Scripts/", ".cs", func(string) { changes.Add(1) })
	require.NoError(t, err)

	// Close waits for the forwarding goroutine to drain, so no callback
	// can fire after it returns.
	require.NoError(t, h.Close())
	before := changes.Load()

	require.NoError(t, os.WriteFile(file, []byte("class Player { int hp; }"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, before, changes.Load())
}

func TestFsnotifyProvider_CloseIdempotent(t *testing.T) {
	root := newProjectDir(t)

	p := NewFsnotifyProvider(root, nil)

	h, err := p.Watch("Assets/Scripts/", ".cs", func(string) {})
	require.NoError(t, err)

	require.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}

func TestFsnotifyProvider_MissingDirectory(t *testing.T) {
	p := NewFsnotifyProvider(t.TempDir(), nil)

	_, err := p.Watch("Assets/Missing/", ".cs", func(string) {})
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// End to end: burst of writes → one rebuild on the loop goroutine
// ---------------------------------------------------------------------------

func TestEndToEnd_BurstCoalescesToOneRebuild(t *testing.T) {
	root := newProjectDir(t)
	file := filepath.Join(root, "Assets", "Scripts", "Player.cs")
	require.NoError(t, os.WriteFile(file, []byte("class Player {}"), 0o644))

	store := settings.NewMemory()
	store.SetBool(settings.KeyEnabled, true)
	store.SetString(settings.KeyPath, "Scripts")

	loop := mainloop.NewLoop()

	var rebuilds atomic.Int32
	scheduler := mainloop.NewScheduler(loop, func() error {
		rebuilds.Add(1)
		return nil
	}, nil)

	c := NewController(Options{
		Store:    store,
		Resolver: pathres.New("Assets", pathres.DirExists(root)),
		Provider: NewFsnotifyProvider(root, nil),
		Signal:   scheduler.SignalChange,
	})

	c.Start()
	defer c.Stop()

	state, status := c.Status()
	require.Equal(t, Watching, state, status)

	// Three rapid writes within one tick interval.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte("class Player {}\n// rev"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, scheduler.Pending, 2*time.Second, 10*time.Millisecond,
		"burst should queue a pending rebuild")

	// Let the whole burst arrive before servicing the tick.
	time.Sleep(500 * time.Millisecond)

	loop.Tick()
	assert.Equal(t, int32(1), rebuilds.Load(), "burst coalesces into exactly one rebuild")

	// Quiet period: further ticks do nothing.
	loop.Tick()
	assert.Equal(t, int32(1), rebuilds.Load())
}
