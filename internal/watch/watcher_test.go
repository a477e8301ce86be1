package watch

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_SignalsTrackedChanges(t *testing.T) {
	var signals atomic.Int32

	provider := &fakeProvider{}
	w := NewWatcher(provider, ".cs", func() { signals.Add(1) })

	require.NoError(t, w.Init("Assets/Scripts/"))

	provider.deliver("Assets/Scripts/Player.cs")
	assert.Equal(t, int32(1), signals.Load())
}

func TestWatcher_InitFailurePropagates(t *testing.T) {
	provider := &fakeProvider{failWith: ErrPermissionDenied}
	w := NewWatcher(provider, ".cs", func() {})

	err := w.Init("Assets/Scripts/")
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestWatcher_DestroySuppressesLateEvents(t *testing.T) {
	var signals atomic.Int32

	provider := &fakeProvider{}
	w := NewWatcher(provider, ".cs", func() { signals.Add(1) })

	require.NoError(t, w.Init("Assets/Scripts/"))
	w.Destroy()

	// Events the OS delivers after destroy must not signal.
	provider.deliver("Assets/Scripts/Player.cs")
	assert.Equal(t, int32(0), signals.Load())

	_, disposes := provider.counts()
	assert.Equal(t, 1, disposes)
}

func TestWatcher_DestroyIdempotent(t *testing.T) {
	provider := &fakeProvider{}
	w := NewWatcher(provider, ".cs", func() {})

	require.NoError(t, w.Init("Assets/Scripts/"))

	w.Destroy()
	w.Destroy()
	w.Destroy()

	_, disposes := provider.counts()
	assert.Equal(t, 1, disposes, "repeated destroy must release the handle once")
}

func TestWatcher_DestroyUninitialized(t *testing.T) {
	w := NewWatcher(&fakeProvider{}, ".cs", func() {})

	assert.NotPanics(t, w.Destroy)
}
