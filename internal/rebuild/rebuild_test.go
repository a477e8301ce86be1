package rebuild

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Success(t *testing.T) {
	out := new(bytes.Buffer)
	r := NewRunner("echo built", time.Minute, out, nil)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "built")
	assert.Contains(t, out.String(), "rebuild → OK")
}

func TestRunner_Failure(t *testing.T) {
	out := new(bytes.Buffer)
	r := NewRunner("false", time.Minute, out, nil)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running rebuild command")
	assert.Contains(t, out.String(), "rebuild → FAILED")
}

func TestRunner_MissingBinary(t *testing.T) {
	r := NewRunner("definitely-not-a-command-12345", time.Minute, io.Discard, nil)

	assert.Error(t, r.Run(context.Background()))
}

func TestRunner_EmptyCommandIsNoOp(t *testing.T) {
	r := NewRunner("", time.Minute, io.Discard, nil)

	assert.NoError(t, r.Run(context.Background()))
}

func TestRunner_Timeout(t *testing.T) {
	r := NewRunner("sleep 10", 50*time.Millisecond, io.Discard, nil)

	start := time.Now()
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
