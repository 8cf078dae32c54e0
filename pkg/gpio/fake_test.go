package gpio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFakeEmitsEdgesOnChange checks the fake feed only reports real
// level changes.
func TestFakeEmitsEdgesOnChange(t *testing.T) {
	f := NewFake(true)

	f.SetLevel(true) // no change, no event
	f.SetLevel(false)
	f.SetLevel(true)

	require.Len(t, drain(f.Events()), 2, "one event per actual edge")
}

func TestFakeReadTracksLevel(t *testing.T) {
	f := NewFake(true)
	ctx := context.Background()

	level, err := f.Read(ctx)
	require.NoError(t, err)
	assert.True(t, level)

	f.SetLevel(false)
	level, err = f.Read(ctx)
	require.NoError(t, err)
	assert.False(t, level)
}

func TestFakeReadAfterClose(t *testing.T) {
	f := NewFake(false)
	require.NoError(t, f.Close())
	_, err := f.Read(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFakeReadCancelledContext(t *testing.T) {
	f := NewFake(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Read(ctx)
	assert.Error(t, err)
}

func drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		case <-time.After(50 * time.Millisecond):
			return out
		}
	}
}
