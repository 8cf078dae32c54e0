package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProcessStopInterrupts checks that stop terminates a long-running
// process instead of waiting it out.
func TestProcessStopInterrupts(t *testing.T) {
	var p process
	require.NoError(t, p.start("sleep", "60"))
	require.True(t, p.running())

	done := make(chan struct{})
	go func() {
		p.stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stop did not terminate the process")
	}
	assert.False(t, p.running())
}

// TestProcessStopIdleIsNoop checks stop with nothing running.
func TestProcessStopIdleIsNoop(t *testing.T) {
	var p process
	p.stop()
	p.stop()
	assert.False(t, p.running())
}

// TestProcessWaitReapsNaturalExit checks wait on a process that ends
// on its own.
func TestProcessWaitReapsNaturalExit(t *testing.T) {
	var p process
	require.NoError(t, p.start("true"))
	p.wait()
	assert.False(t, p.running())
}

// TestProcessStartSupersedes checks that starting a new process
// terminates the previous one for the role.
func TestProcessStartSupersedes(t *testing.T) {
	var p process
	require.NoError(t, p.start("sleep", "60"))
	require.NoError(t, p.start("sleep", "60"))
	require.True(t, p.running())
	p.stop()
	assert.False(t, p.running())
}

// TestProcessWaitUnblockedByStop checks the prompt-playback pattern: a
// waiter is released when another goroutine stops the process.
func TestProcessWaitUnblockedByStop(t *testing.T) {
	var p process
	require.NoError(t, p.start("sleep", "60"))

	waited := make(chan struct{})
	go func() {
		p.wait()
		close(waited)
	}()
	time.Sleep(50 * time.Millisecond)
	p.stop()

	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("wait was not unblocked by stop")
	}
}

func TestProcessStartFailure(t *testing.T) {
	var p process
	err := p.start("/nonexistent/binary")
	assert.Error(t, err)
	assert.False(t, p.running())
	p.stop() // must stay safe after a failed start
}
