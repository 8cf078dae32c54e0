package phone

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedPulses replays a train of n pulses into the decoder on a
// synthetic clock. It returns the finalized digit and the clock after
// the finalizing sample.
func feedPulses(t *testing.T, dec *pulseDecoder, n int, now time.Time) (int, time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, finalized, settle := dec.Sample(true, now)
		require.True(t, settle, "rising edge should request a settle pause")
		require.False(t, finalized, "rising edge must not finalize")
		now = now.Add(60 * time.Millisecond)

		_, finalized, settle = dec.Sample(false, now)
		require.True(t, settle, "falling edge should request a settle pause")
		require.False(t, finalized, "falling edge must not finalize")
		now = now.Add(40 * time.Millisecond)
	}
	digit, finalized, settle := dec.Sample(false, now)
	require.True(t, finalized, "stable rest after a train should finalize")
	require.False(t, settle)
	return digit, now
}

// TestDecoderPulseCounts checks the rotary mapping: n pulses decode to
// digit n, ten pulses decode to 0.
func TestDecoderPulseCounts(t *testing.T) {
	for n := 1; n <= 10; n++ {
		t.Run(fmt.Sprintf("%d_pulses", n), func(t *testing.T) {
			dec := newPulseDecoder(1500 * time.Millisecond)
			digit, _ := feedPulses(t, dec, n, time.Now())
			want := n % 10
			assert.Equal(t, want, digit, "count %d should decode to %d", n, want)
		})
	}
}

// TestDecoderGapFlush checks that the inter-digit gap flushes exactly
// the accumulated digits as one number, and only once.
func TestDecoderGapFlush(t *testing.T) {
	dec := newPulseDecoder(1500 * time.Millisecond)
	now := time.Now()

	digit, now := feedPulses(t, dec, 4, now)
	require.Equal(t, 4, digit)
	digit, now = feedPulses(t, dec, 2, now.Add(200*time.Millisecond))
	require.Equal(t, 2, digit)

	_, ok := dec.Flush(now.Add(time.Second))
	assert.False(t, ok, "gap not yet elapsed, nothing to flush")

	number, ok := dec.Flush(now.Add(2 * time.Second))
	require.True(t, ok, "gap elapsed with pending digits")
	assert.Equal(t, "42", number)

	_, ok = dec.Flush(now.Add(10 * time.Second))
	assert.False(t, ok, "accumulator already flushed, must not flush empty")
}

// TestDecoderNeverFlushesEmpty checks that silence alone produces no
// number.
func TestDecoderNeverFlushesEmpty(t *testing.T) {
	dec := newPulseDecoder(1500 * time.Millisecond)
	now := time.Now()
	for i := 0; i < 100; i++ {
		_, finalized, _ := dec.Sample(false, now)
		require.False(t, finalized)
		_, ok := dec.Flush(now)
		require.False(t, ok, "no digits, no flush")
		now = now.Add(time.Second)
	}
}

// TestDecoderStuckContact checks that a contact held active never
// finalizes a digit: the fault mode of a jammed dial is silence, not a
// bogus number.
func TestDecoderStuckContact(t *testing.T) {
	dec := newPulseDecoder(1500 * time.Millisecond)
	now := time.Now()

	_, finalized, _ := dec.Sample(true, now)
	require.False(t, finalized)
	for i := 0; i < 100; i++ {
		now = now.Add(time.Second)
		_, finalized, settle := dec.Sample(true, now)
		require.False(t, finalized, "stuck-active contact must not finalize")
		require.False(t, settle)
		_, ok := dec.Flush(now)
		require.False(t, ok)
	}
}

// TestDecoderReset checks that Reset discards an in-flight count and
// pending digits.
func TestDecoderReset(t *testing.T) {
	dec := newPulseDecoder(1500 * time.Millisecond)
	_, now := feedPulses(t, dec, 7, time.Now())

	dec.Reset(now)
	_, ok := dec.Flush(now.Add(time.Hour))
	assert.False(t, ok, "reset must drop pending digits")
}
