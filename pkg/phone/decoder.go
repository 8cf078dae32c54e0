package phone

import "time"

// pulseDecoder turns the polled level of the rotary pulse contact into
// digits. A dialed digit arrives as a train of n pulses (ten for "0");
// the decoder counts rising edges, finalizes a digit when the line goes
// quiet after a train, and flushes the accumulated digits as one
// dialed number after the inter-digit gap elapses.
//
// The decoder is owned by the dial monitor goroutine and is not safe
// for concurrent use.
type pulseDecoder struct {
	gap time.Duration

	count        int
	pulseSeen    bool
	lastLevel    bool
	digits       []byte
	lastActivity time.Time
}

func newPulseDecoder(gap time.Duration) *pulseDecoder {
	return &pulseDecoder{gap: gap, lastActivity: time.Now()}
}

// Sample feeds one polled level into the decoder. It returns the
// finalized digit when the sample completes a pulse train, and
// settle=true when the sample was an edge and the caller should pause
// for the contact settle window before reading again.
func (d *pulseDecoder) Sample(level bool, now time.Time) (digit int, finalized, settle bool) {
	if level != d.lastLevel {
		d.lastLevel = level
		if level {
			d.pulseSeen = true
			d.count++
		}
		return 0, false, true
	}

	if !level && d.pulseSeen {
		// Line stable at rest after a registered train: one digit done.
		digit = d.count % 10 // ten pulses encode "0"
		d.digits = append(d.digits, byte('0'+digit))
		d.count = 0
		d.pulseSeen = false
		d.lastActivity = now
		return digit, true, false
	}

	return 0, false, false
}

// Flush returns the accumulated digits as a complete number once the
// inter-digit gap has elapsed with no pulse activity. It never flushes
// an empty accumulator.
func (d *pulseDecoder) Flush(now time.Time) (string, bool) {
	if len(d.digits) == 0 || now.Sub(d.lastActivity) <= d.gap {
		return "", false
	}
	number := string(d.digits)
	d.digits = nil
	d.lastActivity = now
	return number, true
}

// Reset discards all in-flight decoder state. Called whenever the
// phone is not dialing so an un-driven pulse line cannot accumulate
// spurious digits.
func (d *pulseDecoder) Reset(now time.Time) {
	d.count = 0
	d.pulseSeen = false
	d.lastLevel = false
	d.digits = nil
	d.lastActivity = now
}
