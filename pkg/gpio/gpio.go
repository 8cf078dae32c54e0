// Package gpio provides access to digital input lines for the phone
// hardware: the hook switch and the rotary pulse contact. The real
// implementation reads Linux sysfs GPIO; Fake drives lines from tests.
package gpio

import (
	"context"
	"errors"
	"time"
)

// Edge selects which level changes a Watcher reports.
type Edge int

const (
	EdgeRising Edge = iota
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// Event is a single debounced edge notification.
type Event struct {
	// Level is the line level read immediately after the edge.
	Level bool
	Time  time.Time
}

// Input reads the current level of one digital line.
type Input interface {
	// Read returns the instantaneous logical level. With the phone's
	// pull-up wiring, true means the contact is open.
	Read(ctx context.Context) (bool, error)
	Close() error
}

// Watcher delivers edge notifications for one line. The feed is
// best-effort: events arriving faster than the consumer drains them
// are dropped, which is fine for a debounced mechanical switch.
type Watcher interface {
	Events() <-chan Event
	Close() error
}

var (
	// ErrLineUnavailable is returned when a pin cannot be exported or
	// its sysfs attributes cannot be opened. Callers treat this as a
	// fatal startup error: the controller must not run half-wired.
	ErrLineUnavailable = errors.New("gpio: line unavailable")

	// ErrClosed is returned from Read after Close.
	ErrClosed = errors.New("gpio: line closed")
)
