package gpio

import (
	"context"
	"sync"
	"time"
)

// Fake is an in-memory line for tests. It implements both Input and
// Watcher: SetLevel changes the level and, when it differs from the
// previous one, emits an edge event.
type Fake struct {
	mu     sync.Mutex
	level  bool
	closed bool

	events chan Event
}

// NewFake creates a fake line at the given initial level.
func NewFake(level bool) *Fake {
	return &Fake{level: level, events: make(chan Event, 64)}
}

func (f *Fake) Read(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false, ErrClosed
	}
	return f.level, nil
}

func (f *Fake) Events() <-chan Event { return f.events }

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// SetLevel drives the line to the given level, emitting an edge event
// on change.
func (f *Fake) SetLevel(level bool) {
	f.mu.Lock()
	changed := level != f.level
	f.level = level
	f.mu.Unlock()
	if changed {
		f.events <- Event{Level: level, Time: time.Now()}
	}
}

// Pulse toggles the line to level for hold and back, emitting both
// edges. Used by tests to replay rotary pulse trains.
func (f *Fake) Pulse(level bool, hold time.Duration) {
	f.SetLevel(level)
	time.Sleep(hold)
	f.SetLevel(!level)
}
