package gpio

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// pollTimeout bounds each poll(2) call so the watcher notices Close
// even when the line never moves.
const pollTimeout = 100 * time.Millisecond

// LineWatcher turns sysfs edge interrupts into debounced Events. Sysfs
// signals an edge by raising POLLPRI on the value fd; the watcher polls
// that fd on its own goroutine and re-reads the level after each wake.
type LineWatcher struct {
	line     *Line
	debounce time.Duration
	events   chan Event

	closeOnce sync.Once
	done      chan struct{}
}

// WatchLine starts edge watching on an already opened line. Edges
// closer together than debounce are collapsed into the first one,
// absorbing contact chatter the hardware filter lets through.
func WatchLine(line *Line, debounce time.Duration) *LineWatcher {
	w := &LineWatcher{
		line:     line,
		debounce: debounce,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *LineWatcher) Events() <-chan Event { return w.events }

// Close stops the watching goroutine. The underlying Line is not
// closed; close it separately.
func (w *LineWatcher) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	return nil
}

func (w *LineWatcher) run() {
	// A pending interrupt from before our subscription would fire
	// immediately; consume the current value once to clear it.
	var buf [1]byte
	_, _ = w.line.value.ReadAt(buf[:], 0)

	var lastEdge time.Time
	fds := []unix.PollFd{{
		Fd:     int32(w.line.value.Fd()),
		Events: unix.POLLPRI | unix.POLLERR,
	}}

	for {
		select {
		case <-w.done:
			return
		default:
		}

		fds[0].Revents = 0
		n, err := unix.Poll(fds, int(pollTimeout.Milliseconds()))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if n == 0 || fds[0].Revents&unix.POLLPRI == 0 {
			continue
		}

		if _, err := w.line.value.ReadAt(buf[:], 0); err != nil {
			return
		}
		now := time.Now()
		if now.Sub(lastEdge) < w.debounce {
			continue
		}
		lastEdge = now

		ev := Event{Level: buf[0] == '1', Time: now}
		select {
		case w.events <- ev:
		default:
			// Consumer is behind; drop rather than block the poll loop.
		}
	}
}
