package gpio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const sysfsRoot = "/sys/class/gpio"

// Line is a sysfs-backed digital input. It exports the pin on open and
// keeps the value file descriptor for the lifetime of the line so that
// both polling reads and edge waits go through the same fd.
type Line struct {
	pin   int
	dir   string
	value *os.File

	mu     sync.Mutex
	closed bool
}

// OpenLine exports the given pin (BCM numbering), configures it as an
// input with the requested edge reporting, and opens its value
// attribute. Any failure wraps ErrLineUnavailable.
func OpenLine(pin int, edge Edge) (*Line, error) {
	dir := filepath.Join(sysfsRoot, fmt.Sprintf("gpio%d", pin))

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := writeAttr(filepath.Join(sysfsRoot, "export"), strconv.Itoa(pin)); err != nil {
			return nil, fmt.Errorf("%w: export pin %d: %v", ErrLineUnavailable, pin, err)
		}
		// The kernel creates the attribute files asynchronously.
		if err := waitForAttr(filepath.Join(dir, "direction")); err != nil {
			return nil, fmt.Errorf("%w: pin %d: %v", ErrLineUnavailable, pin, err)
		}
	}

	if err := writeAttr(filepath.Join(dir, "direction"), "in"); err != nil {
		return nil, fmt.Errorf("%w: direction pin %d: %v", ErrLineUnavailable, pin, err)
	}
	if err := writeAttr(filepath.Join(dir, "edge"), edge.String()); err != nil {
		return nil, fmt.Errorf("%w: edge pin %d: %v", ErrLineUnavailable, pin, err)
	}

	value, err := os.OpenFile(filepath.Join(dir, "value"), os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: value pin %d: %v", ErrLineUnavailable, pin, err)
	}

	return &Line{pin: pin, dir: dir, value: value}, nil
}

// Read returns the current logical level of the line.
func (l *Line) Read(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false, ErrClosed
	}
	var buf [1]byte
	if _, err := l.value.ReadAt(buf[:], 0); err != nil {
		return false, fmt.Errorf("gpio: read pin %d: %w", l.pin, err)
	}
	return buf[0] == '1', nil
}

// Close releases the value fd. The pin stays exported; re-exporting an
// already exported pin on the next start is handled by OpenLine.
func (l *Line) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.value.Close()
}

// Pin returns the BCM pin number of the line.
func (l *Line) Pin() int { return l.pin }

func writeAttr(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(value)
	return err
}

func waitForAttr(path string) error {
	deadline := time.Now().Add(time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("attribute %s did not appear", path)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
