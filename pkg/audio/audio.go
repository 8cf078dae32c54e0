// Package audio supervises the external sox processes the phone uses
// for playback ("play") and capture ("rec"). Each role owns at most one
// live process; starting a new one supersedes the previous.
package audio

import (
	"errors"
	"os/exec"
	"sync"
	"syscall"
)

// ErrNoSuchFile is returned when a playback source does not exist.
var ErrNoSuchFile = errors.New("audio: no such file")

// proc is one launched process plus its reaper. The reaper goroutine is
// the only caller of exec.Cmd.Wait, so stop and wait can both observe
// completion without racing on the Cmd.
type proc struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// process guards a single external audio process per role. Zero value
// is ready to use.
type process struct {
	mu  sync.Mutex
	cur *proc
}

// start terminates any running process for this role, then launches the
// command. The caller does not wait for completion.
func (p *process) start(name string, args ...string) error {
	p.stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	pr := &proc{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(pr.done)
	}()
	p.cur = pr
	return nil
}

// stop terminates the running process, if any, and waits for it to be
// reaped. Safe to call when nothing is running and safe to call
// repeatedly.
func (p *process) stop() {
	p.mu.Lock()
	pr := p.cur
	p.cur = nil
	p.mu.Unlock()

	if pr == nil {
		return
	}
	_ = pr.cmd.Process.Signal(syscall.SIGTERM)
	<-pr.done
}

// wait blocks until the current process exits, then clears it. Returns
// immediately when nothing is running. A SIGTERM from a concurrent stop
// also unblocks the wait; interruption is the intended way to cut audio
// short, so it is not an error.
func (p *process) wait() {
	p.mu.Lock()
	pr := p.cur
	p.mu.Unlock()

	if pr == nil {
		return
	}
	<-pr.done

	p.mu.Lock()
	if p.cur == pr {
		p.cur = nil
	}
	p.mu.Unlock()
}

// running reports whether a process for this role is still alive.
func (p *process) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil {
		return false
	}
	select {
	case <-p.cur.done:
		return false
	default:
		return true
	}
}
