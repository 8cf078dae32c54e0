package audio

import (
	"fmt"
	"log/slog"
	"os"
)

// Player plays audio files through an external player process. At most
// one playback is alive at a time; Play supersedes a running one.
type Player struct {
	// Command is the player binary, "play" from sox by default.
	// Tests substitute a harmless command here.
	Command string

	log  *slog.Logger
	proc process
}

// NewPlayer creates a Player logging through the given logger.
func NewPlayer(log *slog.Logger) *Player {
	return &Player{Command: "play", log: log.With("component", "player")}
}

// Play starts playback of path and returns without waiting for it to
// finish. A missing file is reported and skipped: the previous playback
// keeps running and ErrNoSuchFile is returned.
func (p *Player) Play(path string) error {
	if _, err := os.Stat(path); err != nil {
		p.log.Error("playback source missing", "path", path)
		return fmt.Errorf("%w: %s", ErrNoSuchFile, path)
	}
	if err := p.proc.start(p.Command, path); err != nil {
		return fmt.Errorf("audio: start playback %s: %w", path, err)
	}
	p.log.Debug("playback started", "path", path)
	return nil
}

// PlayAndWait plays path and blocks until the player process exits,
// either naturally or because Stop was called from another goroutine.
func (p *Player) PlayAndWait(path string) error {
	if err := p.Play(path); err != nil {
		return err
	}
	p.Wait()
	return nil
}

// Wait blocks until the current playback exits. Returns immediately
// when nothing plays.
func (p *Player) Wait() {
	p.proc.wait()
}

// Stop terminates the current playback. No-op when nothing plays.
func (p *Player) Stop() {
	p.proc.stop()
}

// Running reports whether a playback process is alive.
func (p *Player) Running() bool { return p.proc.running() }
