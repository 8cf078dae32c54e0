package audio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Recorder captures audio into per-number directories through an
// external recorder process. Each recording gets the first unused
// numbered file in its directory, so repeated calls to the same number
// never overwrite earlier ones.
type Recorder struct {
	// Command is the recorder binary, "rec" from sox by default.
	Command string

	root string
	log  *slog.Logger
	proc process
}

// NewRecorder creates a Recorder writing below root.
func NewRecorder(root string, log *slog.Logger) *Recorder {
	return &Recorder{Command: "rec", root: root, log: log.With("component", "recorder")}
}

// Record starts recording for the given dialed number. The number's
// directory is created if absent. Returns after the process started;
// capture runs until Stop.
func (r *Recorder) Record(number string) error {
	dir := filepath.Join(r.root, number)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("audio: create recording dir %s: %w", dir, err)
	}
	out := nextFreeFile(dir)
	if err := r.proc.start(r.Command, "-t", "mp3", out); err != nil {
		return fmt.Errorf("audio: start recording %s: %w", out, err)
	}
	r.log.Info("recording started", "number", number, "file", out)
	return nil
}

// Stop terminates the current recording. No-op when idle.
func (r *Recorder) Stop() {
	r.proc.stop()
}

// Running reports whether a recording process is alive.
func (r *Recorder) Running() bool { return r.proc.running() }

// nextFreeFile returns the first of dir/1.mp3, dir/2.mp3, ... that does
// not exist yet.
func nextFreeFile(dir string) string {
	for i := 1; ; i++ {
		path := filepath.Join(dir, strconv.Itoa(i)+".mp3")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}
