package audio

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNextFreeFile checks the collision-free naming: with 1.mp3 and
// 2.mp3 present the next recording goes to 3.mp3.
func TestNextFreeFile(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "1.mp3"), nextFreeFile(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.mp3"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.mp3"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "3.mp3"), nextFreeFile(dir))
}

// TestNextFreeFileFillsGaps checks that the first unused index wins
// even when later ones exist.
func TestNextFreeFileFillsGaps(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.mp3"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "1.mp3"), nextFreeFile(dir))
}

// TestRecordCreatesNumberDirectory checks that recording for a new
// number creates its directory.
func TestRecordCreatesNumberDirectory(t *testing.T) {
	root := t.TempDir()
	r := NewRecorder(root, discardLogger())
	r.Command = "sleep" // stand-in for rec; swallows the arguments

	require.NoError(t, r.Record("42"))
	defer r.Stop()

	info, err := os.Stat(filepath.Join(root, "42"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRecorderStopIdleIsNoop(t *testing.T) {
	r := NewRecorder(t.TempDir(), discardLogger())
	r.Stop()
	r.Stop()
	assert.False(t, r.Running())
}

// TestPlayerMissingFile checks that a playback request for an absent
// file is skipped with ErrNoSuchFile.
func TestPlayerMissingFile(t *testing.T) {
	p := NewPlayer(discardLogger())
	err := p.Play(filepath.Join(t.TempDir(), "absent.mp3"))
	require.ErrorIs(t, err, ErrNoSuchFile)
	assert.False(t, p.Running())
}

// TestPlayerPlayAndStop checks the fire-and-forget path with a
// harmless stand-in command.
func TestPlayerPlayAndStop(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tone.mp3")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	p := NewPlayer(discardLogger())
	p.Command = "cat" // stand-in for play; exits after reading the file
	require.NoError(t, p.Play(file))
	p.Stop()
	assert.False(t, p.Running())
}

// TestPlayerPlayAndWait checks the blocking path used for the record
// prompt.
func TestPlayerPlayAndWait(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prompt.mp3")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	p := NewPlayer(discardLogger())
	p.Command = "cat"
	require.NoError(t, p.PlayAndWait(file))
	assert.False(t, p.Running())
}
