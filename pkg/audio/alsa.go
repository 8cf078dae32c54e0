package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoUSBAudio is returned when no USB sound card is present.
var ErrNoUSBAudio = errors.New("audio: no USB audio interface detected")

const asoundrcTemplate = `pcm.!default {
    type hw
    card %s
}
ctl.!default {
    type hw
    card %s
}
`

// DetectUSBCard finds the ALSA card number of the first USB audio
// device by parsing `aplay -l` output.
func DetectUSBCard() (string, error) {
	out, err := exec.Command("aplay", "-l").Output()
	if err != nil {
		return "", fmt.Errorf("audio: list sound cards: %w", err)
	}
	return parseUSBCard(string(out))
}

func parseUSBCard(aplayOutput string) (string, error) {
	for _, line := range strings.Split(strings.TrimSpace(aplayOutput), "\n") {
		if !strings.Contains(line, "USB Audio Device") {
			continue
		}
		// "card N: ..." — the card number follows the first space.
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "card" {
			return strings.TrimSuffix(fields[1], ":"), nil
		}
	}
	return "", ErrNoUSBAudio
}

// SetupDefaultCard pins the ALSA default pcm and ctl devices to the
// given card by rewriting ~/.asoundrc. The sox play/rec processes pick
// the default device up from there.
func SetupDefaultCard(card string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("audio: resolve home dir: %w", err)
	}
	content := fmt.Sprintf(asoundrcTemplate, card, card)
	path := filepath.Join(home, ".asoundrc")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("audio: write %s: %w", path, err)
	}
	return nil
}
