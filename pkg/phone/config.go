package phone

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// Sound file names the phone expects inside Config.SoundDir.
const (
	dialToneFile = "dial.mp3"
	beepFile     = "beep.mp3"
	promptFile   = "beep-long.mp3"
)

// Config holds the controller's tunables. Timings default to the
// values measured on the reference hardware; change them only for
// dials with a different pulse cadence.
type Config struct {
	// HookPin and PulsePin are BCM pin numbers of the hook switch and
	// the rotary pulse contact.
	HookPin  int
	PulsePin int

	// PulseSettle is how long the dial loop pauses after an edge to
	// let the contact stop bouncing.
	PulseSettle time.Duration
	// InterDigitGap is the quiet period after which the accumulated
	// digits are taken as the complete number.
	InterDigitGap time.Duration
	// HookDebounce is the secondary settle window applied after an
	// off-hook edge, beyond the hardware debounce.
	HookDebounce time.Duration
	// EdgeDebounce is the hardware-level debounce window for the hook
	// switch edge feed.
	EdgeDebounce time.Duration

	// SoundDir holds dial.mp3, beep.mp3 and beep-long.mp3.
	SoundDir string
	// RecordingsDir is the root below which per-number directories of
	// recordings are created.
	RecordingsDir string

	// MetricsListen enables the prometheus HTTP endpoint when
	// non-empty, e.g. "127.0.0.1:9120". Off by default: the controller
	// exposes no network surface unless asked to.
	MetricsListen string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DefaultConfig returns the configuration of the reference hardware.
func DefaultConfig() Config {
	return Config{
		HookPin:       16,
		PulsePin:      12,
		PulseSettle:   50 * time.Millisecond,
		InterDigitGap: 1500 * time.Millisecond,
		HookDebounce:  750 * time.Millisecond,
		EdgeDebounce:  200 * time.Millisecond,
		SoundDir:      ".",
		RecordingsDir: ".",
		LogLevel:      "info",
	}
}

// fileConfig mirrors Config for the YAML config file. Durations are
// plain milliseconds there; pointer fields distinguish "absent" from
// zero so the file only overrides what it names.
type fileConfig struct {
	HookPin         *int    `yaml:"hook_pin"`
	PulsePin        *int    `yaml:"pulse_pin"`
	PulseSettleMS   *int    `yaml:"pulse_settle_ms"`
	InterDigitGapMS *int    `yaml:"inter_digit_gap_ms"`
	HookDebounceMS  *int    `yaml:"hook_debounce_ms"`
	EdgeDebounceMS  *int    `yaml:"edge_debounce_ms"`
	SoundDir        *string `yaml:"sound_dir"`
	RecordingsDir   *string `yaml:"recordings_dir"`
	MetricsListen   *string `yaml:"metrics_listen"`
	LogLevel        *string `yaml:"log_level"`
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	fc.apply(&cfg)
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.HookPin != nil {
		cfg.HookPin = *fc.HookPin
	}
	if fc.PulsePin != nil {
		cfg.PulsePin = *fc.PulsePin
	}
	if fc.PulseSettleMS != nil {
		cfg.PulseSettle = time.Duration(*fc.PulseSettleMS) * time.Millisecond
	}
	if fc.InterDigitGapMS != nil {
		cfg.InterDigitGap = time.Duration(*fc.InterDigitGapMS) * time.Millisecond
	}
	if fc.HookDebounceMS != nil {
		cfg.HookDebounce = time.Duration(*fc.HookDebounceMS) * time.Millisecond
	}
	if fc.EdgeDebounceMS != nil {
		cfg.EdgeDebounce = time.Duration(*fc.EdgeDebounceMS) * time.Millisecond
	}
	if fc.SoundDir != nil {
		cfg.SoundDir = *fc.SoundDir
	}
	if fc.RecordingsDir != nil {
		cfg.RecordingsDir = *fc.RecordingsDir
	}
	if fc.MetricsListen != nil {
		cfg.MetricsListen = *fc.MetricsListen
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}

// Validate rejects configurations the controller cannot run with.
func (c Config) Validate() error {
	if c.HookPin < 0 || c.PulsePin < 0 {
		return errors.New("config: pin numbers must be non-negative")
	}
	if c.HookPin == c.PulsePin {
		return errors.New("config: hook and pulse pins must differ")
	}
	if c.PulseSettle <= 0 || c.InterDigitGap <= 0 || c.HookDebounce <= 0 {
		return errors.New("config: debounce and gap timings must be positive")
	}
	if c.SoundDir == "" || c.RecordingsDir == "" {
		return errors.New("config: sound and recordings directories must be set")
	}
	return nil
}

// DialTonePath returns the path of the dial tone sound.
func (c Config) DialTonePath() string { return filepath.Join(c.SoundDir, dialToneFile) }

// BeepPath returns the path of the short beep sound.
func (c Config) BeepPath() string { return filepath.Join(c.SoundDir, beepFile) }

// PromptPath returns the path of the "record after the beep" prompt.
func (c Config) PromptPath() string { return filepath.Join(c.SoundDir, promptFile) }
