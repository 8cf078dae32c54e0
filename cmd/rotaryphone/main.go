// Command rotaryphone runs the rotary dial phone controller: it wires
// the GPIO hook and pulse lines to the call state machine and records
// answers through the sox play/rec tools.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arzzra/rotary_phone/pkg/audio"
	"github.com/arzzra/rotary_phone/pkg/gpio"
	"github.com/arzzra/rotary_phone/pkg/phone"
)

func main() {
	var (
		configPath    = flag.String("config", "", "Path to YAML config file")
		hookPin       = flag.Int("hook-pin", -1, "Hook switch BCM pin (overrides config)")
		pulsePin      = flag.Int("pulse-pin", -1, "Pulse contact BCM pin (overrides config)")
		soundDir      = flag.String("sound-dir", "", "Directory with dial.mp3, beep.mp3, beep-long.mp3")
		recordingsDir = flag.String("recordings-dir", "", "Root directory for recordings")
		metricsListen = flag.String("metrics-listen", "", "Expose prometheus metrics on this address (empty = off)")
		logLevel      = flag.String("log-level", "", "Log level: debug, info, warn, error")
		skipAlsa      = flag.Bool("skip-alsa-setup", false, "Skip USB sound card detection and ~/.asoundrc setup")
	)
	flag.Parse()

	cfg := phone.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = phone.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *hookPin >= 0 {
		cfg.HookPin = *hookPin
	}
	if *pulsePin >= 0 {
		cfg.PulsePin = *pulsePin
	}
	if *soundDir != "" {
		cfg.SoundDir = *soundDir
	}
	if *recordingsDir != "" {
		cfg.RecordingsDir = *recordingsDir
	}
	if *metricsListen != "" {
		cfg.MetricsListen = *metricsListen
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log := newLogger(cfg.LogLevel)

	if !*skipAlsa {
		card, err := audio.DetectUSBCard()
		if err != nil {
			log.Error("sound card detection failed", "error", err)
			os.Exit(1)
		}
		if err := audio.SetupDefaultCard(card); err != nil {
			log.Error("alsa setup failed", "error", err)
			os.Exit(1)
		}
		log.Info("alsa default device configured", "card", card)
	}

	// An unconfigured hardware interface is fatal: the controller must
	// not run half-wired.
	hookLine, err := gpio.OpenLine(cfg.HookPin, gpio.EdgeBoth)
	if err != nil {
		log.Error("open hook line", "error", err)
		os.Exit(1)
	}
	defer hookLine.Close()
	pulseLine, err := gpio.OpenLine(cfg.PulsePin, gpio.EdgeBoth)
	if err != nil {
		log.Error("open pulse line", "error", err)
		os.Exit(1)
	}
	defer pulseLine.Close()

	hookWatcher := gpio.WatchLine(hookLine, cfg.EdgeDebounce)
	defer hookWatcher.Close()

	p, err := phone.New(cfg, phone.Deps{
		Hook:       hookLine,
		HookEvents: hookWatcher,
		Pulse:      pulseLine,
		Player:     audio.NewPlayer(log),
		Recorder:   audio.NewRecorder(cfg.RecordingsDir, log),
		Logger:     log,
	})
	if err != nil {
		log.Error("controller init failed", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutting down", "signal", sig.String())
		p.Stop()
	}()

	if cfg.MetricsListen != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(p.Registry(), promhttp.HandlerOpts{}))
			log.Info("metrics endpoint up", "addr", cfg.MetricsListen)
			if err := http.ListenAndServe(cfg.MetricsListen, mux); err != nil {
				log.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	if err := p.Run(context.Background()); err != nil {
		log.Error("controller exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}
