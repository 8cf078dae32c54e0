package phone

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arzzra/rotary_phone/pkg/gpio"
)

// Player is the playback side of the audio surface the phone drives.
// *audio.Player satisfies it.
type Player interface {
	Play(path string) error
	// Wait blocks until the current playback exits, naturally or via
	// Stop from another goroutine.
	Wait()
	Stop()
}

// Recorder is the capture side of the audio surface. *audio.Recorder
// satisfies it.
type Recorder interface {
	Record(number string) error
	Stop()
}

// Deps are the external collaborators a Phone is wired to.
type Deps struct {
	// Hook reads the hook switch level; true means handset on cradle.
	Hook gpio.Input
	// HookEvents is the debounced edge feed for the hook switch pin.
	HookEvents gpio.Watcher
	// Pulse reads the rotary pulse contact level; true means a pulse
	// is in progress.
	Pulse gpio.Input

	Player   Player
	Recorder Recorder
	Logger   *slog.Logger
}

func (d Deps) validate() error {
	if d.Hook == nil || d.HookEvents == nil || d.Pulse == nil {
		return errors.New("phone: gpio inputs must be set")
	}
	if d.Player == nil || d.Recorder == nil {
		return errors.New("phone: audio surface must be set")
	}
	return nil
}

// Phone is the rotary phone controller: one call state machine, the
// two hardware monitor loops driving it, and the audio side effects of
// its transitions. The two loops are the only writers; each transition
// together with its entry/exit actions runs under one mutex, so
// actions of different transitions never interleave.
type Phone struct {
	cfg Config
	log *slog.Logger

	hook       gpio.Input
	hookEvents gpio.Watcher
	pulse      gpio.Input
	player     Player
	recorder   Recorder

	transMu sync.Mutex
	machine *fsm.FSM
	callID  string // uuid of the call in flight, guarded by transMu

	reg *prometheus.Registry
	met *metrics

	stopOnce sync.Once
	done     chan struct{}
}

// New wires a Phone from its configuration and collaborators. The
// state machine starts in Idle.
func New(cfg Config, deps Deps) (*Phone, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	p := &Phone{
		cfg:        cfg,
		log:        deps.Logger.With("component", "phone"),
		hook:       deps.Hook,
		hookEvents: deps.HookEvents,
		pulse:      deps.Pulse,
		player:     deps.Player,
		recorder:   deps.Recorder,
		reg:        prometheus.NewRegistry(),
		done:       make(chan struct{}),
	}
	p.met = newMetrics(p.reg)

	p.machine = fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: EventPickup, Src: []string{string(StateIdle)}, Dst: string(StateDialing)},
			{Name: EventDial, Src: []string{string(StateDialing)}, Dst: string(StateAnswering)},
			{Name: EventAnswer, Src: []string{string(StateAnswering)}, Dst: string(StateIdle)},
			{Name: EventHangUp, Src: []string{
				string(StateIdle), string(StateDialing), string(StateAnswering),
			}, Dst: string(StateIdle)},
		},
		fsm.Callbacks{
			"enter_" + string(StateIdle):      p.enterIdle,
			"leave_" + string(StateIdle):      p.leaveIdle,
			"enter_" + string(StateDialing):   p.enterDialing,
			"leave_" + string(StateDialing):   p.leaveDialing,
			"enter_" + string(StateAnswering): p.enterAnswering,
		},
	)
	p.met.setState(StateIdle)
	return p, nil
}

// State returns the current call state.
func (p *Phone) State() CallState {
	return CallState(p.machine.Current())
}

// Registry exposes the phone's metrics registry for HTTP export.
func (p *Phone) Registry() *prometheus.Registry { return p.reg }

// Run starts both monitor loops and blocks until they exit, which
// happens when ctx is cancelled or Stop is called.
func (p *Phone) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-p.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	p.log.Info("controller started",
		"hook_pin", p.cfg.HookPin, "pulse_pin", p.cfg.PulsePin)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.hookLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		p.dialLoop(ctx)
	}()
	wg.Wait()

	// No orphaned sox process may survive the loops.
	p.recorder.Stop()
	p.player.Stop()
	p.log.Info("controller stopped")
	return nil
}

// Stop requests shutdown and force-stops any live audio process. It is
// idempotent and safe to call from a signal handler.
func (p *Phone) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.player.Stop()
		p.recorder.Stop()
	})
}

// fire applies one event to the state machine. The mutex serializes
// the state read, the flip and the entry/exit actions end to end
// against the other monitor loop. Invalid events are logged and
// absorbed; they must never take a loop down.
func (p *Phone) fire(ctx context.Context, event string, args ...interface{}) bool {
	p.transMu.Lock()
	defer p.transMu.Unlock()

	err := p.machine.Event(ctx, event, args...)
	if err == nil {
		p.met.transitions.WithLabelValues(event).Inc()
		p.met.setState(p.State())
		return true
	}

	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		// hang_up from Idle: looplab skips state callbacks on a
		// self-loop, but entering Idle must still stop audio.
		if event == EventHangUp {
			p.enterIdle(ctx, nil)
		}
		p.met.transitions.WithLabelValues(event).Inc()
		return true
	}

	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) {
		p.log.Debug("transition rejected",
			"event", event, "state", invalid.State)
		p.met.rejected.WithLabelValues(event).Inc()
		return false
	}

	p.log.Error("transition failed", "event", event, "error", err)
	return false
}

// Callbacks below run with transMu held.

func (p *Phone) leaveIdle(_ context.Context, _ *fsm.Event) {
	p.callID = uuid.NewString()
	p.log.Info("handset lifted", "call_id", p.callID)
}

func (p *Phone) enterDialing(_ context.Context, _ *fsm.Event) {
	p.log.Info("playing dial tone", "call_id", p.callID)
	if err := p.player.Play(p.cfg.DialTonePath()); err != nil {
		p.log.Warn("dial tone unavailable", "error", err)
	}
}

func (p *Phone) leaveDialing(_ context.Context, _ *fsm.Event) {
	p.player.Stop()
}

func (p *Phone) enterAnswering(_ context.Context, e *fsm.Event) {
	number := ""
	if len(e.Args) > 0 {
		number, _ = e.Args[0].(string)
	}
	p.met.numbersDialed.Inc()
	p.log.Info("number dialed", "number", number, "call_id", p.callID)

	// The prompt-then-record sequence blocks on playback completion,
	// which must not hold up transitions: run it on its own goroutine
	// and let it re-check the state before recording.
	go p.answerCall(number, p.callID)
}

func (p *Phone) enterIdle(_ context.Context, _ *fsm.Event) {
	if p.callID != "" {
		p.log.Info("hung up", "call_id", p.callID)
	}
	p.callID = ""
	p.recorder.Stop()
	p.player.Stop()
}

// answerCall plays the prompt to completion and starts the recording,
// unless the call ended meanwhile. Runs outside the transition mutex;
// it re-acquires it around the two state-dependent sections so a
// concurrent hang_up either precedes them (and they back off) or
// interrupts the playback/recording it finds running.
func (p *Phone) answerCall(number, callID string) {
	log := p.log.With("number", number, "call_id", callID)

	p.transMu.Lock()
	if p.State() != StateAnswering || p.callID != callID {
		p.transMu.Unlock()
		return
	}
	err := p.player.Play(p.cfg.PromptPath())
	p.transMu.Unlock()
	if err != nil {
		log.Warn("prompt unavailable, recording without it", "error", err)
	} else {
		p.player.Wait()
	}

	p.transMu.Lock()
	defer p.transMu.Unlock()
	if p.State() != StateAnswering || p.callID != callID {
		log.Debug("call ended before recording started")
		return
	}
	log.Info("recording answer")
	if err := p.recorder.Record(number); err != nil {
		// Device failure kills this action only; hang_up still works.
		log.Error("recording failed", "error", err)
	}
}

// sleepCtx pauses for d, returning false early when ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
