package phone

import (
	"context"
	"time"
)

// dialIdleInterval paces the loop while the phone is not dialing. The
// dialing-state poll itself stays tight: rotary pulses are tens of
// milliseconds wide and must not be sampled slower than that.
const dialIdleInterval = 10 * time.Millisecond

// dialLoop polls the pulse contact and feeds the decoder while the
// phone is in Dialing. A completed number fires the dial transition;
// outside Dialing the decoder is kept reset so an un-driven line
// cannot accumulate digits.
func (p *Phone) dialLoop(ctx context.Context) {
	log := p.log.With("component", "dial")
	log.Debug("dial monitor running")

	dec := newPulseDecoder(p.cfg.InterDigitGap)
	for {
		select {
		case <-ctx.Done():
			log.Debug("dial monitor stopped")
			return
		default:
		}

		if p.State() != StateDialing {
			dec.Reset(time.Now())
			sleepCtx(ctx, dialIdleInterval)
			continue
		}

		level, err := p.pulse.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Error("read pulse contact", "error", err)
			sleepCtx(ctx, dialIdleInterval)
			continue
		}

		now := time.Now()
		digit, finalized, settle := dec.Sample(level, now)
		if settle {
			sleepCtx(ctx, p.cfg.PulseSettle)
			continue
		}
		if finalized {
			// First digit of the train also cuts the dial tone.
			p.player.Stop()
			p.met.digitsDecoded.Inc()
			log.Debug("digit decoded", "digit", digit)
		}

		if number, ok := dec.Flush(now); ok {
			p.fire(ctx, EventDial, number)
		}
	}
}
