package phone

import (
	"context"
	"time"
)

// hookPollInterval paces the non-blocking check of the edge feed.
const hookPollInterval = 10 * time.Millisecond

// hookLoop watches the hook switch. An edge notification triggers a
// level read: off-hook waits out the secondary debounce and fires
// pickup if the phone is still idle; on-hook fires hang_up immediately
// so putting the handset down always ends the call promptly.
func (p *Phone) hookLoop(ctx context.Context) {
	log := p.log.With("component", "hook")
	log.Debug("hook monitor running")

	for {
		select {
		case <-ctx.Done():
			log.Debug("hook monitor stopped")
			return
		default:
		}

		select {
		case <-p.hookEvents.Events():
		default:
			sleepCtx(ctx, hookPollInterval)
			continue
		}

		atRest, err := p.hook.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Error("read hook switch", "error", err)
			continue
		}

		if atRest {
			p.fire(ctx, EventHangUp)
			continue
		}

		// Mechanical bounce outlives the hardware debounce window;
		// settle before trusting the lift.
		if !sleepCtx(ctx, p.cfg.HookDebounce) {
			continue
		}
		if p.State() != StateIdle {
			// Stale or bounced notification mid-call.
			continue
		}
		p.fire(ctx, EventPickup)
	}
}
