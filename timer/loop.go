package timer

import (
	"context"
	"time"
)

// tickInterval is deliberately coarse. Correctness never depends on tick
// frequency, only on comparing the stored deadline to the current clock.
const tickInterval = time.Second

// startTickLocked launches the recompute loop if it is not already
// running. The loop lives only while the interval is running; every
// transition away from running cancels it.
func (e *Engine) startTickLocked() {
	if e.stopTick != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.stopTick = cancel

	go e.runLoop(ctx)
}

// stopTickLocked cancels the recompute loop. Stopping the ticks is an
// efficiency measure, not a correctness requirement: a late or missing
// tick only delays the deadline check, never corrupts it.
func (e *Engine) stopTickLocked() {
	if e.stopTick == nil {
		return
	}

	e.stopTick()
	e.stopTick = nil
}

func (e *Engine) runLoop(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.RecomputeTimeLeft(e.now())
		}
	}
}

// Wake forces an immediate recomputation. It covers the case where the
// periodic ticks themselves were suspended while the host surface was
// hidden or the machine was asleep: the first check after waking settles
// the interval from the deadline, regardless of how much wall-clock time
// elapsed.
func (e *Engine) Wake() {
	e.RecomputeTimeLeft(e.now())
}
