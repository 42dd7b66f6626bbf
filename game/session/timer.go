package session

import (
	"context"
	"time"
)

// turnTimer runs one turn's countdown on its own goroutine. Stop only cancels
// the goroutine and never waits for it, so it is safe to call with the
// session lock held. A callback that was already in flight when Stop ran must
// recheck the turn itself.
type turnTimer struct {
	cancel   context.CancelFunc
	deadline time.Time
}

func startTurnTimer(timeout, tick time.Duration, onTick, onExpire func()) *turnTimer {
	ctx, cancel := context.WithCancel(context.Background())
	t := &turnTimer{cancel: cancel, deadline: time.Now().Add(timeout)}

	go func() {
		expire := time.NewTimer(timeout)
		defer expire.Stop()
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-expire.C:
				onExpire()
				return
			case <-ticker.C:
				onTick()
			}
		}
	}()
	return t
}

// Remaining is the time left before the turn expires, never negative.
func (t *turnTimer) Remaining() time.Duration {
	if t == nil {
		return 0
	}
	return max(time.Until(t.deadline), 0)
}

func (t *turnTimer) Stop() {
	if t != nil {
		t.cancel()
	}
}
