package scheduler

import (
	"time"

	"github.com/san-kum/backdrop/internal/tier"
)

const (
	DefaultMaxFPS    = 30
	DefaultRefreshHz = 60

	// refresh jitter tolerated when comparing against the frame interval, so
	// a 60Hz display yields every second refresh at a 30fps ceiling
	jitterSlack = time.Millisecond
)

// Disposer stops a running loop. It is synchronous and idempotent.
type Disposer func()

// Run invokes cb once per refresh until the returned Disposer is called.
func Run(l *Loop, cb func(now time.Time)) Disposer {
	var id FrameID
	disposed := false

	var tick func(now time.Time)
	tick = func(now time.Time) {
		if disposed {
			return
		}
		cb(now)
		if !disposed {
			id = l.RequestFrame(tick)
		}
	}
	id = l.RequestFrame(tick)

	return func() {
		if disposed {
			return
		}
		disposed = true
		l.CancelFrame(id)
	}
}

// Throttle enforces a frame-rate ceiling. Skipped refreshes still keep the
// loop registered; they just do no work.
type Throttle struct {
	Interval  time.Duration
	last      time.Time
	started   bool
	processed int
	skipped   int
}

// NewThrottle builds the ceiling for maxFPS; the Reduced tier halves it.
func NewThrottle(maxFPS float64, t tier.Tier) *Throttle {
	if maxFPS <= 0 {
		maxFPS = DefaultMaxFPS
	}
	interval := time.Duration(float64(time.Second) / maxFPS)
	if t == tier.Reduced {
		interval *= 2
	}
	return &Throttle{Interval: interval}
}

// Ready reports whether a frame at now should be processed and, if so, the
// time since the previous processed frame. The first frame is always
// processed with dt 0. Processed frames advance the schedule by exactly one
// Interval, so the slack never lets the long-run rate pass the ceiling.
func (t *Throttle) Ready(now time.Time) (time.Duration, bool) {
	if !t.started {
		t.started = true
		t.last = now
		t.processed++
		return 0, true
	}
	elapsed := now.Sub(t.last)
	if elapsed+jitterSlack < t.Interval {
		t.skipped++
		return 0, false
	}
	next := t.last.Add(t.Interval)
	if now.Sub(next) >= t.Interval {
		// far behind, e.g. after a stall: resync instead of bursting
		next = now
	}
	t.last = next
	t.processed++
	return elapsed, true
}

func (t *Throttle) Processed() int { return t.processed }
func (t *Throttle) Skipped() int   { return t.skipped }

// RunThrottled is Run with a Throttle in front of cb.
func RunThrottled(l *Loop, th *Throttle, cb func(now time.Time, dt time.Duration)) Disposer {
	return Run(l, func(now time.Time) {
		if dt, ok := th.Ready(now); ok {
			cb(now, dt)
		}
	})
}
