package scheduler

import (
	"container/heap"
	"context"
	"time"
)

type FrameID uint64

// Loop is a single-threaded event loop modelled on a display's refresh
// callback queue. Callbacks requested with RequestFrame run once, on the next
// Pump; fire-once timers run when Pump passes their deadline, independently
// of which frames get processed.
type Loop struct {
	clock  Clock
	nextID FrameID
	frames map[FrameID]func(time.Time)
	order  []FrameID
	timers timerHeap
	seq    uint64
}

func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{clock: clock, frames: make(map[FrameID]func(time.Time))}
}

func (l *Loop) Now() time.Time { return l.clock.Now() }

// RequestFrame registers fn for the next refresh. Requests made while a
// batch is running are deferred to the following Pump.
func (l *Loop) RequestFrame(fn func(now time.Time)) FrameID {
	l.nextID++
	l.frames[l.nextID] = fn
	l.order = append(l.order, l.nextID)
	return l.nextID
}

// CancelFrame drops a pending request. It reports whether one was pending.
func (l *Loop) CancelFrame(id FrameID) bool {
	if _, ok := l.frames[id]; !ok {
		return false
	}
	delete(l.frames, id)
	return true
}

func (l *Loop) PendingFrames() int { return len(l.frames) }

func (l *Loop) PendingTimers() int { return len(l.timers) }

// Pump runs one refresh: due timers first, in deadline order, then every frame
// callback that was pending when the pump started.
func (l *Loop) Pump(now time.Time) {
	for len(l.timers) > 0 && !l.timers[0].when.After(now) {
		t := heap.Pop(&l.timers).(*Timer)
		t.fired = true
		t.fn()
	}

	batch := l.order
	l.order = nil
	for _, id := range batch {
		fn, ok := l.frames[id]
		if !ok {
			continue
		}
		delete(l.frames, id)
		fn(now)
	}
}

// PumpNow pumps at the loop clock's current time.
func (l *Loop) PumpNow() { l.Pump(l.clock.Now()) }

// Drive pumps the loop from a ticker until ctx is done. Everything runs on
// the calling goroutine.
func (l *Loop) Drive(ctx context.Context, refreshHz float64) error {
	if refreshHz <= 0 {
		refreshHz = DefaultRefreshHz
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / refreshHz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.PumpNow()
		}
	}
}

// Timer is a fire-once callback owned by a Loop.
type Timer struct {
	loop    *Loop
	when    time.Time
	fn      func()
	seq     uint64
	index   int
	fired   bool
	stopped bool
}

// AfterFunc schedules fn to run on the first Pump at or after now+d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	l.seq++
	t := &Timer{loop: l, when: l.clock.Now().Add(d), fn: fn, seq: l.seq}
	heap.Push(&l.timers, t)
	return t
}

// Stop prevents the timer from firing. It reports whether the call stopped
// it; false means it already fired or was stopped.
func (t *Timer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	heap.Remove(&t.loop.timers, t.index)
	return true
}

func (t *Timer) Deadline() time.Time { return t.when }

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
