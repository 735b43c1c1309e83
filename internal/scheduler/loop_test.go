package scheduler_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backdrop/internal/scheduler"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var _ = Describe("Loop", func() {
	var (
		clock *scheduler.ManualClock
		loop  *scheduler.Loop
	)

	BeforeEach(func() {
		clock = scheduler.NewManualClock(epoch)
		loop = scheduler.NewLoop(clock)
	})

	Describe("frame requests", func() {
		It("runs a request once on the next pump", func() {
			calls := 0
			loop.RequestFrame(func(time.Time) { calls++ })
			loop.PumpNow()
			loop.PumpNow()
			Expect(calls).To(Equal(1))
		})

		It("passes the pump time to callbacks", func() {
			var got time.Time
			loop.RequestFrame(func(now time.Time) { got = now })
			loop.Pump(epoch.Add(5 * time.Second))
			Expect(got).To(Equal(epoch.Add(5 * time.Second)))
		})

		It("defers requests made during a pump to the next pump", func() {
			order := []string{}
			loop.RequestFrame(func(time.Time) {
				order = append(order, "outer")
				loop.RequestFrame(func(time.Time) { order = append(order, "inner") })
			})
			loop.PumpNow()
			Expect(order).To(Equal([]string{"outer"}))
			loop.PumpNow()
			Expect(order).To(Equal([]string{"outer", "inner"}))
		})

		It("skips cancelled requests, even within the running batch", func() {
			calls := 0
			var second scheduler.FrameID
			loop.RequestFrame(func(time.Time) { loop.CancelFrame(second) })
			second = loop.RequestFrame(func(time.Time) { calls++ })
			loop.PumpNow()
			Expect(calls).To(BeZero())
			Expect(loop.PendingFrames()).To(BeZero())
		})

		It("reports whether a cancel removed anything", func() {
			id := loop.RequestFrame(func(time.Time) {})
			Expect(loop.CancelFrame(id)).To(BeTrue())
			Expect(loop.CancelFrame(id)).To(BeFalse())
		})
	})

	Describe("timers", func() {
		It("fires once the deadline passes, regardless of frames", func() {
			fired := 0
			loop.AfterFunc(700*time.Millisecond, func() { fired++ })

			loop.Pump(clock.Advance(699 * time.Millisecond))
			Expect(fired).To(BeZero())

			loop.Pump(clock.Advance(time.Millisecond))
			Expect(fired).To(Equal(1))

			loop.Pump(clock.Advance(time.Second))
			Expect(fired).To(Equal(1))
			Expect(loop.PendingTimers()).To(BeZero())
		})

		It("fires in deadline order, ties by creation order", func() {
			order := []int{}
			loop.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
			loop.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
			loop.AfterFunc(10*time.Millisecond, func() { order = append(order, 2) })
			loop.Pump(clock.Advance(time.Second))
			Expect(order).To(Equal([]int{1, 2, 3}))
		})

		It("fires timers before frame callbacks of the same pump", func() {
			order := []string{}
			loop.RequestFrame(func(time.Time) { order = append(order, "frame") })
			loop.AfterFunc(0, func() { order = append(order, "timer") })
			loop.PumpNow()
			Expect(order).To(Equal([]string{"timer", "frame"}))
		})

		It("can be stopped before it fires", func() {
			fired := false
			t := loop.AfterFunc(10*time.Millisecond, func() { fired = true })
			Expect(t.Stop()).To(BeTrue())
			Expect(t.Stop()).To(BeFalse())
			loop.Pump(clock.Advance(time.Second))
			Expect(fired).To(BeFalse())
		})

		It("cannot be stopped after firing", func() {
			t := loop.AfterFunc(0, func() {})
			loop.PumpNow()
			Expect(t.Stop()).To(BeFalse())
		})

		It("keeps the heap consistent when stopping from the middle", func() {
			order := []int{}
			loop.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
			mid := loop.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })
			loop.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
			mid.Stop()
			loop.Pump(clock.Advance(time.Second))
			Expect(order).To(Equal([]int{1, 3}))
		})
	})

	Describe("Drive", func() {
		It("pumps until the context is cancelled", func() {
			live := scheduler.NewLoop(nil)
			calls := 0
			dispose := scheduler.Run(live, func(time.Time) { calls++ })
			defer dispose()

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			err := live.Drive(ctx, 200)
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(calls).To(BeNumerically(">", 0))
		})
	})
})
