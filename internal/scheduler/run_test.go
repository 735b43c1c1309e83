package scheduler_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/tier"
)

var refresh = time.Second / 60

var _ = Describe("Run", func() {
	var (
		clock *scheduler.ManualClock
		loop  *scheduler.Loop
	)

	BeforeEach(func() {
		clock = scheduler.NewManualClock(epoch)
		loop = scheduler.NewLoop(clock)
	})

	It("invokes the callback once per refresh", func() {
		calls := 0
		dispose := scheduler.Run(loop, func(time.Time) { calls++ })
		defer dispose()
		for i := 0; i < 10; i++ {
			loop.Pump(clock.Advance(refresh))
		}
		Expect(calls).To(Equal(10))
		Expect(loop.PendingFrames()).To(Equal(1))
	})

	It("stops synchronously and idempotently on dispose", func() {
		calls := 0
		dispose := scheduler.Run(loop, func(time.Time) { calls++ })
		loop.Pump(clock.Advance(refresh))
		dispose()
		dispose()
		Expect(loop.PendingFrames()).To(BeZero())
		loop.Pump(clock.Advance(refresh))
		Expect(calls).To(Equal(1))
	})

	It("does not re-register when disposed from inside the callback", func() {
		calls := 0
		var dispose scheduler.Disposer
		dispose = scheduler.Run(loop, func(time.Time) {
			calls++
			dispose()
		})
		loop.Pump(clock.Advance(refresh))
		loop.Pump(clock.Advance(refresh))
		Expect(calls).To(Equal(1))
		Expect(loop.PendingFrames()).To(BeZero())
	})
})

var _ = Describe("Throttle", func() {
	var (
		clock *scheduler.ManualClock
		loop  *scheduler.Loop
	)

	BeforeEach(func() {
		clock = scheduler.NewManualClock(epoch)
		loop = scheduler.NewLoop(clock)
	})

	count := func(th *scheduler.Throttle, refreshes int) int {
		processed := 0
		dispose := scheduler.RunThrottled(loop, th, func(time.Time, time.Duration) { processed++ })
		defer dispose()
		for i := 0; i < refreshes; i++ {
			loop.Pump(clock.Advance(refresh))
		}
		return processed
	}

	It("caps a 60Hz display at 30fps under the standard tier", func() {
		th := scheduler.NewThrottle(30, tier.Standard)
		Expect(count(th, 60)).To(Equal(30))
		Expect(th.Skipped()).To(Equal(30))
	})

	It("halves the ceiling under the reduced tier", func() {
		th := scheduler.NewThrottle(30, tier.Reduced)
		Expect(th.Interval).To(Equal(2 * scheduler.NewThrottle(30, tier.Standard).Interval))
		Expect(count(th, 60)).To(Equal(15))
	})

	It("never exceeds 30fps when refreshes land just inside the slack", func() {
		th := scheduler.NewThrottle(30, tier.Standard)
		now := epoch
		for i := 0; i < 1000; i++ {
			th.Ready(now)
			now = now.Add(32500 * time.Microsecond)
		}
		seconds := now.Sub(epoch).Seconds()
		Expect(float64(th.Processed())).To(BeNumerically("<=", 30*seconds+1))
		Expect(th.Skipped()).To(BeNumerically(">", 0))
	})

	It("resyncs after a stall instead of bursting", func() {
		th := scheduler.NewThrottle(30, tier.Standard)
		th.Ready(epoch)
		_, ok := th.Ready(epoch.Add(time.Second))
		Expect(ok).To(BeTrue())
		_, ok = th.Ready(epoch.Add(time.Second + refresh))
		Expect(ok).To(BeFalse())
	})

	It("processes the first frame immediately with zero dt", func() {
		th := scheduler.NewThrottle(30, tier.Standard)
		dt, ok := th.Ready(epoch)
		Expect(ok).To(BeTrue())
		Expect(dt).To(BeZero())
	})

	It("reports the elapsed time since the last processed frame", func() {
		th := scheduler.NewThrottle(30, tier.Standard)
		th.Ready(epoch)
		_, ok := th.Ready(epoch.Add(10 * time.Millisecond))
		Expect(ok).To(BeFalse())
		dt, ok := th.Ready(epoch.Add(40 * time.Millisecond))
		Expect(ok).To(BeTrue())
		Expect(dt).To(Equal(40 * time.Millisecond))
	})

	It("keeps the loop registered across skipped refreshes", func() {
		th := scheduler.NewThrottle(1, tier.Standard)
		dispose := scheduler.RunThrottled(loop, th, func(time.Time, time.Duration) {})
		defer dispose()
		for i := 0; i < 5; i++ {
			loop.Pump(clock.Advance(refresh))
			Expect(loop.PendingFrames()).To(Equal(1))
		}
	})
})
