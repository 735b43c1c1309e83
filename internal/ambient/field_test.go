package ambient

import (
	"image/color"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/tier"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestField(t *testing.T, tr tier.Tier) (*Field, *scheduler.ManualClock, *scheduler.Loop) {
	t.Helper()
	clock := scheduler.NewManualClock(epoch)
	loop := scheduler.NewLoop(clock)
	f, err := NewField(DefaultFieldParams(), tr, loop, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	f.Resize(dynamo.Bounds{Width: 800, Height: 600})
	return f, clock, loop
}

func TestColorCycleAdvancesAfterDuration(t *testing.T) {
	f, _, _ := newTestField(t, tier.Standard)

	for i := 0; i < 8; i++ {
		f.Tick(time.Second)
	}
	c := f.Cycle()
	if c.Index != 1 || c.Next != 2 {
		t.Errorf("after 8s: index=%d next=%d, want 1 and 2", c.Index, c.Next)
	}
	if c.Progress != 0 {
		t.Errorf("progress = %v, want 0 right after the step", c.Progress)
	}
}

func TestColorCycleReducedDuration(t *testing.T) {
	f, _, _ := newTestField(t, tier.Reduced)

	for i := 0; i < 8; i++ {
		f.Tick(time.Second)
	}
	if c := f.Cycle(); c.Index != 0 {
		t.Fatalf("reduced cycle stepped after 8s: index=%d", c.Index)
	}
	for i := 0; i < 4; i++ {
		f.Tick(time.Second)
	}
	if c := f.Cycle(); c.Index != 1 || c.Next != 2 {
		t.Errorf("after 12s: index=%d next=%d, want 1 and 2", c.Index, c.Next)
	}
}

func TestColorCycleWraps(t *testing.T) {
	p, err := ParsePalette([]string{"#000000", "#ffffff", "#ff0000"})
	if err != nil {
		t.Fatal(err)
	}
	c := NewColorCycle(p)
	for i := 0; i < 3; i++ {
		c.Advance(time.Second, time.Second)
		if c.Next != (c.Index+1)%c.Len() {
			t.Fatalf("step %d: next=%d index=%d", i, c.Next, c.Index)
		}
	}
	if c.Index != 0 || c.Next != 1 {
		t.Errorf("after full loop: index=%d next=%d", c.Index, c.Next)
	}
}

func TestColorCycleBlend(t *testing.T) {
	p, _ := ParsePalette([]string{"#000000", "#c86432"})
	c := NewColorCycle(p)
	c.Advance(500*time.Millisecond, time.Second)

	got := c.Color()
	want := color.NRGBA{R: 100, G: 50, B: 25, A: 255}
	if got != want {
		t.Errorf("half-way blend = %v, want %v", got, want)
	}
}

func TestParsePaletteErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []string
	}{
		{"empty", nil},
		{"single", []string{"#000000"}},
		{"bad hex", []string{"#000000", "blue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePalette(tt.in); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLightConvergence(t *testing.T) {
	for _, tr := range []tier.Tier{tier.Standard, tier.Reduced} {
		t.Run(tr.String(), func(t *testing.T) {
			f, _, _ := newTestField(t, tr)
			f.OnPointerMove(80, 540)

			target := dynamo.Vec2{X: 10, Y: 90}
			if f.Target() != target {
				t.Fatalf("target = %v, want %v", f.Target(), target)
			}

			prev := f.Light().Sub(target).Len()
			for i := 0; i < 2000; i++ {
				f.Tick(33 * time.Millisecond)
				d := f.Light().Sub(target).Len()
				if d > prev {
					t.Fatalf("tick %d: distance grew %v -> %v", i, prev, d)
				}
				prev = d
			}
			if prev > 1 {
				t.Errorf("light did not converge, distance %v", prev)
			}
		})
	}
}

func TestLightStartsCentered(t *testing.T) {
	f, _, _ := newTestField(t, tier.Standard)
	f.Tick(time.Second)
	if f.Light() != (dynamo.Vec2{X: 50, Y: 50}) {
		t.Errorf("light drifted without input: %v", f.Light())
	}
}

func TestPointerMoveIgnoresNaN(t *testing.T) {
	f, _, _ := newTestField(t, tier.Standard)
	f.OnPointerMove(math.NaN(), 10)
	if f.Target() != (dynamo.Vec2{X: 50, Y: 50}) {
		t.Errorf("target changed on NaN input: %v", f.Target())
	}
}

func TestPulseLifecycle(t *testing.T) {
	f, clock, loop := newTestField(t, tier.Standard)

	if !f.OnPointerDown(400, 300) {
		t.Fatal("press did not spawn a pulse")
	}
	if f.ActivePulses() != 1 {
		t.Fatalf("active = %d, want 1", f.ActivePulses())
	}
	p := f.Pulses()[0]
	if p.Pos != (dynamo.Vec2{X: 50, Y: 50}) {
		t.Errorf("pulse pos = %v", p.Pos)
	}
	if p.Color.A != 46 {
		t.Errorf("pulse alpha = %d, want 46", p.Color.A)
	}

	loop.Pump(clock.Advance(699 * time.Millisecond))
	if f.ActivePulses() != 1 {
		t.Fatal("pulse expired early")
	}
	loop.Pump(clock.Advance(time.Millisecond))
	if f.ActivePulses() != 0 {
		t.Fatal("pulse still active after 700ms")
	}
	if loop.PendingTimers() != 0 {
		t.Errorf("pending timers = %d", loop.PendingTimers())
	}
}

func TestPulseExpiryIndependentOfTick(t *testing.T) {
	f, clock, loop := newTestField(t, tier.Standard)
	f.OnPointerDown(10, 10)
	for i := 0; i < 100; i++ {
		f.Tick(time.Second)
	}
	if f.ActivePulses() != 1 {
		t.Fatal("Tick removed a pulse")
	}
	loop.Pump(clock.Advance(time.Second))
	if f.ActivePulses() != 0 {
		t.Fatal("timer did not remove the pulse")
	}
}

func TestReducedPulseCap(t *testing.T) {
	f, clock, loop := newTestField(t, tier.Reduced)

	if !f.OnPointerDown(1, 1) || !f.OnPointerDown(2, 2) {
		t.Fatal("first two presses should spawn")
	}
	if f.OnPointerDown(3, 3) {
		t.Error("third press spawned under the reduced cap")
	}
	if f.ActivePulses() != 2 {
		t.Fatalf("active = %d, want 2", f.ActivePulses())
	}

	loop.Pump(clock.Advance(700 * time.Millisecond))
	if !f.OnPointerDown(4, 4) {
		t.Error("press refused after the earlier pulses expired")
	}
}

func TestStandardHasNoPulseCap(t *testing.T) {
	f, _, _ := newTestField(t, tier.Standard)
	for i := 0; i < 10; i++ {
		f.OnPointerDown(float64(i), 0)
	}
	if f.ActivePulses() != 10 {
		t.Errorf("active = %d, want 10", f.ActivePulses())
	}
}

func TestDisposeStopsTimers(t *testing.T) {
	f, clock, loop := newTestField(t, tier.Standard)
	f.OnPointerDown(1, 1)
	f.OnPointerDown(2, 2)

	f.Dispose()
	if f.ActivePulses() != 0 {
		t.Errorf("active = %d after dispose", f.ActivePulses())
	}
	if loop.PendingTimers() != 0 {
		t.Errorf("pending timers = %d after dispose", loop.PendingTimers())
	}
	loop.Pump(clock.Advance(time.Second))
	f.Dispose()
}

func TestPulseKeyframes(t *testing.T) {
	p := Pulse{Created: epoch, Lifetime: 700 * time.Millisecond}

	tests := []struct {
		at             time.Duration
		scale, opacity float64
	}{
		{0, 0.5, 0.7},
		{420 * time.Millisecond, 1.1, 0.5},
		{700 * time.Millisecond, 1.7, 0},
		{time.Second, 1.7, 0},
	}
	for _, tt := range tests {
		s, o := p.Frame(epoch.Add(tt.at))
		if math.Abs(s-tt.scale) > 1e-6 || math.Abs(o-tt.opacity) > 1e-6 {
			t.Errorf("Frame(%v) = (%v, %v), want (%v, %v)", tt.at, s, o, tt.scale, tt.opacity)
		}
	}

	prev := 0.0
	for ms := 0; ms <= 700; ms += 10 {
		s, _ := p.Frame(epoch.Add(time.Duration(ms) * time.Millisecond))
		if s < prev {
			t.Fatalf("scale shrank at %dms", ms)
		}
		prev = s
	}
}

func TestEaseEndpoints(t *testing.T) {
	if pulseEase.At(0) != 0 || pulseEase.At(1) != 1 {
		t.Fatal("easing endpoints moved")
	}
	// ease-out shape: ahead of linear at the midpoint
	if v := pulseEase.At(0.5); v <= 0.5 || v >= 1 {
		t.Errorf("At(0.5) = %v", v)
	}
}

type paintLog struct {
	w, h      int
	fills     []color.NRGBA
	gradients int
	circles   int
}

func (p *paintLog) Size() (int, int) { return p.w, p.h }
func (p *paintLog) Clear() {}
func (p *paintLog) Fill(c color.NRGBA) {
	p.fills = append(p.fills, c)
}
func (p *paintLog) RadialGradient(cx, cy, r float64, inner, outer color.NRGBA) {
	p.gradients++
}
func (p *paintLog) FillCircle(cx, cy, r float64, c color.NRGBA) { p.circles++ }
func (p *paintLog) Text(string, float64, float64, float64, color.NRGBA) {}

func TestPaintByTier(t *testing.T) {
	tests := []struct {
		tier      tier.Tier
		gradients int
	}{
		{tier.Standard, 1},
		{tier.Reduced, 0},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			f, clock, _ := newTestField(t, tt.tier)
			f.OnPointerDown(100, 100)
			s := &paintLog{w: 800, h: 600}
			f.Paint(s, clock.Now())

			if len(s.fills) != 1 || s.fills[0] != f.Color() {
				t.Errorf("fills = %v, want the cycle color", s.fills)
			}
			if s.gradients != tt.gradients {
				t.Errorf("gradients = %d, want %d", s.gradients, tt.gradients)
			}
			if s.circles != 2 {
				t.Errorf("circles = %d, want halo and core", s.circles)
			}
		})
	}
}

func TestFarthestCorner(t *testing.T) {
	b := dynamo.Bounds{Width: 300, Height: 400}
	if got := farthestCorner(dynamo.Vec2{}, b); got != 500 {
		t.Errorf("corner radius = %v, want 500", got)
	}
}
