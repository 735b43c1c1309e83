package ambient

import (
	"image/color"
	"math"
	"math/rand"
	"sort"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/tier"
)

type FieldParams struct {
	Palette          []string
	Duration         time.Duration
	ReducedDuration  time.Duration
	Smoothing        float64
	ReducedSmoothing float64
	Glow             color.NRGBA
	PulseAlpha       float64
	PulseLifetime    time.Duration
	PulseRadius      float64
	PulseHalo        float64
	ReducedMaxPulses int
}

func DefaultFieldParams() FieldParams {
	return FieldParams{
		Palette:          append([]string(nil), DefaultPalette...),
		Duration:         8 * time.Second,
		ReducedDuration:  12 * time.Second,
		Smoothing:        0.01,
		ReducedSmoothing: 0.005,
		Glow:             color.NRGBA{R: 80, G: 180, B: 255, A: 56},
		PulseAlpha:       0.18,
		PulseLifetime:    700 * time.Millisecond,
		PulseRadius:      60,
		PulseHalo:        32,
		ReducedMaxPulses: 2,
	}
}

var center = dynamo.Vec2{X: 50, Y: 50}

// Field is the ambient background: a cycling palette blend, a light that
// trails the pointer, and the set of live press pulses.
type Field struct {
	Params FieldParams

	tier     tier.Tier
	loop     *scheduler.Loop
	rng      *rand.Rand
	cycle    *ColorCycle
	viewport dynamo.Bounds
	target   dynamo.Vec2
	light    dynamo.Vec2
	current  color.NRGBA

	nextID uint64
	pulses map[uint64]*activePulse
	ticks  int
}

type activePulse struct {
	Pulse
	timer *scheduler.Timer
}

func NewField(params FieldParams, t tier.Tier, loop *scheduler.Loop, rng *rand.Rand) (*Field, error) {
	palette, err := ParsePalette(params.Palette)
	if err != nil {
		return nil, err
	}
	if loop == nil {
		loop = scheduler.NewLoop(scheduler.SystemClock{})
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f := &Field{
		Params: params,
		tier:   t,
		loop:   loop,
		rng:    rng,
		cycle:  NewColorCycle(palette),
		target: center,
		light:  center,
		pulses: make(map[uint64]*activePulse),
	}
	f.current = f.cycle.Color()
	return f, nil
}

func (f *Field) Tier() tier.Tier { return f.tier }

func (f *Field) Cycle() ColorCycle { return *f.cycle }

func (f *Field) Color() color.NRGBA { return f.current }

func (f *Field) Light() dynamo.Vec2 { return f.light }

func (f *Field) Target() dynamo.Vec2 { return f.target }

func (f *Field) Ticks() int { return f.ticks }

func (f *Field) Resize(b dynamo.Bounds) { f.viewport = b }

func (f *Field) Viewport() dynamo.Bounds { return f.viewport }

func (f *Field) duration() time.Duration {
	if f.tier == tier.Reduced {
		return f.Params.ReducedDuration
	}
	return f.Params.Duration
}

func (f *Field) smoothing() float64 {
	if f.tier == tier.Reduced {
		return f.Params.ReducedSmoothing
	}
	return f.Params.Smoothing
}

// Tick advances the color cycle by dt and eases the light toward the
// pointer target. Pulses are not stepped here.
func (f *Field) Tick(dt time.Duration) {
	f.ticks++
	f.cycle.Advance(dt, f.duration())
	f.current = f.cycle.Color()

	k := f.smoothing()
	f.light = f.light.Add(f.target.Sub(f.light).Scale(k))
}

// OnPointerMove records the pointer in percentage-of-viewport space.
func (f *Field) OnPointerMove(x, y float64) {
	p := dynamo.Vec2{X: x, Y: y}
	if !p.IsValid() || !f.viewport.IsValid() {
		return
	}
	f.target = f.viewport.Percent(p)
}

// OnPointerDown spawns a pulse at the press point. Under the reduced tier
// the press is ignored while the active set is at its cap.
func (f *Field) OnPointerDown(x, y float64) bool {
	p := dynamo.Vec2{X: x, Y: y}
	if !p.IsValid() {
		return false
	}
	if f.tier == tier.Reduced && len(f.pulses) >= f.Params.ReducedMaxPulses {
		return false
	}

	hue := f.rng.Float64() * 360
	r, g, b := colorful.Hsl(hue, 0.8, 0.7).Clamped().RGB255()

	f.nextID++
	id := f.nextID
	ap := &activePulse{Pulse: Pulse{
		ID:       id,
		Pos:      f.viewport.Percent(p),
		Color:    color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(f.Params.PulseAlpha * 255))},
		Created:  f.loop.Now(),
		Lifetime: f.Params.PulseLifetime,
	}}
	ap.timer = f.loop.AfterFunc(f.Params.PulseLifetime, func() {
		delete(f.pulses, id)
	})
	f.pulses[id] = ap
	return true
}

// ActivePulses reports the size of the active set.
func (f *Field) ActivePulses() int { return len(f.pulses) }

// Pulses returns the active set ordered by creation.
func (f *Field) Pulses() []Pulse {
	out := make([]Pulse, 0, len(f.pulses))
	for _, p := range f.pulses {
		out = append(out, p.Pulse)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Paint draws the background and every live pulse at now.
func (f *Field) Paint(s dynamo.Surface, now time.Time) {
	f.paintBackground(s)
	f.PaintPulses(s, now)
}

func (f *Field) paintBackground(s dynamo.Surface) {
	s.Fill(f.current)
	if f.tier == tier.Reduced {
		return
	}
	b := dynamo.SurfaceBounds(s)
	if !b.IsValid() {
		return
	}
	c := b.Pixels(f.light)
	s.RadialGradient(c.X, c.Y, farthestCorner(c, b), f.Params.Glow, f.current)
}

// PaintPulses draws each pulse at its keyframe for now: a halo ring and
// a core disc, both faded by the animation opacity.
func (f *Field) PaintPulses(s dynamo.Surface, now time.Time) {
	b := dynamo.SurfaceBounds(s)
	if !b.IsValid() {
		return
	}
	for _, p := range f.Pulses() {
		scale, opacity := p.Frame(now)
		if opacity <= 0 {
			continue
		}
		c := b.Pixels(p.Pos)
		r := f.Params.PulseRadius * scale
		halo := p.Color
		halo.A = uint8(float64(p.Color.A) * opacity * 0.5)
		s.FillCircle(c.X, c.Y, r+f.Params.PulseHalo*scale, halo)
		core := p.Color
		core.A = uint8(float64(p.Color.A) * opacity)
		s.FillCircle(c.X, c.Y, r, core)
	}
}

// Dispose stops every pending expiry timer and empties the active set.
func (f *Field) Dispose() {
	for id, p := range f.pulses {
		p.timer.Stop()
		delete(f.pulses, id)
	}
}

func farthestCorner(c dynamo.Vec2, b dynamo.Bounds) float64 {
	dx := math.Max(c.X, b.Width-c.X)
	dy := math.Max(c.Y, b.Height-c.Y)
	return math.Hypot(dx, dy)
}
