package physics

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/skills"
)

// Particle is one labeled bubble. Radius stays within [0.8, 1.2] x Original
// and the velocity magnitude never exceeds the simulator's MaxSpeed.
type Particle struct {
	X, Y      float64
	DX, DY    float64
	Radius    float64
	Original  float64
	Color     color.NRGBA
	Label     string
	PulseDir  float64
	PulseRate float64
}

func (p Particle) Speed() float64 { return math.Hypot(p.DX, p.DY) }

func (p Particle) valid() bool {
	for _, v := range [...]float64{p.X, p.Y, p.DX, p.DY, p.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Tint int

const (
	TintRandom Tint = iota
	TintSkill
)

type BubbleParams struct {
	MinRadius         float64
	MaxRadius         float64
	RepulsionRadius   float64
	RepulsionStrength float64
	JitterChance      float64
	Jitter            float64
	MaxSpeed          float64
	PulseMin          float64
	PulseMax          float64
	Alpha             float64
	Tint              Tint
}

func DefaultBubbleParams() BubbleParams {
	return BubbleParams{
		MinRadius:         10,
		MaxRadius:         35,
		RepulsionRadius:   150,
		RepulsionStrength: 0.5,
		JitterChance:      0.01,
		Jitter:            0.15,
		MaxSpeed:          3,
		PulseMin:          0.01,
		PulseMax:          0.03,
		Alpha:             0.3,
	}
}

const (
	bandLow  = 0.8
	bandHigh = 1.2
)

var labelColor = color.NRGBA{A: 153}

// Bubbles simulates a fixed population of particles pushed away by the
// pointer. Integration is a unit step per processed frame.
type Bubbles struct {
	Params    BubbleParams
	labels    []string
	rng       *rand.Rand
	particles []Particle
	elapsed   time.Duration
	steps     int
}

func NewBubbles(params BubbleParams, labels []string, rng *rand.Rand) *Bubbles {
	if len(labels) == 0 {
		labels = skills.Labels()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Bubbles{Params: params, labels: labels, rng: rng}
}

// Initialize scatters count particles uniformly inside bounds, replacing any
// existing population.
func (b *Bubbles) Initialize(count int, bounds dynamo.Bounds) []Particle {
	if count < 0 {
		count = 0
	}
	b.particles = make([]Particle, count)
	for i := range b.particles {
		b.particles[i] = b.spawn(bounds)
	}
	b.elapsed, b.steps = 0, 0
	return b.particles
}

func (b *Bubbles) spawn(bounds dynamo.Bounds) Particle {
	p := b.Params
	r := p.MinRadius + b.rng.Float64()*(p.MaxRadius-p.MinRadius)
	label := b.labels[b.rng.Intn(len(b.labels))]
	alpha := uint8(math.Round(clamp(p.Alpha, 0, 1) * 255))

	var c color.NRGBA
	switch p.Tint {
	case TintSkill:
		c = skills.ColorOf(label, alpha)
	default:
		c = color.NRGBA{
			R: uint8(b.rng.Intn(256)),
			G: uint8(b.rng.Intn(256)),
			B: uint8(b.rng.Intn(256)),
			A: alpha,
		}
	}

	return Particle{
		X:         b.rng.Float64() * bounds.Width,
		Y:         b.rng.Float64() * bounds.Height,
		DX:        b.rng.Float64()*2 - 1,
		DY:        b.rng.Float64()*2 - 1,
		Radius:    r,
		Original:  r,
		Color:     c,
		Label:     label,
		PulseDir:  1,
		PulseRate: p.PulseMin + b.rng.Float64()*(p.PulseMax-p.PulseMin),
	}
}

func (b *Bubbles) Particles() []Particle { return b.particles }

// Elapsed is the wall time accumulated over all steps.
func (b *Bubbles) Elapsed() time.Duration { return b.elapsed }

func (b *Bubbles) Steps() int { return b.steps }

// Step advances every particle by one frame. A nil pointer means no pointer
// position is known yet and disables repulsion.
func (b *Bubbles) Step(dt time.Duration, pointer *dynamo.Vec2, bounds dynamo.Bounds) {
	p := b.Params
	repel := pointer != nil && pointer.IsValid()

	for i := range b.particles {
		q := &b.particles[i]

		if repel {
			dx, dy := pointer.X-q.X, pointer.Y-q.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < p.RepulsionRadius {
				// atan2(0, 0) is 0, so a pointer exactly on the center pushes along -x.
				angle := math.Atan2(dy, dx)
				force := (p.RepulsionRadius - dist) / p.RepulsionRadius
				q.DX -= math.Cos(angle) * force * p.RepulsionStrength
				q.DY -= math.Sin(angle) * force * p.RepulsionStrength
			}
		}

		if b.rng.Float64() < p.JitterChance {
			q.DX += (b.rng.Float64()*2 - 1) * p.Jitter
			q.DY += (b.rng.Float64()*2 - 1) * p.Jitter
		}

		if speed := math.Sqrt(q.DX*q.DX + q.DY*q.DY); speed > p.MaxSpeed {
			q.DX = q.DX / speed * p.MaxSpeed
			q.DY = q.DY / speed * p.MaxSpeed
		}

		q.X += q.DX
		q.Y += q.DY

		q.Radius += q.PulseDir * q.PulseRate
		if hi := q.Original * bandHigh; q.Radius > hi {
			q.Radius, q.PulseDir = hi, -1
		} else if lo := q.Original * bandLow; q.Radius < lo {
			q.Radius, q.PulseDir = lo, 1
		}

		if bounds.IsValid() {
			wrap(q, bounds)
		}

		if !q.valid() {
			*q = b.spawn(bounds)
		}
	}

	b.elapsed += dt
	b.steps++
}

// wrap re-enters a particle from the opposite edge once it is fully outside.
func wrap(q *Particle, bounds dynamo.Bounds) {
	r := q.Radius
	if q.X > bounds.Width+r {
		q.X = -r
	} else if q.X < -r {
		q.X = bounds.Width + r
	}
	if q.Y > bounds.Height+r {
		q.Y = -r
	} else if q.Y < -r {
		q.Y = bounds.Height + r
	}
}

// Render clears the surface and paints each bubble with its centered label.
func (b *Bubbles) Render(s dynamo.Surface) {
	s.Clear()
	for _, q := range b.particles {
		s.FillCircle(q.X, q.Y, q.Radius, q.Color)
		s.Text(q.Label, q.X, q.Y, q.Radius/2, labelColor)
	}
}

func (b *Bubbles) GetParams() map[string]float64 {
	p := b.Params
	return map[string]float64{
		"repulsion_radius":   p.RepulsionRadius,
		"repulsion_strength": p.RepulsionStrength,
		"jitter":             p.Jitter,
		"jitter_chance":      p.JitterChance,
		"max_speed":          p.MaxSpeed,
	}
}

func (b *Bubbles) SetParam(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("physics: %s=%v: %w", name, v, ErrParameterBounds)
	}
	switch name {
	case "repulsion_radius":
		if v == 0 {
			return fmt.Errorf("physics: %s=%v: %w", name, v, ErrParameterBounds)
		}
		b.Params.RepulsionRadius = v
	case "repulsion_strength":
		b.Params.RepulsionStrength = v
	case "jitter":
		b.Params.Jitter = v
	case "jitter_chance":
		b.Params.JitterChance = math.Min(v, 1)
	case "max_speed":
		if v == 0 {
			return fmt.Errorf("physics: %s=%v: %w", name, v, ErrParameterBounds)
		}
		b.Params.MaxSpeed = v
	default:
		return fmt.Errorf("physics: unknown parameter %q", name)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
