package metrics

import (
	"math"
	"time"

	"github.com/san-kum/backdrop/internal/physics"
)

// RadiusSpread is the largest relative deviation of a radius from its
// original size.
type RadiusSpread struct {
	name   string
	spread float64
}

func NewRadiusSpread() *RadiusSpread {
	return &RadiusSpread{name: "radius_spread"}
}

func (r *RadiusSpread) Name() string { return r.name }

func (r *RadiusSpread) Observe(ps []physics.Particle, t time.Duration) {
	for _, p := range ps {
		if p.Original == 0 {
			continue
		}
		r.spread = math.Max(r.spread, math.Abs(p.Radius/p.Original-1))
	}
}

func (r *RadiusSpread) Value() float64 { return r.spread }

func (r *RadiusSpread) Reset() { r.spread = 0 }

// Violations counts particle samples outside the radius band or above the
// speed limit. A healthy run reports 0.
type Violations struct {
	name       string
	maxSpeed   float64
	violations int
	samples    int
}

const bandTolerance = 1e-9

func NewViolations(maxSpeed float64) *Violations {
	return &Violations{name: "violations", maxSpeed: maxSpeed}
}

func (v *Violations) Name() string { return v.name }

func (v *Violations) Observe(ps []physics.Particle, t time.Duration) {
	for _, p := range ps {
		v.samples++
		lo, hi := 0.8*p.Original-bandTolerance, 1.2*p.Original+bandTolerance
		if p.Radius < lo || p.Radius > hi || p.Speed() > v.maxSpeed+bandTolerance {
			v.violations++
		}
	}
}

func (v *Violations) Value() float64 { return float64(v.violations) }

func (v *Violations) Samples() int { return v.samples }

func (v *Violations) Reset() {
	v.violations = 0
	v.samples = 0
}
