package metrics

import (
	"time"

	"github.com/san-kum/backdrop/internal/physics"
)

// Metric folds a stream of particle snapshots into one number.
type Metric interface {
	Name() string
	Observe(ps []physics.Particle, t time.Duration)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded by bench runs.
func Standard(maxSpeed float64) []Metric {
	return []Metric{
		NewMaxSpeed(),
		NewMeanSpeed(),
		NewRadiusSpread(),
		NewViolations(maxSpeed),
	}
}

// Values collects every metric's current value by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
