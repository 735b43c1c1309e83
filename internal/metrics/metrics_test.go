package metrics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/physics"
)

func particles() []physics.Particle {
	return []physics.Particle{
		{DX: 3, DY: 4, Radius: 12, Original: 10},
		{DX: 1, DY: 0, Radius: 9, Original: 10},
	}
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()
	m.Observe(particles(), 0)
	if m.Value() != 5 {
		t.Errorf("expected 5, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestMeanSpeed(t *testing.T) {
	m := NewMeanSpeed()
	if m.Value() != 0 {
		t.Error("expected 0 with no samples")
	}
	m.Observe(particles(), 0)
	m.Observe(particles(), time.Second)
	if m.Value() != 3 {
		t.Errorf("expected 3, got %f", m.Value())
	}
}

func TestRadiusSpread(t *testing.T) {
	m := NewRadiusSpread()
	m.Observe(particles(), 0)
	if math.Abs(m.Value()-0.2) > 1e-9 {
		t.Errorf("expected 0.2, got %f", m.Value())
	}
	m.Observe([]physics.Particle{{Radius: 5}}, 0)
	if math.Abs(m.Value()-0.2) > 1e-9 {
		t.Error("zero original radius should be ignored")
	}
}

func TestViolations(t *testing.T) {
	m := NewViolations(3)
	m.Observe(particles(), 0)
	if m.Value() != 1 {
		t.Errorf("expected 1 violation, got %f", m.Value())
	}
	if m.Samples() != 2 {
		t.Errorf("expected 2 samples, got %d", m.Samples())
	}

	m.Reset()
	m.Observe([]physics.Particle{{DX: 3, Radius: 12, Original: 10}, {Radius: 8, Original: 10}}, 0)
	if m.Value() != 0 {
		t.Errorf("band edges counted as violations: %f", m.Value())
	}
}

func TestSimulationStaysWithinLimits(t *testing.T) {
	sim := physics.NewBubbles(physics.DefaultBubbleParams(), nil, rand.New(rand.NewSource(3)))
	bounds := dynamo.Bounds{Width: 640, Height: 480}
	sim.Initialize(70, bounds)

	ms := Standard(3)
	ptr := &dynamo.Vec2{X: 320, Y: 240}
	for i := 0; i < 600; i++ {
		sim.Step(time.Second/30, ptr, bounds)
		for _, m := range ms {
			m.Observe(sim.Particles(), sim.Elapsed())
		}
	}

	v := Values(ms)
	if v["violations"] != 0 {
		t.Errorf("violations = %v", v["violations"])
	}
	if v["max_speed"] > 3+1e-9 {
		t.Errorf("max speed = %v", v["max_speed"])
	}
	if v["radius_spread"] > 0.2+1e-9 {
		t.Errorf("radius spread = %v", v["radius_spread"])
	}
	if len(v) != 4 {
		t.Errorf("values = %v", v)
	}
}
