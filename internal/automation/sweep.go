package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/physics"
)

// ParameterSweep steps the bubble simulation across a range of one
// parameter with the pointer parked at the viewport center.
type ParameterSweep struct {
	Param    string
	Min, Max float64
	Steps    int
	Frames   int
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

func RunSweep(ctx context.Context, cfg *config.Config, sw ParameterSweep) ([]SweepResult, error) {
	if sw.Steps < 1 || sw.Frames < 1 {
		return nil, fmt.Errorf("automation: sweep needs steps and frames, got %d/%d", sw.Steps, sw.Frames)
	}
	w, h := cfg.Bounds()
	bounds := dynamo.Bounds{Width: w, Height: h}
	center := dynamo.Vec2{X: w / 2, Y: h / 2}
	dt := time.Duration(float64(time.Second) / cfg.Scheduler.MaxFPS)

	paramStep := 0.0
	if sw.Steps > 1 {
		paramStep = (sw.Max - sw.Min) / float64(sw.Steps-1)
	}

	results := make([]SweepResult, 0, sw.Steps)
	for i := 0; i < sw.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		value := sw.Min + float64(i)*paramStep

		sim := physics.NewBubbles(cfg.BubbleParams(), cfg.Labels(), rand.New(rand.NewSource(cfg.Seed)))
		if err := sim.SetParam(sw.Param, value); err != nil {
			return results, err
		}
		sim.Initialize(cfg.Bubbles.Count, bounds)

		ms := metrics.Standard(sim.Params.MaxSpeed)
		for f := 0; f < sw.Frames; f++ {
			sim.Step(dt, &center, bounds)
			for _, m := range ms {
				m.Observe(sim.Particles(), sim.Elapsed())
			}
		}
		results = append(results, SweepResult{Value: value, Metrics: metrics.Values(ms)})
	}
	return results, nil
}
