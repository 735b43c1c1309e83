package main

import (
	"math/rand"
	"time"

	"github.com/san-kum/backdrop/internal/automation"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/input"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/tier"
)

// headless runs a scene on virtual time, one pump per display refresh.
type headless struct {
	scene   *scene.Scene
	clock   *scheduler.ManualClock
	refresh time.Duration
	player  *automation.Player
}

func newHeadless(cfg *config.Config, t tier.Tier, layers scene.Layers, sc *automation.Scenario) (*headless, error) {
	clock := scheduler.NewManualClock(time.Unix(0, 0))
	loop := scheduler.NewLoop(clock)
	w, h := cfg.Bounds()
	hub := input.NewHub(dynamo.Bounds{Width: w, Height: h})
	rng := rand.New(rand.NewSource(cfg.Seed))

	s, err := scene.New(cfg, t, layers, loop, hub, rng)
	if err != nil {
		return nil, err
	}
	hz := cfg.Scheduler.RefreshHz
	if hz <= 0 {
		hz = scheduler.DefaultRefreshHz
	}
	hl := &headless{
		scene:   s,
		clock:   clock,
		refresh: time.Duration(float64(time.Second) / hz),
	}
	if sc != nil {
		hl.player = automation.NewPlayer(sc)
		hl.player.Tuner = s.Simulator()
	}
	return hl, s.Mount()
}

// run pumps n refreshes, applying scenario steps before each pump.
func (h *headless) run(n int) error {
	for i := 0; i < n; i++ {
		now := h.clock.Advance(h.refresh)
		if h.player != nil {
			if _, err := h.player.Advance(now, h.scene.Hub(), h.scene); err != nil {
				return err
			}
		}
		h.scene.Loop().Pump(now)
	}
	return nil
}

func (h *headless) close() { h.scene.Dispose() }
