package viz

import (
	"fmt"
	"io"
	"log"
	"math/rand"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/input"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/tier"
)

// Run hosts a scene in the terminal until the user quits.
func Run(cfg *config.Config, t tier.Tier, rng *rand.Rand) error {
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "backdrop")
		if err != nil {
			return fmt.Errorf("viz: log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	w, h := defaultCols*DefaultScale, defaultRows*2*DefaultScale
	field, bubbles := raster.NewCanvas(w, h), raster.NewCanvas(w, h)
	loop := scheduler.NewLoop(scheduler.SystemClock{})
	hub := input.NewHub(dynamo.Bounds{Width: float64(w), Height: float64(h)})

	sc, err := scene.New(cfg, t, scene.Layers{Field: field, Bubbles: bubbles}, loop, hub, rng)
	if err != nil {
		return err
	}
	if err := sc.Mount(); err != nil {
		return err
	}
	defer sc.Dispose()
	log.Printf("backdrop: terminal host mounted, tier %s", t)

	p := tea.NewProgram(NewModel(sc, field, bubbles, DefaultScale), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}
