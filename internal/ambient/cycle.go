package ambient

import (
	"fmt"
	"image/color"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette ends with a back-to-start entry so the cycle fades home
// before wrapping.
var DefaultPalette = []string{
	"#0a0a0a",
	"#1a237e",
	"#283593",
	"#1565c0",
	"#00838f",
	"#4527a0",
	"#0a0a0a",
}

type Palette []colorful.Color

func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) < 2 {
		return nil, fmt.Errorf("ambient: palette needs at least 2 colors, got %d", len(hexes))
	}
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("ambient: palette[%d]: %w", i, err)
		}
		p[i] = c
	}
	return p, nil
}

// ColorCycle walks a palette, blending each entry into the next. Next is
// always (Index+1) mod len(palette) and Progress stays in [0,1).
type ColorCycle struct {
	palette  Palette
	Index    int
	Next     int
	Progress float64
}

func NewColorCycle(p Palette) *ColorCycle {
	return &ColorCycle{palette: p, Index: 0, Next: 1 % len(p)}
}

func (c *ColorCycle) Len() int { return len(c.palette) }

// Advance adds dt/duration to the progress and steps to the next pair once
// a full transition has elapsed. Progress restarts at 0 rather than carrying
// the remainder.
func (c *ColorCycle) Advance(dt, duration time.Duration) {
	if duration <= 0 || dt < 0 {
		return
	}
	c.Progress += float64(dt) / float64(duration)
	if c.Progress >= 1 {
		c.Progress = 0
		c.Index = c.Next
		c.Next = (c.Next + 1) % len(c.palette)
	}
}

// Color is the per-channel linear blend of the current pair at Progress.
func (c *ColorCycle) Color() color.NRGBA {
	blend := c.palette[c.Index].BlendRgb(c.palette[c.Next], c.Progress)
	r, g, b := blend.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
