package dynamo

import (
	"image/color"
	"math"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// IsValid reports whether both components are finite.
func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Bounds is a viewport size in pixels with the origin at the top-left corner.
type Bounds struct {
	Width, Height float64
}

func (b Bounds) IsValid() bool {
	return b.Width > 0 && b.Height > 0 && !math.IsInf(b.Width, 0) && !math.IsInf(b.Height, 0)
}

// Contains reports whether p lies inside the closed rectangle [0,W]x[0,H].
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Clamp pulls p into the closed rectangle.
func (b Bounds) Clamp(p Vec2) Vec2 {
	return Vec2{X: clamp(p.X, 0, b.Width), Y: clamp(p.Y, 0, b.Height)}
}

// Percent maps a pixel position to percentage-of-viewport space.
func (b Bounds) Percent(p Vec2) Vec2 {
	if !b.IsValid() {
		return Vec2{50, 50}
	}
	return Vec2{X: p.X / b.Width * 100, Y: p.Y / b.Height * 100}
}

// Pixels maps a percentage-of-viewport position back to pixel space.
func (b Bounds) Pixels(p Vec2) Vec2 {
	return Vec2{X: p.X / 100 * b.Width, Y: p.Y / 100 * b.Height}
}

// Surface is a 2D raster drawing target sized to the viewport. Colors are
// non-premultiplied; alpha blends over what is already painted except for
// Clear and Fill.
type Surface interface {
	Size() (w, h int)
	// Clear resets every pixel to transparent.
	Clear()
	// Fill paints every pixel with c.
	Fill(c color.NRGBA)
	// RadialGradient paints the whole surface, blending inner at (cx,cy) to
	// outer at distance r and beyond.
	RadialGradient(cx, cy, r float64, inner, outer color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
	// Text draws s centered on (cx,cy) with the given pixel size.
	Text(s string, cx, cy, size float64, c color.NRGBA)
}

// SurfaceBounds reports the size of s as Bounds.
func SurfaceBounds(s Surface) Bounds {
	w, h := s.Size()
	return Bounds{Width: float64(w), Height: float64(h)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Configurable exposes named tunables, e.g. for live tweaking or scripted
// parameter changes.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
