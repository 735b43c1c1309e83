// Package raster implements the drawing surface on an in-memory RGBA image.
// Circles go through golang.org/x/image/vector and labels are set in Go
// Regular via opentype.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four arcs approximate a circle.
const kappa = 0.5522847498

// Canvas is a dynamo.Surface backed by an *image.RGBA.
type Canvas struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the backing image. Contents are discarded.
func (c *Canvas) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.z = vector.NewRasterizer(w, h)
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

func (c *Canvas) Fill(col color.NRGBA) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// RadialGradient blends inner at (cx,cy) linearly into outer at distance r,
// compositing the result over the current pixels.
func (c *Canvas) RadialGradient(cx, cy, r float64, inner, outer color.NRGBA) {
	w, h := c.Size()
	if r <= 0 || w == 0 || h == 0 {
		c.blendRect(outer)
		return
	}
	for y := 0; y < h; y++ {
		dy := float64(y) + 0.5 - cy
		row := c.img.Pix[y*c.img.Stride:]
		for x := 0; x < w; x++ {
			dx := float64(x) + 0.5 - cx
			t := math.Min(math.Sqrt(dx*dx+dy*dy)/r, 1)
			over(row[x*4:x*4+4], mix(inner, outer, t))
		}
	}
}

func (c *Canvas) blendRect(col color.NRGBA) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Over)
}

func (c *Canvas) FillCircle(cx, cy, r float64, col color.NRGBA) {
	w, h := c.Size()
	if r <= 0 || w == 0 || h == 0 || col.A == 0 {
		return
	}
	if cx+r < 0 || cy+r < 0 || cx-r > float64(w) || cy-r > float64(h) {
		return
	}
	c.z.Reset(w, h)
	k := float32(r * kappa)
	x, y, rr := float32(cx), float32(cy), float32(r)
	c.z.MoveTo(x+rr, y)
	c.z.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
	c.z.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
	c.z.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
	c.z.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
	c.z.ClosePath()
	c.z.DrawOp = draw.Over
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *Canvas) Text(s string, cx, cy, size float64, col color.NRGBA) {
	if s == "" || size < 1 || col.A == 0 {
		return
	}
	drawLabel(c.img, s, cx, cy, size, col)
}

// Composite paints layers over dst back to front.
func Composite(dst *image.RGBA, layers ...*Canvas) {
	for _, l := range layers {
		draw.Draw(dst, dst.Bounds(), l.img, image.Point{}, draw.Over)
	}
}

// Flatten returns a fresh image with layers composited over opaque black.
func Flatten(layers ...*Canvas) *image.RGBA {
	if len(layers) == 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	dst := image.NewRGBA(layers[0].img.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	Composite(dst, layers...)
	return dst
}

// mix interpolates in premultiplied space, so a fade to transparent keeps
// its hue instead of darkening toward the transparent color's channels.
func mix(a, b color.NRGBA, t float64) color.NRGBA {
	aa, ba := float64(a.A)/255, float64(b.A)/255
	alpha := aa + (ba-aa)*t
	if alpha <= 0 {
		return color.NRGBA{}
	}
	l := func(x, y uint8) uint8 {
		v := (float64(x)*aa + (float64(y)*ba-float64(x)*aa)*t) / alpha
		return uint8(math.Round(math.Min(v, 255)))
	}
	return color.NRGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: uint8(math.Round(alpha * 255))}
}

// over composites a non-premultiplied color onto one premultiplied pixel.
func over(px []uint8, c color.NRGBA) {
	a := uint32(c.A)
	inv := 255 - a
	px[0] = uint8((uint32(c.R)*a + uint32(px[0])*inv + 127) / 255)
	px[1] = uint8((uint32(c.G)*a + uint32(px[1])*inv + 127) / 255)
	px[2] = uint8((uint32(c.B)*a + uint32(px[2])*inv + 127) / 255)
	px[3] = uint8((a*255 + uint32(px[3])*inv + 127) / 255)
}
