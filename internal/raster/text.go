package raster

import (
	"image"
	"image/color"
	"log"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	regular *opentype.Font
	faces   = map[int]font.Face{}
)

// face returns a cached Go Regular face at the nearest whole pixel size.
func face(size float64) font.Face {
	px := int(math.Round(size))
	if px < 1 {
		px = 1
	}
	if f, ok := faces[px]; ok {
		return f
	}
	if regular == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("raster: parse font: %v", err)
			return nil
		}
		regular = f
	}
	f, err := opentype.NewFace(regular, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		log.Printf("raster: face %dpx: %v", px, err)
		return nil
	}
	faces[px] = f
	return f
}

// drawLabel centers s on (cx,cy) both horizontally and vertically.
func drawLabel(dst *image.RGBA, s string, cx, cy, size float64, col color.NRGBA) {
	f := face(size)
	if f == nil {
		return
	}
	d := font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: f}
	width := d.MeasureString(s)
	m := f.Metrics()
	x := fixed.Int26_6(cx*64) - width/2
	y := fixed.Int26_6(cy*64) + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(s)
}

// TextWidth reports the advance of s at size in pixels.
func TextWidth(s string, size float64) float64 {
	f := face(size)
	if f == nil {
		return 0
	}
	return float64(font.MeasureString(f, s)) / 64
}
