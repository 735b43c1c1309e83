package raster

import (
	"image/color"
	"testing"

	"github.com/san-kum/backdrop/internal/dynamo"
)

var _ dynamo.Surface = (*Canvas)(nil)

func rgba(c *Canvas, x, y int) color.RGBA {
	return c.Image().RGBAAt(x, y)
}

func TestFillAndClear(t *testing.T) {
	c := NewCanvas(4, 3)
	c.Fill(color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	if got := rgba(c, 3, 2); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("pixel after fill = %v", got)
	}
	c.Clear()
	if got := rgba(c, 0, 0); got != (color.RGBA{}) {
		t.Errorf("pixel after clear = %v", got)
	}
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(100, 100)
	c.FillCircle(50, 50, 20, color.NRGBA{R: 255, A: 255})

	if got := rgba(c, 50, 50); got.R < 250 || got.A < 250 {
		t.Errorf("center = %v, want opaque red", got)
	}
	if got := rgba(c, 5, 5); got.A != 0 {
		t.Errorf("corner = %v, want untouched", got)
	}
	// just inside the bounding box corner but outside the circle
	if got := rgba(c, 33, 33); got.A != 0 {
		t.Errorf("(33,33) = %v, want outside the circle", got)
	}
}

func TestFillCircleTranslucent(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Fill(color.NRGBA{A: 255})
	c.FillCircle(10, 10, 8, color.NRGBA{R: 255, G: 255, B: 255, A: 128})

	got := rgba(c, 10, 10)
	if got.R < 120 || got.R > 136 || got.A != 255 {
		t.Errorf("blended center = %v, want half grey", got)
	}
}

func TestFillCircleOffscreen(t *testing.T) {
	c := NewCanvas(10, 10)
	c.FillCircle(-50, -50, 5, color.NRGBA{R: 255, A: 255})
	c.FillCircle(5, 5, 0, color.NRGBA{R: 255, A: 255})
	for _, v := range c.Image().Pix {
		if v != 0 {
			t.Fatal("offscreen or empty circle painted pixels")
		}
	}
}

func TestRadialGradient(t *testing.T) {
	c := NewCanvas(101, 1)
	inner := color.NRGBA{R: 255, A: 255}
	outer := color.NRGBA{B: 255, A: 255}
	c.RadialGradient(0, 0.5, 100, inner, outer)

	if got := rgba(c, 0, 0); got.R < 250 || got.B > 5 {
		t.Errorf("near center = %v, want inner", got)
	}
	if got := rgba(c, 100, 0); got.B != 255 || got.R != 0 {
		t.Errorf("at radius = %v, want outer", got)
	}
	mid := rgba(c, 50, 0)
	if mid.R < 120 || mid.R > 135 {
		t.Errorf("midpoint = %v, want an even blend", mid)
	}
}

func TestMixPremultiplied(t *testing.T) {
	glow := color.NRGBA{R: 80, G: 180, B: 255, A: 56}
	tests := []struct {
		name string
		a, b color.NRGBA
		t    float64
		want color.NRGBA
	}{
		{"fade keeps hue", glow, color.NRGBA{}, 0.5, color.NRGBA{R: 80, G: 180, B: 255, A: 28}},
		{"opaque ends", color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255}, 0.5, color.NRGBA{R: 128, B: 128, A: 255}},
		{"both transparent", color.NRGBA{}, color.NRGBA{R: 9}, 0.3, color.NRGBA{}},
		{"endpoint", glow, color.NRGBA{}, 0, glow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mix(tt.a, tt.b, tt.t); got != tt.want {
				t.Errorf("mix = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRadialGradientBlendsOver(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Fill(color.NRGBA{A: 255})
	c.RadialGradient(1.5, 1.5, 0, color.NRGBA{}, color.NRGBA{G: 255, A: 0})
	if got := rgba(c, 1, 1); got != (color.RGBA{A: 255}) {
		t.Errorf("transparent gradient changed pixel to %v", got)
	}
}

func TestText(t *testing.T) {
	c := NewCanvas(80, 40)
	c.Text("React", 40, 20, 16, color.NRGBA{A: 255})

	painted := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 80; x++ {
			if rgba(c, x, y).A > 0 {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Fatal("label painted nothing")
	}
	if rgba(c, 0, 0).A != 0 || rgba(c, 79, 39).A != 0 {
		t.Error("label not centered")
	}

	c.Clear()
	c.Text("tiny", 40, 20, 0.5, color.NRGBA{A: 255})
	for _, v := range c.Image().Pix {
		if v != 0 {
			t.Fatal("sub-pixel label painted")
		}
	}
}

func TestTextWidth(t *testing.T) {
	if TextWidth("Python", 20) <= TextWidth("JS", 20) {
		t.Error("longer label should be wider")
	}
	if TextWidth("JS", 40) <= TextWidth("JS", 10) {
		t.Error("bigger size should be wider")
	}
}

func TestResize(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Resize(30, 20)
	if w, h := c.Size(); w != 30 || h != 20 {
		t.Errorf("size = %dx%d", w, h)
	}
	c.Resize(-1, 5)
	if w, _ := c.Size(); w != 0 {
		t.Errorf("negative width kept: %d", w)
	}
}

func TestFlatten(t *testing.T) {
	back := NewCanvas(4, 4)
	back.Fill(color.NRGBA{B: 200, A: 255})
	front := NewCanvas(4, 4)
	front.FillCircle(2, 2, 4, color.NRGBA{R: 255, A: 255})

	img := Flatten(back, front)
	if got := img.RGBAAt(2, 2); got.R < 250 || got.A != 255 {
		t.Errorf("front layer not on top: %v", got)
	}

	empty := Flatten(NewCanvas(2, 2))
	if got := empty.RGBAAt(1, 1); got != (color.RGBA{A: 255}) {
		t.Errorf("flatten background = %v, want opaque black", got)
	}
}
