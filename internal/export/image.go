package export

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
)

// GIFRecorder collects frames for an animated GIF.
type GIFRecorder struct {
	// Delay per frame in 100ths of a second.
	Delay  int
	frames []*image.Paletted
}

func NewGIFRecorder(fps float64) *GIFRecorder {
	delay := 2
	if fps > 0 {
		delay = max(1, int(100/fps+0.5))
	}
	return &GIFRecorder{Delay: delay}
}

// Add quantizes img to the Plan 9 palette with Floyd-Steinberg dithering.
func (g *GIFRecorder) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	g.frames = append(g.frames, p)
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

func (g *GIFRecorder) Reset() { g.frames = nil }

func (g *GIFRecorder) Encode(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, g.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the animation to path. An empty recording writes nothing.
func (g *GIFRecorder) Save(path string) error {
	if len(g.frames) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.Encode(f)
}

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
