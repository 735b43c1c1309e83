package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/backdrop/internal/export"
)

// layer pairs a recorded display list with the texture it is replayed
// into. The scene draws from inside Loop.Pump, which may run outside
// BeginDrawing, so drawing is deferred until the host's draw pass.
type layer struct {
	list   *export.DisplayList
	tex    rl.RenderTexture2D
	drawn  uint64
	loaded bool
}

func newLayer(w, h int) *layer {
	return &layer{list: export.NewDisplayList(w, h)}
}

func (l *layer) ensure() {
	w, h := l.list.Size()
	if l.loaded && int(l.tex.Texture.Width) == w && int(l.tex.Texture.Height) == h {
		return
	}
	l.unload()
	l.tex = rl.LoadRenderTexture(int32(w), int32(h))
	l.loaded = true
	l.drawn = 0
}

func (l *layer) unload() {
	if l.loaded {
		rl.UnloadRenderTexture(l.tex)
		l.loaded = false
	}
}

// sync replays the list into the texture when it changed since the last
// replay. Must be called outside BeginDrawing.
func (l *layer) sync(font rl.Font) {
	l.ensure()
	if v := l.list.Version(); v == l.drawn {
		return
	}
	rl.BeginTextureMode(l.tex)
	rl.ClearBackground(rl.Blank)
	l.list.Replay(rlSurface{list: l.list, font: font})
	rl.EndTextureMode()
	l.drawn = l.list.Version()
}

// draw blits the texture to the screen. Render textures are stored
// upside down, hence the negative source height.
func (l *layer) draw() {
	if !l.loaded {
		return
	}
	w, h := float32(l.tex.Texture.Width), float32(l.tex.Texture.Height)
	rl.DrawTextureRec(l.tex.Texture, rl.NewRectangle(0, 0, w, -h), rl.NewVector2(0, 0), rl.White)
}

// rlSurface issues raylib draw calls; it is only valid inside
// BeginTextureMode.
type rlSurface struct {
	list *export.DisplayList
	font rl.Font
}

func toRL(c color.NRGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func (s rlSurface) Size() (int, int) { return s.list.Size() }

func (s rlSurface) Clear() { rl.ClearBackground(rl.Blank) }

func (s rlSurface) Fill(c color.NRGBA) { rl.ClearBackground(toRL(c)) }

func (s rlSurface) RadialGradient(cx, cy, r float64, inner, outer color.NRGBA) {
	w, h := s.list.Size()
	rl.DrawRectangle(0, 0, int32(w), int32(h), toRL(outer))
	rl.DrawCircleGradient(int32(cx), int32(cy), float32(r), toRL(inner), toRL(outer))
}

func (s rlSurface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	rl.DrawCircleV(rl.NewVector2(float32(cx), float32(cy)), float32(r), toRL(c))
}

func (s rlSurface) Text(text string, cx, cy, size float64, c color.NRGBA) {
	fs := float32(size)
	m := rl.MeasureTextEx(s.font, text, fs, 1)
	pos := rl.NewVector2(float32(cx)-m.X/2, float32(cy)-m.Y/2)
	rl.DrawTextEx(s.font, text, pos, fs, 1, toRL(c))
}
