package export

import (
	"fmt"
	"html"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/backdrop/internal/dynamo"
)

// SVG is a dynamo.Surface that records vector elements instead of pixels.
type SVG struct {
	width, height int
	defs          []string
	body          []string
	gradients     int
	prefix        string
}

// NewSVG creates a surface; prefix keeps gradient ids unique when several
// layers share one document.
func NewSVG(width, height int, prefix string) *SVG {
	return &SVG{width: width, height: height, prefix: prefix}
}

func (s *SVG) Size() (int, int) { return s.width, s.height }

func (s *SVG) Resize(w, h int) {
	s.width, s.height = w, h
	s.Clear()
}

func (s *SVG) Clear() {
	s.defs = s.defs[:0]
	s.body = s.body[:0]
}

func (s *SVG) Fill(c color.NRGBA) {
	s.Clear()
	s.body = append(s.body, fmt.Sprintf(`<rect width="100%%" height="100%%" %s/>`, fillAttr(c)))
}

func (s *SVG) RadialGradient(cx, cy, r float64, inner, outer color.NRGBA) {
	s.gradients++
	id := fmt.Sprintf("%sg%d", s.prefix, s.gradients)
	s.defs = append(s.defs, fmt.Sprintf(
		`<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%.1f" cy="%.1f" r="%.1f">`+
			`<stop offset="0" %s/><stop offset="1" %s/></radialGradient>`,
		id, cx, cy, r, stopAttr(inner), stopAttr(outer)))
	s.body = append(s.body, fmt.Sprintf(`<rect width="100%%" height="100%%" fill="url(#%s)"/>`, id))
}

func (s *SVG) FillCircle(cx, cy, r float64, c color.NRGBA) {
	if r <= 0 || c.A == 0 {
		return
	}
	s.body = append(s.body, fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" %s/>`, cx, cy, r, fillAttr(c)))
}

func (s *SVG) Text(str string, cx, cy, size float64, c color.NRGBA) {
	if str == "" || size < 1 || c.A == 0 {
		return
	}
	s.body = append(s.body, fmt.Sprintf(
		`<text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central" %s>%s</text>`,
		cx, cy, size, fillAttr(c), html.EscapeString(str)))
}

// Elements reports how many drawable elements are recorded.
func (s *SVG) Elements() int { return len(s.body) }

// Document renders layers back to front as one standalone SVG file.
func Document(width, height int, layers ...*SVG) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height))

	sb.WriteString("<defs>\n")
	for _, l := range layers {
		for _, d := range l.defs {
			sb.WriteString(d)
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("</defs>\n")

	for _, l := range layers {
		sb.WriteString("<g>\n")
		for _, e := range l.body {
			sb.WriteString(e)
			sb.WriteByte('\n')
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>")
	return sb.String()
}

func WriteDocument(w io.Writer, width, height int, layers ...*SVG) error {
	_, err := io.WriteString(w, Document(width, height, layers...))
	return err
}

// SeriesToSVG plots a sampled series as a polyline, e.g. per-frame step time.
func SeriesToSVG(points []dynamo.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func fillAttr(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf(`fill="%s"`, hex(c))
	}
	return fmt.Sprintf(`fill="%s" fill-opacity="%.3f"`, hex(c), float64(c.A)/255)
}

func stopAttr(c color.NRGBA) string {
	return fmt.Sprintf(`stop-color="%s" stop-opacity="%.3f"`, hex(c), float64(c.A)/255)
}
