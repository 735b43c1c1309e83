package viz

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const upperHalf = "▀"

type cell struct {
	top, bottom color.RGBA
}

// Cells downsamples img into cols x rows half-block cells. Each cell
// covers a cols-th of the width and two vertical samples of a rows-th of
// the height.
func Cells(img *image.RGBA, cols, rows int) [][]cell {
	out := make([][]cell, rows)
	b := img.Bounds()
	if cols <= 0 || rows <= 0 || b.Empty() {
		return out
	}
	for r := 0; r < rows; r++ {
		out[r] = make([]cell, cols)
		y0 := b.Min.Y + r*2*b.Dy()/(rows*2)
		ym := b.Min.Y + (r*2+1)*b.Dy()/(rows*2)
		y1 := b.Min.Y + (r*2+2)*b.Dy()/(rows*2)
		for c := 0; c < cols; c++ {
			x0 := b.Min.X + c*b.Dx()/cols
			x1 := b.Min.X + (c+1)*b.Dx()/cols
			out[r][c] = cell{
				top:    average(img, x0, y0, x1, ym),
				bottom: average(img, x0, ym, x1, y1),
			}
		}
	}
	return out
}

func average(img *image.RGBA, x0, y0, x1, y1 int) color.RGBA {
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	var r, g, b, n uint32
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := img.RGBAAt(x, y)
			r += uint32(c.R)
			g += uint32(c.G)
			b += uint32(c.B)
			n++
		}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// RenderCells joins runs of identical cells into one styled string per run.
func RenderCells(cells [][]cell) string {
	var sb strings.Builder
	for i, row := range cells {
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end] == row[start] {
				end++
			}
			style := lipgloss.NewStyle().
				Foreground(hexColor(row[start].top)).
				Background(hexColor(row[start].bottom))
			sb.WriteString(style.Render(strings.Repeat(upperHalf, end-start)))
			start = end
		}
		if i < len(cells)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
