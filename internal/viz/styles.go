package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors the status bar.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Bar     lipgloss.Color
}

var (
	ThemeIndigo = Theme{
		Name:    "indigo",
		Primary: lipgloss.Color("#90caf9"),
		Accent:  lipgloss.Color("#ff80ab"),
		Muted:   lipgloss.Color("#5c6bc0"),
		Bar:     lipgloss.Color("#1a237e"),
	}

	ThemeTeal = Theme{
		Name:    "teal",
		Primary: lipgloss.Color("#80deea"),
		Accent:  lipgloss.Color("#ffd54f"),
		Muted:   lipgloss.Color("#4db6ac"),
		Bar:     lipgloss.Color("#00838f"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Muted:   lipgloss.Color("#888888"),
		Bar:     lipgloss.Color("#0a0a0a"),
	}

	Themes = []Theme{ThemeIndigo, ThemeTeal, ThemeMono}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeIndigo
}

func nextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

type styles struct {
	bar, label, value, active, recording, help lipgloss.Style
}

func newStyles(t Theme) styles {
	base := lipgloss.NewStyle().Background(t.Bar)
	return styles{
		bar:       base.Padding(0, 1),
		label:     base.Foreground(t.Muted),
		value:     base.Foreground(t.Primary).Bold(true),
		active:    base.Foreground(t.Accent).Bold(true),
		recording: base.Foreground(lipgloss.Color("#ff4444")).Bold(true).Blink(true),
		help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Foreground(t.Primary).
			Padding(0, 2),
	}
}

// Sparkline renders values as block characters scaled to their range.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		sb.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return sb.String()
}
