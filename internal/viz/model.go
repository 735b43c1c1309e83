package viz

import (
	"fmt"
	"image"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/scene"
)

const (
	// pixels per cell column; a cell is two samples tall
	DefaultScale = 8

	defaultCols   = 80
	defaultRows   = 24
	statusRows    = 1
	refreshRate   = time.Second / 60
	stepHistory   = 120
	recordingPath = "backdrop.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the Bubble Tea model around a mounted scene.
type Model struct {
	scene   *scene.Scene
	field   *raster.Canvas
	bubbles *raster.Canvas
	scale   int

	cols, rows int
	running    bool
	quitting   bool
	showHelp   bool
	theme      Theme
	styles     styles

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	steps     []float64
	lastFrame int
	fps       float64
	fpsSince  time.Time
	fpsFrames int

	recorder  *export.GIFRecorder
	recording bool
}

// NewModel wraps a scene whose layers are the given canvases. The scene must
// already be mounted.
func NewModel(sc *scene.Scene, field, bubbles *raster.Canvas, scale int) Model {
	if scale <= 0 {
		scale = DefaultScale
	}
	params := sc.Simulator().GetParams()
	keys := make([]string, 0, len(params))
	initial := make(map[string]float64, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initial[k] = v
	}
	sort.Strings(keys)

	m := Model{
		scene:         sc,
		field:         field,
		bubbles:       bubbles,
		scale:         scale,
		running:       true,
		theme:         ThemeIndigo,
		styles:        newStyles(ThemeIndigo),
		params:        params,
		initialParams: initial,
		paramKeys:     keys,
		steps:         make([]float64, 0, stepHistory),
		recorder:      export.NewGIFRecorder(30),
	}
	w, h := field.Size()
	m.cols, m.rows = max(1, w/scale), max(1, h/(2*scale))
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height-statusRows)
	case tea.MouseMsg:
		x, y := m.toPixels(msg.X, msg.Y)
		switch {
		case msg.Action == tea.MouseActionMotion:
			m.scene.Hub().Move(x, y)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.scene.Hub().Press(x, y)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "r":
			m.resetParams()
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.quitting {
			return m, nil
		}
		if m.running {
			m.pump(time.Time(msg))
		}
		return m, tick()
	}
	return m, nil
}

// pump runs one refresh of the scene loop and samples frame statistics.
func (m *Model) pump(now time.Time) {
	m.scene.Loop().Pump(now)

	st := m.scene.Stats()
	if st.BubbleFrames == m.lastFrame {
		return
	}
	m.lastFrame = st.BubbleFrames
	m.steps = append(m.steps, float64(st.LastBubbleStep)/float64(time.Microsecond))
	if len(m.steps) > stepHistory {
		m.steps = m.steps[1:]
	}

	if m.fpsSince.IsZero() {
		m.fpsSince = now
	}
	m.fpsFrames++
	if el := now.Sub(m.fpsSince); el >= time.Second {
		m.fps = float64(m.fpsFrames) / el.Seconds()
		m.fpsFrames = 0
		m.fpsSince = now
	}

	if m.recording {
		m.recorder.Add(m.frame())
	}
}

func (m *Model) resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	if err := m.scene.Resize(cols*m.scale, rows*2*m.scale); err != nil {
		log.Printf("backdrop: resize %dx%d: %v", cols, rows, err)
		return
	}
	m.cols, m.rows = cols, rows
}

// toPixels maps a terminal cell to the center of its pixel block.
func (m Model) toPixels(col, row int) (float64, float64) {
	s := float64(m.scale)
	return (float64(col) + 0.5) * s, (float64(row) + 0.5) * 2 * s
}

func (m *Model) quit() {
	m.quitting = true
	if m.recording {
		m.toggleRecording()
	}
	m.scene.Dispose()
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.recorder.Reset()
		return
	}
	m.recording = false
	if err := m.recorder.Save(recordingPath); err != nil {
		log.Printf("backdrop: save recording: %v", err)
	}
	m.recorder.Reset()
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if err := m.scene.Simulator().SetParam(key, val); err != nil {
		log.Printf("backdrop: %v", err)
		return
	}
	m.params[key] = m.scene.Simulator().GetParams()[key]
}

func (m *Model) resetParams() {
	for k, v := range m.initialParams {
		if err := m.scene.Simulator().SetParam(k, v); err == nil {
			m.params[k] = v
		}
	}
}

func (m Model) frame() *image.RGBA {
	return raster.Flatten(m.field, m.bubbles)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return lipgloss.Place(m.cols, m.rows+statusRows, lipgloss.Center, lipgloss.Center, m.styles.help.Render(helpText))
	}
	return RenderCells(Cells(m.frame(), m.cols, m.rows)) + "\n" + m.statusBar()
}

const helpText = `KEYBOARD SHORTCUTS

Space     pause / resume
Tab       cycle parameters
Up/K      increase parameter (+5%)
Down/J    decrease parameter (-5%)
R         reset parameters
T         cycle themes
G         toggle GIF recording
?         toggle this help
Q         quit`

func (m Model) statusBar() string {
	st := m.scene.Stats()
	s := m.styles

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	parts := []string{
		s.value.Render(status),
		s.label.Render("tier ") + s.value.Render(st.Tier.String()),
		s.label.Render("fps ") + s.value.Render(fmt.Sprintf("%.0f", m.fps)),
		s.label.Render("bubbles ") + s.value.Render(fmt.Sprint(st.Particles)),
		s.label.Render("pulses ") + s.value.Render(fmt.Sprint(st.ActivePulses)),
	}
	if len(m.paramKeys) > 0 {
		k := m.paramKeys[m.selected]
		parts = append(parts, s.active.Render(fmt.Sprintf("%s=%s", k, formatParam(m.params[k]))))
	}
	if len(m.steps) > 1 {
		parts = append(parts, s.label.Render("step ")+s.value.Render(Sparkline(m.steps, 16)))
	}
	if m.recording {
		parts = append(parts, s.recording.Render(fmt.Sprintf("REC %d", m.recorder.Len())))
	}
	bar := strings.Join(parts, s.label.Render("  "))
	return s.bar.Width(m.cols).MaxWidth(m.cols).Render(bar)
}

func formatParam(v float64) string {
	if v != 0 && math.Abs(v) < 0.1 {
		return fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
