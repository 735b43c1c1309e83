package config

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/backdrop/internal/ambient"
	"github.com/san-kum/backdrop/internal/physics"
	"github.com/san-kum/backdrop/internal/skills"
	"github.com/san-kum/backdrop/internal/tier"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultCount      = 70
	DefaultMaxFPS     = 30.0
	DefaultRefreshHz  = 60.0
	DefaultGlow       = "#50b4ff"
	DefaultGlowAlpha  = 0.22
	DefaultPulseAlpha = 0.18
)

type Config struct {
	Tier      string          `yaml:"tier"`
	Seed      int64           `yaml:"seed"`
	Window    WindowConfig    `yaml:"window"`
	Bubbles   BubblesConfig   `yaml:"bubbles"`
	Ambient   AmbientConfig   `yaml:"ambient"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	LogFile   string          `yaml:"log_file,omitempty"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type BubblesConfig struct {
	Count             int      `yaml:"count"`
	MinRadius         float64  `yaml:"min_radius"`
	MaxRadius         float64  `yaml:"max_radius"`
	RepulsionRadius   float64  `yaml:"repulsion_radius"`
	RepulsionStrength float64  `yaml:"repulsion_strength"`
	JitterChance      float64  `yaml:"jitter_chance"`
	Jitter            float64  `yaml:"jitter"`
	MaxSpeed          float64  `yaml:"max_speed"`
	PulseMin          float64  `yaml:"pulse_min"`
	PulseMax          float64  `yaml:"pulse_max"`
	Alpha             float64  `yaml:"alpha"`
	Tint              string   `yaml:"tint"`
	Labels            []string `yaml:"labels,omitempty"`
}

type AmbientConfig struct {
	Palette          []string      `yaml:"palette"`
	Duration         time.Duration `yaml:"duration"`
	ReducedDuration  time.Duration `yaml:"reduced_duration"`
	Smoothing        float64       `yaml:"smoothing"`
	ReducedSmoothing float64       `yaml:"reduced_smoothing"`
	Glow             string        `yaml:"glow"`
	GlowAlpha        float64       `yaml:"glow_alpha"`
	PulseLifetime    time.Duration `yaml:"pulse_lifetime"`
	PulseRadius      float64       `yaml:"pulse_radius"`
	ReducedMaxPulses int           `yaml:"reduced_max_pulses"`
}

type SchedulerConfig struct {
	MaxFPS    float64 `yaml:"max_fps"`
	RefreshHz float64 `yaml:"refresh_hz"`
}

func DefaultConfig() *Config {
	bp := physics.DefaultBubbleParams()
	fp := ambient.DefaultFieldParams()
	return &Config{
		Tier:   "auto",
		Window: WindowConfig{Width: DefaultWidth, Height: DefaultHeight},
		Bubbles: BubblesConfig{
			Count:             DefaultCount,
			MinRadius:         bp.MinRadius,
			MaxRadius:         bp.MaxRadius,
			RepulsionRadius:   bp.RepulsionRadius,
			RepulsionStrength: bp.RepulsionStrength,
			JitterChance:      bp.JitterChance,
			Jitter:            bp.Jitter,
			MaxSpeed:          bp.MaxSpeed,
			PulseMin:          bp.PulseMin,
			PulseMax:          bp.PulseMax,
			Alpha:             bp.Alpha,
			Tint:              "random",
		},
		Ambient: AmbientConfig{
			Palette:          fp.Palette,
			Duration:         fp.Duration,
			ReducedDuration:  fp.ReducedDuration,
			Smoothing:        fp.Smoothing,
			ReducedSmoothing: fp.ReducedSmoothing,
			Glow:             DefaultGlow,
			GlowAlpha:        DefaultGlowAlpha,
			PulseLifetime:    fp.PulseLifetime,
			PulseRadius:      fp.PulseRadius,
			ReducedMaxPulses: fp.ReducedMaxPulses,
		},
		Scheduler: SchedulerConfig{MaxFPS: DefaultMaxFPS, RefreshHz: DefaultRefreshHz},
	}
}

// Load overlays the yaml file at path on DefaultConfig and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func invalid(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, field, fmt.Sprintf(format, args...))
}

func (c *Config) Validate() error {
	if _, _, err := tier.Parse(c.Tier); err != nil {
		return invalid("tier", "%v", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window", "size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	b := c.Bubbles
	if b.Count <= 0 {
		return invalid("bubbles.count", "%d must be positive", b.Count)
	}
	if b.MinRadius <= 0 || b.MaxRadius < b.MinRadius {
		return invalid("bubbles.radius", "need 0 < min_radius <= max_radius, got %v..%v", b.MinRadius, b.MaxRadius)
	}
	for name, v := range map[string]float64{
		"repulsion_radius": b.RepulsionRadius,
		"max_speed":        b.MaxSpeed,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			return invalid("bubbles."+name, "%v must be positive", v)
		}
	}
	if b.RepulsionStrength < 0 || b.Jitter < 0 {
		return invalid("bubbles", "repulsion_strength and jitter must not be negative")
	}
	if b.JitterChance < 0 || b.JitterChance > 1 {
		return invalid("bubbles.jitter_chance", "%v outside [0,1]", b.JitterChance)
	}
	if b.PulseMin < 0 || b.PulseMax < b.PulseMin {
		return invalid("bubbles.pulse", "need 0 <= pulse_min <= pulse_max, got %v..%v", b.PulseMin, b.PulseMax)
	}
	if b.Alpha < 0 || b.Alpha > 1 {
		return invalid("bubbles.alpha", "%v outside [0,1]", b.Alpha)
	}
	if _, err := parseTint(b.Tint); err != nil {
		return err
	}

	a := c.Ambient
	if _, err := ambient.ParsePalette(a.Palette); err != nil {
		return invalid("ambient.palette", "%v", err)
	}
	if _, err := colorful.Hex(a.Glow); err != nil {
		return invalid("ambient.glow", "%v", err)
	}
	if a.GlowAlpha < 0 || a.GlowAlpha > 1 {
		return invalid("ambient.glow_alpha", "%v outside [0,1]", a.GlowAlpha)
	}
	if a.Duration <= 0 || a.ReducedDuration <= 0 || a.PulseLifetime <= 0 {
		return invalid("ambient", "durations must be positive")
	}
	if a.Smoothing <= 0 || a.Smoothing > 1 || a.ReducedSmoothing <= 0 || a.ReducedSmoothing > 1 {
		return invalid("ambient", "smoothing must be in (0,1]")
	}
	if a.PulseRadius <= 0 {
		return invalid("ambient.pulse_radius", "%v must be positive", a.PulseRadius)
	}
	if a.ReducedMaxPulses < 0 {
		return invalid("ambient.reduced_max_pulses", "%d must not be negative", a.ReducedMaxPulses)
	}

	if c.Scheduler.MaxFPS <= 0 || c.Scheduler.RefreshHz <= 0 {
		return invalid("scheduler", "max_fps and refresh_hz must be positive")
	}
	return nil
}

func parseTint(s string) (physics.Tint, error) {
	switch s {
	case "", "random":
		return physics.TintRandom, nil
	case "skill":
		return physics.TintSkill, nil
	}
	return 0, invalid("bubbles.tint", "unknown tint %q", s)
}

// ResolveTier applies the tier override, probing the host when it is auto.
func (c *Config) ResolveTier(s tier.Signals) (tier.Tier, error) {
	return tier.Resolve(c.Tier, s)
}

func (c *Config) CycleDuration(t tier.Tier) time.Duration {
	if t == tier.Reduced {
		return c.Ambient.ReducedDuration
	}
	return c.Ambient.Duration
}

func (c *Config) LightSmoothing(t tier.Tier) float64 {
	if t == tier.Reduced {
		return c.Ambient.ReducedSmoothing
	}
	return c.Ambient.Smoothing
}

// FrameInterval is the minimum spacing between processed frames.
func (c *Config) FrameInterval(t tier.Tier) time.Duration {
	d := time.Duration(float64(time.Second) / c.Scheduler.MaxFPS)
	if t == tier.Reduced {
		d *= 2
	}
	return d
}

func (c *Config) Bounds() (w, h float64) {
	return float64(c.Window.Width), float64(c.Window.Height)
}

func (c *Config) BubbleParams() physics.BubbleParams {
	tint, _ := parseTint(c.Bubbles.Tint)
	b := c.Bubbles
	return physics.BubbleParams{
		MinRadius:         b.MinRadius,
		MaxRadius:         b.MaxRadius,
		RepulsionRadius:   b.RepulsionRadius,
		RepulsionStrength: b.RepulsionStrength,
		JitterChance:      b.JitterChance,
		Jitter:            b.Jitter,
		MaxSpeed:          b.MaxSpeed,
		PulseMin:          b.PulseMin,
		PulseMax:          b.PulseMax,
		Alpha:             b.Alpha,
		Tint:              tint,
	}
}

// Labels returns the configured bubble labels or the skill token set.
func (c *Config) Labels() []string {
	if len(c.Bubbles.Labels) == 0 {
		return skills.Labels()
	}
	return append([]string(nil), c.Bubbles.Labels...)
}

func (c *Config) FieldParams() ambient.FieldParams {
	a := c.Ambient
	fp := ambient.DefaultFieldParams()
	fp.Palette = append([]string(nil), a.Palette...)
	fp.Duration = a.Duration
	fp.ReducedDuration = a.ReducedDuration
	fp.Smoothing = a.Smoothing
	fp.ReducedSmoothing = a.ReducedSmoothing
	fp.PulseLifetime = a.PulseLifetime
	fp.PulseRadius = a.PulseRadius
	fp.ReducedMaxPulses = a.ReducedMaxPulses
	if g, err := colorful.Hex(a.Glow); err == nil {
		r, gg, b := g.RGB255()
		fp.Glow = color.NRGBA{R: r, G: gg, B: b, A: uint8(math.Round(a.GlowAlpha * 255))}
	}
	return fp
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bubbles.Labels = append([]string(nil), c.Bubbles.Labels...)
	out.Ambient.Palette = append([]string(nil), c.Ambient.Palette...)
	return &out
}
