package config

import (
	"fmt"
	"sort"
	"time"
)

var Presets = map[string]*Config{
	"portfolio": DefaultConfig(),
	"calm":      calmPreset(),
	"dense":     densePreset(),
	"lite":      litePreset(),
}

func calmPreset() *Config {
	c := DefaultConfig()
	c.Bubbles.Count = 40
	c.Bubbles.MaxSpeed = 1.5
	c.Bubbles.JitterChance = 0.005
	c.Ambient.Duration = 14 * time.Second
	c.Ambient.ReducedDuration = 20 * time.Second
	return c
}

func densePreset() *Config {
	c := DefaultConfig()
	c.Bubbles.Count = 140
	c.Bubbles.MinRadius = 8
	c.Bubbles.MaxRadius = 24
	c.Bubbles.Tint = "skill"
	return c
}

func litePreset() *Config {
	c := DefaultConfig()
	c.Tier = "reduced"
	c.Bubbles.Count = 35
	return c
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
