package tier

import (
	"fmt"
	"regexp"
	"strings"
)

// Tier is a coarse performance classification fixed once per session.
type Tier int

const (
	Standard Tier = iota
	Reduced
)

func (t Tier) String() string {
	switch t {
	case Standard:
		return "standard"
	case Reduced:
		return "reduced"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Parse maps a config or flag value to a tier. "auto" and "" report ok=false
// so the caller falls back to Classify.
func Parse(s string) (t Tier, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Standard, false, nil
	case "standard", "high":
		return Standard, true, nil
	case "reduced", "low", "lite":
		return Reduced, true, nil
	default:
		return Standard, false, fmt.Errorf("tier: unknown tier %q (want auto, standard or reduced)", s)
	}
}

// Signals are the best-effort host capability hints. Nil fields are unknown.
type Signals struct {
	Platform string
	MemoryGB *float64
	Cores    *int
}

var mobilePattern = regexp.MustCompile(`(?i)android|webos|iphone|ipad|ipod|blackberry|iemobile|opera mini|\bios\b`)

const (
	minMemoryGB = 4
	maxLowCores = 4
)

// Classify is a pure function of the signals. Missing memory or core counts
// never count as evidence of a low-end device.
func Classify(s Signals) Tier {
	if mobilePattern.MatchString(s.Platform) {
		return Reduced
	}
	if s.MemoryGB != nil && *s.MemoryGB < minMemoryGB {
		return Reduced
	}
	if s.Cores != nil && *s.Cores <= maxLowCores {
		return Reduced
	}
	return Standard
}

// Resolve returns the override when one is configured, otherwise classifies.
func Resolve(override string, s Signals) (Tier, error) {
	t, ok, err := Parse(override)
	if err != nil {
		return Standard, err
	}
	if ok {
		return t, nil
	}
	return Classify(s), nil
}
