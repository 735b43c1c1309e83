package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/input"
	"gopkg.in/yaml.v3"
)

var ErrBadStep = errors.New("automation: invalid scenario step")

// Scenario is a scripted input sequence replayed against a headless scene.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step fires at At, measured from the first Advance. Exactly one action is
// set per step.
type Step struct {
	At     time.Duration      `yaml:"at"`
	Move   []float64          `yaml:"move,omitempty"`
	Press  []float64          `yaml:"press,omitempty"`
	Resize []int              `yaml:"resize,omitempty"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

func (s Step) validate() error {
	actions := 0
	if s.Move != nil {
		actions++
		if len(s.Move) != 2 {
			return fmt.Errorf("move needs [x, y], got %v", s.Move)
		}
	}
	if s.Press != nil {
		actions++
		if len(s.Press) != 2 {
			return fmt.Errorf("press needs [x, y], got %v", s.Press)
		}
	}
	if s.Resize != nil {
		actions++
		if len(s.Resize) != 2 || s.Resize[0] <= 0 || s.Resize[1] <= 0 {
			return fmt.Errorf("resize needs a positive [w, h], got %v", s.Resize)
		}
	}
	if s.Params != nil {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("want exactly one action, got %d", actions)
	}
	if s.At < 0 {
		return fmt.Errorf("negative time %v", s.At)
	}
	return nil
}

func (sc *Scenario) Validate() error {
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrBadStep, i+1, err)
		}
		if i > 0 && step.At < sc.Steps[i-1].At {
			return fmt.Errorf("%w: step %d at %v is before step %d at %v",
				ErrBadStep, i+1, step.At, i, sc.Steps[i-1].At)
		}
	}
	return nil
}

// Span is the time of the last step.
func (sc *Scenario) Span() time.Duration {
	if len(sc.Steps) == 0 {
		return 0
	}
	return sc.Steps[len(sc.Steps)-1].At
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Resizer receives resize steps.
type Resizer interface {
	Resize(w, h int) error
}

// Player replays a scenario. Tuner, when set, receives params steps.
type Player struct {
	Tuner dynamo.Configurable

	scenario *Scenario
	next     int
	start    time.Time
	started  bool
}

func NewPlayer(sc *Scenario) *Player {
	return &Player{scenario: sc}
}

// Done reports whether every step has been applied.
func (p *Player) Done() bool { return p.next >= len(p.scenario.Steps) }

// Advance applies every step due at now in order and returns how many ran.
// The first call anchors the scenario clock.
func (p *Player) Advance(now time.Time, hub *input.Hub, r Resizer) (int, error) {
	if !p.started {
		p.started = true
		p.start = now
	}
	elapsed := now.Sub(p.start)

	applied := 0
	for !p.Done() && p.scenario.Steps[p.next].At <= elapsed {
		step := p.scenario.Steps[p.next]
		p.next++
		if err := p.apply(step, hub, r); err != nil {
			return applied, fmt.Errorf("step %d: %w", p.next, err)
		}
		applied++
	}
	return applied, nil
}

func (p *Player) apply(s Step, hub *input.Hub, r Resizer) error {
	switch {
	case s.Move != nil:
		hub.Move(s.Move[0], s.Move[1])
	case s.Press != nil:
		hub.Press(s.Press[0], s.Press[1])
	case s.Resize != nil:
		if r == nil {
			return nil
		}
		return r.Resize(s.Resize[0], s.Resize[1])
	case s.Params != nil:
		if p.Tuner == nil {
			return nil
		}
		names := make([]string, 0, len(s.Params))
		for k := range s.Params {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			if err := p.Tuner.SetParam(k, s.Params[k]); err != nil {
				return err
			}
		}
	}
	return nil
}
