// Package scene wires the bubble simulator and the ambient field to one
// scheduler loop and one input hub. A Scene is the single owner of all
// animation state for a mounted view.
package scene

import (
	"math/rand"
	"time"

	"github.com/san-kum/backdrop/internal/ambient"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/input"
	"github.com/san-kum/backdrop/internal/physics"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/tier"
)

const (
	LayerField   = "field"
	LayerBubbles = "bubbles"
)

// Layers are the two drawing surfaces, painted back to front.
type Layers struct {
	Field   dynamo.Surface
	Bubbles dynamo.Surface
}

// Resizable surfaces follow Scene.Resize.
type Resizable interface {
	Resize(w, h int)
}

// Frame describes one processed frame of a layer.
type Frame struct {
	Layer string
	Now   time.Time
	Dt    time.Duration
	Took  time.Duration
}

type Stats struct {
	Tier           tier.Tier
	FieldFrames    int
	FieldSkipped   int
	BubbleFrames   int
	BubbleSkipped  int
	ActivePulses   int
	Particles      int
	Listeners      int
	DroppedInput   int
	PendingFrames  int
	PendingTimers  int
	LastBubbleStep time.Duration
}

type Scene struct {
	// Observe, when set, is called after every processed frame.
	Observe func(Frame)

	cfg    *config.Config
	tier   tier.Tier
	layers Layers
	loop   *scheduler.Loop
	hub    *input.Hub
	sim    *physics.Bubbles
	field  *ambient.Field
	bounds dynamo.Bounds

	fieldThrottle  *scheduler.Throttle
	bubbleThrottle *scheduler.Throttle
	subs           []input.Subscription
	stops          []scheduler.Disposer
	lastStep       time.Duration

	mounted  bool
	disposed bool
}

// New checks both surfaces and builds the simulator and field. A missing
// surface is fatal and reported as a *dynamo.LayerError.
func New(cfg *config.Config, t tier.Tier, layers Layers, loop *scheduler.Loop, hub *input.Hub, rng *rand.Rand) (*Scene, error) {
	if layers.Field == nil {
		return nil, &dynamo.LayerError{Layer: LayerField, Wrapped: dynamo.ErrNoSurface}
	}
	if layers.Bubbles == nil {
		return nil, &dynamo.LayerError{Layer: LayerBubbles, Wrapped: dynamo.ErrNoSurface}
	}
	bounds := dynamo.SurfaceBounds(layers.Bubbles)
	if !bounds.IsValid() {
		return nil, &dynamo.LayerError{Layer: LayerBubbles, Wrapped: dynamo.ErrInvalidBounds}
	}
	if !dynamo.SurfaceBounds(layers.Field).IsValid() {
		return nil, &dynamo.LayerError{Layer: LayerField, Wrapped: dynamo.ErrInvalidBounds}
	}

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if loop == nil {
		loop = scheduler.NewLoop(scheduler.SystemClock{})
	}
	if hub == nil {
		hub = input.NewHub(bounds)
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	field, err := ambient.NewField(cfg.FieldParams(), t, loop, rng)
	if err != nil {
		return nil, err
	}
	field.Resize(bounds)
	hub.Resize(bounds)

	return &Scene{
		cfg:            cfg,
		tier:           t,
		layers:         layers,
		loop:           loop,
		hub:            hub,
		sim:            physics.NewBubbles(cfg.BubbleParams(), cfg.Labels(), rng),
		field:          field,
		bounds:         bounds,
		fieldThrottle:  scheduler.NewThrottle(cfg.Scheduler.MaxFPS, t),
		bubbleThrottle: scheduler.NewThrottle(cfg.Scheduler.MaxFPS, t),
	}, nil
}

func (s *Scene) Tier() tier.Tier             { return s.tier }
func (s *Scene) Loop() *scheduler.Loop       { return s.loop }
func (s *Scene) Hub() *input.Hub             { return s.hub }
func (s *Scene) Simulator() *physics.Bubbles { return s.sim }
func (s *Scene) Field() *ambient.Field       { return s.field }
func (s *Scene) Bounds() dynamo.Bounds       { return s.bounds }
func (s *Scene) Layers() Layers              { return s.layers }

// Mount scatters the bubbles, attaches the input ports and starts one
// throttled loop per layer. Mounting twice is a no-op.
func (s *Scene) Mount() error {
	if s.disposed {
		return dynamo.ErrDisposed
	}
	if s.mounted {
		return nil
	}
	s.mounted = true

	s.sim.Initialize(s.cfg.Bubbles.Count, s.bounds)

	s.subs = append(s.subs,
		s.hub.OnMove(s.field.OnPointerMove),
		s.hub.OnPress(func(x, y float64) { s.field.OnPointerDown(x, y) }),
	)
	s.stops = append(s.stops,
		scheduler.RunThrottled(s.loop, s.fieldThrottle, s.fieldFrame),
		scheduler.RunThrottled(s.loop, s.bubbleThrottle, s.bubbleFrame),
	)
	return nil
}

func (s *Scene) fieldFrame(now time.Time, dt time.Duration) {
	start := time.Now()
	s.field.Tick(dt)
	s.field.Paint(s.layers.Field, now)
	s.observe(LayerField, now, dt, time.Since(start))
}

func (s *Scene) bubbleFrame(now time.Time, dt time.Duration) {
	start := time.Now()
	var ptr *dynamo.Vec2
	if p, ok := s.hub.Pointer().Position(); ok {
		ptr = &p
	}
	s.sim.Step(dt, ptr, s.bounds)
	s.lastStep = time.Since(start)
	s.sim.Render(s.layers.Bubbles)
	s.observe(LayerBubbles, now, dt, time.Since(start))
}

func (s *Scene) observe(layer string, now time.Time, dt, took time.Duration) {
	if s.Observe != nil {
		s.Observe(Frame{Layer: layer, Now: now, Dt: dt, Took: took})
	}
}

// Resize applies new viewport dimensions to both renderers and any resizable
// surface. Particles are kept; wrapping adapts on the next step.
func (s *Scene) Resize(w, h int) error {
	if s.disposed {
		return dynamo.ErrDisposed
	}
	b := dynamo.Bounds{Width: float64(w), Height: float64(h)}
	if !b.IsValid() {
		return dynamo.ErrInvalidBounds
	}
	for _, surf := range []dynamo.Surface{s.layers.Field, s.layers.Bubbles} {
		if r, ok := surf.(Resizable); ok {
			r.Resize(w, h)
		}
	}
	s.bounds = b
	s.hub.Resize(b)
	s.field.Resize(b)
	return nil
}

// Dispose cancels both frame loops, detaches the input ports and stops
// pending pulse timers. It is synchronous and safe to call more than once.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for _, stop := range s.stops {
		stop()
	}
	for _, sub := range s.subs {
		sub.Remove()
	}
	s.stops, s.subs = nil, nil
	s.field.Dispose()
}

func (s *Scene) Disposed() bool { return s.disposed }

func (s *Scene) Stats() Stats {
	return Stats{
		Tier:           s.tier,
		FieldFrames:    s.fieldThrottle.Processed(),
		FieldSkipped:   s.fieldThrottle.Skipped(),
		BubbleFrames:   s.bubbleThrottle.Processed(),
		BubbleSkipped:  s.bubbleThrottle.Skipped(),
		ActivePulses:   s.field.ActivePulses(),
		Particles:      len(s.sim.Particles()),
		Listeners:      s.hub.Listeners(),
		DroppedInput:   s.hub.Dropped(),
		PendingFrames:  s.loop.PendingFrames(),
		PendingTimers:  s.loop.PendingTimers(),
		LastBubbleStep: s.lastStep,
	}
}
