// Package input adapts host pointer events into the shared pointer state and
// the move/press ports consumed by the renderers.
package input

import (
	"github.com/san-kum/backdrop/internal/dynamo"
)

// Pointer is the shared, last-write-wins pointer position in viewport pixels.
type Pointer struct {
	pos   dynamo.Vec2
	known bool
}

// Position returns the last accepted position and whether any move has been
// seen yet.
func (p *Pointer) Position() (dynamo.Vec2, bool) { return p.pos, p.known }

func (p *Pointer) set(v dynamo.Vec2) {
	p.pos = v
	p.known = true
}

type MoveFunc func(x, y float64)
type PressFunc func(x, y float64)

// Subscription detaches a listener. Remove is idempotent.
type Subscription struct {
	hub *Hub
	id  int
}

func (s Subscription) Remove() {
	if s.hub == nil {
		return
	}
	delete(s.hub.moves, s.id)
	delete(s.hub.presses, s.id)
}

// Hub is the ingestion point for native events. Hosts call Move and Press
// from the goroutine that pumps the frame loop.
type Hub struct {
	pointer  Pointer
	viewport dynamo.Bounds
	nextID   int
	moves    map[int]MoveFunc
	presses  map[int]PressFunc
	order    []int
	dropped  int
}

func NewHub(viewport dynamo.Bounds) *Hub {
	return &Hub{
		viewport: viewport,
		moves:    make(map[int]MoveFunc),
		presses:  make(map[int]PressFunc),
	}
}

func (h *Hub) Pointer() *Pointer { return &h.pointer }

// Resize updates the viewport used to clamp incoming coordinates.
func (h *Hub) Resize(b dynamo.Bounds) { h.viewport = b }

func (h *Hub) Viewport() dynamo.Bounds { return h.viewport }

// Dropped counts events rejected at ingestion.
func (h *Hub) Dropped() int { return h.dropped }

// Listeners reports how many listeners are attached.
func (h *Hub) Listeners() int { return len(h.moves) + len(h.presses) }

func (h *Hub) OnMove(fn MoveFunc) Subscription {
	h.nextID++
	h.moves[h.nextID] = fn
	h.order = append(h.order, h.nextID)
	return Subscription{hub: h, id: h.nextID}
}

func (h *Hub) OnPress(fn PressFunc) Subscription {
	h.nextID++
	h.presses[h.nextID] = fn
	h.order = append(h.order, h.nextID)
	return Subscription{hub: h, id: h.nextID}
}

// Move records a pointer position and notifies move listeners.
func (h *Hub) Move(x, y float64) {
	p, ok := h.sanitize(x, y)
	if !ok {
		return
	}
	h.pointer.set(p)
	h.compact()
	for _, id := range h.order {
		if fn, ok := h.moves[id]; ok {
			fn(p.X, p.Y)
		}
	}
}

// Press notifies press listeners of a primary-button press. It also moves
// the pointer, since a press implies the pointer is there.
func (h *Hub) Press(x, y float64) {
	p, ok := h.sanitize(x, y)
	if !ok {
		return
	}
	h.pointer.set(p)
	h.compact()
	for _, id := range h.order {
		if fn, ok := h.presses[id]; ok {
			fn(p.X, p.Y)
		}
	}
}

func (h *Hub) sanitize(x, y float64) (dynamo.Vec2, bool) {
	p := dynamo.Vec2{X: x, Y: y}
	if !p.IsValid() {
		h.dropped++
		return p, false
	}
	if h.viewport.IsValid() {
		p = h.viewport.Clamp(p)
	}
	return p, true
}

// compact drops removed ids from the dispatch order.
func (h *Hub) compact() {
	live := h.order[:0]
	for _, id := range h.order {
		_, m := h.moves[id]
		_, p := h.presses[id]
		if m || p {
			live = append(live, id)
		}
	}
	h.order = live
}
