package input

import (
	"math"
	"testing"

	"github.com/san-kum/backdrop/internal/dynamo"
)

func TestPointerLastWriteWins(t *testing.T) {
	h := NewHub(dynamo.Bounds{Width: 800, Height: 600})
	if _, known := h.Pointer().Position(); known {
		t.Fatal("pointer should start unknown")
	}
	h.Move(10, 20)
	h.Move(30, 40)
	p, known := h.Pointer().Position()
	if !known || p.X != 30 || p.Y != 40 {
		t.Errorf("expected (30,40), got %v known=%v", p, known)
	}
}

func TestMoveRejectsNonFinite(t *testing.T) {
	h := NewHub(dynamo.Bounds{Width: 800, Height: 600})
	calls := 0
	h.OnMove(func(x, y float64) { calls++ })

	h.Move(100, 100)
	h.Move(math.NaN(), 5)
	h.Move(5, math.Inf(1))

	p, _ := h.Pointer().Position()
	if p.X != 100 || p.Y != 100 {
		t.Errorf("expected pointer to keep (100,100), got %v", p)
	}
	if calls != 1 {
		t.Errorf("expected 1 listener call, got %d", calls)
	}
	if h.Dropped() != 2 {
		t.Errorf("expected 2 dropped events, got %d", h.Dropped())
	}
}

func TestMoveClampsToViewport(t *testing.T) {
	h := NewHub(dynamo.Bounds{Width: 800, Height: 600})
	var gx, gy float64
	h.OnMove(func(x, y float64) { gx, gy = x, y })
	h.Move(-50, 9000)
	if gx != 0 || gy != 600 {
		t.Errorf("expected (0,600), got (%v,%v)", gx, gy)
	}
}

func TestPressNotifiesOnlyPressListeners(t *testing.T) {
	h := NewHub(dynamo.Bounds{Width: 100, Height: 100})
	moves, presses := 0, 0
	h.OnMove(func(x, y float64) { moves++ })
	h.OnPress(func(x, y float64) { presses++ })

	h.Press(10, 10)
	if moves != 0 || presses != 1 {
		t.Errorf("expected 0 moves and 1 press, got %d and %d", moves, presses)
	}
	if _, known := h.Pointer().Position(); !known {
		t.Error("press should update the pointer")
	}
}

func TestSubscriptionRemove(t *testing.T) {
	h := NewHub(dynamo.Bounds{Width: 100, Height: 100})
	calls := 0
	sub := h.OnMove(func(x, y float64) { calls++ })
	press := h.OnPress(func(x, y float64) { calls++ })
	if h.Listeners() != 2 {
		t.Fatalf("expected 2 listeners, got %d", h.Listeners())
	}

	sub.Remove()
	sub.Remove()
	press.Remove()
	h.Move(1, 1)
	h.Press(1, 1)

	if calls != 0 {
		t.Errorf("expected no calls after removal, got %d", calls)
	}
	if h.Listeners() != 0 {
		t.Errorf("expected 0 listeners, got %d", h.Listeners())
	}
}

func TestListenerRemovingItselfDuringDispatch(t *testing.T) {
	h := NewHub(dynamo.Bounds{Width: 100, Height: 100})
	var sub Subscription
	first, second := 0, 0
	sub = h.OnMove(func(x, y float64) {
		first++
		sub.Remove()
	})
	h.OnMove(func(x, y float64) { second++ })

	h.Move(1, 1)
	h.Move(2, 2)
	if first != 1 || second != 2 {
		t.Errorf("expected first=1 second=2, got %d and %d", first, second)
	}
}
