package export

import (
	"image/color"

	"github.com/san-kum/backdrop/internal/dynamo"
)

type OpKind int

const (
	OpClear OpKind = iota
	OpFill
	OpGradient
	OpCircle
	OpText
)

// Op is one recorded drawing call.
type Op struct {
	Kind         OpKind
	X, Y, R      float64
	Size         float64
	Color, Outer color.NRGBA
	Text         string
}

// DisplayList is a dynamo.Surface that records calls for replay onto
// another surface, e.g. a GPU texture that can only be drawn at a fixed
// point of the host's frame.
type DisplayList struct {
	width, height int
	ops           []Op
	version       uint64
}

func NewDisplayList(w, h int) *DisplayList {
	return &DisplayList{width: w, height: h}
}

func (d *DisplayList) Size() (int, int) { return d.width, d.height }

func (d *DisplayList) Resize(w, h int) {
	d.width, d.height = w, h
	d.ops = d.ops[:0]
	d.version++
}

// Version changes whenever the list is modified.
func (d *DisplayList) Version() uint64 { return d.version }

func (d *DisplayList) Ops() []Op { return d.ops }

func (d *DisplayList) record(op Op) {
	d.ops = append(d.ops, op)
	d.version++
}

func (d *DisplayList) Clear() {
	d.ops = d.ops[:0]
	d.record(Op{Kind: OpClear})
}

// Fill covers everything recorded so far, so earlier ops are dropped.
func (d *DisplayList) Fill(c color.NRGBA) {
	d.ops = d.ops[:0]
	d.record(Op{Kind: OpFill, Color: c})
}

func (d *DisplayList) RadialGradient(cx, cy, r float64, inner, outer color.NRGBA) {
	d.record(Op{Kind: OpGradient, X: cx, Y: cy, R: r, Color: inner, Outer: outer})
}

func (d *DisplayList) FillCircle(cx, cy, r float64, c color.NRGBA) {
	d.record(Op{Kind: OpCircle, X: cx, Y: cy, R: r, Color: c})
}

func (d *DisplayList) Text(s string, cx, cy, size float64, c color.NRGBA) {
	d.record(Op{Kind: OpText, X: cx, Y: cy, Size: size, Color: c, Text: s})
}

// Replay issues every recorded op against s in order.
func (d *DisplayList) Replay(s dynamo.Surface) {
	for _, op := range d.ops {
		switch op.Kind {
		case OpClear:
			s.Clear()
		case OpFill:
			s.Fill(op.Color)
		case OpGradient:
			s.RadialGradient(op.X, op.Y, op.R, op.Color, op.Outer)
		case OpCircle:
			s.FillCircle(op.X, op.Y, op.R, op.Color)
		case OpText:
			s.Text(op.Text, op.X, op.Y, op.Size, op.Color)
		}
	}
}
