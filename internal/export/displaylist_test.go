package export

import (
	"image/color"
	"strings"
	"testing"

	"github.com/san-kum/backdrop/internal/dynamo"
)

var _ dynamo.Surface = (*DisplayList)(nil)

func TestDisplayListReplay(t *testing.T) {
	d := NewDisplayList(100, 50)
	d.Clear()
	d.FillCircle(10, 10, 5, color.NRGBA{R: 255, A: 255})
	d.Text("Vue", 10, 10, 2.5, color.NRGBA{A: 153})

	if len(d.Ops()) != 3 {
		t.Fatalf("ops = %d, want 3", len(d.Ops()))
	}

	svg := NewSVG(100, 50, "")
	d.Replay(svg)
	doc := Document(100, 50, svg)
	if !strings.Contains(doc, "<circle") || !strings.Contains(doc, ">Vue</text>") {
		t.Errorf("replay lost elements:\n%s", doc)
	}
}

func TestDisplayListFillDropsHistory(t *testing.T) {
	d := NewDisplayList(10, 10)
	d.FillCircle(1, 1, 1, color.NRGBA{A: 255})
	d.Fill(color.NRGBA{B: 9, A: 255})
	d.RadialGradient(5, 5, 7, color.NRGBA{}, color.NRGBA{A: 255})

	ops := d.Ops()
	if len(ops) != 2 || ops[0].Kind != OpFill || ops[1].Kind != OpGradient {
		t.Errorf("ops = %+v", ops)
	}
}

func TestDisplayListVersion(t *testing.T) {
	d := NewDisplayList(10, 10)
	v := d.Version()
	d.Clear()
	if d.Version() == v {
		t.Error("version unchanged after Clear")
	}
	v = d.Version()
	d.Resize(20, 20)
	if d.Version() == v || len(d.Ops()) != 0 {
		t.Error("resize should bump the version and drop ops")
	}
	if w, h := d.Size(); w != 20 || h != 20 {
		t.Errorf("size = %dx%d", w, h)
	}
}
