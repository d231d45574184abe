package sprig

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// box creates a plain w x h element on m.
func box(m Master, name string, w, h int) *Element {
	return NewDrawing(m, name, NewArts(NewEmptyArt(w, h)))
}

func TestGridAutoSizing(t *testing.T) {
	ctx := NewContext(320, 240)
	p := NewPhase(ctx, "grid")
	g := NewGrid(p, 0, 0, AnchorTopLeft)

	a := box(p, "a", 40, 20)
	b := box(p, "b", 60, 30)
	g.Add(a, Cell{Row: 0, Col: 0, PadX: 5, PadY: 2})
	g.Add(b, Cell{Row: 0, Col: 1, PadX: 5, PadY: 2})

	if diff := cmp.Diff([]float64{50, 70}, g.ColumnWidths()); diff != "" {
		t.Errorf("column widths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{34}, g.RowHeights()); diff != "" {
		t.Errorf("row heights (-want +got):\n%s", diff)
	}
	if got := b.canvasRect().TopLeft(); got != (Vec2{55, 2}) {
		t.Errorf("second element top-left = %v, want (55, 2)", got)
	}
	if got := a.canvasRect().TopLeft(); got != (Vec2{5, 2}) {
		t.Errorf("first element top-left = %v, want (5, 2)", got)
	}
}

func TestGridGetMatchesPositions(t *testing.T) {
	ctx := NewContext(320, 240)
	p := NewPhase(ctx, "grid")
	g := NewGrid(p, 160, 120, AnchorCenter)

	wide := box(p, "wide", 80, 10)
	small := box(p, "small", 10, 10)
	tall := box(p, "tall", 10, 50)
	g.Add(wide, Cell{Row: 0, Col: 0, ColSpan: 2, Anchor: AnchorCenter, Justify: AnchorCenter})
	g.Add(small, Cell{Row: 1, Col: 0, Anchor: AnchorBottomRight, Justify: AnchorBottomRight})
	g.Add(tall, Cell{Row: 1, Col: 1, Layer: 3})

	check := func() {
		t.Helper()
		for _, e := range g.Elements() {
			var cell Cell
			for _, o := range g.objects {
				if o.elem == e.Handle() {
					cell = o.cell
				}
			}
			got, err := g.Get(cell.Row, cell.Col)
			if err != nil {
				t.Fatalf("Get(%d, %d): %v", cell.Row, cell.Col, err)
			}
			if got != e.Pos() {
				t.Errorf("Get(%d, %d) = %v, element %q at %v", cell.Row, cell.Col, got, e.Name, e.Pos())
			}
		}
	}
	check()

	w, h := g.Size()
	if w != 80 || h != 60 {
		t.Errorf("Size = %vx%v, want 80x60", w, h)
	}
	if got := g.Origin(); got != (Vec2{120, 90}) {
		t.Errorf("Origin = %v, want (120, 90)", got)
	}
	if tall.Layer() != 3 {
		t.Errorf("layer = %d, want 3", tall.Layer())
	}
	if g.Element(0, 1) != wide {
		t.Error("spanned cell does not resolve to the spanning element")
	}

	g.Remove(wide)
	check()
	if w, _ := g.Size(); w != 20 {
		t.Errorf("width after remove = %v, want 20", w)
	}
	if wide.Grid() != nil {
		t.Error("removed element still bound")
	}
}

func TestGridEmpty(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "empty")
	g := NewGrid(p, 30, 40, AnchorBottomRight)
	if w, h := g.Size(); w != 0 || h != 0 {
		t.Errorf("Size = %vx%v, want 0x0", w, h)
	}
	if got := g.Origin(); got != (Vec2{30, 40}) {
		t.Errorf("Origin = %v, want (30, 40)", got)
	}
	if _, err := g.Get(0, 0); !errors.Is(err, ErrInvariant) {
		t.Errorf("Get on empty cell = %v, want ErrInvariant", err)
	}
}

func TestGridOverlapPanics(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "overlap")
	g := NewGrid(p, 0, 0, AnchorTopLeft)
	g.Add(box(p, "a", 5, 5), Cell{Row: 0, Col: 0, RowSpan: 2, ColSpan: 2})
	b := box(p, "b", 5, 5)
	catchInvariant(t, func() { g.Add(b, Cell{Row: 1, Col: 1}) })
	if b.Grid() != nil {
		t.Error("rejected element bound to the grid")
	}
}

func TestGridForeignElementPanics(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "p")
	other := NewPhase(ctx, "other")
	g := NewGrid(p, 0, 0, AnchorTopLeft)
	catchInvariant(t, func() { g.Add(box(other, "x", 5, 5), Cell{}) })

	g2 := NewGrid(p, 50, 50, AnchorTopLeft)
	e := box(p, "e", 5, 5).GridAt(g2, Cell{})
	catchInvariant(t, func() { g.Add(e, Cell{Row: 3}) })
}

func TestPlaceLeavesGrid(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "p")
	g := NewGrid(p, 0, 0, AnchorTopLeft)
	e := box(p, "e", 10, 10).GridAt(g, Cell{Row: 0, Col: 0})
	e.Place(70, 70, AnchorCenter, 0)
	if e.Grid() != nil {
		t.Error("Place kept the grid binding")
	}
	if g.Element(0, 0) != nil {
		t.Error("grid cell still occupied after Place")
	}
	if got := e.canvasRect(); got != (Rect{65, 65, 10, 10}) {
		t.Errorf("canvasRect = %v", got)
	}
}

func TestGridReAddMovesElement(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "p")
	g := NewGrid(p, 0, 0, AnchorTopLeft)
	e := box(p, "e", 10, 10)
	g.Add(e, Cell{Row: 0, Col: 0})
	g.Add(e, Cell{Row: 2, Col: 1})
	if g.Element(0, 0) != nil || g.Element(2, 1) != e {
		t.Error("re-adding did not move the element")
	}
	if pos, _ := g.Get(2, 1); pos != (Vec2{0, 0}) {
		t.Errorf("Get(2, 1) = %v; empty rows and columns have no size", pos)
	}
}
