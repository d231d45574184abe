package sprig

import (
	"fmt"
	"sort"
)

// Cell describes where and how an element sits in a Grid. Spans below 1
// count as 1.
type Cell struct {
	Row, Col         int
	RowSpan, ColSpan int
	PadX, PadY       float64
	// Anchor is the element's anchor, as in Place.
	Anchor Vec2
	// Justify places the element inside free cell space: (0,0) top-left,
	// (1,1) bottom-right.
	Justify Vec2
	Layer   int
}

func (c Cell) spans() (rows, cols int) {
	return max(c.RowSpan, 1), max(c.ColSpan, 1)
}

type cellKey struct{ row, col int }

type gridObject struct {
	elem Handle
	cell Cell
}

// Grid is an auto-sizing cell layout on a master. Column widths and row
// heights grow to fit their largest element; every add or remove lays the
// whole grid out again.
type Grid struct {
	master  *Element
	pos     Vec2
	anchor  Vec2
	objects []*gridObject
	cells   map[cellKey]*gridObject

	widths  []float64
	heights []float64
	origin  Vec2
}

// NewGrid registers a grid on m whose anchor point is at (x, y).
func NewGrid(m Master, x, y float64, anchor Vec2) *Grid {
	me := m.masterElement()
	g := &Grid{
		master: me,
		pos:    Vec2{x, y},
		anchor: anchor,
		cells:  make(map[cellKey]*gridObject),
	}
	me.grids = append(me.grids, g)
	g.layout()
	return g
}

// Grids returns the grids registered on the master.
func (e *Element) Grids() []*Grid { return append([]*Grid(nil), e.grids...) }

// Add binds e to cell. The span must not overlap another cell and e must
// belong to the grid's master. An element already in this grid is moved.
func (g *Grid) Add(e *Element, cell Cell) {
	if e.Master() != g.master {
		invariant("grid: element %q does not belong to master %q", e.Name, g.master.Name)
	}
	if e.grid != nil && e.grid != g {
		invariant("grid: element %q is bound to another grid", e.Name)
	}
	if e.grid == g {
		g.detach(e)
	}
	if cell.Row < 0 || cell.Col < 0 {
		invariant("grid: negative cell (%d, %d)", cell.Row, cell.Col)
	}
	rows, cols := cell.spans()
	for r := cell.Row; r < cell.Row+rows; r++ {
		for c := cell.Col; c < cell.Col+cols; c++ {
			if other, ok := g.cells[cellKey{r, c}]; ok {
				name := "?"
				if oe := e.ctx.elements.get(other.elem); oe != nil {
					name = oe.Name
				}
				invariant("grid: cell (%d, %d) of %q overlaps %q", r, c, e.Name, name)
			}
		}
	}
	obj := &gridObject{elem: e.handle, cell: cell}
	g.objects = append(g.objects, obj)
	for r := cell.Row; r < cell.Row+rows; r++ {
		for c := cell.Col; c < cell.Col+cols; c++ {
			g.cells[cellKey{r, c}] = obj
		}
	}
	e.grid = g
	g.layout()
}

// Remove unbinds e. Removing an element not in the grid does nothing.
func (g *Grid) Remove(e *Element) {
	if e.grid != g {
		return
	}
	g.detach(e)
	g.layout()
}

func (g *Grid) detach(e *Element) {
	for i, obj := range g.objects {
		if obj.elem != e.handle {
			continue
		}
		g.objects = append(g.objects[:i], g.objects[i+1:]...)
		rows, cols := obj.cell.spans()
		for r := obj.cell.Row; r < obj.cell.Row+rows; r++ {
			for c := obj.cell.Col; c < obj.cell.Col+cols; c++ {
				delete(g.cells, cellKey{r, c})
			}
		}
		break
	}
	e.grid = nil
}

// Get returns the anchor point position of the element covering (row, col).
func (g *Grid) Get(row, col int) (Vec2, error) {
	obj, ok := g.cells[cellKey{row, col}]
	if !ok {
		return Vec2{}, fmt.Errorf("sprig: %w: grid cell (%d, %d) is empty", ErrInvariant, row, col)
	}
	e := g.master.ctx.elements.get(obj.elem)
	if e == nil {
		return Vec2{}, fmt.Errorf("sprig: %w: grid cell (%d, %d) holds a disposed element", ErrInvariant, row, col)
	}
	return e.pos, nil
}

// Element returns the element covering (row, col), or nil.
func (g *Grid) Element(row, col int) *Element {
	obj, ok := g.cells[cellKey{row, col}]
	if !ok {
		return nil
	}
	return g.master.ctx.elements.get(obj.elem)
}

// Elements returns the bound elements sorted by row then column.
func (g *Grid) Elements() []*Element {
	objs := append([]*gridObject(nil), g.objects...)
	sort.SliceStable(objs, func(i, j int) bool {
		a, b := objs[i].cell, objs[j].cell
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	out := make([]*Element, 0, len(objs))
	for _, o := range objs {
		if e := g.master.ctx.elements.get(o.elem); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// ColumnWidths returns the solved column widths.
func (g *Grid) ColumnWidths() []float64 { return append([]float64(nil), g.widths...) }

// RowHeights returns the solved row heights.
func (g *Grid) RowHeights() []float64 { return append([]float64(nil), g.heights...) }

// Size returns the total grid size.
func (g *Grid) Size() (w, h float64) {
	return sum(g.widths), sum(g.heights)
}

// Origin returns the top-left corner of the grid.
func (g *Grid) Origin() Vec2 { return g.origin }

// SetPosition moves the grid's anchor point and lays it out again.
func (g *Grid) SetPosition(x, y float64) {
	g.pos = Vec2{x, y}
	g.layout()
}

// Refresh lays the grid out again, for example after an element resized.
func (g *Grid) Refresh() { g.layout() }

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}

// prefix returns running offsets: out[i] = sum(xs[:i]).
func prefix(xs []float64) []float64 {
	out := make([]float64, len(xs)+1)
	for i, x := range xs {
		out[i+1] = out[i] + x
	}
	return out
}

func (g *Grid) layout() {
	type sized struct {
		obj  *gridObject
		elem *Element
		w, h float64
	}
	var items []sized
	nRows, nCols := 0, 0
	for _, obj := range g.objects {
		e := g.master.ctx.elements.get(obj.elem)
		if e == nil {
			continue
		}
		w, h := e.Size()
		items = append(items, sized{obj, e, w, h})
		rows, cols := obj.cell.spans()
		nRows = max(nRows, obj.cell.Row+rows)
		nCols = max(nCols, obj.cell.Col+cols)
	}

	g.widths = make([]float64, nCols)
	g.heights = make([]float64, nRows)
	for _, it := range items {
		c := it.obj.cell
		rows, cols := c.spans()
		cw := (it.w + 2*c.PadX) / float64(cols)
		rh := (it.h + 2*c.PadY) / float64(rows)
		for i := c.Col; i < c.Col+cols; i++ {
			g.widths[i] = max(g.widths[i], cw)
		}
		for i := c.Row; i < c.Row+rows; i++ {
			g.heights[i] = max(g.heights[i], rh)
		}
	}

	left, top := prefix(g.widths), prefix(g.heights)
	tw, th := left[nCols], top[nRows]
	g.origin = Vec2{g.pos.X - g.anchor.X*tw, g.pos.Y - g.anchor.Y*th}

	for _, it := range items {
		c := it.obj.cell
		rows, cols := c.spans()
		cellX, cellY := g.origin.X+left[c.Col], g.origin.Y+top[c.Row]
		cellW := left[c.Col+cols] - left[c.Col]
		cellH := top[c.Row+rows] - top[c.Row]
		freeX := cellW - it.w - 2*c.PadX
		freeY := cellH - it.h - 2*c.PadY
		pos := Vec2{
			X: cellX + c.Justify.X*freeX + c.PadX + c.Anchor.X*it.w,
			Y: cellY + c.Justify.Y*freeY + c.PadY + c.Anchor.Y*it.h,
		}
		it.elem.placeAt(pos, c.Anchor, c.Layer)
	}
}
