package sprig

// --- Geometry ---

// Pos returns the pivot in the master's canvas pixels.
func (e *Element) Pos() Vec2 { return e.pos }

// Anchor returns the point of the element pinned to Pos, in [0,1]².
func (e *Element) Anchor() Vec2 { return e.anchor }

// Layer returns the compositing layer.
func (e *Element) Layer() int { return e.layer }

// Grid returns the grid the element is bound to, or nil.
func (e *Element) Grid() *Grid { return e.grid }

// WCRatio returns the cumulative window:canvas scale from the root to the
// element's position.
func (e *Element) WCRatio() Vec2 {
	if e.isRoot {
		return Vec2{1, 1}
	}
	return e.Master().childRatio()
}

// childRatio is the scale applied to the element's children.
func (e *Element) childRatio() Vec2 {
	if e.isRoot || e.frame == nil {
		return Vec2{1, 1}
	}
	wc := e.WCRatio()
	cam := e.frame.camera.Rect
	d := e.frame.display
	return Vec2{wc.X * safeRatio(d.X, cam.Width), wc.Y * safeRatio(d.Y, cam.Height)}
}

func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	return a / b
}

// childOffset is the canvas point shown at the element's top-left.
func (e *Element) childOffset() Vec2 {
	if e.frame == nil {
		return Vec2{}
	}
	return e.frame.camera.Rect.TopLeft()
}

// canvasRect returns the element's rectangle on its master's canvas.
func (e *Element) canvasRect() Rect {
	w, h := e.Size()
	return Rect{e.pos.X - e.anchor.X*w, e.pos.Y - e.anchor.Y*h, w, h}
}

// AbsoluteRect returns the element's rectangle in window pixels.
func (e *Element) AbsoluteRect() Rect {
	if e.isRoot {
		return e.ctx.Screen()
	}
	m := e.Master()
	r := e.canvasRect()
	origin := m.AbsoluteRect().TopLeft()
	ratio := m.childRatio()
	off := m.childOffset()
	return Rect{
		X:      origin.X + (r.X-off.X)*ratio.X,
		Y:      origin.Y + (r.Y-off.Y)*ratio.Y,
		Width:  r.Width * ratio.X,
		Height: r.Height * ratio.Y,
	}
}

// canvasPoint maps a window point onto the element's canvas, undoing the
// mapping AbsoluteRect applies to its children.
func (e *Element) canvasPoint(p Vec2) Vec2 {
	if e.isRoot {
		return p
	}
	origin := e.AbsoluteRect().TopLeft()
	ratio := e.childRatio()
	off := e.childOffset()
	if ratio.X == 0 || ratio.Y == 0 {
		return off
	}
	return Vec2{off.X + (p.X-origin.X)/ratio.X, off.Y + (p.Y-origin.Y)/ratio.Y}
}

// isChildOnMe reports whether c shows through this master.
func (e *Element) isChildOnMe(c *Element) bool {
	if e.frame == nil {
		return true
	}
	return c.canvasRect().Intersects(e.frame.camera.Rect)
}

// refreshOnMaster recomputes the on-master flag of e and its descendants.
// The master is notified when e was or becomes visible.
func (e *Element) refreshOnMaster() {
	if e.isRoot {
		return
	}
	was := e.IsVisible()
	m := e.Master()
	e.onMaster = e.ctx.Screen().Intersects(e.AbsoluteRect()) && m.isChildOnMe(e)
	if e.isMaster() {
		e.refreshChildren()
	}
	if was || e.IsVisible() {
		e.notifyMaster()
	}
}

func (e *Element) refreshChildren() {
	for _, c := range e.Children() {
		c.refreshOnMaster()
	}
}

// --- Placement ---

// Place pins the element's anchor point at (x, y) on its master's canvas.
// The element leaves any grid it was bound to.
func (e *Element) Place(x, y float64, anchor Vec2, layer int) *Element {
	if e.isRoot {
		invariant("place: phase root %q", e.Name)
	}
	if e.grid != nil {
		e.grid.Remove(e)
	}
	e.placeAt(Vec2{x, y}, anchor, layer)
	return e
}

func (e *Element) placeAt(pos, anchor Vec2, layer int) {
	e.pos, e.anchor, e.layer = pos, anchor, layer
	e.refreshOnMaster()
}

// Move translates the element by (dx, dy), leaving any grid.
func (e *Element) Move(dx, dy float64) *Element {
	if e.grid != nil {
		e.grid.Remove(e)
	}
	e.placeAt(Vec2{e.pos.X + dx, e.pos.Y + dy}, e.anchor, e.layer)
	return e
}

// SetLayer changes the compositing layer.
func (e *Element) SetLayer(layer int) *Element {
	e.layer = layer
	if e.IsVisible() {
		e.notifyMaster()
	}
	return e
}

// GridAt binds the element to cell (row, col) of g. See Grid.Add.
func (e *Element) GridAt(g *Grid, cell Cell) *Element {
	g.Add(e, cell)
	return e
}
