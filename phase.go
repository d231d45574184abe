package sprig

import "github.com/hajimehoshi/ebiten/v2"

// NoNext is returned by a phase's next function to stop the runnable.
const NoNext = "\x00stop"

// tooltipOffset places a tooltip below and right of the pointer.
var tooltipOffset = Vec2{12, 16}

// Args are the values a transition hands to the next phase's OnStart.
type Args map[string]any

// Phase is a top-level scene. Its root element is the master of every
// element created on the phase and always covers the whole screen.
type Phase struct {
	Name string

	// OnStart runs when the phase becomes active, before its arts load.
	OnStart func(p *Phase, args Args) error
	// OnUpdate runs first in every tick.
	OnUpdate func(p *Phase, dt float64, in *Inputs)
	// Next names the phase to switch to, "" to stay, or NoNext to stop. It
	// overrides SetNext when set.
	Next func(p *Phase) string
	// OnEnd runs when the phase stops being active.
	OnEnd func(p *Phase)
	// StartAll loads every art on start, not only LoadOnStart ones.
	StartAll bool

	ctx     *Context
	root    *Element
	pending string
	hovered Handle
	tooltip Handle
	active  bool
	failed  error
}

// NewPhase creates a phase on ctx.
func NewPhase(ctx *Context, name string) *Phase {
	root := &Element{
		Name:    name,
		ctx:     ctx,
		isRoot:  true,
		visible: true,
		zoom:    1,
		alpha:   1,
		dirty:   true,
	}
	root.handle = ctx.elements.insert(root)
	return &Phase{Name: name, ctx: ctx, root: root}
}

func (p *Phase) masterElement() *Element { return p.root }

// Root returns the phase's root element.
func (p *Phase) Root() *Element { return p.root }

// Context returns the phase's context.
func (p *Phase) Context() *Context { return p.ctx }

// Children returns the phase's direct children.
func (p *Phase) Children() []*Element { return p.root.Children() }

// SetBackground fills the screen with c before drawing children.
func (p *Phase) SetBackground(c Color) { p.root.SetBackground(c) }

// SetBackgroundArts draws arts under every child.
func (p *Phase) SetBackgroundArts(a *Arts) { p.root.SetArts(a) }

// SetNext requests a switch at the end of the current tick.
func (p *Phase) SetNext(name string) { p.pending = name }

// Active reports whether the phase is the runnable's current phase.
func (p *Phase) Active() bool { return p.active }

// Err returns the render failure that stopped the phase, if any.
func (p *Phase) Err() error { return p.failed }

// Surface renders the phase.
func (p *Phase) Surface() *ebiten.Image { return p.root.Surface() }

// Focused returns the element owning keyboard focus, or nil.
func (p *Phase) Focused() *Element {
	var found *Element
	p.root.walk(func(e *Element) {
		if found == nil && e.focused {
			found = e
		}
	})
	return found
}

// Hovered returns the element under the pointer, or nil.
func (p *Phase) Hovered() *Element { return p.ctx.elements.get(p.hovered) }

func (p *Phase) next() string {
	if p.Next != nil {
		return p.Next(p)
	}
	n := p.pending
	p.pending = ""
	return n
}

// start activates the phase: the user hook, then art loading and a fresh
// layout of every master.
func (p *Phase) start(args Args) error {
	p.active = true
	p.failed = nil
	if err := p.ctx.Typewriter.SetPhase(p.ctx.Language, p.Name); err != nil {
		return err
	}
	if p.OnStart != nil {
		if err := p.OnStart(p, args); err != nil {
			return err
		}
	}
	var err error
	p.root.walk(func(e *Element) {
		if err != nil {
			return
		}
		e.eachArts(func(a *Arts) {
			if err == nil {
				err = a.Start(p.StartAll)
			}
		})
	})
	if err != nil {
		return err
	}
	p.root.walk(func(e *Element) {
		for _, g := range e.grids {
			g.layout()
		}
	})
	p.root.refreshChildren()
	p.root.walk((*Element).NotifyChange)
	return nil
}

// end deactivates the phase, unloading non-permanent arts and dropping
// cached text renders.
func (p *Phase) end() {
	if p.OnEnd != nil {
		p.OnEnd(p)
	}
	p.root.walk(func(e *Element) {
		e.unsetHover()
		e.eachArts((*Arts).End)
		e.dirty = true
	})
	p.hideTooltip()
	p.hovered = Handle{}
	p.ctx.cursor = nil
	p.ctx.Typewriter.ClearCache()
	p.active = false
}

// update runs one tick: user hook, press focus, hover, focus rotation,
// then every element depth-first with masters before their children.
func (p *Phase) update(dt float64, in *Inputs) {
	if p.OnUpdate != nil {
		p.OnUpdate(p, dt, in)
	}
	if in.Click.JustPressed {
		pressFocus(p.root, in.Click.StartX, in.Click.StartY)
	}
	p.updateHover(in)
	if in.ActionPressed(ActionNextFocus) {
		p.rotateFocus()
	}
	p.root.update(dt, in)
}

// pressFocus forwards a press into the front-most child of m containing it
// and removes focus from every other child.
func pressFocus(m *Element, x, y float64) {
	kids := m.paintOrder()
	hit := -1
	for i := len(kids) - 1; i >= 0; i-- {
		c := kids[i]
		if c.IsVisible() && c.AbsoluteRect().Contains(x, y) {
			hit = i
			break
		}
	}
	for i, c := range kids {
		if i != hit {
			c.removeFocus()
		}
	}
	if hit < 0 {
		return
	}
	c := kids[hit]
	if c.isMaster() {
		pressFocus(c, x, y)
	}
	if c.focusable && (c.hitbox == nil || c.HitTest(x, y)) {
		c.Focus()
	}
}

// hoverCandidate is a hoverable element with the clip of its frames.
type hoverCandidate struct {
	e    *Element
	clip Rect
}

// hoverOrder lists visible hoverable elements back to front.
func hoverOrder(m *Element, clip Rect, out []hoverCandidate) []hoverCandidate {
	for _, c := range m.paintOrder() {
		if !c.IsVisible() {
			continue
		}
		if c.hitbox != nil && c.state != StateDisabled {
			out = append(out, hoverCandidate{c, clip})
		}
		if c.frame != nil {
			out = hoverOrder(c, clip.Intersect(c.AbsoluteRect()), out)
		}
	}
	return out
}

func (p *Phase) updateHover(in *Inputs) {
	cands := hoverOrder(p.root, p.ctx.Screen(), nil)
	var winner *Element
	for i := len(cands) - 1; i >= 0; i-- {
		c := cands[i]
		if c.clip.Contains(in.MouseX, in.MouseY) && c.e.HitTest(in.MouseX, in.MouseY) {
			winner = c.e
			break
		}
	}
	for _, c := range cands {
		if c.e != winner {
			c.e.unsetHover()
		}
	}
	if prev := p.Hovered(); prev != nil && prev != winner {
		prev.unsetHover()
	}

	p.ctx.cursor = nil
	if winner == nil {
		p.hovered = Handle{}
		p.hideTooltip()
		return
	}
	winner.setHover()
	p.hovered = winner.handle
	if winner.cursor != nil {
		p.ctx.cursor = winner.cursor
	}
	p.showTooltip(winner.tooltip, in.MouseX, in.MouseY)
}

func (p *Phase) showTooltip(h Handle, x, y float64) {
	if h != p.tooltip {
		p.hideTooltip()
	}
	tip := p.ctx.elements.get(h)
	if tip == nil {
		return
	}
	p.tooltip = h
	// Clamp in window pixels, then place on the tip's own master canvas.
	m := tip.Master()
	ratio := m.childRatio()
	w, ht := tip.Size()
	w, ht = w*ratio.X, ht*ratio.Y
	sw, sh := float64(p.ctx.ScreenWidth), float64(p.ctx.ScreenHeight)
	tx := min(x+tooltipOffset.X, sw-w)
	ty := min(y+tooltipOffset.Y, sh-ht)
	pos := m.canvasPoint(Vec2{max(tx, 0), max(ty, 0)})
	if pos != tip.pos || tip.anchor != AnchorTopLeft {
		tip.placeAt(pos, AnchorTopLeft, tip.layer)
	}
	tip.SetVisible(true)
}

func (p *Phase) hideTooltip() {
	if tip := p.ctx.elements.get(p.tooltip); tip != nil {
		tip.SetVisible(false)
	}
	p.tooltip = Handle{}
}

// rotateFocus moves focus to the next focusable sibling of the current
// owner, or to the first focusable element when nothing has focus.
func (p *Phase) rotateFocus() {
	owner := p.Focused()
	if owner == nil {
		var first *Element
		p.root.walk(func(e *Element) {
			if first == nil && e.canTakeFocus() {
				first = e
			}
		})
		if first != nil {
			first.Focus()
		}
		return
	}
	var ring []*Element
	for _, c := range owner.Master().Children() {
		if c == owner || c.canTakeFocus() {
			ring = append(ring, c)
		}
	}
	for i, c := range ring {
		if c != owner {
			continue
		}
		next := ring[(i+1)%len(ring)]
		if next != owner {
			owner.Unfocus()
			next.Focus()
		}
		return
	}
}

func (e *Element) canTakeFocus() bool {
	return e.focusable && e.IsVisible() && e.state != StateDisabled
}

// update advances e and then its children.
func (e *Element) update(dt float64, in *Inputs) {
	e.updateActivation(dt, in)
	switch {
	case e.slider != nil:
		e.slider.update(dt, in)
	case e.progress != nil:
		e.progress.update(dt)
	case e.entry != nil:
		e.entry.update(dt, in)
	}
	if e.arts != nil && e.arts.Update(dt, e.DisplayState()) {
		e.NotifyChange()
	}
	e.updateCamera(dt)
	e.updateTweens(dt)
	if e.OnUpdate != nil {
		e.OnUpdate(e, dt, in)
	}
	for _, c := range e.Children() {
		c.update(dt, in)
	}
}

// eachArts visits every Arts the element draws from.
func (e *Element) eachArts(fn func(*Arts)) {
	seen := make(map[*Arts]bool, 2)
	visit := func(a *Arts) {
		if a != nil && !seen[a] {
			seen[a] = true
			fn(a)
		}
	}
	visit(e.arts)
	if e.slider != nil {
		visit(e.slider.cursor)
	}
	if e.progress != nil {
		visit(e.progress.fill)
	}
	if e.checkbox != nil {
		visit(e.checkbox.off)
		visit(e.checkbox.on)
	}
}
