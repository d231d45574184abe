package sprig

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// Master is anything that can hold elements: a *Phase or a frame *Element.
type Master interface {
	masterElement() *Element
}

// label is the text capability of an element.
type label struct {
	text any
	opts TextOptions
	// anchor positions the text on top of an art; (0.5, 0.5) centers it.
	anchor Vec2
}

// Element is a node of the scene graph. It is a capability record: every
// element can be placed, shown and hidden, and carries optional arts,
// fonts, text, a hitbox and widget state. Masters (phase roots and frames)
// also own children and grids.
type Element struct {
	Name string

	ctx    *Context
	handle Handle
	master Handle
	isRoot bool

	// Master capability.
	children []Handle
	grids    []*Grid
	views    []Handle

	// Placement.
	visible  bool
	onMaster bool
	pos      Vec2
	anchor   Vec2
	layer    int
	grid     *Grid

	// State machine.
	state        State
	underHover   State
	beforeActive State
	hovered      bool
	focused      bool
	focusable    bool
	clickable    bool

	// Visuals.
	arts      *Arts
	fonts     *Fonts
	label     *label
	rotation  float64
	zoom      float64
	alpha     float64
	hitbox    *Hitbox
	tooltip   Handle
	cursor    Cursor
	onClick   func()
	repeat    *repeater
	repeating bool

	components []Handle

	frame    *frameCap
	view     *viewCap
	slider   *Slider
	progress *ProgressBar
	checkbox *Checkbox
	entry    *Entry

	// OnUpdate runs after the element's own update each tick.
	OnUpdate func(e *Element, dt float64, in *Inputs)
	tweens   []*TweenGroup

	// canvas is reused by masters between rebuilds.
	canvas     *ebiten.Image
	background Color

	dirty       bool
	lastSurface *ebiten.Image
	disposed    bool
}

func newElement(m Master, name string) *Element {
	if m == nil {
		invariant("element %q: nil master", name)
	}
	me := m.masterElement()
	if me == nil || !me.isMaster() {
		invariant("element %q: master cannot hold children", name)
	}
	e := &Element{
		Name:    name,
		ctx:     me.ctx,
		master:  me.handle,
		visible: true,
		zoom:    1,
		alpha:   1,
		dirty:   true,
	}
	e.handle = e.ctx.elements.insert(e)
	me.children = append(me.children, e.handle)
	return e
}

func (e *Element) masterElement() *Element { return e }

func (e *Element) isMaster() bool { return e.isRoot || e.frame != nil }

// Handle returns the element's stable handle.
func (e *Element) Handle() Handle { return e.handle }

// Context returns the context the element was created in.
func (e *Element) Context() *Context { return e.ctx }

// Master returns the element's master, nil for a phase root.
func (e *Element) Master() *Element { return e.ctx.elements.get(e.master) }

// Children returns the live children in insertion order.
func (e *Element) Children() []*Element {
	out := make([]*Element, 0, len(e.children))
	for _, h := range e.children {
		if c := e.ctx.elements.get(h); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// paintOrder returns the children sorted by ascending layer, ties broken by
// insertion order.
func (e *Element) paintOrder() []*Element {
	out := e.Children()
	sort.SliceStable(out, func(i, j int) bool { return out[i].layer < out[j].layer })
	return out
}

// Dispose removes the element and its descendants from the scene.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	if e.isRoot {
		invariant("dispose: phase root %q", e.Name)
	}
	for _, c := range e.Children() {
		c.Dispose()
	}
	if e.grid != nil {
		e.grid.Remove(e)
	}
	if e.view != nil {
		if t := e.ctx.elements.get(e.view.target); t != nil {
			t.views = removeHandle(t.views, e.handle)
		}
	}
	wasVisible := e.IsVisible()
	m := e.Master()
	if m != nil {
		m.children = removeHandle(m.children, e.handle)
	}
	e.ctx.elements.remove(e.handle)
	e.disposed = true
	if wasVisible && m != nil {
		m.NotifyChange()
	}
}

// IsDisposed reports whether Dispose was called.
func (e *Element) IsDisposed() bool { return e.disposed }

func removeHandle(hs []Handle, h Handle) []Handle {
	for i, x := range hs {
		if x == h {
			return append(hs[:i], hs[i+1:]...)
		}
	}
	return hs
}

// --- Visibility and dirtiness ---

// IsVisible reports whether the element is shown and its master reports it
// on screen.
func (e *Element) IsVisible() bool {
	if e.isRoot {
		return true
	}
	return e.visible && e.onMaster
}

// OnMaster reports the cached on-master flag.
func (e *Element) OnMaster() bool { return e.onMaster }

// Show makes the element visible.
func (e *Element) Show() { e.SetVisible(true) }

// Hide makes the element invisible.
func (e *Element) Hide() { e.SetVisible(false) }

// SetVisible shows or hides the element.
func (e *Element) SetVisible(v bool) {
	if e.visible == v {
		return
	}
	was := e.IsVisible()
	e.visible = v
	if was || e.IsVisible() {
		e.notifyMaster()
	}
	if !v {
		e.unsetHover()
	}
}

// NotifyChange marks the element dirty, notifies views of it, and
// propagates to the master while the element is visible.
func (e *Element) NotifyChange() {
	e.dirty = true
	for _, h := range e.views {
		if v := e.ctx.elements.get(h); v != nil {
			v.NotifyChange()
		}
	}
	if e.IsVisible() {
		e.notifyMaster()
	}
}

func (e *Element) notifyMaster() {
	if m := e.Master(); m != nil {
		m.NotifyChange()
	}
}

// Dirty reports whether the next Surface call rebuilds.
func (e *Element) Dirty() bool { return e.dirty }

// --- Surface ---

// Surface returns the element's rendered image. The same image is returned
// until the element is marked dirty.
func (e *Element) Surface() *ebiten.Image {
	if !e.dirty && e.lastSurface != nil {
		return e.lastSurface
	}
	e.lastSurface = e.render()
	e.dirty = false
	e.ctx.stats.rebuilds++
	return e.lastSurface
}

// Size returns the element's size in its master's canvas pixels.
func (e *Element) Size() (w, h float64) {
	switch {
	case e.isRoot:
		return float64(e.ctx.ScreenWidth), float64(e.ctx.ScreenHeight)
	case e.frame != nil:
		return e.frame.display.X, e.frame.display.Y
	case e.view != nil:
		return e.view.display.X, e.view.display.Y
	}
	s := e.Surface()
	if s == nil {
		return 0, 0
	}
	return imageSize(s)
}

// Width returns the element's width.
func (e *Element) Width() float64 { w, _ := e.Size(); return w }

// Height returns the element's height.
func (e *Element) Height() float64 { _, h := e.Size(); return h }

// --- Capabilities ---

// SetArts attaches arts; the element's size follows them.
func (e *Element) SetArts(a *Arts) *Element {
	e.arts = a
	e.NotifyChange()
	return e
}

// Arts returns the attached arts, or nil.
func (e *Element) Arts() *Arts { return e.arts }

// SetFonts attaches per-state font styles used by the label.
func (e *Element) SetFonts(f *Fonts) *Element {
	e.fonts = f
	e.NotifyChange()
	return e
}

// Fonts returns the attached fonts, or nil.
func (e *Element) Fonts() *Fonts { return e.fonts }

// SetText sets the label text: a string (a text position when localized)
// or a TextFormatter.
func (e *Element) SetText(t any) *Element {
	if e.label == nil {
		e.label = &label{anchor: AnchorCenter}
	}
	e.label.text = t
	e.NotifyChange()
	return e
}

// SetTextOptions sets how the label is laid out.
func (e *Element) SetTextOptions(opts TextOptions) *Element {
	if e.label == nil {
		e.label = &label{anchor: AnchorCenter}
	}
	e.label.opts = opts
	e.NotifyChange()
	return e
}

// Text returns the resolved label text.
func (e *Element) Text() string {
	if e.label == nil {
		return ""
	}
	return e.ctx.Typewriter.Resolve(e.label.text, e.label.opts.Localize)
}

// SetRotation rotates the rendered element by degrees counter-clockwise.
// Hit probes are rotated back.
func (e *Element) SetRotation(degrees float64) *Element {
	e.rotation = degrees
	e.NotifyChange()
	return e
}

// Rotation returns the rotation in degrees.
func (e *Element) Rotation() float64 { return e.rotation }

// SetZoom scales the rendered element.
func (e *Element) SetZoom(z float64) *Element {
	if z <= 0 {
		invariant("element %q: zoom %v must be positive", e.Name, z)
	}
	e.zoom = z
	e.NotifyChange()
	return e
}

// Zoom returns the zoom factor.
func (e *Element) Zoom() float64 { return e.zoom }

// SetAlpha sets the opacity used when the element is composited.
func (e *Element) SetAlpha(a float64) *Element {
	e.alpha = clamp01(a)
	e.notifyMaster()
	return e
}

// SetCursor sets the cursor shown while the element is hovered.
func (e *Element) SetCursor(c Cursor) *Element {
	e.cursor = c
	return e
}

// SetTooltip shows tip next to the pointer while the element is hovered.
// The tip may live in any master; it is placed where the pointer shows on
// that master's canvas.
func (e *Element) SetTooltip(tip *Element) *Element {
	e.tooltip = tip.handle
	tip.SetVisible(false)
	return e
}

// AddComponent registers c as a component: disable, enable, focus and
// unfocus fan out to it.
func (e *Element) AddComponent(c *Element) *Element {
	e.components = append(e.components, c.handle)
	return e
}

// AddTween runs g every tick until it is done.
func (e *Element) AddTween(g *TweenGroup) *Element {
	e.tweens = append(e.tweens, g)
	return e
}

func (e *Element) eachComponent(fn func(*Element)) {
	for _, h := range e.components {
		if c := e.ctx.elements.get(h); c != nil {
			fn(c)
		}
	}
}

// walk visits e and its descendants depth-first, masters first.
func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children() {
		c.walk(fn)
	}
}
