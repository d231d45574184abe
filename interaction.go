package sprig

import "math"

// Hitbox is where a pointer may contact an element. A nil Shape covers the
// whole element. With a Mask, only points where the mask is nonzero hit.
// Both are in the element's unrotated local pixels.
type Hitbox struct {
	Shape HitShape
	Mask  *Mask
}

// SetHitbox makes the element hoverable.
func (e *Element) SetHitbox(h *Hitbox) *Element {
	e.hitbox = h
	return e
}

// Hitbox returns the element's hitbox, or nil.
func (e *Element) Hitbox() *Hitbox { return e.hitbox }

// --- Hit testing ---

// baseSize is the size before rotation and zoom.
func (e *Element) baseSize() (w, h float64) {
	if e.rotation == 0 && e.zoom == 1 {
		return e.Size()
	}
	img := e.renderBase()
	if img == nil {
		return 0, 0
	}
	return imageSize(img)
}

// actorTransform maps unrotated local pixels to surface pixels.
func (e *Element) actorTransform(bw, bh, sw, sh float64) [6]float64 {
	m := translateAffine(-bw/2, -bh/2)
	m = multiplyAffine(scaleAffine(e.zoom), m)
	m = multiplyAffine(rotateAffine(e.rotation), m)
	return multiplyAffine(translateAffine(sw/2, sh/2), m)
}

// localPoint converts a window point into the element's unrotated local
// pixels.
func (e *Element) localPoint(x, y float64) (lx, ly float64) {
	r := e.AbsoluteRect()
	ratio := e.WCRatio()
	sx := (x - r.X) / ratio.X
	sy := (y - r.Y) / ratio.Y
	if e.rotation == 0 && e.zoom == 1 {
		return sx, sy
	}
	sw, sh := e.Size()
	bw, bh := e.baseSize()
	inv := invertAffine(e.actorTransform(bw, bh, sw, sh))
	return transformPoint(inv, sx, sy)
}

// HitTest reports whether the window point (x, y) lies on the hitbox.
func (e *Element) HitTest(x, y float64) bool {
	if e.hitbox == nil {
		return false
	}
	if !e.AbsoluteRect().Contains(x, y) {
		return false
	}
	lx, ly := e.localPoint(x, y)
	bw, bh := e.baseSize()
	if lx < 0 || ly < 0 || lx > bw || ly > bh {
		return false
	}
	if e.hitbox.Shape != nil && !e.hitbox.Shape.Contains(lx, ly) {
		return false
	}
	if e.hitbox.Mask != nil && e.hitbox.Mask.At(int(lx), int(ly)) == 0 {
		return false
	}
	return true
}

// --- State machine ---

// State returns the machine state.
func (e *Element) State() State { return e.state }

// DisplayState returns the state used to pick arts and fonts.
func (e *Element) DisplayState() State {
	if e.entry != nil && e.state == StateNormal && e.entry.value == "" {
		return StateEmpty
	}
	return e.state
}

// IsFocused reports whether the element owns keyboard focus.
func (e *Element) IsFocused() bool { return e.focused }

// IsHovered reports whether the pointer is over the hitbox.
func (e *Element) IsHovered() bool { return e.hovered }

// IsDisabled reports whether the element is disabled.
func (e *Element) IsDisabled() bool { return e.state == StateDisabled }

// SetFocusable allows the element to take focus.
func (e *Element) SetFocusable(on bool) *Element {
	e.focusable = on
	if !on && e.focused {
		e.Unfocus()
	}
	return e
}

// Focusable reports whether the element can take focus.
func (e *Element) Focusable() bool { return e.focusable }

// fire applies ev and reports whether the state changed.
func (e *Element) fire(ev stateEvent) bool {
	from := e.state
	to, ok := nextState(from, ev)
	if !ok {
		return false
	}
	switch {
	case ev == evEnter && from == StateFocused:
		e.underHover = StateFocused
	case ev == evEnter && from == StateNormal:
		e.underHover = StateNormal
	case ev == evLeave && from == StateHovered:
		to = e.underHover
	case ev == evPress:
		e.beforeActive = from
	case ev == evRelease:
		to = e.beforeActive
		if to == StateHovered && !e.hovered {
			to = e.underHover
		}
	case ev == evDisable:
		e.underHover = StateNormal
	}
	if to == from {
		return false
	}
	e.state = to
	if e.arts != nil {
		e.arts.NewState()
	}
	e.NotifyChange()
	e.ctx.emit(InteractionEvent{Type: EventStateChange, Element: e.handle, Name: e.Name, From: from, To: to})
	return true
}

// setHover is called when the element wins the hover test.
func (e *Element) setHover() {
	if e.hovered {
		return
	}
	e.hovered = true
	e.fire(evEnter)
	e.ctx.emit(InteractionEvent{Type: EventHoverEnter, Element: e.handle, Name: e.Name})
}

// unsetHover restores the state recorded before hovering.
func (e *Element) unsetHover() {
	if !e.hovered {
		return
	}
	e.hovered = false
	e.fire(evLeave)
	e.ctx.emit(InteractionEvent{Type: EventHoverLeave, Element: e.handle, Name: e.Name})
}

// Focus gives the element keyboard focus. Disabled elements ignore it.
func (e *Element) Focus() {
	if !e.focusable || e.focused || e.state == StateDisabled {
		return
	}
	switch e.state {
	case StateNormal:
		e.focused = true
		e.fire(evFocus)
	case StateHovered:
		e.focused = true
		if e.underHover == StateNormal {
			e.fire(evFocus)
		}
	case StateActive:
		e.focused = true
		e.beforeActive = StateFocused
	}
	if e.focused {
		e.ctx.emit(InteractionEvent{Type: EventFocus, Element: e.handle, Name: e.Name})
		e.eachComponent((*Element).Focus)
	}
}

// Unfocus drops keyboard focus.
func (e *Element) Unfocus() {
	if !e.focused {
		return
	}
	e.focused = false
	switch e.state {
	case StateFocused:
		e.fire(evUnfocus)
		if e.hovered {
			e.fire(evEnter)
		}
	case StateHovered:
		e.underHover = StateNormal
	case StateActive:
		if e.beforeActive == StateFocused {
			e.beforeActive = StateNormal
		}
	}
	e.ctx.emit(InteractionEvent{Type: EventUnfocus, Element: e.handle, Name: e.Name})
	e.eachComponent((*Element).Unfocus)
}

// removeFocus unfocuses e and every focusable descendant.
func (e *Element) removeFocus() {
	e.walk(func(d *Element) {
		if d.focused {
			d.Unfocus()
		}
	})
}

// Disable makes the element ignore interaction until Enable.
func (e *Element) Disable() {
	if e.state == StateDisabled {
		return
	}
	e.focused = false
	e.hovered = false
	if e.repeat != nil {
		e.repeating = false
	}
	e.fire(evDisable)
	e.eachComponent((*Element).Disable)
}

// Enable returns a disabled element to Normal.
func (e *Element) Enable() {
	if e.state != StateDisabled {
		return
	}
	e.fire(evEnable)
	e.eachComponent((*Element).Enable)
}

// --- Activation ---

// SetOnClick sets the command run when the element is clicked.
func (e *Element) SetOnClick(fn func()) *Element {
	e.onClick = fn
	e.clickable = true
	return e
}

// SetRepeat makes a held press fire OnClick at press, after the context's
// repeat delay, and then every repeat interval.
func (e *Element) SetRepeat(on bool) *Element {
	if on {
		e.repeat = &repeater{}
	} else {
		e.repeat = nil
	}
	return e
}

// Click runs the click command as if the element were clicked.
func (e *Element) Click() {
	if e.state == StateDisabled {
		return
	}
	if e.checkbox != nil {
		e.toggle()
	}
	if e.onClick != nil {
		e.onClick()
	}
	e.ctx.emit(InteractionEvent{Type: EventClick, Element: e.handle, Name: e.Name})
}

// activationHeld reports whether the element is being pressed this tick.
func (e *Element) activationHeld(in *Inputs) bool {
	if in.Click.Held && e.HitTest(in.MouseX, in.MouseY) && e.HitTest(in.Click.StartX, in.Click.StartY) {
		return true
	}
	return e.focused && in.ActionHeld(ActionActivate)
}

// updateActivation drives the Active state and fires clicks.
func (e *Element) updateActivation(dt float64, in *Inputs) {
	if !e.clickable || e.state == StateDisabled {
		return
	}
	held := e.activationHeld(in)
	switch {
	case held && e.state != StateActive:
		if !e.fire(evPress) {
			return
		}
		if e.repeat != nil {
			e.repeat.start(e.ctx.RepeatDelay, e.ctx.RepeatInterval)
			e.repeating = true
			e.Click()
		}
	case held:
		if e.repeating {
			for n := e.repeat.update(dt); n > 0; n-- {
				e.Click()
			}
		}
	case e.state == StateActive:
		releasedOver := (in.Click.JustReleased && e.HitTest(in.MouseX, in.MouseY)) ||
			(e.focused && in.ActionReleased(ActionActivate))
		wasRepeating := e.repeating
		e.repeating = false
		e.fire(evRelease)
		if releasedOver && !wasRepeating {
			e.Click()
		}
	}
}

// repeater converts a sustained hold into periodic firings.
type repeater struct {
	delay, interval float64
	elapsed, next   float64
}

func (r *repeater) start(delay, interval float64) {
	r.delay, r.interval = delay, interval
	r.elapsed = 0
	r.next = delay
}

// update advances the hold by dt and returns how many firings are due.
func (r *repeater) update(dt float64) int {
	r.elapsed += dt
	n := 0
	for r.elapsed >= r.next {
		n++
		if r.interval <= 0 {
			r.next = math.Inf(1)
			break
		}
		r.next += r.interval
	}
	return n
}
