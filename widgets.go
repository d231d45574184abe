package sprig

import (
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// NewDrawing creates an element that only shows arts.
func NewDrawing(m Master, name string, arts *Arts) *Element {
	return newElement(m, name).SetArts(arts)
}

// NewText creates a text element rendered by the context's typewriter.
func NewText(m Master, name string, text any, fonts *Fonts, opts TextOptions) *Element {
	e := newElement(m, name)
	e.label = &label{text: text, opts: opts, anchor: AnchorCenter}
	e.fonts = fonts
	return e
}

// NewButton creates a focusable, hoverable element that runs onClick when
// clicked or activated while focused. text may be nil.
func NewButton(m Master, name string, arts *Arts, text any, onClick func()) *Element {
	e := newElement(m, name)
	e.arts = arts
	if text != nil {
		e.label = &label{text: text, anchor: AnchorCenter}
	}
	e.hitbox = &Hitbox{}
	e.focusable = true
	e.SetOnClick(onClick)
	return e
}

// SetLabelAnchor positions the label over the element's art.
func (e *Element) SetLabelAnchor(anchor Vec2) *Element {
	if e.label == nil {
		e.label = &label{}
	}
	e.label.anchor = anchor
	e.NotifyChange()
	return e
}

// NewTooltip creates a hidden element shown next to the pointer while the
// element it is attached to with SetTooltip is hovered.
func NewTooltip(m Master, name string, arts *Arts, text any) *Element {
	e := newElement(m, name)
	e.arts = arts
	if text != nil {
		e.label = &label{text: text, anchor: AnchorCenter}
	}
	e.visible = false
	return e
}

// --- Checkbox ---

// Checkbox is the two-valued capability of a checkbox element. Clicking
// swaps between the unchecked and checked arts.
type Checkbox struct {
	e        *Element
	checked  bool
	off, on  *Arts
	OnToggle func(checked bool)
}

// NewCheckbox creates a clickable element that toggles between off and on.
func NewCheckbox(m Master, name string, off, on *Arts, checked bool) *Element {
	e := newElement(m, name)
	e.checkbox = &Checkbox{e: e, off: off, on: on}
	e.hitbox = &Hitbox{}
	e.focusable = true
	e.clickable = true
	e.checkbox.set(checked)
	return e
}

// Checkbox returns the checkbox capability, or nil.
func (e *Element) Checkbox() *Checkbox { return e.checkbox }

// Checked reports whether the box is checked.
func (c *Checkbox) Checked() bool { return c.checked }

// SetChecked changes the value without running OnToggle.
func (c *Checkbox) SetChecked(on bool) {
	if on != c.checked {
		c.set(on)
	}
}

func (c *Checkbox) set(on bool) {
	c.checked = on
	if on {
		c.e.arts = c.on
	} else {
		c.e.arts = c.off
	}
	c.e.NotifyChange()
}

func (e *Element) toggle() {
	c := e.checkbox
	c.set(!c.checked)
	if c.OnToggle != nil {
		c.OnToggle(c.checked)
	}
	e.ctx.emit(InteractionEvent{Type: EventValueChange, Element: e.handle, Name: e.Name})
}

// --- Entry ---

// DefaultCaretBlink is the caret blink half-period in milliseconds.
const DefaultCaretBlink = 500

// Entry is the text input capability of an element. Typed characters are
// appended while the element is focused; backspace repeats while held.
type Entry struct {
	e           *Element
	value       string
	placeholder any
	maxLength   int
	active      bool
	caretOn     bool
	blink       float64
	back        repeater
	OnChange    func(value string)
}

// NewEntry creates a focusable text input. maxLength <= 0 means unlimited.
// placeholder is shown in the Empty state.
func NewEntry(m Master, name string, arts *Arts, fonts *Fonts, maxLength int, placeholder any) *Element {
	e := newElement(m, name)
	e.arts = arts
	e.fonts = fonts
	e.entry = &Entry{e: e, placeholder: placeholder, maxLength: maxLength}
	e.label = &label{text: placeholder, opts: TextOptions{Localize: true}, anchor: Vec2{0, 0.5}}
	e.hitbox = &Hitbox{}
	e.focusable = true
	e.clickable = true
	return e
}

// Entry returns the entry capability, or nil.
func (e *Element) Entry() *Entry { return e.entry }

// Value returns the typed text.
func (t *Entry) Value() string { return t.value }

// MaxLength returns the rune limit, 0 for none.
func (t *Entry) MaxLength() int { return max(t.maxLength, 0) }

// SetValue replaces the text, truncated to the limit.
func (t *Entry) SetValue(s string) {
	if t.maxLength > 0 && utf8.RuneCountInString(s) > t.maxLength {
		s = string([]rune(s)[:t.maxLength])
	}
	if s == t.value {
		return
	}
	t.value = s
	t.syncLabel()
	if t.OnChange != nil {
		t.OnChange(s)
	}
	t.e.ctx.emit(InteractionEvent{Type: EventValueChange, Element: t.e.handle, Name: t.e.Name})
}

func (t *Entry) syncLabel() {
	if t.value == "" {
		t.e.label.text = t.placeholder
		t.e.label.opts.Localize = true
	} else {
		t.e.label.text = t.value
		t.e.label.opts.Localize = false
	}
	t.e.NotifyChange()
}

func (t *Entry) update(dt float64, in *Inputs) {
	if !t.e.focused {
		if t.active {
			t.active, t.caretOn = false, false
			t.e.NotifyChange()
		}
		return
	}
	if !t.active {
		t.active, t.caretOn, t.blink = true, true, 0
		t.e.NotifyChange()
	} else if t.blink += dt; t.blink >= DefaultCaretBlink {
		t.blink = 0
		t.caretOn = !t.caretOn
		t.e.NotifyChange()
	}
	v := t.value
	for _, r := range in.Chars {
		if !unicode.IsPrint(r) {
			continue
		}
		if t.maxLength > 0 && utf8.RuneCountInString(v) >= t.maxLength {
			break
		}
		v += string(r)
	}
	deletes := 0
	switch {
	case in.ActionPressed(ActionBackspace):
		t.back.start(t.e.ctx.RepeatDelay, t.e.ctx.RepeatInterval)
		deletes = 1
	case in.ActionHeld(ActionBackspace):
		deletes = t.back.update(dt)
	}
	for ; deletes > 0 && v != ""; deletes-- {
		_, size := utf8.DecodeLastRuneInString(v)
		v = v[:len(v)-size]
	}
	t.SetValue(v)
}

// renderCaret draws the caret after the text while the entry has focus.
func (e *Element) renderCaret(base *ebiten.Image, state State) *ebiten.Image {
	t := e.entry
	if !t.caretOn || base == nil {
		return base
	}
	style := e.fontStyle(state)
	bw, bh := imageSize(base)
	tw, _ := e.ctx.Typewriter.Measure(t.value, style)
	lh := e.ctx.Typewriter.LineHeight(style)
	x := e.label.anchor.X*(bw-tw) + tw + 1
	y := e.label.anchor.Y * (bh - lh)
	out := copyImage(base)
	vector.StrokeLine(out, float32(x), float32(y), float32(x), float32(y+lh), 1, style.Color, false)
	return out
}
