package sprig

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultSlideDuration is how long the slider cursor takes to reach a new
// value, in milliseconds.
const DefaultSlideDuration = 80

// Slider is the value-picking capability of a slider element. The cursor
// art moves along the track art; arrows step by StepWithArrow while the
// slider is focused and dragging follows the pointer.
type Slider struct {
	e      *Element
	values []any
	index  int

	// StepWithArrow is the number of values one arrow step moves.
	StepWithArrow int
	// Duration is the cursor motion time in milliseconds; 0 jumps.
	Duration float32
	// OnChange runs after the index changed.
	OnChange func(index int, value any)

	cursor  *Arts
	pos     float64
	tween   *gween.Tween
	arrow   repeater
	holding int
}

// NewSlider creates a focusable slider over values starting at initial.
func NewSlider(m Master, name string, track, cursor *Arts, values []any, initial int) *Element {
	if len(values) == 0 {
		invariant("slider %q: no values", name)
	}
	if initial < 0 || initial >= len(values) {
		invariant("slider %q: initial index %d out of range", name, initial)
	}
	e := newElement(m, name)
	e.arts = track
	e.slider = &Slider{
		e:             e,
		values:        append([]any(nil), values...),
		index:         initial,
		StepWithArrow: 1,
		Duration:      DefaultSlideDuration,
		cursor:        cursor,
	}
	e.hitbox = &Hitbox{}
	e.focusable = true
	e.slider.pos = e.slider.target(initial)
	return e
}

// Slider returns the slider capability, or nil.
func (e *Element) Slider() *Slider { return e.slider }

// Index returns the selected index.
func (s *Slider) Index() int { return s.index }

// Value returns the selected value.
func (s *Slider) Value() any { return s.values[s.index] }

// Values returns a copy of the values.
func (s *Slider) Values() []any { return append([]any(nil), s.values...) }

// Position returns the cursor's travelled fraction of the track in [0,1].
func (s *Slider) Position() float64 { return s.pos }

// Moving reports whether the cursor is still travelling.
func (s *Slider) Moving() bool { return s.tween != nil }

// SetIndex selects i, clamped to the values, and starts moving the cursor
// from where it is now.
func (s *Slider) SetIndex(i int) {
	i = max(0, min(i, len(s.values)-1))
	if i == s.index {
		return
	}
	s.index = i
	to := s.target(i)
	if s.Duration <= 0 {
		s.pos, s.tween = to, nil
	} else {
		s.tween = gween.New(float32(s.pos), float32(to), s.Duration, ease.OutQuad)
	}
	s.e.NotifyChange()
	if s.OnChange != nil {
		s.OnChange(i, s.values[i])
	}
	s.e.ctx.emit(InteractionEvent{Type: EventValueChange, Element: s.e.handle, Name: s.e.Name})
}

// Step moves by n arrow steps.
func (s *Slider) Step(n int) { s.SetIndex(s.index + n*s.StepWithArrow) }

// travel is the cursor's range along the track.
func (s *Slider) travel() float64 {
	if s.e.arts == nil || s.cursor == nil {
		return 0
	}
	tw, _ := s.e.arts.Size()
	cw, _ := s.cursor.Size()
	return math.Max(float64(tw-cw), 0)
}

// target is the cursor fraction for index i.
func (s *Slider) target(i int) float64 {
	if len(s.values) < 2 {
		return 0
	}
	return float64(i) / float64(len(s.values)-1)
}

// indexAt maps a local x on the track to the nearest index.
func (s *Slider) indexAt(x float64) int {
	t := s.travel()
	if t == 0 || len(s.values) < 2 {
		return s.index
	}
	cw := 0.0
	if s.cursor != nil {
		w, _ := s.cursor.Size()
		cw = float64(w)
	}
	f := (x - cw/2) / t
	return int(math.Round(clamp01(f) * float64(len(s.values)-1)))
}

func (s *Slider) update(dt float64, in *Inputs) {
	e := s.e
	if e.state == StateDisabled {
		return
	}
	if in.Click.Held && e.HitTest(in.Click.StartX, in.Click.StartY) {
		lx, _ := e.localPoint(in.MouseX, in.MouseY)
		s.SetIndex(s.indexAt(lx))
	}
	if e.focused {
		s.updateArrows(dt, in)
	}
	if s.tween != nil {
		v, done := s.tween.Update(float32(dt))
		s.pos = float64(v)
		if done {
			s.tween = nil
		}
		e.NotifyChange()
	}
}

func (s *Slider) updateArrows(dt float64, in *Inputs) {
	dir := 0
	switch {
	case in.ActionHeld(ActionRight) && !in.ActionHeld(ActionLeft):
		dir = 1
	case in.ActionHeld(ActionLeft) && !in.ActionHeld(ActionRight):
		dir = -1
	}
	if dir == 0 {
		s.holding = 0
		return
	}
	if dir != s.holding {
		s.holding = dir
		s.arrow.start(s.e.ctx.RepeatDelay, s.e.ctx.RepeatInterval)
		s.Step(dir)
		return
	}
	for n := s.arrow.update(dt); n > 0; n-- {
		s.Step(dir)
	}
}

func (e *Element) renderSlider(track *ebiten.Image) *ebiten.Image {
	s := e.slider
	if s.cursor == nil {
		return track
	}
	cur := s.cursor.Get(e.DisplayState())
	if track == nil {
		return cur
	}
	out := copyImage(track)
	_, th := imageSize(track)
	_, ch := imageSize(cur)
	drawAt(out, cur, math.Round(s.pos*s.travel()), math.Round((th-ch)/2))
	return out
}

// --- Progress bar ---

// ProgressBar is the fill capability of a progress element. The fill art is
// revealed from the left in proportion to the value in [0,1].
type ProgressBar struct {
	e     *Element
	fill  *Arts
	value float64
	goal  float64
	tween *gween.Tween
}

// NewProgressBar creates a progress bar drawing fill over background.
func NewProgressBar(m Master, name string, background, fill *Arts, value float64) *Element {
	if fill == nil {
		invariant("progress bar %q: nil fill", name)
	}
	e := newElement(m, name)
	e.arts = background
	v := clamp01(value)
	e.progress = &ProgressBar{e: e, fill: fill, value: v, goal: v}
	return e
}

// Progress returns the progress bar capability, or nil.
func (e *Element) Progress() *ProgressBar { return e.progress }

// Value returns the displayed value.
func (p *ProgressBar) Value() float64 { return p.value }

// Goal returns the value the bar is moving to.
func (p *ProgressBar) Goal() float64 { return p.goal }

// Done reports whether the bar reached its goal.
func (p *ProgressBar) Done() bool { return p.tween == nil }

// SetValue moves the bar to v over duration milliseconds, starting from the
// current displayed value. A new call cancels the running segment.
func (p *ProgressBar) SetValue(v float64, duration float32) {
	v = clamp01(v)
	p.goal = v
	if duration <= 0 {
		p.value, p.tween = v, nil
	} else {
		p.tween = gween.New(float32(p.value), float32(v), duration, ease.Linear)
	}
	p.e.NotifyChange()
}

func (p *ProgressBar) update(dt float64) {
	if p.tween == nil {
		return
	}
	v, done := p.tween.Update(float32(dt))
	p.value = float64(v)
	if done {
		p.value, p.tween = p.goal, nil
		p.e.ctx.emit(InteractionEvent{Type: EventValueChange, Element: p.e.handle, Name: p.e.Name})
	}
	p.e.NotifyChange()
}

func (e *Element) renderProgress(bg *ebiten.Image) *ebiten.Image {
	p := e.progress
	fill := p.fill.Get(e.DisplayState())
	fw, fh := imageSize(fill)
	var out *ebiten.Image
	if bg == nil {
		out = newImage(int(fw), int(fh))
	} else {
		out = copyImage(bg)
	}
	w := int(math.Round(fw * p.value))
	if w <= 0 {
		return out
	}
	b := fill.Bounds()
	part := fill.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Max.Y)).(*ebiten.Image)
	drawAt(out, part, 0, 0)
	return out
}
