package sprig

import (
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Built-in widget actions. Keys are bound to actions by a Keymap.
const (
	ActionActivate  = "activate"
	ActionNextFocus = "next_focus"
	ActionLeft      = "left"
	ActionRight     = "right"
	ActionUp        = "up"
	ActionDown      = "down"
	ActionBackspace = "backspace"
)

// --- Built-in HitShape types ---

// HitShape is a hit area in an element's local (unscaled) pixels.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Snapshot ---

// Click is the primary pointer button as seen in one tick.
type Click struct {
	Held         bool
	JustPressed  bool
	JustReleased bool
	// StartX and StartY are where the current (or last) press began.
	StartX, StartY float64
	// Duration is how long the button has been held, in milliseconds.
	Duration float64
}

// Inputs is the immutable per-tick input snapshot shared by every element.
type Inputs struct {
	MouseX, MouseY float64
	WheelX, WheelY float64
	Click          Click
	// Chars are the characters typed this tick.
	Chars []rune
	// Quit is set when the window is being closed.
	Quit bool

	held     map[string]bool
	pressed  map[string]bool
	released map[string]bool
}

// ActionHeld reports whether a key bound to action is down.
func (in *Inputs) ActionHeld(action string) bool { return in.held[action] }

// ActionPressed reports whether action went down this tick.
func (in *Inputs) ActionPressed(action string) bool { return in.pressed[action] }

// ActionReleased reports whether action went up this tick.
func (in *Inputs) ActionReleased(action string) bool { return in.released[action] }

// HeldActions returns the held actions, sorted.
func (in *Inputs) HeldActions() []string {
	out := make([]string, 0, len(in.held))
	for a := range in.held {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// RawInput is one tick of device state before edge detection.
type RawInput struct {
	MouseX, MouseY float64
	WheelX, WheelY float64
	Pressed        bool
	Actions        []string
	Chars          []rune
	Quit           bool
}

// InputSource reads the device state once per tick.
type InputSource interface {
	Read() RawInput
}

// inputTracker turns successive RawInputs into snapshots with edges,
// press-start positions and hold durations.
type inputTracker struct {
	prevPressed bool
	start       Vec2
	duration    float64
	prevActions map[string]bool
}

func (t *inputTracker) snapshot(raw RawInput, dt float64) *Inputs {
	in := &Inputs{
		MouseX: raw.MouseX, MouseY: raw.MouseY,
		WheelX: raw.WheelX, WheelY: raw.WheelY,
		Chars:    append([]rune(nil), raw.Chars...),
		Quit:     raw.Quit,
		held:     make(map[string]bool, len(raw.Actions)),
		pressed:  make(map[string]bool),
		released: make(map[string]bool),
	}

	switch {
	case raw.Pressed && !t.prevPressed:
		t.start = Vec2{raw.MouseX, raw.MouseY}
		t.duration = 0
		in.Click.JustPressed = true
	case raw.Pressed:
		t.duration += dt
	case t.prevPressed:
		in.Click.JustReleased = true
	}
	t.prevPressed = raw.Pressed
	in.Click.Held = raw.Pressed
	in.Click.StartX, in.Click.StartY = t.start.X, t.start.Y
	in.Click.Duration = t.duration

	for _, a := range raw.Actions {
		in.held[a] = true
		if !t.prevActions[a] {
			in.pressed[a] = true
		}
	}
	for a := range t.prevActions {
		if !in.held[a] {
			in.released[a] = true
		}
	}
	t.prevActions = in.held
	return in
}

// DefaultBindings maps key names to the built-in actions.
var DefaultBindings = map[string]string{
	"enter":     ActionActivate,
	"tab":       ActionNextFocus,
	"left":      ActionLeft,
	"right":     ActionRight,
	"up":        ActionUp,
	"down":      ActionDown,
	"backspace": ActionBackspace,
}

// --- Sources ---

// EbitenInput reads the mouse and keyboard through ebiten.
type EbitenInput struct {
	keymap map[ebiten.Key]string
}

// NewEbitenInput binds key names (see KeyByName) to actions. Unknown key
// names are skipped and returned.
func NewEbitenInput(bindings map[string]string) (*EbitenInput, []string) {
	src := &EbitenInput{keymap: make(map[ebiten.Key]string, len(bindings))}
	var unknown []string
	for name, action := range bindings {
		k, ok := KeyByName(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		src.keymap[k] = action
	}
	sort.Strings(unknown)
	return src, unknown
}

// Read implements InputSource.
func (s *EbitenInput) Read() RawInput {
	x, y := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	raw := RawInput{
		MouseX:  float64(x),
		MouseY:  float64(y),
		WheelX:  wx,
		WheelY:  wy,
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Chars:   ebiten.AppendInputChars(nil),
		Quit:    ebiten.IsWindowBeingClosed(),
	}
	seen := map[string]bool{}
	for k, action := range s.keymap {
		if ebiten.IsKeyPressed(k) && !seen[action] {
			seen[action] = true
			raw.Actions = append(raw.Actions, action)
		}
	}
	// Touch acts as the primary button.
	if touches := ebiten.AppendTouchIDs(nil); len(touches) > 0 {
		tx, ty := ebiten.TouchPosition(touches[0])
		raw.MouseX, raw.MouseY = float64(tx), float64(ty)
		raw.Pressed = true
	} else if ids := inpututil.AppendJustReleasedTouchIDs(nil); len(ids) > 0 {
		tx, ty := inpututil.TouchPositionInPreviousTick(ids[0])
		raw.MouseX, raw.MouseY = float64(tx), float64(ty)
	}
	sort.Strings(raw.Actions)
	return raw
}

// ScriptedInputs replays a queue of RawInputs, one per tick. When the queue
// is empty the last state is held, without typed characters.
type ScriptedInputs struct {
	queue []RawInput
	last  RawInput
}

// Push appends ticks to the queue.
func (s *ScriptedInputs) Push(raw ...RawInput) {
	s.queue = append(s.queue, raw...)
}

// Hold queues the same state for n ticks.
func (s *ScriptedInputs) Hold(raw RawInput, n int) {
	for i := 0; i < n; i++ {
		s.queue = append(s.queue, raw)
		raw.Chars = nil
	}
}

// Len returns the number of queued ticks.
func (s *ScriptedInputs) Len() int { return len(s.queue) }

// Read implements InputSource.
func (s *ScriptedInputs) Read() RawInput {
	if len(s.queue) == 0 {
		r := s.last
		r.Chars = nil
		r.WheelX, r.WheelY = 0, 0
		return r
	}
	r := s.queue[0]
	s.queue = s.queue[1:]
	s.last = r
	return r
}

// --- Key names ---

var keyNames map[string]ebiten.Key

var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"left":   "arrowleft",
	"right":  "arrowright",
	"up":     "arrowup",
	"down":   "arrowdown",
	"ctrl":   "controlleft",
	"shift":  "shiftleft",
	"alt":    "altleft",
	"del":    "delete",
}

// KeyByName resolves a case-insensitive key name such as "Enter", "a",
// "ArrowLeft", "left" or "1".
func KeyByName(name string) (ebiten.Key, bool) {
	if keyNames == nil {
		keyNames = make(map[string]ebiten.Key)
		for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
			keyNames[strings.ToLower(k.String())] = k
		}
	}
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := keyAliases[n]; ok {
		n = alias
	}
	if len(n) == 1 && n[0] >= '0' && n[0] <= '9' {
		n = "digit" + n
	}
	k, ok := keyNames[n]
	return k, ok
}
