package sprig

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// button creates a w x h focusable button placed with its top-left at (x, y).
func button(m Master, name string, x, y float64, w, h int, onClick func()) *Element {
	return NewButton(m, name, NewArts(NewEmptyArt(w, h)), nil, onClick).Place(x, y, AnchorTopLeft, 0)
}

func TestStateMachineHoverAndFocus(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "sm")
	e := button(p, "b", 0, 0, 10, 10, nil)

	steps := []struct {
		name string
		do   func()
		want State
	}{
		{"hover", e.setHover, StateHovered},
		{"focus while hovered", e.Focus, StateFocused},
		{"leave keeps focus", e.unsetHover, StateFocused},
		{"hover over focus", e.setHover, StateHovered},
		{"leave restores focus", e.unsetHover, StateFocused},
		{"unfocus", e.Unfocus, StateNormal},
		{"disable", e.Disable, StateDisabled},
		{"hover while disabled", e.setHover, StateDisabled},
		{"focus while disabled", e.Focus, StateDisabled},
		{"enable", e.Enable, StateNormal},
	}
	for _, s := range steps {
		s.do()
		if got := e.State(); got != s.want {
			t.Fatalf("after %s: state = %v, want %v", s.name, got, s.want)
		}
	}
	if e.IsFocused() {
		t.Error("disabled element kept focus")
	}
}

func TestUnfocusWhileHoveredReturnsToNormal(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "sm")
	e := button(p, "b", 0, 0, 10, 10, nil)
	e.Focus()
	e.setHover()
	e.Unfocus()
	if e.State() != StateHovered {
		t.Fatalf("state = %v, want hovered", e.State())
	}
	e.unsetHover()
	if e.State() != StateNormal {
		t.Errorf("state after leave = %v, want normal", e.State())
	}
}

func TestComponentsFollowFocusAndDisable(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "components")
	e := button(p, "b", 0, 0, 10, 10, nil)
	label := NewText(p, "label", "x", nil, TextOptions{}).SetFocusable(true)
	e.AddComponent(label)

	e.Focus()
	if !label.IsFocused() {
		t.Error("component not focused")
	}
	e.Disable()
	if !label.IsDisabled() {
		t.Error("component not disabled")
	}
	e.Enable()
	if label.IsDisabled() {
		t.Error("component not enabled")
	}
}

func TestStateChangeEvents(t *testing.T) {
	ctx := NewContext(100, 100)
	rec := &eventRecorder{}
	ctx.Store = rec
	p := NewPhase(ctx, "events")
	e := button(p, "b", 0, 0, 10, 10, nil)

	e.setHover()
	e.unsetHover()
	var got []EventType
	for _, ev := range rec.events {
		got = append(got, ev.Type)
	}
	want := []EventType{EventStateChange, EventHoverEnter, EventStateChange, EventHoverLeave}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if rec.events[0].From != StateNormal || rec.events[0].To != StateHovered {
		t.Errorf("first transition = %v -> %v", rec.events[0].From, rec.events[0].To)
	}
}

type eventRecorder struct{ events []InteractionEvent }

func (r *eventRecorder) EmitEvent(ev InteractionEvent) { r.events = append(r.events, ev) }

func TestHitTestShapes(t *testing.T) {
	ctx := NewContext(200, 200)
	p := NewPhase(ctx, "hits")
	e := button(p, "b", 100, 100, 40, 40, nil)

	tests := []struct {
		name   string
		hitbox *Hitbox
		x, y   float64
		want   bool
	}{
		{"whole element", &Hitbox{}, 139, 139, true},
		{"outside rect", &Hitbox{}, 141, 120, false},
		{"circle center", &Hitbox{Shape: HitCircle{20, 20, 10}}, 120, 120, true},
		{"circle corner", &Hitbox{Shape: HitCircle{20, 20, 10}}, 101, 101, false},
		{"mask hole", &Hitbox{Mask: NewRectangleMask(40, 40, Rect{0, 0, 19, 39})}, 105, 120, false},
		{"mask solid", &Hitbox{Mask: NewRectangleMask(40, 40, Rect{0, 0, 19, 39})}, 130, 120, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.SetHitbox(tt.hitbox)
			if got := e.HitTest(tt.x, tt.y); got != tt.want {
				t.Errorf("HitTest(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
	e.SetHitbox(nil)
	if e.HitTest(120, 120) {
		t.Error("element without hitbox was hit")
	}
}

func TestHitTestRotated(t *testing.T) {
	ctx := NewContext(200, 200)
	p := NewPhase(ctx, "rotated")
	e := NewButton(p, "b", NewArts(NewEmptyArt(40, 10)), nil, nil)
	e.SetRotation(90)
	e.Place(100, 100, AnchorCenter, 0)
	// The 40x10 art now stands 10 wide and 40 tall around (100, 100).
	if !e.HitTest(100, 82) {
		t.Error("point on the rotated body missed")
	}
	e.SetHitbox(&Hitbox{Shape: HitRect{0, 0, 20, 10}})
	// Counter-clockwise rotation puts local x in [0, 20] at the bottom.
	if !e.HitTest(100, 115) {
		t.Error("point on the rotated hit rect missed")
	}
	if e.HitTest(100, 85) {
		t.Error("point outside the rotated hit rect hit")
	}
}

func TestRepeater(t *testing.T) {
	var r repeater
	r.start(400, 100)
	var got []int
	for i := 0; i < 7; i++ {
		got = append(got, r.update(100))
	}
	if diff := cmp.Diff([]int{0, 0, 0, 1, 1, 1, 1}, got); diff != "" {
		t.Errorf("firings (-want +got):\n%s", diff)
	}
	r.start(400, 100)
	if n := r.update(650); n != 3 {
		t.Errorf("catch-up firings = %d, want 3", n)
	}
	r.start(50, 0)
	if n := r.update(1000); n != 1 {
		t.Errorf("zero interval firings = %d, want 1", n)
	}
}

func TestClickIgnoredWhileDisabled(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "click")
	clicks := 0
	e := button(p, "b", 0, 0, 10, 10, func() { clicks++ })
	e.Click()
	e.Disable()
	e.Click()
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}
