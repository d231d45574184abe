package sprig

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"invalid json", `{"steps": [`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "jump"}]}`, `unknown action "jump"`},
		{"key without name", `{"steps": [{"action": "key", "frames": 2}]}`, "key without action name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.script))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestTestRunnerDrivesEntry(t *testing.T) {
	ctx := NewContext(200, 200)
	p := NewPhase(ctx, "form")
	e := NewEntry(p, "name", NewArts(NewEmptyArt(40, 20)), nil, 0, nil)
	e.Place(10, 10, AnchorTopLeft, 0)

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "screenshot", "label": "start"},
		{"action": "click", "x": 15, "y": 15},
		{"action": "wait", "frames": 2},
		{"action": "type", "text": "ab"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	r, _ := newTestRunnable(t, ctx, p)
	r.SetTestRunner(runner)

	ticks := 0
	for !runner.Done() && ticks < 20 {
		step(t, r, 16)
		ticks++
	}
	// screenshot, press, release, two waits, type, then the finishing tick.
	if ticks != 7 {
		t.Errorf("ticks = %d, want 7", ticks)
	}
	if !e.IsFocused() {
		t.Error("clicked entry not focused")
	}
	if e.Entry().Value() != "ab" {
		t.Errorf("Value = %q, want %q", e.Entry().Value(), "ab")
	}
	if diff := cmp.Diff([]string{"start"}, r.screenshots); diff != "" {
		t.Errorf("queued screenshots (-want +got):\n%s", diff)
	}
}

func TestTestRunnerKeyAndHover(t *testing.T) {
	ctx := NewContext(200, 200)
	p := NewPhase(ctx, "menu")
	first := button(p, "first", 0, 0, 20, 20, nil)
	second := button(p, "second", 30, 0, 20, 20, nil)
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "hover", "x": 40, "y": 10},
		{"action": "key", "key": "next_focus", "frames": 1}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	r, _ := newTestRunnable(t, ctx, p)
	r.SetTestRunner(runner)
	for !runner.Done() {
		step(t, r, 16)
	}
	if p.Hovered() != second {
		t.Error("hover step did not move the pointer")
	}
	if !first.IsFocused() {
		t.Error("key step did not rotate focus")
	}
}

func TestInjectDragFrames(t *testing.T) {
	r := NewRunnable(NewContext(100, 100))
	r.InjectDrag(0, 0, 30, 0, 4)
	want := []RawInput{
		{MouseX: 0, Pressed: true},
		{MouseX: 10, Pressed: true},
		{MouseX: 20, Pressed: true},
		{MouseX: 30},
	}
	if diff := cmp.Diff(want, r.injected); diff != "" {
		t.Errorf("drag (-want +got):\n%s", diff)
	}

	r.injected = nil
	r.InjectDrag(5, 5, 6, 6, 0)
	if r.Pending() != 2 {
		t.Errorf("short drag = %d ticks, want 2", r.Pending())
	}
}

func TestInjectKeyKeepsPointer(t *testing.T) {
	r := NewRunnable(NewContext(100, 100))
	r.last = &Inputs{MouseX: 7, MouseY: 9}
	r.InjectKey(ActionActivate, 0)
	want := []RawInput{
		{MouseX: 7, MouseY: 9, Actions: []string{ActionActivate}},
		{MouseX: 7, MouseY: 9},
	}
	if diff := cmp.Diff(want, r.injected); diff != "" {
		t.Errorf("key (-want +got):\n%s", diff)
	}
	r.InjectText("hi")
	if got := r.injected[2]; string(got.Chars) != "hi" || got.MouseX != 7 {
		t.Errorf("text tick = %+v", got)
	}
}
