package sprig

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionLeavesGrid(t *testing.T) {
	ctx := NewContext(200, 200)
	p := NewPhase(ctx, "tween")
	g := NewGrid(p, 0, 0, AnchorTopLeft)
	e := box(p, "e", 10, 10).GridAt(g, Cell{})

	tw := TweenPosition(e, 100, 50, 100, ease.Linear)
	tw.Update(50)
	if e.Grid() != nil || g.Element(0, 0) != nil {
		t.Error("tweened element kept its grid cell")
	}
	if got := e.Pos(); got != (Vec2{50, 25}) {
		t.Errorf("halfway pos = %v, want (50, 25)", got)
	}
	tw.Update(60)
	if got := e.Pos(); got != (Vec2{100, 50}) || !tw.Done {
		t.Errorf("final pos = %v done=%v", got, tw.Done)
	}
	if e.Anchor() != AnchorTopLeft {
		t.Errorf("anchor changed to %v", e.Anchor())
	}
}

func TestTweenProperties(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "tween")

	tests := []struct {
		name  string
		tween func(e *Element) *TweenGroup
		get   func(e *Element) float64
		want  float64
	}{
		{"alpha", func(e *Element) *TweenGroup { return TweenAlpha(e, 0.25, 100, ease.Linear) }, func(e *Element) float64 { return e.alpha }, 0.25},
		{"rotation", func(e *Element) *TweenGroup { return TweenRotation(e, 90, 100, ease.InOutQuad) }, (*Element).Rotation, 90},
		{"zoom", func(e *Element) *TweenGroup { return TweenZoom(e, 3, 100, ease.OutCubic) }, (*Element).Zoom, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := box(p, tt.name, 4, 4)
			tw := tt.tween(e)
			e.AddTween(tw)
			e.update(40, &Inputs{})
			if tw.Done {
				t.Fatal("done before the duration")
			}
			e.update(60, &Inputs{})
			if got := tt.get(e); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
			if !tw.Done || len(e.tweens) != 0 {
				t.Errorf("finished tween still attached: done=%v attached=%d", tw.Done, len(e.tweens))
			}
		})
	}
}

func TestTweenStopsOnDispose(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "tween")
	e := box(p, "e", 4, 4)
	tw := TweenAlpha(e, 0, 100, ease.Linear)
	e.Dispose()
	tw.Update(10)
	if !tw.Done {
		t.Error("tween on a disposed element kept running")
	}
	if e.alpha != 1 {
		t.Errorf("alpha = %v; a disposed element must not be touched", e.alpha)
	}
}

func TestTweenZoomIgnoresZero(t *testing.T) {
	ctx := NewContext(100, 100)
	p := NewPhase(ctx, "tween")
	e := box(p, "e", 4, 4)
	tw := TweenZoom(e, 0, 100, ease.Linear)
	tw.Update(100)
	if e.Zoom() != 1 {
		t.Errorf("zoom = %v, want the last positive value", e.Zoom())
	}
}
