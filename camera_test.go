package sprig

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func filledNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestHideCircleMask(t *testing.T) {
	cam := NewCamera(Rect{0, 0, 100, 100})
	cam.SetEffect(EffectHide, NewCircleMask(100, 100, Vec2{50, 50}, 40))
	img := filledNRGBA(100, 100, color.NRGBA{200, 120, 40, 255})
	cam.applyEffects(img, image.Point{})

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			inside := math.Hypot(float64(x-50), float64(y-50)) <= 40
			a := img.NRGBAAt(x, y).A
			if inside && a != 255 {
				t.Fatalf("pixel (%d, %d) inside the circle has alpha %d", x, y, a)
			}
			if !inside && a != 0 {
				t.Fatalf("pixel (%d, %d) outside the circle has alpha %d", x, y, a)
			}
		}
	}
	if got := img.NRGBAAt(50, 50); got != (color.NRGBA{200, 120, 40, 255}) {
		t.Errorf("visible pixel changed color: %v", got)
	}
}

func TestEffectsUseCanvasOrigin(t *testing.T) {
	cam := NewCamera(Rect{10, 0, 4, 1})
	mask := NewMask(20, 1, 0)
	mask.Set(11, 0, 1)
	cam.SetEffect(EffectHide, mask)
	img := filledNRGBA(4, 1, color.NRGBA{255, 255, 255, 255})
	cam.applyEffects(img, image.Point{10, 0})
	var alphas []uint8
	for x := 0; x < 4; x++ {
		alphas = append(alphas, img.NRGBAAt(x, 0).A)
	}
	if alphas[0] != 255 || alphas[1] != 0 || alphas[2] != 255 {
		t.Errorf("alphas = %v, want the second pixel hidden", alphas)
	}
}

func TestLightnessEffects(t *testing.T) {
	tests := []struct {
		name   string
		effect Effect
		value  float64
		in     uint8
		want   uint8
	}{
		{"darken half", EffectDarken, 0.5, 128, 64},
		{"darken none", EffectDarken, 0, 128, 128},
		{"lighten full", EffectLighten, 1, 100, 255},
		{"desaturate gray", EffectDesaturate, 1, 90, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(Rect{0, 0, 2, 2})
			cam.SetEffect(tt.effect, NewMask(2, 2, tt.value))
			img := filledNRGBA(2, 2, color.NRGBA{tt.in, tt.in, tt.in, 255})
			cam.applyEffects(img, image.Point{})
			got := img.NRGBAAt(1, 1)
			if got.R != tt.want || got.G != tt.want || got.B != tt.want || got.A != 255 {
				t.Errorf("pixel = %v, want gray %d", got, tt.want)
			}
		})
	}
}

func TestDesaturateRemovesColor(t *testing.T) {
	cam := NewCamera(Rect{0, 0, 1, 1})
	cam.SetEffect(EffectDesaturate, NewMask(1, 1, 1))
	img := filledNRGBA(1, 1, color.NRGBA{255, 0, 0, 255})
	cam.applyEffects(img, image.Point{})
	got := img.NRGBAAt(0, 0)
	if got.R != got.G || got.G != got.B {
		t.Errorf("desaturated pixel = %v, want gray", got)
	}
}

func TestConflictingEffectsPanic(t *testing.T) {
	cam := NewCamera(Rect{0, 0, 10, 10})
	cam.SetEffect(EffectDarken, NewMask(10, 10, 1))
	catchInvariant(t, func() { cam.SetEffect(EffectLighten, NewMask(10, 10, 1)) })

	cam.SetEffect(EffectSaturate, NewMask(10, 10, 1))
	catchInvariant(t, func() { cam.SetEffect(EffectDesaturate, NewMask(10, 10, 1)) })

	// Removing the conflicting mask frees the slot.
	cam.SetEffect(EffectDarken, nil)
	cam.SetEffect(EffectLighten, NewMask(10, 10, 1))
	if cam.Effect(EffectLighten) == nil || cam.Effect(EffectDarken) != nil {
		t.Error("effect slots not updated")
	}
	if cam.Effect(numEffects) != nil {
		t.Error("unknown effect returned a mask")
	}
}

func TestCameraBounds(t *testing.T) {
	tests := []struct {
		name   string
		view   Rect
		bounds Rect
		moveX  float64
		moveY  float64
		want   Vec2
	}{
		{"inside", Rect{0, 0, 100, 100}, Rect{0, 0, 300, 300}, 50, 60, Vec2{50, 60}},
		{"past the far edge", Rect{0, 0, 100, 100}, Rect{0, 0, 300, 300}, 250, 290, Vec2{200, 200}},
		{"before the near edge", Rect{0, 0, 100, 100}, Rect{0, 0, 300, 300}, -5, -10, Vec2{0, 0}},
		{"larger than bounds", Rect{0, 0, 100, 100}, Rect{0, 0, 60, 300}, 70, 0, Vec2{-20, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.view)
			cam.SetBounds(tt.bounds)
			cam.MoveTo(tt.moveX, tt.moveY)
			if got := cam.Rect.TopLeft(); got != tt.want {
				t.Errorf("top-left = %v, want %v", got, tt.want)
			}
		})
	}

	cam := NewCamera(Rect{0, 0, 10, 10})
	cam.SetBounds(Rect{0, 0, 20, 20})
	cam.ClearBounds()
	cam.MoveTo(-50, -50)
	if got := cam.Rect.TopLeft(); got != (Vec2{-50, -50}) {
		t.Errorf("cleared bounds still clamp: %v", got)
	}
}

func TestScrollTo(t *testing.T) {
	cam := NewCamera(Rect{0, 0, 10, 10})
	changes := 0
	cam.onChange = func() { changes++ }
	cam.ScrollTo(100, 50, 100, ease.Linear)
	if !cam.Scrolling() {
		t.Fatal("not scrolling")
	}
	cam.update(50)
	if got := cam.Rect.TopLeft(); got != (Vec2{50, 25}) {
		t.Errorf("halfway = %v, want (50, 25)", got)
	}
	cam.update(80)
	if got := cam.Rect.TopLeft(); got != (Vec2{100, 50}) {
		t.Errorf("end = %v, want (100, 50)", got)
	}
	if cam.Scrolling() {
		t.Error("still scrolling after the duration")
	}
	if changes != 2 {
		t.Errorf("changes = %d, want 2", changes)
	}
	cam.update(10)
	if changes != 2 {
		t.Error("idle camera reported a change")
	}
}

func TestCenterOn(t *testing.T) {
	cam := NewCamera(Rect{0, 0, 40, 20})
	cam.CenterOn(100, 100)
	if got := cam.Rect.TopLeft(); got != (Vec2{80, 90}) {
		t.Errorf("top-left = %v, want (80, 90)", got)
	}
	cam.Move(5, -5)
	if got := cam.Rect.TopLeft(); got != (Vec2{85, 85}) {
		t.Errorf("after Move = %v, want (85, 85)", got)
	}
}

func TestFrameCameraChangeDirtiesFrame(t *testing.T) {
	ctx := NewContext(200, 200)
	p := NewPhase(ctx, "frames")
	f := NewFrame(p, "f", 100, 100, 50, 50, nil)
	f.Place(0, 0, AnchorTopLeft, 0)
	p.Surface()
	f.Surface()
	f.Camera().Move(10, 0)
	if !f.Dirty() {
		t.Error("camera move did not dirty the frame")
	}
}
