package sprig

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Effect names a camera effect mask.
type Effect uint8

const (
	EffectDarken Effect = iota
	EffectLighten
	EffectDesaturate
	EffectSaturate
	EffectShiftHue
	EffectHide

	numEffects
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is a rectangle on a canvas plus optional effect masks. It turns
// the canvas into the externally visible surface of a Frame or View.
type Camera struct {
	// Rect is the viewed region in canvas pixels.
	Rect Rect

	// BoundsEnabled clamps the camera so the viewed region stays within
	// Bounds.
	BoundsEnabled bool
	Bounds        Rect

	masks       [numEffects]*Mask
	scrollTween *scrollAnim
	onChange    func()
}

// NewCamera creates a camera viewing r.
func NewCamera(r Rect) *Camera {
	return &Camera{Rect: r}
}

func (c *Camera) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// SetEffect installs mask for effect; nil removes it. Darken with Lighten
// and Saturate with Desaturate cannot be combined.
func (c *Camera) SetEffect(effect Effect, mask *Mask) *Camera {
	if effect >= numEffects {
		invariant("camera: unknown effect %d", effect)
	}
	if mask != nil {
		if conflict, ok := effectConflicts[effect]; ok && c.masks[conflict] != nil {
			invariant("camera: effect %d cannot be combined with effect %d", effect, conflict)
		}
	}
	c.masks[effect] = mask
	c.changed()
	return c
}

var effectConflicts = map[Effect]Effect{
	EffectDarken:     EffectLighten,
	EffectLighten:    EffectDarken,
	EffectSaturate:   EffectDesaturate,
	EffectDesaturate: EffectSaturate,
}

// Effect returns the mask installed for effect.
func (c *Camera) Effect(effect Effect) *Mask {
	if effect >= numEffects {
		return nil
	}
	return c.masks[effect]
}

func (c *Camera) hasEffects() bool {
	for _, m := range c.masks {
		if m != nil {
			return true
		}
	}
	return false
}

// MoveTo places the camera's top-left at (x, y).
func (c *Camera) MoveTo(x, y float64) {
	c.Rect.X, c.Rect.Y = x, y
	if c.BoundsEnabled {
		c.clampToBounds()
	}
	c.changed()
}

// Move translates the camera.
func (c *Camera) Move(dx, dy float64) {
	c.MoveTo(c.Rect.X+dx, c.Rect.Y+dy)
}

// CenterOn centers the camera on (x, y).
func (c *Camera) CenterOn(x, y float64) {
	c.MoveTo(x-c.Rect.Width/2, y-c.Rect.Height/2)
}

// ScrollTo animates the camera top-left to (x, y) over duration milliseconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.Rect.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Rect.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
	c.clampToBounds()
	c.changed()
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// update advances the scroll animation by dt milliseconds.
func (c *Camera) update(dt float64) {
	if c.scrollTween == nil {
		return
	}
	x, y := c.Rect.X, c.Rect.Y
	if !c.scrollTween.doneX {
		val, done := c.scrollTween.tweenX.Update(float32(dt))
		x = float64(val)
		c.scrollTween.doneX = done
	}
	if !c.scrollTween.doneY {
		val, done := c.scrollTween.tweenY.Update(float32(dt))
		y = float64(val)
		c.scrollTween.doneY = done
	}
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
	if x != c.Rect.X || y != c.Rect.Y {
		c.MoveTo(x, y)
	}
}

// clampToBounds restricts the camera so the viewed region stays within
// Bounds. A region larger than Bounds is centered.
func (c *Camera) clampToBounds() {
	minX, maxX := c.Bounds.X, c.Bounds.X+c.Bounds.Width-c.Rect.Width
	minY, maxY := c.Bounds.Y, c.Bounds.Y+c.Bounds.Height-c.Rect.Height
	if minX > maxX {
		c.Rect.X = c.Bounds.X + (c.Bounds.Width-c.Rect.Width)/2
	} else {
		c.Rect.X = math.Max(minX, math.Min(c.Rect.X, maxX))
	}
	if minY > maxY {
		c.Rect.Y = c.Bounds.Y + (c.Bounds.Height-c.Rect.Height)/2
	} else {
		c.Rect.Y = math.Max(minY, math.Min(c.Rect.Y, maxY))
	}
}

func (c *Camera) bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(c.Rect.X)), int(math.Floor(c.Rect.Y)),
		int(math.Floor(c.Rect.X+c.Rect.Width)), int(math.Floor(c.Rect.Y+c.Rect.Height)),
	)
}

// produce returns the camera's view of canvas with effects applied. Parts
// of the view outside the canvas are transparent.
func (c *Camera) produce(canvas *ebiten.Image) *ebiten.Image {
	cb := c.bounds()
	out := newImage(cb.Dx(), cb.Dy())
	if r := cb.Intersect(canvas.Bounds()); !r.Empty() {
		sub := canvas.SubImage(r).(*ebiten.Image)
		drawAt(out, sub, float64(r.Min.X-cb.Min.X), float64(r.Min.Y-cb.Min.Y))
	}
	if !c.hasEffects() {
		return out
	}
	pixels := readNRGBA(out)
	c.applyEffects(pixels, cb.Min)
	return ebiten.NewImageFromImage(pixels)
}

// applyEffects blends every installed mask into img. origin is the canvas
// position of img's top-left pixel; masks are indexed in canvas pixels.
//
// Order: darken, lighten, desaturate, saturate, shift hue in HSL space,
// then hide scales alpha by 1-mask.
func (c *Camera) applyEffects(img *image.NRGBA, origin image.Point) {
	b := img.Bounds()
	hsl := c.masks[EffectDarken] != nil || c.masks[EffectLighten] != nil ||
		c.masks[EffectDesaturate] != nil || c.masks[EffectSaturate] != nil ||
		c.masks[EffectShiftHue] != nil
	hide := c.masks[EffectHide]
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			px := img.Pix[i : i+4 : i+4]
			mx, my := origin.X+x, origin.Y+y
			if hsl {
				h, s, l := colorful.Color{
					R: float64(px[0]) / 255,
					G: float64(px[1]) / 255,
					B: float64(px[2]) / 255,
				}.Hsl()
				if m := c.masks[EffectDarken]; m != nil {
					l *= 1 - m.At(mx, my)
				}
				if m := c.masks[EffectLighten]; m != nil {
					l += (1 - l) * m.At(mx, my)
				}
				if m := c.masks[EffectDesaturate]; m != nil {
					s *= 1 - m.At(mx, my)
				}
				if m := c.masks[EffectSaturate]; m != nil {
					s += (1 - s) * m.At(mx, my)
				}
				if m := c.masks[EffectShiftHue]; m != nil {
					h = math.Mod(h+360*m.At(mx, my), 360)
				}
				out := colorful.Hsl(h, s, l).Clamped()
				px[0] = uint8(out.R*255 + 0.5)
				px[1] = uint8(out.G*255 + 0.5)
				px[2] = uint8(out.B*255 + 0.5)
			}
			if hide != nil {
				px[3] = uint8(float64(px[3])*(1-hide.At(mx, my)) + 0.5)
			}
		}
	}
}
