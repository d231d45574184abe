package sprig

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 2 values of an Element simultaneously. Create
// one with TweenPosition, TweenAlpha, TweenRotation or TweenZoom and attach
// it with Element.AddTween, or call Update yourself. Durations are in
// milliseconds. If the target element is disposed, the group stops.
type TweenGroup struct {
	tweens [2]*gween.Tween
	count  int
	apply  func(v [2]float64)
	target *Element
	Done   bool
}

// Update advances all tweens by dt milliseconds and applies the values to
// the target element.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	var vals [2]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(vals)
}

// TweenPosition moves e's pivot to (toX, toY). The element leaves any grid.
func TweenPosition(e *Element, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(e.pos.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(e.pos.Y), float32(toY), duration, fn)
	g.apply = func(v [2]float64) {
		if e.grid != nil {
			e.grid.Remove(e)
		}
		e.placeAt(Vec2{v[0], v[1]}, e.anchor, e.layer)
	}
	return g
}

// TweenAlpha fades e to the given opacity.
func TweenAlpha(e *Element, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(e.alpha), float32(to), duration, fn)
	g.apply = func(v [2]float64) { e.SetAlpha(v[0]) }
	return g
}

// TweenRotation turns e to the given angle in degrees.
func TweenRotation(e *Element, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(e.rotation), float32(to), duration, fn)
	g.apply = func(v [2]float64) { e.SetRotation(v[0]) }
	return g
}

// TweenZoom scales e to the given zoom factor.
func TweenZoom(e *Element, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(e.zoom), float32(to), duration, fn)
	g.apply = func(v [2]float64) {
		if v[0] > 0 {
			e.SetZoom(v[0])
		}
	}
	return g
}

// updateTweens advances the attached groups and drops finished ones.
func (e *Element) updateTweens(dt float64) {
	if len(e.tweens) == 0 {
		return
	}
	live := e.tweens[:0]
	for _, g := range e.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(e.tweens[len(live):])
	e.tweens = live
}
