package sprig

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// render rebuilds the element's surface, dispatching on its capabilities.
func (e *Element) render() *ebiten.Image {
	switch {
	case e.isRoot:
		return e.renderCanvas(e.ctx.ScreenWidth, e.ctx.ScreenHeight)
	case e.frame != nil:
		return e.renderFrame()
	case e.view != nil:
		return e.renderView()
	}
	return e.applyActor(e.renderBase())
}

// renderBase builds the unrotated, unzoomed image: art, widget overlays,
// then the label.
func (e *Element) renderBase() *ebiten.Image {
	state := e.DisplayState()
	var base *ebiten.Image
	if e.arts != nil {
		base = e.arts.Get(state)
	}
	switch {
	case e.slider != nil:
		base = e.renderSlider(base)
	case e.progress != nil:
		base = e.renderProgress(base)
	}
	if e.label != nil {
		base = overlay(base, e.renderLabel(state), e.label.anchor)
	}
	if e.entry != nil {
		base = e.renderCaret(base, state)
	}
	return base
}

func (e *Element) fontStyle(state State) FontStyle {
	if e.fonts == nil {
		return DefaultFontStyle
	}
	return e.fonts.Get(state)
}

func (e *Element) renderLabel(state State) *ebiten.Image {
	return e.ctx.Typewriter.Render(e.label.text, e.fontStyle(state), e.label.opts)
}

// overlay draws top over a copy of base, aligned by anchor. A nil base
// yields top itself.
func overlay(base, top *ebiten.Image, anchor Vec2) *ebiten.Image {
	if top == nil {
		return base
	}
	if base == nil {
		return top
	}
	bw, bh := imageSize(base)
	tw, th := imageSize(top)
	out := copyImage(base)
	drawAt(out, top, anchor.X*(bw-tw), anchor.Y*(bh-th))
	return out
}

// applyActor rotates and zooms base into its bounding box.
func (e *Element) applyActor(base *ebiten.Image) *ebiten.Image {
	if base == nil || (e.rotation == 0 && e.zoom == 1) {
		return base
	}
	bw, bh := imageSize(base)
	rad := e.rotation * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	sw := (bw*cos + bh*sin) * e.zoom
	sh := (bw*sin + bh*cos) * e.zoom
	dst := newImage(ceilInt(sw), ceilInt(sh))
	m := e.actorTransform(bw, bh, float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy()))
	dst.DrawImage(base, &ebiten.DrawImageOptions{GeoM: geoM(m), Filter: ebiten.FilterLinear})
	return dst
}

// renderCanvas composites the background arts and every visible child, in
// ascending layer order, onto the element's reusable canvas.
func (e *Element) renderCanvas(w, h int) *ebiten.Image {
	w, h = max(w, 1), max(h, 1)
	if e.canvas == nil || e.canvas.Bounds().Dx() != w || e.canvas.Bounds().Dy() != h {
		e.canvas = ebiten.NewImage(w, h)
	} else {
		e.canvas.Clear()
	}
	if bg := e.canvasBackground(); bg.A > 0 {
		e.canvas.Fill(bg)
	}
	if e.arts != nil {
		drawAt(e.canvas, e.arts.Get(e.DisplayState()), 0, 0)
	}
	for _, c := range e.paintOrder() {
		if !c.IsVisible() {
			continue
		}
		s := c.Surface()
		if s == nil {
			continue
		}
		r := c.canvasRect()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(math.Round(r.X), math.Round(r.Y))
		if c.alpha < 1 {
			op.ColorScale.ScaleAlpha(float32(c.alpha))
		}
		e.canvas.DrawImage(s, op)
	}
	return e.canvas
}

func (e *Element) canvasBackground() Color {
	if e.frame != nil {
		return e.frame.background
	}
	return e.background
}

// scaleTo returns img scaled to w x h, or img itself when it already fits.
func scaleTo(img *ebiten.Image, w, h float64) *ebiten.Image {
	iw, ih := imageSize(img)
	tw, th := ceilInt(w), ceilInt(h)
	if int(iw) == tw && int(ih) == th {
		return img
	}
	dst := newImage(tw, th)
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(float64(tw)/iw, float64(th)/ih)
	dst.DrawImage(img, op)
	return dst
}
