package sprig

import "github.com/hajimehoshi/ebiten/v2"

type frameCap struct {
	camera     *Camera
	canvasW    int
	canvasH    int
	display    Vec2
	background Color
}

type viewCap struct {
	target  Handle
	camera  *Camera
	display Vec2
}

// NewFrame creates a master element with its own canvas of canvasW x canvasH
// pixels. The camera selects the region shown; it is scaled to displayW x
// displayH on the frame's own master. A nil camera views the whole canvas.
func NewFrame(m Master, name string, canvasW, canvasH int, displayW, displayH float64, cam *Camera) *Element {
	if canvasW <= 0 || canvasH <= 0 {
		invariant("frame %q: canvas size %dx%d", name, canvasW, canvasH)
	}
	if cam == nil {
		cam = NewCamera(Rect{0, 0, float64(canvasW), float64(canvasH)})
	}
	e := newElement(m, name)
	e.frame = &frameCap{
		camera:  cam,
		canvasW: canvasW,
		canvasH: canvasH,
		display: Vec2{displayW, displayH},
	}
	e.bindCamera(cam)
	return e
}

// NewView creates an element showing another region of target's canvas
// through cam. Views are not masters: they hold no children of their own.
// Arts set on the view are drawn over the captured region.
func NewView(m Master, name string, target *Element, displayW, displayH float64, cam *Camera) *Element {
	if target == nil || target.frame == nil {
		invariant("view %q: target is not a frame", name)
	}
	if cam == nil {
		cam = NewCamera(target.frame.camera.Rect)
	}
	e := newElement(m, name)
	e.view = &viewCap{target: target.handle, camera: cam, display: Vec2{displayW, displayH}}
	target.views = append(target.views, e.handle)
	e.bindCamera(cam)
	return e
}

func (e *Element) bindCamera(cam *Camera) {
	if cam.onChange != nil {
		invariant("element %q: camera already bound", e.Name)
	}
	cam.onChange = func() {
		if e.frame != nil {
			e.refreshChildren()
		}
		e.NotifyChange()
	}
}

// Camera returns the camera of a frame or view, or nil.
func (e *Element) Camera() *Camera {
	switch {
	case e.frame != nil:
		return e.frame.camera
	case e.view != nil:
		return e.view.camera
	}
	return nil
}

// IsFrame reports whether the element is a frame.
func (e *Element) IsFrame() bool { return e.frame != nil }

// CanvasSize returns a frame's canvas size.
func (e *Element) CanvasSize() (w, h int) {
	if e.frame == nil {
		return 0, 0
	}
	return e.frame.canvasW, e.frame.canvasH
}

// SetBackground fills the canvas of a frame or phase root before anything
// is drawn on it.
func (e *Element) SetBackground(c Color) *Element {
	if e.frame != nil {
		e.frame.background = c
	} else {
		e.background = c
	}
	e.NotifyChange()
	return e
}

// SetDisplaySize changes the size a frame or view occupies on its master.
func (e *Element) SetDisplaySize(w, h float64) *Element {
	switch {
	case e.frame != nil:
		e.frame.display = Vec2{w, h}
		e.refreshChildren()
	case e.view != nil:
		e.view.display = Vec2{w, h}
	default:
		invariant("element %q: display size on a plain element", e.Name)
	}
	e.refreshOnMaster()
	e.NotifyChange()
	return e
}

// canvasImage returns the frame's canvas, rebuilding it when dirty.
func (e *Element) canvasImage() *ebiten.Image {
	e.Surface()
	return e.canvas
}

func (e *Element) renderFrame() *ebiten.Image {
	f := e.frame
	canvas := e.renderCanvas(f.canvasW, f.canvasH)
	return scaleTo(f.camera.produce(canvas), f.display.X, f.display.Y)
}

func (e *Element) renderView() *ebiten.Image {
	v := e.view
	target := e.ctx.elements.get(v.target)
	if target == nil {
		return newImage(ceilInt(v.display.X), ceilInt(v.display.Y))
	}
	out := scaleTo(v.camera.produce(target.canvasImage()), v.display.X, v.display.Y)
	if e.arts != nil {
		drawAt(out, e.arts.Get(e.DisplayState()), 0, 0)
	}
	return out
}

// updateCamera advances a frame's or view's scroll animation.
func (e *Element) updateCamera(dt float64) {
	if cam := e.Camera(); cam != nil {
		cam.update(dt)
	}
}
