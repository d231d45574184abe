package sprig

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Transformation maps a Frames record to a new one. Implementations never
// draw into the input images.
type Transformation interface {
	Apply(f Frames) Frames
}

// TransformationFunc adapts a plain function to Transformation.
type TransformationFunc func(Frames) Frames

// Apply calls fn(f).
func (fn TransformationFunc) Apply(f Frames) Frames { return fn(f) }

func applyTransformation(t Transformation, f Frames) Frames {
	out := t.Apply(f)
	out.normalize()
	return out
}

// mapImages rebuilds every frame with fn, keeping timing untouched.
func mapImages(f Frames, fn func(*ebiten.Image) *ebiten.Image) Frames {
	out := f
	out.Images = make([]*ebiten.Image, len(f.Images))
	for i, img := range f.Images {
		out.Images[i] = fn(img)
	}
	out.Durations = append([]float64(nil), f.Durations...)
	return out
}

func imageSize(img *ebiten.Image) (float64, float64) {
	b := img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func newImage(w, h int) *ebiten.Image {
	return ebiten.NewImage(max(w, 1), max(h, 1))
}

// copyImage returns a fresh image holding src.
func copyImage(src *ebiten.Image) *ebiten.Image {
	w, h := imageSize(src)
	dst := newImage(int(w), int(h))
	dst.DrawImage(src, nil)
	return dst
}

// --- Geometry ---

// Rotate turns every frame by Degrees counter-clockwise. The frame grows to
// the rotated bounding box.
type Rotate struct{ Degrees float64 }

func (t Rotate) Apply(f Frames) Frames {
	rad := -t.Degrees * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		w, h := imageSize(img)
		nw, nh := w*cos+h*sin, w*sin+h*cos
		dst := newImage(ceilInt(nw), ceilInt(nh))
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Rotate(rad)
		op.GeoM.Translate(nw/2, nh/2)
		dst.DrawImage(img, op)
		return dst
	})
}

// Resize scales every frame to Width x Height.
type Resize struct {
	Width, Height int
	Smooth        bool
}

func (t Resize) Apply(f Frames) Frames {
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		w, h := imageSize(img)
		dst := newImage(t.Width, t.Height)
		op := &ebiten.DrawImageOptions{}
		if t.Smooth {
			op.Filter = ebiten.FilterLinear
		}
		op.GeoM.Scale(float64(t.Width)/w, float64(t.Height)/h)
		dst.DrawImage(img, op)
		return dst
	})
}

// Zoom scales every frame by Factor.
type Zoom struct{ Factor float64 }

func (t Zoom) Apply(f Frames) Frames {
	return Resize{
		Width:  int(math.Round(float64(f.Width) * t.Factor)),
		Height: int(math.Round(float64(f.Height) * t.Factor)),
		Smooth: true,
	}.Apply(f)
}

// Crop keeps the Rect region of every frame.
type Crop struct{ Rect Rect }

func (t Crop) Apply(f Frames) Frames {
	r := image.Rect(int(t.Rect.X), int(t.Rect.Y), int(t.Rect.X+t.Rect.Width), int(t.Rect.Y+t.Rect.Height))
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		return copyImage(img.SubImage(r.Add(img.Bounds().Min)).(*ebiten.Image))
	})
}

// Pad surrounds every frame with a border filled with Color.
type Pad struct {
	Left, Top, Right, Bottom int
	Color                    Color
}

func (t Pad) Apply(f Frames) Frames {
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		w, h := imageSize(img)
		dst := newImage(int(w)+t.Left+t.Right, int(h)+t.Top+t.Bottom)
		if t.Color.A > 0 {
			dst.Fill(t.Color)
		}
		op := &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
		op.GeoM.Translate(float64(t.Left), float64(t.Top))
		dst.DrawImage(img, op)
		return dst
	})
}

// Flip mirrors every frame.
type Flip struct{ Horizontal, Vertical bool }

func (t Flip) Apply(f Frames) Frames {
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		w, h := imageSize(img)
		dst := newImage(int(w), int(h))
		op := &ebiten.DrawImageOptions{}
		sx, sy, tx, ty := 1.0, 1.0, 0.0, 0.0
		if t.Horizontal {
			sx, tx = -1, w
		}
		if t.Vertical {
			sy, ty = -1, h
		}
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(tx, ty)
		dst.DrawImage(img, op)
		return dst
	})
}

// HorizontalChop removes the columns [From, To) and joins the two halves.
type HorizontalChop struct{ From, To int }

func (t HorizontalChop) Apply(f Frames) Frames {
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		w, h := imageSize(img)
		from, to := clampSpan(t.From, t.To, int(w))
		b := img.Bounds()
		dst := newImage(int(w)-(to-from), int(h))
		left := img.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+from, b.Max.Y)).(*ebiten.Image)
		right := img.SubImage(image.Rect(b.Min.X+to, b.Min.Y, b.Max.X, b.Max.Y)).(*ebiten.Image)
		drawAt(dst, left, 0, 0)
		drawAt(dst, right, float64(from), 0)
		return dst
	})
}

// VerticalChop removes the rows [From, To) and joins the two halves.
type VerticalChop struct{ From, To int }

func (t VerticalChop) Apply(f Frames) Frames {
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		w, h := imageSize(img)
		from, to := clampSpan(t.From, t.To, int(h))
		b := img.Bounds()
		dst := newImage(int(w), int(h)-(to-from))
		top := img.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+from)).(*ebiten.Image)
		bottom := img.SubImage(image.Rect(b.Min.X, b.Min.Y+to, b.Max.X, b.Max.Y)).(*ebiten.Image)
		drawAt(dst, top, 0, 0)
		drawAt(dst, bottom, 0, float64(from))
		return dst
	})
}

func clampSpan(from, to, n int) (int, int) {
	from = max(0, min(from, n))
	to = max(from, min(to, n))
	return from, to
}

// drawAt draws src with its bounds origin placed at (x, y).
func drawAt(dst, src *ebiten.Image, x, y float64) {
	if src == nil || src.Bounds().Empty() {
		return
	}
	// Sub-images draw with their bounds' min at the origin.
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	dst.DrawImage(src, op)
}

// --- Timing ---

// Speed divides every duration by Factor.
type Speed struct{ Factor float64 }

func (t Speed) Apply(f Frames) Frames {
	out := f
	out.Durations = make([]float64, len(f.Durations))
	for i, d := range f.Durations {
		if t.Factor > 0 {
			out.Durations[i] = d / t.Factor
		} else {
			out.Durations[i] = d
		}
	}
	return out
}

// Slow multiplies every duration by Factor.
type Slow struct{ Factor float64 }

func (t Slow) Apply(f Frames) Frames {
	if t.Factor <= 0 {
		return f
	}
	return Speed{Factor: 1 / t.Factor}.Apply(f)
}

// Extract keeps the frames [From, To). The introduction shrinks to the part
// that survives.
type Extract struct{ From, To int }

func (t Extract) Apply(f Frames) Frames {
	from, to := clampSpan(t.From, t.To, len(f.Images))
	out := f
	out.Images = append([]*ebiten.Image(nil), f.Images[from:to]...)
	out.Durations = append([]float64(nil), f.Durations[from:to]...)
	out.Introduction = max(0, min(f.Introduction, to)-from)
	out.Index = 0
	return out
}

// Concatenate appends the frames of Art after the current ones.
type Concatenate struct{ Art *Art }

func (t Concatenate) Apply(f Frames) Frames {
	other := t.Art.Frames()
	out := f
	out.Images = append(append([]*ebiten.Image(nil), f.Images...), other.Images...)
	out.Durations = append(append([]float64(nil), f.Durations...), other.Durations...)
	return out
}

// Average collapses every frame into a single averaged frame.
type Average struct{}

func (Average) Apply(f Frames) Frames {
	n := len(f.Images)
	if n == 0 {
		return f
	}
	dst := newImage(f.Width, f.Height)
	inv := 1 / float64(n)
	for _, img := range f.Images {
		var cm colorm.ColorM
		cm.Scale(inv, inv, inv, inv)
		colorm.DrawImage(dst, img, cm, &colorm.DrawImageOptions{Blend: ebiten.BlendLighter})
	}
	return Frames{Images: []*ebiten.Image{dst}, Durations: []float64{0}}
}

// Blit draws Art onto every frame at Pos. Frame i receives Art's frame i
// modulo its length.
type Blit struct {
	Art *Art
	Pos Vec2
}

func (t Blit) Apply(f Frames) Frames {
	out := f
	out.Images = make([]*ebiten.Image, len(f.Images))
	for i, img := range f.Images {
		dst := copyImage(img)
		drawAt(dst, t.Art.imageAt(i), t.Pos.X, t.Pos.Y)
		out.Images[i] = dst
	}
	out.Durations = append([]float64(nil), f.Durations...)
	return out
}

// --- Color ---

// colorTransform draws every frame through a color matrix.
func colorTransform(f Frames, cm colorm.ColorM) Frames {
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		w, h := imageSize(img)
		dst := newImage(int(w), int(h))
		colorm.DrawImage(dst, img, cm, &colorm.DrawImageOptions{})
		return dst
	})
}

// SetAlpha scales every frame's opacity.
type SetAlpha struct{ Alpha float64 }

func (t SetAlpha) Apply(f Frames) Frames {
	var cm colorm.ColorM
	cm.Scale(1, 1, 1, clamp01(t.Alpha))
	return colorTransform(f, cm)
}

// Grayscale removes every hue.
type Grayscale struct{}

func (Grayscale) Apply(f Frames) Frames {
	var cm colorm.ColorM
	cm.ChangeHSV(0, 0, 1)
	return colorTransform(f, cm)
}

// Desaturate scales saturation toward zero by Factor in [0, 1].
type Desaturate struct{ Factor float64 }

func (t Desaturate) Apply(f Frames) Frames {
	var cm colorm.ColorM
	cm.ChangeHSV(0, 1-clamp01(t.Factor), 1)
	return colorTransform(f, cm)
}

// Saturate scales saturation up by Factor.
type Saturate struct{ Factor float64 }

func (t Saturate) Apply(f Frames) Frames {
	var cm colorm.ColorM
	cm.ChangeHSV(0, 1+math.Max(0, t.Factor), 1)
	return colorTransform(f, cm)
}

// Darken moves every channel toward black by Factor in [0, 1].
type Darken struct{ Factor float64 }

func (t Darken) Apply(f Frames) Frames {
	k := 1 - clamp01(t.Factor)
	var cm colorm.ColorM
	cm.Scale(k, k, k, 1)
	return colorTransform(f, cm)
}

// Lighten moves every channel toward white by Factor in [0, 1].
type Lighten struct{ Factor float64 }

func (t Lighten) Apply(f Frames) Frames {
	m := clamp01(t.Factor)
	var cm colorm.ColorM
	cm.Scale(1-m, 1-m, 1-m, 1)
	cm.Translate(m, m, m, 0)
	return colorTransform(f, cm)
}

// Invert replaces every channel c by 1-c.
type Invert struct{}

func (Invert) Apply(f Frames) Frames {
	var cm colorm.ColorM
	cm.Scale(-1, -1, -1, 1)
	cm.Translate(1, 1, 1, 0)
	return colorTransform(f, cm)
}

// Contrast scales channels around mid-gray. 1 is neutral, 0 is flat gray.
type Contrast struct{ Factor float64 }

func (t Contrast) Apply(f Frames) Frames {
	c := t.Factor
	o := (1 - c) / 2
	var cm colorm.ColorM
	cm.Scale(c, c, c, 1)
	cm.Translate(o, o, o, 0)
	return colorTransform(f, cm)
}

// Brightness offsets every channel by Offset in [-1, 1].
type Brightness struct{ Offset float64 }

func (t Brightness) Apply(f Frames) Frames {
	var cm colorm.ColorM
	cm.Translate(t.Offset, t.Offset, t.Offset, 0)
	return colorTransform(f, cm)
}

// Gamma raises every channel to 1/Gamma.
type Gamma struct{ Gamma float64 }

func (t Gamma) Apply(f Frames) Frames {
	if t.Gamma <= 0 {
		return f
	}
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		w, h := imageSize(img)
		dst := newImage(int(w), int(h))
		applyGamma(copyImage(img), dst, t.Gamma)
		return dst
	})
}

// --- Drawing ---

// drawOnFrames runs paint over a copy of every frame.
func drawOnFrames(f Frames, paint func(dst *ebiten.Image)) Frames {
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		dst := copyImage(img)
		paint(dst)
		return dst
	})
}

// DrawRectangle draws a rectangle. Thickness 0 fills it.
type DrawRectangle struct {
	Color     Color
	Rect      Rect
	Thickness float64
	Antialias bool
}

func (t DrawRectangle) Apply(f Frames) Frames {
	r := t.Rect
	return drawOnFrames(f, func(dst *ebiten.Image) {
		if t.Thickness <= 0 {
			vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), t.Color, t.Antialias)
			return
		}
		vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), float32(t.Thickness), t.Color, t.Antialias)
	})
}

// DrawCircle draws a circle. Thickness 0 fills it.
type DrawCircle struct {
	Color     Color
	Center    Vec2
	Radius    float64
	Thickness float64
	Antialias bool
}

func (t DrawCircle) Apply(f Frames) Frames {
	cx, cy, r := float32(t.Center.X), float32(t.Center.Y), float32(t.Radius)
	return drawOnFrames(f, func(dst *ebiten.Image) {
		if t.Thickness <= 0 {
			vector.DrawFilledCircle(dst, cx, cy, r, t.Color, t.Antialias)
			return
		}
		vector.StrokeCircle(dst, cx, cy, r, float32(t.Thickness), t.Color, t.Antialias)
	})
}

// DrawLine draws a segment.
type DrawLine struct {
	Color     Color
	From, To  Vec2
	Thickness float64
	Antialias bool
}

func (t DrawLine) Apply(f Frames) Frames {
	w := math.Max(t.Thickness, 1)
	return drawOnFrames(f, func(dst *ebiten.Image) {
		strokePolyline(dst, []Vec2{t.From, t.To}, w, t.Color, false, t.Antialias)
	})
}

// DrawPolygon draws a simple polygon. Thickness 0 fills it; concave
// polygons are triangulated with earcut.
type DrawPolygon struct {
	Color     Color
	Points    []Vec2
	Thickness float64
	Antialias bool
}

func (t DrawPolygon) Apply(f Frames) Frames {
	return drawOnFrames(f, func(dst *ebiten.Image) {
		if t.Thickness <= 0 {
			fillPolygon(dst, t.Points, t.Color, t.Antialias)
			return
		}
		strokePolyline(dst, t.Points, t.Thickness, t.Color, true, t.Antialias)
	})
}

// DrawArc strokes an elliptic arc inside Rect from Start to End radians.
type DrawArc struct {
	Color      Color
	Rect       Rect
	Start, End float64
	Thickness  float64
	Antialias  bool
}

func (t DrawArc) Apply(f Frames) Frames {
	pts := arcPoints(t.Rect.Center(), t.Rect.Width/2, t.Rect.Height/2, t.Start, t.End)
	w := math.Max(t.Thickness, 1)
	return drawOnFrames(f, func(dst *ebiten.Image) {
		strokePolyline(dst, pts, w, t.Color, false, t.Antialias)
	})
}

// DrawPie fills a circular sector from Start to End radians.
type DrawPie struct {
	Color      Color
	Center     Vec2
	Radius     float64
	Start, End float64
	Antialias  bool
}

func (t DrawPie) Apply(f Frames) Frames {
	pts := append([]Vec2{t.Center}, arcPoints(t.Center, t.Radius, t.Radius, t.Start, t.End)...)
	return drawOnFrames(f, func(dst *ebiten.Image) {
		v, i := buildPolygonFan(pts, t.Color)
		fillTriangles(dst, v, i, t.Antialias)
	})
}

// DrawBezier strokes a Bezier curve through the control Points.
type DrawBezier struct {
	Color     Color
	Points    []Vec2
	Steps     int
	Thickness float64
	Antialias bool
}

func (t DrawBezier) Apply(f Frames) Frames {
	pts := bezierPoints(t.Points, t.Steps)
	w := math.Max(t.Thickness, 1)
	return drawOnFrames(f, func(dst *ebiten.Image) {
		strokePolyline(dst, pts, w, t.Color, false, t.Antialias)
	})
}

// DrawRoundedRectangle draws a rectangle with rounded corners. Thickness 0
// fills it.
type DrawRoundedRectangle struct {
	Color     Color
	Rect      Rect
	Radius    float64
	Thickness float64
	Antialias bool
}

func (t DrawRoundedRectangle) Apply(f Frames) Frames {
	pts := roundedRectPoints(t.Rect, t.Radius)
	return drawOnFrames(f, func(dst *ebiten.Image) {
		if t.Thickness <= 0 {
			v, i := buildPolygonFan(pts, t.Color)
			fillTriangles(dst, v, i, t.Antialias)
			return
		}
		strokePolyline(dst, pts, t.Thickness, t.Color, true, t.Antialias)
	})
}

// DrawEllipse draws the ellipse inscribed in Rect. Thickness 0 fills it.
type DrawEllipse struct {
	Color     Color
	Rect      Rect
	Thickness float64
	Antialias bool
}

func (t DrawEllipse) Apply(f Frames) Frames {
	pts := arcPoints(t.Rect.Center(), t.Rect.Width/2, t.Rect.Height/2, 0, 2*math.Pi)
	return drawOnFrames(f, func(dst *ebiten.Image) {
		if t.Thickness <= 0 {
			v, i := buildPolygonFan(pts, t.Color)
			fillTriangles(dst, v, i, t.Antialias)
			return
		}
		strokePolyline(dst, pts, t.Thickness, t.Color, true, t.Antialias)
	})
}
