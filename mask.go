package sprig

import (
	"fmt"
	"image"
	"math"
	"os"
)

// Mask is a single-channel matrix of values in [0, 1]. Camera effects scale
// their strength by it and hitboxes accept points where it is nonzero.
type Mask struct {
	W, H int
	data []float64
}

// NewMask returns a w x h mask filled with v.
func NewMask(w, h int, v float64) *Mask {
	m := &Mask{W: w, H: h, data: make([]float64, w*h)}
	if v != 0 {
		v = clamp01(v)
		for i := range m.data {
			m.data[i] = v
		}
	}
	return m
}

// At returns the value at (x, y). Points outside the mask read 0.
func (m *Mask) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.data[y*m.W+x]
}

// Set stores v, clamped to [0, 1], at (x, y).
func (m *Mask) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.data[y*m.W+x] = clamp01(v)
}

// Not returns the complement 1-m.
func (m *Mask) Not() *Mask {
	out := &Mask{W: m.W, H: m.H, data: make([]float64, len(m.data))}
	for i, v := range m.data {
		out.data[i] = 1 - v
	}
	return out
}

// NewCircleMask is 0 inside the circle (distance <= radius) and 1 outside.
func NewCircleMask(w, h int, center Vec2, radius float64) *Mask {
	m := NewMask(w, h, 0)
	r2 := radius * radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-center.X, float64(y)-center.Y
			if dx*dx+dy*dy > r2 {
				m.data[y*w+x] = 1
			}
		}
	}
	return m
}

// NewRectangleMask is 0 inside r (edges included) and 1 outside.
func NewRectangleMask(w, h int, r Rect) *Mask {
	m := NewMask(w, h, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !r.Contains(float64(x), float64(y)) {
				m.data[y*w+x] = 1
			}
		}
	}
	return m
}

// NewGradientMask is 0 within inner of center, 1 beyond outer, and linear
// in between.
func NewGradientMask(w, h int, center Vec2, inner, outer float64) *Mask {
	m := NewMask(w, h, 0)
	span := outer - inner
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)-center.X, float64(y)-center.Y)
			var v float64
			switch {
			case d <= inner:
				v = 0
			case d >= outer || span <= 0:
				v = 1
			default:
				v = (d - inner) / span
			}
			m.data[y*w+x] = v
		}
	}
	return m
}

// NewMaskFromImage reads the alpha channel of img.
func NewMaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy(), 0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			m.data[(y-b.Min.Y)*m.W+(x-b.Min.X)] = float64(a) / 0xffff
		}
	}
	return m
}

// LoadMask decodes an image file into a mask.
func LoadMask(path string) (*Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, resourceError("mask "+path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, resourceError("mask "+path, fmt.Errorf("decode: %w", err))
	}
	return NewMaskFromImage(img), nil
}
