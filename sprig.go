package sprig

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is opaque white.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is opaque black.
	ColorBlack = Color{0, 0, 0, 1}
	// ColorTransparent is the zero color; used as "no background".
	ColorTransparent = Color{}
)

// RGB builds an opaque Color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// RGBA implements color.Color (premultiplied, 16-bit).
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.toNRGBA().RGBA()
}

func (c Color) toNRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, anchors, sizes and ratios.
type Vec2 struct {
	X, Y float64
}

// Anchors commonly passed to Place and Cell.
var (
	AnchorTopLeft     = Vec2{0, 0}
	AnchorTop         = Vec2{0.5, 0}
	AnchorTopRight    = Vec2{1, 0}
	AnchorLeft        = Vec2{0, 0.5}
	AnchorCenter      = Vec2{0.5, 0.5}
	AnchorRight       = Vec2{1, 0.5}
	AnchorBottomLeft  = Vec2{0, 1}
	AnchorBottom      = Vec2{0.5, 1}
	AnchorBottomRight = Vec2{1, 1}
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersect returns the overlap of r and other, empty when they are apart.
func (r Rect) Intersect(other Rect) Rect {
	x0, y0 := max(r.X, other.X), max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 < x0 || y1 < y0 {
		return Rect{}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// TopLeft returns the rectangle origin.
func (r Rect) TopLeft() Vec2 { return Vec2{r.X, r.Y} }

// Center returns the rectangle center.
func (r Rect) Center() Vec2 { return Vec2{r.X + r.Width/2, r.Y + r.Height/2} }

// Justify controls horizontal placement of text lines.
type Justify uint8

const (
	JustifyLeft   Justify = iota // lines start at the left edge (default)
	JustifyCenter                // lines are centered
	JustifyRight                 // lines end at the right edge
)

// factor returns the fraction of free space placed before a line.
func (j Justify) factor() float64 {
	switch j {
	case JustifyCenter:
		return 0.5
	case JustifyRight:
		return 1
	default:
		return 0
	}
}

func ceilInt(v float64) int {
	return int(math.Ceil(v - 1e-9))
}
