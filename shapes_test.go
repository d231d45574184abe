package sprig

import (
	"math"
	"testing"
)

var lShape = []Vec2{{0, 0}, {20, 0}, {20, 10}, {10, 10}, {10, 20}, {0, 20}}

func TestIsConvex(t *testing.T) {
	tests := []struct {
		name   string
		points []Vec2
		want   bool
	}{
		{"square", []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, true},
		{"counter-clockwise triangle", []Vec2{{0, 0}, {0, 10}, {10, 0}}, true},
		{"l shape", lShape, false},
		{"segment", []Vec2{{0, 0}, {1, 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConvex(tt.points); got != tt.want {
				t.Errorf("isConvex = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonTriangulation(t *testing.T) {
	verts, inds := buildPolygonEarcut(lShape, ColorWhite)
	if len(verts) != len(lShape) {
		t.Fatalf("vertices = %d, want %d", len(verts), len(lShape))
	}
	if len(inds) != (len(lShape)-2)*3 {
		t.Fatalf("indices = %d, want %d", len(inds), (len(lShape)-2)*3)
	}
	// The triangles must cover the L exactly: 300 square units.
	var area float64
	for i := 0; i < len(inds); i += 3 {
		a, b, c := lShape[inds[i]], lShape[inds[i+1]], lShape[inds[i+2]]
		area += math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
	}
	if area != 300 {
		t.Errorf("triangulated area = %v, want 300", area)
	}

	_, fan := buildPolygonFan([]Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, ColorWhite)
	if len(fan) != 6 || fan[3] != 0 || fan[5] != 3 {
		t.Errorf("fan indices = %v", fan)
	}
	if v, i := buildPolygonEarcut(lShape[:2], ColorWhite); v != nil || i != nil {
		t.Error("degenerate polygon produced triangles")
	}
}

func TestCurveSampling(t *testing.T) {
	arc := arcPoints(Vec2{0, 0}, 1, 1, 0, math.Pi/2)
	if len(arc) != 9 {
		t.Errorf("small arc has %d points, want the 8-segment minimum", len(arc))
	}
	if end := arc[len(arc)-1]; math.Abs(end.X) > 1e-9 || math.Abs(end.Y-1) > 1e-9 {
		t.Errorf("arc ends at %v, want (0, 1)", end)
	}

	curve := bezierPoints([]Vec2{{0, 0}, {10, 20}, {20, 0}}, 4)
	if len(curve) != 5 || curve[0] != (Vec2{0, 0}) || curve[4] != (Vec2{20, 0}) {
		t.Fatalf("curve = %v", curve)
	}
	if curve[2] != (Vec2{10, 10}) {
		t.Errorf("midpoint = %v, want (10, 10)", curve[2])
	}

	if pts := roundedRectPoints(Rect{0, 0, 10, 4}, 0); len(pts) != 4 {
		t.Errorf("square corners = %d points", len(pts))
	}
	for _, p := range roundedRectPoints(Rect{0, 0, 10, 4}, 50) {
		if p.X < -1e-9 || p.X > 10+1e-9 || p.Y < -1e-9 || p.Y > 4+1e-9 {
			t.Fatalf("rounded outline leaves the rect at %v", p)
		}
	}
}

func TestFPSWidget(t *testing.T) {
	ctx := NewContext(200, 200)
	p := NewPhase(ctx, "debug")
	e := NewFPSWidget(p)
	if w, h := e.Size(); w != 100 || h != 32 {
		t.Errorf("size = %vx%v", w, h)
	}
	if e.Layer() <= 0 {
		t.Errorf("layer = %d, want it above the scene", e.Layer())
	}
	if !e.Arts().Normal().Permanent {
		t.Error("overlay art is unloaded between phases")
	}
}
