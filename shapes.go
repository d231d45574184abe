package sprig

import (
	"image/color"
	"math"

	"github.com/flywave/go-earcut"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Untextured triangles sample it.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// buildPolygonFan builds a fan triangulation with vertex 0 as the hub.
// Valid for convex polygons and for shapes star-shaped around vertex 0.
func buildPolygonFan(points []Vec2, c Color) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 3 {
		return nil, nil
	}
	verts := makeVertices(points, c)
	inds := make([]uint16, (n-2)*3)
	for i := 0; i < n-2; i++ {
		inds[i*3+0] = 0
		inds[i*3+1] = uint16(i + 1)
		inds[i*3+2] = uint16(i + 2)
	}
	return verts, inds
}

// buildPolygonEarcut triangulates an arbitrary simple polygon.
func buildPolygonEarcut(points []Vec2, c Color) ([]ebiten.Vertex, []uint16) {
	if len(points) < 3 {
		return nil, nil
	}
	flat := make([]float64, 0, 2*len(points))
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
	}
	tri, err := earcut.Earcut(flat, nil, 2)
	if err != nil || len(tri) == 0 {
		return buildPolygonFan(points, c)
	}
	inds := make([]uint16, len(tri))
	for i, v := range tri {
		inds[i] = uint16(v)
	}
	return makeVertices(points, c), inds
}

func makeVertices(points []Vec2, c Color) []ebiten.Vertex {
	verts := make([]ebiten.Vertex, len(points))
	for i, p := range points {
		v := &verts[i]
		v.DstX = float32(p.X)
		v.DstY = float32(p.Y)
		// Untextured: map to center of white pixel (0.5, 0.5)
		v.SrcX = 0.5
		v.SrcY = 0.5
		v.ColorR = float32(c.R)
		v.ColorG = float32(c.G)
		v.ColorB = float32(c.B)
		v.ColorA = float32(c.A)
	}
	return verts
}

func fillTriangles(dst *ebiten.Image, verts []ebiten.Vertex, inds []uint16, antialias bool) {
	if len(inds) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: antialias}
	dst.DrawTriangles(verts, inds, ensureWhitePixel(), op)
}

// fillPolygon fills a simple polygon. Convex input takes the fan path.
func fillPolygon(dst *ebiten.Image, points []Vec2, c Color, antialias bool) {
	var verts []ebiten.Vertex
	var inds []uint16
	if isConvex(points) {
		verts, inds = buildPolygonFan(points, c)
	} else {
		verts, inds = buildPolygonEarcut(points, c)
	}
	fillTriangles(dst, verts, inds, antialias)
}

// strokePolyline draws connected segments; closed joins the last point to
// the first.
func strokePolyline(dst *ebiten.Image, points []Vec2, width float64, c Color, closed, antialias bool) {
	n := len(points)
	if n < 2 {
		return
	}
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		a, b := points[i], points[(i+1)%n]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), c, antialias)
	}
}

func isConvex(points []Vec2) bool {
	n := len(points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a, b, c := points[i], points[(i+1)%n], points[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// arcPoints samples an arc from start to end (radians, clockwise on screen).
func arcPoints(center Vec2, rx, ry, start, end float64) []Vec2 {
	span := end - start
	segs := max(int(math.Ceil(math.Abs(span)*max(rx, ry)/4)), 8)
	pts := make([]Vec2, 0, segs+1)
	for i := 0; i <= segs; i++ {
		t := start + span*float64(i)/float64(segs)
		pts = append(pts, Vec2{center.X + rx*math.Cos(t), center.Y + ry*math.Sin(t)})
	}
	return pts
}

// bezierPoints samples a Bezier curve of any degree with de Casteljau.
func bezierPoints(ctrl []Vec2, steps int) []Vec2 {
	if len(ctrl) < 2 {
		return append([]Vec2(nil), ctrl...)
	}
	if steps < 2 {
		steps = 32
	}
	out := make([]Vec2, 0, steps+1)
	tmp := make([]Vec2, len(ctrl))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		copy(tmp, ctrl)
		for k := len(tmp) - 1; k > 0; k-- {
			for j := 0; j < k; j++ {
				tmp[j] = Vec2{tmp[j].X + (tmp[j+1].X-tmp[j].X)*t, tmp[j].Y + (tmp[j+1].Y-tmp[j].Y)*t}
			}
		}
		out = append(out, tmp[0])
	}
	return out
}

// roundedRectPoints walks the outline of r with corner radius rad.
func roundedRectPoints(r Rect, rad float64) []Vec2 {
	rad = math.Min(rad, math.Min(r.Width, r.Height)/2)
	if rad <= 0 {
		return []Vec2{{r.X, r.Y}, {r.X + r.Width, r.Y}, {r.X + r.Width, r.Y + r.Height}, {r.X, r.Y + r.Height}}
	}
	var pts []Vec2
	corners := []struct {
		c     Vec2
		start float64
	}{
		{Vec2{r.X + r.Width - rad, r.Y + rad}, -math.Pi / 2},
		{Vec2{r.X + r.Width - rad, r.Y + r.Height - rad}, 0},
		{Vec2{r.X + rad, r.Y + r.Height - rad}, math.Pi / 2},
		{Vec2{r.X + rad, r.Y + rad}, math.Pi},
	}
	for _, k := range corners {
		pts = append(pts, arcPoints(k.c, rad, rad, k.start, k.start+math.Pi/2)...)
	}
	return pts
}
