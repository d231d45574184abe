package sprig

import (
	"math"
	"testing"
)

func TestColorMatrices(t *testing.T) {
	id := IdentityColorMatrix()
	for i, v := range id {
		want := 0.0
		if i == 0 || i == 6 || i == 12 || i == 18 {
			want = 1
		}
		if v != want {
			t.Errorf("identity[%d] = %v, want %v", i, v, want)
		}
	}

	sepia := SepiaColorMatrix()
	// White maps to the sum of each row, clamped by the shader.
	rows := [3]float64{0.393 + 0.769 + 0.189, 0.349 + 0.686 + 0.168, 0.272 + 0.534 + 0.131}
	for r := 0; r < 3; r++ {
		sum := sepia[r*5] + sepia[r*5+1] + sepia[r*5+2]
		if math.Abs(sum-rows[r]) > 1e-9 {
			t.Errorf("row %d sum = %v, want %v", r, sum, rows[r])
		}
	}
	if sepia[18] != 1 {
		t.Error("sepia changes alpha")
	}
}

func TestColorMatrixKeepsFrames(t *testing.T) {
	f := Frames{Images: testImages(2, 6, 4), Durations: []float64{10, 20}, Introduction: 1}
	f.normalize()
	out := IdentityColorMatrix().Apply(f)
	if out.Len() != 2 || out.Width != 6 || out.Height != 4 || out.Introduction != 1 {
		t.Errorf("frames = %d of %dx%d intro %d", out.Len(), out.Width, out.Height, out.Introduction)
	}
	if out.Images[0] == f.Images[0] {
		t.Error("Apply drew into the source image")
	}
}
