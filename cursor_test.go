package sprig

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"
)

const arrowXBM = `#define arrow_width 8
#define arrow_height 2
#define arrow_x_hot 3
#define arrow_y_hot 1
static unsigned char arrow_bits[] = {
   0x01, 0x80 };
`

func TestParseXBM(t *testing.T) {
	w, h, hot, bits, err := parseXBM([]byte(arrowXBM))
	if err != nil {
		t.Fatal(err)
	}
	if w != 8 || h != 2 || hot != (Vec2{3, 1}) {
		t.Errorf("header = %dx%d hot %v", w, h, hot)
	}
	if diff := cmp.Diff([]byte{0x01, 0x80}, bits); diff != "" {
		t.Errorf("bits (-want +got):\n%s", diff)
	}
}

func TestParseXBMErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no size", "static char x_bits[] = { 0x00 };"},
		{"short data", "#define x_width 16\n#define x_height 2\nstatic char x_bits[] = { 0x00, 0x01 };"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, _, err := parseXBM([]byte(tt.src)); !errors.Is(err, ErrResource) {
				t.Errorf("err = %v, want ErrResource", err)
			}
		})
	}
}

func TestNewCursorFromXBM(t *testing.T) {
	c, err := NewCursorFromXBM([]byte(arrowXBM), []byte(arrowXBM), ColorBlack, ColorWhite)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := imageSize(c.Image); w != 8 || h != 2 {
		t.Errorf("image size = %vx%v", w, h)
	}
	if c.Hotspot != (Vec2{3, 1}) {
		t.Errorf("Hotspot = %v", c.Hotspot)
	}

	wide := "#define m_width 16\n#define m_height 2\nstatic char m_bits[] = { 0x00, 0x00, 0x00, 0x00 };"
	if _, err := NewCursorFromXBM([]byte(arrowXBM), []byte(wide), ColorBlack, ColorWhite); !errors.Is(err, ErrResource) {
		t.Errorf("mismatched mask: %v, want ErrResource", err)
	}
}

func TestSystemCursorByName(t *testing.T) {
	c, err := SystemCursorByName("HAND")
	if err != nil {
		t.Fatal(err)
	}
	if c != SystemCursor(ebiten.CursorShapePointer) {
		t.Errorf("hand = %v, want the pointer shape", c)
	}
	if _, err := SystemCursorByName("spinner"); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown cursor: %v, want ErrConfig", err)
	}
}

func TestPremultiply(t *testing.T) {
	got := premultiply([]byte{255, 128, 0, 128, 10, 20, 30, 255})
	if diff := cmp.Diff([]byte{128, 64, 0, 128, 10, 20, 30, 255}, got); diff != "" {
		t.Errorf("premultiply (-want +got):\n%s", diff)
	}
}
