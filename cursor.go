package sprig

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Cursor is a mouse cursor: a system shape or an image drawn by the runnable.
type Cursor interface {
	apply()
}

// SystemCursor is one of the platform cursor shapes.
type SystemCursor ebiten.CursorShapeType

func (c SystemCursor) apply() {
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	ebiten.SetCursorShape(ebiten.CursorShapeType(c))
}

var systemCursorNames = map[string]ebiten.CursorShapeType{
	"default":     ebiten.CursorShapeDefault,
	"arrow":       ebiten.CursorShapeDefault,
	"text":        ebiten.CursorShapeText,
	"ibeam":       ebiten.CursorShapeText,
	"crosshair":   ebiten.CursorShapeCrosshair,
	"pointer":     ebiten.CursorShapePointer,
	"hand":        ebiten.CursorShapePointer,
	"ew-resize":   ebiten.CursorShapeEWResize,
	"ns-resize":   ebiten.CursorShapeNSResize,
	"nesw-resize": ebiten.CursorShapeNESWResize,
	"nwse-resize": ebiten.CursorShapeNWSEResize,
	"move":        ebiten.CursorShapeMove,
	"not-allowed": ebiten.CursorShapeNotAllowed,
}

// SystemCursorByName resolves names such as "arrow", "hand" or "ibeam".
func SystemCursorByName(name string) (SystemCursor, error) {
	shape, ok := systemCursorNames[strings.ToLower(name)]
	if !ok {
		return 0, configError("unknown cursor %q", name)
	}
	return SystemCursor(shape), nil
}

// ImageCursor hides the system cursor; the runnable draws Image with its
// Hotspot under the pointer.
type ImageCursor struct {
	Image   *ebiten.Image
	Hotspot Vec2
}

func (c *ImageCursor) apply() {
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
}

var (
	xbmDefine = regexp.MustCompile(`#define\s+\S*_(width|height|x_hot|y_hot)\s+(\d+)`)
	xbmByte   = regexp.MustCompile(`0[xX][0-9a-fA-F]{1,2}`)
)

// NewCursorFromXBM builds an ImageCursor from XBM bitmap source. Set bits
// are drawn with fg; when mask is non-nil, unset bits inside the mask are
// drawn with bg and the rest is transparent.
func NewCursorFromXBM(data, mask []byte, fg, bg Color) (*ImageCursor, error) {
	w, h, hot, bits, err := parseXBM(data)
	if err != nil {
		return nil, err
	}
	var maskBits []byte
	if mask != nil {
		mw, mh, _, mb, err := parseXBM(mask)
		if err != nil {
			return nil, err
		}
		if mw != w || mh != h {
			return nil, resourceError("xbm mask", fmt.Errorf("size %dx%d does not match %dx%d", mw, mh, w, h))
		}
		maskBits = mb
	}
	stride := (w + 7) / 8
	pix := make([]byte, 4*w*h)
	fgc, bgc := fg.toNRGBA(), bg.toNRGBA()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bit := bits[y*stride+x/8]>>(x%8)&1 == 1
			inMask := maskBits == nil || maskBits[y*stride+x/8]>>(x%8)&1 == 1
			i := 4 * (y*w + x)
			switch {
			case bit:
				pix[i], pix[i+1], pix[i+2], pix[i+3] = fgc.R, fgc.G, fgc.B, fgc.A
			case inMask && maskBits != nil:
				pix[i], pix[i+1], pix[i+2], pix[i+3] = bgc.R, bgc.G, bgc.B, bgc.A
			}
		}
	}
	img := newImage(w, h)
	img.WritePixels(premultiply(pix))
	return &ImageCursor{Image: img, Hotspot: hot}, nil
}

func parseXBM(data []byte) (w, h int, hot Vec2, bits []byte, err error) {
	for _, m := range xbmDefine.FindAllSubmatch(data, -1) {
		v, _ := strconv.Atoi(string(m[2]))
		switch string(m[1]) {
		case "width":
			w = v
		case "height":
			h = v
		case "x_hot":
			hot.X = float64(v)
		case "y_hot":
			hot.Y = float64(v)
		}
	}
	if w <= 0 || h <= 0 {
		return 0, 0, Vec2{}, nil, resourceError("xbm", fmt.Errorf("missing width or height"))
	}
	body := data
	if i := bytes.IndexByte(data, '{'); i >= 0 {
		body = data[i:]
	}
	for _, b := range xbmByte.FindAll(body, -1) {
		v, _ := strconv.ParseUint(string(b[2:]), 16, 8)
		bits = append(bits, byte(v))
	}
	if need := (w + 7) / 8 * h; len(bits) < need {
		return 0, 0, Vec2{}, nil, resourceError("xbm", fmt.Errorf("%d bytes of bitmap data, need %d", len(bits), need))
	}
	return w, h, hot, bits, nil
}

// premultiply converts straight-alpha RGBA bytes in place.
func premultiply(pix []byte) []byte {
	for i := 0; i < len(pix); i += 4 {
		a := uint16(pix[i+3])
		pix[i] = uint8(uint16(pix[i]) * a / 255)
		pix[i+1] = uint8(uint16(pix[i+1]) * a / 255)
		pix[i+2] = uint8(uint16(pix[i+2]) * a / 255)
	}
	return pix
}
