package sprig

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the FPS overlay redraws, in milliseconds.
const fpsRefresh = 500

// NewFPSWidget creates an element showing the current FPS and TPS. It sits
// on a high layer and redraws about twice a second.
func NewFPSWidget(m Master) *Element {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)
	art := NewArt([]*ebiten.Image{img}, nil, 0)
	art.Permanent = true
	e := NewDrawing(m, "fps", NewArts(art))
	e.layer = 1 << 20

	var sinceUpdate float64 = fpsRefresh
	e.OnUpdate = func(e *Element, dt float64, _ *Inputs) {
		sinceUpdate += dt
		if sinceUpdate < fpsRefresh {
			return
		}
		sinceUpdate = 0

		img.Clear()
		// Semi-transparent background for readability
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
		e.NotifyChange()
	}
	return e
}
