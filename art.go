package sprig

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg" // decoder registration for NewArtFromFile
	_ "image/png"  // decoder registration for NewArtFromFile
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Frames is the value every Transformation maps. Durations are in
// milliseconds; a duration <= 0 holds its frame forever. The first
// Introduction frames are played once and skipped on wrap.
type Frames struct {
	Images       []*ebiten.Image
	Durations    []float64
	Introduction int
	Index        int
	Width        int
	Height       int
}

// Len returns the number of frames.
func (f Frames) Len() int { return len(f.Images) }

// measure recomputes Width and Height as the largest frame bounds.
func (f *Frames) measure() {
	f.Width, f.Height = 0, 0
	for _, img := range f.Images {
		b := img.Bounds()
		f.Width = max(f.Width, b.Dx())
		f.Height = max(f.Height, b.Dy())
	}
}

// normalize clamps the bookkeeping fields after a transformation.
func (f *Frames) normalize() {
	n := len(f.Images)
	for len(f.Durations) < n {
		f.Durations = append(f.Durations, 0)
	}
	f.Durations = f.Durations[:n]
	if f.Introduction < 0 || n == 0 {
		f.Introduction = 0
	}
	if n > 0 && f.Introduction >= n {
		f.Introduction = n - 1
	}
	if f.Index < 0 || f.Index >= n {
		f.Index = 0
	}
	f.measure()
}

// Art is an animated image source. The frames are produced lazily by a
// source function, run through the queued transformations, and kept until
// Unload. Permanent arts survive Unload; LoadOnStart arts are loaded when
// their phase starts.
type Art struct {
	// Permanent arts are never unloaded.
	Permanent bool
	// LoadOnStart arts are loaded eagerly by Start.
	LoadOnStart bool

	name       string
	source     func() (Frames, error)
	transforms []Transformation
	frames     Frames
	loaded     bool
	elapsed    float64
}

// NewArt wraps in-memory frames. durations may be shorter than images;
// missing entries hold their frame.
func NewArt(images []*ebiten.Image, durations []float64, introduction int) *Art {
	imgs := append([]*ebiten.Image(nil), images...)
	durs := append([]float64(nil), durations...)
	return newSourceArt("memory", func() (Frames, error) {
		return Frames{
			Images:       append([]*ebiten.Image(nil), imgs...),
			Durations:    append([]float64(nil), durs...),
			Introduction: introduction,
		}, nil
	})
}

// NewEmptyArt returns a single transparent frame of the given size.
func NewEmptyArt(width, height int) *Art {
	return newSourceArt("empty", func() (Frames, error) {
		return Frames{Images: []*ebiten.Image{ebiten.NewImage(max(width, 1), max(height, 1))}}, nil
	})
}

// NewRectangleArt returns a single frame filled with c.
func NewRectangleArt(width, height int, c Color) *Art {
	a := NewEmptyArt(width, height)
	a.name = "rectangle"
	return a.Transform(DrawRectangle{Color: c, Rect: Rect{0, 0, float64(width), float64(height)}})
}

// NewCircleArt returns a single frame holding a filled circle.
func NewCircleArt(radius int, c Color) *Art {
	a := NewEmptyArt(2*radius, 2*radius)
	a.name = "circle"
	r := float64(radius)
	return a.Transform(DrawCircle{Color: c, Center: Vec2{r, r}, Radius: r})
}

// NewArtFromFile loads an image file lazily. GIF files become animations
// using their per-frame delays.
func NewArtFromFile(path string) *Art {
	return newSourceArt(path, func() (Frames, error) {
		if strings.EqualFold(filepath.Ext(path), ".gif") {
			return loadGIF(path)
		}
		img, err := loadImage(path)
		if err != nil {
			return Frames{}, err
		}
		return Frames{Images: []*ebiten.Image{img}}, nil
	})
}

func newSourceArt(name string, src func() (Frames, error)) *Art {
	return &Art{name: name, source: src}
}

func loadImage(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

func loadGIF(path string) (Frames, error) {
	f, err := os.Open(path)
	if err != nil {
		return Frames{}, err
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		return Frames{}, fmt.Errorf("decode %s: %w", path, err)
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	canvas := image.NewRGBA(bounds)
	out := Frames{}
	for i, pal := range g.Image {
		prev := image.NewRGBA(bounds)
		copy(prev.Pix, canvas.Pix)
		draw.Draw(canvas, pal.Bounds(), pal, pal.Bounds().Min, draw.Over)
		out.Images = append(out.Images, ebiten.NewImageFromImage(canvas))
		out.Durations = append(out.Durations, float64(g.Delay[i])*10)
		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvas, pal.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				canvas = prev
			}
		}
	}
	return out, nil
}

// Name returns the art's source description.
func (a *Art) Name() string { return a.name }

// Transform queues transformations. They are applied on every load, and
// immediately when the art is already loaded.
func (a *Art) Transform(t ...Transformation) *Art {
	a.transforms = append(a.transforms, t...)
	if a.loaded {
		for _, tr := range t {
			a.frames = applyTransformation(tr, a.frames)
		}
	}
	return a
}

// Load produces the frames if they are not loaded yet.
func (a *Art) Load() error {
	if a.loaded {
		return nil
	}
	f, err := a.source()
	if err != nil {
		return resourceError(fmt.Sprintf("art %s", a.name), err)
	}
	f.normalize()
	for _, t := range a.transforms {
		f = applyTransformation(t, f)
	}
	a.frames = f
	a.loaded = true
	a.elapsed = 0
	return nil
}

// Unload drops the frames unless the art is permanent.
func (a *Art) Unload() {
	if a.Permanent || !a.loaded {
		return
	}
	a.frames = Frames{}
	a.loaded = false
	a.elapsed = 0
}

// Loaded reports whether frames are resident.
func (a *Art) Loaded() bool { return a.loaded }

// Start loads the art when LoadOnStart is set.
func (a *Art) Start() error {
	if a.LoadOnStart {
		return a.Load()
	}
	return nil
}

// End unloads the art unless it is permanent.
func (a *Art) End() { a.Unload() }

// mustLoad loads lazily from render paths, where failures are recovered by
// the runnable.
func (a *Art) mustLoad() {
	if err := a.Load(); err != nil {
		panic(err)
	}
}

// Frames returns a copy of the loaded frame record.
func (a *Art) Frames() Frames {
	a.mustLoad()
	f := a.frames
	f.Images = append([]*ebiten.Image(nil), f.Images...)
	f.Durations = append([]float64(nil), f.Durations...)
	return f
}

// Index returns the displayed frame index.
func (a *Art) Index() int { return a.frames.Index }

// Len returns the number of frames, loading if needed.
func (a *Art) Len() int {
	a.mustLoad()
	return len(a.frames.Images)
}

// Width returns the largest frame width, loading if needed.
func (a *Art) Width() int {
	a.mustLoad()
	return a.frames.Width
}

// Height returns the largest frame height, loading if needed.
func (a *Art) Height() int {
	a.mustLoad()
	return a.frames.Height
}

// SetIndex jumps to frame i and clears the elapsed counter.
func (a *Art) SetIndex(i int) {
	a.mustLoad()
	if n := len(a.frames.Images); n > 0 {
		a.frames.Index = ((i % n) + n) % n
	}
	a.elapsed = 0
}

// Reset rewinds to the first frame.
func (a *Art) Reset() {
	a.frames.Index = 0
	a.elapsed = 0
}

// Update advances the animation clock by dt milliseconds and reports
// whether the displayed frame changed.
func (a *Art) Update(dt float64) bool {
	a.mustLoad()
	f := &a.frames
	n := len(f.Images)
	if n <= 1 {
		return false
	}
	old := f.Index
	a.elapsed += dt
	for {
		d := f.Durations[f.Index]
		if d <= 0 || a.elapsed < d {
			break
		}
		a.elapsed -= d
		f.Index++
		if f.Index >= n {
			f.Index = f.Introduction
		}
	}
	return f.Index != old
}

// Image returns the current frame.
func (a *Art) Image() *ebiten.Image {
	a.mustLoad()
	if len(a.frames.Images) == 0 {
		return nil
	}
	return a.frames.Images[a.frames.Index]
}

// imageAt returns frame i modulo the frame count.
func (a *Art) imageAt(i int) *ebiten.Image {
	a.mustLoad()
	n := len(a.frames.Images)
	if n == 0 {
		return nil
	}
	return a.frames.Images[((i%n)+n)%n]
}
