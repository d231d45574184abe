package sprig

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasRegion describes a sub-rectangle within an atlas page.
type AtlasRegion struct {
	Page      int // atlas page index
	X, Y      int // top-left corner of the packed rect within the page
	Width     int // packed width (may differ from OriginalW if trimmed)
	Height    int // packed height (may differ from OriginalH if trimmed)
	OriginalW int // untrimmed sprite width as authored
	OriginalH int // untrimmed sprite height as authored
	OffsetX   int // horizontal trim offset from TexturePacker
	OffsetY   int // vertical trim offset from TexturePacker
	Rotated   bool
}

// Atlas holds one or more page images and a map of named regions.
type Atlas struct {
	// Pages contains the page images indexed by page number.
	Pages   []*ebiten.Image
	regions map[string]AtlasRegion
	// images lists the page file names declared by the JSON.
	images []string
}

// Region returns the region called name.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Names returns every region name in sorted order.
func (a *Atlas) Names() []string {
	out := make([]string, 0, len(a.regions))
	for n := range a.regions {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Image returns the untrimmed image of region name as a fresh image.
func (a *Atlas) Image(name string) (*ebiten.Image, error) {
	r, ok := a.regions[name]
	if !ok {
		return nil, fmt.Errorf("atlas region %q not found", name)
	}
	if r.Page < 0 || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		return nil, fmt.Errorf("atlas region %q: page %d not loaded", name, r.Page)
	}
	page := a.Pages[r.Page]
	pw, ph := r.Width, r.Height
	if r.Rotated {
		pw, ph = ph, pw
	}
	sub := page.SubImage(image.Rect(r.X, r.Y, r.X+pw, r.Y+ph)).(*ebiten.Image)
	w, h := max(r.OriginalW, r.Width), max(r.OriginalH, r.Height)
	dst := newImage(w, h)
	op := &ebiten.DrawImageOptions{}
	if r.Rotated {
		// Stored 90 degrees clockwise.
		op.GeoM.Rotate(-math.Pi / 2)
		op.GeoM.Translate(0, float64(pw))
	}
	op.GeoM.Translate(float64(r.OffsetX), float64(r.OffsetY))
	dst.DrawImage(sub, op)
	return dst, nil
}

// NewArtFromAtlas builds an animation from the named regions, loaded lazily.
func NewArtFromAtlas(a *Atlas, names []string, durations []float64, introduction int) *Art {
	ns := append([]string(nil), names...)
	durs := append([]float64(nil), durations...)
	return newSourceArt("atlas:"+strings.Join(ns, ","), func() (Frames, error) {
		f := Frames{Durations: append([]float64(nil), durs...), Introduction: introduction}
		for _, n := range ns {
			img, err := a.Image(n)
			if err != nil {
				return Frames{}, err
			}
			f.Images = append(f.Images, img)
		}
		return f, nil
	})
}

// LoadAtlasFile reads a TexturePacker JSON file and the page images it
// names, resolved relative to the JSON file.
func LoadAtlasFile(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, resourceError("atlas "+path, err)
	}
	a, err := LoadAtlas(data, nil)
	if err != nil {
		return nil, resourceError("atlas "+path, err)
	}
	dir := filepath.Dir(path)
	for _, name := range a.images {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, resourceError("atlas page "+name, err)
		}
		a.Pages = append(a.Pages, img)
	}
	return a, nil
}

// LoadAtlas parses TexturePacker JSON data and associates the given page images.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists).
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("sprig: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]AtlasRegion),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
		if probe.Meta.Image != "" {
			atlas.images = []string{probe.Meta.Image}
		}
	default:
		return nil, fmt.Errorf("sprig: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("sprig: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.regions[name] = frameToRegion(f, page)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("sprig: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		atlas.images = append(atlas.images, tex.Image)
		for name, f := range tex.Frames {
			atlas.regions[name] = frameToRegion(f, i)
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page int) AtlasRegion {
	r := AtlasRegion{
		Page:      page,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		Width:     f.Frame.W,
		Height:    f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		OffsetX:   f.SpriteSourceSize.X,
		OffsetY:   f.SpriteSourceSize.Y,
		Rotated:   f.Rotated,
	}
	if r.OriginalW == 0 {
		r.OriginalW = r.Width
	}
	if r.OriginalH == 0 {
		r.OriginalH = r.Height
	}
	return r
}
