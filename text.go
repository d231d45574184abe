package sprig

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Localizer returns the texts of a phase in a language, keyed by position.
type Localizer interface {
	Texts(language, phase string) (map[string]string, error)
}

// TextFormatter joins its segments with Separator. A segment is a string
// (a text position when localizing) or another TextFormatter.
type TextFormatter struct {
	Segments  []any
	Separator string
}

// Format builds a TextFormatter joined by sep.
func Format(sep string, segments ...any) TextFormatter {
	return TextFormatter{Segments: segments, Separator: sep}
}

// TextOptions control how the Typewriter lays out a render.
type TextOptions struct {
	Background Color
	Justify    Justify
	Localize   bool
	Wrap       bool
	MaxWidth   float64
}

type renderKey struct {
	text  string
	style FontStyle
	opts  TextOptions
}

// Typewriter resolves localized text, wraps and justifies it, and renders it
// with text/v2. Renders are memoized until ClearCache.
type Typewriter struct {
	// Antialias is recorded for parity with the settings file; text/v2
	// always antialiases glyphs.
	Antialias bool

	logger    *slog.Logger
	fontDir   string
	localizer Localizer
	language  string
	phase     string
	texts     map[string]string

	sources map[string]*text.GoTextFaceSource
	cache   map[renderKey]*ebiten.Image
}

// NewTypewriter creates a Typewriter reading fonts from fontDir
// (<fontDir>/<name>.ttf). loc may be nil.
func NewTypewriter(fontDir string, loc Localizer, logger *slog.Logger) *Typewriter {
	if logger == nil {
		logger = discardLogger()
	}
	return &Typewriter{
		Antialias: true,
		logger:    logger,
		fontDir:   fontDir,
		localizer: loc,
		sources:   make(map[string]*text.GoTextFaceSource),
		cache:     make(map[renderKey]*ebiten.Image),
		texts:     map[string]string{},
	}
}

// SetPhase loads the texts of phase in language.
func (tw *Typewriter) SetPhase(language, phase string) error {
	tw.language, tw.phase = language, phase
	tw.texts = map[string]string{}
	if tw.localizer == nil {
		return nil
	}
	texts, err := tw.localizer.Texts(language, phase)
	if err != nil {
		return resourceError(fmt.Sprintf("texts %s/%s", language, phase), err)
	}
	tw.texts = texts
	return nil
}

// Language returns the language of the loaded texts.
func (tw *Typewriter) Language() string { return tw.language }

// Resolve turns t into display text. Unknown positions pass through.
func (tw *Typewriter) Resolve(t any, localize bool) string {
	switch v := t.(type) {
	case nil:
		return ""
	case string:
		if localize {
			if s, ok := tw.texts[v]; ok {
				return s
			}
		}
		return v
	case TextFormatter:
		parts := make([]string, len(v.Segments))
		for i, seg := range v.Segments {
			parts[i] = tw.Resolve(seg, localize)
		}
		return strings.Join(parts, v.Separator)
	case *TextFormatter:
		return tw.Resolve(*v, localize)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// source returns the face source for name, falling back to the default font.
func (tw *Typewriter) source(name string) *text.GoTextFaceSource {
	if s, ok := tw.sources[name]; ok {
		return s
	}
	var src *text.GoTextFaceSource
	if name != "" {
		path := filepath.Join(tw.fontDir, name+".ttf")
		data, err := os.ReadFile(path)
		if err == nil {
			src, err = text.NewGoTextFaceSource(bytes.NewReader(data))
		}
		if err != nil {
			tw.logger.Warn("font fallback", "font", name, "path", path, "error", err)
		}
	}
	if src == nil {
		src = tw.defaultSource()
	}
	tw.sources[name] = src
	return src
}

func (tw *Typewriter) defaultSource() *text.GoTextFaceSource {
	if s, ok := tw.sources[""]; ok {
		return s
	}
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("sprig: failed to parse default font: " + err.Error())
	}
	tw.sources[""] = s
	return s
}

// Face returns the face for style.
func (tw *Typewriter) Face(style FontStyle) *text.GoTextFace {
	size := style.Size
	if size <= 0 {
		size = DefaultFontStyle.Size
	}
	return &text.GoTextFace{Source: tw.source(style.Name), Size: size}
}

// LineHeight returns the distance between baselines for style.
func (tw *Typewriter) LineHeight(style FontStyle) float64 {
	m := tw.Face(style).Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// Measure returns the size of s rendered on a single line.
func (tw *Typewriter) Measure(s string, style FontStyle) (w, h float64) {
	return text.Advance(s, tw.Face(style)), tw.LineHeight(style)
}

// Wrap splits s into lines no wider than maxWidth, breaking at spaces when
// possible. Explicit newlines are kept.
func (tw *Typewriter) Wrap(s string, style FontStyle, maxWidth float64) []string {
	face := tw.Face(style)
	width := func(x string) float64 { return text.Advance(x, face) }
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if maxWidth <= 0 {
			out = append(out, para)
			continue
		}
		out = append(out, wrapParagraph(para, maxWidth, width)...)
	}
	return out
}

// wrapParagraph breaks one paragraph greedily. Words wider than maxWidth
// are split between runes.
func wrapParagraph(para string, maxWidth float64, width func(string) float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if width(candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		for width(w) > maxWidth {
			cut := 0
			for i := range w {
				if i == 0 {
					continue
				}
				if width(w[:i]) > maxWidth {
					break
				}
				cut = i
			}
			if cut == 0 {
				_, cut = utf8.DecodeRuneInString(w)
			}
			if cut >= len(w) {
				break
			}
			lines = append(lines, w[:cut])
			w = w[cut:]
		}
		line = w
	}
	return append(lines, line)
}

// Render draws t with style. The result is cached until ClearCache and must
// not be drawn into by callers.
func (tw *Typewriter) Render(t any, style FontStyle, opts TextOptions) *ebiten.Image {
	s := tw.Resolve(t, opts.Localize)
	key := renderKey{text: s, style: style, opts: opts}
	if img, ok := tw.cache[key]; ok {
		return img
	}

	var lines []string
	if opts.Wrap && opts.MaxWidth > 0 {
		lines = tw.Wrap(s, style, opts.MaxWidth)
	} else {
		lines = strings.Split(s, "\n")
	}
	face := tw.Face(style)
	lh := tw.LineHeight(style)
	widths := make([]float64, len(lines))
	var w float64
	for i, l := range lines {
		widths[i] = text.Advance(l, face)
		w = math.Max(w, widths[i])
	}
	if opts.Wrap && opts.MaxWidth > 0 && opts.Justify != JustifyLeft {
		w = math.Max(w, opts.MaxWidth)
	}

	img := newImage(ceilInt(w), ceilInt(lh*float64(len(lines))))
	if opts.Background.A > 0 {
		img.Fill(opts.Background)
	}
	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(opts.Justify.factor()*(w-widths[i]), float64(i)*lh)
		op.ColorScale.ScaleWithColor(style.Color)
		text.Draw(img, l, face, op)
	}
	tw.cache[key] = img
	return img
}

// ClearCache forgets every memoized render.
func (tw *Typewriter) ClearCache() {
	clear(tw.cache)
}
