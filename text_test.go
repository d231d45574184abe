package sprig

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type failingLocalizer struct{}

func (failingLocalizer) Texts(string, string) (map[string]string, error) {
	return nil, errors.New("no such table")
}

func TestResolve(t *testing.T) {
	tw := NewTypewriter("", mapLocalizer{"en/menu": {"title": "Welcome", "quit": "Quit"}}, nil)
	if err := tw.SetPhase("en", "menu"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		in       any
		localize bool
		want     string
	}{
		{"nil", nil, true, ""},
		{"position", "title", true, "Welcome"},
		{"position kept raw", "title", false, "title"},
		{"unknown position", "missing", true, "missing"},
		{"formatter", Format(" - ", "title", "v1"), true, "Welcome - v1"},
		{"nested formatter", &TextFormatter{Segments: []any{Format("/", "quit", "title"), "!"}}, true, "Quit/Welcome!"},
		{"stringer", StateHovered, true, StateHovered.String()},
		{"number", 42, true, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tw.Resolve(tt.in, tt.localize); got != tt.want {
				t.Errorf("Resolve(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
	if tw.Language() != "en" {
		t.Errorf("Language = %q", tw.Language())
	}
}

func TestSetPhaseSwapsTexts(t *testing.T) {
	tw := NewTypewriter("", mapLocalizer{
		"en/menu": {"title": "Welcome"},
		"fr/menu": {"title": "Bienvenue"},
	}, nil)
	tw.SetPhase("fr", "menu")
	if got := tw.Resolve("title", true); got != "Bienvenue" {
		t.Errorf("fr title = %q", got)
	}
	tw.SetPhase("en", "game")
	if got := tw.Resolve("title", true); got != "title" {
		t.Errorf("texts of the previous phase leaked: %q", got)
	}

	bad := NewTypewriter("", failingLocalizer{}, nil)
	if err := bad.SetPhase("en", "menu"); !errors.Is(err, ErrResource) {
		t.Errorf("SetPhase = %v, want ErrResource", err)
	}
}

func TestWrapParagraph(t *testing.T) {
	width := func(s string) float64 { return float64(len(s)) }
	tests := []struct {
		name     string
		para     string
		maxWidth float64
		want     []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"breaks at spaces", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"collapses spaces", "a   b", 10, []string{"a b"}},
		{"splits long words", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"long word after text", "hi abcdefg", 4, []string{"hi", "abcd", "efg"}},
		{"narrower than a rune", "ab", 0.5, []string{"a", "b"}},
		{"blank", "   ", 10, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapParagraph(tt.para, tt.maxWidth, width)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("wrapParagraph (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapKeepsNewlines(t *testing.T) {
	tw := NewTypewriter("", nil, nil)
	got := tw.Wrap("one\n\ntwo", DefaultFontStyle, 0)
	if diff := cmp.Diff([]string{"one", "", "two"}, got); diff != "" {
		t.Errorf("Wrap (-want +got):\n%s", diff)
	}
}

func TestRenderCache(t *testing.T) {
	tw := NewTypewriter("", nil, nil)
	opts := TextOptions{}
	a := tw.Render("hello", DefaultFontStyle, opts)
	if tw.Render("hello", DefaultFontStyle, opts) != a {
		t.Error("identical render not cached")
	}
	if tw.Render("hello", DefaultFontStyle, TextOptions{Justify: JustifyRight}) == a {
		t.Error("different options shared a render")
	}
	w, h := imageSize(a)
	mw, lh := tw.Measure("hello", DefaultFontStyle)
	if w != float64(ceilInt(mw)) || h != float64(ceilInt(lh)) {
		t.Errorf("render size %vx%v, measured %vx%v", w, h, mw, lh)
	}

	two := tw.Render("a\nb", DefaultFontStyle, opts)
	if _, h2 := imageSize(two); h2 != float64(ceilInt(2*lh)) {
		t.Errorf("two-line height = %v, want %v", h2, ceilInt(2*lh))
	}

	wrapped := tw.Render("x", DefaultFontStyle, TextOptions{Wrap: true, MaxWidth: 200, Justify: JustifyCenter})
	if w, _ := imageSize(wrapped); w != 200 {
		t.Errorf("justified wrap width = %v, want 200", w)
	}

	tw.ClearCache()
	if tw.Render("hello", DefaultFontStyle, opts) == a {
		t.Error("ClearCache kept the render")
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	tw := NewTypewriter(t.TempDir(), nil, logger)
	face := tw.Face(FontStyle{Name: "nope", Size: 12})
	if face.Source != tw.defaultSource() {
		t.Error("missing font did not fall back to the default source")
	}
	if face.Size != 12 {
		t.Errorf("face size = %v", face.Size)
	}
	if !strings.Contains(buf.String(), `"msg":"font fallback"`) {
		t.Errorf("no fallback warning logged: %s", buf.String())
	}
	buf.Reset()
	tw.Face(FontStyle{Name: "nope"})
	if buf.Len() != 0 {
		t.Error("fallback warned twice for the same font")
	}
	if tw.Face(FontStyle{}).Size != DefaultFontStyle.Size {
		t.Error("zero size did not use the default")
	}
}

func TestFontsFallback(t *testing.T) {
	red := FontStyle{Size: 20, Color: RGB(255, 0, 0)}
	f := NewFonts(DefaultFontStyle).Add(StateHovered, red)
	if f.Get(StateHovered) != red {
		t.Error("hovered style not used")
	}
	if f.Get(StateDisabled) != DefaultFontStyle {
		t.Error("missing state did not fall back to normal")
	}
	catchInvariant(t, func() { f.Add(numStates, red) })
}
