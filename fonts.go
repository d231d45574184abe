package sprig

// FontStyle selects a font file, a size in pixels and a color. An empty
// Name selects the default font.
type FontStyle struct {
	Name  string
	Size  float64
	Color Color
}

// DefaultFontStyle is 16px black in the default font.
var DefaultFontStyle = FontStyle{Size: 16, Color: ColorBlack}

// Fonts binds a FontStyle to each visual state. Normal is mandatory;
// missing states fall back to it.
type Fonts struct {
	styles [numStates]*FontStyle
}

// NewFonts creates a Fonts map with the mandatory Normal style.
func NewFonts(normal FontStyle) *Fonts {
	f := &Fonts{}
	f.styles[StateNormal] = &normal
	return f
}

// Add binds style to state.
func (f *Fonts) Add(state State, style FontStyle) *Fonts {
	if state >= numStates {
		invariant("fonts: unknown state %d", state)
	}
	f.styles[state] = &style
	return f
}

// Get returns the style for state, falling back to Normal.
func (f *Fonts) Get(state State) FontStyle {
	if state < numStates && f.styles[state] != nil {
		return *f.styles[state]
	}
	return *f.styles[StateNormal]
}
