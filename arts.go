package sprig

import "github.com/hajimehoshi/ebiten/v2"

// Arts binds an Art to each visual state. Normal is mandatory; states
// without an art fall back to it.
type Arts struct {
	arts              [numStates]*Art
	continueAnimation bool
}

// NewArts creates an Arts map with the mandatory Normal art.
func NewArts(normal *Art) *Arts {
	if normal == nil {
		invariant("arts: nil normal art")
	}
	a := &Arts{}
	a.arts[StateNormal] = normal
	return a
}

// Add binds art to state, replacing any previous binding.
func (a *Arts) Add(state State, art *Art) *Arts {
	if state >= numStates {
		invariant("arts: unknown state %d", state)
	}
	if state == StateNormal && art == nil {
		invariant("arts: nil normal art")
	}
	a.arts[state] = art
	return a
}

// SetContinueAnimation chooses whether the Normal clock drives every state.
// When on, state arts follow the Normal index and never reset.
func (a *Arts) SetContinueAnimation(on bool) *Arts {
	a.continueAnimation = on
	return a
}

// ContinueAnimation reports the continue_animation toggle.
func (a *Arts) ContinueAnimation() bool { return a.continueAnimation }

// Art returns the art bound to state without fallback.
func (a *Arts) Art(state State) *Art {
	if state >= numStates {
		return nil
	}
	return a.arts[state]
}

// Normal returns the mandatory Normal art.
func (a *Arts) Normal() *Art { return a.arts[StateNormal] }

// Update advances the animation for state by dt milliseconds and reports
// whether the displayed frame changed.
func (a *Arts) Update(dt float64, state State) bool {
	if a.continueAnimation || a.Art(state) == nil {
		return a.arts[StateNormal].Update(dt)
	}
	return a.arts[state].Update(dt)
}

// Get returns the current image for state. With continue_animation on, a
// state art shows the frame at the Normal index.
func (a *Arts) Get(state State) *ebiten.Image {
	normal := a.arts[StateNormal]
	art := a.Art(state)
	if art == nil {
		return normal.Image()
	}
	if a.continueAnimation {
		return art.imageAt(normal.Index())
	}
	return art.Image()
}

// Size returns the largest frame size over every bound art.
func (a *Arts) Size() (w, h int) {
	for _, art := range a.arts {
		if art == nil {
			continue
		}
		w = max(w, art.Width())
		h = max(h, art.Height())
	}
	return w, h
}

// NewState rewinds every art when continue_animation is off.
func (a *Arts) NewState() {
	if a.continueAnimation {
		return
	}
	for _, art := range a.arts {
		if art != nil && art.Loaded() {
			art.Reset()
		}
	}
}

// Start loads LoadOnStart arts, or every art when startAll is set.
func (a *Arts) Start(startAll bool) error {
	for _, art := range a.arts {
		if art == nil {
			continue
		}
		var err error
		if startAll {
			err = art.Load()
		} else {
			err = art.Start()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// End unloads every non-permanent art.
func (a *Arts) End() {
	for _, art := range a.arts {
		if art != nil {
			art.End()
		}
	}
}

func (a *Arts) each(fn func(*Art)) {
	for _, art := range a.arts {
		if art != nil {
			fn(art)
		}
	}
}
