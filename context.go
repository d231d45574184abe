package sprig

import (
	"log/slog"
	"path/filepath"
)

// Default timings and limits used when no configuration is supplied.
const (
	DefaultMaxFPS         = 60
	DefaultRepeatDelay    = 400.0 // ms
	DefaultRepeatInterval = 100.0 // ms
)

// Context carries everything phases and elements share: the logger,
// screen geometry, timings, typography, audio, and the element arena.
// It is created once and passed to every constructor.
type Context struct {
	Logger *slog.Logger

	ScreenWidth, ScreenHeight int
	MaxFPS                    int
	// RepeatDelay and RepeatInterval drive autorepeat, in milliseconds.
	RepeatDelay, RepeatInterval float64

	Language      string
	DefaultCursor Cursor
	// ImageDir is the asset root used by ImagePath.
	ImageDir string

	Typewriter *Typewriter
	Mixer      *Mixer
	Store      EntityStore

	elements arena
	cursor   Cursor
	stats    frameStats
}

// NewContext returns a Context for a screen of the given size with default
// timings, a discard logger and a Typewriter without localization.
func NewContext(screenWidth, screenHeight int) *Context {
	logger := discardLogger()
	return &Context{
		Logger:         logger,
		ScreenWidth:    screenWidth,
		ScreenHeight:   screenHeight,
		MaxFPS:         DefaultMaxFPS,
		RepeatDelay:    DefaultRepeatDelay,
		RepeatInterval: DefaultRepeatInterval,
		Language:       "en",
		DefaultCursor:  SystemCursor(0),
		ImageDir:       "assets/images",
		Typewriter:     NewTypewriter("assets/fonts", nil, logger),
		Mixer:          NewMixer(nil, logger),
	}
}

// SetLogger replaces the logger everywhere the context hands it out.
func (c *Context) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger()
	}
	c.Logger = l
	if c.Typewriter != nil {
		c.Typewriter.logger = l
	}
	if c.Mixer != nil {
		c.Mixer.logger = l
	}
}

// ImagePath resolves an image file name against ImageDir.
func (c *Context) ImagePath(name string) string {
	if c.ImageDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.ImageDir, name)
}

// Screen returns the screen rectangle.
func (c *Context) Screen() Rect {
	return Rect{0, 0, float64(c.ScreenWidth), float64(c.ScreenHeight)}
}

// Element resolves a handle, returning nil for stale handles.
func (c *Context) Element(h Handle) *Element {
	return c.elements.get(h)
}

// ElementCount returns the number of live elements.
func (c *Context) ElementCount() int { return c.elements.len() }

// Cursor returns the cursor chosen by the last hover update.
func (c *Context) Cursor() Cursor {
	if c.cursor == nil {
		return c.DefaultCursor
	}
	return c.cursor
}

func (c *Context) emit(ev InteractionEvent) {
	if c.Store != nil {
		c.Store.EmitEvent(ev)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
