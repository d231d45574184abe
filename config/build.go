package config

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phanxgames/sprig"
)

// Options customize Build.
type Options struct {
	// Localizer and Sounds back the Typewriter and the Mixer; either may be nil.
	Localizer sprig.Localizer
	Sounds    sprig.SoundCatalog
	// Logger replaces the file logger opened under data/logs.
	Logger *slog.Logger
	Debug  bool
}

// Game bundles the loaded files and the context built from them.
type Game struct {
	Paths    Paths
	Config   Config
	Settings *Settings
	State    *GameState
	Keymap   Keymap
	Context  *sprig.Context
	Logger   *slog.Logger

	closer io.Closer
}

// Build loads every data file under paths and assembles a sprig.Context:
// screen and timings from config.json, language, volumes and antialiasing
// from settings.json, and a keymap merging widget_keys, keymap.json and the
// player's controls.
func Build(paths Paths, opts Options) (*Game, error) {
	cfg, err := LoadConfig(paths.Config())
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	settings, err := LoadSettings(paths.Settings(), cfg)
	if err != nil {
		return nil, err
	}
	state, err := LoadGameState(paths.State())
	if err != nil {
		return nil, err
	}
	extra, err := LoadKeymap(paths.Keymap())
	if err != nil {
		return nil, err
	}

	g := &Game{
		Paths:    paths,
		Config:   cfg,
		Settings: settings,
		State:    state,
		Keymap:   Merge(cfg.WidgetKeys, extra, settings.Controls()),
		Logger:   opts.Logger,
	}
	if g.Logger == nil {
		logger, closer, err := NewLogger(paths.Logs(), opts.Debug)
		if err != nil {
			return nil, err
		}
		g.Logger, g.closer = logger, closer
	}

	ctx := sprig.NewContext(cfg.ScreenWidth, cfg.ScreenHeight)
	ctx.MaxFPS = cfg.MaxFrameRate
	ctx.RepeatDelay = cfg.RepeatDelay
	ctx.RepeatInterval = cfg.RepeatInterval
	ctx.Language = settings.Language()
	ctx.ImageDir = paths.Images()
	ctx.Typewriter = sprig.NewTypewriter(paths.Fonts(), opts.Localizer, g.Logger)
	ctx.Typewriter.Antialias = settings.Antialias()

	mixer := sprig.NewMixer(opts.Sounds, g.Logger)
	mixer.SoundDir, mixer.MusicDir = paths.Sounds(), paths.Musics()
	mixer.SetMainVolume(settings.MainVolume())
	mixer.SetMusicVolume(settings.MusicVolume())
	for cat, v := range settings.SoundVolumes() {
		mixer.SetSoundVolume(cat, v)
	}
	ctx.Mixer = mixer
	ctx.SetLogger(g.Logger)

	cur, err := loadCursor(paths.Cursors(), cfg.DefaultCursor)
	if err != nil {
		g.Close()
		return nil, err
	}
	ctx.DefaultCursor = cur
	g.Context = ctx

	g.Logger.Info("game loaded",
		slog.String("name", cfg.Name),
		slog.String("language", ctx.Language),
		slog.Int("width", cfg.ScreenWidth),
		slog.Int("height", cfg.ScreenHeight))
	return g, nil
}

// loadCursor resolves a system cursor name, or else the XBM pair
// <name>.xbm and <name>_mask.xbm under dir.
func loadCursor(dir, name string) (sprig.Cursor, error) {
	if c, err := sprig.SystemCursorByName(name); err == nil {
		return c, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, name+".xbm"))
	if err != nil {
		return nil, configErr("default_cursor %q: %v", name, err)
	}
	mask, err := os.ReadFile(filepath.Join(dir, name+"_mask.xbm"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, configErr("default_cursor %q: %v", name, err)
	}
	return sprig.NewCursorFromXBM(data, mask, sprig.ColorBlack, sprig.ColorWhite)
}

// Runnable creates a runnable titled after the game, reading the keyboard
// through the merged keymap.
func (g *Game) Runnable() *sprig.Runnable {
	r := sprig.NewRunnable(g.Context)
	r.Title = g.Config.Name
	r.FullScreen = g.Settings.FullScreen()
	src, unknown := sprig.NewEbitenInput(g.Keymap)
	if len(unknown) > 0 {
		g.Logger.Warn("unknown key names", slog.Any("keys", unknown))
	}
	r.SetInput(src)
	return r
}

// Close flushes and closes the log file.
func (g *Game) Close() error {
	if g.closer == nil {
		return nil
	}
	err := g.closer.Close()
	g.closer = nil
	return err
}
