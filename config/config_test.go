package config

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/phanxgames/sprig"
)

func TestParseConfigDefaults(t *testing.T) {
	c, err := ParseConfig([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte(`{
		"name": "demo",
		"default_language": "fr",
		"server_port": 6000,
		"max_frame_rate": 30,
		"screen": [800, 600],
		"widget_keys": {"space": "activate"},
		"repeat_delay": 250,
		"repeat_interval": 50
	}`))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Name = "demo"
	want.DefaultLanguage = "fr"
	want.ServerPort = 6000
	want.MaxFrameRate = 30
	want.ScreenWidth, want.ScreenHeight = 800, 600
	want.WidgetKeys = map[string]string{"space": "activate"}
	want.RepeatDelay, want.RepeatInterval = 250, 50
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", `{"colour": "red"}`},
		{"not json", `{"name": `},
		{"not object", `[1, 2]`},
		{"bad screen", `{"screen": [800]}`},
		{"negative screen", `{"screen": [800, -1]}`},
		{"string port", `{"server_port": "80"}`},
		{"port range", `{"server_port": 70000}`},
		{"bad language", `{"default_language": "not a language"}`},
		{"widget key type", `{"widget_keys": {"enter": 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc))
			if !errors.Is(err, sprig.ErrConfig) {
				t.Errorf("err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := LoadSettings(path, Default())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults not written: %v", err)
	}

	steps := []func() error{
		func() error { return s.SetLanguage("fr-FR") },
		func() error { return s.SetFullScreen(true) },
		func() error { return s.SetAntialias(false) },
		func() error { return s.SetMainVolume(0.5) },
		func() error { return s.SetMusicVolume(2) },
		func() error { return s.SetSoundVolume("ui.click", 0.25) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	again, err := LoadSettings(path, Default())
	if err != nil {
		t.Fatal(err)
	}
	type view struct {
		Language   string
		FullScreen bool
		Antialias  bool
		Main       float64
		Music      float64
		Sounds     map[string]float64
	}
	snap := func(s *Settings) view {
		return view{s.Language(), s.FullScreen(), s.Antialias(), s.MainVolume(), s.MusicVolume(), s.SoundVolumes()}
	}
	want := view{"fr-FR", true, false, 0.5, 1, map[string]float64{"ui.click": 0.25}}
	if diff := cmp.Diff(want, snap(again)); diff != "" {
		t.Errorf("reloaded settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", `{"volumes": {"main": 1, "music": 1, "sounds": {}}, "theme": "dark"}`},
		{"missing volumes", `{"current_language": "en"}`},
		{"missing music", `{"volumes": {"main": 1, "sounds": {}}}`},
		{"extra volume", `{"volumes": {"main": 1, "music": 1, "sounds": {}, "voice": 1}}`},
		{"bad controls", `{"volumes": {"main": 1, "music": 1, "sounds": {}}, "controls": {"a": 3}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadSettings(path, Default()); !errors.Is(err, sprig.ErrConfig) {
				t.Errorf("err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestSetControls(t *testing.T) {
	s, err := LoadSettings("", Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetControls(map[string]string{"space": "jump"}); !errors.Is(err, sprig.ErrConfig) {
		t.Errorf("new action accepted: %v", err)
	}
	if err := s.SetControls(map[string]string{}); !errors.Is(err, sprig.ErrConfig) {
		t.Errorf("clearing every binding accepted: %v", err)
	}

	path := filepath.Join(t.TempDir(), "settings.json")
	doc := `{"controls": {"space": "jump", "x": "fire"}, "volumes": {"main": 1, "music": 1, "sounds": {}}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = LoadSettings(path, Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetControls(map[string]string{"w": "jump", "enter": "fire"}); err != nil {
		t.Errorf("rebinding: %v", err)
	}
	if err := s.SetControls(map[string]string{"w": "jump"}); !errors.Is(err, sprig.ErrConfig) {
		t.Errorf("dropping an action accepted: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"w": "jump", "enter": "fire"}, s.Controls()); diff != "" {
		t.Errorf("controls mismatch (-want +got):\n%s", diff)
	}
}

func TestRebindFromFreshDefaults(t *testing.T) {
	cfg := Default()
	cfg.WidgetKeys = map[string]string{"space": sprig.ActionActivate}
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := LoadSettings(path, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := maps.Clone(sprig.DefaultBindings)
	want["space"] = sprig.ActionActivate
	if diff := cmp.Diff(want, s.Controls()); diff != "" {
		t.Fatalf("fresh controls (-want +got):\n%s", diff)
	}

	rebound := s.Controls()
	delete(rebound, "up")
	rebound["w"] = sprig.ActionUp
	if err := s.SetControls(rebound); err != nil {
		t.Fatalf("rebinding up: %v", err)
	}
	again, err := LoadSettings(path, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rebound, again.Controls()); diff != "" {
		t.Errorf("reloaded controls (-want +got):\n%s", diff)
	}
	km := Merge(cfg.WidgetKeys, again.Controls())
	if diff := cmp.Diff([]string{"w"}, km.Keys(sprig.ActionUp)); diff != "" {
		t.Errorf("up keys (-want +got):\n%s", diff)
	}
}

func TestGameState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	g, err := LoadGameState(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Set("level.best", 7); err != nil {
		t.Fatal(err)
	}
	if err := g.Set("player", "ada"); err != nil {
		t.Fatal(err)
	}
	if err := g.Delete("player"); err != nil {
		t.Fatal(err)
	}

	again, err := LoadGameState(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := again.Get("level.best").Int(); got != 7 {
		t.Errorf("level.best = %d, want 7", got)
	}
	if again.Get("player").Exists() {
		t.Error("deleted key still present")
	}
}

func TestKeymapMerge(t *testing.T) {
	km := Merge(map[string]string{"space": sprig.ActionActivate}, map[string]string{"enter": "jump"})
	if km["space"] != sprig.ActionActivate || km["enter"] != "jump" || km["tab"] != sprig.ActionNextFocus {
		t.Errorf("merged keymap = %v", km)
	}
	if diff := cmp.Diff([]string{"space"}, km.Keys(sprig.ActionActivate)); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeymapMissing(t *testing.T) {
	km, err := LoadKeymap(filepath.Join(t.TempDir(), "keymap.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(km) != 0 {
		t.Errorf("keymap = %v, want empty", km)
	}
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	paths := Paths{Root: root}
	if err := os.MkdirAll(paths.Data(), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := `{"name": "demo", "screen": [640, 480], "repeat_delay": 300, "widget_keys": {"space": "activate"}}`
	if err := os.WriteFile(paths.Config(), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := Build(paths, Options{Debug: true})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	ctx := g.Context
	if ctx.ScreenWidth != 640 || ctx.ScreenHeight != 480 || ctx.RepeatDelay != 300 {
		t.Errorf("context = %dx%d delay %v", ctx.ScreenWidth, ctx.ScreenHeight, ctx.RepeatDelay)
	}
	if ctx.Language != "en" {
		t.Errorf("language = %q, want en", ctx.Language)
	}
	if g.Keymap["space"] != sprig.ActionActivate {
		t.Errorf("widget_keys not merged: %v", g.Keymap)
	}
	logs, err := os.ReadDir(paths.Logs())
	if err != nil || len(logs) != 1 {
		t.Errorf("log files = %v, %v", logs, err)
	}
	if r := g.Runnable(); r.Title != "demo" {
		t.Errorf("title = %q", r.Title)
	}
}

func TestBuildBadCursor(t *testing.T) {
	root := t.TempDir()
	paths := Paths{Root: root}
	if err := os.MkdirAll(paths.Data(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.Config(), []byte(`{"default_cursor": "sword"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Build(paths, Options{Logger: nil}); !errors.Is(err, sprig.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
}
