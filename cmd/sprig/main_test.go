package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/sprig/config"
	"github.com/phanxgames/sprig/textdb"
)

type testEnv struct {
	env
	out, err bytes.Buffer
	builds   [][2]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{}
	home := t.TempDir()
	te.env = env{
		stdout:    &te.out,
		stderr:    &te.err,
		configDir: func() (string, error) { return home, nil },
		goBuild: func(dir, out string) error {
			te.builds = append(te.builds, [2]string{dir, out})
			return nil
		},
	}
	return te
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"deploy"}},
		{"bad flag", []string{"make", "-verbose"}},
		{"build without name", []string{"build"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t)
			if code := run(&te.env, tt.args); code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if te.err.Len() == 0 {
				t.Error("nothing printed to stderr")
			}
		})
	}
}

func TestInitScaffolds(t *testing.T) {
	te := newTestEnv(t)
	root := t.TempDir()
	if code := run(&te.env, []string{"init", "-root", root, "-name", "demo"}); code != 0 {
		t.Fatalf("init exit %d: %s", code, te.err.String())
	}

	paths := config.Paths{Root: root}
	cfg, err := config.LoadConfig(paths.Config())
	if err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if cfg.Name != "demo" {
		t.Errorf("name = %q", cfg.Name)
	}
	if _, err := config.LoadSettings(paths.Settings(), cfg); err != nil {
		t.Errorf("scaffolded settings do not load: %v", err)
	}
	for _, dir := range []string{paths.Fonts(), paths.Sounds(), paths.Logs()} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("%s missing", dir)
		}
	}

	// A second init keeps edited files.
	if err := os.WriteFile(paths.State(), []byte(`{"level": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	te.out.Reset()
	if code := run(&te.env, []string{"init", "-root", root}); code != 0 {
		t.Fatalf("second init exit %d", code)
	}
	if data, _ := os.ReadFile(paths.State()); string(data) != `{"level": 3}` {
		t.Errorf("state.json overwritten: %s", data)
	}
	if !strings.Contains(te.out.String(), "kept") {
		t.Errorf("output = %q", te.out.String())
	}
}

func TestMakeBuildsDatabase(t *testing.T) {
	te := newTestEnv(t)
	root := t.TempDir()
	if code := run(&te.env, []string{"init", "-root", root}); code != 0 {
		t.Fatal(te.err.String())
	}
	paths := config.Paths{Root: root}
	texts := `INSERT INTO texts VALUES ('en', 'menu', 'title', 'Welcome');`
	if err := os.WriteFile(filepath.Join(paths.SQL(), "texts.sql"), []byte(texts), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := run(&te.env, []string{"make", "-root", root}); code != 0 {
		t.Fatalf("make exit %d: %s", code, te.err.String())
	}

	s, err := textdb.Open(paths.Database())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Texts("en", "menu")
	if err != nil || got["title"] != "Welcome" {
		t.Errorf("texts = %v, %v", got, err)
	}
}

func TestBuild(t *testing.T) {
	te := newTestEnv(t)
	if code := run(&te.env, []string{"build", "-root", "game", "pong"}); code != 0 {
		t.Fatalf("build exit %d: %s", code, te.err.String())
	}
	want := [2]string{"game", filepath.Join("dist", "pong")}
	if len(te.builds) != 1 || te.builds[0] != want {
		t.Errorf("builds = %v, want %v", te.builds, want)
	}

	te.goBuild = func(string, string) error { return errors.New("compile error") }
	if code := run(&te.env, []string{"build", "pong"}); code != 1 {
		t.Errorf("failed build exit %d, want 1", code)
	}
}

func TestInstallUninstall(t *testing.T) {
	te := newTestEnv(t)
	root := t.TempDir()
	if code := run(&te.env, []string{"init", "-root", root, "-name", "demo"}); code != 0 {
		t.Fatal(te.err.String())
	}
	paths := config.Paths{Root: root}
	if err := os.WriteFile(filepath.Join(paths.Logs(), "old.log"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := t.TempDir()
	if code := run(&te.env, []string{"install", "-root", root, "-dest", dest}); code != 0 {
		t.Fatalf("install exit %d: %s", code, te.err.String())
	}
	installed := filepath.Join(dest, "demo")
	if _, err := os.Stat(filepath.Join(installed, "data", "config.json")); err != nil {
		t.Errorf("config not installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(installed, "data", "logs")); !os.IsNotExist(err) {
		t.Errorf("logs installed: %v", err)
	}

	if code := run(&te.env, []string{"uninstall", "-root", root, "-dest", dest}); code != 0 {
		t.Fatalf("uninstall exit %d: %s", code, te.err.String())
	}
	if _, err := os.Stat(installed); !os.IsNotExist(err) {
		t.Errorf("install dir still present: %v", err)
	}
}
