package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/phanxgames/sprig/config"
	"github.com/phanxgames/sprig/textdb"
	"github.com/tidwall/sjson"
)

func runInit(e *env, args []string) error {
	fset := newFlagSet(e, "init")
	root := fset.String("root", ".", "game directory")
	name := fset.String("name", "", "game name (default: directory name)")
	if err := parse(fset, args); err != nil {
		return err
	}
	paths := config.Paths{Root: *root}
	if *name == "" {
		abs, err := filepath.Abs(*root)
		if err != nil {
			return err
		}
		*name = filepath.Base(abs)
	}

	for _, dir := range []string{
		paths.Logs(), paths.SQL(), paths.Images(), paths.Fonts(),
		paths.Musics(), paths.Sounds(), paths.Cursors(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	cfgDoc, err := sjson.SetBytes([]byte(`{}`), "name", *name)
	if err != nil {
		return err
	}
	cfg := config.Default()
	for _, kv := range []struct {
		key   string
		value any
	}{
		{"default_language", cfg.DefaultLanguage},
		{"default_cursor", cfg.DefaultCursor},
		{"server_port", cfg.ServerPort},
		{"max_communication_length", cfg.MaxCommunicationLength},
		{"max_frame_rate", cfg.MaxFrameRate},
		{"screen", []int{cfg.ScreenWidth, cfg.ScreenHeight}},
		{"widget_keys", map[string]string{}},
		{"repeat_delay", cfg.RepeatDelay},
		{"repeat_interval", cfg.RepeatInterval},
	} {
		if cfgDoc, err = sjson.SetBytes(cfgDoc, kv.key, kv.value); err != nil {
			return err
		}
	}

	files := []struct {
		path string
		data []byte
	}{
		{paths.Config(), cfgDoc},
		{paths.Settings(), config.DefaultSettings(cfg)},
		{paths.State(), []byte("{}\n")},
		{paths.Keymap(), []byte("{}\n")},
		{filepath.Join(paths.SQL(), "init.sql"), []byte(textdb.Schema)},
	}
	for _, f := range files {
		created, err := writeNew(f.path, f.data)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintln(e.stdout, "created", f.path)
		} else {
			fmt.Fprintln(e.stdout, "kept", f.path)
		}
	}
	return nil
}

// writeNew writes data to path unless the file exists.
func writeNew(path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}

func runMake(e *env, args []string) error {
	fset := newFlagSet(e, "make")
	root := fset.String("root", ".", "game directory")
	if err := parse(fset, args); err != nil {
		return err
	}
	paths := config.Paths{Root: *root}
	applied, err := textdb.Make(paths.SQL(), paths.Database())
	if err != nil {
		return err
	}
	for _, f := range applied {
		fmt.Fprintln(e.stdout, "applied", filepath.Base(f))
	}
	fmt.Fprintln(e.stdout, "wrote", paths.Database())
	return nil
}

func runBuild(e *env, args []string) error {
	fset := newFlagSet(e, "build")
	root := fset.String("root", ".", "game directory")
	if err := parse(fset, args); err != nil {
		return err
	}
	if fset.NArg() != 1 || strings.ContainsAny(fset.Arg(0), `/\`) {
		fmt.Fprintln(e.stderr, "Usage: sprig build [-root dir] <name>")
		return errUsage
	}
	out := filepath.Join("dist", fset.Arg(0))
	if err := e.goBuild(*root, out); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	fmt.Fprintln(e.stdout, "built", filepath.Join(*root, out))
	return nil
}

func goBuild(dir, out string) error {
	cmd := exec.Command("go", "build", "-o", out, ".")
	cmd.Dir = dir
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	return cmd.Run()
}

// installDir is where install copies the game named in config.json.
func installDir(e *env, root, dest string) (string, error) {
	cfg, err := config.LoadConfig(config.Paths{Root: root}.Config())
	if err != nil {
		return "", err
	}
	if dest == "" {
		if dest, err = e.configDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, cfg.Name), nil
}

func runInstall(e *env, args []string) error {
	fset := newFlagSet(e, "install")
	root := fset.String("root", ".", "game directory")
	dest := fset.String("dest", "", "install base (default: user config directory)")
	if err := parse(fset, args); err != nil {
		return err
	}
	target, err := installDir(e, *root, *dest)
	if err != nil {
		return err
	}
	paths := config.Paths{Root: *root}
	for _, dir := range []string{paths.Data(), paths.Assets()} {
		if err := copyTree(dir, filepath.Join(target, filepath.Base(dir))); err != nil {
			return err
		}
	}
	fmt.Fprintln(e.stdout, "installed", target)
	return nil
}

func runUninstall(e *env, args []string) error {
	fset := newFlagSet(e, "uninstall")
	root := fset.String("root", ".", "game directory")
	dest := fset.String("dest", "", "install base (default: user config directory)")
	if err := parse(fset, args); err != nil {
		return err
	}
	target, err := installDir(e, *root, *dest)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(target); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "removed", target)
	return nil
}

// copyTree copies the regular files under src to dst, skipping logs.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if d.Name() == "logs" && path != src {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
