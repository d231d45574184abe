package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// document is a JSON file patched with sjson and rewritten on each change.
// An empty path keeps it in memory.
type document struct {
	path string
	data []byte
}

// readDocument loads path, or seeds it with fallback when it does not exist.
func readDocument(path string, fallback []byte) (*document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		d := &document{path: path, data: append([]byte(nil), fallback...)}
		return d, d.write()
	}
	if err != nil {
		return nil, configErr("read %s: %v", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, configErr("%s is not valid JSON", filepath.Base(path))
	}
	return &document{path: path, data: data}, nil
}

func (d *document) get(path string) gjson.Result { return gjson.GetBytes(d.data, path) }

func (d *document) set(path string, value any) error {
	out, err := sjson.SetBytes(d.data, path, value)
	if err != nil {
		return fmt.Errorf("config: set %s: %w", path, err)
	}
	d.data = out
	return d.write()
}

func (d *document) delete(path string) error {
	out, err := sjson.DeleteBytes(d.data, path)
	if err != nil {
		return fmt.Errorf("config: delete %s: %w", path, err)
	}
	d.data = out
	return d.write()
}

func (d *document) write() error {
	if d.path == "" {
		return nil
	}
	var buf bytes.Buffer
	out := d.data
	if err := json.Indent(&buf, d.data, "", "  "); err == nil {
		out = append(buf.Bytes(), '\n')
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(d.path, out, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// escapeKey quotes the path characters of a single key.
func escapeKey(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(key)
}
