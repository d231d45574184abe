package config

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/phanxgames/sprig"
	"github.com/tidwall/gjson"
)

// Keymap binds key names to actions.
type Keymap map[string]string

// LoadKeymap reads keymap.json. A missing file is an empty keymap.
func LoadKeymap(path string) (Keymap, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Keymap{}, nil
	}
	if err != nil {
		return nil, configErr("read keymap: %v", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, configErr("keymap.json is not valid JSON")
	}
	m, err := stringMap("keymap.json", gjson.ParseBytes(data))
	if err != nil {
		return nil, err
	}
	return Keymap(m), nil
}

// Merge layers the built-in widget bindings, then each of layers in order.
// Later layers win for the same key.
func Merge(layers ...map[string]string) Keymap {
	km := Keymap(maps.Clone(sprig.DefaultBindings))
	for _, l := range layers {
		maps.Copy(km, l)
	}
	return km
}

// Actions returns the distinct bound actions, sorted.
func (k Keymap) Actions() []string {
	return actionSet(k)
}

// Keys returns the keys bound to action, sorted.
func (k Keymap) Keys(action string) []string {
	var out []string
	for key, a := range k {
		if a == action {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}
