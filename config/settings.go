package config

import (
	"maps"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/text/language"
)

var (
	settingsKeys = []string{"current_language", "full_screen", "controls", "volumes", "antialias"}
	volumeKeys   = []string{"main", "music", "sounds"}
)

// Settings are the player's preferences. Every setter rewrites the file.
type Settings struct {
	doc *document
}

// DefaultSettings returns the settings.json document for a fresh install.
// The controls start as the built-in bindings overlaid with widget_keys.
func DefaultSettings(c Config) []byte {
	doc := []byte(`{}`)
	doc, _ = sjson.SetBytes(doc, "current_language", c.DefaultLanguage)
	doc, _ = sjson.SetBytes(doc, "full_screen", false)
	doc, _ = sjson.SetBytes(doc, "controls", map[string]string(Merge(c.WidgetKeys)))
	doc, _ = sjson.SetBytes(doc, "volumes", map[string]any{"main": 1.0, "music": 1.0, "sounds": map[string]float64{}})
	doc, _ = sjson.SetBytes(doc, "antialias", true)
	return doc
}

// LoadSettings reads settings.json at path, writing the defaults derived
// from c when the file does not exist. An empty path keeps the settings in
// memory.
func LoadSettings(path string, c Config) (*Settings, error) {
	var (
		doc *document
		err error
	)
	if path == "" {
		doc = &document{data: DefaultSettings(c)}
	} else if doc, err = readDocument(path, DefaultSettings(c)); err != nil {
		return nil, err
	}
	s := &Settings{doc: doc}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	root := gjson.ParseBytes(s.doc.data)
	if !root.IsObject() {
		return configErr("settings.json must hold an object")
	}
	if err := checkKeys("settings.json", root, settingsKeys); err != nil {
		return err
	}
	vols := root.Get("volumes")
	if !vols.IsObject() {
		return configErr("settings.json: volumes must be an object")
	}
	if err := checkKeys("settings.json volumes", vols, volumeKeys); err != nil {
		return err
	}
	for _, k := range volumeKeys {
		if !vols.Get(k).Exists() {
			return configErr("settings.json: volumes.%s missing", k)
		}
	}
	if !vols.Get("sounds").IsObject() {
		return configErr("settings.json: volumes.sounds must be an object")
	}
	if c := root.Get("controls"); c.Exists() {
		if _, err := stringMap("controls", c); err != nil {
			return err
		}
	}
	if l := root.Get("current_language"); l.Exists() {
		if _, err := language.Parse(l.Str); err != nil {
			return configErr("current_language %q: %v", l.Str, err)
		}
	}
	return nil
}

// Language returns the current language.
func (s *Settings) Language() string { return s.doc.get("current_language").Str }

// SetLanguage normalizes and stores the current language.
func (s *Settings) SetLanguage(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return configErr("language %q: %v", lang, err)
	}
	return s.doc.set("current_language", tag.String())
}

func (s *Settings) FullScreen() bool { return s.doc.get("full_screen").Bool() }

func (s *Settings) SetFullScreen(on bool) error { return s.doc.set("full_screen", on) }

func (s *Settings) Antialias() bool {
	v := s.doc.get("antialias")
	return !v.Exists() || v.Bool()
}

func (s *Settings) SetAntialias(on bool) error { return s.doc.set("antialias", on) }

// Controls returns the player's key bindings, key name to action.
func (s *Settings) Controls() map[string]string {
	m, _ := stringMap("controls", s.doc.get("controls"))
	if m == nil {
		m = map[string]string{}
	}
	return m
}

// SetControls replaces the key bindings. The new bindings must cover
// exactly the actions the current ones do.
func (s *Settings) SetControls(controls map[string]string) error {
	if have, want := actionSet(controls), actionSet(s.Controls()); !slices.Equal(have, want) {
		return configErr("controls bind %v, want %v", have, want)
	}
	return s.doc.set("controls", controls)
}

func actionSet(m map[string]string) []string {
	set := make(map[string]bool, len(m))
	for _, a := range m {
		set[a] = true
	}
	return slices.Sorted(maps.Keys(set))
}

func (s *Settings) MainVolume() float64  { return s.doc.get("volumes.main").Float() }
func (s *Settings) MusicVolume() float64 { return s.doc.get("volumes.music").Float() }

// SoundVolumes returns the volume of every sound category.
func (s *Settings) SoundVolumes() map[string]float64 {
	out := map[string]float64{}
	s.doc.get("volumes.sounds").ForEach(func(k, v gjson.Result) bool {
		out[k.Str] = v.Float()
		return true
	})
	return out
}

func (s *Settings) SetMainVolume(v float64) error {
	return s.doc.set("volumes.main", clampVolume(v))
}

func (s *Settings) SetMusicVolume(v float64) error {
	return s.doc.set("volumes.music", clampVolume(v))
}

func (s *Settings) SetSoundVolume(category string, v float64) error {
	return s.doc.set("volumes.sounds."+escapeKey(category), clampVolume(v))
}

// Bytes returns the current document.
func (s *Settings) Bytes() []byte { return append([]byte(nil), s.doc.data...) }

func clampVolume(v float64) float64 { return min(max(v, 0), 1) }
