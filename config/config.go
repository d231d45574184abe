package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/phanxgames/sprig"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

// Defaults applied to keys missing from config.json.
const (
	DefaultName                   = "sprig"
	DefaultLanguage               = "en"
	DefaultCursor                 = "arrow"
	DefaultServerPort             = 50505
	DefaultMaxCommunicationLength = 2048
	DefaultScreenWidth            = 1280
	DefaultScreenHeight           = 720
)

var configKeys = []string{
	"name", "default_language", "default_cursor", "server_port",
	"max_communication_length", "max_frame_rate", "screen", "widget_keys",
	"repeat_delay", "repeat_interval",
}

// Config is the read-only game configuration.
type Config struct {
	Name            string
	DefaultLanguage string
	DefaultCursor   string
	ServerPort      int
	// MaxCommunicationLength bounds a LAN frame in bytes.
	MaxCommunicationLength int
	MaxFrameRate           int
	ScreenWidth            int
	ScreenHeight           int
	// WidgetKeys maps key names to widget actions.
	WidgetKeys map[string]string
	// RepeatDelay and RepeatInterval are in milliseconds.
	RepeatDelay    float64
	RepeatInterval float64
}

// Default returns the configuration used for an empty config.json.
func Default() Config {
	return Config{
		Name:                   DefaultName,
		DefaultLanguage:        DefaultLanguage,
		DefaultCursor:          DefaultCursor,
		ServerPort:             DefaultServerPort,
		MaxCommunicationLength: DefaultMaxCommunicationLength,
		MaxFrameRate:           sprig.DefaultMaxFPS,
		ScreenWidth:            DefaultScreenWidth,
		ScreenHeight:           DefaultScreenHeight,
		WidgetKeys:             map[string]string{},
		RepeatDelay:            sprig.DefaultRepeatDelay,
		RepeatInterval:         sprig.DefaultRepeatInterval,
	}
}

// LoadConfig reads config.json at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w: %w", sprig.ErrConfig, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a config.json document. Unknown keys and values of
// the wrong type are errors wrapping sprig.ErrConfig.
func ParseConfig(data []byte) (Config, error) {
	if !gjson.ValidBytes(data) {
		return Config{}, configErr("config.json is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Config{}, configErr("config.json must hold an object")
	}
	if err := checkKeys("config.json", doc, configKeys); err != nil {
		return Config{}, err
	}

	c := Default()
	var err error
	str := func(key string, dst *string) {
		if v := doc.Get(key); v.Exists() && err == nil {
			if v.Type != gjson.String {
				err = configErr("%s must be a string", key)
				return
			}
			*dst = v.Str
		}
	}
	num := func(key string, dst *float64) {
		if v := doc.Get(key); v.Exists() && err == nil {
			if v.Type != gjson.Number || v.Num < 0 {
				err = configErr("%s must be a non-negative number", key)
				return
			}
			*dst = v.Num
		}
	}
	integer := func(key string, dst *int) {
		f := float64(*dst)
		num(key, &f)
		*dst = int(f)
	}

	str("name", &c.Name)
	str("default_language", &c.DefaultLanguage)
	str("default_cursor", &c.DefaultCursor)
	integer("server_port", &c.ServerPort)
	integer("max_communication_length", &c.MaxCommunicationLength)
	integer("max_frame_rate", &c.MaxFrameRate)
	num("repeat_delay", &c.RepeatDelay)
	num("repeat_interval", &c.RepeatInterval)
	if err != nil {
		return Config{}, err
	}

	if v := doc.Get("screen"); v.Exists() {
		dims := v.Array()
		if !v.IsArray() || len(dims) != 2 || dims[0].Int() <= 0 || dims[1].Int() <= 0 {
			return Config{}, configErr("screen must be [width, height]")
		}
		c.ScreenWidth, c.ScreenHeight = int(dims[0].Int()), int(dims[1].Int())
	}
	if v := doc.Get("widget_keys"); v.Exists() {
		keys, err := stringMap("widget_keys", v)
		if err != nil {
			return Config{}, err
		}
		c.WidgetKeys = keys
	}

	tag, perr := language.Parse(c.DefaultLanguage)
	if perr != nil {
		return Config{}, configErr("default_language %q: %v", c.DefaultLanguage, perr)
	}
	c.DefaultLanguage = tag.String()
	if c.ServerPort > 65535 {
		return Config{}, configErr("server_port %d out of range", c.ServerPort)
	}
	return c, nil
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("config: %w: %s", sprig.ErrConfig, fmt.Sprintf(format, args...))
}

// checkKeys rejects keys of obj that are not in allowed.
func checkKeys(what string, obj gjson.Result, allowed []string) error {
	var err error
	obj.ForEach(func(k, _ gjson.Result) bool {
		if !slices.Contains(allowed, k.Str) {
			err = configErr("%s: unknown key %q", what, k.Str)
			return false
		}
		return true
	})
	return err
}

// stringMap decodes an object of strings.
func stringMap(what string, v gjson.Result) (map[string]string, error) {
	if !v.IsObject() {
		return nil, configErr("%s must be an object", what)
	}
	out := make(map[string]string)
	var err error
	v.ForEach(func(k, val gjson.Result) bool {
		if val.Type != gjson.String {
			err = configErr("%s.%s must be a string", what, k.Str)
			return false
		}
		out[k.Str] = val.Str
		return true
	})
	return out, err
}
