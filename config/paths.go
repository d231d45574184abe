package config

import "path/filepath"

// Paths locates the data and asset files of a game rooted at Root.
type Paths struct {
	Root string
}

func (p Paths) join(elem ...string) string {
	return filepath.Join(append([]string{p.Root}, elem...)...)
}

func (p Paths) Data() string     { return p.join("data") }
func (p Paths) Assets() string   { return p.join("assets") }
func (p Paths) Config() string   { return p.join("data", "config.json") }
func (p Paths) Settings() string { return p.join("data", "settings.json") }
func (p Paths) State() string    { return p.join("data", "state.json") }
func (p Paths) Keymap() string   { return p.join("data", "keymap.json") }
func (p Paths) Logs() string     { return p.join("data", "logs") }
func (p Paths) SQL() string      { return p.join("data", "sql") }
func (p Paths) Database() string { return p.join("data", "sql", "db.sqlite") }
func (p Paths) Images() string   { return p.join("assets", "images") }
func (p Paths) Fonts() string    { return p.join("assets", "fonts") }
func (p Paths) Musics() string   { return p.join("assets", "musics") }
func (p Paths) Sounds() string   { return p.join("assets", "sounds") }
func (p Paths) Cursors() string  { return p.join("assets", "cursors") }
