package config

import "github.com/tidwall/gjson"

// GameState is a free-form persistent document. Paths use gjson syntax.
type GameState struct {
	doc *document
}

// LoadGameState reads state.json at path, starting empty if it is missing.
func LoadGameState(path string) (*GameState, error) {
	doc, err := readDocument(path, []byte(`{}`))
	if err != nil {
		return nil, err
	}
	return &GameState{doc: doc}, nil
}

// Get returns the value at path.
func (g *GameState) Get(path string) gjson.Result { return g.doc.get(path) }

// Set stores value at path and rewrites the file.
func (g *GameState) Set(path string, value any) error { return g.doc.set(path, value) }

// Delete removes path and rewrites the file.
func (g *GameState) Delete(path string) error { return g.doc.delete(path) }
