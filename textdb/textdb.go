// Package textdb stores localized texts and sound metadata in SQLite. A
// Store is both a sprig.Localizer and a sprig.SoundCatalog.
package textdb

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // enable the "sqlite3" SQL driver
	"github.com/phanxgames/sprig"
	"golang.org/x/text/language"
)

// Schema creates the tables a Store reads. It is also the content of the
// init.sql file scaffolded for new games.
const Schema = `CREATE TABLE IF NOT EXISTS texts (
	language TEXT NOT NULL,
	phase    TEXT NOT NULL,
	position TEXT NOT NULL,
	value    TEXT NOT NULL,
	PRIMARY KEY (language, phase, position)
);
CREATE TABLE IF NOT EXISTS sounds (
	name     TEXT PRIMARY KEY,
	path     TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT ''
);
`

// Store reads texts and sounds from a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	s, err := NewStoreDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreDB wraps an open SQLite database, creating missing tables.
func NewStoreDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("textdb: failed to initialize tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Texts returns the texts of phase in lang keyed by position. When lang has
// no texts for the phase, its base language is tried.
func (s *Store) Texts(lang, phase string) (map[string]string, error) {
	out, err := s.texts(lang, phase)
	if err != nil || len(out) > 0 {
		return out, err
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return out, nil
	}
	if base, conf := tag.Base(); conf != language.No && base.String() != lang {
		return s.texts(base.String(), phase)
	}
	return out, nil
}

func (s *Store) texts(lang, phase string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT position, value FROM texts WHERE language = ? AND phase = ?`, lang, phase)
	if err != nil {
		return nil, fmt.Errorf("textdb: texts %s/%s: %w", lang, phase, err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var pos, value string
		if err := rows.Scan(&pos, &value); err != nil {
			return nil, err
		}
		out[pos] = value
	}
	return out, rows.Err()
}

// Languages lists the languages that have texts.
func (s *Store) Languages() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT language FROM texts ORDER BY language`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Sound implements sprig.SoundCatalog.
func (s *Store) Sound(name string) (sprig.SoundInfo, error) {
	var info sprig.SoundInfo
	err := s.db.QueryRow(`SELECT path, category FROM sounds WHERE name = ?`, name).Scan(&info.Path, &info.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return info, fmt.Errorf("textdb: %w: %q", sprig.ErrUnknownSound, name)
	}
	if err != nil {
		return info, fmt.Errorf("textdb: sound %q: %w", name, err)
	}
	return info, nil
}

// AddText inserts or replaces one text.
func (s *Store) AddText(lang, phase, position, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO texts (language, phase, position, value) VALUES (?, ?, ?, ?)`,
		lang, phase, position, value)
	return err
}

// AddSound inserts or replaces one sound.
func (s *Store) AddSound(name string, info sprig.SoundInfo) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sounds (name, path, category) VALUES (?, ?, ?)`,
		name, info.Path, info.Category)
	return err
}

var (
	_ sprig.Localizer    = (*Store)(nil)
	_ sprig.SoundCatalog = (*Store)(nil)
)
