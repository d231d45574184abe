package textdb

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Make rebuilds the database at dbPath from every *.sql file in sqlDir,
// run in name order inside one transaction. It returns the files applied.
func Make(sqlDir, dbPath string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(sqlDir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if err := os.Remove(dbPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("textdb: %w", err)
	}
	s, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	err = transaction(s.db, func(tx *sql.Tx) error {
		for _, f := range files {
			script, err := os.ReadFile(f)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(string(script)); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(f), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("textdb: make: %w", err)
	}
	return files, nil
}

// transaction creates a Tx and calls f on it. It commits or rolls back
// the transaction depending on whether f succeeded.
func transaction(db *sql.DB, f func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return tx.Commit()
}
