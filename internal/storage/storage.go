// Package storage provides the durable local store: named slots in a SQLite
// database, each holding one serialized document. Slots are independent;
// writers replace a slot's document wholesale.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps the SQLite handle behind the slot operations.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Get returns the document stored in the named slot. A missing slot is not
// an error: it returns ok=false, which callers treat as empty initial state.
func (d *DB) Get(name string) ([]byte, bool, error) {
	var doc string
	err := d.db.QueryRow(`SELECT document FROM slots WHERE name = ?`, name).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading slot %s: %w", name, err)
	}
	return []byte(doc), true, nil
}

// Put replaces the named slot's document.
func (d *DB) Put(name string, doc []byte) error {
	_, err := d.db.Exec(`
		INSERT INTO slots (name, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		name, string(doc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", name, err)
	}
	return nil
}

// Delete removes the named slot. Deleting a missing slot is a no-op.
func (d *DB) Delete(name string) error {
	if _, err := d.db.Exec(`DELETE FROM slots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting slot %s: %w", name, err)
	}
	return nil
}

// Clear removes every slot. Used by the full reset path.
func (d *DB) Clear() error {
	if _, err := d.db.Exec(`DELETE FROM slots`); err != nil {
		return fmt.Errorf("clearing slots: %w", err)
	}
	return nil
}
