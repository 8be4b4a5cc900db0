// Package store keeps saved mind maps in a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mindmap/internal/debug"
)

// ErrNotFound is returned when no document has the requested name.
var ErrNotFound = errors.New("document not found")

// Entry describes a stored document without its content.
type Entry struct {
	Name      string
	Size      int
	UpdatedAt time.Time
}

type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			content BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("document name cannot be empty")
	}
	return name, nil
}

// Save inserts or replaces the document called name.
func (s *Store) Save(name string, raw []byte) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO documents (name, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, raw, time.Now().UnixNano())
	if err != nil {
		debug.Log("store save %q: %v", name, err)
		return fmt.Errorf("failed to save %q: %w", name, err)
	}
	return nil
}

// Load returns the content saved under name.
func (s *Store) Load(name string) ([]byte, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	var raw []byte
	err = s.db.QueryRow(`SELECT content FROM documents WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", name, err)
	}
	return raw, nil
}

// List returns every stored document, most recently updated first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT name, length(content), updated_at FROM documents ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			updated int64
		)
		if err := rows.Scan(&e.Name, &e.Size, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		e.UpdatedAt = time.Unix(0, updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the document called name.
func (s *Store) Delete(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
