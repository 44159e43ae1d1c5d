package storage

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/restdesk/internal/types"
)

// SQLiteStore persists collections in a single SQLite database. Each
// collection is one row with its JSON payload; name and updated are
// lifted into columns so listings never deserialize payloads.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	throttle time.Duration
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// brings its schema up to date.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open collections database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to collections database: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath, throttle: defaultThrottle}
	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return s, nil
}

// Key identifies the backend.
func (s *SQLiteStore) Key() string { return "sqlite:" + s.path }

// ThrottleWait returns the minimum interval between unforced saves.
// SQLite writes are cheap; the store does not debounce them.
func (s *SQLiteStore) ThrottleWait() time.Duration { return 0 }

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads one collection row.
func (s *SQLiteStore) Load(id string) (*types.Collection, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM collections WHERE id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %s: %w", id, err)
	}
	var c types.Collection
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, fmt.Errorf("failed to parse collection %s: %w", id, err)
	}
	return &c, nil
}

// Save upserts the collection row. Unforced saves are skipped when the
// stored payload already matches.
func (s *SQLiteStore) Save(c *types.Collection, force bool) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", c.ID, err)
	}

	if !force {
		var existing string
		err := s.db.QueryRow("SELECT payload FROM collections WHERE id = ?", c.ID).Scan(&existing)
		if err == nil && bytes.Equal([]byte(existing), payload) {
			return nil
		}
	}

	_, err = s.db.Exec(`
		INSERT INTO collections (id, name, updated, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated = excluded.updated,
			payload = excluded.payload
	`, c.ID, c.Name, c.Updated, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save collection %s: %w", c.ID, err)
	}
	return nil
}

// ShouldSave compares serialized forms.
func (s *SQLiteStore) ShouldSave(prev, next *types.Collection) bool {
	if prev == nil || next == nil {
		return prev != next
	}
	prevData, err := json.Marshal(prev)
	if err != nil {
		return true
	}
	nextData, err := json.Marshal(next)
	if err != nil {
		return true
	}
	return !bytes.Equal(prevData, nextData)
}

// List returns every stored collection id, most recently updated first.
func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM collections ORDER BY updated DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collection id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
