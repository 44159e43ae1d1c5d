package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "collections.db"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)

	c := sampleCollection("c1")
	if err := s.Save(c, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	loaded, err := s.Load("c1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loaded.Name != "Sample" {
		t.Errorf("Expected Sample, got %q", loaded.Name)
	}
	if _, ok := loaded.Requests["r1"]; !ok {
		t.Error("Expected request to survive the round trip")
	}
}

func TestSQLiteStoreLoadMissing(t *testing.T) {
	s := newTestSQLiteStore(t)
	if _, err := s.Load("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	s := newTestSQLiteStore(t)

	c := sampleCollection("c1")
	if err := s.Save(c, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	c.Name = "Renamed"
	c.Updated++
	if err := s.Save(c, false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	loaded, err := s.Load("c1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loaded.Name != "Renamed" {
		t.Errorf("Expected Renamed, got %q", loaded.Name)
	}
}

func TestSQLiteStoreListOrdersByRecency(t *testing.T) {
	s := newTestSQLiteStore(t)

	older := sampleCollection("older")
	older.Updated = 1000
	newer := sampleCollection("newer")
	newer.Updated = 2000
	if err := s.Save(older, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := s.Save(newer, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ids, err := s.List()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ids) != 2 || ids[0] != "newer" || ids[1] != "older" {
		t.Errorf("Expected [newer older], got %v", ids)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestSQLiteStore(t)

	// Running migrations again on an up-to-date database is a no-op.
	if err := RunMigrations(s.db); err != nil {
		t.Errorf("Expected no error re-running migrations, got %v", err)
	}

	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if version != AllMigrations[len(AllMigrations)-1].Version {
		t.Errorf("Expected version %d, got %d", AllMigrations[len(AllMigrations)-1].Version, version)
	}
}
