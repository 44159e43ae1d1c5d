package storage

import (
	"database/sql"
	"fmt"
)

// Migration is a single versioned schema change.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order.
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add updated index for recency-ordered listings",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_collections_updated ON collections(updated DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_collections_updated;
		`,
	},
	{
		Version: 2,
		Name:    "Add name index for lookups by display name",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_collections_name ON collections(name);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_collections_name;
		`,
	},
}

// InitSchema creates the base tables. It must run before migrations so
// every migration can assume the tables exist.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		updated INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations on the database.
func RunMigrations(db *sql.DB) error {
	if err := InitSchema(db); err != nil {
		return err
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}
		if _, err := db.Exec(migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
		_, err := db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}
	return nil
}
