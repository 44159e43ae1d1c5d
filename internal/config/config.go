package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.restdesk)
	ConfigDir string

	// CollectionsDir holds one JSON file per collection (filestore backend)
	CollectionsDir string

	// DatabasePath is the SQLite database file (sqlite backend)
	DatabasePath string
)

// Initialize sets up the configuration directories
// It creates ~/.restdesk/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	// Set global paths
	ConfigDir = filepath.Join(homeDir, ".restdesk")
	CollectionsDir = filepath.Join(ConfigDir, "collections")
	DatabasePath = filepath.Join(ConfigDir, "restdesk.db")

	// Create directories if they don't exist
	dirs := []string{ConfigDir, CollectionsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
