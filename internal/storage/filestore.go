package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/studiowebux/restdesk/internal/types"
)

const (
	filePermissions = 0644
	dirPermissions  = 0755

	// defaultThrottle is the minimum spacing between unforced saves of the
	// same collection.
	defaultThrottle = 2 * time.Second
)

// FileStore persists each collection as one pretty-printed JSON file
// under a workspace directory.
type FileStore struct {
	dir      string
	throttle time.Duration

	mu         sync.Mutex
	lastSaved  map[string][]byte
	lastSaveAt map[string]time.Time
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create collections directory %s: %w", dir, err)
	}
	return &FileStore{
		dir:        dir,
		throttle:   defaultThrottle,
		lastSaved:  make(map[string][]byte),
		lastSaveAt: make(map[string]time.Time),
	}, nil
}

// Key identifies the backend.
func (s *FileStore) Key() string { return "filestore:" + s.dir }

// ThrottleWait returns the minimum interval between unforced saves.
func (s *FileStore) ThrottleWait() time.Duration { return s.throttle }

// Load reads and decodes one collection file.
func (s *FileStore) Load(id string) (*types.Collection, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read collection %s: %w", id, err)
	}
	var c types.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse collection %s: %w", id, err)
	}
	return &c, nil
}

// Save writes the collection, skipping unchanged or throttled writes
// unless forced. The write goes through a temp file and rename so a
// crash never leaves a truncated collection on disk.
func (s *FileStore) Save(c *types.Collection, force bool) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", c.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !force {
		if prev, ok := s.lastSaved[c.ID]; ok && bytes.Equal(prev, data) {
			return nil
		}
		if at, ok := s.lastSaveAt[c.ID]; ok && time.Since(at) < s.throttle {
			return nil
		}
	}

	target := s.path(c.ID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", c.ID, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace collection %s: %w", c.ID, err)
	}
	s.lastSaved[c.ID] = data
	s.lastSaveAt[c.ID] = time.Now()
	return nil
}

// ShouldSave compares serialized forms, ignoring the volatile index.
func (s *FileStore) ShouldSave(prev, next *types.Collection) bool {
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

// List returns the ids of every collection file in the directory.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections directory: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
