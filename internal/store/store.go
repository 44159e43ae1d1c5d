// Package store owns the canonical collection tree. It is the single
// mutation entry point: every public operation is a synchronous critical
// section that re-establishes all structural invariants before
// returning, and readers only ever receive deep-copied snapshots.
//
// Unknown ids are programmer errors and panic before any mutation is
// applied (the tree is never left half-updated); conditions a caller can
// reasonably hit with valid code (empty names, cyclic moves) are regular
// errors.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/studiowebux/restdesk/internal/ident"
	"github.com/studiowebux/restdesk/internal/importer"
	"github.com/studiowebux/restdesk/internal/storage"
	"github.com/studiowebux/restdesk/internal/types"
)

var (
	// ErrEmptyName is returned when a folder, request or environment name
	// is empty after trimming.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrCycle is returned when a folder move would make a folder its own
	// ancestor.
	ErrCycle = errors.New("folder cannot be moved into itself or its own subtree")
)

// Store is the in-memory collection cache plus its mutation API. All
// public methods are safe for concurrent use; a single mutex serializes
// writers so no caller can observe a partially-mutated tree.
type Store struct {
	mu          sync.Mutex
	collections map[string]*types.Collection
	provider    storage.Provider

	// verify enables the full index consistency check after every
	// mutation. Meant for tests and debug builds; it is O(n) per call.
	verify bool
}

// New returns a store backed by the given provider. A nil provider keeps
// everything in memory.
func New(provider storage.Provider) *Store {
	return &Store{
		collections: make(map[string]*types.Collection),
		provider:    provider,
	}
}

// EnableVerify turns on the post-mutation index verifier.
func (s *Store) EnableVerify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verify = true
}

// CreateCollection creates an empty collection with a root folder.
func (s *Store) CreateCollection(name string) (*types.Collection, error) {
	name = trimmed(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	c := &types.Collection{
		ID:   ident.New(),
		Name: name,
		Auth: &types.Auth{Type: types.AuthNone},
	}
	Normalize(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[c.ID] = c
	s.finish(c)
	return c.Clone(), nil
}

// Open returns the collection with the given id, loading it from the
// provider on first access. A collection that was never persisted is an
// expected condition and is default-constructed, not an error.
func (s *Store) Open(id string) (*types.Collection, error) {
	s.mu.Lock()
	if c, ok := s.collections[id]; ok {
		defer s.mu.Unlock()
		return c.Clone(), nil
	}
	s.mu.Unlock()

	// Provider I/O happens outside the critical section; the mutation
	// below never blocks on it.
	var loaded *types.Collection
	if s.provider != nil {
		c, err := s.provider.Load(id)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			// fall through to default construction
		case err != nil:
			return nil, fmt.Errorf("failed to load collection %s: %w", id, err)
		default:
			loaded = c
		}
	}
	if loaded == nil {
		loaded = &types.Collection{
			ID:   id,
			Name: "Scratch",
			Auth: &types.Auth{Type: types.AuthNone},
		}
	}
	loaded.ID = id
	Normalize(loaded)

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[id]; ok {
		// Another caller loaded it while we were reading; keep theirs.
		return c.Clone(), nil
	}
	s.collections[id] = loaded
	return loaded.Clone(), nil
}

// Collection returns a snapshot. The collection must be loaded.
func (s *Store) Collection(id string) *types.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection(id).Clone()
}

// Collections returns snapshots of every loaded collection.
func (s *Store) Collections() []*types.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c.Clone())
	}
	return out
}

// DeleteCollection drops a collection from the cache. The persisted copy
// is left to the provider's lifecycle.
func (s *Store) DeleteCollection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(id)
	delete(s.collections, id)
}

// ImportDocument converts a foreign document into a brand new collection:
// every id is re-minted, relative ordering is preserved, and the result
// is normalized before it becomes visible.
func (s *Store) ImportDocument(doc *types.Document, name string) (*types.Collection, error) {
	c, err := importer.BuildCollection(doc, name)
	if err != nil {
		return nil, err
	}
	Normalize(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[c.ID] = c
	s.finish(c)
	return c.Clone(), nil
}

// MergeDocument reconciles a document into an existing collection,
// matching requests by id first and content signature second. The merged
// tree is re-normalized before the store returns.
func (s *Store) MergeDocument(collectionID string, doc *types.Document) (types.MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)

	result, err := importer.Merge(c, doc)
	if err != nil {
		return types.MergeResult{}, err
	}
	Normalize(c)
	s.finish(c)
	return result, nil
}

// ExportDocument produces the export envelope for a loaded collection.
func (s *Store) ExportDocument(collectionID string) *types.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return importer.ExportDocument(s.collection(collectionID))
}

// Flush force-saves a collection through the provider.
func (s *Store) Flush(collectionID string) error {
	s.mu.Lock()
	c := s.collection(collectionID).Clone()
	s.mu.Unlock()
	if s.provider == nil {
		return nil
	}
	return s.provider.Save(c, true)
}

// collection returns the live entity or panics. Callers hold s.mu.
func (s *Store) collection(id string) *types.Collection {
	c, ok := s.collections[id]
	if !ok {
		panic(fmt.Sprintf("restdesk: unknown collection %s", id))
	}
	return c
}

// finish runs the post-mutation bookkeeping: optional index verification,
// the collection timestamp, and an opportunistic save. Callers hold s.mu.
func (s *Store) finish(c *types.Collection) {
	if s.verify {
		if err := verifyIndex(c); err != nil {
			panic(fmt.Sprintf("restdesk: index inconsistent after mutation: %v", err))
		}
	}
	c.Updated = time.Now().UnixMilli()
	if s.provider != nil {
		// Persistence is best-effort here; Flush exists for callers that
		// need a guaranteed write.
		_ = s.provider.Save(c, false)
	}
}

func folderOf(c *types.Collection, folderID string) *types.Folder {
	f, ok := c.Folders[folderID]
	if !ok {
		panic(fmt.Sprintf("restdesk: unknown folder %s in collection %s", folderID, c.ID))
	}
	return f
}

func requestOf(c *types.Collection, requestID string) *types.Request {
	r, ok := c.Requests[requestID]
	if !ok {
		panic(fmt.Sprintf("restdesk: unknown request %s in collection %s", requestID, c.ID))
	}
	return r
}
