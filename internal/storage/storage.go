// Package storage defines the persistence contract the collection store
// depends on, plus two providers: a JSON filestore and a SQLite store
// with versioned schema migrations. The core never assumes synchronous
// persistence; providers are free to debounce or skip unchanged saves.
package storage

import (
	"errors"
	"time"

	"github.com/studiowebux/restdesk/internal/types"
)

// ErrNotFound is returned by Load when no collection exists under the
// given id. First access to a never-saved collection is an expected
// condition, not a failure; callers default-construct instead.
var ErrNotFound = errors.New("collection not found")

// Provider persists collections. Implementations must tolerate receiving
// already-migrated payloads and may decline unchanged, unforced saves.
type Provider interface {
	// Key identifies the provider backend (for diagnostics).
	Key() string

	// Load returns the persisted collection or ErrNotFound.
	Load(id string) (*types.Collection, error)

	// Save persists the collection. Unless force is set, the provider may
	// skip the write when ShouldSave reports no change or the throttle
	// window has not elapsed.
	Save(c *types.Collection, force bool) error

	// ShouldSave reports whether next differs from prev in a way worth
	// persisting.
	ShouldSave(prev, next *types.Collection) bool

	// ThrottleWait is the minimum interval between unforced saves of the
	// same collection.
	ThrottleWait() time.Duration

	// List returns the ids of every persisted collection.
	List() ([]string, error)
}
