// Package ident generates identifiers for collections, folders, requests
// and parameter entries. IDs are lowercase ULIDs: sortable by creation
// time and safe to mint from concurrent callers.
package ident

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh entity id.
func New() string {
	return strings.ToLower(ulid.Make().String())
}
