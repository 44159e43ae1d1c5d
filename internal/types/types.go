package types

import "time"

// RootFolderID is the id of the distinguished root folder that every
// collection owns. The root always exists, has no parent, and cannot be
// deleted, renamed or moved.
const RootFolderID = "root"

// Request kinds.
const (
	KindHTTP      = "http"
	KindWebSocket = "websocket"
)

// Collection is the canonical container for folders, requests and
// environments. It is owned exclusively by the store; external callers
// only ever see deep-copied snapshots.
type Collection struct {
	ID           string                  `json:"id" yaml:"id"`
	Name         string                  `json:"name" yaml:"name"`
	Description  string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Updated      int64                   `json:"updated" yaml:"updated"` // last modified, unix milliseconds
	Auth         *Auth                   `json:"authentication,omitempty" yaml:"authentication,omitempty"`
	Environments map[string]*Environment `json:"environments,omitempty" yaml:"environments,omitempty"`
	Folders      map[string]*Folder      `json:"folders" yaml:"folders"`
	Requests     map[string]*Request     `json:"requests" yaml:"requests"`

	// Index is a denormalized request lookup cache. It is rebuilt from the
	// tree and never serialized.
	Index map[string]*IndexEntry `json:"-" yaml:"-"`
}

// Folder is a node in the collection tree. Children and requests are kept
// as ordered id lists; ParentID is the authoritative back-reference used
// when the tree is rebuilt.
type Folder struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	ParentID string   `json:"parentId,omitempty" yaml:"parentId,omitempty"` // empty only for the root folder
	Order    int      `json:"order" yaml:"order"`                           // 1-based position among siblings
	Folders  []string `json:"childFolderIds,omitempty" yaml:"childFolderIds,omitempty"`
	Requests []string `json:"requestIds,omitempty" yaml:"requestIds,omitempty"`
}

// Request is a single HTTP or WebSocket request definition. Base fields
// hold the last committed state; Patch holds unsaved edits layered on top.
type Request struct {
	ID           string `json:"id" yaml:"id"`
	CollectionID string `json:"collectionId" yaml:"collectionId"`
	FolderID     string `json:"folderId" yaml:"folderId"`
	Order        int    `json:"order" yaml:"order"` // 1-based position within the folder
	Name         string `json:"name" yaml:"name"`
	Kind         string `json:"kind,omitempty" yaml:"kind,omitempty"` // http (default) or websocket
	Method       string `json:"method" yaml:"method"`
	URL          string `json:"url" yaml:"url"`

	Params  *ParamMap `json:"params,omitempty" yaml:"params,omitempty"` // path parameters
	Query   *ParamMap `json:"query,omitempty" yaml:"query,omitempty"`
	Headers *ParamMap `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies *ParamMap `json:"cookies,omitempty" yaml:"cookies,omitempty"`

	Body    *Body          `json:"body,omitempty" yaml:"body,omitempty"`
	Auth    *Auth          `json:"authentication,omitempty" yaml:"authentication,omitempty"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"` // free-form client options

	// Updated is a monotonically increasing counter bumped on every change
	// to base or patch. Consumers use it to invalidate derived views.
	Updated int64 `json:"updated" yaml:"updated"`

	// Patch holds unsaved edits. It is always present after normalization;
	// "no draft" is an empty patch, never a nil one.
	Patch *RequestPatch `json:"patch" yaml:"patch"`
}

// RequestPatch is a sparse overlay of unsaved edits on a request. A nil
// field means "unchanged". The keyed maps, when present, are full
// replacements for their base counterparts: a key deleted from the patch
// map is a tombstone for the matching base entry.
type RequestPatch struct {
	Name   *string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind   *string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Method *string `json:"method,omitempty" yaml:"method,omitempty"`
	URL    *string `json:"url,omitempty" yaml:"url,omitempty"`

	Params  *ParamMap `json:"params,omitempty" yaml:"params,omitempty"`
	Query   *ParamMap `json:"query,omitempty" yaml:"query,omitempty"`
	Headers *ParamMap `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies *ParamMap `json:"cookies,omitempty" yaml:"cookies,omitempty"`

	Body    *BodyPatch     `json:"body,omitempty" yaml:"body,omitempty"`
	Auth    *Auth          `json:"authentication,omitempty" yaml:"authentication,omitempty"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// IsEmpty reports whether the patch carries no staged edit.
func (p *RequestPatch) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Name == nil && p.Kind == nil && p.Method == nil && p.URL == nil &&
		p.Params == nil && p.Query == nil && p.Headers == nil && p.Cookies == nil &&
		p.Body == nil && p.Auth == nil && p.Options == nil
}

// IndexEntry locates a request inside the tree without walking it.
type IndexEntry struct {
	FolderID string
	Ancestry []string // folder ids from root to FolderID, inclusive
}

// Environment is a named set of variables scoped to a collection.
type Environment struct {
	ID        string            `json:"id" yaml:"id"`
	Name      string            `json:"name" yaml:"name"`
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Body type tags.
const (
	BodyNone   = "none"
	BodyText   = "text"
	BodyForm   = "form"
	BodyBinary = "binary"
)

// Form encodings.
const (
	EncodingURL       = "urlencoded"
	EncodingMultipart = "multipart"
)

// Body is the tagged request body variant. Only the fields matching Type
// are meaningful.
type Body struct {
	Type        string    `json:"type" yaml:"type"`
	Language    string    `json:"language,omitempty" yaml:"language,omitempty"` // text
	Content     string    `json:"content,omitempty" yaml:"content,omitempty"`   // text
	Encoding    string    `json:"encoding,omitempty" yaml:"encoding,omitempty"` // form
	FormData    *ParamMap `json:"formData,omitempty" yaml:"formData,omitempty"` // form
	FilePath    string    `json:"filePath,omitempty" yaml:"filePath,omitempty"` // binary
	FileName    string    `json:"fileName,omitempty" yaml:"fileName,omitempty"` // binary
	ContentType string    `json:"contentType,omitempty" yaml:"contentType,omitempty"`
}

// BodyPatch is the sparse overlay for Body. Scalar fields follow the same
// semantics as RequestPatch scalars; FormData is a full-replacement keyed
// map like the parameter maps.
type BodyPatch struct {
	Type        *string   `json:"type,omitempty" yaml:"type,omitempty"`
	Language    *string   `json:"language,omitempty" yaml:"language,omitempty"`
	Content     *string   `json:"content,omitempty" yaml:"content,omitempty"`
	Encoding    *string   `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	FormData    *ParamMap `json:"formData,omitempty" yaml:"formData,omitempty"`
	FilePath    *string   `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	FileName    *string   `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	ContentType *string   `json:"contentType,omitempty" yaml:"contentType,omitempty"`
}

// IsEmpty reports whether no body field is staged.
func (b *BodyPatch) IsEmpty() bool {
	if b == nil {
		return true
	}
	return b.Type == nil && b.Language == nil && b.Content == nil && b.Encoding == nil &&
		b.FormData == nil && b.FilePath == nil && b.FileName == nil && b.ContentType == nil
}

// Document format identifiers for exported collections.
const (
	DocumentFormat  = "native"
	DocumentVersion = "1.0"
)

// Document is the export/import envelope exchanged with other
// installations and converters. Folders and requests inside it are not
// trusted to satisfy invariants until normalized.
type Document struct {
	Format     string      `json:"format" yaml:"format"`
	Version    string      `json:"version" yaml:"version"`
	ExportedAt time.Time   `json:"exportedAt" yaml:"exportedAt"`
	Collection *Collection `json:"collection" yaml:"collection"`
}

// MergeResult reports what a merge changed.
type MergeResult struct {
	RequestsAdded       int `json:"requestsAdded"`
	RequestsUpdated     int `json:"requestsUpdated"`
	EnvironmentsAdded   int `json:"environmentsAdded"`
	EnvironmentsUpdated int `json:"environmentsUpdated"`
	FoldersCreated      int `json:"foldersCreated"`
}
