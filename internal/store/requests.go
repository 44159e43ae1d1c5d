package store

import (
	"github.com/studiowebux/restdesk/internal/ident"
	"github.com/studiowebux/restdesk/internal/patch"
	"github.com/studiowebux/restdesk/internal/tree"
	"github.com/studiowebux/restdesk/internal/types"
)

// CreateRequest appends a new request to folderID (the root when empty)
// and returns its id.
func (s *Store) CreateRequest(collectionID, folderID, name, method, url string) (string, error) {
	name = trimmed(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if folderID == "" {
		folderID = types.RootFolderID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	folder := folderOf(c, folderID)

	r := &types.Request{
		ID:           ident.New(),
		CollectionID: collectionID,
		FolderID:     folderID,
		Name:         name,
		Kind:         types.KindHTTP,
		Method:       method,
		URL:          url,
		Patch:        &types.RequestPatch{},
	}
	c.Requests[r.ID] = r
	folder.Requests = append(folder.Requests, r.ID)
	tree.ResequenceRequests(c.Requests, folder)
	updateIndexEntry(c, r.ID)

	s.finish(c)
	return r.ID, nil
}

// Request returns a snapshot of one request.
func (s *Store) Request(collectionID, requestID string) *types.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return requestOf(s.collection(collectionID), requestID).Clone()
}

// DeleteRequest removes a request from its folder, the index, and the
// collection.
func (s *Store) DeleteRequest(collectionID, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	r := requestOf(c, requestID)

	folder := folderOf(c, r.FolderID)
	folder.Requests = removeID(folder.Requests, requestID)
	tree.ResequenceRequests(c.Requests, folder)
	delete(c.Index, requestID)
	delete(c.Requests, requestID)

	s.finish(c)
}

// MoveRequestToFolder moves a request into targetFolderID at position (a
// negative or out-of-range position appends). Both folders' orders stay
// dense and the moved request's index entry is refreshed.
func (s *Store) MoveRequestToFolder(collectionID, requestID, targetFolderID string, position int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	r := requestOf(c, requestID)
	target := folderOf(c, targetFolderID)

	source := folderOf(c, r.FolderID)
	source.Requests = removeID(source.Requests, requestID)
	tree.ResequenceRequests(c.Requests, source)

	target.Requests = insertID(target.Requests, requestID, position)
	r.FolderID = targetFolderID
	tree.ResequenceRequests(c.Requests, target)
	updateIndexEntry(c, requestID)

	s.finish(c)
}

// ReorderRequests rearranges a folder's requests to match orderedIDs,
// with the same defensive merge as folder reordering.
func (s *Store) ReorderRequests(collectionID, folderID string, orderedIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	folder := folderOf(c, folderID)

	folder.Requests = mergeOrder(folder.Requests, orderedIDs)
	tree.ResequenceRequests(c.Requests, folder)

	s.finish(c)
}

// UpdateRequestPatch stages draft edits on a request without touching its
// base fields.
func (s *Store) UpdateRequestPatch(collectionID, requestID string, u *patch.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	patch.Apply(requestOf(c, requestID), u)
	s.finish(c)
}

// CommitRequestPatch merges the draft into the base and clears it.
func (s *Store) CommitRequestPatch(collectionID, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	patch.Commit(requestOf(c, requestID))
	s.finish(c)
}

// DiscardRequestPatch drops the draft unconditionally.
func (s *Store) DiscardRequestPatch(collectionID, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	patch.Discard(requestOf(c, requestID))
	s.finish(c)
}

// EffectiveRequest returns the request as the execution pipeline should
// see it: base with the draft applied.
func (s *Store) EffectiveRequest(collectionID, requestID string) *types.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return patch.EffectiveView(requestOf(s.collection(collectionID), requestID))
}
