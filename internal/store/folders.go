package store

import (
	"fmt"
	"strings"

	"github.com/studiowebux/restdesk/internal/ident"
	"github.com/studiowebux/restdesk/internal/tree"
	"github.com/studiowebux/restdesk/internal/types"
)

// CreateFolder appends a new folder under parentID and returns its id.
func (s *Store) CreateFolder(collectionID, parentID, name string) (string, error) {
	name = trimmed(name)
	if name == "" {
		return "", ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	parent := folderOf(c, parentID)

	folder := &types.Folder{
		ID:       ident.New(),
		Name:     name,
		ParentID: parentID,
	}
	c.Folders[folder.ID] = folder
	parent.Folders = append(parent.Folders, folder.ID)
	tree.ResequenceFolders(c.Folders, parent)

	s.finish(c)
	return folder.ID, nil
}

// RenameFolder changes a folder's display name. The root folder cannot be
// renamed.
func (s *Store) RenameFolder(collectionID, folderID, name string) error {
	name = trimmed(name)
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	if folderID == types.RootFolderID {
		panic("restdesk: cannot rename the root folder")
	}
	folderOf(c, folderID).Name = name
	s.finish(c)
	return nil
}

// DeleteFolder removes a folder, every folder beneath it, and every
// request owned by that subtree.
func (s *Store) DeleteFolder(collectionID, folderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	if folderID == types.RootFolderID {
		panic("restdesk: cannot delete the root folder")
	}
	folder := folderOf(c, folderID)

	subtree := tree.Subtree(c.Folders, folderID)
	for _, id := range subtree {
		for _, requestID := range c.Folders[id].Requests {
			delete(c.Requests, requestID)
			delete(c.Index, requestID)
		}
	}

	parent := folderOf(c, folder.ParentID)
	parent.Folders = removeID(parent.Folders, folderID)
	for _, id := range subtree {
		delete(c.Folders, id)
	}
	tree.ResequenceFolders(c.Folders, parent)

	s.finish(c)
}

// MoveFolder reparents a folder, placing it at position among the new
// parent's children (a negative or out-of-range position appends). Moves
// that would put a folder inside itself or its own subtree are rejected
// and leave the tree untouched.
func (s *Store) MoveFolder(collectionID, folderID, newParentID string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	if folderID == types.RootFolderID {
		panic("restdesk: cannot move the root folder")
	}
	folder := folderOf(c, folderID)
	newParent := folderOf(c, newParentID)

	// Validation happens in full before any structural change.
	if folderID == newParentID || tree.WouldCreateCycle(c.Folders, folderID, newParentID) {
		return fmt.Errorf("move folder %s under %s: %w", folderID, newParentID, ErrCycle)
	}

	oldParent := folderOf(c, folder.ParentID)
	oldParent.Folders = removeID(oldParent.Folders, folderID)
	tree.ResequenceFolders(c.Folders, oldParent)

	newParent.Folders = insertID(newParent.Folders, folderID, position)
	folder.ParentID = newParentID
	tree.ResequenceFolders(c.Folders, newParent)

	// Every descendant's ancestry changed with the move.
	updateIndexSubtree(c, folderID)

	s.finish(c)
	return nil
}

// ReorderFolders rearranges parentID's children to match orderedIDs. Ids
// that are not current children are ignored, and children missing from
// orderedIDs keep their relative order at the end.
func (s *Store) ReorderFolders(collectionID, parentID string, orderedIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	parent := folderOf(c, parentID)

	parent.Folders = mergeOrder(parent.Folders, orderedIDs)
	tree.ResequenceFolders(c.Folders, parent)

	s.finish(c)
}

// mergeOrder filters requested to ids present in current, then appends
// any current ids the request left out, preserving their relative order.
func mergeOrder(current, requested []string) []string {
	existing := make(map[string]bool, len(current))
	for _, id := range current {
		existing[id] = true
	}
	merged := make([]string, 0, len(current))
	seen := make(map[string]bool, len(current))
	for _, id := range requested {
		if existing[id] && !seen[id] {
			merged = append(merged, id)
			seen[id] = true
		}
	}
	for _, id := range current {
		if !seen[id] {
			merged = append(merged, id)
		}
	}
	return merged
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// insertID places id at position, clamping to the ends. Negative
// positions append.
func insertID(ids []string, id string, position int) []string {
	if position < 0 || position >= len(ids) {
		return append(ids, id)
	}
	ids = append(ids, "")
	copy(ids[position+1:], ids[position:])
	ids[position] = id
	return ids
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
