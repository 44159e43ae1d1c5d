package store

import (
	"fmt"

	"github.com/studiowebux/restdesk/internal/tree"
	"github.com/studiowebux/restdesk/internal/types"
)

// rebuildIndex recomputes every request's index entry in one O(n) pass.
func rebuildIndex(c *types.Collection) {
	c.Index = make(map[string]*types.IndexEntry, len(c.Requests))
	ancestries := make(map[string][]string, len(c.Folders))
	for id, r := range c.Requests {
		ancestry, ok := ancestries[r.FolderID]
		if !ok {
			ancestry = mustAncestry(c, r.FolderID)
			ancestries[r.FolderID] = ancestry
		}
		c.Index[id] = &types.IndexEntry{FolderID: r.FolderID, Ancestry: ancestry}
	}
}

// updateIndexEntry recomputes a single request's entry, after its folder
// membership changed.
func updateIndexEntry(c *types.Collection, requestID string) {
	r := requestOf(c, requestID)
	c.Index[requestID] = &types.IndexEntry{
		FolderID: r.FolderID,
		Ancestry: mustAncestry(c, r.FolderID),
	}
}

// updateIndexSubtree refreshes the entry of every request under folderID,
// after the whole subtree's ancestry changed (a folder move).
func updateIndexSubtree(c *types.Collection, folderID string) {
	for _, id := range tree.Subtree(c.Folders, folderID) {
		folder := c.Folders[id]
		ancestry := mustAncestry(c, id)
		for _, requestID := range folder.Requests {
			c.Index[requestID] = &types.IndexEntry{FolderID: id, Ancestry: ancestry}
		}
	}
}

// verifyIndex recomputes every entry from the live tree and compares.
// Used by the debug verifier after each mutation.
func verifyIndex(c *types.Collection) error {
	if len(c.Index) != len(c.Requests) {
		return fmt.Errorf("index has %d entries for %d requests", len(c.Index), len(c.Requests))
	}
	for id, r := range c.Requests {
		entry, ok := c.Index[id]
		if !ok {
			return fmt.Errorf("request %s missing from index", id)
		}
		if entry.FolderID != r.FolderID {
			return fmt.Errorf("request %s indexed under folder %s, owned by %s", id, entry.FolderID, r.FolderID)
		}
		ancestry, err := tree.Ancestry(c.Folders, r.FolderID)
		if err != nil {
			return err
		}
		if len(ancestry) != len(entry.Ancestry) {
			return fmt.Errorf("request %s ancestry length %d, expected %d", id, len(entry.Ancestry), len(ancestry))
		}
		for i := range ancestry {
			if ancestry[i] != entry.Ancestry[i] {
				return fmt.Errorf("request %s ancestry diverges at %d: %s != %s", id, i, entry.Ancestry[i], ancestry[i])
			}
		}
	}
	return nil
}

// mustAncestry resolves a folder's ancestry on a tree that already passed
// normalization. A failure here means the tree was corrupted after the
// fact, which is fatal.
func mustAncestry(c *types.Collection, folderID string) []string {
	ancestry, err := tree.Ancestry(c.Folders, folderID)
	if err != nil {
		panic(fmt.Sprintf("restdesk: corrupted tree in collection %s: %v", c.ID, err))
	}
	return ancestry
}
