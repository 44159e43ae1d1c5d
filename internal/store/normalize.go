package store

import (
	"sort"

	"github.com/studiowebux/restdesk/internal/tree"
	"github.com/studiowebux/restdesk/internal/types"
)

// Normalize repairs a collection of unknown provenance until every
// structural invariant holds: the root folder exists, every folder
// reaches the root without cycles, child and request lists mirror the
// back-references that own them, sibling orders are dense, and the
// request index matches the tree. The pass is idempotent; normalizing a
// normalized collection changes nothing.
func Normalize(c *types.Collection) {
	if c.Folders == nil {
		c.Folders = make(map[string]*types.Folder)
	}
	if c.Requests == nil {
		c.Requests = make(map[string]*types.Request)
	}
	if c.Environments == nil {
		c.Environments = make(map[string]*types.Environment)
	}
	if c.Auth == nil {
		c.Auth = &types.Auth{Type: types.AuthNone}
	}

	root, ok := c.Folders[types.RootFolderID]
	if !ok {
		root = &types.Folder{ID: types.RootFolderID, Name: "Root"}
		c.Folders[types.RootFolderID] = root
	}
	root.ID = types.RootFolderID
	root.ParentID = ""

	folderIDs := sortedFolderIDs(c)

	// Reparent orphans: a missing parent or a self-reference goes to root.
	for _, id := range folderIDs {
		if id == types.RootFolderID {
			continue
		}
		f := c.Folders[id]
		f.ID = id
		if f.ParentID == id {
			f.ParentID = types.RootFolderID
			continue
		}
		if _, exists := c.Folders[f.ParentID]; f.ParentID == "" || !exists {
			f.ParentID = types.RootFolderID
		}
	}

	// Break cycles. Folders are visited in sorted order, so repairs are
	// deterministic: the smallest id in a cycle gets reparented to root,
	// which un-breaks the rest of the cycle's members.
	for _, id := range folderIDs {
		if id == types.RootFolderID {
			continue
		}
		if _, err := tree.Ancestry(c.Folders, id); err != nil {
			c.Folders[id].ParentID = types.RootFolderID
		}
	}

	// Rebuild every child list strictly from the parent back-references;
	// stored child lists are never trusted.
	children := make(map[string][]string, len(c.Folders))
	for _, id := range folderIDs {
		if id == types.RootFolderID {
			continue
		}
		parentID := c.Folders[id].ParentID
		children[parentID] = append(children[parentID], id)
	}
	for _, id := range folderIDs {
		f := c.Folders[id]
		siblings := children[id]
		sort.SliceStable(siblings, func(i, j int) bool {
			a, b := c.Folders[siblings[i]], c.Folders[siblings[j]]
			if a.Order != b.Order {
				return a.Order < b.Order
			}
			return a.Name < b.Name
		})
		f.Folders = siblings
		tree.ResequenceFolders(c.Folders, f)
	}

	// Repair request ownership and assign fallback orders.
	requestIDs := sortedRequestIDs(c)
	maxOrder := make(map[string]int)
	for _, id := range requestIDs {
		r := c.Requests[id]
		r.ID = id
		r.CollectionID = c.ID
		if _, exists := c.Folders[r.FolderID]; r.FolderID == "" || !exists {
			r.FolderID = types.RootFolderID
		}
		if r.Order > maxOrder[r.FolderID] {
			maxOrder[r.FolderID] = r.Order
		}
	}
	for _, id := range requestIDs {
		r := c.Requests[id]
		if r.Order <= 0 {
			maxOrder[r.FolderID]++
			r.Order = maxOrder[r.FolderID]
		}
		if r.Kind == "" {
			r.Kind = types.KindHTTP
		}
		if r.Patch == nil {
			r.Patch = &types.RequestPatch{}
		}
	}

	// Rebuild request lists from the requests that reference each folder,
	// sorted by (order, id) so ties stay deterministic.
	owned := make(map[string][]string, len(c.Folders))
	for _, id := range requestIDs {
		r := c.Requests[id]
		owned[r.FolderID] = append(owned[r.FolderID], id)
	}
	for _, id := range folderIDs {
		f := c.Folders[id]
		requests := owned[id]
		sort.SliceStable(requests, func(i, j int) bool {
			a, b := c.Requests[requests[i]], c.Requests[requests[j]]
			if a.Order != b.Order {
				return a.Order < b.Order
			}
			return a.ID < b.ID
		})
		f.Requests = requests
		tree.ResequenceRequests(c.Requests, f)
	}

	rebuildIndex(c)
}

func sortedFolderIDs(c *types.Collection) []string {
	ids := make([]string, 0, len(c.Folders))
	for id := range c.Folders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedRequestIDs(c *types.Collection) []string {
	ids := make([]string, 0, len(c.Requests))
	for id := range c.Requests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
