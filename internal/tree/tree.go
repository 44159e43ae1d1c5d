// Package tree holds the folder-tree primitives: ancestry chains, cycle
// detection, sibling resequencing and subtree traversal. Functions here
// operate on the raw folder/request maps and assume nothing about
// invariants beyond what each function documents; callers that need a
// trusted tree run the normalizer first.
package tree

import (
	"fmt"

	"github.com/studiowebux/restdesk/internal/types"
)

// Ancestry returns the folder ids from the root to folderID, inclusive.
// The walk follows ParentID links and gives up after len(folders)+1 steps,
// which can only happen on a corrupted (cyclic) tree.
func Ancestry(folders map[string]*types.Folder, folderID string) ([]string, error) {
	var chain []string
	guard := len(folders) + 1
	currentID := folderID
	for steps := 0; ; steps++ {
		if steps > guard {
			return nil, fmt.Errorf("cycle detected walking ancestry of folder %s", folderID)
		}
		folder, ok := folders[currentID]
		if !ok {
			return nil, fmt.Errorf("folder %s not found walking ancestry of %s", currentID, folderID)
		}
		chain = append(chain, currentID)
		if folder.ParentID == "" {
			break
		}
		currentID = folder.ParentID
	}
	// The walk collected leaf-to-root; reverse in place.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// WouldCreateCycle reports whether moving movingID under targetParentID
// would make the folder its own ancestor.
func WouldCreateCycle(folders map[string]*types.Folder, movingID, targetParentID string) bool {
	ancestry, err := Ancestry(folders, targetParentID)
	if err != nil {
		// An already-broken target chain is treated as a cycle; the move
		// must be rejected either way.
		return true
	}
	for _, id := range ancestry {
		if id == movingID {
			return true
		}
	}
	return false
}

// ResequenceFolders renumbers the parent's child folders 1..N following
// the order of the parent's child list.
func ResequenceFolders(folders map[string]*types.Folder, parent *types.Folder) {
	for i, childID := range parent.Folders {
		if child, ok := folders[childID]; ok {
			child.Order = i + 1
		}
	}
}

// ResequenceRequests renumbers the folder's requests 1..N following the
// order of the folder's request list.
func ResequenceRequests(requests map[string]*types.Request, folder *types.Folder) {
	for i, requestID := range folder.Requests {
		if request, ok := requests[requestID]; ok {
			request.Order = i + 1
		}
	}
}

// Subtree returns rootID followed by every descendant folder id,
// breadth-first. Unknown children are skipped.
func Subtree(folders map[string]*types.Folder, rootID string) []string {
	var result []string
	visited := map[string]bool{}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		folder, ok := folders[id]
		if !ok {
			continue
		}
		result = append(result, id)
		queue = append(queue, folder.Folders...)
	}
	return result
}
