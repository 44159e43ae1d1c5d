package importer

import (
	"sort"
	"strings"

	"github.com/studiowebux/restdesk/internal/types"
)

// Signature derives a content key used to match requests across systems
// that do not share entity ids.
func Signature(method, url string) string {
	return strings.ToUpper(strings.TrimSpace(method)) + "::" + strings.TrimSpace(url)
}

// Merge reconciles a document into an existing (live) collection. Each
// incoming request is matched by id first and content signature second;
// matches are updated in place, keeping their local position and any
// unsaved draft, while misses are inserted under their document folder,
// creating missing ancestor folders on the way. Incoming environments
// merge by id. The caller re-normalizes the collection afterwards.
func Merge(c *types.Collection, doc *types.Document) (types.MergeResult, error) {
	var result types.MergeResult
	if err := validate(doc); err != nil {
		return result, err
	}
	src := doc.Collection.Clone()

	// Signature index over the existing requests. Matches consume their
	// entry so two incoming requests can never claim the same local one.
	sigIndex := make(map[string]string, len(c.Requests))
	for _, id := range sortedIDs(c.Requests) {
		r := c.Requests[id]
		sig := Signature(r.Method, r.URL)
		if _, taken := sigIndex[sig]; !taken {
			sigIndex[sig] = id
		}
	}

	// Highest request order per folder, for appending inserts.
	maxOrder := make(map[string]int)
	for _, r := range c.Requests {
		if r.Order > maxOrder[r.FolderID] {
			maxOrder[r.FolderID] = r.Order
		}
	}

	resolver := &folderResolver{c: c, src: src, result: &result}
	for _, id := range sortedIDs(src.Requests) {
		incoming := src.Requests[id]

		if existing, ok := c.Requests[incoming.ID]; ok {
			consumeSignature(sigIndex, existing)
			mergeRequest(existing, incoming)
			result.RequestsUpdated++
			continue
		}
		if existingID, ok := sigIndex[Signature(incoming.Method, incoming.URL)]; ok {
			existing := c.Requests[existingID]
			consumeSignature(sigIndex, existing)
			mergeRequest(existing, incoming)
			result.RequestsUpdated++
			continue
		}

		folderID := resolver.resolve(incoming.FolderID, nil)
		incoming.CollectionID = c.ID
		incoming.FolderID = folderID
		maxOrder[folderID]++
		incoming.Order = maxOrder[folderID]
		if incoming.Patch == nil {
			incoming.Patch = &types.RequestPatch{}
		}
		c.Requests[incoming.ID] = incoming
		result.RequestsAdded++
	}

	for _, id := range sortedIDs(src.Environments) {
		incoming := src.Environments[id]
		if existing, ok := c.Environments[incoming.ID]; ok {
			existing.Name = incoming.Name
			existing.Variables = incoming.Variables
			result.EnvironmentsUpdated++
			continue
		}
		if c.Environments == nil {
			c.Environments = make(map[string]*types.Environment)
		}
		c.Environments[incoming.ID] = incoming
		result.EnvironmentsAdded++
	}

	return result, nil
}

// consumeSignature drops the existing request's signature entry if it is
// the one holding it, so later incoming requests cannot match a request
// that was already claimed.
func consumeSignature(sigIndex map[string]string, existing *types.Request) {
	sig := Signature(existing.Method, existing.URL)
	if sigIndex[sig] == existing.ID {
		delete(sigIndex, sig)
	}
}

// mergeRequest folds incoming content onto an existing request while
// preserving its identity, tree position and unsaved draft.
func mergeRequest(existing, incoming *types.Request) {
	existing.Name = incoming.Name
	if incoming.Kind != "" {
		existing.Kind = incoming.Kind
	}
	existing.Method = incoming.Method
	existing.URL = incoming.URL
	existing.Params = incoming.Params
	existing.Query = incoming.Query
	existing.Headers = incoming.Headers
	existing.Cookies = incoming.Cookies
	existing.Body = incoming.Body
	existing.Auth = incoming.Auth
	existing.Options = incoming.Options
	existing.Updated++
}

// folderResolver maps document folder ids onto the live collection,
// creating missing folders (ancestors first) with the names and orders
// the document recorded.
type folderResolver struct {
	c      *types.Collection
	src    *types.Collection
	result *types.MergeResult
}

func (fr *folderResolver) resolve(srcFolderID string, visiting map[string]bool) string {
	if srcFolderID == "" || srcFolderID == types.RootFolderID {
		return types.RootFolderID
	}
	if _, ok := fr.c.Folders[srcFolderID]; ok {
		return srcFolderID
	}
	srcFolder, ok := fr.src.Folders[srcFolderID]
	if !ok {
		return types.RootFolderID
	}
	// A cyclic document chain falls back to root rather than recursing
	// forever; normalization would reject the cycle anyway.
	if visiting[srcFolderID] {
		return types.RootFolderID
	}
	if visiting == nil {
		visiting = make(map[string]bool)
	}
	visiting[srcFolderID] = true

	parentID := fr.resolve(srcFolder.ParentID, visiting)
	created := &types.Folder{
		ID:       srcFolderID,
		Name:     srcFolder.Name,
		ParentID: parentID,
		Order:    srcFolder.Order,
	}
	fr.c.Folders[srcFolderID] = created
	parent := fr.c.Folders[parentID]
	parent.Folders = append(parent.Folders, srcFolderID)
	fr.result.FoldersCreated++
	return srcFolderID
}

func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
