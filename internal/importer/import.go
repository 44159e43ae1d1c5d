package importer

import (
	"sort"

	"github.com/studiowebux/restdesk/internal/ident"
	"github.com/studiowebux/restdesk/internal/types"
)

// BuildCollection turns a document into a brand-new collection: a fresh
// collection id, every folder/request/environment id re-minted, parent
// and folder references rewritten, and relative ordering carried over
// through the order fields. The caller normalizes the result before
// trusting it.
func BuildCollection(doc *types.Document, name string) (*types.Collection, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}
	src := doc.Collection.Clone()
	if name == "" {
		name = src.Name
	}

	c := &types.Collection{
		ID:          ident.New(),
		Name:        name,
		Description: src.Description,
		Auth:        src.Auth,
		Folders:     make(map[string]*types.Folder, len(src.Folders)),
		Requests:    make(map[string]*types.Request, len(src.Requests)),
	}

	// Remap folder ids first so request references can be rewritten. The
	// incoming root becomes the local root.
	folderIDs := make([]string, 0, len(src.Folders))
	for id := range src.Folders {
		folderIDs = append(folderIDs, id)
	}
	sort.Strings(folderIDs)

	folderMap := map[string]string{types.RootFolderID: types.RootFolderID}
	for _, oldID := range folderIDs {
		if oldID == types.RootFolderID {
			continue
		}
		folderMap[oldID] = ident.New()
	}
	for _, oldID := range folderIDs {
		f := src.Folders[oldID]
		newID := folderMap[oldID]
		c.Folders[newID] = &types.Folder{
			ID:       newID,
			Name:     f.Name,
			ParentID: folderMap[f.ParentID], // unmapped parents resolve to "" and are repaired by normalization
			Order:    f.Order,
		}
	}

	requestIDs := make([]string, 0, len(src.Requests))
	for id := range src.Requests {
		requestIDs = append(requestIDs, id)
	}
	sort.Strings(requestIDs)
	for _, oldID := range requestIDs {
		r := src.Requests[oldID]
		r.ID = ident.New()
		r.CollectionID = c.ID
		r.FolderID = folderMap[r.FolderID]
		c.Requests[r.ID] = r
	}

	if len(src.Environments) > 0 {
		c.Environments = make(map[string]*types.Environment, len(src.Environments))
		for _, env := range src.Environments {
			env.ID = ident.New()
			c.Environments[env.ID] = env
		}
	}
	return c, nil
}
