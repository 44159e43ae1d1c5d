package store

import (
	"reflect"
	"testing"

	"github.com/studiowebux/restdesk/internal/types"
)

func TestNormalizeCreatesRoot(t *testing.T) {
	c := &types.Collection{ID: "c1", Name: "Bare"}

	Normalize(c)

	root, ok := c.Folders[types.RootFolderID]
	if !ok {
		t.Fatal("Expected root folder created")
	}
	if root.ParentID != "" {
		t.Errorf("Expected root without parent, got %q", root.ParentID)
	}
	if c.Requests == nil || c.Environments == nil {
		t.Error("Expected maps initialized")
	}
	if c.Auth == nil || c.Auth.Type != types.AuthNone {
		t.Errorf("Expected default auth none, got %+v", c.Auth)
	}
}

func TestNormalizeReparentsOrphans(t *testing.T) {
	c := &types.Collection{
		ID: "c1",
		Folders: map[string]*types.Folder{
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
			"orphan":           {ID: "orphan", Name: "Orphan", ParentID: "ghost"},
			"selfref":          {ID: "selfref", Name: "Selfref", ParentID: "selfref"},
		},
	}

	Normalize(c)

	if c.Folders["orphan"].ParentID != types.RootFolderID {
		t.Errorf("Expected orphan reparented to root, got %q", c.Folders["orphan"].ParentID)
	}
	if c.Folders["selfref"].ParentID != types.RootFolderID {
		t.Errorf("Expected self-reference reparented to root, got %q", c.Folders["selfref"].ParentID)
	}
}

func TestNormalizeBreaksCyclesDeterministically(t *testing.T) {
	build := func() *types.Collection {
		return &types.Collection{
			ID: "c1",
			Folders: map[string]*types.Folder{
				types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
				"fa":               {ID: "fa", Name: "FA", ParentID: "fb"},
				"fb":               {ID: "fb", Name: "FB", ParentID: "fa"},
			},
		}
	}

	first := build()
	Normalize(first)

	// The smallest id in the cycle lands on the root; the other keeps its
	// parent, which is now reachable.
	if first.Folders["fa"].ParentID != types.RootFolderID {
		t.Errorf("Expected fa reparented to root, got %q", first.Folders["fa"].ParentID)
	}
	if first.Folders["fb"].ParentID != "fa" {
		t.Errorf("Expected fb to keep parent fa, got %q", first.Folders["fb"].ParentID)
	}

	// The repair is deterministic across runs.
	second := build()
	Normalize(second)
	if first.Folders["fa"].ParentID != second.Folders["fa"].ParentID ||
		first.Folders["fb"].ParentID != second.Folders["fb"].ParentID {
		t.Error("Expected identical repair on identical input")
	}
}

func TestNormalizeRebuildsChildListsFromBackRefs(t *testing.T) {
	c := &types.Collection{
		ID: "c1",
		Folders: map[string]*types.Folder{
			// The stored child list is stale and wrong on purpose.
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root", Folders: []string{"ghost", "fb"}},
			"fa":               {ID: "fa", Name: "FA", ParentID: types.RootFolderID, Order: 2},
			"fb":               {ID: "fb", Name: "FB", ParentID: types.RootFolderID, Order: 1},
		},
	}

	Normalize(c)

	got := c.Folders[types.RootFolderID].Folders
	if !reflect.DeepEqual(got, []string{"fb", "fa"}) {
		t.Errorf("Expected children [fb fa] from back-refs and order, got %v", got)
	}
	if c.Folders["fb"].Order != 1 || c.Folders["fa"].Order != 2 {
		t.Error("Expected dense orders after rebuild")
	}
}

func TestNormalizeRepairsRequests(t *testing.T) {
	c := &types.Collection{
		ID: "c1",
		Folders: map[string]*types.Folder{
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
		},
		Requests: map[string]*types.Request{
			"r1": {ID: "r1", Name: "Dangling", FolderID: "ghost", Order: 5},
			"r2": {ID: "r2", Name: "NoOrder", FolderID: types.RootFolderID},
		},
	}

	Normalize(c)

	if c.Requests["r1"].FolderID != types.RootFolderID {
		t.Errorf("Expected dangling request moved to root, got %q", c.Requests["r1"].FolderID)
	}
	if c.Requests["r2"].Order <= 0 {
		t.Errorf("Expected fallback order assigned, got %d", c.Requests["r2"].Order)
	}
	for id, r := range c.Requests {
		if r.Kind != types.KindHTTP {
			t.Errorf("Expected default kind http for %s, got %q", id, r.Kind)
		}
		if r.Patch == nil {
			t.Errorf("Expected non-nil patch for %s", id)
		}
		if r.CollectionID != "c1" {
			t.Errorf("Expected collection id stamped on %s, got %q", id, r.CollectionID)
		}
	}
	// Orders are dense 1..N within the folder.
	orders := map[int]bool{}
	for _, r := range c.Requests {
		orders[r.Order] = true
	}
	if !orders[1] || !orders[2] || len(orders) != 2 {
		t.Errorf("Expected dense orders 1..2, got %v", orders)
	}
}

func TestNormalizeSortsRequestsByOrderThenID(t *testing.T) {
	c := &types.Collection{
		ID: "c1",
		Folders: map[string]*types.Folder{
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
		},
		Requests: map[string]*types.Request{
			"rb": {ID: "rb", Name: "B", FolderID: types.RootFolderID, Order: 3},
			"ra": {ID: "ra", Name: "A", FolderID: types.RootFolderID, Order: 3},
			"rc": {ID: "rc", Name: "C", FolderID: types.RootFolderID, Order: 1},
		},
	}

	Normalize(c)

	got := c.Folders[types.RootFolderID].Requests
	if !reflect.DeepEqual(got, []string{"rc", "ra", "rb"}) {
		t.Errorf("Expected [rc ra rb], got %v", got)
	}
}

func TestNormalizeRebuildsIndex(t *testing.T) {
	c := &types.Collection{
		ID: "c1",
		Folders: map[string]*types.Folder{
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
			"fa":               {ID: "fa", Name: "FA", ParentID: types.RootFolderID},
		},
		Requests: map[string]*types.Request{
			"r1": {ID: "r1", Name: "Deep", FolderID: "fa"},
		},
	}

	Normalize(c)

	entry, ok := c.Index["r1"]
	if !ok {
		t.Fatal("Expected index entry for r1")
	}
	expected := []string{types.RootFolderID, "fa"}
	if !reflect.DeepEqual(entry.Ancestry, expected) {
		t.Errorf("Expected ancestry %v, got %v", expected, entry.Ancestry)
	}
	if err := verifyIndex(c); err != nil {
		t.Errorf("Expected consistent index, got %v", err)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	c := &types.Collection{
		ID: "c1",
		Folders: map[string]*types.Folder{
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
			"fa":               {ID: "fa", Name: "FA", ParentID: "fb"},
			"fb":               {ID: "fb", Name: "FB", ParentID: "fa"},
			"orphan":           {ID: "orphan", Name: "Orphan", ParentID: "ghost"},
		},
		Requests: map[string]*types.Request{
			"r1": {ID: "r1", Name: "One", FolderID: "ghost"},
			"r2": {ID: "r2", Name: "Two", FolderID: "fa", Order: 4},
		},
	}

	Normalize(c)
	snapshot := c.Clone()
	Normalize(c)

	if !reflect.DeepEqual(snapshot.Folders, c.Folders) {
		t.Errorf("Expected folders unchanged on second pass:\nfirst  %+v\nsecond %+v", snapshot.Folders, c.Folders)
	}
	if !reflect.DeepEqual(snapshot.Requests, c.Requests) {
		t.Error("Expected requests unchanged on second pass")
	}
	if !reflect.DeepEqual(snapshot.Index, c.Index) {
		t.Error("Expected index unchanged on second pass")
	}
}
