package tree

import (
	"reflect"
	"testing"

	"github.com/studiowebux/restdesk/internal/types"
)

func buildFolders() map[string]*types.Folder {
	return map[string]*types.Folder{
		"root": {ID: "root", Name: "Root", Folders: []string{"a", "b"}},
		"a":    {ID: "a", Name: "A", ParentID: "root", Folders: []string{"a1"}},
		"a1":   {ID: "a1", Name: "A1", ParentID: "a"},
		"b":    {ID: "b", Name: "B", ParentID: "root"},
	}
}

func TestAncestry(t *testing.T) {
	folders := buildFolders()

	chain, err := Ancestry(folders, "a1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	expected := []string{"root", "a", "a1"}
	if !reflect.DeepEqual(chain, expected) {
		t.Errorf("Expected ancestry %v, got %v", expected, chain)
	}

	chain, err = Ancestry(folders, "root")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(chain, []string{"root"}) {
		t.Errorf("Expected ancestry [root], got %v", chain)
	}
}

func TestAncestryMissingFolder(t *testing.T) {
	folders := buildFolders()
	if _, err := Ancestry(folders, "ghost"); err == nil {
		t.Error("Expected error for unknown folder, got nil")
	}
}

func TestAncestryDetectsCycle(t *testing.T) {
	folders := buildFolders()
	folders["a"].ParentID = "a1" // a -> a1 -> a

	if _, err := Ancestry(folders, "a1"); err == nil {
		t.Error("Expected cycle error, got nil")
	}
}

func TestWouldCreateCycle(t *testing.T) {
	folders := buildFolders()

	tests := []struct {
		name     string
		moving   string
		target   string
		expected bool
	}{
		{"move into own child", "a", "a1", true},
		{"move into itself", "a", "a", true},
		{"move into sibling", "a", "b", false},
		{"move leaf to root", "a1", "root", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WouldCreateCycle(folders, tt.moving, tt.target); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWouldCreateCycleBrokenTarget(t *testing.T) {
	folders := buildFolders()
	folders["b"].ParentID = "ghost"

	if !WouldCreateCycle(folders, "a", "b") {
		t.Error("Expected move onto a broken chain to be rejected")
	}
}

func TestResequenceFolders(t *testing.T) {
	folders := buildFolders()
	folders["a"].Order = 7
	folders["b"].Order = 3

	ResequenceFolders(folders, folders["root"])

	if folders["a"].Order != 1 {
		t.Errorf("Expected order 1, got %d", folders["a"].Order)
	}
	if folders["b"].Order != 2 {
		t.Errorf("Expected order 2, got %d", folders["b"].Order)
	}
}

func TestResequenceRequests(t *testing.T) {
	requests := map[string]*types.Request{
		"r1": {ID: "r1", Order: 9},
		"r2": {ID: "r2", Order: 2},
	}
	folder := &types.Folder{ID: "root", Requests: []string{"r2", "r1"}}

	ResequenceRequests(requests, folder)

	if requests["r2"].Order != 1 {
		t.Errorf("Expected order 1, got %d", requests["r2"].Order)
	}
	if requests["r1"].Order != 2 {
		t.Errorf("Expected order 2, got %d", requests["r1"].Order)
	}
}

func TestSubtree(t *testing.T) {
	folders := buildFolders()

	got := Subtree(folders, "a")
	expected := []string{"a", "a1"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected subtree %v, got %v", expected, got)
	}

	got = Subtree(folders, "root")
	if len(got) != 4 {
		t.Errorf("Expected 4 folders in root subtree, got %d", len(got))
	}
}

func TestSubtreeSkipsUnknownChildren(t *testing.T) {
	folders := buildFolders()
	folders["b"].Folders = []string{"ghost"}

	got := Subtree(folders, "b")
	if !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Expected subtree [b], got %v", got)
	}
}
