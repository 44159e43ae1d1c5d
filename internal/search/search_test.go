package search

import (
	"strings"
	"testing"

	"github.com/studiowebux/restdesk/internal/types"
)

func sampleCollection() *types.Collection {
	return &types.Collection{
		ID:   "c1",
		Name: "Sample",
		Folders: map[string]*types.Folder{
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
		},
		Requests: map[string]*types.Request{
			"r1": {ID: "r1", Name: "Login user", Method: "POST", URL: "https://api.example.com/login"},
			"r2": {ID: "r2", Name: "List users", Method: "GET", URL: "https://api.example.com/users"},
			"r3": {ID: "r3", Name: "Health check", Method: "GET", URL: "https://api.example.com/healthz"},
		},
	}
}

func TestRequestsFindsByName(t *testing.T) {
	matches := Requests(sampleCollection(), "login")
	if len(matches) == 0 {
		t.Fatal("Expected at least one match")
	}
	if matches[0].RequestID != "r1" {
		t.Errorf("Expected r1 first, got %s", matches[0].RequestID)
	}
}

func TestRequestsFindsByURL(t *testing.T) {
	matches := Requests(sampleCollection(), "healthz")
	if len(matches) == 0 {
		t.Fatal("Expected at least one match")
	}
	if matches[0].RequestID != "r3" {
		t.Errorf("Expected r3 first, got %s", matches[0].RequestID)
	}
}

func TestRequestsNoMatch(t *testing.T) {
	if matches := Requests(sampleCollection(), "zzzzqqqq"); len(matches) != 0 {
		t.Errorf("Expected no matches, got %v", matches)
	}
}

func TestQuery(t *testing.T) {
	doc := &types.Document{
		Format:     types.DocumentFormat,
		Version:    types.DocumentVersion,
		Collection: sampleCollection(),
	}

	result, err := Query(doc, "collection.name")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != `"Sample"` {
		t.Errorf("Expected \"Sample\", got %s", result)
	}

	result, err = Query(doc, "length(collection.requests)")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.TrimSpace(result) != "3" {
		t.Errorf("Expected 3, got %s", result)
	}
}

func TestQueryNullResult(t *testing.T) {
	doc := &types.Document{
		Format:     types.DocumentFormat,
		Version:    types.DocumentVersion,
		Collection: sampleCollection(),
	}
	result, err := Query(doc, "collection.missing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "null" {
		t.Errorf("Expected null, got %s", result)
	}
}

func TestQueryInvalidExpression(t *testing.T) {
	doc := &types.Document{
		Format:     types.DocumentFormat,
		Version:    types.DocumentVersion,
		Collection: sampleCollection(),
	}
	if _, err := Query(doc, "collection.["); err == nil {
		t.Error("Expected error for invalid expression, got nil")
	}
}
