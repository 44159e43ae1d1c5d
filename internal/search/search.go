// Package search provides request lookup over loaded collections: fuzzy
// matching on request names and urls, and JMESPath queries over export
// documents.
package search

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jmespath/go-jmespath"
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/restdesk/internal/types"
)

// Match is one fuzzy search hit.
type Match struct {
	RequestID string
	Name      string
	Method    string
	URL       string
	Score     int
}

// Requests fuzzy-matches query against every request's name, method and
// url, best matches first.
func Requests(c *types.Collection, query string) []Match {
	ids := make([]string, 0, len(c.Requests))
	for id := range c.Requests {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	haystack := make([]string, len(ids))
	for i, id := range ids {
		r := c.Requests[id]
		haystack[i] = r.Name + " " + r.Method + " " + r.URL
	}

	var matches []Match
	for _, m := range fuzzy.Find(query, haystack) {
		r := c.Requests[ids[m.Index]]
		matches = append(matches, Match{
			RequestID: r.ID,
			Name:      r.Name,
			Method:    r.Method,
			URL:       r.URL,
			Score:     m.Score,
		})
	}
	return matches
}

// Query applies a JMESPath expression to the JSON form of an export
// document and returns the result as indented JSON.
func Query(doc *types.Document, expression string) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("failed to prepare document for query: %w", err)
	}
	result, err := jmespath.Search(expression, data)
	if err != nil {
		return "", fmt.Errorf("failed to apply query: %w", err)
	}
	if result == nil {
		return "null", nil
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format query result: %w", err)
	}
	return string(out), nil
}
