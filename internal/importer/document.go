// Package importer reconciles export documents with the collection
// store: decoding and encoding the native document envelope, converting
// a foreign document into a brand-new collection, and merging one into
// an existing collection by id or content signature. Converters for
// third-party schemas live outside the core; whatever they produce
// enters through this package and is normalized before it is trusted.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"github.com/studiowebux/restdesk/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when the payload is not a native export
// document.
var ErrInvalidDocument = errors.New("not a native export document")

// DecodeFile reads and decodes a document, picking the codec from the
// file extension (.yaml/.yml for YAML, anything else tries JSON first).
func DecodeFile(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return decodeYAML(data)
	}
	return Decode(data)
}

// Decode parses a document from JSON (comments and trailing commas are
// tolerated) or, failing that, YAML.
func Decode(data []byte) (*types.Document, error) {
	doc, jsonErr := decodeJSON(data)
	if jsonErr == nil {
		return doc, nil
	}
	doc, yamlErr := decodeYAML(data)
	if yamlErr == nil {
		return doc, nil
	}
	return nil, fmt.Errorf("failed to parse document: %w", jsonErr)
}

func decodeJSON(data []byte) (*types.Document, error) {
	var doc types.Document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, err
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeYAML(data []byte) (*types.Document, error) {
	var doc types.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validate accepts any version (the storage layer migrates old payloads
// before they get here) but insists on the native format tag and a
// collection body.
func validate(doc *types.Document) error {
	if doc.Format != types.DocumentFormat {
		return fmt.Errorf("%w: format %q", ErrInvalidDocument, doc.Format)
	}
	if doc.Collection == nil {
		return fmt.Errorf("%w: missing collection", ErrInvalidDocument)
	}
	return nil
}

// ExportDocument wraps a collection snapshot in the export envelope.
func ExportDocument(c *types.Collection) *types.Document {
	return &types.Document{
		Format:     types.DocumentFormat,
		Version:    types.DocumentVersion,
		ExportedAt: time.Now().UTC(),
		Collection: c.Clone(),
	}
}

// EncodeJSON renders a document as indented JSON.
func EncodeJSON(doc *types.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// EncodeYAML renders a document as YAML.
func EncodeYAML(doc *types.Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}
