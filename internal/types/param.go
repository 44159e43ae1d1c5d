package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Param is a single keyed entry in a parameter or form-field map. The ID
// is a synthetic key that stays stable while the name is edited.
type Param struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Value   string `json:"value" yaml:"value"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Secure  bool   `json:"secure,omitempty" yaml:"secure,omitempty"`
}

// Clone returns a copy of the param.
func (p *Param) Clone() *Param {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ParamMap is an associative container keyed by synthetic id that keeps
// insertion order, so iteration is deterministic regardless of how the
// map was built. It serializes as a JSON/YAML object whose key order is
// the insertion order.
type ParamMap struct {
	ids     []string
	entries map[string]*Param
}

// NewParamMap returns an empty map.
func NewParamMap() *ParamMap {
	return &ParamMap{entries: make(map[string]*Param)}
}

// Len returns the number of entries. Safe on a nil map.
func (m *ParamMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// Get returns the entry for id, if present.
func (m *ParamMap) Get(id string) (*Param, bool) {
	if m == nil {
		return nil, false
	}
	p, ok := m.entries[id]
	return p, ok
}

// Set upserts an entry. An existing id keeps its position; a new id is
// appended.
func (m *ParamMap) Set(id string, p *Param) {
	if m.entries == nil {
		m.entries = make(map[string]*Param)
	}
	if _, ok := m.entries[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.entries[id] = p
}

// Delete removes an entry and reports whether it existed.
func (m *ParamMap) Delete(id string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.entries[id]; !ok {
		return false
	}
	delete(m.entries, id)
	for i, existing := range m.ids {
		if existing == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns the entry ids in insertion order.
func (m *ParamMap) IDs() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// Each calls fn for every entry in insertion order.
func (m *ParamMap) Each(fn func(id string, p *Param)) {
	if m == nil {
		return
	}
	for _, id := range m.ids {
		fn(id, m.entries[id])
	}
}

// Clone returns a deep copy. Clone of nil is nil.
func (m *ParamMap) Clone() *ParamMap {
	if m == nil {
		return nil
	}
	c := NewParamMap()
	for _, id := range m.ids {
		c.Set(id, m.entries[id].Clone())
	}
	return c
}

// Equal reports whether both maps hold the same entries under the same
// ids. Order is ignored; a nil map equals an empty one.
func (m *ParamMap) Equal(o *ParamMap) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m == nil {
		return true
	}
	for _, id := range m.ids {
		other, ok := o.Get(id)
		if !ok {
			return false
		}
		if *m.entries[id] != *other {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the map as an object with keys in insertion order.
func (m *ParamMap) MarshalJSON() ([]byte, error) {
	if m == nil || len(m.ids) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.entries[id])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, preserving the document's key order.
func (m *ParamMap) UnmarshalJSON(data []byte) error {
	m.ids = nil
	m.entries = make(map[string]*Param)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object for parameter map, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key in parameter map, got %v", keyTok)
		}
		var p Param
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("failed to decode parameter %q: %w", key, err)
		}
		m.Set(key, &p)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (m *ParamMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if m == nil {
		return node, nil
	}
	for _, id := range m.ids {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(id); err != nil {
			return nil, err
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(m.entries[id]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, preserving document order.
func (m *ParamMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping for parameter map, got yaml kind %d", value.Kind)
	}
	m.ids = nil
	m.entries = make(map[string]*Param)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		var p Param
		if err := value.Content[i+1].Decode(&p); err != nil {
			return fmt.Errorf("failed to decode parameter %q: %w", key, err)
		}
		m.Set(key, &p)
	}
	return nil
}
