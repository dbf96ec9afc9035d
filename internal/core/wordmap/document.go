package wordmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is the persisted shape of a Configuration
type Document struct {
	WordMappings   Mappings `json:"wordMappings" yaml:"wordMappings"`
	WordExceptions []string `json:"wordExceptions" yaml:"wordExceptions"`
}

// Mappings is an ordered target -> replacement object.
// It encodes as a JSON object / YAML mapping and decodes in document order,
// which is what makes last-write-wins well defined for case-colliding keys
type Mappings []Entry

// MarshalJSON writes the mappings as a JSON object in order
func (m Mappings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Target)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Replacement)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order.
// null decodes to an empty mapping; non-string values are an error
func (m *Mappings) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = Mappings{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("wordmap: wordMappings must be an object, got %v", tok)
	}
	out := Mappings{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("wordmap: unexpected key token %v", kt)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("wordmap: value for %q: %w", key, err)
		}
		out = append(out, Entry{Target: key, Replacement: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// UnmarshalYAML reads a YAML mapping keeping key order
func (m *Mappings) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		*m = Mappings{}
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("wordmap: wordMappings must be a mapping (line %d)", n.Line)
	}
	out := make(Mappings, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var key, val string
		if err := n.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := n.Content[i+1].Decode(&val); err != nil {
			return fmt.Errorf("wordmap: value for %q: %w", key, err)
		}
		out = append(out, Entry{Target: key, Replacement: val})
	}
	*m = out
	return nil
}

// MarshalYAML writes the mappings as an ordered YAML mapping
func (m Mappings) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Target},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Replacement},
		)
	}
	return n, nil
}

// Decode reads a JSON document and builds a Configuration.
// Unknown top-level fields are ignored; malformed input is an error
func Decode(r io.Reader) (*Configuration, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("wordmap: decode json: %w", err)
	}
	return New(doc), nil
}

// DecodeYAML reads a YAML document and builds a Configuration
func DecodeYAML(r io.Reader) (*Configuration, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("wordmap: decode yaml: %w", err)
	}
	return New(doc), nil
}

// Parse is Decode over a byte slice
func Parse(b []byte) (*Configuration, error) {
	return Decode(bytes.NewReader(b))
}
