package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// A template document is a nested object: folder names are keys, and each value is
// the folder's own object. Empty folders are {}. Key order is the child order.

// MarshalJSON encodes the node as an ordered nested object.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encodeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encodeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, name := range n.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := n.children[name].encodeJSON(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON decodes an ordered nested object. null decodes as an empty folder.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	parsed, err := decodeJSONNode(dec)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

func decodeJSONNode(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding folder: %w", err)
	}
	if tok == nil {
		return NewNode(), nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decoding folder: expected object, got %v", tok)
	}

	node := NewNode()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding folder name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decoding folder name: expected string, got %v", tok)
		}
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		if node.Has(name) {
			return nil, fmt.Errorf("duplicate folder name %q", name)
		}
		child, err := decodeJSONNode(dec)
		if err != nil {
			return nil, err
		}
		node.attach(name, child)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding folder: %w", err)
	}
	return node, nil
}

// MarshalYAML encodes the node as an ordered mapping; empty folders use flow style.
func (n *Node) MarshalYAML() (interface{}, error) {
	return n.yamlNode(), nil
}

func (n *Node) yamlNode() *yaml.Node {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(n.names) == 0 {
		out.Style = yaml.FlowStyle
		return out
	}
	for _, name := range n.names {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		out.Content = append(out.Content, key, n.children[name].yamlNode())
	}
	return out
}

// UnmarshalYAML decodes an ordered mapping. A null value decodes as an empty folder.
// Aliases are expanded; an alias inside its own anchor is an error.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	d := &yamlDecoder{expanding: make(map[*yaml.Node]bool)}
	parsed, err := d.decode(value)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

// maxYAMLFolders caps the folders produced by alias expansion.
const maxYAMLFolders = 100000

type yamlDecoder struct {
	expanding map[*yaml.Node]bool
	folders   int
}

func (d *yamlDecoder) decode(value *yaml.Node) (*Node, error) {
	switch value.Kind {
	case yaml.DocumentNode:
		if len(value.Content) == 0 {
			return NewNode(), nil
		}
		return d.decode(value.Content[0])
	case yaml.AliasNode:
		if d.expanding[value.Alias] {
			return nil, fmt.Errorf("line %d: alias %q refers to itself", value.Line, value.Value)
		}
		return d.decode(value.Alias)
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return NewNode(), nil
		}
		return nil, fmt.Errorf("line %d: expected mapping, got scalar %q", value.Line, value.Value)
	case yaml.MappingNode:
	default:
		return nil, fmt.Errorf("line %d: expected mapping", value.Line)
	}

	if value.Anchor != "" {
		d.expanding[value] = true
		defer delete(d.expanding, value)
	}

	node := NewNode()
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: folder name must be a scalar", key.Line)
		}
		if err := ValidateName(key.Value); err != nil {
			return nil, err
		}
		if node.Has(key.Value) {
			return nil, fmt.Errorf("line %d: duplicate folder name %q", key.Line, key.Value)
		}
		if d.folders++; d.folders > maxYAMLFolders {
			return nil, fmt.Errorf("line %d: document expands to more than %d folders", key.Line, maxYAMLFolders)
		}
		child, err := d.decode(val)
		if err != nil {
			return nil, err
		}
		node.attach(key.Value, child)
	}
	return node, nil
}
