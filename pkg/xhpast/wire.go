package xhpast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Payload is the decoded stdout of a successful parser run.
type Payload struct {
	// tree holds the root description, or nothing for an empty tree.
	tree []nodeDescription

	// stream is the flat (kind, length) token list.
	stream []streamEntry
}

// NodeCount returns the number of node descriptions in the payload.
func (p *Payload) NodeCount() int {
	total := 0
	for i := range p.tree {
		total += p.tree[i].count()
	}
	return total
}

// TokenCount returns the number of entries in the token stream.
func (p *Payload) TokenCount() int {
	return len(p.stream)
}

// nodeDescription is one element of the parser's nested node output:
// [type, value|null, token_index|null, children|null]. Trailing elements may be omitted.
type nodeDescription struct {
	Type        string
	Value       string
	HasValue    bool
	TokenIndex  int
	HasToken    bool
	HasChildren bool
	Children    []nodeDescription
}

// UnmarshalJSON decodes the positional array form.
func (d *nodeDescription) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("node description: %w", err)
	}
	if len(fields) == 0 {
		return errors.New("node description: empty array")
	}

	if isNull(fields[0]) {
		return errors.New("node type: null")
	}
	if err := json.Unmarshal(fields[0], &d.Type); err != nil {
		return fmt.Errorf("node type: %w", err)
	}

	d.TokenIndex = NoToken

	if len(fields) > 1 && !isNull(fields[1]) {
		if err := json.Unmarshal(fields[1], &d.Value); err != nil {
			return fmt.Errorf("node %s value: %w", d.Type, err)
		}
		d.HasValue = true
	}

	if len(fields) > 2 && !isNull(fields[2]) {
		if err := json.Unmarshal(fields[2], &d.TokenIndex); err != nil {
			return fmt.Errorf("node %s token index: %w", d.Type, err)
		}
		d.HasToken = true
	}

	if len(fields) > 3 && !isNull(fields[3]) {
		if err := json.Unmarshal(fields[3], &d.Children); err != nil {
			return fmt.Errorf("node %s children: %w", d.Type, err)
		}
		d.HasChildren = true
	}

	return nil
}

// count returns the number of descriptions in this subtree.
func (d *nodeDescription) count() int {
	total := 1
	for i := range d.Children {
		total += d.Children[i].count()
	}
	return total
}

// UnmarshalJSON decodes a [kind, length] pair.
func (e *streamEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("stream entry: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("stream entry: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Kind); err != nil {
		return fmt.Errorf("stream entry kind: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Length); err != nil {
		return fmt.Errorf("stream entry length: %w", err)
	}
	return nil
}

// decodePayload parses parser stdout. Both the tree and stream fields must be present;
// a null or empty tree decodes to an empty description list.
func decodePayload(stdout []byte) (*Payload, error) {
	var raw struct {
		Tree   json.RawMessage `json:"tree"`
		Stream json.RawMessage `json:"stream"`
	}
	if err := json.Unmarshal(stdout, &raw); err != nil {
		return nil, malformed("decode: %v", err)
	}
	if len(raw.Tree) == 0 {
		return nil, malformed("missing %q field", "tree")
	}
	if len(raw.Stream) == 0 {
		return nil, malformed("missing %q field", "stream")
	}

	payload := &Payload{}

	if err := json.Unmarshal(raw.Stream, &payload.stream); err != nil {
		return nil, malformed("stream: %v", err)
	}

	if !isNull(raw.Tree) && !isEmptyArray(raw.Tree) {
		var root nodeDescription
		if err := json.Unmarshal(raw.Tree, &root); err != nil {
			return nil, malformed("tree: %v", err)
		}
		payload.tree = []nodeDescription{root}
	}

	return payload, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isEmptyArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return false
	}
	return len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) == 0
}
