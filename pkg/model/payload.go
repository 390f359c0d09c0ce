package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TimestampsKey is the analysis_data key some captures use to carry one
// timestamp per CPU sample.
const TimestampsKey = "timestamps"

// AnalysisPayload maps test names to the raw lines captured for them.
// Iteration follows the order of the source document.
type AnalysisPayload struct {
	order []string
	lines map[string][]string
}

// NewAnalysisPayload returns an empty payload
func NewAnalysisPayload() *AnalysisPayload {
	return &AnalysisPayload{lines: make(map[string][]string)}
}

// Set stores lines for a test. A new test is appended; an existing one keeps
// its position.
func (p *AnalysisPayload) Set(test string, lines []string) {
	if p.lines == nil {
		p.lines = make(map[string][]string)
	}
	if _, exists := p.lines[test]; !exists {
		p.order = append(p.order, test)
	}
	p.lines[test] = lines
}

// Get returns the lines for a test
func (p *AnalysisPayload) Get(test string) ([]string, bool) {
	if p == nil {
		return nil, false
	}
	lines, ok := p.lines[test]
	return lines, ok
}

// Tests returns the test names in payload order
func (p *AnalysisPayload) Tests() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of tests
func (p *AnalysisPayload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// MarshalJSON writes the payload as an object in payload order
func (p AnalysisPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, test := range p.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(test)
		if err != nil {
			return nil, err
		}
		lines := p.lines[test]
		if lines == nil {
			lines = []string{}
		}
		value, err := json.Marshal(lines)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. Values that are not
// arrays become empty line sets; non-string array items are kept in their
// JSON form.
func (p *AnalysisPayload) UnmarshalJSON(data []byte) error {
	fresh := NewAnalysisPayload()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = *fresh
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("analysis payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("analysis payload: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("analysis payload: %w", err)
		}
		test, ok := tok.(string)
		if !ok {
			return fmt.Errorf("analysis payload: unexpected key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("analysis payload %q: %w", test, err)
		}
		fresh.Set(test, decodeLines(raw))
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("analysis payload: %w", err)
	}

	*p = *fresh
	return nil
}

func decodeLines(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			lines = append(lines, s)
			continue
		}
		lines = append(lines, string(item))
	}
	return lines
}

// MarshalYAML writes the payload as a mapping in payload order
func (p AnalysisPayload) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, test := range p.order {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, line := range p.lines[test] {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: line})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: test},
			seq,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node, keeping key order
func (p *AnalysisPayload) UnmarshalYAML(node *yaml.Node) error {
	fresh := NewAnalysisPayload()
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*p = *fresh
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("analysis payload: expected mapping at line %d", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		lines := []string{}
		if value.Kind == yaml.SequenceNode {
			for _, item := range value.Content {
				lines = append(lines, item.Value)
			}
		}
		fresh.Set(key.Value, lines)
	}

	*p = *fresh
	return nil
}
