package casefile

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Condition is an assert value that must be a real boolean.
//
// yaml.v3 will coerce YAML 1.1 spellings such as "yes" or "on" into a
// plain bool field. Condition refuses anything not tagged !!bool, so a
// case file cannot assert a truthy string or number by accident.
type Condition bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!bool" {
		return fmt.Errorf("line %d: assert must be a boolean (true or false), got %s %q",
			node.Line, node.ShortTag(), node.Value)
	}
	var b bool
	if err := node.Decode(&b); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = Condition(b)
	return nil
}

// Bool returns a pointer to a Condition, for building cases in code.
func Bool(b bool) *Condition {
	c := Condition(b)
	return &c
}

// parseYAML decodes a case with strict field checking, so typos such as
// "step:" instead of "steps:" fail instead of being ignored.
func parseYAML(path string, data []byte) (*Case, error) {
	var c Case
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, &CaseError{Path: path, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	c.Path = path

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err == nil {
		for i, line := range stepLines(&doc) {
			if i < len(c.Steps) {
				c.Steps[i].line = line
			}
		}
	}
	return &c, nil
}

// stepLines returns the source line of each item under the top-level
// steps key. The strict decode above has no access to node positions.
func stepLines(doc *yaml.Node) []int {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "steps" {
			continue
		}
		seq := root.Content[i+1]
		if seq.Kind != yaml.SequenceNode {
			return nil
		}
		lines := make([]int, len(seq.Content))
		for j, item := range seq.Content {
			lines[j] = item.Line
		}
		return lines
	}
	return nil
}
