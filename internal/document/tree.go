package document

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/tether/internal/docpath"
)

// stepInto resolves one segment below n. It returns the child and its
// position in n.Content (the value position for mappings).
func stepInto(n *yaml.Node, seg docpath.Segment) (*yaml.Node, int) {
	if n == nil {
		return nil, -1
	}
	switch {
	case n.Kind == yaml.MappingNode && seg.Kind == docpath.FieldSegment:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == seg.Name {
				return n.Content[i+1], i + 1
			}
		}
	case n.Kind == yaml.SequenceNode && seg.Kind == docpath.IndexSegment:
		if seg.Index >= 0 && seg.Index < len(n.Content) {
			return n.Content[seg.Index], seg.Index
		}
	case n.Kind == yaml.SequenceNode && seg.Kind == docpath.KeyedSegment:
		for i, item := range n.Content {
			if itemKey(item) == seg.Name {
				return item, i
			}
		}
	}
	return nil, -1
}

// lookup walks path from root.
func lookup(root *yaml.Node, path docpath.Path) *yaml.Node {
	n := root
	for _, seg := range path {
		if n, _ = stepInto(n, seg); n == nil {
			return nil
		}
	}
	return n
}

// itemKey returns the _key of a mapping item, or "".
func itemKey(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == KeyField && n.Content[i+1].Kind == yaml.ScalarNode {
			return n.Content[i+1].Value
		}
	}
	return ""
}

// isKeyedList reports whether every item of a sequence carries a _key.
func isKeyedList(n *yaml.Node) bool {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return false
	}
	for _, item := range n.Content {
		if itemKey(item) == "" {
			return false
		}
	}
	return true
}

// itemSegment names the i-th item of seq.
func itemSegment(seq *yaml.Node, i int) docpath.Segment {
	if isKeyedList(seq) {
		return docpath.Key(itemKey(seq.Content[i]))
	}
	return docpath.Index(i)
}

func clone(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Content = make([]*yaml.Node, len(n.Content))
	for i, child := range n.Content {
		c.Content[i] = clone(child)
	}
	return &c
}

// deepEqual compares two nodes by kind and value, ignoring style and position.
func deepEqual(a, b *yaml.Node) bool {
	a, b = resolveAlias(a), resolveAlias(b)
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || len(a.Content) != len(b.Content) {
		return false
	}
	if a.Kind == yaml.ScalarNode {
		return a.Value == b.Value
	}
	for i := range a.Content {
		if !deepEqual(a.Content[i], b.Content[i]) {
			return false
		}
	}
	return true
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// summary renders a node on one line.
func summary(n *yaml.Node) string {
	n = resolveAlias(n)
	if n == nil {
		return ""
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.MappingNode:
		keys := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i].Value; k != KeyField {
				keys = append(keys, k)
			}
		}
		return "{" + strings.Join(keys, ", ") + "}"
	case yaml.SequenceNode:
		return "[" + strconv.Itoa(len(n.Content)) + " items]"
	default:
		return ""
	}
}
