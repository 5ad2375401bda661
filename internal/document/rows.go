package document

import (
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/tether/internal/docpath"
)

// Row is one line of the form: a field, a group, or an array item.
type Row struct {
	Path    docpath.Path
	Label   string
	Value   string
	Depth   int
	Group   bool
	Changed bool
}

func flatten(n *yaml.Node, path docpath.Path, depth int) []Row {
	n = resolveAlias(n)
	if n == nil {
		return nil
	}
	var rows []Row
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if key == KeyField {
				continue
			}
			rows = append(rows, row(key, path.Append(docpath.Field(key)), n.Content[i+1], depth)...)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			seg := itemSegment(n, i)
			label := seg.String()
			if seg.IsKeyed() {
				label = seg.Name
			}
			rows = append(rows, row(label, path.Append(seg), item, depth)...)
		}
	}
	return rows
}

func row(label string, path docpath.Path, value *yaml.Node, depth int) []Row {
	value = resolveAlias(value)
	if value != nil && value.Kind == yaml.ScalarNode {
		return []Row{{Path: path, Label: label, Value: value.Value, Depth: depth}}
	}
	out := []Row{{Path: path, Label: label, Value: summary(value), Depth: depth, Group: true}}
	return append(out, flatten(value, path, depth+1)...)
}
