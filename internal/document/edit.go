package document

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/log"
)

// SetValue replaces the scalar at path in the current version.
func (d *Document) SetValue(path docpath.Path, value string) error {
	n := resolveAlias(lookup(d.after, path))
	if n == nil {
		return fmt.Errorf("setting %s: %w", path, ErrNotFound)
	}
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("setting %s: not a scalar", path)
	}
	n.Value = value
	// Let the encoder pick a style that round-trips the new value.
	n.Tag = ""
	n.Style = 0
	d.rebuild()
	return nil
}

// Revert restores path in the current version to its previous value,
// removing it when it did not exist before.
func (d *Document) Revert(path docpath.Path) error {
	if len(path) == 0 {
		d.after = clone(d.before)
		d.rebuild()
		return nil
	}

	parentPath := path[:len(path)-1]
	last := path[len(path)-1]

	parent := resolveAlias(lookup(d.after, parentPath))
	if parent == nil {
		return fmt.Errorf("reverting %s: %w", path, ErrNotFound)
	}
	prev := lookup(d.before, path)
	_, idx := stepInto(parent, last)

	switch {
	case prev == nil && idx < 0:
		return fmt.Errorf("reverting %s: %w", path, ErrNotFound)
	case prev == nil:
		removeAt(parent, idx)
	case idx >= 0:
		parent.Content[idx] = clone(prev)
	default:
		if err := insert(parent, last, clone(prev)); err != nil {
			return fmt.Errorf("reverting %s: %w", path, err)
		}
	}

	log.Debug(log.CatDocument, "reverted", "path", path.String())
	d.rebuild()
	return nil
}

func removeAt(parent *yaml.Node, idx int) {
	if parent.Kind == yaml.MappingNode {
		// idx is the value position; drop the key too
		parent.Content = append(parent.Content[:idx-1], parent.Content[idx+1:]...)
		return
	}
	parent.Content = append(parent.Content[:idx], parent.Content[idx+1:]...)
}

func insert(parent *yaml.Node, seg docpath.Segment, value *yaml.Node) error {
	switch {
	case parent.Kind == yaml.MappingNode && seg.Kind == docpath.FieldSegment:
		parent.Content = append(parent.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: seg.Name}, value)
	case parent.Kind == yaml.SequenceNode && seg.Kind == docpath.KeyedSegment:
		parent.Content = append(parent.Content, value)
	case parent.Kind == yaml.SequenceNode && seg.Kind == docpath.IndexSegment && seg.Index == len(parent.Content):
		parent.Content = append(parent.Content, value)
	default:
		return fmt.Errorf("cannot insert %s into %s", seg, kindName(parent.Kind))
	}
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "node"
	}
}
