package document

import (
	"gopkg.in/yaml.v3"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/tether/internal/docpath"
)

// Action classifies a change.
type Action int

const (
	Modified Action = iota
	Added
	Removed
)

func (a Action) String() string {
	switch a {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "modified"
	}
}

// Change is one difference between before and after. Added and removed
// subtrees are reported once at their root.
type Change struct {
	Path   docpath.Path
	Action Action
	Before string
	After  string
}

// Diff returns a word-level diff of the before and after renderings.
func (c Change) Diff() []diffmatchpatch.Diff {
	return WordDiff(c.Before, c.After)
}

// WordDiff diffs two strings and cleans the result up to word boundaries.
func WordDiff(before, after string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	return dmp.DiffCleanupSemantic(diffs)
}

func diffNodes(path docpath.Path, before, after *yaml.Node) []Change {
	before, after = resolveAlias(before), resolveAlias(after)
	switch {
	case before == nil && after == nil:
		return nil
	case before == nil:
		return []Change{{Path: path, Action: Added, After: summary(after)}}
	case after == nil:
		return []Change{{Path: path, Action: Removed, Before: summary(before)}}
	case before.Kind != after.Kind:
		return []Change{{Path: path, Action: Modified, Before: summary(before), After: summary(after)}}
	}

	switch after.Kind {
	case yaml.MappingNode:
		return diffMappings(path, before, after)
	case yaml.SequenceNode:
		return diffSequences(path, before, after)
	default:
		if deepEqual(before, after) {
			return nil
		}
		return []Change{{Path: path, Action: Modified, Before: summary(before), After: summary(after)}}
	}
}

func diffMappings(path docpath.Path, before, after *yaml.Node) []Change {
	var out []Change
	seen := map[string]bool{}
	for i := 0; i+1 < len(after.Content); i += 2 {
		key := after.Content[i].Value
		if key == KeyField {
			continue
		}
		seen[key] = true
		prev, _ := stepInto(before, docpath.Field(key))
		out = append(out, diffNodes(path.Append(docpath.Field(key)), prev, after.Content[i+1])...)
	}
	for i := 0; i+1 < len(before.Content); i += 2 {
		key := before.Content[i].Value
		if key == KeyField || seen[key] {
			continue
		}
		out = append(out, diffNodes(path.Append(docpath.Field(key)), before.Content[i+1], nil)...)
	}
	return out
}

func diffSequences(path docpath.Path, before, after *yaml.Node) []Change {
	keyed := (isKeyedList(after) || len(after.Content) == 0) &&
		(isKeyedList(before) || len(before.Content) == 0)
	if !keyed {
		var out []Change
		for i := 0; i < max(len(before.Content), len(after.Content)); i++ {
			var prev, next *yaml.Node
			if i < len(before.Content) {
				prev = before.Content[i]
			}
			if i < len(after.Content) {
				next = after.Content[i]
			}
			out = append(out, diffNodes(path.Append(docpath.Index(i)), prev, next)...)
		}
		return out
	}

	var out []Change
	seen := map[string]bool{}
	for _, item := range after.Content {
		key := itemKey(item)
		seen[key] = true
		prev, _ := stepInto(before, docpath.Key(key))
		out = append(out, diffNodes(path.Append(docpath.Key(key)), prev, item)...)
	}
	for _, item := range before.Content {
		if key := itemKey(item); !seen[key] {
			out = append(out, diffNodes(path.Append(docpath.Key(key)), item, nil)...)
		}
	}
	return out
}
