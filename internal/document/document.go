// Package document loads a before/after YAML document pair, flattens the
// current version into form rows and works out what changed.
package document

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/log"
)

// KeyField is the mapping key that identifies an array item.
const KeyField = "_key"

// ErrNotFound is returned when a path does not resolve in the document.
var ErrNotFound = errors.New("path not found")

// Document holds both versions of a document and the derived rows.
type Document struct {
	file   string
	before *yaml.Node
	after  *yaml.Node

	rows    []Row
	changes []Change
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user-selected document
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	doc.file = path
	log.Debug(log.CatDocument, "loaded document", "path", path, "rows", len(doc.rows), "changes", len(doc.changes))
	return doc, nil
}

// Parse builds a document from YAML with top-level before and after
// mappings. A missing before is treated as empty.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	top := &yaml.Node{Kind: yaml.MappingNode}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		top = root.Content[0]
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document must be a mapping with before and after keys")
	}

	doc := &Document{}
	for i := 0; i+1 < len(top.Content); i += 2 {
		switch top.Content[i].Value {
		case "before":
			doc.before = top.Content[i+1]
		case "after":
			doc.after = top.Content[i+1]
		}
	}
	if doc.after == nil {
		return nil, fmt.Errorf("missing after document")
	}
	if doc.before == nil {
		doc.before = &yaml.Node{Kind: yaml.MappingNode}
	}
	for name, n := range map[string]*yaml.Node{"before": doc.before, "after": doc.after} {
		if n.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s must be a mapping", name)
		}
	}

	doc.rebuild()
	return doc, nil
}

// File returns the path the document was loaded from, if any.
func (d *Document) File() string { return d.file }

// Rows returns the flattened current version, in document order.
func (d *Document) Rows() []Row { return d.rows }

// Changes returns every difference between before and after.
func (d *Document) Changes() []Change { return d.changes }

// Change returns the change recorded at exactly path.
func (d *Document) Change(path docpath.Path) (Change, bool) {
	for _, c := range d.changes {
		if c.Path.Equal(path) {
			return c, true
		}
	}
	return Change{}, false
}

// IsChanged reports whether path, one of its ancestors, or one of its
// descendants differs between the versions.
func (d *Document) IsChanged(path docpath.Path) bool {
	for _, c := range d.changes {
		if c.Path.HasPrefix(path) || path.HasPrefix(c.Path) {
			return true
		}
	}
	return false
}

func (d *Document) rebuild() {
	d.changes = diffNodes(nil, d.before, d.after)
	d.rows = flatten(d.after, nil, 0)
	for i := range d.rows {
		d.rows[i].Changed = d.IsChanged(d.rows[i].Path)
	}
}
