package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Marshal encodes both versions back to YAML.
func (d *Document) Marshal() ([]byte, error) {
	doc := yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "before"}, d.before,
				{Kind: yaml.ScalarNode, Value: "after"}, d.after,
			},
		}},
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	_ = encoder.Close()
	return buf.Bytes(), nil
}

// Save writes the document to path atomically (temp file, then rename).
// An empty path saves to the file the document was loaded from.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.file
	}
	if path == "" {
		return fmt.Errorf("saving document: no file")
	}

	data, err := d.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".tether-doc.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
