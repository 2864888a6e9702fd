package prefabs

import (
	"bytes"
	"fmt"
	"path"

	"github.com/milk9111/bulletml/pattern"
)

// LoadPattern reads, compiles and resolves a pattern by name. Names without
// an extension are taken as .xml; .yaml and .yml select the YAML form.
func LoadPattern(name string) (*pattern.Tree, error) {
	clean := cleanPatternPath(name)
	data, err := Load(clean)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load pattern %s: %w", name, err)
	}
	tree, err := ParsePattern(clean, data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: pattern %s: %w", name, err)
	}
	return tree, nil
}

// ParsePattern picks the decoder from the file extension.
func ParsePattern(filename string, data []byte) (*pattern.Tree, error) {
	switch path.Ext(filename) {
	case ".yaml", ".yml":
		return pattern.ParseYAML(data)
	default:
		return pattern.ParseXML(bytes.NewReader(data))
	}
}
