package pattern

// RawNode is the untyped element tree produced by a document parser before
// compilation. The XML and YAML loaders both produce it, and hosts may build
// one directly.
type RawNode struct {
	Name     string    `yaml:"node"`
	Label    string    `yaml:"label,omitempty"`
	Type     string    `yaml:"type,omitempty"`
	Value    string    `yaml:"value,omitempty"`
	Children []RawNode `yaml:"children,omitempty"`
}

// El is a small constructor used to assemble raw trees in code.
func El(name NodeName, children ...RawNode) RawNode {
	return RawNode{Name: string(name), Children: children}
}

// Labeled returns a copy of r with the label set.
func (r RawNode) Labeled(label string) RawNode {
	r.Label = label
	return r
}

// Typed returns a copy of r with the type selector set.
func (r RawNode) Typed(t string) RawNode {
	r.Type = t
	return r
}

// Val builds a value element such as <term>60</term>.
func Val(name NodeName, expr string) RawNode {
	return RawNode{Name: string(name), Value: expr}
}
