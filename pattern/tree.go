package pattern

import (
	"fmt"
	"strings"
)

// Orientation is the bulletml root's type attribute.
type Orientation int

const (
	OrientationNone Orientation = iota
	OrientationVertical
	OrientationHorizontal
)

func (o Orientation) String() string {
	switch o {
	case OrientationVertical:
		return "vertical"
	case OrientationHorizontal:
		return "horizontal"
	default:
		return "none"
	}
}

// requiredChildren lists, per kind, groups of which at least one child must be
// present.
var requiredChildren = map[NodeName][][]NodeName{
	Repeat:          {{Times}, {Action, ActionRef}},
	Fire:            {{Bullet, BulletRef}},
	ChangeSpeed:     {{Speed}, {Term}},
	ChangeDirection: {{Direction}, {Term}},
	Accel:           {{Term}},
}

type labelKey struct {
	name  NodeName
	label string
}

// Tree is one compiled pattern. It must be resolved before any runner is
// built from it; after that it is read-only.
type Tree struct {
	root        *Node
	orientation Orientation
	index       map[labelKey]*Node
	resolved    bool
	resolveErr  error
}

// Build compiles and resolves a raw tree.
func Build(raw RawNode) (*Tree, error) {
	t, err := Compile(raw)
	if err != nil {
		return nil, err
	}
	if err := t.Resolve(); err != nil {
		return nil, err
	}
	return t, nil
}

// Compile converts a raw tree into nodes and compiles every expression. The
// result is not yet resolved.
func Compile(raw RawNode) (*Tree, error) {
	if NodeName(raw.Name) != BulletML {
		return nil, &SyntaxError{Err: ErrInvalidNode, Path: raw.Name, Msg: "root element must be bulletml"}
	}

	t := &Tree{}
	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case "", "none":
		t.orientation = OrientationNone
	case "vertical":
		t.orientation = OrientationVertical
	case "horizontal":
		t.orientation = OrientationHorizontal
	default:
		return nil, &SyntaxError{Err: ErrInvalidNode, Path: raw.Name, Msg: fmt.Sprintf("unknown orientation %q", raw.Type)}
	}

	root := &Node{name: BulletML, label: raw.Label}
	for _, c := range raw.Children {
		child, err := compileNode(c, root, string(BulletML))
		if err != nil {
			return nil, err
		}
		root.children = append(root.children, child)
	}
	t.root = root
	return t, nil
}

func compileNode(raw RawNode, parent *Node, parentPath string) (*Node, error) {
	name := NodeName(raw.Name)
	path := parentPath + "/" + raw.Name
	if raw.Label != "" {
		path += "[" + raw.Label + "]"
	}

	if !knownNodeName(name) {
		return nil, &SyntaxError{Err: ErrUnknownNode, Path: path}
	}
	if name == BulletML {
		return nil, &SyntaxError{Err: ErrInvalidNode, Path: path, Msg: "bulletml may only appear at the root"}
	}

	typ, ok := ParseNodeType(raw.Type)
	if !ok {
		return nil, &SyntaxError{Err: ErrInvalidNode, Path: path, Msg: fmt.Sprintf("unknown type %q", raw.Type)}
	}

	n := &Node{name: name, label: raw.Label, typ: typ, parent: parent}

	if name.IsRef() && strings.TrimSpace(raw.Label) == "" {
		return nil, &SyntaxError{Err: ErrInvalidNode, Path: path, Msg: "reference without label"}
	}

	if valueNodes[name] {
		expr, err := CompileExpr(raw.Value)
		if err != nil {
			return nil, &SyntaxError{Err: ErrInvalidExpression, Path: path, Msg: err.Error()}
		}
		n.expr = expr
	}

	for _, c := range raw.Children {
		child, err := compileNode(c, n, path)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}

	for _, group := range requiredChildren[name] {
		if !hasAnyChild(n, group) {
			return nil, &SyntaxError{Err: ErrInvalidNode, Path: path, Msg: fmt.Sprintf("missing %s", joinNames(group))}
		}
	}

	return n, nil
}

func hasAnyChild(n *Node, names []NodeName) bool {
	for _, name := range names {
		if n.Child(name) != nil {
			return true
		}
	}
	return false
}

func joinNames(names []NodeName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, " or ")
}

func (t *Tree) Root() *Node { return t.root }

func (t *Tree) Orientation() Orientation { return t.orientation }

// Resolved reports whether Resolve has completed successfully.
func (t *Tree) Resolved() bool { return t != nil && t.resolved }

// Lookup returns the labelled node of the given kind. It is only populated
// after resolution.
func (t *Tree) Lookup(name NodeName, label string) *Node {
	if t == nil || t.index == nil {
		return nil
	}
	return t.index[labelKey{name: name, label: label}]
}

// TopActions returns the root-level actions whose labels start with "top".
func (t *Tree) TopActions() []*Node {
	if t == nil || t.root == nil {
		return nil
	}
	var out []*Node
	for _, c := range t.root.children {
		if c.name == Action && strings.HasPrefix(c.label, "top") {
			out = append(out, c)
		}
	}
	return out
}
