package pattern

import "strings"

// NodeName identifies the element kind of a node.
type NodeName string

const (
	BulletML        NodeName = "bulletml"
	Action          NodeName = "action"
	ActionRef       NodeName = "actionRef"
	Bullet          NodeName = "bullet"
	BulletRef       NodeName = "bulletRef"
	Fire            NodeName = "fire"
	FireRef         NodeName = "fireRef"
	Accel           NodeName = "accel"
	Horizontal      NodeName = "horizontal"
	Vertical        NodeName = "vertical"
	ChangeDirection NodeName = "changeDirection"
	ChangeSpeed     NodeName = "changeSpeed"
	Direction       NodeName = "direction"
	Speed           NodeName = "speed"
	Term            NodeName = "term"
	Times           NodeName = "times"
	Wait            NodeName = "wait"
	Vanish          NodeName = "vanish"
	Repeat          NodeName = "repeat"
	Param           NodeName = "param"
)

// valueNodes carry a numeric expression as their text content.
var valueNodes = map[NodeName]bool{
	Horizontal: true,
	Vertical:   true,
	Direction:  true,
	Speed:      true,
	Term:       true,
	Times:      true,
	Wait:       true,
	Param:      true,
}

// refTargets maps each reference kind to the kind it must resolve to.
var refTargets = map[NodeName]NodeName{
	ActionRef: Action,
	BulletRef: Bullet,
	FireRef:   Fire,
}

func knownNodeName(name NodeName) bool {
	switch name {
	case BulletML, Action, ActionRef, Bullet, BulletRef, Fire, FireRef, Accel,
		Horizontal, Vertical, ChangeDirection, ChangeSpeed, Direction, Speed,
		Term, Times, Wait, Vanish, Repeat, Param:
		return true
	}
	return false
}

// IsRef reports whether nodes of this kind reference another node by label.
func (n NodeName) IsRef() bool {
	_, ok := refTargets[n]
	return ok
}

// RefTarget returns the kind a reference of this kind must resolve to.
func (n NodeName) RefTarget() (NodeName, bool) {
	target, ok := refTargets[n]
	return target, ok
}

// NodeType is the selector on value nodes that decides how callers apply the
// evaluated number.
type NodeType int

const (
	TypeNone NodeType = iota
	TypeAim
	TypeAbsolute
	TypeRelative
	TypeSequence
)

var nodeTypeNames = map[string]NodeType{
	"":         TypeNone,
	"none":     TypeNone,
	"aim":      TypeAim,
	"absolute": TypeAbsolute,
	"relative": TypeRelative,
	"sequence": TypeSequence,
}

// ParseNodeType converts a type attribute value into a NodeType.
func ParseNodeType(s string) (NodeType, bool) {
	t, ok := nodeTypeNames[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

func (t NodeType) String() string {
	switch t {
	case TypeAim:
		return "aim"
	case TypeAbsolute:
		return "absolute"
	case TypeRelative:
		return "relative"
	case TypeSequence:
		return "sequence"
	default:
		return "none"
	}
}

// Node is one element of a compiled pattern. Nodes are immutable once the
// owning tree has been resolved and may be shared by any number of runners.
type Node struct {
	name     NodeName
	label    string
	typ      NodeType
	expr     *Expr
	parent   *Node
	children []*Node
	ref      *Node
}

func (n *Node) Name() NodeName { return n.name }

func (n *Node) Label() string { return n.label }

func (n *Node) Type() NodeType { return n.typ }

func (n *Node) Parent() *Node { return n.parent }

// Children returns the ordered child nodes. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Expr returns the compiled expression of a value node, or nil.
func (n *Node) Expr() *Expr { return n.expr }

// Ref returns the resolved target of a reference node, or nil before
// resolution and for non-reference kinds.
func (n *Node) Ref() *Node { return n.ref }

// Child returns the first direct child of the given kind.
func (n *Node) Child(name NodeName) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child of the given kind in order.
func (n *Node) ChildrenNamed(name NodeName) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// Root walks up to the top of the tree.
func (n *Node) Root() *Node {
	for n != nil && n.parent != nil {
		n = n.parent
	}
	return n
}

// Value evaluates the node's expression. Nodes without one evaluate to 0.
func (n *Node) Value(s Scope) float64 {
	if n == nil || n.expr == nil {
		return 0
	}
	return n.expr.Eval(s)
}

// ChildValue evaluates the first child of the given kind, or 0 if absent.
func (n *Node) ChildValue(name NodeName, s Scope) float64 {
	return n.Child(name).Value(s)
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.label != "" {
		return string(n.name) + "[" + n.label + "]"
	}
	return string(n.name)
}

// walk visits n and its descendants depth first in document order.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}
