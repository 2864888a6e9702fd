package task

import (
	"github.com/milk9111/bulletml/pattern"
)

// Behavior is the kind-specific part of a task. The set of implementations is
// closed: one per executable node kind.
type Behavior interface {
	setup(t *Task, b Bullet)
	run(t *Task, b Bullet) RunStatus
}

// Task is the runtime mirror of one node inside one bullet's task tree. The
// node is shared and read-only; everything else belongs to this tree alone.
type Task struct {
	node     *pattern.Node
	owner    *Task
	children []*Task
	state    State
	behavior Behavior

	// params is set by reference tasks at setup. A nil slice means the task
	// does not open a parameter scope of its own.
	params []float64
	// inherited is the parameter list a root task received from its runner.
	inherited []float64
}

// New builds the task tree for an executable node. It returns nil for node
// kinds that do not execute (bullet, term, direction, ...).
func New(n *pattern.Node, owner *Task) *Task {
	if n == nil {
		return nil
	}
	var behavior Behavior
	switch n.Name() {
	case pattern.Action, pattern.ActionRef:
		behavior = &Action{}
	case pattern.Fire:
		behavior = &Fire{}
	case pattern.FireRef:
		behavior = &FireRef{}
	case pattern.Accel:
		behavior = &Accel{}
	case pattern.ChangeSpeed:
		behavior = &ChangeSpeed{}
	case pattern.ChangeDirection:
		behavior = &ChangeDirection{}
	case pattern.Wait:
		behavior = &Wait{}
	case pattern.Vanish:
		behavior = &Vanish{}
	default:
		return nil
	}

	t := &Task{node: n, owner: owner, behavior: behavior}
	t.parseTasks()
	return t
}

// parseTasks expands the child tasks of container kinds.
func (t *Task) parseTasks() {
	switch t.node.Name() {
	case pattern.ActionRef:
		// The referenced body runs inline as a synthetic child; the ref's own
		// children are only its params.
		body := &Task{node: t.node.Ref(), owner: t, behavior: &Action{inlined: true}}
		body.parseTasks()
		t.children = append(t.children, body)
	case pattern.FireRef:
		if fire := New(t.node.Ref(), t); fire != nil {
			t.children = append(t.children, fire)
		}
	case pattern.Action:
		for _, c := range t.node.Children() {
			t.addChild(c)
		}
	}
}

func (t *Task) addChild(n *pattern.Node) {
	if n.Name() == pattern.Repeat {
		for _, c := range n.Children() {
			if c.Name() == pattern.Action || c.Name() == pattern.ActionRef {
				t.addChild(c)
				return
			}
		}
		return
	}
	if child := New(n, t); child != nil {
		t.children = append(t.children, child)
	}
}

func (t *Task) Node() *pattern.Node { return t.node }

func (t *Task) Owner() *Task { return t.owner }

// Children returns the ordered child tasks. The slice must not be modified.
func (t *Task) Children() []*Task { return t.children }

func (t *Task) State() State { return t.state }

func (t *Task) Finished() bool { return t.state == Finished }

// Behavior exposes the kind-specific state for inspection.
func (t *Task) Behavior() Behavior { return t.behavior }

// Params returns the parameters visible to expressions evaluated by t.
func (t *Task) Params() []float64 { return t.boundParams() }

// InitTask activates the task: every descendant returns to Uninitialized so
// it is set up afresh when first reached, then the kind's setup runs once.
func (t *Task) InitTask(b Bullet) {
	for _, c := range t.children {
		c.reset()
	}
	t.state = Active
	t.behavior.setup(t, b)
}

func (t *Task) reset() {
	t.state = Uninitialized
	for _, c := range t.children {
		c.reset()
	}
}

// Run executes one tick. An uninitialized task is initialized first; a
// finished task reports End without touching the bullet.
func (t *Task) Run(b Bullet) RunStatus {
	switch t.state {
	case Finished:
		return End
	case Uninitialized:
		t.InitTask(b)
	}

	status := t.behavior.run(t, b)
	if status == End {
		t.state = Finished
	}
	return status
}

// runChildren is the shared composite behaviour: children run in order, End
// moves on within the same tick, anything else returns to the caller.
func (t *Task) runChildren(b Bullet) RunStatus {
	for _, c := range t.children {
		if c.state == Finished {
			continue
		}
		if status := c.Run(b); status != End {
			return status
		}
	}
	return End
}

func (t *Task) boundParams() []float64 {
	for cur := t; cur != nil; cur = cur.owner {
		if cur.params != nil {
			return cur.params
		}
		if cur.owner == nil {
			return cur.inherited
		}
	}
	return nil
}

// enclosingParams is what the task's own param expressions see: the scope
// above it, never the one it is about to open.
func (t *Task) enclosingParams() []float64 {
	if t.owner != nil {
		return t.owner.boundParams()
	}
	return t.inherited
}

// bindParams evaluates the <param> children of a reference node in the
// enclosing scope and opens a new scope with them.
func (t *Task) bindParams(b Bullet) {
	outer := scope{params: t.enclosingParams(), bullet: b}
	nodes := t.node.ChildrenNamed(pattern.Param)
	params := make([]float64, len(nodes))
	for i, n := range nodes {
		params[i] = n.Value(outer)
	}
	t.params = params
}

func (t *Task) scope(b Bullet) pattern.Scope {
	return scope{params: t.boundParams(), bullet: b}
}

// value evaluates an expression node against this task and bullet.
func (t *Task) value(n *pattern.Node, b Bullet) float64 {
	return n.Value(t.scope(b))
}

type scope struct {
	params []float64
	bullet Bullet
}

func (s scope) Param(i int) float64 {
	if i < 1 || i > len(s.params) {
		return 0
	}
	return s.params[i-1]
}

func (s scope) Rank() float64 {
	if s.bullet == nil {
		return 0
	}
	return s.bullet.Rank()
}

func (s scope) Rand() float64 {
	if s.bullet == nil {
		return 0
	}
	return s.bullet.Rand()
}
