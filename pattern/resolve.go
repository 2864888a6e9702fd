package pattern

import (
	"errors"
	"log/slog"
)

// Resolve binds every actionRef, bulletRef and fireRef to its labelled target.
// It either binds all of them or none, and it is idempotent: once it has run,
// later calls return the first outcome without touching the tree.
func (t *Tree) Resolve() error {
	if t == nil || t.root == nil {
		return ErrInvalidNode
	}
	if t.resolved {
		return nil
	}
	if t.resolveErr != nil {
		return t.resolveErr
	}

	index, byLabel, errs := buildLabelIndex(t.root)

	bindings := map[*Node]*Node{}
	t.root.walk(func(n *Node) {
		want, ok := n.name.RefTarget()
		if !ok {
			return
		}
		if target := index[labelKey{name: want, label: n.label}]; target != nil {
			bindings[n] = target
			return
		}
		rerr := &ResolutionError{Err: ErrUnresolvedReference, Ref: n.name, Label: n.label, Want: want}
		if kinds := byLabel[n.label]; len(kinds) > 0 {
			rerr.Err = ErrKindMismatch
			rerr.Got = kinds[0]
		}
		errs = append(errs, rerr)
	})

	if len(errs) == 0 {
		if ref := findCycle(t.root, bindings); ref != nil {
			errs = append(errs, &ResolutionError{Err: ErrReferenceCycle, Ref: ref.name, Label: ref.label, Want: Action})
		}
	}

	if len(errs) > 0 {
		t.resolveErr = errors.Join(errs...)
		return t.resolveErr
	}

	for ref, target := range bindings {
		ref.ref = target
	}
	t.index = index
	t.resolved = true
	slog.Debug("pattern: resolved", "labels", len(index), "references", len(bindings))
	return nil
}

// buildLabelIndex scans the whole tree once and maps (kind, label) of every
// labelled non-reference node to that node. byLabel lists the kinds carrying
// each label in document order.
func buildLabelIndex(root *Node) (map[labelKey]*Node, map[string][]NodeName, []error) {
	index := map[labelKey]*Node{}
	byLabel := map[string][]NodeName{}
	var errs []error
	root.walk(func(n *Node) {
		if n == root || n.label == "" || n.name.IsRef() {
			return
		}
		key := labelKey{name: n.name, label: n.label}
		if _, dup := index[key]; dup {
			errs = append(errs, &ResolutionError{Err: ErrDuplicateLabel, Label: n.label, Want: n.name})
			return
		}
		index[key] = n
		byLabel[n.label] = append(byLabel[n.label], n.name)
	})
	return index, byLabel, errs
}

// findCycle looks for an actionRef whose expansion reaches itself. Only the
// edges a task tree expands eagerly matter: nested actions, repeats and
// actionRef targets. A bullet firing itself is not a cycle because each shot
// gets its own runner.
func findCycle(root *Node, bindings map[*Node]*Node) *Node {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[*Node]int{}

	expand := func(n *Node) []*Node {
		if n.name == ActionRef {
			if target := bindings[n]; target != nil {
				return []*Node{target}
			}
			return nil
		}
		var out []*Node
		for _, c := range n.children {
			switch c.name {
			case Action, ActionRef, Repeat:
				out = append(out, c)
			}
		}
		return out
	}

	var visit func(n *Node) *Node
	visit = func(n *Node) *Node {
		state[n] = visiting
		for _, next := range expand(n) {
			switch state[next] {
			case visiting:
				return n
			case unvisited:
				if bad := visit(next); bad != nil {
					return bad
				}
			}
		}
		state[n] = done
		return nil
	}

	var found *Node
	root.walk(func(n *Node) {
		if found != nil || n.name != Action || state[n] != unvisited {
			return
		}
		found = visit(n)
	})
	return found
}
