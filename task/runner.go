package task

import (
	"errors"
	"log/slog"

	"github.com/milk9111/bulletml/pattern"
)

var (
	ErrUnresolvedTree = errors.New("task: pattern tree is not resolved")
	ErrNoTopAction    = errors.New("task: pattern has no top action")
)

// Runner owns the root tasks of one bullet. Roots run independently: a wait
// in one does not hold back another.
type Runner struct {
	tasks []*Task
}

// NewRunner builds a runner for the top actions of a resolved tree.
func NewRunner(tree *pattern.Tree) (*Runner, error) {
	if !tree.Resolved() {
		return nil, ErrUnresolvedTree
	}
	tops := tree.TopActions()
	if len(tops) == 0 {
		return nil, ErrNoTopAction
	}

	r := &Runner{}
	for _, n := range tops {
		r.tasks = append(r.tasks, New(n, nil))
	}
	slog.Debug("task: runner created", "roots", len(r.tasks))
	return r, nil
}

// NewShotRunner builds a runner for the actions of a fired bullet. The roots
// see the shot's params as $1..$n.
func NewShotRunner(shot Shot) *Runner {
	r := &Runner{}
	if shot.Bullet == nil {
		return r
	}
	for _, c := range shot.Bullet.Children() {
		if c.Name() != pattern.Action && c.Name() != pattern.ActionRef {
			continue
		}
		t := New(c, nil)
		t.inherited = append([]float64(nil), shot.Params...)
		r.tasks = append(r.tasks, t)
	}
	return r
}

// Update runs every unfinished root for one tick. It reports End once all
// roots have finished, Stop if any root stopped this tick, else Continue.
func (r *Runner) Update(b Bullet) RunStatus {
	status := End
	for _, t := range r.tasks {
		if t.Finished() {
			continue
		}
		switch t.Run(b) {
		case Stop:
			status = Stop
		case Continue:
			if status != Stop {
				status = Continue
			}
		}
	}
	return status
}

// Finished reports whether every root task has finished.
func (r *Runner) Finished() bool {
	for _, t := range r.tasks {
		if !t.Finished() {
			return false
		}
	}
	return true
}

// Tasks returns the root tasks. The slice must not be modified.
func (r *Runner) Tasks() []*Task { return r.tasks }
