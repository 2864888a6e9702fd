package task

import (
	"math"

	"github.com/milk9111/bulletml/pattern"
)

// maxRepeat bounds a repeat count so an absurd times value cannot overflow.
const maxRepeat = math.MaxInt32

// Action runs its children in order, RepeatNumMax times. When a repetition
// ends every child is initialized again right away, so their setup sees the
// bullet as the previous repetition left it.
type Action struct {
	RepeatNum    int
	RepeatNumMax int

	// inlined marks the synthetic body of an actionRef, which always runs
	// once; the ref itself carries the repeat count.
	inlined bool
}

func (a *Action) setup(t *Task, b Bullet) {
	a.RepeatNum = 0
	a.RepeatNumMax = 1
	if !a.inlined {
		if p := t.node.Parent(); p != nil && p.Name() == pattern.Repeat {
			outer := scope{params: t.enclosingParams(), bullet: b}
			a.RepeatNumMax = repeatCount(p.ChildValue(pattern.Times, outer))
		}
	}
	if t.node.Name() == pattern.ActionRef {
		t.bindParams(b)
	}
}

func (a *Action) run(t *Task, b Bullet) RunStatus {
	for a.RepeatNum < a.RepeatNumMax {
		switch status := t.runChildren(b); status {
		case End:
			a.RepeatNum++
			if a.RepeatNum < a.RepeatNumMax {
				for _, c := range t.children {
					c.InitTask(b)
				}
			}
		case Stop:
			return Stop
		default:
			return Continue
		}
	}
	return End
}

// repeatCount truncates an evaluated times value. NaN and values below one
// repeat zero times.
func repeatCount(v float64) int {
	switch {
	case math.IsNaN(v) || v < 1:
		return 0
	case v > maxRepeat:
		return maxRepeat
	}
	return int(v)
}
