package task

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/pattern"
)

// Accel adds a fixed per-tick vector to the bullet's acceleration for
// Duration ticks.
type Accel struct {
	Duration     float64
	Acceleration cp.Vector
}

func (a *Accel) setup(t *Task, b Bullet) {
	a.Duration = validDuration(t.value(t.node.Child(pattern.Term), b))
	a.Acceleration = cp.Vector{}

	current := b.Acceleration()
	if h := t.node.Child(pattern.Horizontal); h != nil {
		a.Acceleration.X = rampStep(h.Type(), t.value(h, b), current.X, a.Duration)
	}
	if v := t.node.Child(pattern.Vertical); v != nil {
		a.Acceleration.Y = rampStep(v.Type(), t.value(v, b), current.Y, a.Duration)
	}
}

func (a *Accel) run(t *Task, b Bullet) RunStatus {
	b.SetAcceleration(b.Acceleration().Add(a.Acceleration))
	a.Duration -= b.TimeSpeed()
	if a.Duration <= 0 {
		return End
	}
	return Continue
}

// validDuration substitutes one tick for zero, negative or NaN durations.
func validDuration(d float64) float64 {
	if d > 0 {
		return d
	}
	return 1
}

// rampStep turns an evaluated value into a per-tick increment according to
// the node's selector.
func rampStep(typ pattern.NodeType, value, current, duration float64) float64 {
	switch typ {
	case pattern.TypeSequence:
		return value
	case pattern.TypeRelative:
		return value / duration
	default:
		step := (value - current) / duration
		if math.IsNaN(step) {
			return 0
		}
		return step
	}
}
