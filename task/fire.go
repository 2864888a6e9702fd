package task

import (
	"github.com/milk9111/bulletml/common"
	"github.com/milk9111/bulletml/pattern"
)

const defaultShotSpeed = 1

// Fire emits one shot. The shot is computed at setup; the previous shot is
// kept across re-initialization so sequence direction and speed can build on
// it inside a repeat.
type Fire struct {
	Shot Shot

	fired         int
	lastDirection float64
	lastSpeed     float64
}

func (f *Fire) setup(t *Task, b Bullet) {
	n := t.node

	bulletNode := n.Child(pattern.Bullet)
	var params []float64
	if bulletNode != nil {
		params = append(params, t.boundParams()...)
	} else if ref := n.Child(pattern.BulletRef); ref != nil {
		bulletNode = ref.Ref()
		s := t.scope(b)
		for _, p := range ref.ChildrenNamed(pattern.Param) {
			params = append(params, p.Value(s))
		}
	}

	dirNode := n.Child(pattern.Direction)
	if dirNode == nil {
		dirNode = bulletNode.Child(pattern.Direction)
	}
	spdNode := n.Child(pattern.Speed)
	if spdNode == nil {
		spdNode = bulletNode.Child(pattern.Speed)
	}

	f.Shot = Shot{
		Bullet:    bulletNode,
		Direction: f.direction(dirNode, t, b),
		Speed:     f.speed(spdNode, t, b),
		Params:    params,
	}
}

func (f *Fire) direction(n *pattern.Node, t *Task, b Bullet) float64 {
	if n == nil {
		return b.AimDirection()
	}
	value := common.Radians(t.value(n, b))
	switch n.Type() {
	case pattern.TypeAbsolute:
		return common.WrapAngle(value)
	case pattern.TypeRelative:
		return common.WrapAngle(b.Direction() + value)
	case pattern.TypeSequence:
		base := b.AimDirection()
		if f.fired > 0 {
			base = f.lastDirection
		}
		return common.WrapAngle(base + value)
	default:
		return common.WrapAngle(b.AimDirection() + value)
	}
}

func (f *Fire) speed(n *pattern.Node, t *Task, b Bullet) float64 {
	if n == nil {
		return defaultShotSpeed
	}
	value := t.value(n, b)
	switch n.Type() {
	case pattern.TypeRelative:
		return b.Speed() + value
	case pattern.TypeSequence:
		base := b.Speed()
		if f.fired > 0 {
			base = f.lastSpeed
		}
		return base + value
	default:
		return value
	}
}

func (f *Fire) run(t *Task, b Bullet) RunStatus {
	b.Fire(f.Shot)
	f.fired++
	f.lastDirection = f.Shot.Direction
	f.lastSpeed = f.Shot.Speed
	return End
}

// FireRef runs a referenced fire inside its own parameter scope.
type FireRef struct{}

func (*FireRef) setup(t *Task, b Bullet) {
	t.bindParams(b)
}

func (*FireRef) run(t *Task, b Bullet) RunStatus {
	return t.runChildren(b)
}
