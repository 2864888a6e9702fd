package task

import (
	"github.com/milk9111/bulletml/common"
	"github.com/milk9111/bulletml/pattern"
)

// ChangeSpeed ramps the bullet's speed over Duration ticks.
type ChangeSpeed struct {
	Duration float64
	Delta    float64
}

func (c *ChangeSpeed) setup(t *Task, b Bullet) {
	c.Duration = validDuration(t.value(t.node.Child(pattern.Term), b))
	spd := t.node.Child(pattern.Speed)
	c.Delta = rampStep(spd.Type(), t.value(spd, b), b.Speed(), c.Duration)
}

func (c *ChangeSpeed) run(t *Task, b Bullet) RunStatus {
	b.SetSpeed(b.Speed() + c.Delta)
	c.Duration -= b.TimeSpeed()
	if c.Duration <= 0 {
		return End
	}
	return Continue
}

// ChangeDirection turns the bullet over Duration ticks. Delta is radians per
// tick.
type ChangeDirection struct {
	Duration float64
	Delta    float64
}

func (c *ChangeDirection) setup(t *Task, b Bullet) {
	c.Duration = validDuration(t.value(t.node.Child(pattern.Term), b))
	dir := t.node.Child(pattern.Direction)
	value := common.Radians(t.value(dir, b))

	switch dir.Type() {
	case pattern.TypeSequence:
		c.Delta = value
	case pattern.TypeRelative:
		c.Delta = value / c.Duration
	case pattern.TypeAbsolute:
		c.Delta = common.WrapAngle(value-b.Direction()) / c.Duration
	default:
		c.Delta = common.WrapAngle(b.AimDirection()+value-b.Direction()) / c.Duration
	}
}

func (c *ChangeDirection) run(t *Task, b Bullet) RunStatus {
	b.SetDirection(common.WrapAngle(b.Direction() + c.Delta))
	c.Duration -= b.TimeSpeed()
	if c.Duration <= 0 {
		return End
	}
	return Continue
}
