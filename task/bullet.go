package task

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/pattern"
)

// Bullet is the kinematic state a task tree drives. The host owns it; tasks
// only read and write these fields during Run. Angles are radians using the
// BulletML convention: 0 points up and angles grow clockwise.
type Bullet interface {
	Position() cp.Vector

	Direction() float64
	SetDirection(radians float64)

	Speed() float64
	SetSpeed(speed float64)

	Acceleration() cp.Vector
	SetAcceleration(a cp.Vector)

	// TimeSpeed scales how much of a frame each tick consumes.
	TimeSpeed() float64

	Rank() float64
	Rand() float64

	// AimDirection is the direction from the bullet to its target.
	AimDirection() float64

	Fire(shot Shot)
	Vanish()
}

// Shot is one bullet emitted by a fire task. The host spawns a new bullet
// heading in Direction at Speed and runs it with NewShotRunner.
type Shot struct {
	Bullet    *pattern.Node
	Direction float64
	Speed     float64
	Params    []float64
}
