package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Motion is the kinematic state a bullet script drives. Direction is in
// radians, 0 pointing up and growing clockwise.
type Motion struct {
	Direction    float64
	Speed        float64
	Acceleration cp.Vector
}

// Velocity is the per-frame displacement implied by direction, speed and
// acceleration.
func (m Motion) Velocity() cp.Vector {
	return cp.ForAngle(m.Direction - math.Pi/2).Mult(m.Speed).Add(m.Acceleration)
}

var MotionComponent = NewComponent[Motion]()
