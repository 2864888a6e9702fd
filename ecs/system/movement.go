package system

import (
	"github.com/milk9111/bulletml/ecs"
	"github.com/milk9111/bulletml/ecs/component"
)

// MovementSystem integrates Motion into Transform once per frame, scaled by
// the time speed.
type MovementSystem struct {
	Settings *Settings
}

func NewMovementSystem(settings *Settings) *MovementSystem {
	return &MovementSystem{Settings: settings}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	scale := s.Settings.timeSpeed()
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.MotionComponent.Kind(), func(_ ecs.Entity, tr *component.Transform, m *component.Motion) {
		tr.Position = tr.Position.Add(m.Velocity().Mult(scale))
	})
}
