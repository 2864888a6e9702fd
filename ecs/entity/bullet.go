package entity

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/ecs"
	"github.com/milk9111/bulletml/ecs/component"
	"github.com/milk9111/bulletml/task"
)

// NewBullet spawns the bullet described by a fire task at pos. The bullet
// runs the actions of its bullet node with the shot's params. ttl <= 0
// leaves it without a lifetime.
func NewBullet(w *ecs.World, pos cp.Vector, shot task.Shot, ttl int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)

	add := func(err error) error {
		if err != nil {
			ecs.DestroyEntity(w, e)
		}
		return err
	}

	if err := add(ecs.Add(w, e, component.BulletTagComponent.Kind(), &component.BulletTag{})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{
		Direction: shot.Direction,
		Speed:     shot.Speed,
	})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.BulletScriptComponent.Kind(), &component.BulletScript{
		Runner: task.NewShotRunner(shot),
	})); err != nil {
		return 0, err
	}
	if ttl > 0 {
		if err := add(ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: ttl})); err != nil {
			return 0, err
		}
	}
	return e, nil
}
