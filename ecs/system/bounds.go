package system

import (
	"github.com/milk9111/bulletml/ecs"
	"github.com/milk9111/bulletml/ecs/component"
)

// BoundsSystem despawns bullets that have left the arena. Emitters and
// targets are never culled.
type BoundsSystem struct{}

func NewBoundsSystem() *BoundsSystem {
	return &BoundsSystem{}
}

func (s *BoundsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, bounds, ok := ecs.First(w, component.ArenaBoundsComponent.Kind())
	if !ok {
		return
	}
	ecs.ForEach2(w, component.BulletTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.BulletTag, tr *component.Transform) {
		if bounds.Contains(tr.Position) {
			return
		}
		if ecs.DestroyEntity(w, e) {
			w.Events().Push(ecs.Event{Kind: ecs.EventOutOfBound, Entity: e})
		}
	})
}
