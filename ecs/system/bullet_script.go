package system

import (
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/common"
	"github.com/milk9111/bulletml/ecs"
	"github.com/milk9111/bulletml/ecs/component"
	"github.com/milk9111/bulletml/ecs/entity"
	"github.com/milk9111/bulletml/task"
)

// BulletScriptSystem ticks every entity's task tree once per frame. Shots
// and vanishes requested by the scripts are applied after all scripts have
// run, so a bullet spawned this frame starts scripting next frame.
type BulletScriptSystem struct {
	Settings *Settings

	// Dropped counts shots discarded because of MaxBullets.
	Dropped int

	pending  []spawnRequest
	vanished []ecs.Entity
}

type spawnRequest struct {
	parent   ecs.Entity
	position cp.Vector
	shot     task.Shot
}

func NewBulletScriptSystem(settings *Settings) *BulletScriptSystem {
	return &BulletScriptSystem{Settings: settings}
}

func (s *BulletScriptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	target, hasTarget := targetPosition(w)

	ecs.ForEach3(w,
		component.BulletScriptComponent.Kind(),
		component.TransformComponent.Kind(),
		component.MotionComponent.Kind(),
		func(e ecs.Entity, script *component.BulletScript, tr *component.Transform, m *component.Motion) {
			if script.Runner == nil || script.Runner.Finished() {
				return
			}
			b := &scriptedBullet{
				sys:       s,
				entity:    e,
				transform: tr,
				motion:    m,
				target:    target,
				hasTarget: hasTarget,
			}
			script.Runner.Update(b)
			script.Frames++

			if !script.Runner.Finished() {
				return
			}
			w.Events().Push(ecs.Event{Kind: ecs.EventScriptDone, Entity: e})
			if script.Loop && script.Tree != nil {
				runner, err := task.NewRunner(script.Tree)
				if err != nil {
					slog.Warn("bullet script: restart failed", "entity", e, "error", err)
					return
				}
				script.Runner = runner
			}
		})

	s.flush(w)
}

func (s *BulletScriptSystem) flush(w *ecs.World) {
	for _, e := range s.vanished {
		if ecs.DestroyEntity(w, e) {
			w.Events().Push(ecs.Event{Kind: ecs.EventVanished, Entity: e})
		}
	}
	s.vanished = s.vanished[:0]

	ttl := 0
	limit := 0
	if s.Settings != nil {
		ttl = s.Settings.BulletTTL
		limit = s.Settings.MaxBullets
	}
	live := 0
	if limit > 0 && len(s.pending) > 0 {
		live = countBullets(w)
	}
	for _, req := range s.pending {
		if limit > 0 && live >= limit {
			s.Dropped++
			continue
		}
		e, err := entity.NewBullet(w, req.position, req.shot, ttl)
		if err != nil {
			slog.Warn("bullet script: spawn failed", "parent", req.parent, "error", err)
			continue
		}
		live++
		w.Events().Push(ecs.Event{Kind: ecs.EventSpawned, Entity: e, Source: req.parent})
	}
	s.pending = s.pending[:0]
}

// countBullets counts live bullet entities. Emitters and the target do not
// count against MaxBullets.
func countBullets(w *ecs.World) int {
	n := 0
	ecs.ForEach(w, component.BulletTagComponent.Kind(), func(ecs.Entity, *component.BulletTag) {
		n++
	})
	return n
}

func targetPosition(w *ecs.World) (cp.Vector, bool) {
	e, _, ok := ecs.First(w, component.TargetTagComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return tr.Position, true
}

// scriptedBullet exposes one entity's components as a task.Bullet.
type scriptedBullet struct {
	sys       *BulletScriptSystem
	entity    ecs.Entity
	transform *component.Transform
	motion    *component.Motion
	target    cp.Vector
	hasTarget bool
}

func (b *scriptedBullet) Position() cp.Vector { return b.transform.Position }

func (b *scriptedBullet) Direction() float64     { return b.motion.Direction }
func (b *scriptedBullet) SetDirection(d float64) { b.motion.Direction = d }

func (b *scriptedBullet) Speed() float64     { return b.motion.Speed }
func (b *scriptedBullet) SetSpeed(v float64) { b.motion.Speed = v }

func (b *scriptedBullet) Acceleration() cp.Vector     { return b.motion.Acceleration }
func (b *scriptedBullet) SetAcceleration(a cp.Vector) { b.motion.Acceleration = a }

func (b *scriptedBullet) TimeSpeed() float64 { return b.sys.Settings.timeSpeed() }

func (b *scriptedBullet) Rank() float64 {
	if b.sys.Settings == nil {
		return 0
	}
	return b.sys.Settings.Rank
}

func (b *scriptedBullet) Rand() float64 { return b.sys.Settings.rand() }

// AimDirection points at the target, or straight down when there is none.
func (b *scriptedBullet) AimDirection() float64 {
	if !b.hasTarget {
		return math.Pi
	}
	p := b.transform.Position
	return common.AimAngle(p.X, p.Y, b.target.X, b.target.Y)
}

func (b *scriptedBullet) Fire(shot task.Shot) {
	b.sys.pending = append(b.sys.pending, spawnRequest{parent: b.entity, position: b.transform.Position, shot: shot})
}

func (b *scriptedBullet) Vanish() {
	b.sys.vanished = append(b.sys.vanished, b.entity)
}
