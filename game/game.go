package game

import (
	"fmt"
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/common"
	"github.com/milk9111/bulletml/config"
	"github.com/milk9111/bulletml/ecs"
	"github.com/milk9111/bulletml/ecs/component"
	"github.com/milk9111/bulletml/ecs/entity"
	"github.com/milk9111/bulletml/ecs/system"
	"github.com/milk9111/bulletml/pattern"
	"github.com/milk9111/bulletml/prefabs"
)

// Game is a headless simulation: one world, the bullet systems and the
// scene's emitters running a pattern.
type Game struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	settings  *system.Settings
	scripts   *system.BulletScriptSystem
	collector *eventCollector

	frame int
}

// Frame summarizes one simulated frame.
type Frame struct {
	Index       int          `json:"frame"`
	Bullets     int          `json:"bullets"`
	Spawned     int          `json:"spawned"`
	Vanished    int          `json:"vanished"`
	Expired     int          `json:"expired"`
	OutOfBounds int          `json:"out_of_bounds"`
	ScriptsDone int          `json:"scripts_done"`
	Emitters    []EmitterPos `json:"emitters,omitempty"`
	Positions   []cp.Vector  `json:"positions,omitempty"`
}

type EmitterPos struct {
	Name     string    `json:"name"`
	Position cp.Vector `json:"position"`
	// Direction is in degrees.
	Direction float64 `json:"direction"`
	Finished  bool    `json:"finished"`
}

// New builds the configured scene with tree as the default pattern for its
// emitters.
func New(cfg config.Config, tree *pattern.Tree) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scene, err := prefabs.LoadScene(cfg.Scene)
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:     ecs.NewWorld(),
		settings:  system.NewSettings(cfg.Seed),
		collector: &eventCollector{},
	}
	g.Apply(cfg)
	g.scripts = system.NewBulletScriptSystem(g.settings)
	g.scheduler = ecs.NewScheduler(
		g.scripts,
		system.NewMovementSystem(g.settings),
		system.NewTTLSystem(),
		system.NewBoundsSystem(),
		g.collector,
	)

	ents, err := entity.BuildScene(g.world, scene, entity.BuildOptions{Pattern: tree})
	if err != nil {
		return nil, err
	}
	if cfg.Loop {
		for _, e := range ents {
			if script, ok := ecs.Get(g.world, e, component.BulletScriptComponent.Kind()); ok {
				script.Loop = true
			}
		}
	}
	if g.emitterCount() == 0 {
		return nil, fmt.Errorf("game: scene %q has no emitters", scene.Name)
	}

	slog.Info("game: scene built", "scene", scene.Name, "entities", len(ents), "rank", cfg.Rank, "seed", cfg.Seed)
	return g, nil
}

// Apply updates the knobs that may change while running. Seed, scene and
// loop only take effect through New.
func (g *Game) Apply(cfg config.Config) {
	g.settings.Rank = cfg.Rank
	g.settings.TimeSpeed = cfg.TimeSpeed
	g.settings.BulletTTL = cfg.BulletTTL
	g.settings.MaxBullets = cfg.MaxBullets
}

// Update advances the simulation one frame.
func (g *Game) Update() Frame {
	g.frame++
	g.collector.reset()
	g.scheduler.Update(g.world)

	f := g.collector.frame
	f.Index = g.frame
	ecs.ForEach(g.world, component.BulletTagComponent.Kind(), func(ecs.Entity, *component.BulletTag) {
		f.Bullets++
	})
	return f
}

// Snapshot is Update plus positions of every bullet and emitter.
func (g *Game) Snapshot() Frame {
	f := g.Update()
	ecs.ForEach2(g.world, component.BulletTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.BulletTag, tr *component.Transform) {
		f.Positions = append(f.Positions, tr.Position)
	})
	ecs.ForEach4(g.world,
		component.EmitterTagComponent.Kind(),
		component.TransformComponent.Kind(),
		component.MotionComponent.Kind(),
		component.BulletScriptComponent.Kind(),
		func(_ ecs.Entity, tag *component.EmitterTag, tr *component.Transform, m *component.Motion, script *component.BulletScript) {
			f.Emitters = append(f.Emitters, EmitterPos{
				Name:      tag.Name,
				Position:  tr.Position,
				Direction: common.Degrees(m.Direction),
				Finished:  script.Runner == nil || script.Runner.Finished(),
			})
		})
	return f
}

// Done reports whether every emitter has finished and no bullet is left.
func (g *Game) Done() bool {
	done := true
	ecs.ForEach(g.world, component.BulletScriptComponent.Kind(), func(_ ecs.Entity, script *component.BulletScript) {
		if script.Runner != nil && !script.Runner.Finished() {
			done = false
		}
	})
	if !done {
		return false
	}
	_, _, found := ecs.First(g.world, component.BulletTagComponent.Kind())
	return !found
}

func (g *Game) World() *ecs.World { return g.world }

func (g *Game) FrameIndex() int { return g.frame }

// Dropped is the number of shots lost to the bullet cap.
func (g *Game) Dropped() int { return g.scripts.Dropped }

func (g *Game) emitterCount() int {
	n := 0
	ecs.ForEach(g.world, component.EmitterTagComponent.Kind(), func(ecs.Entity, *component.EmitterTag) { n++ })
	return n
}

// eventCollector runs last each frame and tallies the frame's events before
// the scheduler flushes them.
type eventCollector struct {
	frame Frame
}

func (c *eventCollector) reset() { c.frame = Frame{} }

func (c *eventCollector) Update(w *ecs.World) {
	for _, ev := range w.Events().Drain() {
		switch ev.Kind {
		case ecs.EventSpawned:
			c.frame.Spawned++
		case ecs.EventVanished:
			c.frame.Vanished++
		case ecs.EventExpired:
			c.frame.Expired++
		case ecs.EventOutOfBound:
			c.frame.OutOfBounds++
		case ecs.EventScriptDone:
			c.frame.ScriptsDone++
		}
	}
}
