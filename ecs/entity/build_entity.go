package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/common"
	"github.com/milk9111/bulletml/ecs"
	"github.com/milk9111/bulletml/ecs/component"
	"github.com/milk9111/bulletml/pattern"
	"github.com/milk9111/bulletml/prefabs"
	"github.com/milk9111/bulletml/task"
)

var ErrNoPattern = errors.New("build entity: emitter has no pattern")

// BuildOptions carries what a prefab cannot name on its own.
type BuildOptions struct {
	// Pattern runs on emitters whose spec leaves the pattern empty.
	Pattern *pattern.Tree
	// LoadPattern resolves named patterns. Defaults to prefabs.LoadPattern.
	LoadPattern func(name string) (*pattern.Tree, error)
}

type buildContext struct {
	PrefabPath string
	Options    BuildOptions
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"target_tag":   addTargetTag,
	"bullet_tag":   addBulletTag,
	"arena_bounds": addArenaBounds,
	"transform":    addTransform,
	"motion":       addMotion,
	"ttl":          addTTL,
	"emitter":      addEmitter,
}

// Emitters need their transform and motion in place before the script is
// attached.
var componentBuildOrder = []string{
	"target_tag",
	"bullet_tag",
	"arena_bounds",
	"transform",
	"motion",
	"ttl",
	"emitter",
}

// BuildEntity loads a prefab and builds it into w.
func BuildEntity(w *ecs.World, prefabPath string, opts BuildOptions) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, prefabPath, spec, opts)
}

// BuildEntityFromSpec builds an already loaded prefab. On error the partly
// built entity is destroyed.
func BuildEntityFromSpec(w *ecs.World, prefabPath string, spec prefabs.EntityBuildSpec, opts BuildOptions) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Options: opts}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	build := func(name string) error {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, remaining[name], ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
		return nil
	}

	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; !ok {
			continue
		}
		if err := build(name); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := build(name); err != nil {
				ecs.DestroyEntity(w, e)
				return 0, err
			}
		}
	}

	return e, nil
}

// BuildScene builds every entity of a scene in order.
func BuildScene(w *ecs.World, scene prefabs.SceneSpec, opts BuildOptions) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(scene.Entities))
	for i, ent := range scene.Entities {
		spec, err := prefabs.LoadEntityBuildSpec(ent.Prefab)
		if err != nil {
			return out, fmt.Errorf("build scene %q: entity %d: %w", scene.Name, i, err)
		}
		e, err := BuildEntityFromSpec(w, ent.Prefab, spec.Merge(ent.Components), opts)
		if err != nil {
			return out, fmt.Errorf("build scene %q: entity %d: %w", scene.Name, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func addTargetTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TargetTagComponent.Kind(), &component.TargetTag{})
}

func addBulletTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.BulletTagComponent.Kind(), &component.BulletTag{})
}

type arenaBoundsSpec = prefabs.ArenaBoundsComponentSpec

func addArenaBounds(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[arenaBoundsSpec](raw)
	if err != nil {
		return fmt.Errorf("decode arena bounds spec: %w", err)
	}
	if spec.Right <= spec.Left || spec.Bottom <= spec.Top {
		return fmt.Errorf("arena bounds: empty area %+v", spec)
	}
	return ecs.Add(w, e, component.ArenaBoundsComponent.Kind(), &component.ArenaBounds{
		Area:   cp.BB{L: spec.Left, B: spec.Top, R: spec.Right, T: spec.Bottom},
		Margin: spec.Margin,
	})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: cp.Vector{X: spec.X, Y: spec.Y},
	})
}

type motionSpec = prefabs.MotionComponentSpec

func addMotion(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[motionSpec](raw)
	if err != nil {
		return fmt.Errorf("decode motion spec: %w", err)
	}
	return ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{
		Direction: common.WrapAngle(common.Radians(spec.Direction)),
		Speed:     spec.Speed,
	})
}

type ttlSpec = prefabs.TTLComponentSpec

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ttlSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ttl spec: %w", err)
	}
	if spec.Frames <= 0 {
		return fmt.Errorf("ttl: frames must be positive, got %d", spec.Frames)
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: spec.Frames})
}

type emitterSpec = prefabs.EmitterComponentSpec

func addEmitter(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[emitterSpec](raw)
	if err != nil {
		return fmt.Errorf("decode emitter spec: %w", err)
	}

	tree := ctx.Options.Pattern
	if spec.Pattern != "" {
		load := ctx.Options.LoadPattern
		if load == nil {
			load = prefabs.LoadPattern
		}
		if tree, err = load(spec.Pattern); err != nil {
			return err
		}
	}
	if tree == nil {
		return ErrNoPattern
	}

	name := spec.Name
	if name == "" {
		name = ctx.PrefabPath
	}
	return AttachPattern(w, e, name, tree, spec.Loop)
}

// AttachPattern makes e an emitter running tree's top actions. e gets a
// Transform and a Motion if it lacks them.
func AttachPattern(w *ecs.World, e ecs.Entity, name string, tree *pattern.Tree, loop bool) error {
	runner, err := task.NewRunner(tree)
	if err != nil {
		return err
	}
	if !ecs.Has(w, e, component.TransformComponent.Kind()) {
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{}); err != nil {
			return err
		}
	}
	if !ecs.Has(w, e, component.MotionComponent.Kind()) {
		if err := ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{}); err != nil {
			return err
		}
	}
	if err := ecs.Add(w, e, component.EmitterTagComponent.Kind(), &component.EmitterTag{Name: name}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.BulletScriptComponent.Kind(), &component.BulletScript{
		Runner: runner,
		Tree:   tree,
		Loop:   loop,
	})
}
