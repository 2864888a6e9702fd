package entity

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/ecs"
	"github.com/milk9111/bulletml/ecs/component"
	"github.com/milk9111/bulletml/pattern"
	"github.com/milk9111/bulletml/prefabs"
	"github.com/milk9111/bulletml/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vanishTree(t *testing.T) *pattern.Tree {
	t.Helper()
	tree, err := pattern.Build(pattern.El(pattern.BulletML,
		pattern.El(pattern.Action, pattern.El(pattern.Vanish)).Labeled("top"),
	))
	require.NoError(t, err)
	return tree
}

func TestBuildEntityEmitter(t *testing.T) {
	w := ecs.NewWorld()
	tree := vanishTree(t)

	e, err := BuildEntity(w, "emitter.yaml", BuildOptions{Pattern: tree})
	require.NoError(t, err)

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 240, Y: 120}, tr.Position)

	m, ok := ecs.Get(w, e, component.MotionComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, -3.141592653589793, m.Direction, 1e-9, "180 degrees wraps to -Pi")

	tag, ok := ecs.Get(w, e, component.EmitterTagComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "emitter", tag.Name)

	script, ok := ecs.Get(w, e, component.BulletScriptComponent.Kind())
	require.True(t, ok)
	assert.Same(t, tree, script.Tree)
	assert.False(t, script.Runner.Finished())
}

func TestBuildEntityWithoutPattern(t *testing.T) {
	w := ecs.NewWorld()
	_, err := BuildEntity(w, "emitter.yaml", BuildOptions{})
	require.ErrorIs(t, err, ErrNoPattern)
	assert.Zero(t, ecs.Count(w), "partly built entity is destroyed")
}

func TestBuildEntityFromSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    prefabs.EntityBuildSpec
		wantErr string
	}{
		{
			name:    "no_components",
			spec:    prefabs.EntityBuildSpec{},
			wantErr: "does not define components",
		},
		{
			name: "unknown_component",
			spec: prefabs.EntityBuildSpec{Components: map[string]any{
				"transform": map[string]any{"x": 1},
				"sprite":    map[string]any{},
			}},
			wantErr: `no builder for component "sprite"`,
		},
		{
			name: "empty_arena",
			spec: prefabs.EntityBuildSpec{Components: map[string]any{
				"arena_bounds": map[string]any{"left": 10, "right": 5, "bottom": 10},
			}},
			wantErr: "empty area",
		},
		{
			name: "zero_ttl",
			spec: prefabs.EntityBuildSpec{Components: map[string]any{
				"ttl": map[string]any{"frames": 0},
			}},
			wantErr: "frames must be positive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := BuildEntityFromSpec(w, tc.name, tc.spec, BuildOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Zero(t, ecs.Count(w))
		})
	}
}

func TestBuildEntityNamedPattern(t *testing.T) {
	w := ecs.NewWorld()
	var asked string
	tree := vanishTree(t)

	spec := prefabs.EntityBuildSpec{Components: map[string]any{
		"emitter": map[string]any{"pattern": "custom", "loop": true},
	}}
	e, err := BuildEntityFromSpec(w, "inline", spec, BuildOptions{
		LoadPattern: func(name string) (*pattern.Tree, error) {
			asked = name
			return tree, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", asked)

	tag, _ := ecs.Get(w, e, component.EmitterTagComponent.Kind())
	assert.Equal(t, "inline", tag.Name, "emitters without a name take the prefab path")
	script, _ := ecs.Get(w, e, component.BulletScriptComponent.Kind())
	assert.True(t, script.Loop)
	assert.True(t, ecs.Has(w, e, component.TransformComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.MotionComponent.Kind()))

	boom := errors.New("boom")
	_, err = BuildEntityFromSpec(w, "inline", spec, BuildOptions{
		LoadPattern: func(string) (*pattern.Tree, error) { return nil, boom },
	})
	assert.ErrorIs(t, err, boom)
}

func TestBuildScene(t *testing.T) {
	w := ecs.NewWorld()
	scene, err := prefabs.LoadScene("twin")
	require.NoError(t, err)

	ents, err := BuildScene(w, scene, BuildOptions{Pattern: vanishTree(t)})
	require.NoError(t, err)
	require.Len(t, ents, 4)

	names := map[string]cp.Vector{}
	ecs.ForEach2(w, component.EmitterTagComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, tag *component.EmitterTag, tr *component.Transform) {
			names[tag.Name] = tr.Position
		})
	assert.Equal(t, map[string]cp.Vector{
		"left":  {X: 160, Y: 120},
		"right": {X: 320, Y: 120},
	}, names)

	_, _, ok := ecs.First(w, component.ArenaBoundsComponent.Kind())
	assert.True(t, ok)
	_, _, ok = ecs.First(w, component.TargetTagComponent.Kind())
	assert.True(t, ok)
}

func TestAttachPatternRejectsUnresolved(t *testing.T) {
	w := ecs.NewWorld()
	tree, err := pattern.Compile(pattern.El(pattern.BulletML, pattern.El(pattern.Action).Labeled("top")))
	require.NoError(t, err)

	err = AttachPattern(w, ecs.CreateEntity(w), "x", tree, false)
	assert.ErrorIs(t, err, task.ErrUnresolvedTree)
}

func TestNewBullet(t *testing.T) {
	w := ecs.NewWorld()
	shot := task.Shot{Direction: 1, Speed: 2, Params: []float64{4}}

	e, err := NewBullet(w, cp.Vector{X: 3, Y: 4}, shot, 0)
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, e, component.BulletTagComponent.Kind()))
	assert.False(t, ecs.Has(w, e, component.TTLComponent.Kind()), "ttl 0 means no lifetime")
	m, _ := ecs.Get(w, e, component.MotionComponent.Kind())
	assert.Equal(t, component.Motion{Direction: 1, Speed: 2}, *m)
	script, _ := ecs.Get(w, e, component.BulletScriptComponent.Kind())
	assert.True(t, script.Runner.Finished(), "a shot without actions has nothing to run")
}
