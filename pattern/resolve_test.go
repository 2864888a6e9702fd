package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refTree(ref RawNode, extra ...RawNode) RawNode {
	children := []RawNode{El(Action, ref).Labeled("top")}
	return El(BulletML, append(children, extra...)...)
}

func TestResolveBindsReferences(t *testing.T) {
	raw := El(BulletML,
		El(Action,
			El(ActionRef, Val(Param, "2")).Labeled("sub"),
			El(Fire, El(BulletRef).Labeled("shot")),
			El(FireRef).Labeled("volley"),
		).Labeled("top"),
		El(Action, Val(Wait, "$1")).Labeled("sub"),
		El(Bullet, Val(Speed, "2")).Labeled("shot"),
		El(Fire, El(Bullet)).Labeled("volley"),
	)

	tree, err := Build(raw)
	require.NoError(t, err)
	require.True(t, tree.Resolved())

	top := tree.TopActions()[0]
	actionRef := top.Children()[0]
	bulletRef := top.Children()[1].Child(BulletRef)
	fireRef := top.Children()[2]

	assert.Same(t, tree.Lookup(Action, "sub"), actionRef.Ref())
	assert.Same(t, tree.Lookup(Bullet, "shot"), bulletRef.Ref())
	assert.Same(t, tree.Lookup(Fire, "volley"), fireRef.Ref())
}

func TestResolveIsIdempotent(t *testing.T) {
	raw := refTree(El(ActionRef).Labeled("sub"), El(Action).Labeled("sub"))
	tree, err := Compile(raw)
	require.NoError(t, err)

	require.NoError(t, tree.Resolve())
	ref := tree.TopActions()[0].Children()[0]
	first := ref.Ref()
	require.NotNil(t, first)

	require.NoError(t, tree.Resolve())
	assert.Same(t, first, ref.Ref())
}

func TestResolveFailures(t *testing.T) {
	cases := []struct {
		name  string
		raw   RawNode
		want  error
		label string
	}{
		{
			name:  "unresolved",
			raw:   refTree(El(ActionRef).Labeled("missing")),
			want:  ErrUnresolvedReference,
			label: "missing",
		},
		{
			name:  "kind_mismatch",
			raw:   refTree(El(ActionRef).Labeled("shot"), El(Bullet).Labeled("shot")),
			want:  ErrKindMismatch,
			label: "shot",
		},
		{
			name:  "bullet_ref_to_action",
			raw:   refTree(El(Fire, El(BulletRef).Labeled("top")), El(Action).Labeled("other")),
			want:  ErrKindMismatch,
			label: "top",
		},
		{
			name:  "duplicate",
			raw:   refTree(El(ActionRef).Labeled("sub"), El(Action).Labeled("sub"), El(Action).Labeled("sub")),
			want:  ErrDuplicateLabel,
			label: "sub",
		},
		{
			name:  "self_cycle",
			raw:   refTree(El(ActionRef).Labeled("loop"), El(Action, El(ActionRef).Labeled("loop")).Labeled("loop")),
			want:  ErrReferenceCycle,
			label: "loop",
		},
		{
			name: "indirect_cycle_through_repeat",
			raw: refTree(El(ActionRef).Labeled("a"),
				El(Action, El(Repeat, Val(Times, "2"), El(ActionRef).Labeled("b"))).Labeled("a"),
				El(Action, El(ActionRef).Labeled("a")).Labeled("b"),
			),
			want: ErrReferenceCycle,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree, err := Compile(c.raw)
			require.NoError(t, err)

			err = tree.Resolve()
			require.ErrorIs(t, err, c.want)
			assert.False(t, tree.Resolved())

			var rerr *ResolutionError
			require.True(t, errors.As(err, &rerr))
			if c.label != "" {
				assert.Equal(t, c.label, rerr.Label)
			}

			// A failed resolution sticks and binds nothing.
			assert.ErrorIs(t, tree.Resolve(), c.want)
			tree.Root().walk(func(n *Node) {
				assert.Nil(t, n.Ref(), "node %s should stay unbound", n)
			})

			_, err = Build(c.raw)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestResolveAllowsRecursiveBullets(t *testing.T) {
	raw := refTree(
		El(Fire, El(BulletRef).Labeled("seed")),
		El(Bullet,
			El(Action,
				Val(Wait, "10"),
				El(Fire, El(BulletRef).Labeled("seed")),
				El(Vanish),
			),
		).Labeled("seed"),
	)

	tree, err := Build(raw)
	require.NoError(t, err)
	assert.True(t, tree.Resolved())
}

func TestResolveReportsEveryDanglingReference(t *testing.T) {
	raw := El(BulletML,
		El(Action,
			El(ActionRef).Labeled("a"),
			El(FireRef).Labeled("b"),
		).Labeled("top"),
	)

	_, err := Build(raw)
	require.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), `"b"`)
}
