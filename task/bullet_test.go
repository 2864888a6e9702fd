package task

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bulletml/pattern"
	"github.com/stretchr/testify/require"
)

type fakeBullet struct {
	pos       cp.Vector
	dir       float64
	speed     float64
	accel     cp.Vector
	timeSpeed float64
	rank      float64
	aim       float64
	rands     []float64

	shots    []Shot
	vanished int
}

func newFakeBullet() *fakeBullet {
	return &fakeBullet{timeSpeed: 1}
}

func (b *fakeBullet) Position() cp.Vector         { return b.pos }
func (b *fakeBullet) Direction() float64          { return b.dir }
func (b *fakeBullet) SetDirection(d float64)      { b.dir = d }
func (b *fakeBullet) Speed() float64              { return b.speed }
func (b *fakeBullet) SetSpeed(s float64)          { b.speed = s }
func (b *fakeBullet) Acceleration() cp.Vector     { return b.accel }
func (b *fakeBullet) SetAcceleration(a cp.Vector) { b.accel = a }
func (b *fakeBullet) TimeSpeed() float64          { return b.timeSpeed }
func (b *fakeBullet) Rank() float64               { return b.rank }
func (b *fakeBullet) AimDirection() float64       { return b.aim }
func (b *fakeBullet) Fire(s Shot)                 { b.shots = append(b.shots, s) }
func (b *fakeBullet) Vanish()                     { b.vanished++ }

func (b *fakeBullet) Rand() float64 {
	if len(b.rands) == 0 {
		return 0
	}
	v := b.rands[0]
	b.rands = b.rands[1:]
	return v
}

// buildRunner wraps the given nodes in a top action, resolves the tree and
// returns a runner for it. extra nodes are added at the document root.
func buildRunner(t *testing.T, body []pattern.RawNode, extra ...pattern.RawNode) *Runner {
	t.Helper()
	children := append([]pattern.RawNode{pattern.El(pattern.Action, body...).Labeled("top")}, extra...)
	tree, err := pattern.Build(pattern.El(pattern.BulletML, children...))
	require.NoError(t, err)
	r, err := NewRunner(tree)
	require.NoError(t, err)
	return r
}

func nodes(n ...pattern.RawNode) []pattern.RawNode { return n }
