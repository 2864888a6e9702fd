package component

import "github.com/jakecoffman/cp"

// ArenaBounds is the playfield. Bullets that leave it, grown by Margin on
// every side, are despawned.
type ArenaBounds struct {
	Area   cp.BB
	Margin float64
}

// Contains reports whether p lies inside the area grown by the margin.
func (b ArenaBounds) Contains(p cp.Vector) bool {
	m := b.Margin
	return cp.BB{L: b.Area.L - m, B: b.Area.B - m, R: b.Area.R + m, T: b.Area.T + m}.ContainsVect(p)
}

var ArenaBoundsComponent = NewComponent[ArenaBounds]()
