package system

import "math/rand/v2"

// Settings are the simulation knobs shared by the bullet systems. The owner
// may change them between frames.
type Settings struct {
	Rank      float64
	TimeSpeed float64
	// BulletTTL is the lifetime in frames given to spawned bullets; 0 means
	// they live until they vanish or leave the arena.
	BulletTTL int
	// MaxBullets caps live bullets; shots fired past it are dropped. 0 means
	// no cap.
	MaxBullets int

	Rand *rand.Rand
}

// NewSettings returns settings with a deterministic random source.
func NewSettings(seed uint64) *Settings {
	return &Settings{
		TimeSpeed: 1,
		Rand:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *Settings) timeSpeed() float64 {
	if s == nil || s.TimeSpeed <= 0 {
		return 1
	}
	return s.TimeSpeed
}

func (s *Settings) rand() float64 {
	if s == nil || s.Rand == nil {
		return rand.Float64()
	}
	return s.Rand.Float64()
}
