package task

// Wait halts its tree with Stop while Duration ticks remain.
type Wait struct {
	Duration float64
}

func (w *Wait) setup(t *Task, b Bullet) {
	w.Duration = t.value(t.node, b)
}

func (w *Wait) run(t *Task, b Bullet) RunStatus {
	w.Duration -= b.TimeSpeed()
	if w.Duration >= 0 {
		return Stop
	}
	return End
}

// Vanish removes the bullet.
type Vanish struct{}

func (*Vanish) setup(*Task, Bullet) {}

func (*Vanish) run(t *Task, b Bullet) RunStatus {
	b.Vanish()
	return End
}
