package task

// RunStatus is what a task reports after running for one tick.
type RunStatus int

const (
	// Continue means the task has more work; callers stop processing later
	// siblings this tick and run it again next tick.
	Continue RunStatus = iota
	// End means the task completed this tick; callers move on immediately.
	End
	// Stop halts the whole tree for this tick and propagates unchanged.
	Stop
)

func (s RunStatus) String() string {
	switch s {
	case Continue:
		return "continue"
	case End:
		return "end"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// State is a task's lifecycle position.
type State int

const (
	Uninitialized State = iota
	Active
	Finished
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}
