package ecs

// EventKind identifies what happened to an entity during a frame.
type EventKind string

const (
	EventSpawned    EventKind = "spawned"
	EventVanished   EventKind = "vanished"
	EventExpired    EventKind = "expired"
	EventOutOfBound EventKind = "out_of_bounds"
	EventScriptDone EventKind = "script_done"
)

// Event is one entry in the per-frame event queue.
type Event struct {
	Kind   EventKind
	Entity Entity
	// Source is the entity responsible, e.g. the parent of a spawned bullet.
	Source Entity
}

// EventQueue is a simple FIFO queue. It is flushed at the end of every
// scheduler frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
