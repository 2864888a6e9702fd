package component

// TTL is a frame-based time-to-live. The TTL system destroys the entity when
// Frames runs out.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
