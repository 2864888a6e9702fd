package ecs

import "strconv"

// Entity is a generational handle: the low 32 bits index the slot, the high
// 32 bits count how many times that slot has been recycled.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Valid reports whether e was ever handed out by a world. Slot 0 is never
// used, so the zero Entity is invalid.
func (e Entity) Valid() bool {
	return e.id() > 0
}
