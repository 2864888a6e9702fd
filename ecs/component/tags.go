package component

// EmitterTag marks an entity that runs a pattern's top actions.
type EmitterTag struct {
	Name string
}

var EmitterTagComponent = NewComponent[EmitterTag]()

// BulletTag marks an entity spawned by a fire task.
type BulletTag struct{}

var BulletTagComponent = NewComponent[BulletTag]()

// TargetTag marks what aimed shots point at.
type TargetTag struct{}

var TargetTagComponent = NewComponent[TargetTag]()
