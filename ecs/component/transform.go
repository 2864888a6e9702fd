package component

import "github.com/jakecoffman/cp"

// Transform is an entity's position in arena space. Y grows downward.
type Transform struct {
	Position cp.Vector
}

var TransformComponent = NewComponent[Transform]()
