package component

import (
	"github.com/milk9111/bulletml/pattern"
	"github.com/milk9111/bulletml/task"
)

// BulletScript attaches a running task tree to an entity.
type BulletScript struct {
	Runner *task.Runner
	// Tree is set on emitters so the pattern can be restarted when Loop is
	// true. Shots leave it nil.
	Tree   *pattern.Tree
	Loop   bool
	Frames int
}

var BulletScriptComponent = NewComponent[BulletScript]()
