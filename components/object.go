package components

import (
	"github.com/automoto/pedalrace/physics"
	"github.com/yohamta/donburi"
)

// ObjectData links an entity to its body in the race world.
type ObjectData struct {
	*physics.Body
}

var Object = donburi.NewComponentType[ObjectData]()
