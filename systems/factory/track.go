package factory

import (
	"github.com/automoto/pedalrace/archetypes"
	"github.com/automoto/pedalrace/components"
	"github.com/automoto/pedalrace/physics"
	"github.com/automoto/pedalrace/race"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateTrack spawns one entity per track body of the session. The body's
// label picks the archetype.
func CreateTrack(ecs *ecs.ECS, tb *race.TrackBodies) {
	for _, b := range tb.Walls {
		spawnBody(ecs, archetypes.Wall, b)
	}
	for _, b := range tb.Coins {
		spawnBody(ecs, archetypes.Coin, b)
	}
	for _, b := range tb.Hazards {
		switch b.Label {
		case race.LabelPothole:
			spawnBody(ecs, archetypes.Pothole, b)
		case race.LabelOilSlick:
			spawnBody(ecs, archetypes.OilSlick, b)
		}
	}
	for _, b := range tb.Checkpoints {
		if b.Label == race.LabelFinish {
			spawnBody(ecs, archetypes.FinishLine, b)
		} else {
			spawnBody(ecs, archetypes.Checkpoint, b)
		}
	}
}

// CreateRiders spawns entities for every part of both bicycles.
func CreateRiders(ecs *ecs.ECS, local, remote *race.Bicycle) {
	for _, b := range local.Parts() {
		spawnBody(ecs, archetypes.LocalRider, b)
	}
	for _, b := range remote.Parts() {
		spawnBody(ecs, archetypes.RemoteRider, b)
	}
}

type spawner interface {
	Spawn(*ecs.ECS, ...donburi.IComponentType) *donburi.Entry
}

func spawnBody(ecs *ecs.ECS, a spawner, b *physics.Body) *donburi.Entry {
	e := a.Spawn(ecs)
	components.Object.SetValue(e, components.ObjectData{Body: b})
	return e
}
