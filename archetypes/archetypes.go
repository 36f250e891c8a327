package archetypes

import (
	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Wall = newArchetype(
		tags.Wall,
		components.Object,
	)
	Coin = newArchetype(
		tags.Coin,
		components.Object,
	)
	Pothole = newArchetype(
		tags.Pothole,
		components.Object,
	)
	OilSlick = newArchetype(
		tags.OilSlick,
		components.Object,
	)
	FinishLine = newArchetype(
		tags.FinishLine,
		components.Object,
	)
	Checkpoint = newArchetype(
		tags.Checkpoint,
		components.Object,
	)
	LocalRider = newArchetype(
		tags.LocalRider,
		components.Object,
	)
	RemoteRider = newArchetype(
		tags.RemoteRider,
		components.Object,
	)
	Race = newArchetype(
		components.Race,
	)
	HUD = newArchetype(
		components.HUD,
	)
	Summary = newArchetype(
		components.Summary,
	)
	Popup = newArchetype(
		components.Popup,
		components.AutoDestroy,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
