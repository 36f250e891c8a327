package factory

import (
	"github.com/automoto/pedalrace/archetypes"
	"github.com/automoto/pedalrace/components"
	"github.com/automoto/pedalrace/network"
	"github.com/automoto/pedalrace/race"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateRace spawns the race singleton plus the track and rider entities.
func CreateRace(ecs *ecs.ECS, s *race.Session, link *network.PeerLink) *donburi.Entry {
	e := archetypes.Race.Spawn(ecs)
	components.Race.SetValue(e, components.RaceData{Session: s, Link: link})

	CreateTrack(ecs, s.TrackBodies())
	CreateRiders(ecs, s.Local(), s.Remote())
	return e
}

func CreateHUD(ecs *ecs.ECS, showOverlay bool) *donburi.Entry {
	e := archetypes.HUD.Spawn(ecs)
	components.HUD.SetValue(e, components.HUDData{PulseScale: 1, ShowOverlay: showOverlay})
	return e
}
