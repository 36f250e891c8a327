package scenes

import (
	"image/color"
	"log"
	"sync"

	"github.com/automoto/pedalrace/assets"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/network"
	"github.com/automoto/pedalrace/race"
	"github.com/automoto/pedalrace/systems"
	"github.com/automoto/pedalrace/systems/factory"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// RaceScene runs one race over an already connected peer link.
type RaceScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	link         *network.PeerLink
	session      *race.Session
	once         sync.Once

	result  *race.Result
	history race.History // before this race
}

func NewRaceScene(sc SceneChanger, link *network.PeerLink) *RaceScene {
	return &RaceScene{sceneChanger: sc, link: link}
}

func (rs *RaceScene) Update() {
	rs.once.Do(rs.configure)

	if rs.result != nil {
		rs.sceneChanger.ChangeScene(NewSummaryScene(rs.sceneChanger, *rs.result, rs.history))
		return
	}

	switch rs.link.State() {
	case network.StateDisconnected, network.StateError:
		// Once the opponent has finished there is nothing left to sync;
		// let the local rider complete the race alone.
		if !rs.session.Result().OpponentFinished {
			log.Println("[race] peer link lost, ending race")
			systems.EndRace(rs.ecsWorld, rs.finish)
			return
		}
	}

	rs.ecsWorld.Update()
}

func (rs *RaceScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if rs.ecsWorld == nil {
		return
	}
	rs.ecsWorld.Draw(screen)
}

func (rs *RaceScene) configure() {
	track := assets.Track(cfg.Race.Track)
	ticket := rs.link.Ticket()

	opts := race.DefaultSessionOptions(cfg.Network.PlayerName, ticket.Initiator)
	rs.session = race.NewSession(track, rs.link, nil, opts)

	rs.ecsWorld = ecs.NewECS(donburi.NewWorld())
	factory.CreateRace(rs.ecsWorld, rs.session, rs.link)
	factory.CreateHUD(rs.ecsWorld, cfg.HUD.ShowSyncOverlay)

	rs.ecsWorld.AddSystem(systems.UpdateInput)
	rs.ecsWorld.AddSystem(systems.NewUpdateRace(rs.finish))
	rs.ecsWorld.AddSystem(systems.UpdateHUD)
	rs.ecsWorld.AddSystem(systems.UpdateEffects)

	rs.ecsWorld.AddRenderer(cfg.Default, systems.DrawTrack)
	rs.ecsWorld.AddRenderer(cfg.Default, systems.DrawRiders)
	rs.ecsWorld.AddRenderer(cfg.Default, systems.DrawEffects)
	rs.ecsWorld.AddRenderer(cfg.Default, systems.DrawHUD)
}

// finish runs once when the race ends; the scene switches on the next
// frame so the current frame's systems complete.
func (rs *RaceScene) finish(result race.Result) {
	rs.link.Disconnect()
	rs.history = systems.RecordRace(result)
	rs.result = &result
	log.Printf("[race] over: finished=%t won=%t currency=%d", result.Finished, result.Won, result.Currency)
}
