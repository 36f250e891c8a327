package scenes

import (
	"image/color"
	"sync"

	"github.com/automoto/pedalrace/archetypes"
	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/race"
	"github.com/automoto/pedalrace/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// SummaryScene shows the result of the last race
type SummaryScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	once         sync.Once

	result  race.Result
	history race.History
}

// NewSummaryScene creates the post-race scene. history is the stored race
// history from before this race.
func NewSummaryScene(sc SceneChanger, result race.Result, history race.History) *SummaryScene {
	return &SummaryScene{sceneChanger: sc, result: result, history: history}
}

func (ss *SummaryScene) Update() {
	ss.once.Do(ss.configure)
	ss.ecs.Update()
}

func (ss *SummaryScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)

	if ss.ecs == nil {
		return
	}
	ss.ecs.Draw(screen)
}

func (ss *SummaryScene) configure() {
	ss.ecs = ecs.NewECS(donburi.NewWorld())

	data := components.SummaryData{Result: ss.result}
	if best, ok := ss.history.Best(); ok {
		data.Best = &best
	}
	all := ss.history.Add(race.Record{Won: ss.result.Won})
	data.Wins, data.Races = all.Wins(), len(all)

	entry := archetypes.Summary.Spawn(ss.ecs)
	components.Summary.SetValue(entry, data)

	createMatchmakingScene := func() interface{} {
		return NewMatchmakingScene(ss.sceneChanger)
	}
	createMenuScene := func() interface{} {
		return NewMenuScene(ss.sceneChanger)
	}

	ss.ecs.AddSystem(systems.UpdateInput)
	ss.ecs.AddSystem(systems.NewUpdateSummary(ss.sceneChanger, createMatchmakingScene, createMenuScene))

	ss.ecs.AddRenderer(cfg.Default, systems.DrawSummary)
}
