package systems

import (
	"fmt"

	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/race"
	"github.com/automoto/pedalrace/systems/factory"
	"github.com/yohamta/donburi/ecs"
)

// finishHoldFrames keeps the track on screen after the local finish.
const finishHoldFrames = 120

// NewUpdateRace steps the session once per frame and turns its events into
// effects. onOver runs once, when the race ends or the player quits.
func NewUpdateRace(onOver func(race.Result)) ecs.System {
	return func(e *ecs.ECS) {
		entry, ok := components.Race.First(e.World)
		if !ok {
			return
		}
		rd := components.Race.Get(entry)
		if rd.Over {
			return
		}
		input := getOrCreateInput(e)

		if GetAction(input, cfg.ActionToggleOverlay).JustPressed {
			if hud := getHUD(e); hud != nil {
				hud.ShowOverlay = !hud.ShowOverlay
			}
		}
		if GetAction(input, cfg.ActionMenuBack).JustPressed {
			endRace(rd, onOver)
			return
		}

		rd.Session.Update(RaceInput(input))
		for _, ev := range rd.Session.DrainEvents() {
			handleRaceEvent(e, ev)
		}

		if rd.Session.Finished() {
			rd.FinishedFrames++
			if rd.FinishedFrames >= finishHoldFrames {
				endRace(rd, onOver)
			}
		}
	}
}

// EndRace stops the running race, if any, and reports its result.
func EndRace(e *ecs.ECS, onOver func(race.Result)) {
	entry, ok := components.Race.First(e.World)
	if !ok {
		return
	}
	rd := components.Race.Get(entry)
	if !rd.Over {
		endRace(rd, onOver)
	}
}

func endRace(rd *components.RaceData, onOver func(race.Result)) {
	rd.Over = true
	result := rd.Session.Result()
	rd.Session.Close()
	if onOver != nil {
		onOver(result)
	}
}

func handleRaceEvent(e *ecs.ECS, ev race.Event) {
	switch ev.Kind {
	case race.EventCoinCollected:
		factory.CreatePopup(e, ev.X, ev.Y, fmt.Sprintf("+%d", ev.Amount), cfg.Yellow)
		PulseCurrency(e)
	case race.EventHazardHit:
		TriggerScreenShake(e, 4, 15)
		factory.CreatePopup(e, ev.X, ev.Y, hazardText(ev.Label), cfg.Orange)
	case race.EventOpponentContact:
		TriggerFlash(e, cfg.LightRed, cfg.HUD.ContactFlash)
	case race.EventLapCompleted:
		x, y := screenCentre()
		factory.CreatePopup(e, x, y, fmt.Sprintf("LAP %d", ev.Amount), cfg.White)
	case race.EventRaceFinished:
		x, y := screenCentre()
		msg := "FINISHED"
		if ev.Won {
			msg = "YOU WIN!"
		}
		factory.CreatePopup(e, x, y+30, msg, cfg.BrightYellow)
	case race.EventOpponentJoined:
		x, _ := screenCentre()
		factory.CreatePopup(e, x, 80, opponentLabel(ev.Label)+" joined", cfg.LightGreen)
	case race.EventOpponentFinished:
		x, _ := screenCentre()
		factory.CreatePopup(e, x, 80, opponentLabel(ev.Label)+" finished", cfg.LightRed)
	}
}

func opponentLabel(name string) string {
	if name == "" {
		return "Opponent"
	}
	return name
}

func hazardText(label string) string {
	if label == race.LabelOilSlick {
		return "SLICK!"
	}
	return "BUMP!"
}

func screenCentre() (float64, float64) {
	return float64(cfg.C.Width) / 2, float64(cfg.C.Height) / 2
}
