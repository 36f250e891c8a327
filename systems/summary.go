package systems

import (
	"fmt"

	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

var summaryOptions = []string{"Race Again", "Main Menu"}

// NewUpdateSummary creates the post-race menu system.
func NewUpdateSummary(sceneChanger SceneChanger, createMatchmakingScene func() interface{}, createMenuScene func() interface{}) ecs.System {
	return func(e *ecs.ECS) {
		summary := getSummary(e)
		if summary == nil {
			return
		}
		input := getOrCreateInput(e)

		numOptions := int(components.SummaryMenu) + 1
		if GetAction(input, cfg.ActionMenuUp).JustPressed {
			summary.SelectedOption = components.SummaryOption(
				(int(summary.SelectedOption) - 1 + numOptions) % numOptions,
			)
		}
		if GetAction(input, cfg.ActionMenuDown).JustPressed {
			summary.SelectedOption = components.SummaryOption(
				(int(summary.SelectedOption) + 1) % numOptions,
			)
		}

		if GetAction(input, cfg.ActionMenuSelect).JustPressed {
			switch summary.SelectedOption {
			case components.SummaryRaceAgain:
				sceneChanger.ChangeScene(createMatchmakingScene())
			case components.SummaryMenu:
				sceneChanger.ChangeScene(createMenuScene())
			}
		}
		if GetAction(input, cfg.ActionMenuBack).JustPressed {
			sceneChanger.ChangeScene(createMenuScene())
		}
	}
}

// DrawSummary renders the race result and the post-race menu.
func DrawSummary(e *ecs.ECS, screen *ebiten.Image) {
	summary := getSummary(e)
	if summary == nil {
		return
	}
	r := summary.Result

	width := float64(screen.Bounds().Dx())
	height := float64(screen.Bounds().Dy())
	vector.FillRect(screen, 0, 0, float32(width), float32(height), cfg.Menu.BackgroundColor, false)

	title, titleColor := "RACE ABANDONED", cfg.Grey
	switch {
	case r.Finished && r.Won:
		title, titleColor = "YOU WIN!", cfg.BrightYellow
	case r.Finished:
		title, titleColor = "FINISHED", cfg.White
	case r.OpponentFinished:
		title, titleColor = "OPPONENT WON", cfg.LightRed
	}
	drawCentered(screen, title, fonts.Title.Get(), width, 120, titleColor)

	face := fonts.HUD.Get()
	opponent := opponentLabel(r.OpponentName)
	lines := []string{
		fmt.Sprintf("Time  %s", formatElapsed(r.ElapsedMs)),
		fmt.Sprintf("Laps  %d/%d", r.Laps, cfg.Race.Laps),
		fmt.Sprintf("You  $%d", r.Currency),
		fmt.Sprintf("%s  $%d", opponent, r.OpponentCurrency),
	}
	if summary.Best != nil {
		lines = append(lines, fmt.Sprintf("Best  %s", formatElapsed(summary.Best.ElapsedMs)))
	}
	if summary.Races > 0 {
		lines = append(lines, fmt.Sprintf("Wins  %d of %d", summary.Wins, summary.Races))
	}
	for i, l := range lines {
		drawCentered(screen, l, face, width, 180+i*24, cfg.White)
	}

	menuFont := fonts.HUDBold.Get()
	startY := 200 + float64(len(lines))*24 + 30
	for i, option := range summaryOptions {
		y := startY + float64(i)*(cfg.Menu.MenuItemHeight+cfg.Menu.MenuItemGap)
		textColor := cfg.Menu.TextColorNormal
		if components.SummaryOption(i) == summary.SelectedOption {
			textColor = cfg.Menu.TextColorSelected
		}
		drawCentered(screen, option, menuFont, width, int(y), textColor)
	}
}

func formatElapsed(ms float64) string {
	total := int(ms / 10)
	return fmt.Sprintf("%d:%02d.%02d", total/6000, total/100%60, total%100)
}

func getSummary(e *ecs.ECS) *components.SummaryData {
	entry, ok := components.Summary.First(e.World)
	if !ok {
		return nil
	}
	return components.Summary.Get(entry)
}
