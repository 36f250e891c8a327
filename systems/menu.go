package systems

import (
	"fmt"
	"os"

	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/fonts"
	"github.com/automoto/pedalrace/race"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// NewUpdateMenu creates an UpdateMenu system with scene transition capability
func NewUpdateMenu(sceneChanger SceneChanger, createMatchmakingScene func() interface{}) ecs.System {
	return func(e *ecs.ECS) {
		menu := GetOrCreateMenu(e)
		input := getOrCreateInput(e)

		numOptions := len(menu.VisibleOptions)
		if numOptions == 0 {
			return
		}

		if GetAction(input, cfg.ActionMenuUp).JustPressed {
			menu.SelectedIndex = (menu.SelectedIndex - 1 + numOptions) % numOptions
		}
		if GetAction(input, cfg.ActionMenuDown).JustPressed {
			menu.SelectedIndex = (menu.SelectedIndex + 1) % numOptions
		}

		if GetAction(input, cfg.ActionMenuSelect).JustPressed {
			switch menu.VisibleOptions[menu.SelectedIndex] {
			case components.MainMenuRace:
				sceneChanger.ChangeScene(createMatchmakingScene())
			case components.MainMenuOverlay:
				s := cfg.CurrentSettings()
				s.ShowSyncOverlay = !s.ShowSyncOverlay
				cfg.ApplySettings(s)
				_ = SaveSettings(s)
			case components.MainMenuExit:
				os.Exit(0)
			}
		}

		if GetAction(input, cfg.ActionMenuBack).JustPressed {
			os.Exit(0)
		}
	}
}

// DrawMenu renders the main menu screen
func DrawMenu(e *ecs.ECS, screen *ebiten.Image) {
	menu := GetOrCreateMenu(e)

	width := float64(screen.Bounds().Dx())
	height := float64(screen.Bounds().Dy())

	vector.FillRect(
		screen,
		0, 0,
		float32(width), float32(height),
		cfg.Menu.BackgroundColor,
		false,
	)

	drawCentered(screen, "PEDAL RACE", fonts.Title.Get(), width, int(cfg.Menu.TitleY), cfg.Menu.TitleColor)

	menuFont := fonts.HUDBold.Get()
	for i, option := range menu.VisibleOptions {
		y := cfg.Menu.MenuStartY + float64(i)*(cfg.Menu.MenuItemHeight+cfg.Menu.MenuItemGap)

		textColor := cfg.Menu.TextColorNormal
		if i == menu.SelectedIndex {
			textColor = cfg.Menu.TextColorSelected
		}
		drawCentered(screen, getOptionLabel(option), menuFont, width, int(y)+int(cfg.Menu.MenuItemHeight), textColor)
	}

	if menu.Races > 0 {
		record := fmt.Sprintf("Wins %d of %d", menu.Wins, menu.Races)
		if menu.BestMs > 0 {
			record = fmt.Sprintf("Best %s   %s", formatElapsed(menu.BestMs), record)
		}
		drawCentered(screen, record, fonts.HUD.Get(), width, int(height)-40, cfg.Grey)
	}

	input := getOrCreateInput(e)
	drawCentered(screen, getMenuHint(input.LastInputMethod), fonts.Small.Get(), width, int(height)-12, cfg.Menu.TextColorNormal)
}

// getMenuHint returns the appropriate hint for menu navigation
func getMenuHint(method components.InputMethod) string {
	switch method {
	case components.InputPlayStation:
		return "Left Stick/D-Pad: Navigate   Cross: Select"
	case components.InputXbox:
		return "Left Stick/D-Pad: Navigate   A: Select"
	}
	return "Arrows: Navigate   Enter: Select   Up/Left/Right: Ride"
}

// getOptionLabel returns the display text for a menu option
func getOptionLabel(option components.MainMenuOption) string {
	switch option {
	case components.MainMenuRace:
		return "Find Race"
	case components.MainMenuOverlay:
		if cfg.HUD.ShowSyncOverlay {
			return "Sync Overlay: On"
		}
		return "Sync Overlay: Off"
	case components.MainMenuExit:
		return "Exit"
	default:
		return ""
	}
}

// SetMenuRecord shows the stored win count and best time on the menu.
func SetMenuRecord(e *ecs.ECS, h race.History) {
	menu := GetOrCreateMenu(e)
	menu.Wins, menu.Races = h.Wins(), len(h)
	menu.BestMs = 0
	if best, ok := h.Best(); ok {
		menu.BestMs = best.ElapsedMs
	}
}

// GetOrCreateMenu returns the singleton Menu component, creating if needed
func GetOrCreateMenu(e *ecs.ECS) *components.MenuData {
	if _, ok := components.Menu.First(e.World); !ok {
		ent := e.World.Entry(e.World.Create(components.Menu))
		components.Menu.SetValue(ent, components.MenuData{
			VisibleOptions: []components.MainMenuOption{
				components.MainMenuRace,
				components.MainMenuOverlay,
				components.MainMenuExit,
			},
		})
	}

	ent, _ := components.Menu.First(e.World)
	return components.Menu.Get(ent)
}
