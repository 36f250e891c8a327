package components

import "github.com/yohamta/donburi"

// MainMenuOption represents the available main menu selections
type MainMenuOption int

const (
	MainMenuRace MainMenuOption = iota
	MainMenuOverlay
	MainMenuExit
)

// MenuData stores the current state of the main menu
type MenuData struct {
	SelectedIndex  int
	VisibleOptions []MainMenuOption

	// Record line from the stored race history.
	BestMs      float64 // 0 when no race was finished
	Wins, Races int
}

// Menu is the component type for main menu state
var Menu = donburi.NewComponentType[MenuData]()
