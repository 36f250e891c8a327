package components

import (
	"github.com/automoto/pedalrace/race"
	"github.com/yohamta/donburi"
)

// SummaryOption represents the post-race menu selections
type SummaryOption int

const (
	SummaryRaceAgain SummaryOption = iota
	SummaryMenu
)

// SummaryData stores the post-race screen state
type SummaryData struct {
	Result         race.Result
	SelectedOption SummaryOption
	Best           *race.Record // best previous finish, nil when none
	Wins, Races    int          // from the stored history, including this race
}

var Summary = donburi.NewComponentType[SummaryData]()
