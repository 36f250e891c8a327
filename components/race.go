package components

import (
	"github.com/automoto/pedalrace/network"
	"github.com/automoto/pedalrace/race"
	"github.com/yohamta/donburi"
)

// RaceData is the singleton holding the running session and the peer link
// it talks through.
type RaceData struct {
	Session *race.Session
	Link    *network.PeerLink

	// FinishedFrames counts frames since the local racer finished, so the
	// final lap is visible before the summary screen.
	FinishedFrames int
	Over           bool
}

var Race = donburi.NewComponentType[RaceData]()
