package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// HUDData tracks animated HUD values.
type HUDData struct {
	// Opponent currency rolls up to the latest received value.
	OpponentShown  float32
	OpponentTarget int
	OpponentKnown  bool
	RollUp         *gween.Tween

	CurrencyPulse *gween.Tween // scale pulse on coin pickup
	PulseScale    float32

	Lap         int
	ShowOverlay bool
}

var HUD = donburi.NewComponentType[HUDData]()
