package components

import (
	"image/color"

	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// ScreenShakeData tracks active screen shake
type ScreenShakeData struct {
	Intensity float64 // max offset in pixels
	Duration  int     // frames remaining
	Elapsed   int     // frames elapsed (for oscillation)
}

var ScreenShake = donburi.NewComponentType[ScreenShakeData]()

// FlashData tints the screen edge, used when the bicycles touch.
type FlashData struct {
	Duration int // frames remaining
	Color    color.RGBA
}

var Flash = donburi.NewComponentType[FlashData]()

// PopupData is floating text that rises and fades.
type PopupData struct {
	Text  string
	X, Y  float64
	Color color.RGBA
	Rise  *gween.Tween
	Drift float32 // current upward offset
}

var Popup = donburi.NewComponentType[PopupData]()

// AutoDestroyData marks entities that should be destroyed after a duration
type AutoDestroyData struct {
	FramesRemaining int
	Total           int
}

var AutoDestroy = donburi.NewComponentType[AutoDestroyData]()
