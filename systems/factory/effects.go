package factory

import (
	"image/color"

	"github.com/automoto/pedalrace/archetypes"
	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreatePopup spawns floating text at a world position. It rises by
// cfg.HUD.PopupRise and is destroyed after cfg.HUD.PopupFrames.
func CreatePopup(ecs *ecs.ECS, x, y float64, text string, c color.RGBA) *donburi.Entry {
	e := archetypes.Popup.Spawn(ecs)

	life := float32(cfg.HUD.PopupFrames) / float32(cfg.Physics.TickRate)
	components.Popup.SetValue(e, components.PopupData{
		Text:  text,
		X:     x,
		Y:     y,
		Color: c,
		Rise:  gween.New(0, cfg.HUD.PopupRise, life, ease.OutCubic),
	})
	components.AutoDestroy.SetValue(e, components.AutoDestroyData{
		FramesRemaining: cfg.HUD.PopupFrames,
		Total:           cfg.HUD.PopupFrames,
	})
	return e
}
