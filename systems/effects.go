package systems

import (
	"image/color"
	"math"

	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateEffects advances popups, screen shake and flashes.
func UpdateEffects(ecs *ecs.ECS) {
	updatePopups(ecs)
	updateScreenShake(ecs)
	updateFlash(ecs)
	updateAutoDestroy(ecs)
}

func updatePopups(ecs *ecs.ECS) {
	dt := float32(cfg.TickSeconds())
	components.Popup.Each(ecs.World, func(e *donburi.Entry) {
		p := components.Popup.Get(e)
		if p.Rise != nil {
			p.Drift, _ = p.Rise.Update(dt)
		}
	})
}

func updateScreenShake(ecs *ecs.ECS) {
	components.ScreenShake.Each(ecs.World, func(e *donburi.Entry) {
		s := components.ScreenShake.Get(e)
		if s.Duration > 0 {
			s.Duration--
			s.Elapsed++
		}
	})
}

func updateFlash(ecs *ecs.ECS) {
	components.Flash.Each(ecs.World, func(e *donburi.Entry) {
		f := components.Flash.Get(e)
		if f.Duration > 0 {
			f.Duration--
		}
	})
}

// updateAutoDestroy removes entities whose frame countdown ran out
func updateAutoDestroy(ecs *ecs.ECS) {
	var toDestroy []*donburi.Entry

	components.AutoDestroy.Each(ecs.World, func(e *donburi.Entry) {
		ad := components.AutoDestroy.Get(e)
		if ad.FramesRemaining > 0 {
			ad.FramesRemaining--
		}
		if ad.FramesRemaining <= 0 {
			toDestroy = append(toDestroy, e)
		}
	})

	for _, e := range toDestroy {
		e.Remove()
	}
}

// TriggerScreenShake starts or extends the screen shake.
func TriggerScreenShake(ecs *ecs.ECS, intensity float64, frames int) {
	entry, ok := components.ScreenShake.First(ecs.World)
	if !ok {
		entry = ecs.World.Entry(ecs.World.Create(components.ScreenShake))
	}
	s := components.ScreenShake.Get(entry)
	if s.Duration > 0 {
		intensity = math.Max(s.Intensity, intensity)
	}
	s.Intensity = intensity
	s.Duration = max(s.Duration, frames)
	s.Elapsed = 0
}

// ShakeOffset is the current draw offset from screen shake.
func ShakeOffset(ecs *ecs.ECS) (float64, float64) {
	entry, ok := components.ScreenShake.First(ecs.World)
	if !ok {
		return 0, 0
	}
	s := components.ScreenShake.Get(entry)
	if s.Duration <= 0 {
		return 0, 0
	}
	fade := float64(s.Duration) / float64(s.Duration+s.Elapsed)
	t := float64(s.Elapsed)
	return math.Sin(t*1.7) * s.Intensity * fade, math.Cos(t*2.3) * s.Intensity * fade
}

// TriggerFlash tints the screen edge for frames.
func TriggerFlash(ecs *ecs.ECS, c color.RGBA, frames int) {
	entry, ok := components.Flash.First(ecs.World)
	if !ok {
		entry = ecs.World.Entry(ecs.World.Create(components.Flash))
	}
	components.Flash.SetValue(entry, components.FlashData{Duration: frames, Color: c})
}

// DrawEffects renders popups and the edge flash.
func DrawEffects(ecs *ecs.ECS, screen *ebiten.Image) {
	ox, oy := ShakeOffset(ecs)
	face := fonts.HUDBold.Get()

	components.Popup.Each(ecs.World, func(e *donburi.Entry) {
		p := components.Popup.Get(e)
		c := color.NRGBA{R: p.Color.R, G: p.Color.G, B: p.Color.B, A: 255}
		if e.HasComponent(components.AutoDestroy) {
			ad := components.AutoDestroy.Get(e)
			if ad.Total > 0 {
				c.A = uint8(255 * float64(ad.FramesRemaining) / float64(ad.Total))
			}
		}
		w := text.BoundString(face, p.Text).Dx()
		x := int(p.X+ox) - w/2
		y := int(p.Y + oy - float64(p.Drift))
		text.Draw(screen, p.Text, face, x, y, c)
	})

	entry, ok := components.Flash.First(ecs.World)
	if !ok {
		return
	}
	f := components.Flash.Get(entry)
	if f.Duration <= 0 {
		return
	}
	c := color.NRGBA{R: f.Color.R, G: f.Color.G, B: f.Color.B, A: uint8(min(255, 20*f.Duration))}
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	const edge = 8
	vector.FillRect(screen, 0, 0, w, edge, c, false)
	vector.FillRect(screen, 0, h-edge, w, edge, c, false)
	vector.FillRect(screen, 0, 0, edge, h, c, false)
	vector.FillRect(screen, w-edge, 0, edge, h, c, false)
}
