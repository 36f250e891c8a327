package systems

import (
	"fmt"
	"image/color"

	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi/ecs"
)

var hudDrawOp = &ebiten.DrawImageOptions{}

func getHUD(e *ecs.ECS) *components.HUDData {
	entry, ok := components.HUD.First(e.World)
	if !ok {
		return nil
	}
	return components.HUD.Get(entry)
}

// UpdateHUD rolls the opponent currency toward the newest received value.
func UpdateHUD(e *ecs.ECS) {
	hud := getHUD(e)
	if hud == nil {
		return
	}
	raceEntry, ok := components.Race.First(e.World)
	if !ok {
		return
	}
	session := components.Race.Get(raceEntry).Session
	dt := float32(cfg.TickSeconds())

	if cur, ok := session.OpponentCurrency(); ok {
		if !hud.OpponentKnown {
			hud.OpponentKnown = true
			hud.OpponentShown = float32(cur)
			hud.OpponentTarget = cur
		} else if cur != hud.OpponentTarget {
			hud.OpponentTarget = cur
			hud.RollUp = gween.New(hud.OpponentShown, float32(cur), cfg.HUD.RollUpSeconds, ease.OutQuad)
		}
	}
	if hud.RollUp != nil {
		v, done := hud.RollUp.Update(dt)
		hud.OpponentShown = v
		if done {
			hud.RollUp = nil
		}
	}

	if hud.CurrencyPulse != nil {
		v, done := hud.CurrencyPulse.Update(dt)
		hud.PulseScale = v
		if done {
			hud.CurrencyPulse = nil
			hud.PulseScale = 1
		}
	}
	hud.Lap = session.Lap()
}

// PulseCurrency briefly enlarges the local currency readout.
func PulseCurrency(e *ecs.ECS) {
	if hud := getHUD(e); hud != nil {
		hud.CurrencyPulse = gween.New(1.5, 1, 0.3, ease.OutBack)
	}
}

// DrawHUD renders currency, laps and the opponent readout.
func DrawHUD(e *ecs.ECS, screen *ebiten.Image) {
	hud := getHUD(e)
	if hud == nil {
		return
	}
	raceEntry, ok := components.Race.First(e.World)
	if !ok {
		return
	}
	session := components.Race.Get(raceEntry).Session

	m := cfg.HUD.Margin
	lh := cfg.HUD.LineHeight
	width := float64(screen.Bounds().Dx())
	face := fonts.HUDBold.Get()
	small := fonts.HUD.Get()

	vector.FillRect(screen, 0, 0, float32(width), float32(m+lh+8), cfg.BlackOverlay, false)

	// Local readout, top left; the currency pulses on pickup.
	label := fmt.Sprintf("$%d", session.Currency())
	hudDrawOp.GeoM.Reset()
	hudDrawOp.GeoM.Scale(float64(hud.PulseScale), float64(hud.PulseScale))
	hudDrawOp.GeoM.Translate(m, m+lh-4)
	hudDrawOp.ColorScale.Reset()
	hudDrawOp.ColorScale.ScaleWithColor(cfg.Yellow)
	text.DrawWithOptions(screen, label, face, hudDrawOp)

	lap := fmt.Sprintf("LAP %d/%d", min(hud.Lap+1, cfg.Race.Laps), cfg.Race.Laps)
	lapW := text.BoundString(face, lap).Dx()
	text.Draw(screen, lap, face, int(width/2)-lapW/2, int(m+lh-4), cfg.White)

	// Opponent readout, top right.
	name := opponentLabel(session.OpponentName())
	opp := name + "  waiting..."
	if hud.OpponentKnown {
		opp = fmt.Sprintf("%s  $%d", name, int(hud.OpponentShown+0.5))
	}
	oppW := text.BoundString(small, opp).Dx()
	text.Draw(screen, opp, small, int(width-m)-oppW, int(m+lh-6), cfg.LightRed)

	if hud.ShowOverlay {
		drawSyncOverlay(e, screen)
	}
}

// drawSyncOverlay shows the state of the opponent buffer.
func drawSyncOverlay(e *ecs.ECS, screen *ebiten.Image) {
	raceEntry, ok := components.Race.First(e.World)
	if !ok {
		return
	}
	rd := components.Race.Get(raceEntry)
	sm := rd.Session.Sync()
	samples := sm.Samples()

	lines := []string{
		fmt.Sprintf("buffer %d/%d", len(samples), rd.Session.Options().BufferSizeLimit),
		fmt.Sprintf("render delay %.0fms", sm.RenderDelay()),
		fmt.Sprintf("dropped %d", sm.Dropped()),
	}
	if n := len(samples); n > 1 {
		span := samples[n-1].State.Timestamp - samples[0].State.Timestamp
		if span <= 0 {
			span = 1
		}
		lines = append(lines, fmt.Sprintf("span %.0fms  rate %.1f/s", span, float64(n-1)/(span/1000)))
	}
	if rd.Link != nil {
		lines = append(lines, "link "+rd.Link.State().String())
	}

	face := fonts.Small.Get()
	x := int(cfg.HUD.Margin)
	y := screen.Bounds().Dy() - len(lines)*14 - int(cfg.HUD.Margin)
	vector.FillRect(screen, 0, float32(y-14), 200, float32(len(lines)*14+20), cfg.BlackOverlay, false)
	for i, l := range lines {
		text.Draw(screen, l, face, x, y+i*14, color.White)
	}

	// Buffered opponent positions as dots, newest brightest.
	ox, oy := ShakeOffset(e)
	for i, s := range samples {
		a := uint8(60 + 195*(i+1)/len(samples))
		vector.DrawFilledCircle(screen, float32(s.State.Position.X+ox), float32(s.State.Position.Y+oy), 2,
			color.NRGBA{R: 255, G: 80, B: 80, A: a}, false)
	}
}
