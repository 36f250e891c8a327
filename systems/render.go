package systems

import (
	"image/color"
	"math"

	"github.com/automoto/pedalrace/components"
	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/physics"
	"github.com/automoto/pedalrace/race"
	"github.com/automoto/pedalrace/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var (
	drawOp = &ebiten.DrawImageOptions{}
	pixel  *ebiten.Image
)

var (
	frameLocal  = color.RGBA{R: 70, G: 170, B: 255, A: 255}
	frameRemote = color.RGBA{R: 255, G: 90, B: 90, A: 255}
	tyre        = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	spoke       = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	finishLight = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	checkpoint  = color.RGBA{R: 80, G: 200, B: 120, A: 90}
)

// bodyInWorld reports whether the entity's body is still simulated.
// Collected coins and closed sessions leave entities behind; they are
// skipped rather than destroyed.
func bodyInWorld(e *ecs.ECS, entry *donburi.Entry) (*physics.Body, bool) {
	b := components.Object.Get(entry).Body
	raceEntry, ok := components.Race.First(e.World)
	if !ok || b == nil {
		return nil, false
	}
	return b, components.Race.Get(raceEntry).Session.World().Contains(b)
}

// DrawTrack renders the road, lap lines, hazards, coins and walls.
func DrawTrack(e *ecs.ECS, screen *ebiten.Image) {
	screen.Fill(cfg.Asphalt)
	ox, oy := ShakeOffset(e)

	eachBody(e, tags.Checkpoint, func(b *physics.Body) {
		fillBody(screen, b, ox, oy, checkpoint)
	})
	eachBody(e, tags.FinishLine, func(b *physics.Body) {
		drawFinishLine(screen, b, ox, oy)
	})
	eachBody(e, tags.Pothole, func(b *physics.Body) {
		fillBody(screen, b, ox, oy, cfg.PotholeBrown)
		vector.StrokeCircle(screen, float32(b.Position.X+ox), float32(b.Position.Y+oy), float32(b.Radius), 2, color.Black, true)
	})
	eachBody(e, tags.OilSlick, func(b *physics.Body) {
		fillBody(screen, b, ox, oy, cfg.OilBlack)
	})
	eachBody(e, tags.Coin, func(b *physics.Body) {
		fillBody(screen, b, ox, oy, cfg.Yellow)
		vector.StrokeCircle(screen, float32(b.Position.X+ox), float32(b.Position.Y+oy), float32(b.Radius)-2, 1.5, cfg.Orange, true)
	})
	eachBody(e, tags.Wall, func(b *physics.Body) {
		fillBody(screen, b, ox, oy, cfg.Grey)
	})
}

// DrawRiders renders the opponent puppet under the local bicycle.
func DrawRiders(e *ecs.ECS, screen *ebiten.Image) {
	ox, oy := ShakeOffset(e)
	drawRider(e, screen, tags.RemoteRider, frameRemote, ox, oy)
	drawRider(e, screen, tags.LocalRider, frameLocal, ox, oy)
}

func drawRider(e *ecs.ECS, screen *ebiten.Image, tag donburi.IComponentType, frameColor color.RGBA, ox, oy float64) {
	eachBody(e, tag, func(b *physics.Body) {
		if b.Label != race.LabelFrame {
			drawWheel(screen, b, ox, oy)
		}
	})
	eachBody(e, tag, func(b *physics.Body) {
		if b.Label == race.LabelFrame {
			fillBody(screen, b, ox, oy, frameColor)
		}
	})
}

func eachBody(e *ecs.ECS, tag donburi.IComponentType, fn func(*physics.Body)) {
	donburi.NewQuery(filter.Contains(tag, components.Object)).Each(e.World, func(entry *donburi.Entry) {
		if b, ok := bodyInWorld(e, entry); ok {
			fn(b)
		}
	})
}

// fillBody draws a body as a filled circle or a rotated rectangle.
func fillBody(screen *ebiten.Image, b *physics.Body, ox, oy float64, c color.Color) {
	if b.Kind == physics.ShapeCircle {
		vector.DrawFilledCircle(screen, float32(b.Position.X+ox), float32(b.Position.Y+oy), float32(b.Radius), c, true)
		return
	}
	fillRotatedRect(screen, b.Position.X+ox, b.Position.Y+oy, b.W, b.H, b.Angle, c)
}

func fillRotatedRect(screen *ebiten.Image, cx, cy, w, h, angle float64, c color.Color) {
	if pixel == nil {
		pixel = ebiten.NewImage(1, 1)
		pixel.Fill(color.White)
	}
	drawOp.GeoM.Reset()
	drawOp.GeoM.Scale(w, h)
	drawOp.GeoM.Translate(-w/2, -h/2)
	drawOp.GeoM.Rotate(angle)
	drawOp.GeoM.Translate(cx, cy)
	drawOp.ColorScale.Reset()
	drawOp.ColorScale.ScaleWithColor(c)
	screen.DrawImage(pixel, drawOp)
}

// drawWheel draws the tyre and one spoke so spin is visible.
func drawWheel(screen *ebiten.Image, b *physics.Body, ox, oy float64) {
	x, y := b.Position.X+ox, b.Position.Y+oy
	r := b.Radius
	vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), tyre, true)
	vector.StrokeCircle(screen, float32(x), float32(y), float32(r-3), 1, spoke, true)
	sin, cos := math.Sincos(b.Angle)
	vector.StrokeLine(screen,
		float32(x-cos*(r-3)), float32(y-sin*(r-3)),
		float32(x+cos*(r-3)), float32(y+sin*(r-3)),
		1.5, spoke, true)
}

// drawFinishLine draws a two-row chequer along the line's long side.
func drawFinishLine(screen *ebiten.Image, b *physics.Body, ox, oy float64) {
	fillBody(screen, b, ox, oy, finishLight)
	long, short := b.W, b.H
	along := physics.Vec2{X: math.Cos(b.Angle), Y: math.Sin(b.Angle)}
	across := physics.Vec2{X: -along.Y, Y: along.X}
	if b.H > b.W {
		long, short = b.H, b.W
		along, across = across, along
	}
	sq := short / 2
	n := int(long / sq)
	for i := 0; i < n; i++ {
		for row := 0; row < 2; row++ {
			if (i+row)%2 == 1 {
				continue
			}
			u := -long/2 + sq*(float64(i)+0.5)
			v := -short/2 + sq*(float64(row)+0.5)
			cx := b.Position.X + ox + along.X*u + across.X*v
			cy := b.Position.Y + oy + along.Y*u + across.Y*v
			fillRotatedRect(screen, cx, cy, sq, sq, b.Angle, color.Black)
		}
	}
}
