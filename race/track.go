package race

import (
	"github.com/automoto/pedalrace/physics"
	"github.com/automoto/pedalrace/shared/trackdata"
)

// TrackBodies holds the static bodies built from a track.
type TrackBodies struct {
	Walls       []*physics.Body
	Coins       []*physics.Body
	Hazards     []*physics.Body
	Checkpoints []*physics.Body
}

// BuildTrack adds walls, coins, hazards and lap lines to the world.
// Everything but the walls is a sensor. Coin bodies carry their index in Data.
func BuildTrack(world *physics.World, t *trackdata.Track) *TrackBodies {
	tb := &TrackBodies{}
	solid := physics.BodyOptions{Static: true}
	sensor := physics.BodyOptions{Static: true, Sensor: true}

	for _, w := range t.Walls {
		opts := solid
		opts.Angle = w.Angle
		tb.Walls = append(tb.Walls, physics.NewRectangle(LabelWall, w.X, w.Y, w.W, w.H, opts))
	}

	for _, c := range t.Coins {
		b := physics.NewCircle(LabelCoin, c.X, c.Y, c.Radius, sensor)
		b.Data = c.Index
		tb.Coins = append(tb.Coins, b)
	}

	for _, h := range t.Hazards {
		switch h.Kind {
		case trackdata.HazardPothole:
			tb.Hazards = append(tb.Hazards, physics.NewCircle(LabelPothole, h.X, h.Y, h.Radius, sensor))
		case trackdata.HazardOilSlick:
			tb.Hazards = append(tb.Hazards, physics.NewRectangle(LabelOilSlick, h.X, h.Y, h.W, h.H, sensor))
		}
	}

	for _, c := range t.Checkpoints {
		label := LabelCheckpoint
		if c.Kind == trackdata.CheckpointFinish {
			label = LabelFinish
		}
		tb.Checkpoints = append(tb.Checkpoints, physics.NewRectangle(label, c.X, c.Y, c.W, c.H, sensor))
	}

	world.Add(tb.Walls...)
	world.Add(tb.Coins...)
	world.Add(tb.Hazards...)
	world.Add(tb.Checkpoints...)
	return tb
}
