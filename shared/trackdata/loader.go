package trackdata

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

var (
	ErrNoFinish  = errors.New("track has no finish line")
	ErrFewSpawns = errors.New("track needs at least two spawn points")
	ErrBadArc    = errors.New("arc needs radius, segments and thickness")
	errNoTracks  = errors.New("no .tmx files found")
)

// Object group names in the TMX file.
const (
	groupWalls       = "walls"
	groupArcs        = "arcs"
	groupHazards     = "hazards"
	groupCoins       = "coins"
	groupCheckpoints = "checkpoints"
	groupSpawns      = "spawns"
)

// LoadTrack parses a TMX file into a Track. It takes an fs.FS so callers can
// pass embed.FS (game) or os.DirFS (tests).
func LoadTrack(fsys fs.FS, tmxPath string) (*Track, error) {
	m, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	t := &Track{
		Name:   strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Width:  m.Width * m.TileWidth,
		Height: m.Height * m.TileHeight,
	}

	for _, og := range m.ObjectGroups {
		switch og.Name {
		case groupWalls:
			for _, o := range og.Objects {
				x, y := rectCentre(o)
				t.Walls = append(t.Walls, Wall{X: x, Y: y, W: o.Width, H: o.Height, Angle: deg2rad(o.Rotation)})
			}
		case groupArcs:
			for _, o := range og.Objects {
				walls, err := expandArc(o)
				if err != nil {
					return nil, fmt.Errorf("%s arc %q: %w", tmxPath, o.Name, err)
				}
				t.Walls = append(t.Walls, walls...)
			}
		case groupHazards:
			for _, o := range og.Objects {
				h, err := parseHazard(o)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", tmxPath, err)
				}
				t.Hazards = append(t.Hazards, h)
			}
		case groupCoins:
			for _, o := range og.Objects {
				t.Coins = append(t.Coins, Coin{
					X:      o.X + o.Width/2,
					Y:      o.Y + o.Height/2,
					Radius: o.Width / 2,
					Index:  len(t.Coins),
				})
			}
		case groupCheckpoints:
			for _, o := range og.Objects {
				kind := CheckpointKind(o.Name)
				if kind != CheckpointFinish && kind != CheckpointMid {
					return nil, fmt.Errorf("%s: unknown checkpoint %q", tmxPath, o.Name)
				}
				x, y := rectCentre(o)
				t.Checkpoints = append(t.Checkpoints, Checkpoint{Kind: kind, X: x, Y: y, W: o.Width, H: o.Height})
			}
		case groupSpawns:
			for _, o := range og.Objects {
				t.Spawns = append(t.Spawns, SpawnPoint{
					X:     o.X,
					Y:     o.Y,
					Angle: deg2rad(float64(o.Properties.GetInt("angleDeg"))),
					Index: o.Properties.GetInt("spawnIndex"),
				})
			}
		}
	}

	sort.Slice(t.Spawns, func(i, j int) bool {
		return t.Spawns[i].Index < t.Spawns[j].Index
	})

	if len(t.Spawns) < 2 {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrFewSpawns)
	}
	hasFinish := false
	for _, c := range t.Checkpoints {
		if c.Kind == CheckpointFinish {
			hasFinish = true
		}
	}
	if !hasFinish {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrNoFinish)
	}

	return t, nil
}

// LoadAllTracks discovers all .tmx files in dir within fsys and returns them
// keyed by stem name plus a sorted list of names.
func LoadAllTracks(fsys fs.FS, dir string) (map[string]*Track, []string, error) {
	pattern := dir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("%w in %s", errNoTracks, dir)
	}

	tracks := make(map[string]*Track, len(matches))
	names := make([]string, 0, len(matches))
	for _, path := range matches {
		t, err := LoadTrack(fsys, path)
		if err != nil {
			return nil, nil, err
		}
		tracks[t.Name] = t
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return tracks, names, nil
}

func parseHazard(o *tiled.Object) (Hazard, error) {
	switch HazardKind(o.Name) {
	case HazardPothole:
		return Hazard{
			Kind:   HazardPothole,
			X:      o.X + o.Width/2,
			Y:      o.Y + o.Height/2,
			Radius: o.Width / 2,
		}, nil
	case HazardOilSlick:
		x, y := rectCentre(o)
		return Hazard{Kind: HazardOilSlick, X: x, Y: y, W: o.Width, H: o.Height}, nil
	}
	return Hazard{}, fmt.Errorf("unknown hazard %q", o.Name)
}

// expandArc approximates a quarter-circle wall with straight segments
// placed along the arc and rotated to its tangent.
//
// Point object properties: radius, segments, thickness, segLength (px) and
// startDeg. The arc sweeps 90 degrees clockwise (screen space) from startDeg.
func expandArc(o *tiled.Object) ([]Wall, error) {
	radius := float64(o.Properties.GetInt("radius"))
	segments := o.Properties.GetInt("segments")
	thickness := float64(o.Properties.GetInt("thickness"))
	if radius <= 0 || segments <= 0 || thickness <= 0 {
		return nil, ErrBadArc
	}
	segLength := float64(o.Properties.GetInt("segLength"))
	if segLength <= 0 {
		segLength = radius * math.Pi / 2 / float64(segments)
	}
	start := deg2rad(float64(o.Properties.GetInt("startDeg")))
	step := (math.Pi / 2) / float64(segments)
	mid := radius - thickness/2

	walls := make([]Wall, 0, segments)
	for i := 0; i < segments; i++ {
		a := start + float64(i)*step + step/2
		walls = append(walls, Wall{
			X:     o.X + math.Cos(a)*mid,
			Y:     o.Y + math.Sin(a)*mid,
			W:     segLength,
			H:     thickness,
			Angle: a + math.Pi/2,
		})
	}
	return walls, nil
}

// rectCentre returns the centre of a Tiled rectangle, which is rotated
// about its top-left corner.
func rectCentre(o *tiled.Object) (float64, float64) {
	r := deg2rad(o.Rotation)
	hw, hh := o.Width/2, o.Height/2
	sin, cos := math.Sincos(r)
	return o.X + hw*cos - hh*sin, o.Y + hw*sin + hh*cos
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
