// Package trackdata parses race tracks from TMX files into plain data, so
// the physics and race packages can use it without ebitengine.
package trackdata

// Track is a parsed race track. All positions are body centres in pixels.
type Track struct {
	Name        string
	Width       int
	Height      int
	Walls       []Wall
	Hazards     []Hazard
	Coins       []Coin
	Checkpoints []Checkpoint
	Spawns      []SpawnPoint
}

// Wall is a static solid rectangle rotated by Angle radians about its centre.
type Wall struct {
	X, Y, W, H float64
	Angle      float64
}

type HazardKind string

const (
	HazardPothole  HazardKind = "pothole"
	HazardOilSlick HazardKind = "oilSlick"
)

// Hazard is a sensor area. Potholes are circles (Radius), oil slicks are
// rectangles (W, H).
type Hazard struct {
	Kind   HazardKind
	X, Y   float64
	W, H   float64
	Radius float64
}

type Coin struct {
	X, Y   float64
	Radius float64
	Index  int
}

type CheckpointKind string

const (
	CheckpointFinish CheckpointKind = "finish"
	CheckpointMid    CheckpointKind = "checkpoint"
)

type Checkpoint struct {
	Kind       CheckpointKind
	X, Y, W, H float64
}

// SpawnPoint is a start slot. Index 0 belongs to the match initiator.
type SpawnPoint struct {
	X, Y  float64
	Angle float64
	Index int
}

// Spawn returns the spawn with the given index, falling back to the first.
func (t *Track) Spawn(index int) SpawnPoint {
	for _, s := range t.Spawns {
		if s.Index == index {
			return s
		}
	}
	return t.Spawns[0]
}

// Finish returns the finish line. LoadTrack guarantees one exists.
func (t *Track) Finish() Checkpoint {
	for _, c := range t.Checkpoints {
		if c.Kind == CheckpointFinish {
			return c
		}
	}
	return Checkpoint{}
}
