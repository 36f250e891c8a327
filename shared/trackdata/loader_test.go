package trackdata

import (
	"errors"
	"math"
	"os"
	"testing"
	"testing/fstest"
)

func TestLoadOvalTrack(t *testing.T) {
	tr, err := LoadTrack(os.DirFS("../../assets"), "tracks/oval.tmx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if tr.Name != "oval" || tr.Width != 800 || tr.Height != 600 {
		t.Fatalf("track = %q %dx%d", tr.Name, tr.Width, tr.Height)
	}
	if got := len(tr.Walls); got != 8+8*6 {
		t.Errorf("walls = %d, want %d", got, 8+8*6)
	}
	if len(tr.Coins) != 7 {
		t.Errorf("coins = %d, want 7", len(tr.Coins))
	}
	if len(tr.Hazards) != 4 {
		t.Errorf("hazards = %d, want 4", len(tr.Hazards))
	}
	if len(tr.Spawns) != 2 || tr.Spawns[0].Index != 0 || tr.Spawns[1].Index != 1 {
		t.Fatalf("spawns = %+v", tr.Spawns)
	}

	top := tr.Walls[0]
	if top.X != 400 || top.Y != 85 || top.W != 500 || top.H != 20 {
		t.Errorf("outer top wall = %+v, want centre (400,85) 500x20", top)
	}

	finish := tr.Finish()
	if finish.X != 520 || finish.Y != 135 {
		t.Errorf("finish centre = (%v,%v), want (520,135)", finish.X, finish.Y)
	}

	for _, h := range tr.Hazards {
		if h.Kind == HazardPothole && h.Radius != 18 {
			t.Errorf("pothole radius = %v", h.Radius)
		}
		if h.Kind == HazardOilSlick && (h.W != 30 || h.H != 80) {
			t.Errorf("oil slick = %vx%v", h.W, h.H)
		}
	}
}

func TestArcSegmentsFollowTheCurve(t *testing.T) {
	tr, err := LoadTrack(os.DirFS("../../assets"), "tracks/oval.tmx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// First arc: outer top-left, centre (150,175), mid radius 90.
	for i, w := range tr.Walls[8:14] {
		d := math.Hypot(w.X-150, w.Y-175)
		if math.Abs(d-90) > 1e-9 {
			t.Errorf("segment %d at distance %v, want 90", i, d)
		}
		if w.W != 50 || w.H != 20 {
			t.Errorf("segment %d size %vx%v", i, w.W, w.H)
		}
	}
}

const mapHeader = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="10" height="10" tilewidth="10" tileheight="10" infinite="0">
`

func TestLoadTrackValidation(t *testing.T) {
	spawn := func(i int) string {
		return `<object name="spawn" x="1" y="1"><properties><property name="spawnIndex" type="int" value="` +
			string(rune('0'+i)) + `"/></properties><point/></object>`
	}
	cases := []struct {
		name string
		body string
		want error
	}{
		{
			name: "no finish",
			body: `<objectgroup id="1" name="spawns">` + spawn(0) + spawn(1) + `</objectgroup>`,
			want: ErrNoFinish,
		},
		{
			name: "one spawn",
			body: `<objectgroup id="1" name="spawns">` + spawn(0) + `</objectgroup>` +
				`<objectgroup id="2" name="checkpoints"><object name="finish" x="0" y="0" width="5" height="5"/></objectgroup>`,
			want: ErrFewSpawns,
		},
		{
			name: "bad arc",
			body: `<objectgroup id="1" name="arcs"><object name="a" x="5" y="5"><point/></object></objectgroup>`,
			want: ErrBadArc,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{"t.tmx": {Data: []byte(mapHeader + tc.body + "</map>\n")}}
			_, err := LoadTrack(fsys, "t.tmx")
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
