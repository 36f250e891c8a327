package network

import (
	"math"
	"testing"

	"github.com/automoto/pedalrace/shared/messages"
)

func stateAt(ts, x, y, angle, wheel float64) BufferedGameState {
	return BufferedGameState{State: messages.GameState{
		Position:   messages.Position{X: x, Y: y},
		Angle:      angle,
		WheelSpeed: wheel,
		Timestamp:  ts,
	}}
}

func bufferOf(samples ...BufferedGameState) *StateBuffer {
	b := NewStateBuffer(len(samples) + 1)
	for _, s := range samples {
		b.Push(s)
	}
	return b
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestInterpolateMidpoint(t *testing.T) {
	b := bufferOf(stateAt(1000, 0, 0, 0, 1), stateAt(1100, 100, 0, 1, 9))

	got, ok := Interpolate(b, 1150, 100)
	if !ok {
		t.Fatal("expected a state")
	}
	if !near(got.Position.X, 50) || !near(got.Position.Y, 0) {
		t.Errorf("position = %+v, want (50,0)", got.Position)
	}
	if !near(got.Angle, 0.5) {
		t.Errorf("angle = %v, want 0.5", got.Angle)
	}
	if got.WheelSpeed != 9 {
		t.Errorf("wheelSpeed = %v, want 9 (taken from the newer sample)", got.WheelSpeed)
	}
}

func TestInterpolateTable(t *testing.T) {
	cases := []struct {
		name    string
		samples []BufferedGameState
		render  float64
		wantX   float64
		wantOK  bool
	}{
		{
			name:    "target at first sample",
			samples: []BufferedGameState{stateAt(1000, 0, 0, 0, 0), stateAt(1100, 100, 0, 0, 0)},
			render:  1100,
			wantX:   0,
			wantOK:  true,
		},
		{
			name:    "target at last sample returns it verbatim",
			samples: []BufferedGameState{stateAt(1000, 0, 0, 0, 0), stateAt(1100, 100, 0, 0, 0)},
			render:  1200,
			wantX:   100,
			wantOK:  true,
		},
		{
			name:    "target after all samples does not extrapolate",
			samples: []BufferedGameState{stateAt(1000, 0, 0, 0, 0), stateAt(1100, 100, 0, 0, 0)},
			render:  5000,
			wantX:   100,
			wantOK:  true,
		},
		{
			name:    "target before all samples returns head",
			samples: []BufferedGameState{stateAt(1000, 7, 0, 0, 0), stateAt(1100, 100, 0, 0, 0)},
			render:  500,
			wantX:   7,
			wantOK:  true,
		},
		{
			name:    "duplicate timestamps pick the newest",
			samples: []BufferedGameState{stateAt(1000, 10, 0, 0, 0), stateAt(1000, 90, 0, 0, 0)},
			render:  1100,
			wantX:   90,
			wantOK:  true,
		},
		{
			name:   "empty buffer",
			render: 1000,
			wantOK: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Interpolate(bufferOf(tc.samples...), tc.render, 100)
			if ok != tc.wantOK {
				t.Fatalf("ok = %t, want %t", ok, tc.wantOK)
			}
			if ok && !near(got.Position.X, tc.wantX) {
				t.Fatalf("x = %v, want %v", got.Position.X, tc.wantX)
			}
		})
	}
}

func TestInterpolateOutOfOrderArrival(t *testing.T) {
	// Arrival order 1100 then 1000: the scan stops at the tail, which is
	// old enough, so there is no newer neighbour to blend with.
	b := bufferOf(stateAt(1100, 100, 0, 0, 0), stateAt(1000, 0, 0, 0, 0))
	got, ok := Interpolate(b, 1150, 100)
	if !ok {
		t.Fatal("expected a state")
	}
	if !near(got.Position.X, 0) {
		t.Fatalf("x = %v, want 0", got.Position.X)
	}
}

func TestInterpolateAngleHasNoWrap(t *testing.T) {
	b := bufferOf(stateAt(0, 0, 0, math.Pi-0.1, 0), stateAt(100, 0, 0, -math.Pi+0.1, 0))
	got, _ := Interpolate(b, 150, 100)
	if !near(got.Angle, 0) {
		t.Fatalf("angle = %v, want naive lerp 0", got.Angle)
	}
}
