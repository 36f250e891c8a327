package network

import "github.com/automoto/pedalrace/shared/messages"

// DefaultRenderDelay is how far (ms) the opponent is drawn behind the
// render clock so that jitter is absorbed by the buffer.
const DefaultRenderDelay = 100.0

// OpponentVisualState is the smoothed pose applied to the puppet bicycle.
type OpponentVisualState struct {
	Position   messages.Position
	Angle      float64
	WheelSpeed float64
}

func visualFromState(s messages.GameState) OpponentVisualState {
	return OpponentVisualState{
		Position:   s.Position,
		Angle:      s.Angle,
		WheelSpeed: s.WheelSpeed,
	}
}

// Interpolate reconstructs the opponent pose at renderTimestamp-renderDelay.
//
// It brackets the target time with the newest sample at or before it (s1)
// and the sample that arrived right after (s2) and lerps position and angle.
// WheelSpeed is taken from s2. With no newer sample s1 is returned as is
// (no extrapolation); when every sample is newer than the target the oldest
// buffered sample is returned. ok is false only for an empty buffer.
//
// Angles are lerped without wrap-around, so a sample pair straddling ±π
// sweeps the long way round.
func Interpolate(buf *StateBuffer, renderTimestamp, renderDelay float64) (OpponentVisualState, bool) {
	n := buf.Len()
	if n == 0 {
		return OpponentVisualState{}, false
	}

	targetTime := renderTimestamp - renderDelay

	i1 := -1
	for i := n - 1; i >= 0; i-- {
		if buf.At(i).State.Timestamp <= targetTime {
			i1 = i
			break
		}
	}

	if i1 < 0 {
		return visualFromState(buf.At(0).State), true
	}
	s1 := buf.At(i1).State
	if i1+1 >= n {
		return visualFromState(s1), true
	}
	s2 := buf.At(i1 + 1).State

	factor := 0.0
	if span := s2.Timestamp - s1.Timestamp; span > 0 {
		factor = (targetTime - s1.Timestamp) / span
	}
	factor = clamp01(factor)

	return OpponentVisualState{
		Position: messages.Position{
			X: lerp(s1.Position.X, s2.Position.X, factor),
			Y: lerp(s1.Position.Y, s2.Position.Y, factor),
		},
		Angle:      lerp(s1.Angle, s2.Angle, factor),
		WheelSpeed: s2.WheelSpeed,
	}, true
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
