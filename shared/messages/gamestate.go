package messages

// Position is a point in track space (pixels).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GameState is one sample of a racer's physical state, sent every tick.
// Timestamp is the sender's monotonic clock in milliseconds and is only
// comparable with other samples from the same sender.
type GameState struct {
	Position   Position `json:"position"`
	Angle      float64  `json:"angle"`      // frame orientation, radians
	WheelSpeed float64  `json:"wheelSpeed"` // rear wheel angular velocity
	Currency   int      `json:"currency"`
	Timestamp  float64  `json:"timestamp"`
}
