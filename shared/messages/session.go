package messages

// Hello is exchanged once when the peer link comes up.
type Hello struct {
	Name      string `json:"name"`
	Initiator bool   `json:"initiator"`
}

// RaceFinished is sent when a racer completes the final lap.
type RaceFinished struct {
	Laps      int     `json:"laps"`
	Currency  int     `json:"currency"`
	Timestamp float64 `json:"timestamp"`
}

// PeerFrame wraps one tagged text payload for the necs router so it can
// travel over the websocket relay.
type PeerFrame struct {
	Payload string
}
