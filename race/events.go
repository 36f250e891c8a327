package race

type EventKind int

const (
	EventCoinCollected EventKind = iota
	EventHazardHit
	EventOpponentContact
	EventLapCompleted
	EventRaceFinished
	EventOpponentJoined
	EventOpponentFinished
)

func (k EventKind) String() string {
	switch k {
	case EventCoinCollected:
		return "coin"
	case EventHazardHit:
		return "hazard"
	case EventOpponentContact:
		return "contact"
	case EventLapCompleted:
		return "lap"
	case EventRaceFinished:
		return "finished"
	case EventOpponentJoined:
		return "opponent-joined"
	case EventOpponentFinished:
		return "opponent-finished"
	}
	return "unknown"
}

// Event is raised by the session for the presentation layer. Fields not
// meaningful for a kind are zero.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Amount int    // coin value, lap number
	Label  string // hazard label, opponent name
	Won    bool
}

// Input is one tick of player intent.
type Input struct {
	Pedal bool
	Brake bool
	Steer float64 // -1 left .. 1 right
}

// Result summarises a race for the post-race screen.
type Result struct {
	Finished         bool
	Won              bool
	Laps             int
	Currency         int
	OpponentName     string
	OpponentCurrency int
	OpponentFinished bool
	ElapsedMs        float64
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
