package race

import (
	"sort"
	"time"
)

// maxHistory bounds the stored race history.
const maxHistory = 20

// Record is one finished or abandoned race as kept on disk.
type Record struct {
	Date         time.Time `json:"date"`
	Opponent     string    `json:"opponent"`
	Finished     bool      `json:"finished"`
	Won          bool      `json:"won"`
	Laps         int       `json:"laps"`
	Currency     int       `json:"currency"`
	OpponentCash int       `json:"opponentCurrency"`
	ElapsedMs    float64   `json:"elapsedMs"`
}

// NewRecord stamps r with when.
func NewRecord(r Result, when time.Time) Record {
	return Record{
		Date:         when.UTC(),
		Opponent:     r.OpponentName,
		Finished:     r.Finished,
		Won:          r.Won,
		Laps:         r.Laps,
		Currency:     r.Currency,
		OpponentCash: r.OpponentCurrency,
		ElapsedMs:    r.ElapsedMs,
	}
}

// History is the newest-first list of past races.
type History []Record

// Add prepends rec and drops the oldest entries past maxHistory.
func (h History) Add(rec Record) History {
	out := make(History, 0, min(len(h)+1, maxHistory))
	out = append(out, rec)
	for _, r := range h {
		if len(out) == maxHistory {
			break
		}
		out = append(out, r)
	}
	return out
}

// Best returns the fastest finished race, ties broken by currency.
func (h History) Best() (Record, bool) {
	finished := make(History, 0, len(h))
	for _, r := range h {
		if r.Finished {
			finished = append(finished, r)
		}
	}
	if len(finished) == 0 {
		return Record{}, false
	}
	sort.SliceStable(finished, func(i, j int) bool {
		if finished[i].ElapsedMs != finished[j].ElapsedMs {
			return finished[i].ElapsedMs < finished[j].ElapsedMs
		}
		return finished[i].Currency > finished[j].Currency
	})
	return finished[0], true
}

// Wins counts won races.
func (h History) Wins() int {
	n := 0
	for _, r := range h {
		if r.Won {
			n++
		}
	}
	return n
}
