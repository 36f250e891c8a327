package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	StatusWaiting = "waiting"
	StatusMatched = "matched"
)

// relayGrace multiplies the TTL for delivered matches that never relayed.
const relayGrace = 4

// MatchStatus is returned for every poll of POST /match.
type MatchStatus struct {
	Status   string `json:"status"`
	PlayerID string `json:"playerId"`
	MatchID  string `json:"matchId,omitempty"`

	Initiator    bool   `json:"initiator,omitempty"`
	OpponentName string `json:"opponentName,omitempty"`
	RelayPath    string `json:"relayPath,omitempty"`
}

type player struct {
	ID       string
	Name     string
	Version  string
	LastSeen time.Time
	match    *Match
}

// Match pairs two players. Players[0] was queued first and is the
// initiator.
type Match struct {
	ID        string
	Players   [2]*player
	CreatedAt time.Time
	delivered [2]bool
	relaying  bool
}

func (m *Match) slot(playerID string) int {
	for i, p := range m.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// Queue pairs waiting players first-come first-served. Waiting players
// and undelivered matches expire after ttl.
type Queue struct {
	mu      sync.Mutex
	waiting []*player
	players map[string]*player
	matches map[string]*Match
	ttl     time.Duration
	now     func() time.Time
	stopCh  chan struct{}
}

func NewQueue(ttl time.Duration) *Queue {
	q := newQueue(ttl)
	go q.cleanupLoop()
	return q
}

func newQueue(ttl time.Duration) *Queue {
	return &Queue{
		players: make(map[string]*player),
		matches: make(map[string]*Match),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
}

func (q *Queue) Stop() {
	close(q.stopCh)
}

// Poll enqueues a new player or refreshes a known one and reports whether
// it has been paired. An empty or unknown playerID registers a new player.
func (q *Queue) Poll(playerID, name, version string) MatchStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	p, ok := q.players[playerID]
	if !ok {
		p = &player{ID: newID(), Name: name, Version: version}
		q.players[p.ID] = p
	}
	p.LastSeen = now

	if p.match == nil && !ok {
		if partner := q.takePartner(p); partner != nil {
			m := &Match{ID: newID(), Players: [2]*player{partner, p}, CreatedAt: now}
			partner.match = m
			p.match = m
			q.matches[m.ID] = m
			log.Printf("[matchmaker] matched %q with %q (match=%s)", partner.Name, p.Name, m.ID)
		} else {
			q.waiting = append(q.waiting, p)
		}
	}

	if p.match == nil {
		return MatchStatus{Status: StatusWaiting, PlayerID: p.ID}
	}
	return q.statusFor(p)
}

// takePartner removes and returns the oldest waiting player with the same
// game version.
func (q *Queue) takePartner(p *player) *player {
	for i, w := range q.waiting {
		if w.Version != p.Version {
			continue
		}
		q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
		return w
	}
	return nil
}

func (q *Queue) statusFor(p *player) MatchStatus {
	m := p.match
	slot := m.slot(p.ID)
	m.delivered[slot] = true
	opp := m.Players[1-slot]
	return MatchStatus{
		Status:       StatusMatched,
		PlayerID:     p.ID,
		MatchID:      m.ID,
		Initiator:    slot == 0,
		OpponentName: opp.Name,
		RelayPath:    fmt.Sprintf("/relay/%s?player=%s", m.ID, p.ID),
	}
}

// Attach checks that playerID belongs to matchID and marks the match as
// relaying so the sweeper leaves it alone. It returns the player's slot.
func (q *Queue) Attach(matchID, playerID string) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	m, ok := q.matches[matchID]
	if !ok {
		return 0, false
	}
	slot := m.slot(playerID)
	if slot < 0 {
		return 0, false
	}
	m.relaying = true
	return slot, true
}

// Finish forgets a match once its relay has closed.
func (q *Queue) Finish(matchID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dropMatch(matchID)
}

func (q *Queue) dropMatch(matchID string) {
	m, ok := q.matches[matchID]
	if !ok {
		return
	}
	for _, p := range m.Players {
		delete(q.players, p.ID)
	}
	delete(q.matches, matchID)
}

func (q *Queue) WaitingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}

func (q *Queue) MatchCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.matches)
}

func (q *Queue) cleanupLoop() {
	ticker := time.NewTicker(q.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-q.stopCh:
			return
		case <-ticker.C:
			q.sweep(q.now())
		}
	}
}

// sweep drops players that stopped polling, matches one side never
// collected, and matches nobody opened a relay for.
func (q *Queue) sweep(now time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.waiting[:0]
	for _, p := range q.waiting {
		if now.Sub(p.LastSeen) >= q.ttl {
			log.Printf("[matchmaker] expired waiting player %q (id=%s)", p.Name, p.ID)
			delete(q.players, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	q.waiting = kept

	for id, m := range q.matches {
		age := now.Sub(m.CreatedAt)
		switch {
		case m.relaying:
		case !(m.delivered[0] && m.delivered[1]) && age >= q.ttl:
			log.Printf("[matchmaker] expired undelivered match %s", id)
			q.dropMatch(id)
		case age >= relayGrace*q.ttl:
			log.Printf("[matchmaker] expired idle match %s", id)
			q.dropMatch(id)
		}
	}
}

func newID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x", b)
}
