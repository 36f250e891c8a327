package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	maxPendingFrames = 64
	maxFrameSize     = 1 << 16 // 64 KB
	writeTimeout     = 5 * time.Second
)

// room forwards frames between the two players of one match. Frames sent
// before the partner connects are held, up to maxPendingFrames.
type room struct {
	mu      sync.Mutex
	conns   [2]*websocket.Conn
	pending [2][][]byte
	closed  [2]bool
}

// Relay owns one room per active match.
type Relay struct {
	queue *Queue

	mu    sync.Mutex
	rooms map[string]*room
}

func NewRelay(q *Queue) *Relay {
	return &Relay{queue: q, rooms: make(map[string]*room)}
}

func (rl *Relay) room(matchID string) *room {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	r, ok := rl.rooms[matchID]
	if !ok {
		r = &room{}
		rl.rooms[matchID] = r
	}
	return r
}

// release drops the room and finishes the match once no player is
// connected. A player that never attached by then gets a 404 on a late
// dial since the match is gone.
func (rl *Relay) release(matchID string, r *room) {
	r.mu.Lock()
	done := r.conns[0] == nil && r.conns[1] == nil
	if done {
		r.closed = [2]bool{true, true}
		r.pending = [2][][]byte{}
	}
	r.mu.Unlock()
	if !done {
		return
	}
	rl.mu.Lock()
	if rl.rooms[matchID] == r {
		delete(rl.rooms, matchID)
	}
	rl.mu.Unlock()
	rl.queue.Finish(matchID)
	log.Printf("[relay] match %s closed", matchID)
}

// RoomCount returns the number of open rooms.
func (rl *Relay) RoomCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.rooms)
}

// HandleRelay upgrades GET /relay/{matchID}?player=ID to a websocket and
// forwards binary frames to the other player verbatim.
func HandleRelay(rl *Relay) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.PathValue("matchID")
		playerID := r.URL.Query().Get("player")

		slot, ok := rl.queue.Attach(matchID, playerID)
		if !ok {
			http.Error(w, `{"error":"unknown match or player"}`, http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			log.Printf("[relay] accept failed: %v", err)
			rl.release(matchID, rl.room(matchID))
			return
		}
		conn.SetReadLimit(maxFrameSize)

		rm := rl.room(matchID)
		if !rm.attach(slot, conn) {
			_ = conn.Close(websocket.StatusPolicyViolation, "slot already connected")
			return
		}
		log.Printf("[relay] player %s joined match %s (slot %d)", playerID, matchID, slot)

		err = rm.pump(r.Context(), slot, conn)
		if err != nil && !isNormalClose(err) {
			log.Printf("[relay] match %s slot %d: %v", matchID, slot, err)
		}

		if partner := rm.detach(slot); partner != nil {
			_ = partner.Close(websocket.StatusNormalClosure, "opponent left")
		}
		_ = conn.CloseNow()
		rl.release(matchID, rm)
	}
}

// attach registers conn for slot and flushes anything queued for it. The
// flush happens under the room lock so live frames from the partner cannot
// overtake queued ones.
func (rm *room) attach(slot int, conn *websocket.Conn) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.conns[slot] != nil || rm.closed[slot] {
		return false
	}
	queued := rm.pending[slot]
	rm.pending[slot] = nil
	for _, frame := range queued {
		if err := write(conn, frame); err != nil {
			log.Printf("[relay] flush to slot %d failed: %v", slot, err)
			break
		}
	}
	rm.conns[slot] = conn
	return true
}

func (rm *room) detach(slot int) *websocket.Conn {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.conns[slot] = nil
	rm.closed[slot] = true
	return rm.conns[1-slot]
}

// pump reads frames from slot until the connection ends.
func (rm *room) pump(ctx context.Context, slot int, conn *websocket.Conn) error {
	other := 1 - slot
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageBinary {
			continue
		}

		rm.mu.Lock()
		partner := rm.conns[other]
		if partner == nil {
			if !rm.closed[other] && len(rm.pending[other]) < maxPendingFrames {
				rm.pending[other] = append(rm.pending[other], data)
			}
			rm.mu.Unlock()
			continue
		}
		rm.mu.Unlock()

		if err := write(partner, data); err != nil {
			log.Printf("[relay] forward to slot %d failed: %v", other, err)
		}
	}
}

func write(conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageBinary, data)
}

func isNormalClose(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
