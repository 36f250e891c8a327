package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFindMatchWaitingThenMatched(t *testing.T) {
	polls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/match" {
			http.NotFound(w, r)
			return
		}
		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Version != "test" {
			t.Errorf("version = %q, want test", req.Version)
		}
		polls++
		w.Header().Set("Content-Type", "application/json")
		if polls == 1 {
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(MatchStatus{Status: MatchWaiting, PlayerID: "p1"})
			return
		}
		if req.PlayerID != "p1" {
			t.Errorf("second poll player = %q, want p1", req.PlayerID)
		}
		_ = json.NewEncoder(w).Encode(MatchStatus{
			Status:       MatchMatched,
			PlayerID:     "p1",
			MatchID:      "m1",
			Initiator:    true,
			OpponentName: "bo",
			RelayPath:    "/relay/m1?player=p1",
		})
	}))
	defer srv.Close()

	c := NewMatchmakerClient(srv.URL+"/", "test")

	status, ticket, err := c.FindMatch(context.Background(), "", "ada")
	if err != nil {
		t.Fatalf("first poll: %v", err)
	}
	if status.Status != MatchWaiting || ticket != nil {
		t.Fatalf("first poll = %+v ticket=%v, want waiting", status, ticket)
	}

	_, ticket, err = c.FindMatch(context.Background(), status.PlayerID, "ada")
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if ticket == nil {
		t.Fatal("expected a ticket")
	}
	if !ticket.Initiator || ticket.OpponentName != "bo" || ticket.MatchID != "m1" {
		t.Fatalf("ticket = %+v", ticket)
	}
	if !strings.HasPrefix(ticket.RelayURL, "ws://") || !strings.HasSuffix(ticket.RelayURL, "/relay/m1?player=p1") {
		t.Fatalf("relay url = %q", ticket.RelayURL)
	}
}

func TestFindMatchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"nope"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewMatchmakerClient(srv.URL, "test")
	if _, _, err := c.FindMatch(context.Background(), "", "ada"); err == nil {
		t.Fatal("expected an error for 400")
	}
}

func TestPeerLinkBuffersUntilReceiverSet(t *testing.T) {
	p := NewPeerLink()
	p.deliver("a")
	p.deliver("b")

	var got []string
	p.OnReceive(func(payload string) { got = append(got, payload) })
	p.deliver("c")

	if strings.Join(got, ",") != "a,b,c" {
		t.Fatalf("delivered %v, want a,b,c", got)
	}
	if err := p.Send("x"); err != ErrNotConnected {
		t.Fatalf("send err = %v, want ErrNotConnected", err)
	}
}
