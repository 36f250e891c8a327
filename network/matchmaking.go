package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MatchTicket describes a paired race. Initiator is true for the player
// that was queued first; it takes spawn slot 0 and sends Hello first.
type MatchTicket struct {
	MatchID      string `json:"matchId"`
	PlayerID     string `json:"playerId"`
	Initiator    bool   `json:"initiator"`
	OpponentName string `json:"opponentName"`
	RelayURL     string `json:"relayUrl"`
}

// MatchStatus is the matchmaker's answer to one poll.
type MatchStatus struct {
	Status   string `json:"status"` // "waiting" or "matched"
	PlayerID string `json:"playerId"`
	MatchID  string `json:"matchId,omitempty"`

	Initiator    bool   `json:"initiator,omitempty"`
	OpponentName string `json:"opponentName,omitempty"`
	RelayPath    string `json:"relayPath,omitempty"`
}

const (
	MatchWaiting = "waiting"
	MatchMatched = "matched"
)

type matchRequest struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name"`
	Version  string `json:"version"`
}

// MatchmakerClient queues the local player and polls for a partner.
type MatchmakerClient struct {
	baseURL    string
	version    string
	httpClient *http.Client
}

func NewMatchmakerClient(baseURL, version string) *MatchmakerClient {
	return &MatchmakerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		version:    version,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// FindMatch enqueues (or re-polls) playerID. An empty playerID asks the
// matchmaker to assign one; reuse the returned PlayerID on later polls.
// The ticket is non-nil only once the player has been paired.
func (c *MatchmakerClient) FindMatch(ctx context.Context, playerID, name string) (MatchStatus, *MatchTicket, error) {
	body, err := json.Marshal(matchRequest{PlayerID: playerID, Name: name, Version: c.version})
	if err != nil {
		return MatchStatus{}, nil, fmt.Errorf("marshal match request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/match", bytes.NewReader(body))
	if err != nil {
		return MatchStatus{}, nil, fmt.Errorf("build match request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return MatchStatus{}, nil, fmt.Errorf("matchmaker query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return MatchStatus{}, nil, fmt.Errorf("matchmaker returned status %d", resp.StatusCode)
	}

	var status MatchStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return MatchStatus{}, nil, fmt.Errorf("decode match status: %w", err)
	}

	if status.Status != MatchMatched {
		return status, nil, nil
	}

	relay, err := c.relayURL(status.RelayPath)
	if err != nil {
		return status, nil, err
	}
	return status, &MatchTicket{
		MatchID:      status.MatchID,
		PlayerID:     status.PlayerID,
		Initiator:    status.Initiator,
		OpponentName: status.OpponentName,
		RelayURL:     relay,
	}, nil
}

// relayURL turns the matchmaker's relative relay path into a ws(s) URL on
// the same host.
func (c *MatchmakerClient) relayURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse matchmaker url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	rel, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse relay path: %w", err)
	}
	return u.ResolveReference(rel).String(), nil
}
