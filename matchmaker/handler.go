package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

type matchRequest struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Version  string `json:"version"`
}

const (
	maxRequestBody = 1 << 16 // 64 KB
	maxNameLength  = 16
)

// HandleMatch handles POST /match: enqueue or re-poll a player.
func HandleMatch(q *Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" || req.Version == "" {
			http.Error(w, `{"error":"name and version required"}`, http.StatusBadRequest)
			return
		}
		name = truncateName(name)

		status := q.Poll(req.PlayerID, name, req.Version)
		if status.Status == StatusWaiting {
			w.WriteHeader(http.StatusAccepted)
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("[matchmaker] match encode error: %v", err)
		}
	}
}

// truncateName cuts name to maxNameLength runes.
func truncateName(name string) string {
	if r := []rune(name); len(r) > maxNameLength {
		return string(r[:maxNameLength])
	}
	return name
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
