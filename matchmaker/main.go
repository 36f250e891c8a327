package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; flags override it.
	if err := godotenv.Load(); err == nil {
		log.Println("[matchmaker] loaded .env")
	}

	port := flag.Int("port", envInt("MATCHMAKER_PORT", 3001), "HTTP listen port")
	ttl := flag.Duration("ttl", envDuration("MATCHMAKER_TTL", 30*time.Second), "Waiting player TTL before expiry")
	flag.Parse()

	queue := NewQueue(*ttl)
	defer queue.Stop()
	relay := NewRelay(queue)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("[matchmaker] starting on %s (TTL=%s)", addr, *ttl)
	if err := http.ListenAndServe(addr, NewMux(queue, relay)); err != nil {
		log.Fatalf("[matchmaker] fatal: %v", err)
	}
}

func NewMux(q *Queue, rl *Relay) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /match", HandleMatch(q))
	mux.HandleFunc("GET /relay/{matchID}", HandleRelay(rl))
	mux.HandleFunc("GET /health", Health())
	return mux
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
