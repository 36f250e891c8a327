package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/pedalrace/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type PeerState int

const (
	StateDisconnected PeerState = iota
	StateConnecting
	StateConnected
	StateError
)

func (s PeerState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("PeerState(%d)", int(s))
}

var ErrNotConnected = errors.New("peer not connected")

// PeerLink is the data channel to the opponent, carried over the
// matchmaker's websocket relay. It satisfies Transport.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type PeerLink struct {
	mu sync.RWMutex

	state     PeerState
	lastError error
	ticket    MatchTicket
	conn      *websocket.Conn
	onReceive func(string)

	// pending holds payloads that arrived before OnReceive was set.
	pending []string
}

const maxPendingPayloads = 64

func NewPeerLink() *PeerLink {
	return &PeerLink{state: StateDisconnected}
}

// Connect dials the relay named by the ticket in a background goroutine.
func (p *PeerLink) Connect(ticket MatchTicket) {
	p.mu.Lock()
	p.state = StateConnecting
	p.lastError = nil
	p.ticket = ticket
	p.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Printf("[peer] relay connected (match=%s initiator=%t)", ticket.MatchID, ticket.Initiator)
		p.mu.Lock()
		p.state = StateConnected
		p.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, frame messages.PeerFrame) {
		p.deliver(frame.Payload)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[peer] disconnected: %v", err)
		p.mu.Lock()
		if p.state != StateError {
			p.state = StateDisconnected
		}
		p.conn = nil
		p.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[peer] error: %v", err)
	})

	url := ticket.RelayURL
	go func() {
		transport := transports.NewWsClientTransport(url)
		err := transport.Start(func(conn *websocket.Conn) {
			p.mu.Lock()
			p.conn = conn
			p.mu.Unlock()
		})
		if err != nil {
			p.setError(fmt.Errorf("relay connection failed: %w", err))
		}
	}()
}

func (p *PeerLink) deliver(payload string) {
	p.mu.Lock()
	fn := p.onReceive
	if fn == nil {
		if len(p.pending) < maxPendingPayloads {
			p.pending = append(p.pending, payload)
		}
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	fn(payload)
}

// OnReceive registers the inbound callback and flushes anything that
// arrived before registration.
func (p *PeerLink) OnReceive(fn func(payload string)) {
	p.mu.Lock()
	p.onReceive = fn
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	if fn == nil {
		return
	}
	for _, payload := range pending {
		fn(payload)
	}
}

// Send wraps the payload in a PeerFrame and writes it to the relay.
func (p *PeerLink) Send(payload string) error {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	b, err := router.Serialize(messages.PeerFrame{Payload: payload})
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, b)
}

func (p *PeerLink) Disconnect() {
	p.mu.Lock()
	conn := p.conn
	p.state = StateDisconnected
	p.conn = nil
	p.onReceive = nil
	p.pending = nil
	p.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (p *PeerLink) State() PeerState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *PeerLink) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastError
}

func (p *PeerLink) Ticket() MatchTicket {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ticket
}

func (p *PeerLink) setError(err error) {
	p.mu.Lock()
	p.state = StateError
	p.lastError = err
	p.mu.Unlock()
}
