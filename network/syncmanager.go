package network

import (
	"log"
	"sync"

	"github.com/automoto/pedalrace/shared/messages"
)

// SyncManager buffers the remote racer's samples and answers interpolation
// queries for the tick loop. AddState is called from the transport's
// receive goroutine, so all access goes through mu.
type SyncManager struct {
	mu          sync.Mutex
	buffer      *StateBuffer
	renderDelay float64
	clock       Clock

	// monotonic drops samples older than the current tail.
	monotonic bool
	dropped   int
}

type SyncOption func(*SyncManager)

// WithClock sets the receiver clock used to stamp arrivals.
func WithClock(c Clock) SyncOption {
	return func(m *SyncManager) { m.clock = c }
}

// WithMonotonicGuard rejects samples whose timestamp is older than the
// newest buffered one, keeping the buffer sorted under reordering.
func WithMonotonicGuard() SyncOption {
	return func(m *SyncManager) { m.monotonic = true }
}

// NewSyncManager creates a manager for one remote peer. bufferSizeLimit <= 0
// uses DefaultBufferSizeLimit.
func NewSyncManager(bufferSizeLimit int, renderDelay float64, opts ...SyncOption) *SyncManager {
	m := &SyncManager{
		buffer:      NewStateBuffer(bufferSizeLimit),
		renderDelay: renderDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = NewMonotonicClock()
	}
	return m
}

// AddState appends a received sample. It never fails; when the buffer is
// full the oldest sample is discarded.
func (m *SyncManager) AddState(s messages.GameState) {
	received := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.monotonic {
		if last, ok := m.buffer.Last(); ok && s.Timestamp < last.State.Timestamp {
			m.dropped++
			if m.dropped == 1 || m.dropped%100 == 0 {
				log.Printf("[sync] dropped out-of-order sample (ts=%.1f < tail %.1f, total %d)",
					s.Timestamp, last.State.Timestamp, m.dropped)
			}
			return
		}
	}

	m.buffer.Push(BufferedGameState{State: s, ReceivedTime: received})
}

// GetInterpolatedState returns the opponent pose for renderTimestamp, or
// false when nothing has been received yet.
func (m *SyncManager) GetInterpolatedState(renderTimestamp float64) (OpponentVisualState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Interpolate(m.buffer, renderTimestamp, m.renderDelay)
}

// GetLatestCurrency returns the currency of the newest sample regardless of
// render delay, or false when the buffer is empty.
func (m *SyncManager) GetLatestCurrency() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	last, ok := m.buffer.Last()
	if !ok {
		return 0, false
	}
	return last.State.Currency, true
}

// Len returns the number of buffered samples.
func (m *SyncManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffer.Len()
}

// Samples returns a copy of the buffer, oldest first.
func (m *SyncManager) Samples() []BufferedGameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffer.Snapshot()
}

// RenderDelay returns the configured delay in milliseconds.
func (m *SyncManager) RenderDelay() float64 { return m.renderDelay }

// Dropped returns how many samples the monotonic guard rejected.
func (m *SyncManager) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
