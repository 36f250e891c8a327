package network

import "github.com/automoto/pedalrace/shared/messages"

// DefaultBufferSizeLimit keeps roughly one second of samples at 60 Hz.
const DefaultBufferSizeLimit = 60

// BufferedGameState is a received sample plus the receiver's arrival time.
// ReceivedTime is diagnostic only; interpolation runs on State.Timestamp.
type BufferedGameState struct {
	State        messages.GameState
	ReceivedTime float64
}

// StateBuffer is a bounded FIFO of received samples kept in arrival order.
// When full, pushing evicts exactly one sample from the head.
type StateBuffer struct {
	slots []BufferedGameState
	head  int
	count int
}

// NewStateBuffer creates a buffer holding at most limit samples. A
// non-positive limit falls back to DefaultBufferSizeLimit.
func NewStateBuffer(limit int) *StateBuffer {
	if limit <= 0 {
		limit = DefaultBufferSizeLimit
	}
	return &StateBuffer{slots: make([]BufferedGameState, limit)}
}

// Push appends a sample at the tail, evicting the oldest when full.
func (b *StateBuffer) Push(s BufferedGameState) {
	limit := len(b.slots)
	if b.count < limit {
		b.slots[(b.head+b.count)%limit] = s
		b.count++
		return
	}
	b.slots[b.head] = s
	b.head = (b.head + 1) % limit
}

// Len returns the number of buffered samples.
func (b *StateBuffer) Len() int { return b.count }

// Limit returns the buffer capacity.
func (b *StateBuffer) Limit() int { return len(b.slots) }

// At returns the i-th sample in arrival order; 0 is the oldest.
func (b *StateBuffer) At(i int) BufferedGameState {
	return b.slots[(b.head+i)%len(b.slots)]
}

// First returns the oldest sample, or false when empty.
func (b *StateBuffer) First() (BufferedGameState, bool) {
	if b.count == 0 {
		return BufferedGameState{}, false
	}
	return b.At(0), true
}

// Last returns the newest sample, or false when empty.
func (b *StateBuffer) Last() (BufferedGameState, bool) {
	if b.count == 0 {
		return BufferedGameState{}, false
	}
	return b.At(b.count - 1), true
}

// Snapshot copies the buffered samples oldest first.
func (b *StateBuffer) Snapshot() []BufferedGameState {
	out := make([]BufferedGameState, b.count)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}
