package network

import (
	"sync"
	"testing"

	"github.com/automoto/pedalrace/shared/messages"
)

func gs(ts, x float64, currency int) messages.GameState {
	return messages.GameState{Position: messages.Position{X: x}, Currency: currency, Timestamp: ts}
}

func TestSyncManagerBoundsBuffer(t *testing.T) {
	m := NewSyncManager(60, DefaultRenderDelay)
	for i := 0; i < 200; i++ {
		m.AddState(gs(float64(i), 0, 0))
	}
	if m.Len() != 60 {
		t.Fatalf("len = %d, want 60", m.Len())
	}
	samples := m.Samples()
	for i := 1; i < len(samples); i++ {
		if samples[i].State.Timestamp <= samples[i-1].State.Timestamp {
			t.Fatalf("arrival order lost at %d", i)
		}
	}
}

func TestSyncManagerNoData(t *testing.T) {
	m := NewSyncManager(60, DefaultRenderDelay)
	if _, ok := m.GetInterpolatedState(1000); ok {
		t.Fatal("expected no state from empty manager")
	}
	if _, ok := m.GetLatestCurrency(); ok {
		t.Fatal("expected no currency from empty manager")
	}
}

func TestSyncManagerCurrencyIgnoresRenderDelay(t *testing.T) {
	m := NewSyncManager(60, 100)
	m.AddState(gs(1000, 0, 5))
	m.AddState(gs(1100, 100, 7))

	cur, ok := m.GetLatestCurrency()
	if !ok || cur != 7 {
		t.Fatalf("currency = %d (ok=%t), want 7", cur, ok)
	}

	st, _ := m.GetInterpolatedState(1150)
	if !near(st.Position.X, 50) {
		t.Fatalf("x = %v, want 50", st.Position.X)
	}
}

func TestSyncManagerEndToEnd(t *testing.T) {
	m := NewSyncManager(60, 100)
	m.AddState(gs(0, 0, 0))
	m.AddState(gs(100, 100, 0))
	m.AddState(gs(200, 200, 0))

	st, ok := m.GetInterpolatedState(120)
	if !ok {
		t.Fatal("expected a state")
	}
	if !near(st.Position.X, 20) {
		t.Fatalf("x = %v, want 20", st.Position.X)
	}
}

func TestSyncManagerStampsReceivedTime(t *testing.T) {
	now := 42.0
	m := NewSyncManager(4, 100, WithClock(ClockFunc(func() float64 { return now })))
	m.AddState(gs(1, 0, 0))
	now = 50
	m.AddState(gs(2, 0, 0))

	samples := m.Samples()
	if samples[0].ReceivedTime != 42 || samples[1].ReceivedTime != 50 {
		t.Fatalf("received times = %v, %v", samples[0].ReceivedTime, samples[1].ReceivedTime)
	}
}

func TestSyncManagerMonotonicGuard(t *testing.T) {
	m := NewSyncManager(8, 100, WithMonotonicGuard())
	m.AddState(gs(100, 0, 0))
	m.AddState(gs(50, 0, 0))
	m.AddState(gs(150, 0, 0))

	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}
	if m.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", m.Dropped())
	}

	plain := NewSyncManager(8, 100)
	plain.AddState(gs(100, 0, 0))
	plain.AddState(gs(50, 0, 0))
	if plain.Len() != 2 {
		t.Fatalf("unguarded manager dropped a sample")
	}
}

func TestSyncManagerConcurrentAccess(t *testing.T) {
	m := NewSyncManager(60, 100)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			m.AddState(gs(float64(i), float64(i), i))
		}
	}()
	for i := 0; i < 500; i++ {
		m.GetInterpolatedState(float64(i))
		m.GetLatestCurrency()
	}
	wg.Wait()
	if m.Len() != 60 {
		t.Fatalf("len = %d, want 60", m.Len())
	}
}
