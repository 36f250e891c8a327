package network

import (
	"testing"

	"github.com/automoto/pedalrace/shared/messages"
)

func sample(ts float64) BufferedGameState {
	return BufferedGameState{State: messages.GameState{Timestamp: ts}, ReceivedTime: ts}
}

func TestStateBufferNeverExceedsLimit(t *testing.T) {
	b := NewStateBuffer(3)
	for i := 1; i <= 5; i++ {
		b.Push(sample(float64(i)))
		if b.Len() > 3 {
			t.Fatalf("after %d pushes len = %d, limit 3", i, b.Len())
		}
	}

	got := b.Snapshot()
	want := []float64{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("snapshot len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].State.Timestamp != w {
			t.Errorf("slot %d ts = %v, want %v", i, got[i].State.Timestamp, w)
		}
	}
}

func TestStateBufferEvictsOnlyHead(t *testing.T) {
	b := NewStateBuffer(2)
	b.Push(sample(10))
	b.Push(sample(20))
	b.Push(sample(30))

	first, ok := b.First()
	if !ok || first.State.Timestamp != 20 {
		t.Fatalf("first = %+v (ok=%t), want ts 20", first, ok)
	}
	last, ok := b.Last()
	if !ok || last.State.Timestamp != 30 {
		t.Fatalf("last = %+v (ok=%t), want ts 30", last, ok)
	}
}

func TestStateBufferDefaultLimit(t *testing.T) {
	b := NewStateBuffer(0)
	if b.Limit() != DefaultBufferSizeLimit {
		t.Fatalf("limit = %d, want %d", b.Limit(), DefaultBufferSizeLimit)
	}
	for i := 0; i < 100; i++ {
		b.Push(sample(float64(i)))
	}
	if b.Len() != DefaultBufferSizeLimit {
		t.Fatalf("len = %d, want %d", b.Len(), DefaultBufferSizeLimit)
	}
	if first, _ := b.First(); first.State.Timestamp != 40 {
		t.Fatalf("oldest ts = %v, want 40", first.State.Timestamp)
	}
}

func TestStateBufferEmpty(t *testing.T) {
	b := NewStateBuffer(4)
	if _, ok := b.First(); ok {
		t.Fatal("First on empty buffer reported ok")
	}
	if _, ok := b.Last(); ok {
		t.Fatal("Last on empty buffer reported ok")
	}
	if len(b.Snapshot()) != 0 {
		t.Fatal("Snapshot of empty buffer not empty")
	}
}
