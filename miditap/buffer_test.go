package miditap

import (
	"bytes"
	"testing"
)

func TestBuffer_SequencesFromOne(t *testing.T) {
	b := NewBuffer()
	if seq := b.Feed([]byte{0x90, 60, 100}); seq != 1 {
		t.Fatalf("want first seq 1, got %d", seq)
	}
	if seq := b.Feed([]byte{0x80, 60, 0}); seq != 2 {
		t.Fatalf("want second seq 2, got %d", seq)
	}
}

func TestBuffer_DrainSince(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < 5; i++ {
		b.Feed([]byte{0x90, byte(60 + i), 100})
	}

	events := b.DrainSince(2)
	if len(events) != 3 {
		t.Fatalf("want 3 events past seq 2, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Seq != uint64(3+i) {
			t.Fatalf("event %d: want seq %d, got %d", i, 3+i, ev.Seq)
		}
	}

	// The watermark pruned everything at or below 2.
	if got := b.Pending(); got != 3 {
		t.Fatalf("want 3 pending after prune, got %d", got)
	}

	// Draining from the highest seq leaves nothing.
	if events := b.DrainSince(5); events != nil {
		t.Fatalf("want nil on empty drain, got %d events", len(events))
	}
	if got := b.Pending(); got != 0 {
		t.Fatalf("want empty buffer, got %d", got)
	}
}

func TestBuffer_FeedCopiesData(t *testing.T) {
	b := NewBuffer()
	data := []byte{0x90, 60, 100}
	b.Feed(data)
	data[1] = 61

	events := b.DrainSince(0)
	if len(events) != 1 {
		t.Fatalf("want 1 event, got %d", len(events))
	}
	if !bytes.Equal(events[0].Data, []byte{0x90, 60, 100}) {
		t.Fatalf("buffer aliases caller data: %v", events[0].Data)
	}
}
