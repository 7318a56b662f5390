// Package miditap captures raw MIDI input into a lossless, sequence-numbered
// buffer that the trigger engine drains once per tick. The buffer assigns
// strictly increasing sequence numbers at capture time, so the engine can
// poll at any cadence without missing or double-processing an event.
package miditap

import (
	"sync"

	"github.com/shaban/miditrig/host"
)

// Buffer is a sequence-numbered MIDI event buffer. It implements
// host.EventSource. Feed it from a live input (see Tap) or directly in
// tests and embedders with their own capture path.
type Buffer struct {
	mu     sync.Mutex
	events []host.Event
	next   uint64
}

// NewBuffer creates an empty buffer. The first fed event gets sequence 1.
func NewBuffer() *Buffer {
	return &Buffer{next: 1}
}

// Feed appends one raw MIDI message and returns its assigned sequence
// number. The data slice is copied.
func (b *Buffer) Feed(data []byte) uint64 {
	msg := make([]byte, len(data))
	copy(msg, data)

	b.mu.Lock()
	seq := b.next
	b.next++
	b.events = append(b.events, host.Event{Seq: seq, Data: msg})
	b.mu.Unlock()
	return seq
}

// DrainSince returns every buffered event with Seq > since, in capture
// order. Events at or below the watermark are pruned: the engine's cursor
// only moves forward, so nothing will ask for them again.
func (b *Buffer) DrainSince(since uint64) []host.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Drop the consumed prefix.
	i := 0
	for i < len(b.events) && b.events[i].Seq <= since {
		i++
	}
	if i > 0 {
		b.events = append(b.events[:0], b.events[i:]...)
	}
	if len(b.events) == 0 {
		return nil
	}

	out := make([]host.Event, len(b.events))
	copy(out, b.events)
	return out
}

// Pending returns the number of buffered events not yet pruned.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
