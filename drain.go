package miditrig

import (
	"context"
	"sort"

	"gitlab.com/gomidi/midi/v2"

	"github.com/shaban/miditrig/host"
)

// drainTick pulls every event past the cursor from the host buffer and
// dispatches in ascending sequence order. The ordering is load-bearing: a
// later-queued note-on must never run before an earlier-queued note-off for
// the same note, regardless of the order the buffer yielded them. A tick
// with no new events is a normal no-op.
func (e *Engine) drainTick(ctx context.Context) error {
	events := e.host.Events.DrainSince(e.cursor)
	if len(events) == 0 {
		return nil
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })

	for _, ev := range events {
		if ev.Seq <= e.cursor {
			continue // already processed on an earlier tick
		}
		e.cursor = ev.Seq
		e.dispatch(ev)
	}
	return nil
}

// dispatch routes one raw MIDI message by status. Only the first three bytes
// are interpreted; shorter messages are discarded without error, and
// statuses other than note on/off and pitch wheel are ignored.
func (e *Engine) dispatch(ev host.Event) {
	if len(ev.Data) < 3 {
		return
	}
	if e.hook != nil {
		e.hook.OnEvent(ev.Seq, ev.Data)
	}

	var (
		msg          = midi.Message(ev.Data[:3])
		channel, key uint8
		velocity     uint8
		relative     int16
		absolute     uint16
	)
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		e.noteOn(key, velocity)
	case msg.GetNoteEnd(&channel, &key):
		// includes note-on with velocity 0
		e.noteOff(key)
	case msg.GetPitchBend(&channel, &relative, &absolute):
		e.applyBend(absolute)
	}
}
