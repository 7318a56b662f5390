package miditrig

import "github.com/shaban/miditrig/host"

// Voice is the live binding between a held MIDI note and one spawned
// playback instance. A single note-on may spawn several voices when multiple
// instrument ranges overlap; all of them share the note key and are released
// together on note-off.
type Voice struct {
	Note      uint8   // triggering MIDI note
	Root      int     // note at which the region plays at rate 1.0
	Velocity  uint8   // triggering velocity, informational
	StartTime float64 // transport time at spawn, seconds

	instance host.Instance
}

// voiceTable maps active note numbers to their voices. It is owned by the
// engine's worker goroutine; all access happens through serialized ops.
type voiceTable struct {
	byNote map[uint8][]*Voice
}

func newVoiceTable() *voiceTable {
	return &voiceTable{byNote: make(map[uint8][]*Voice)}
}

// active reports whether the note currently holds at least one voice.
func (t *voiceTable) active(note uint8) bool {
	return len(t.byNote[note]) > 0
}

// add registers a voice under its note key.
func (t *voiceTable) add(v *Voice) {
	t.byNote[v.Note] = append(t.byNote[v.Note], v)
}

// take removes and returns all voices for the note.
func (t *voiceTable) take(note uint8) []*Voice {
	voices := t.byNote[note]
	delete(t.byNote, note)
	return voices
}

// each visits every live voice.
func (t *voiceTable) each(fn func(*Voice)) {
	for _, voices := range t.byNote {
		for _, v := range voices {
			fn(v)
		}
	}
}

// count returns the number of live voices across all notes.
func (t *voiceTable) count() int {
	n := 0
	for _, voices := range t.byNote {
		n += len(voices)
	}
	return n
}
