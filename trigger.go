package miditrig

import (
	"fmt"

	"github.com/shaban/miditrig/host"
	"github.com/shaban/miditrig/internal/embedcfg"
	"github.com/shaban/miditrig/region"
)

// noteOn scans every host instrument and spawns a playback instance for each
// one whose note range contains the note. A note-on for a note that already
// holds voices is ignored; retriggering requires a note-off first. Failures
// while spawning one instrument never abort the scan of the rest.
//
// The instrument list and its parameters are read fresh on every call: the
// host allows live edits, so nothing here is cached.
func (e *Engine) noteOn(note, velocity uint8) {
	if e.voices.active(note) {
		return
	}

	bend := e.bend()
	now := e.host.Transport.Now()

	for _, inst := range e.host.Instruments.Instruments() {
		low, high := inst.NoteRange()
		if note < low || note > high {
			continue
		}
		e.spawn(inst, note, velocity, bend, now)
	}
}

// spawn resolves one matching instrument into a playback instance and
// registers the resulting voice. All failures route to the error handler
// and skip just this instrument.
func (e *Engine) spawn(inst host.Instrument, note, velocity uint8, bend, now float64) {
	reg := region.Resolve(inst)

	path := e.mediaPath(inst)
	if path == "" {
		e.errors.HandleError(fmt.Errorf("note %d: instrument exposes no media path", note))
		return
	}

	src, err := e.cache.Resolve(path)
	if err != nil {
		e.errors.HandleError(fmt.Errorf("note %d: %w", note, err))
		return
	}
	total := src.Length()
	if total <= 0 {
		e.errors.HandleError(fmt.Errorf("note %d: source %s has zero length", note, path))
		return
	}

	rate := playbackRate(int(note), reg.Root, bend)

	span := reg.End - reg.Start
	if span < e.cfg.MinClipSpan {
		span = e.cfg.MinClipSpan
	}

	instance, err := e.host.Player.Spawn(host.SpawnRequest{
		Instrument:  inst,
		Source:      src,
		Position:    now,
		StartOffset: reg.Start * total,
		Rate:        rate,
		Length:      span * total / rate,
		Velocity:    velocity,
	})
	if err != nil {
		e.errors.HandleError(fmt.Errorf("note %d: spawn %s: %w", note, path, err))
		return
	}

	e.voices.add(&Voice{
		Note:      note,
		Root:      reg.Root,
		Velocity:  velocity,
		StartTime: now,
		instance:  instance,
	})
	if e.hook != nil {
		e.hook.OnVoiceSpawned(note, velocity, path, rate)
	}
}

// mediaPath returns the instrument's media path, falling back to the
// embedded configuration blob when no direct path is exposed.
func (e *Engine) mediaPath(inst host.Instrument) string {
	if path := inst.Path(); path != "" {
		return path
	}
	bc, ok := inst.(host.BlobConfigured)
	if !ok {
		return ""
	}
	path, err := embedcfg.MediaPath(bc.ConfigBlob())
	if err != nil {
		return ""
	}
	return path
}

// noteOff releases every voice held by the note. Instances that are still
// alive and have played less than their clip length are trimmed to the held
// duration (release-to-fit; the length only ever shrinks). Instances the
// host already destroyed are treated as cleaned up. The table entry is
// released in every case.
func (e *Engine) noteOff(note uint8) {
	voices := e.voices.take(note)
	if len(voices) == 0 {
		return
	}

	now := e.host.Transport.Now()
	for _, v := range voices {
		if !v.instance.Valid() {
			if e.hook != nil {
				e.hook.OnVoiceDropped(note)
			}
			continue
		}
		held := now - v.StartTime
		if held > 0 && held < v.instance.Length() {
			v.instance.SetLength(held)
			if e.hook != nil {
				e.hook.OnVoiceTrimmed(note, held)
			}
			continue
		}
		if e.hook != nil {
			e.hook.OnVoiceDropped(note)
		}
	}
}
