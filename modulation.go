package miditrig

import (
	"context"
	"math"
)

// bendCenter and bendMax describe the 14-bit pitch wheel value space.
const (
	bendCenter = 8192
	bendMax    = 8191
)

// bendBucketWidth is the coarse quantization applied to raw wheel values.
// High-resolution controllers stream hundreds of nearly identical values per
// second; recomputing only on bucket change bounds the update rate without
// audible steps.
const bendBucketWidth = 64

// playbackRate maps a note against its root to a playback rate using the
// standard equal-tempered relation: one semitone is a factor of 2^(1/12).
func playbackRate(note, root int, bend float64) float64 {
	return math.Exp2((float64(note-root) + bend) / 12)
}

// applyBend ingests a raw 14-bit pitch wheel value from the event drain.
// The shared bend value changes only when the coarse bucket changes from the
// previous wheel event.
func (e *Engine) applyBend(raw uint16) {
	bucket := int64(raw / bendBucketWidth)
	if bucket == e.lastBucket.Load() {
		return
	}
	e.lastBucket.Store(bucket)

	semitones := (float64(int(raw)-bendCenter) / bendMax) * e.cfg.PitchBendRange
	e.bendBits.Store(math.Float64bits(semitones))
	if e.hook != nil {
		e.hook.OnBend(semitones)
	}
}

// modulationTick recomputes and applies the playback rate of every live
// voice from the current bend value. It runs on its own cadence, independent
// of MIDI event arrival, so sustained voices glide with the wheel. Voices
// whose instances the host destroyed are skipped here; removal belongs to
// the note-off path.
func (e *Engine) modulationTick(ctx context.Context) error {
	bend := e.bend()
	e.voices.each(func(v *Voice) {
		if !v.instance.Valid() {
			return
		}
		v.instance.SetRate(playbackRate(int(v.Note), v.Root, bend))
	})
	return nil
}
