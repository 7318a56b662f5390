// Package host defines the narrow surface the trigger engine consumes from
// its embedding application: the buffered MIDI event queue, the live
// instrument list, decoded media sources, playback instances and the
// transport clock. The engine never talks to hardware or a project timeline
// directly; everything goes through these interfaces so hosts can plug in
// their own backends (and tests can plug in fakes).
package host

// Event is one raw MIDI message captured by the host's lossless buffer.
// Seq is assigned by the buffer and strictly increases per captured event.
// Data holds the raw status and data bytes; the engine interprets the first
// three bytes only.
type Event struct {
	Seq  uint64 `json:"seq"`
	Data []byte `json:"data"`
}

// EventSource is a lossless, sequence-numbered MIDI event buffer.
//
// DrainSince returns every buffered event whose Seq exceeds since. Order of
// the returned slice is unspecified; the engine sorts by Seq before
// dispatching. Implementations may prune events at or below the since
// watermark, since the engine's cursor only moves forward.
type EventSource interface {
	DrainSince(since uint64) []Event
}

// ParamIndex selects one of the four normalized instrument parameters.
type ParamIndex int

const (
	// ParamStartOffset is the normalized sample start within the source [0,1].
	ParamStartOffset ParamIndex = iota
	// ParamLength is the normalized sample length, as a fraction of the span
	// remaining after the start offset.
	ParamLength
	// ParamPitchOffset is the root pitch offset in semitones. Hosts expose it
	// as a formatted string; read it through ParamFormatted.
	ParamPitchOffset
	// ParamNoteStart mirrors the low end of the instrument's note range,
	// normalized over the 0-127 MIDI note space.
	ParamNoteStart
)

// Instrument is a sampler-like unit owned by the host: a note range plus a
// media file sliced by four normalized parameters. Parameter values may be
// edited live in the host, so the engine reads them fresh on every trigger
// and never caches them.
type Instrument interface {
	// NoteRange returns the inclusive MIDI note range this instrument
	// responds to.
	NoteRange() (low, high uint8)
	// Path returns the media file path, or "" when the instrument does not
	// expose one directly.
	Path() string
	// Param returns the normalized value of the indexed parameter.
	Param(index ParamIndex) float64
	// ParamFormatted returns the host's formatted rendering of the indexed
	// parameter (e.g. "-7 st" for a pitch offset).
	ParamFormatted(index ParamIndex) string
}

// BlobConfigured is implemented by instruments that carry their media path
// inside an embedded Base64 configuration blob rather than exposing it
// directly. The engine falls back to the blob only when Path returns "".
type BlobConfigured interface {
	ConfigBlob() string
}

// InstrumentSource enumerates the host's instruments. The engine calls this
// on every note-on; the returned order must be deterministic because it
// defines spawn order for overlapping ranges.
type InstrumentSource interface {
	Instruments() []Instrument
}

// Source is a decoded media handle. Handles are memoized per path and shared
// across instruments and notes for the process lifetime.
type Source interface {
	// Path returns the normalized path the source was decoded from.
	Path() string
	// Length returns the full source duration in seconds. A non-positive
	// length marks the source unplayable.
	Length() float64
}

// SpawnRequest carries everything a Player needs to start one clip.
type SpawnRequest struct {
	Instrument  Instrument
	Source      Source
	Position    float64 // transport time at spawn, seconds
	StartOffset float64 // offset into the source, seconds
	Rate        float64 // playback rate, 1.0 = natural speed
	Length      float64 // clip duration at the given rate, seconds
	Velocity    uint8   // triggering note velocity, informational
}

// Instance is a live playback instance, exclusively owned by the Voice that
// spawned it. Hosts may destroy instances externally at any time; the engine
// checks Valid before every use and treats an invalid instance as already
// cleaned up.
type Instance interface {
	// Valid reports whether the instance still exists on the host side.
	Valid() bool
	// Length returns the instance's current clip duration in seconds.
	Length() float64
	// SetLength trims the clip to the given duration. The engine only ever
	// shrinks instances, never extends them.
	SetLength(seconds float64)
	// SetRate updates the playback rate of a running instance.
	SetRate(rate float64)
	// Remove destroys the instance on the host side.
	Remove()
}

// Player spawns playback instances on the host timeline.
type Player interface {
	Spawn(req SpawnRequest) (Instance, error)
}

// Transport exposes the host's running playback clock.
type Transport interface {
	// Now returns the current transport time in seconds.
	Now() float64
}
