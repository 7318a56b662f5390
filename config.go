package miditrig

import "time"

// Config tunes engine behavior. Zero values are resolved to the defaults
// below at NewEngine, so a zero Config is usable as-is.
type Config struct {
	// PitchBendRange is the bend span in semitones mapped to the full 14-bit
	// pitch wheel deflection (±range).
	PitchBendRange float64 `json:"pitchBendRange,omitempty"`

	// DrainInterval is the cadence of the event drain tick in self-ticking
	// mode (Start). Hosts driving ticks themselves via DrainOnce can ignore it.
	DrainInterval time.Duration `json:"drainInterval,omitempty"`

	// ModulationInterval is the cadence of the pitch modulation loop. It is
	// independent of the drain: sustained voices glide with the wheel even
	// when no MIDI events arrive.
	ModulationInterval time.Duration `json:"modulationInterval,omitempty"`

	// MinClipSpan is the floor applied to a resolved region's normalized
	// span before computing clip duration, preventing zero or negative
	// length clips from degenerate instrument settings.
	MinClipSpan float64 `json:"minClipSpan,omitempty"`

	// QueueDepth is the buffer size of the serialized operation queue.
	QueueDepth int `json:"queueDepth,omitempty"`
}

// DefaultConfig is the configuration used for unset fields.
var DefaultConfig = Config{
	PitchBendRange:     2,
	DrainInterval:      33 * time.Millisecond,
	ModulationInterval: 66 * time.Millisecond,
	MinClipSpan:        0.05,
	QueueDepth:         64,
}

// withDefaults resolves unset fields against DefaultConfig.
func (c Config) withDefaults() Config {
	if c.PitchBendRange <= 0 {
		c.PitchBendRange = DefaultConfig.PitchBendRange
	}
	if c.DrainInterval <= 0 {
		c.DrainInterval = DefaultConfig.DrainInterval
	}
	if c.ModulationInterval <= 0 {
		c.ModulationInterval = DefaultConfig.ModulationInterval
	}
	if c.MinClipSpan <= 0 {
		c.MinClipSpan = DefaultConfig.MinClipSpan
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = DefaultConfig.QueueDepth
	}
	return c
}
