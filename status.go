package miditrig

import (
	"context"
	"encoding/json"
	"time"
)

// Status is a consistent snapshot of engine state for inspection and
// debugging. It is taken on the worker goroutine, so the voice count and
// cursor are never torn.
type Status struct {
	Running       bool          `json:"running"`
	Voices        int           `json:"voices"`
	BendSemitones float64       `json:"bendSemitones"`
	Cursor        uint64        `json:"cursor"`
	CachedSources int           `json:"cachedSources"`
	Uptime        time.Duration `json:"uptime"`
}

// VoiceStatus describes one live voice.
type VoiceStatus struct {
	Note      uint8   `json:"note"`
	Root      int     `json:"root"`
	Velocity  uint8   `json:"velocity"`
	StartTime float64 `json:"startTime"`
	Valid     bool    `json:"valid"`
}

// Status returns a snapshot of the engine's current state.
func (e *Engine) Status() Status {
	var s Status
	_ = e.q.RunSync(func(ctx context.Context) error {
		s.Voices = e.voices.count()
		s.Cursor = e.cursor
		return nil
	})

	s.BendSemitones = e.bend()
	s.CachedSources = e.cache.Len()

	e.mu.Lock()
	s.Running = e.running
	if e.running {
		s.Uptime = time.Since(e.startedAt)
	}
	e.mu.Unlock()
	return s
}

// StatusJSON returns the snapshot as JSON.
func (e *Engine) StatusJSON() ([]byte, error) {
	return json.Marshal(e.Status())
}

// VoiceList returns a snapshot of every live voice, ordered by note.
func (e *Engine) VoiceList() []VoiceStatus {
	var out []VoiceStatus
	_ = e.q.RunSync(func(ctx context.Context) error {
		for note := 0; note < 128; note++ {
			for _, v := range e.voices.byNote[uint8(note)] {
				out = append(out, VoiceStatus{
					Note:      v.Note,
					Root:      v.Root,
					Velocity:  v.Velocity,
					StartTime: v.StartTime,
					Valid:     v.instance.Valid(),
				})
			}
		}
		return nil
	})
	return out
}
