// Package testutil provides fake host implementations and fixture helpers
// for engine tests. The fakes record everything the engine does to them so
// tests can assert on spawn parameters, trims and ordering.
package testutil

import (
	"errors"
	"sync"

	"github.com/shaban/miditrig/host"
)

// Events is a scripted host.EventSource. Push accepts arbitrary sequence
// numbers in arbitrary order; DrainSince returns matching events in pushed
// order, deliberately unsorted, to exercise the engine's ordering guarantee.
type Events struct {
	mu     sync.Mutex
	events []host.Event
}

// Push appends one raw event with an explicit sequence number.
func (s *Events) Push(seq uint64, data []byte) {
	s.mu.Lock()
	s.events = append(s.events, host.Event{Seq: seq, Data: data})
	s.mu.Unlock()
}

// DrainSince implements host.EventSource without pruning, so repeated
// drains re-yield old events and exercise the cursor's dedup.
func (s *Events) DrainSince(since uint64) []host.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []host.Event
	for _, ev := range s.events {
		if ev.Seq > since {
			out = append(out, ev)
		}
	}
	return out
}

// Instrument is a configurable fake host.Instrument.
type Instrument struct {
	Low, High     uint8
	MediaPath     string
	Blob          string // embedded config fallback, used when MediaPath is ""
	Start, Length float64
	PitchOffset   string
	NoteStartNorm float64
}

func (i *Instrument) NoteRange() (uint8, uint8) { return i.Low, i.High }
func (i *Instrument) Path() string              { return i.MediaPath }
func (i *Instrument) ConfigBlob() string        { return i.Blob }

func (i *Instrument) Param(index host.ParamIndex) float64 {
	switch index {
	case host.ParamStartOffset:
		return i.Start
	case host.ParamLength:
		return i.Length
	case host.ParamNoteStart:
		return i.NoteStartNorm
	}
	return 0
}

func (i *Instrument) ParamFormatted(index host.ParamIndex) string {
	if index == host.ParamPitchOffset {
		return i.PitchOffset
	}
	return ""
}

// Instruments is a fixed-order host.InstrumentSource.
type Instruments struct {
	List []host.Instrument
}

func (s *Instruments) Instruments() []host.Instrument { return s.List }

// Clock is a manually advanced host.Transport.
type Clock struct {
	mu sync.Mutex
	t  float64
}

// Now implements host.Transport.
func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by seconds.
func (c *Clock) Advance(seconds float64) {
	c.mu.Lock()
	c.t += seconds
	c.mu.Unlock()
}

// Set jumps the clock to an absolute time.
func (c *Clock) Set(seconds float64) {
	c.mu.Lock()
	c.t = seconds
	c.mu.Unlock()
}

// Source is a fake decoded media handle.
type Source struct {
	FilePath string
	Seconds  float64
}

func (s *Source) Path() string    { return s.FilePath }
func (s *Source) Length() float64 { return s.Seconds }

// Decoder is a scripted source.Decoder. Lengths maps a path to a source
// duration; Fail maps a path to a forced decode error. Calls records every
// decode attempt in order.
type Decoder struct {
	mu      sync.Mutex
	Lengths map[string]float64
	Fail    map[string]error
	Calls   []string
}

func (d *Decoder) Decode(path string) (host.Source, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, path)
	d.mu.Unlock()

	if err, ok := d.Fail[path]; ok {
		return nil, err
	}
	seconds, ok := d.Lengths[path]
	if !ok {
		return nil, errors.New("no such media file")
	}
	return &Source{FilePath: path, Seconds: seconds}, nil
}

// Player is a recording host.Player. Spawned instances stay accessible for
// assertions after the engine releases them.
type Player struct {
	mu       sync.Mutex
	Spawned  []*Instance
	FailNext error
}

// Spawn implements host.Player.
func (p *Player) Spawn(req host.SpawnRequest) (host.Instance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailNext != nil {
		err := p.FailNext
		p.FailNext = nil
		return nil, err
	}
	inst := &Instance{Req: req, length: req.Length, rate: req.Rate, valid: true}
	p.Spawned = append(p.Spawned, inst)
	return inst, nil
}

// Count returns the number of spawned instances.
func (p *Player) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Spawned)
}

// Instance is a recording host.Instance.
type Instance struct {
	mu      sync.Mutex
	Req     host.SpawnRequest
	length  float64
	rate    float64
	valid   bool
	removed bool
	Trims   []float64
	Rates   []float64
}

func (i *Instance) Valid() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.valid
}

func (i *Instance) Length() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.length
}

func (i *Instance) SetLength(seconds float64) {
	i.mu.Lock()
	i.length = seconds
	i.Trims = append(i.Trims, seconds)
	i.mu.Unlock()
}

func (i *Instance) SetRate(rate float64) {
	i.mu.Lock()
	i.rate = rate
	i.Rates = append(i.Rates, rate)
	i.mu.Unlock()
}

// Rate returns the most recently applied playback rate.
func (i *Instance) Rate() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.rate
}

func (i *Instance) Remove() {
	i.mu.Lock()
	i.valid = false
	i.removed = true
	i.mu.Unlock()
}

// Invalidate simulates the host destroying the instance externally.
func (i *Instance) Invalidate() {
	i.mu.Lock()
	i.valid = false
	i.mu.Unlock()
}
