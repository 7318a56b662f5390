// Package render is a self-contained playback backend for hosts that have
// no media timeline of their own. It implements host.Player and
// host.Transport over a portaudio output stream: spawned clips are mixed
// sample by sample, honoring start offset, playback rate and clip length,
// and the transport clock is derived from rendered frames.
//
// Sources must expose their decoded PCM data (source.PCM); the built-in WAV
// decoder does.
package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/shaban/miditrig/host"
	"github.com/shaban/miditrig/source"
)

const (
	sampleRate = 44100
	bufferSize = 512
)

// Player mixes spawned clips into a stereo portaudio stream.
type Player struct {
	mu     sync.Mutex
	clips  []*clip
	stream *portaudio.Stream
	clock  float64 // transport seconds, advanced by the audio callback
}

// New initializes portaudio and opens the default output stream. Call Start
// to begin rendering and Close to release the device.
func New() (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio initialize: %w", err)
	}
	p := &Player{}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open output stream: %w", err)
	}
	p.stream = stream
	return p, nil
}

// Start begins audio rendering.
func (p *Player) Start() error {
	return p.stream.Start()
}

// Close stops rendering and releases portaudio.
func (p *Player) Close() error {
	err := p.stream.Close()
	portaudio.Terminate()
	return err
}

// Now implements host.Transport off the rendered-frame clock.
func (p *Player) Now() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock
}

// Spawn implements host.Player. The source must expose PCM data.
func (p *Player) Spawn(req host.SpawnRequest) (host.Instance, error) {
	pcm, ok := req.Source.(source.PCM)
	if !ok {
		return nil, errors.New("source does not expose PCM data")
	}
	if req.Rate <= 0 {
		return nil, fmt.Errorf("non-positive playback rate %g", req.Rate)
	}

	c := &clip{
		samples: pcm.Samples(),
		srcRate: pcm.SampleRate(),
		pos:     req.StartOffset * pcm.SampleRate(),
		rate:    req.Rate,
		length:  req.Length,
	}

	p.mu.Lock()
	p.clips = append(p.clips, c)
	p.mu.Unlock()
	return c, nil
}

// process is the portaudio callback: advance the clock, mix every live
// clip, drop the finished ones.
func (p *Player) process(out [][]float32) {
	for i := range out {
		for j := range out[i] {
			out[i][j] = 0
		}
	}

	p.mu.Lock()
	p.clock += float64(len(out[0])) / sampleRate

	live := p.clips[:0]
	for _, c := range p.clips {
		c.mixInto(out, sampleRate)
		if c.Valid() {
			live = append(live, c)
		}
	}
	p.clips = live
	p.mu.Unlock()
}

// clip is one playing slice of a decoded source. It implements
// host.Instance; the engine trims its length on note-off and retunes its
// rate from the modulation loop while the audio callback consumes it.
type clip struct {
	mu      sync.Mutex
	samples []float64
	srcRate float64
	pos     float64 // position in source samples
	rate    float64 // playback rate, applied relative to srcRate
	length  float64 // clip duration in output seconds
	played  float64 // output seconds rendered so far
	done    bool
}

// mixInto adds the clip's next frames into a stereo buffer.
func (c *clip) mixInto(out [][]float32, outRate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}

	step := c.rate * c.srcRate / outRate
	for f := 0; f < len(out[0]); f++ {
		idx := int(c.pos)
		if idx >= len(c.samples) || c.played >= c.length {
			c.done = true
			return
		}
		s := float32(c.samples[idx])
		out[0][f] += s
		out[1][f] += s
		c.pos += step
		c.played += 1 / outRate
	}
}

// Valid implements host.Instance.
func (c *clip) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.done
}

// Length implements host.Instance.
func (c *clip) Length() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.length
}

// SetLength implements host.Instance.
func (c *clip) SetLength(seconds float64) {
	c.mu.Lock()
	c.length = seconds
	c.mu.Unlock()
}

// SetRate implements host.Instance.
func (c *clip) SetRate(rate float64) {
	c.mu.Lock()
	if rate > 0 {
		c.rate = rate
	}
	c.mu.Unlock()
}

// Remove implements host.Instance.
func (c *clip) Remove() {
	c.mu.Lock()
	c.done = true
	c.mu.Unlock()
}
