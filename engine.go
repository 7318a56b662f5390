// Package miditrig is a real-time MIDI-triggered media playback engine.
// Incoming note and pitch wheel events select, slice, pitch-shift and
// time-trim media clips, emulating a multi-sample instrument whose samples
// are full media files. The engine owns no hardware and no timeline; it
// drives the narrow interfaces in package host.
package miditrig

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	hostpkg "github.com/shaban/miditrig/host"
	"github.com/shaban/miditrig/queue"
	"github.com/shaban/miditrig/source"
)

// Host bundles the external collaborators the engine consumes. Events,
// Instruments, Player and Transport are required; Decoder defaults to the
// built-in WAV decoder when nil.
type Host struct {
	Events      hostpkg.EventSource
	Instruments hostpkg.InstrumentSource
	Player      hostpkg.Player
	Transport   hostpkg.Transport
	Decoder     source.Decoder
}

// Engine holds all mutable trigger state: the voice table, source cache,
// shared bend value and the sequence cursor. Create one with NewEngine and
// release it with Close; there are no package-level globals.
//
// The event drain and the pitch modulation loop are two independently
// clocked tasks. Both submit their tick bodies to a single serialized
// operation queue, so the voice table and cursor are only ever touched by
// one goroutine. The bend value and bucket are atomics, letting spawn-time
// reads skip the queue.
type Engine struct {
	cfg  Config
	host Host

	cache  *source.Cache
	q      *queue.Queue
	errors ErrorHandler
	hook   Hook

	// worker-owned state (access only from queue ops)
	voices *voiceTable
	cursor uint64

	// shared pitch state
	bendBits   atomic.Uint64 // math.Float64bits of bend in semitones
	lastBucket atomic.Int64

	mu        sync.Mutex
	running   bool
	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closed    bool
}

// NewEngine validates the host bundle and creates a stopped engine. The
// serialized queue worker starts immediately so host-driven ticks and status
// snapshots work without Start; Start only adds the self-ticking loops.
func NewEngine(cfg Config, h Host) (*Engine, error) {
	if h.Events == nil {
		return nil, errors.New("host event source cannot be nil")
	}
	if h.Instruments == nil {
		return nil, errors.New("host instrument source cannot be nil")
	}
	if h.Player == nil {
		return nil, errors.New("host player cannot be nil")
	}
	if h.Transport == nil {
		return nil, errors.New("host transport cannot be nil")
	}
	if h.Decoder == nil {
		h.Decoder = source.WavDecoder{}
	}

	cfg = cfg.withDefaults()
	cache, err := source.NewCache(h.Decoder)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		host:   h,
		cache:  cache,
		q:      queue.New(cfg.QueueDepth),
		errors: &DefaultErrorHandler{},
		voices: newVoiceTable(),
	}
	e.lastBucket.Store(-1) // no wheel event seen yet
	e.q.Start()
	return e, nil
}

// SetErrorHandler replaces the error handler. Passing nil restores the
// default. Call before Start.
func (e *Engine) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = &DefaultErrorHandler{}
	}
	e.errors = h
}

// SetHook sets an optional observer hook. Passing nil disables it. Call
// before Start.
func (e *Engine) SetHook(h Hook) { e.hook = h }

// Config returns the resolved configuration.
func (e *Engine) Config() Config { return e.cfg }

// Start launches the two self-ticking loops: the event drain at
// DrainInterval and the pitch modulation loop at ModulationInterval.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.New("engine is closed")
	}
	if e.running {
		return errors.New("engine is already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.running = true
	e.startedAt = time.Now()

	e.wg.Add(2)
	go e.loop(ctx, e.cfg.DrainInterval, e.drainTick)
	go e.loop(ctx, e.cfg.ModulationInterval, e.modulationTick)

	return nil
}

// Run starts the self-ticking loops and blocks until ctx is canceled, then
// stops them. Convenience for hosts that manage the engine with a context.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return e.Stop()
}

// Stop halts the self-ticking loops. The queue worker keeps running, so
// host-driven ticks and snapshots stay available. Safe to call when stopped.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.cancel()
	e.running = false
	e.mu.Unlock()

	e.wg.Wait()
	return nil
}

// IsRunning reports whether the self-ticking loops are active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Close stops the loops and shuts down the queue worker. The engine cannot
// be restarted afterwards. Spawned playback instances are not destroyed;
// their lifetime belongs to the host.
func (e *Engine) Close() error {
	if err := e.Stop(); err != nil {
		return err
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.q.Close()
	return nil
}

// DrainOnce runs one event drain tick synchronously, for hosts that drive
// the engine from their own scheduler instead of Start.
func (e *Engine) DrainOnce() error {
	return e.q.RunSync(e.drainTick)
}

// ModulateOnce runs one pitch modulation tick synchronously.
func (e *Engine) ModulateOnce() error {
	return e.q.RunSync(e.modulationTick)
}

// AllNotesOff releases every live voice through the normal note-off path,
// trimming held instances to their played duration.
func (e *Engine) AllNotesOff() error {
	return e.q.RunSync(func(ctx context.Context) error {
		notes := make([]uint8, 0, len(e.voices.byNote))
		for note := range e.voices.byNote {
			notes = append(notes, note)
		}
		for _, note := range notes {
			e.noteOff(note)
		}
		return nil
	})
}

// loop enqueues fn on every tick until ctx is canceled.
func (e *Engine) loop(ctx context.Context, every time.Duration, fn func(context.Context) error) {
	defer e.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.q.Enqueue(queue.Func(fn)); err != nil {
				return
			}
		}
	}
}

// bend returns the current pitch bend value in semitones.
func (e *Engine) bend() float64 {
	return math.Float64frombits(e.bendBits.Load())
}
