package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Op is one unit of engine work. Ops run on a single worker goroutine, so
// they may touch the engine's mutable tables without locking. They should be
// quick and non-blocking; slow preparation belongs outside the op. The
// context is canceled on shutdown.
// An error is returned only for unrecoverable failures; idempotent no-ops
// should return nil.
type Op interface {
	Apply(ctx context.Context) error
}

// Func adapts a plain function into an Op.
type Func func(ctx context.Context) error

func (f Func) Apply(ctx context.Context) error { return f(ctx) }

// Queue serializes engine state mutations onto a single goroutine. The event
// drain and the pitch modulation loop both submit their tick bodies here,
// which is what makes the voice table and sequence cursor single-writer.
// Use Enqueue for fire-and-forget work and RunSync when the caller needs the
// result.
type Queue struct {
	ch      chan Op
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// New creates a queue with a fixed buffer.
func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{ch: make(chan Op, buffer), ctx: ctx, cancel: cancel}
}

// Start begins the worker goroutine. Safe to call multiple times.
func (q *Queue) Start() {
	if q.started {
		return
	}
	q.started = true
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ctx.Done():
				// drain outstanding ops best-effort with short deadline
				drainUntil := time.After(10 * time.Millisecond)
				for {
					select {
					case op := <-q.ch:
						_ = op.Apply(q.ctx)
					case <-drainUntil:
						return
					default:
						return
					}
				}
			case op := <-q.ch:
				if op == nil {
					continue
				}
				_ = op.Apply(q.ctx)
			}
		}
	}()
}

// Enqueue adds an operation to the queue.
func (q *Queue) Enqueue(op Op) error {
	if q == nil || q.ch == nil {
		return errors.New("queue not initialized")
	}
	select {
	case q.ch <- op:
		return nil
	case <-q.ctx.Done():
		return errors.New("queue closed")
	}
}

// RunSync enqueues an operation and waits for it to complete, returning its
// error. Useful for host-driven ticks and state snapshots that must observe
// a consistent table.
func (q *Queue) RunSync(fn Func) error {
	done := make(chan error, 1)
	if err := q.Enqueue(Func(func(ctx context.Context) error {
		err := fn(ctx)
		// Non-blocking send in case caller gave up
		select {
		case done <- err:
		default:
		}
		return err
	})); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-q.ctx.Done():
		return context.Canceled
	}
}

// Close stops the worker and waits for it to finish.
func (q *Queue) Close() {
	if q == nil {
		return
	}
	q.cancel()
	q.wg.Wait()
}
