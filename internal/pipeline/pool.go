package pipeline

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("worker pool is closed")

// Pool bounds concurrent custom-processor executions with a fixed
// number of worker slots. A slot is held for the full lifetime of a
// task, including tasks the pipeline has already abandoned; script
// processors observe their context and free the slot promptly, while
// a truly stuck native task keeps only its own slot occupied.
type Pool struct {
	slots chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewPool creates a pool with the given number of slots.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 2
	}
	return &Pool{
		slots: make(chan struct{}, size),
		done:  make(chan struct{}),
	}
}

// Submit acquires a slot and runs task on its own goroutine. It blocks
// until a slot frees, the context expires, or the pool closes.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrPoolClosed
	}

	go func() {
		defer func() { <-p.slots }()
		task()
	}()
	return nil
}

// Close rejects further submissions. Running tasks finish on their own.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.done) })
}
