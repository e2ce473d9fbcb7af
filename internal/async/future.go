// Package async runs blocking calls on a shared bounded worker pool and hands
// callers a Future they can await or abandon.
package async

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Future is the pending result of a call submitted to a Pool.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Await blocks until the result is ready or ctx ends. Abandoning a future
// never cancels the underlying call.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Pool bounds the number of calls in flight across all callers.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool running at most size calls at once.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Submit schedules fn and returns immediately. Waiting for a free worker
// happens on the spawned goroutine, never on the caller's.
func Submit[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			var zero T
			f.complete(zero, err)
			return
		}
		defer p.sem.Release(1)

		value, err := fn(ctx)
		f.complete(value, err)
	}()

	return f
}
