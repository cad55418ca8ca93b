package queue

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"

	poolerrors "github.com/ajitpratap0/objectpool/pkg/errors"
)

// Ring is a bounded blocking queue built on an MPMC ring. Two weighted
// semaphores count filled and free slots; their waiters are served in FIFO
// order, so blocked takers are woken in the order they arrived.
type Ring[T any] struct {
	buf      *MPMC[T]
	items    *semaphore.Weighted
	spaces   *semaphore.Weighted
	capacity int
}

var _ BlockingQueue[int] = (*Ring[int])(nil)

// NewRing creates an empty blocking queue holding exactly capacity items.
// A capacity below 1 is treated as 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	r := &Ring[T]{
		buf:      NewMPMC[T](capacity),
		items:    semaphore.NewWeighted(int64(capacity)),
		spaces:   semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
	// start with no filled slots
	if !r.items.TryAcquire(int64(capacity)) {
		panic("queue: fresh semaphore refused acquire")
	}
	return r
}

// Offer inserts item if a slot is free.
func (r *Ring[T]) Offer(item T) bool {
	if !r.spaces.TryAcquire(1) {
		return false
	}
	r.push(item)
	return true
}

// Poll removes the head item if one is available.
func (r *Ring[T]) Poll() (item T, ok bool) {
	if !r.items.TryAcquire(1) {
		return item, false
	}
	return r.pop(), true
}

// Put inserts item, waiting for a free slot.
func (r *Ring[T]) Put(ctx context.Context, item T) error {
	if err := r.spaces.Acquire(ctx, 1); err != nil {
		return poolerrors.Cancelled("put", err)
	}
	r.push(item)
	return nil
}

// Take removes the head item, waiting until one is available.
func (r *Ring[T]) Take(ctx context.Context) (T, error) {
	if err := r.items.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, poolerrors.Cancelled("take", err)
	}
	return r.pop(), nil
}

// Len returns the approximate number of stored items.
func (r *Ring[T]) Len() int {
	return r.buf.Len()
}

// Cap returns the capacity given to NewRing.
func (r *Ring[T]) Cap() int {
	return r.capacity
}

// Clear removes all currently available items.
func (r *Ring[T]) Clear() {
	for {
		if _, ok := r.Poll(); !ok {
			return
		}
	}
}

// push stores item after a space permit was acquired. The ring can look
// full for a moment while a consumer finishes releasing its slot.
func (r *Ring[T]) push(item T) {
	for !r.buf.Offer(item) {
		runtime.Gosched()
	}
	r.items.Release(1)
}

// pop removes an item after an item permit was acquired. The ring can look
// empty for a moment while a producer finishes publishing its slot.
func (r *Ring[T]) pop() T {
	for {
		if item, ok := r.buf.Poll(); ok {
			r.spaces.Release(1)
			return item
		}
		runtime.Gosched()
	}
}
