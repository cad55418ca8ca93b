package queue

import (
	"context"
	"sync"

	poolerrors "github.com/ajitpratap0/objectpool/pkg/errors"
)

// Channel is a bounded, closable queue over a buffered channel. The data
// channel itself is never closed; a separate done channel signals Close so
// that a late send can never panic.
type Channel[T any] struct {
	ch        chan T
	done      chan struct{}
	closeOnce sync.Once
}

var _ SuspendingQueue[int] = (*Channel[int])(nil)

// NewChannel creates an open queue with the given capacity.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Channel[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
	}
}

// Closed reports whether Close has been called.
func (c *Channel[T]) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// sent reports whether a send that just succeeded still counts. A send that
// raced with Close leaves its item behind, so it is drained and reported as
// failed.
func (c *Channel[T]) sent() bool {
	if c.Closed() {
		c.Clear()
		return false
	}
	return true
}

// Offer inserts item without waiting. It returns false when the queue is
// full or closed; use Add to tell the two apart.
func (c *Channel[T]) Offer(item T) bool {
	if c.Closed() {
		return false
	}
	select {
	case c.ch <- item:
		return c.sent()
	default:
		return false
	}
}

// Add inserts item without waiting. It fails with ErrFull or ErrClosed.
func (c *Channel[T]) Add(item T) error {
	if c.Closed() {
		return poolerrors.Closed("add")
	}
	select {
	case c.ch <- item:
		if !c.sent() {
			return poolerrors.Closed("add")
		}
		return nil
	default:
		return poolerrors.New(poolerrors.ErrorTypeCapacity, "channel is full").
			WithDetail("capacity", cap(c.ch))
	}
}

// Poll removes the head without waiting. It returns ok=false when the queue
// is empty or closed.
func (c *Channel[T]) Poll() (item T, ok bool) {
	if c.Closed() {
		return item, false
	}
	select {
	case item = <-c.ch:
		return item, true
	default:
		return item, false
	}
}

// Remove removes the head without waiting. It fails with ErrEmpty or
// ErrClosed.
func (c *Channel[T]) Remove() (T, error) {
	var zero T
	if c.Closed() {
		return zero, poolerrors.Closed("remove")
	}
	select {
	case item := <-c.ch:
		return item, nil
	default:
		return zero, poolerrors.New(poolerrors.ErrorTypeEmpty, "channel is empty")
	}
}

// Put inserts item, suspending until space is available, the queue is
// closed or ctx is done.
func (c *Channel[T]) Put(ctx context.Context, item T) error {
	if c.Closed() {
		return poolerrors.Closed("put")
	}
	select {
	case c.ch <- item:
		if !c.sent() {
			return poolerrors.Closed("put")
		}
		return nil
	case <-c.done:
		return poolerrors.Closed("put")
	case <-ctx.Done():
		return poolerrors.Cancelled("put", ctx.Err())
	}
}

// Take removes the head item, suspending until one is available, the queue
// is closed or ctx is done.
func (c *Channel[T]) Take(ctx context.Context) (T, error) {
	var zero T
	if c.Closed() {
		return zero, poolerrors.Closed("take")
	}
	select {
	case item := <-c.ch:
		return item, nil
	case <-c.done:
		return zero, poolerrors.Closed("take")
	case <-ctx.Done():
		return zero, poolerrors.Cancelled("take", ctx.Err())
	}
}

// Len returns the number of stored items.
func (c *Channel[T]) Len() int {
	return len(c.ch)
}

// Cap returns the queue capacity.
func (c *Channel[T]) Cap() int {
	return cap(c.ch)
}

// Clear drops the stored items.
func (c *Channel[T]) Clear() {
drainLoop:
	for len(c.ch) > 0 {
		select {
		case <-c.ch:
		default:
			break drainLoop
		}
	}
}

// Close discards stored items and fails pending and later operations
// with ErrClosed. It is idempotent.
func (c *Channel[T]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Clear()
	})
}
