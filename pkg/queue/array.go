package queue

import (
	"context"

	poolerrors "github.com/ajitpratap0/objectpool/pkg/errors"
)

// Array is a bounded blocking queue over a buffered channel.
type Array[T any] struct {
	ch chan T
}

var _ BlockingQueue[int] = (*Array[int])(nil)

// NewArray creates an empty blocking queue with the given capacity.
func NewArray[T any](capacity int) *Array[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Array[T]{ch: make(chan T, capacity)}
}

// Offer inserts item if there is room.
func (a *Array[T]) Offer(item T) bool {
	select {
	case a.ch <- item:
		return true
	default:
		return false
	}
}

// Poll removes the head if there is one.
func (a *Array[T]) Poll() (item T, ok bool) {
	select {
	case item = <-a.ch:
		return item, true
	default:
		return item, false
	}
}

// Put waits for room until ctx is done.
func (a *Array[T]) Put(ctx context.Context, item T) error {
	select {
	case a.ch <- item:
		return nil
	case <-ctx.Done():
		return poolerrors.Cancelled("put", ctx.Err())
	}
}

// Take waits for an item until ctx is done.
func (a *Array[T]) Take(ctx context.Context) (T, error) {
	select {
	case item := <-a.ch:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, poolerrors.Cancelled("take", ctx.Err())
	}
}

// Len returns the number of stored items.
func (a *Array[T]) Len() int {
	return len(a.ch)
}

// Cap returns the queue capacity.
func (a *Array[T]) Cap() int {
	return cap(a.ch)
}

// Clear drains the channel.
func (a *Array[T]) Clear() {
drainLoop:
	for len(a.ch) > 0 {
		select {
		case <-a.ch:
		default:
			break drainLoop
		}
	}
}
