// Package queue provides the backing stores used by objectpool.
//
// Stores come in three capability tiers:
//
//   - Queue: non-blocking Offer/Poll. Offer may reject an item when a
//     bounded implementation is full; Poll reports emptiness with ok=false.
//   - BlockingQueue: adds Put/Take that wait for space or an item until the
//     context is cancelled.
//   - SuspendingQueue: the channel-backed tier used by suspending pools. It
//     adds Add/Remove with explicit capacity and emptiness errors, and Close,
//     after which every operation fails with ErrClosed.
//
// Implementations:
//
//	Linked   unbounded FIFO (eapache/queue ring under a mutex)
//	MPMC     bounded lock-free multi-producer multi-consumer ring
//	Ring     bounded blocking queue, MPMC ring plus FIFO semaphores
//	Array    bounded blocking queue over a buffered channel
//	Channel  bounded suspending queue over a buffered channel, closable
//
// All implementations are safe for concurrent use.
package queue

import "context"

// Queue is a FIFO store with non-blocking operations.
type Queue[T any] interface {
	// Offer inserts item if possible without waiting and reports success.
	Offer(item T) bool
	// Poll removes and returns the head, or ok=false if the queue is empty.
	Poll() (item T, ok bool)
	// Len returns the number of stored items. It may be stale under
	// concurrent use.
	Len() int
	// Clear removes all stored items.
	Clear()
}

// BlockingQueue is a bounded Queue whose Put and Take wait for space or an
// item. Waits end early with an errors.ErrCancelled error when ctx is done.
type BlockingQueue[T any] interface {
	Queue[T]
	Put(ctx context.Context, item T) error
	Take(ctx context.Context) (T, error)
}

// SuspendingQueue is a closable bounded queue for suspending pools.
type SuspendingQueue[T any] interface {
	BlockingQueue[T]
	// Add inserts item without waiting. It fails with ErrFull when no space
	// is available and ErrClosed after Close.
	Add(item T) error
	// Remove removes the head without waiting. It fails with ErrEmpty when
	// the queue is empty and ErrClosed after Close.
	Remove() (T, error)
	// Close discards stored items and fails all pending and future
	// operations with ErrClosed. Calling Close more than once is safe.
	Close()
	// Closed reports whether Close has been called.
	Closed() bool
}

func roundPow2(n int) uint64 {
	size := uint64(1)
	for size < uint64(n) {
		size <<= 1
	}
	return size
}
