package queue

import (
	"runtime"
	"sync/atomic"
)

// MPMC is a bounded lock-free multi-producer multi-consumer queue using
// per-slot sequence numbers for ordering and cache-line padding to avoid
// false sharing. Capacity is rounded up to the next power of 2.
type MPMC[T any] struct {
	buffer   []slot[T]
	capacity uint64
	mask     uint64

	// Separate enqueue and dequeue indices on different cache lines
	enqueuePos atomic.Uint64
	_padding1  [7]uint64 //nolint:unused

	dequeuePos atomic.Uint64
	_padding2  [7]uint64 //nolint:unused
}

// slot represents a queue slot with sequence number for ordering
type slot[T any] struct {
	sequence atomic.Uint64
	data     T
}

var _ Queue[int] = (*MPMC[int])(nil)

// NewMPMC creates a new queue holding at least capacity items.
func NewMPMC[T any](capacity int) *MPMC[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := roundPow2(capacity)

	q := &MPMC[T]{
		buffer:   make([]slot[T], size),
		capacity: size,
		mask:     size - 1,
	}

	// Initialize sequence numbers
	for i := uint64(0); i < size; i++ {
		q.buffer[i].sequence.Store(i)
	}

	return q
}

// Offer adds an item, returning false if the queue is full.
func (q *MPMC[T]) Offer(item T) bool {
	for {
		pos := q.enqueuePos.Load()
		s := &q.buffer[pos&q.mask]
		seq := s.sequence.Load()

		diff := int64(seq) - int64(pos)

		if diff == 0 {
			// Slot is ready for enqueue
			if q.enqueuePos.CompareAndSwap(pos, pos+1) {
				s.data = item
				s.sequence.Store(pos + 1)
				return true
			}
		} else if diff < 0 {
			// Queue is full
			return false
		}

		// Another producer moved the position, retry
		runtime.Gosched()
	}
}

// Poll removes the head item, returning ok=false if the queue is empty.
func (q *MPMC[T]) Poll() (item T, ok bool) {
	for {
		pos := q.dequeuePos.Load()
		s := &q.buffer[pos&q.mask]
		seq := s.sequence.Load()

		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			// Slot is ready for dequeue
			if q.dequeuePos.CompareAndSwap(pos, pos+1) {
				item = s.data
				var zero T
				s.data = zero // drop the reference so the GC can reclaim it
				s.sequence.Store(pos + q.capacity)
				return item, true
			}
		} else if diff < 0 {
			// Queue is empty
			return item, false
		}

		runtime.Gosched()
	}
}

// Len returns the approximate number of stored items.
func (q *MPMC[T]) Len() int {
	n := int64(q.enqueuePos.Load()) - int64(q.dequeuePos.Load())
	if n < 0 {
		return 0
	}
	return int(n)
}

// Cap returns the rounded capacity.
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}

// Clear polls until the queue reports empty.
func (q *MPMC[T]) Clear() {
	for {
		if _, ok := q.Poll(); !ok {
			return
		}
	}
}
