package queue

import (
	"sync"

	"github.com/eapache/queue"
)

// Linked is an unbounded FIFO queue. Offer never fails.
type Linked[T any] struct {
	mu sync.Mutex
	q  *queue.Queue
}

var _ Queue[int] = (*Linked[int])(nil)

// NewLinked creates an empty unbounded queue.
func NewLinked[T any]() *Linked[T] {
	return &Linked[T]{q: queue.New()}
}

// Offer appends item. It always succeeds.
func (l *Linked[T]) Offer(item T) bool {
	l.mu.Lock()
	l.q.Add(item)
	l.mu.Unlock()
	return true
}

// Poll removes the head item, returning ok=false if the queue is empty.
func (l *Linked[T]) Poll() (item T, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.q.Length() == 0 {
		return item, false
	}
	v := l.q.Peek()
	l.q.Remove()

	// nil interface values come back as the zero T
	item, _ = v.(T)
	return item, true
}

// Len returns the number of stored items.
func (l *Linked[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q.Length()
}

// Clear drops all stored items.
func (l *Linked[T]) Clear() {
	l.mu.Lock()
	l.q = queue.New()
	l.mu.Unlock()
}
