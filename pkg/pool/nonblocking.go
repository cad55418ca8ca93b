package pool

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/objectpool/pkg/queue"
)

// NonBlockingPool never waits: an empty pool builds a new object on Take.
// With an unbounded queue it grows to the peak number of objects in use.
type NonBlockingPool[T any] struct {
	base
	obj PoolObject[T]
	q   queue.Queue[T]
}

var _ Pool[int] = (*NonBlockingPool[int])(nil)

func newNonBlockingPool[T any](obj PoolObject[T], q queue.Queue[T], opts []Option) *NonBlockingPool[T] {
	b, _ := newBase("non_blocking", opts)
	return &NonBlockingPool[T]{base: b, obj: obj, q: q}
}

// Take never blocks, so ctx is not consulted.
func (p *NonBlockingPool[T]) Take(ctx context.Context) T {
	obj, _ := p.TakeInterruptibly(ctx)
	return obj
}

// TakeInterruptibly polls storage and builds an object when it is empty.
// It never fails.
func (p *NonBlockingPool[T]) TakeInterruptibly(context.Context) (T, error) {
	obj, ok := p.q.Poll()
	if !ok {
		p.obs.OnMiss(p.name)
		obj = p.NewInstance()
	}
	p.obj.OnTake(obj)
	p.obs.OnTake(p.name)
	return obj, nil
}

// Put stores obj. A bounded queue that rejects it is a misconfiguration;
// the object is logged and dropped.
func (p *NonBlockingPool[T]) Put(obj T) {
	p.obj.OnReturn(obj)
	if !p.q.Offer(obj) {
		p.log.Warn("queue rejected returned object, dropping it", zap.Int("stored", p.q.Len()))
		p.obs.OnDiscard(p.name)
		return
	}
	p.obs.OnPut(p.name)
}

// NewInstance builds an object outside the pool.
func (p *NonBlockingPool[T]) NewInstance() T {
	obj := p.obj.NewInstance()
	p.obs.OnCreate(p.name)
	return obj
}

// Close discards the stored objects. The pool stays usable.
func (p *NonBlockingPool[T]) Close() {
	p.q.Clear()
}

// Len returns the number of stored objects.
func (p *NonBlockingPool[T]) Len() int {
	return p.q.Len()
}
