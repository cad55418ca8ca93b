package pool

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/objectpool/pkg/queue"
)

// BoundedPool is a non-blocking pool with admission control on Put.
//
// Every constructed object increments a counter. Put stores the object
// while the counter is at most maxSize; past that it decrements the counter
// and discards the object through OnRemoval. The counter is not decremented
// when an object is stored, so once more than maxSize objects have been
// built, returns keep being discarded until enough discards bring the
// counter back under the limit.
type BoundedPool[T any] struct {
	base
	obj     BoundedPoolObject[T]
	q       queue.Queue[T]
	maxSize int64
	count   atomic.Int64
}

var _ Pool[int] = (*BoundedPool[int])(nil)

func newBoundedPool[T any](obj BoundedPoolObject[T], maxSize int, q queue.Queue[T], opts []Option) *BoundedPool[T] {
	b, _ := newBase("bounded", opts)
	return &BoundedPool[T]{base: b, obj: obj, q: q, maxSize: int64(maxSize)}
}

// Take never blocks, so ctx is not consulted.
func (p *BoundedPool[T]) Take(ctx context.Context) T {
	obj, _ := p.TakeInterruptibly(ctx)
	return obj
}

// TakeInterruptibly polls storage and builds an object when it is empty.
// It never fails.
func (p *BoundedPool[T]) TakeInterruptibly(context.Context) (T, error) {
	obj, ok := p.q.Poll()
	if !ok {
		p.obs.OnMiss(p.name)
		obj = p.NewInstance()
	}
	p.obj.OnTake(obj)
	p.obs.OnTake(p.name)
	return obj, nil
}

// Put stores obj or discards it through OnRemoval once more than maxSize
// objects are live.
func (p *BoundedPool[T]) Put(obj T) {
	if p.count.Load() > p.maxSize {
		p.count.Add(-1)
		p.discard(obj)
		return
	}

	p.obj.OnReturn(obj)
	if !p.q.Offer(obj) {
		// Storage is full even though the counter allowed the return. The
		// counter is left alone; only the discard branch above moves it.
		p.log.Debug("queue full, discarding returned object", zap.Int("stored", p.q.Len()))
		p.discard(obj)
		return
	}
	p.obs.OnPut(p.name)
}

func (p *BoundedPool[T]) discard(obj T) {
	p.obj.OnRemoval(obj)
	p.obs.OnDiscard(p.name)
}

// NewInstance builds an object and counts it against maxSize.
func (p *BoundedPool[T]) NewInstance() T {
	p.count.Add(1)
	obj := p.obj.NewInstance()
	p.obs.OnCreate(p.name)
	return obj
}

// Close discards the stored objects without running OnRemoval. The
// admission counter is left as is and the pool stays usable.
func (p *BoundedPool[T]) Close() {
	p.q.Clear()
}

// Len returns the number of stored objects.
func (p *BoundedPool[T]) Len() int {
	return p.q.Len()
}

// Live returns the current value of the admission counter.
func (p *BoundedPool[T]) Live() int64 {
	return p.count.Load()
}
