package pool

import (
	"context"

	"go.uber.org/zap"

	poolerrors "github.com/ajitpratap0/objectpool/pkg/errors"
	"github.com/ajitpratap0/objectpool/pkg/queue"
)

// BlockingCollectionPool hands out a fixed set of objects. It never builds
// objects and runs no hooks. NewInstance, and Take after a cancelled wait,
// return the sentinel: the first element of the original collection.
type BlockingCollectionPool[T any] struct {
	base
	q        queue.BlockingQueue[T]
	sentinel T
}

var _ Pool[int] = (*BlockingCollectionPool[int])(nil)

func newBlockingCollectionPool[T any](q queue.BlockingQueue[T], items []T, opts []Option) (*BlockingCollectionPool[T], error) {
	if len(items) == 0 {
		return nil, poolerrors.New(poolerrors.ErrorTypeValidation, "collection pool needs at least one element")
	}
	b, _ := newBase("blocking_collection", opts)
	p := &BlockingCollectionPool[T]{base: b, q: q, sentinel: items[0]}

	if n := fill[T](q, items); n < len(items) {
		p.log.Warn("queue smaller than collection, extra elements left out",
			zap.Int("elements", len(items)), zap.Int("stored", n))
	}
	return p, nil
}

// Take waits for an element. A cancelled wait yields the sentinel.
func (p *BlockingCollectionPool[T]) Take(ctx context.Context) T {
	obj, err := p.TakeInterruptibly(ctx)
	if err != nil {
		p.log.Debug("take interrupted, handing out sentinel", zap.Error(err))
		p.obs.OnDegrade(p.name)
		return p.sentinel
	}
	return obj
}

// TakeInterruptibly waits for an element and fails once ctx is done.
func (p *BlockingCollectionPool[T]) TakeInterruptibly(ctx context.Context) (T, error) {
	obj, err := p.q.Take(ctx)
	if err != nil {
		return obj, err
	}
	p.obs.OnTake(p.name)
	return obj, nil
}

// Put waits for room and stores obj.
func (p *BlockingCollectionPool[T]) Put(obj T) {
	if err := p.q.Put(context.Background(), obj); err != nil {
		p.obs.OnDiscard(p.name)
		return
	}
	p.obs.OnPut(p.name)
}

// NewInstance returns the sentinel.
func (p *BlockingCollectionPool[T]) NewInstance() T {
	return p.sentinel
}

// Close discards the stored elements. The pool stays usable.
func (p *BlockingCollectionPool[T]) Close() {
	p.q.Clear()
}

// Len returns the number of stored elements.
func (p *BlockingCollectionPool[T]) Len() int {
	return p.q.Len()
}

// SuspendingCollectionPool is the SuspendingPool counterpart of
// BlockingCollectionPool. A cancelled Take returns the sentinel; a closed
// pool still reports ErrClosed.
type SuspendingCollectionPool[T any] struct {
	base
	q        queue.SuspendingQueue[T]
	sentinel T
}

var _ SuspendingPool[int] = (*SuspendingCollectionPool[int])(nil)

func newSuspendingCollectionPool[T any](q queue.SuspendingQueue[T], items []T, opts []Option) (*SuspendingCollectionPool[T], error) {
	if len(items) == 0 {
		return nil, poolerrors.New(poolerrors.ErrorTypeValidation, "collection pool needs at least one element")
	}
	b, _ := newBase("suspending_collection", opts)
	p := &SuspendingCollectionPool[T]{base: b, q: q, sentinel: items[0]}

	if n := fill[T](q, items); n < len(items) {
		p.log.Warn("queue smaller than collection, extra elements left out",
			zap.Int("elements", len(items)), zap.Int("stored", n))
	}
	return p, nil
}

// Take waits for an element. A cancelled wait yields the sentinel; a
// closed pool fails with ErrClosed.
func (p *SuspendingCollectionPool[T]) Take(ctx context.Context) (T, error) {
	obj, err := p.TakeInterruptibly(ctx)
	if poolerrors.IsCancelled(err) {
		p.log.Debug("take interrupted, handing out sentinel", zap.Error(err))
		p.obs.OnDegrade(p.name)
		return p.sentinel, nil
	}
	return obj, err
}

// TakeInterruptibly waits for an element and reports cancellation as an
// error.
func (p *SuspendingCollectionPool[T]) TakeInterruptibly(ctx context.Context) (T, error) {
	obj, err := p.q.Take(ctx)
	if err != nil {
		return obj, err
	}
	p.obs.OnTake(p.name)
	return obj, nil
}

// Put waits for room until ctx is done or the pool is closed.
func (p *SuspendingCollectionPool[T]) Put(ctx context.Context, obj T) error {
	if err := p.q.Put(ctx, obj); err != nil {
		p.obs.OnDiscard(p.name)
		return err
	}
	p.obs.OnPut(p.name)
	return nil
}

// PutBlocking stores obj if there is room and drops it otherwise.
func (p *SuspendingCollectionPool[T]) PutBlocking(obj T) {
	if err := p.q.Add(obj); err != nil {
		p.log.Debug("blocking put dropped object", zap.Error(err))
		p.obs.OnDiscard(p.name)
		return
	}
	p.obs.OnPut(p.name)
}

// NewInstance returns the sentinel.
func (p *SuspendingCollectionPool[T]) NewInstance(context.Context) T {
	return p.sentinel
}

// Close closes the queue, waking pending Take and Put calls.
func (p *SuspendingCollectionPool[T]) Close() {
	p.q.Close()
}

// Len returns the number of stored elements.
func (p *SuspendingCollectionPool[T]) Len() int {
	return p.q.Len()
}

// fill offers items in order and returns how many were stored.
func fill[T any](q queue.Queue[T], items []T) int {
	for i, item := range items {
		if !q.Offer(item) {
			return i
		}
	}
	return len(items)
}
