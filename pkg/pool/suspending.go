package pool

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/objectpool/pkg/queue"
)

// SuspendingChannelPool is a SuspendingPool over a closable bounded queue.
// Take and Put wait on ctx; PutBlocking never waits and drops the object
// when the queue is full.
type SuspendingChannelPool[T any] struct {
	base
	obj SuspendingPoolObject[T]
	q   queue.SuspendingQueue[T]
}

var _ SuspendingPool[int] = (*SuspendingChannelPool[int])(nil)

func newSuspendingPool[T any](obj SuspendingPoolObject[T], size int, q queue.SuspendingQueue[T], fill bool, opts []Option) *SuspendingChannelPool[T] {
	b, _ := newBase("suspending", opts)
	p := &SuspendingChannelPool[T]{base: b, obj: obj, q: q}

	if fill {
		ctx := context.Background()
		for i := 0; i < size; i++ {
			e := p.NewInstance(ctx)
			obj.OnReturn(ctx, e)
			if !q.Offer(e) {
				p.log.Warn("queue smaller than pool size, stopped filling",
					zap.Int("size", size), zap.Int("filled", i))
				break
			}
		}
	}

	p.log.Info("pool created", zap.Int("size", size), zap.Bool("filled", fill))
	return p
}

// Take waits for an object until ctx is done or the pool is closed.
func (p *SuspendingChannelPool[T]) Take(ctx context.Context) (T, error) {
	return p.TakeInterruptibly(ctx)
}

// TakeInterruptibly behaves like Take.
func (p *SuspendingChannelPool[T]) TakeInterruptibly(ctx context.Context) (T, error) {
	obj, err := p.q.Take(ctx)
	if err != nil {
		return obj, err
	}
	p.obj.OnTake(ctx, obj)
	p.obs.OnTake(p.name)
	return obj, nil
}

// Put waits for room until ctx is done or the pool is closed. A failed
// Put drops obj.
func (p *SuspendingChannelPool[T]) Put(ctx context.Context, obj T) error {
	p.obj.OnReturn(ctx, obj)
	if err := p.q.Put(ctx, obj); err != nil {
		p.obs.OnDiscard(p.name)
		return err
	}
	p.obs.OnPut(p.name)
	return nil
}

// PutBlocking stores obj if there is room and drops it otherwise.
func (p *SuspendingChannelPool[T]) PutBlocking(obj T) {
	p.obj.OnReturnBlocking(obj)
	if err := p.q.Add(obj); err != nil {
		p.log.Debug("blocking put dropped object", zap.Error(err))
		p.obs.OnDiscard(p.name)
		return
	}
	p.obs.OnPut(p.name)
}

// NewInstance builds an object outside the pool.
func (p *SuspendingChannelPool[T]) NewInstance(ctx context.Context) T {
	obj := p.obj.NewInstance(ctx)
	p.obs.OnCreate(p.name)
	return obj
}

// Close closes the queue, waking pending Take and Put calls. It is
// idempotent.
func (p *SuspendingChannelPool[T]) Close() {
	if p.q.Closed() {
		return
	}
	p.q.Close()
	p.log.Info("pool closed")
}

// Len returns the number of stored objects.
func (p *SuspendingChannelPool[T]) Len() int {
	return p.q.Len()
}
