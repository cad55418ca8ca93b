package pool

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/objectpool/pkg/queue"
)

// BlockingPool is a fixed-size pool. Take parks the caller until an object
// is put back; Put parks while the pool is full.
type BlockingPool[T any] struct {
	base
	obj PoolObject[T]
	q   queue.BlockingQueue[T]
}

var _ Pool[int] = (*BlockingPool[int])(nil)

func newBlockingPool[T any](obj PoolObject[T], q queue.BlockingQueue[T], size int, opts []Option) *BlockingPool[T] {
	b, _ := newBase("blocking", opts)
	p := &BlockingPool[T]{base: b, obj: obj, q: q}

	for i := 0; i < size; i++ {
		e := p.NewInstance()
		obj.OnReturn(e)
		if !q.Offer(e) {
			p.log.Warn("queue smaller than pool size, stopped filling",
				zap.Int("size", size), zap.Int("filled", i))
			break
		}
	}

	p.log.Info("pool created", zap.Int("size", size), zap.Int("stored", q.Len()))
	return p
}

// Take waits for an object. A cancelled wait yields a new object.
func (p *BlockingPool[T]) Take(ctx context.Context) T {
	obj, err := p.TakeInterruptibly(ctx)
	if err != nil {
		p.log.Debug("take interrupted, handing out a new instance", zap.Error(err))
		p.obs.OnDegrade(p.name)
		p.obs.OnMiss(p.name)

		obj = p.NewInstance()
		p.obj.OnTake(obj)
		p.obs.OnTake(p.name)
	}
	return obj
}

// TakeInterruptibly waits for an object and fails once ctx is done.
func (p *BlockingPool[T]) TakeInterruptibly(ctx context.Context) (T, error) {
	obj, err := p.q.Take(ctx)
	if err != nil {
		return obj, err
	}
	p.obj.OnTake(obj)
	p.obs.OnTake(p.name)
	return obj, nil
}

// Put waits for room and stores obj.
func (p *BlockingPool[T]) Put(obj T) {
	p.obj.OnReturn(obj)
	if err := p.q.Put(context.Background(), obj); err != nil {
		p.log.Warn("put failed, object dropped", zap.Error(err))
		p.obs.OnDiscard(p.name)
		return
	}
	p.obs.OnPut(p.name)
}

// NewInstance builds an object outside the pool.
func (p *BlockingPool[T]) NewInstance() T {
	obj := p.obj.NewInstance()
	p.obs.OnCreate(p.name)
	return obj
}

// Close discards the stored objects. The pool stays usable afterwards,
// but Take waits until objects are put back.
func (p *BlockingPool[T]) Close() {
	p.q.Clear()
	p.log.Info("pool closed")
}

// Len returns the number of stored objects.
func (p *BlockingPool[T]) Len() int {
	return p.q.Len()
}
