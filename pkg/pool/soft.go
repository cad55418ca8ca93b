package pool

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/objectpool/pkg/queue"
	"github.com/ajitpratap0/objectpool/pkg/reclaim"
)

// SoftPool is a non-blocking pool whose idle objects may be reclaimed under
// memory pressure. Each stored object is wrapped in a reclaim.Ref bound to
// the pool's Reclaimer; a reclaimed entry is skipped and replaced with a new
// object.
type SoftPool[T any] struct {
	base
	obj       PoolObject[T]
	q         queue.Queue[*reclaim.Ref[T]]
	reclaimer *reclaim.Reclaimer
}

var _ Pool[int] = (*SoftPool[int])(nil)

func newSoftPool[T any](obj PoolObject[T], q queue.Queue[*reclaim.Ref[T]], opts []Option) *SoftPool[T] {
	b, o := newBase("soft", opts)
	r := o.reclaimer
	if r == nil {
		r = reclaim.NewReclaimer()
	}
	return &SoftPool[T]{base: b, obj: obj, q: q, reclaimer: r}
}

// Take never blocks, so ctx is not consulted.
func (p *SoftPool[T]) Take(ctx context.Context) T {
	obj, _ := p.TakeInterruptibly(ctx)
	return obj
}

// TakeInterruptibly polls storage once. If that entry was reclaimed or
// storage is empty, a new object is built.
func (p *SoftPool[T]) TakeInterruptibly(context.Context) (T, error) {
	var obj T
	found := false

	if ref, ok := p.q.Poll(); ok {
		obj, found = ref.Get()
		if !found {
			p.obs.OnReclaimed(p.name)
		}
	}
	if !found {
		p.obs.OnMiss(p.name)
		obj = p.NewInstance()
	}

	p.obj.OnTake(obj)
	p.obs.OnTake(p.name)
	return obj, nil
}

// Put stores obj behind a reclaimable reference.
func (p *SoftPool[T]) Put(obj T) {
	p.obj.OnReturn(obj)
	if !p.q.Offer(reclaim.NewRef(obj, p.reclaimer)) {
		p.log.Warn("queue rejected returned object, dropping it", zap.Int("stored", p.q.Len()))
		p.obs.OnDiscard(p.name)
		return
	}
	p.obs.OnPut(p.name)
}

// NewInstance builds an object outside the pool.
func (p *SoftPool[T]) NewInstance() T {
	obj := p.obj.NewInstance()
	p.obs.OnCreate(p.name)
	return obj
}

// Close discards the stored entries. The pool stays usable.
func (p *SoftPool[T]) Close() {
	p.q.Clear()
}

// Len counts stored entries, including ones already reclaimed but not yet
// polled.
func (p *SoftPool[T]) Len() int {
	return p.q.Len()
}

// Reclaimer returns the Reclaimer the pool's entries are bound to.
func (p *SoftPool[T]) Reclaimer() *reclaim.Reclaimer {
	return p.reclaimer
}
