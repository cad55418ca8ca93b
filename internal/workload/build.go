package workload

import (
	"context"
	"sync/atomic"

	"github.com/ajitpratap0/objectpool/pkg/config"
	poolerrors "github.com/ajitpratap0/objectpool/pkg/errors"
	"github.com/ajitpratap0/objectpool/pkg/pool"
	"github.com/ajitpratap0/objectpool/pkg/queue"
	"github.com/ajitpratap0/objectpool/pkg/reclaim"
)

// bufferSize is the payload size of each pooled Buffer.
const bufferSize = 4 << 10

// Buffer is the object pooled by workloads.
type Buffer struct {
	ID    int64
	Data  []byte
	Owner int
}

// bufferHooks builds Buffers with increasing ids and resets them on return.
type bufferHooks struct {
	next    atomic.Int64
	removed atomic.Int64
}

func (h *bufferHooks) NewInstance() *Buffer {
	return &Buffer{ID: h.next.Add(1), Data: make([]byte, 0, bufferSize)}
}

func (h *bufferHooks) OnTake(*Buffer) {}

func (h *bufferHooks) OnReturn(b *Buffer) {
	b.Data = b.Data[:0]
	b.Owner = 0
}

func (h *bufferHooks) OnRemoval(*Buffer) {
	h.removed.Add(1)
}

// suspendingHooks adapts bufferHooks to pool.SuspendingPoolObject.
type suspendingHooks struct{ *bufferHooks }

func (s suspendingHooks) NewInstance(context.Context) *Buffer  { return s.bufferHooks.NewInstance() }
func (s suspendingHooks) OnTake(context.Context, *Buffer)      {}
func (s suspendingHooks) OnReturn(_ context.Context, b *Buffer) { s.bufferHooks.OnReturn(b) }
func (s suspendingHooks) OnReturnBlocking(b *Buffer)            { s.bufferHooks.OnReturn(b) }

// target hides the difference between the two pool contracts.
type target interface {
	take(ctx context.Context) (*Buffer, error)
	put(ctx context.Context, b *Buffer) error
	len() int
	close()
}

type blockingTarget struct{ p pool.Pool[*Buffer] }

// take uses TakeInterruptibly so a cancelled wait does not hand out an
// extra object that a full blocking pool could not take back.
func (t blockingTarget) take(ctx context.Context) (*Buffer, error) { return t.p.TakeInterruptibly(ctx) }
func (t blockingTarget) put(_ context.Context, b *Buffer) error    { t.p.Put(b); return nil }
func (t blockingTarget) len() int                                  { return t.p.Len() }
func (t blockingTarget) close()                                    { t.p.Close() }

type suspendingTarget struct{ p pool.SuspendingPool[*Buffer] }

func (t suspendingTarget) take(ctx context.Context) (*Buffer, error)  { return t.p.Take(ctx) }
func (t suspendingTarget) put(ctx context.Context, b *Buffer) error   { return t.p.Put(ctx, b) }
func (t suspendingTarget) len() int                                   { return t.p.Len() }
func (t suspendingTarget) close()                                     { t.p.Close() }

// built is a pool assembled from a PoolConfig.
type built struct {
	target    target
	hooks     *bufferHooks
	reclaimer *reclaim.Reclaimer
}

// build creates the pool described by cfg. cfg must be valid.
func build(cfg config.PoolConfig, opts ...pool.Option) (*built, error) {
	hooks := &bufferHooks{}
	b := &built{hooks: hooks}
	capacity := max(cfg.Size, cfg.MaxSize, 1)

	switch cfg.Kind {
	case config.KindBlocking:
		var q queue.BlockingQueue[*Buffer]
		switch cfg.QueueType() {
		case config.QueueArray:
			q = queue.NewArray[*Buffer](cfg.Size)
		default:
			q = queue.NewRing[*Buffer](cfg.Size)
		}
		b.target = blockingTarget{pool.BlockingWithQueue[*Buffer](hooks, q, cfg.Size, opts...)}

	case config.KindNonBlocking:
		q := plainQueue[*Buffer](cfg.QueueType(), capacity)
		b.target = blockingTarget{pool.NonBlockingWithQueue[*Buffer](hooks, q, opts...)}

	case config.KindBounded:
		q := plainQueue[*Buffer](cfg.QueueType(), cfg.MaxSize)
		b.target = blockingTarget{pool.NonBlockingBoundedWithQueue[*Buffer](hooks, cfg.MaxSize, q, opts...)}

	case config.KindSoft:
		b.reclaimer = reclaim.NewReclaimer()
		q := plainQueue[*reclaim.Ref[*Buffer]](cfg.QueueType(), capacity)
		opts = append(opts, pool.WithReclaimer(b.reclaimer))
		b.target = blockingTarget{pool.NonBlockingSoftReferenceWithQueue[*Buffer](hooks, q, opts...)}

	case config.KindSuspending:
		q := queue.NewChannel[*Buffer](cfg.Size)
		b.target = suspendingTarget{pool.SuspendingWithQueue[*Buffer](suspendingHooks{hooks}, cfg.Size, q, cfg.FillPool, opts...)}

	default:
		return nil, poolerrors.New(poolerrors.ErrorTypeConfig, "unknown pool kind").
			WithDetail("kind", string(cfg.Kind))
	}
	return b, nil
}

func plainQueue[T any](t config.QueueType, capacity int) queue.Queue[T] {
	switch t {
	case config.QueueMPMC:
		return queue.NewMPMC[T](capacity)
	case config.QueueRing:
		return queue.NewRing[T](capacity)
	case config.QueueArray:
		return queue.NewArray[T](capacity)
	default:
		return queue.NewLinked[T]()
	}
}
