package pool

import "context"

// Version is the release of the objectpool module.
const Version = "4.0.0"

// Pool is an object pool for callers that park the goroutine while waiting.
// Implementations are safe for concurrent use.
type Pool[T any] interface {
	// Take returns an object from the pool. If waiting is cancelled through
	// ctx, Take hands out a newly constructed object instead of failing.
	Take(ctx context.Context) T

	// TakeInterruptibly returns an object from the pool. If waiting is
	// cancelled through ctx, it returns an error matching errors.ErrCancelled
	// that wraps ctx.Err().
	TakeInterruptibly(ctx context.Context) (T, error)

	// Put returns an object to the pool. Blocking pools wait for space.
	Put(obj T)

	// NewInstance builds a new object without adding it to the pool.
	NewInstance() T

	// Close discards the stored objects. Objects currently taken are not
	// tracked and are unaffected. The pool stays usable: later Take calls
	// build or wait for objects and Put stores them again.
	Close()

	// Len returns the number of stored objects.
	Len() int
}

// SuspendingPool is an object pool whose waits are cancellation points for
// the calling task. Every wait ends with ctx or with Close.
type SuspendingPool[T any] interface {
	// Take waits for an object. Cancellation and Close are reported as
	// errors; no replacement object is built.
	Take(ctx context.Context) (T, error)

	// TakeInterruptibly behaves like Take.
	TakeInterruptibly(ctx context.Context) (T, error)

	// Put returns an object to the pool, waiting for space if needed.
	Put(ctx context.Context, obj T) error

	// PutBlocking returns an object without waiting. If there is no room
	// the object is dropped. It may be called from any goroutine.
	PutBlocking(obj T)

	// NewInstance builds a new object without adding it to the pool.
	NewInstance(ctx context.Context) T

	// Close closes the pool. Pending and later Take/Put calls fail with
	// errors.ErrClosed. Close is idempotent.
	Close()

	// Len returns the number of stored objects.
	Len() int
}

// Observer receives pool events. Calls are made synchronously on the
// goroutine performing the operation, so implementations must be fast and
// safe for concurrent use. The pool argument is the pool's name.
type Observer interface {
	// OnCreate is called for every object built by NewInstance.
	OnCreate(pool string)
	// OnTake is called for every object handed out.
	OnTake(pool string)
	// OnPut is called for every object given back.
	OnPut(pool string)
	// OnDiscard is called when an object is dropped instead of stored.
	OnDiscard(pool string)
	// OnReclaimed is called when a stored entry was found reclaimed.
	OnReclaimed(pool string)
	// OnDegrade is called when a cancelled take falls back to a new or
	// sentinel object.
	OnDegrade(pool string)
	// OnMiss is called when a take is not served from storage and hands
	// out a newly built object instead.
	OnMiss(pool string)
}

type nopObserver struct{}

func (nopObserver) OnCreate(string)    {}
func (nopObserver) OnTake(string)      {}
func (nopObserver) OnPut(string)       {}
func (nopObserver) OnDiscard(string)   {}
func (nopObserver) OnReclaimed(string) {}
func (nopObserver) OnDegrade(string)   {}
func (nopObserver) OnMiss(string)      {}
