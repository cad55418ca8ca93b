package pool

import (
	"github.com/ajitpratap0/objectpool/pkg/queue"
	"github.com/ajitpratap0/objectpool/pkg/reclaim"
)

// Blocking creates a fixed-size pool pre-filled with size objects. Take
// waits when all objects are in use.
func Blocking[T any](obj PoolObject[T], size int, opts ...Option) Pool[T] {
	return newBlockingPool[T](obj, queue.NewRing[T](size), size, opts)
}

// BlockingWithQueue is Blocking over a caller-supplied queue. The queue must
// hold at least size objects.
func BlockingWithQueue[T any](obj PoolObject[T], q queue.BlockingQueue[T], size int, opts ...Option) Pool[T] {
	return newBlockingPool(obj, q, size, opts)
}

// NonBlocking creates an unbounded pool that builds objects on demand.
func NonBlocking[T any](obj PoolObject[T], opts ...Option) Pool[T] {
	return newNonBlockingPool[T](obj, queue.NewLinked[T](), opts)
}

// NonBlockingWithQueue is NonBlocking over a caller-supplied queue, which
// should be unbounded.
func NonBlockingWithQueue[T any](obj PoolObject[T], q queue.Queue[T], opts ...Option) Pool[T] {
	return newNonBlockingPool(obj, q, opts)
}

// NonBlockingSoftReference creates an unbounded pool whose idle objects can
// be reclaimed under memory pressure. Pass WithReclaimer to share a
// Reclaimer driven by a reclaim.Watcher.
func NonBlockingSoftReference[T any](obj PoolObject[T], opts ...Option) Pool[T] {
	return newSoftPool[T](obj, queue.NewLinked[*reclaim.Ref[T]](), opts)
}

// NonBlockingSoftReferenceWithQueue is NonBlockingSoftReference over a
// caller-supplied queue.
func NonBlockingSoftReferenceWithQueue[T any](obj PoolObject[T], q queue.Queue[*reclaim.Ref[T]], opts ...Option) Pool[T] {
	return newSoftPool(obj, q, opts)
}

// NonBlockingBounded creates a non-blocking pool that discards returned
// objects once more than maxSize have been built. See BoundedPool.
func NonBlockingBounded[T any](obj BoundedPoolObject[T], maxSize int, opts ...Option) Pool[T] {
	return newBoundedPool[T](obj, maxSize, queue.NewMPMC[T](maxSize), opts)
}

// NonBlockingBoundedWithQueue is NonBlockingBounded over a caller-supplied
// queue.
func NonBlockingBoundedWithQueue[T any](obj BoundedPoolObject[T], maxSize int, q queue.Queue[T], opts ...Option) Pool[T] {
	return newBoundedPool(obj, maxSize, q, opts)
}

// Suspending creates a SuspendingPool of the given size, pre-filled.
func Suspending[T any](obj SuspendingPoolObject[T], size int, opts ...Option) SuspendingPool[T] {
	return newSuspendingPool[T](obj, size, queue.NewChannel[T](size), true, opts)
}

// SuspendingWithQueue creates a SuspendingPool over a caller-supplied queue,
// pre-filled with size objects when fill is set.
func SuspendingWithQueue[T any](obj SuspendingPoolObject[T], size int, q queue.SuspendingQueue[T], fill bool, opts ...Option) SuspendingPool[T] {
	return newSuspendingPool(obj, size, q, fill, opts)
}

// BlockingFromCollection creates a blocking pool over the given objects.
// It fails with a validation error when items is empty.
func BlockingFromCollection[T any](items []T, opts ...Option) (Pool[T], error) {
	return BlockingFromCollectionWithQueue[T](queue.NewRing[T](len(items)), items, opts...)
}

// BlockingFromCollectionWithQueue is BlockingFromCollection over a
// caller-supplied queue.
func BlockingFromCollectionWithQueue[T any](q queue.BlockingQueue[T], items []T, opts ...Option) (Pool[T], error) {
	p, err := newBlockingCollectionPool(q, items, opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SuspendingFromCollection creates a suspending pool over the given objects.
// It fails with a validation error when items is empty.
func SuspendingFromCollection[T any](items []T, opts ...Option) (SuspendingPool[T], error) {
	return SuspendingFromCollectionWithQueue[T](queue.NewChannel[T](len(items)), items, opts...)
}

// SuspendingFromCollectionWithQueue is SuspendingFromCollection over a
// caller-supplied queue.
func SuspendingFromCollectionWithQueue[T any](q queue.SuspendingQueue[T], items []T, opts ...Option) (SuspendingPool[T], error) {
	p, err := newSuspendingCollectionPool(q, items, opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}
