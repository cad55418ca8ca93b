// Package pool implements generic object pools with interchangeable
// concurrency behavior. Callers pick a variant through the factory
// functions and keep the same call sites regardless of which one they use.
//
// Contracts
//
// Two interfaces cover the two scheduling models:
//
//   - Pool[T]: callers park the goroutine while waiting. Take degrades to a
//     freshly built object when its wait is cancelled; TakeInterruptibly
//     reports the cancellation instead.
//   - SuspendingPool[T]: every wait is a cancellation point and
//     cancellation is always reported. PutBlocking gives back an object
//     without waiting, dropping it if the pool is full.
//
// Variants
//
//	Blocking                 fixed size, pre-filled, Take and Put wait
//	NonBlocking              unbounded, builds objects when empty
//	NonBlockingBounded       non-blocking with a counter-based discard policy
//	NonBlockingSoftReference non-blocking, idle objects reclaimable
//	Suspending               fixed size over a closable channel
//	BlockingFromCollection   fixed object set, no hooks
//	SuspendingFromCollection fixed object set, no hooks
//
// Lifecycle hooks
//
// Construction and reset policy comes from a PoolObject (or
// BoundedPoolObject, SuspendingPoolObject). The pool calls OnTake once per
// object handed out and OnReturn once per object given back; it never
// inspects T. PoolObjectFuncs adapts plain functions:
//
//	buffers := pool.NonBlocking[*bytes.Buffer](pool.PoolObjectFuncs[*bytes.Buffer]{
//		New:    func() *bytes.Buffer { return new(bytes.Buffer) },
//		Return: func(b *bytes.Buffer) { b.Reset() },
//	})
//	buf := buffers.Take(ctx)
//	defer buffers.Put(buf)
//
// Instrumentation
//
// Pools are silent by default. WithLogger attaches a zap logger and
// WithObserver receives per-event callbacks; see the metrics package for
// in-memory and Prometheus observers.
package pool
