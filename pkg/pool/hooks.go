package pool

import "context"

// PoolObject controls the lifecycle of pooled objects. One PoolObject serves
// exactly one pool; it must be safe for concurrent use if it keeps state.
type PoolObject[T any] interface {
	// NewInstance builds a fully usable object. A panic propagates to the
	// caller of the pool operation that needed the object.
	NewInstance() T
	// OnTake runs once per object handed out, after it left storage.
	OnTake(obj T)
	// OnReturn runs once per object given back, before it is stored.
	// It is the place to reset state.
	OnReturn(obj T)
}

// BoundedPoolObject adds a discard hook for pools with an upper limit.
type BoundedPoolObject[T any] interface {
	PoolObject[T]
	// OnRemoval runs once per object the pool drops instead of storing.
	OnRemoval(obj T)
}

// SuspendingPoolObject controls the lifecycle of objects in a
// SuspendingPool.
type SuspendingPoolObject[T any] interface {
	NewInstance(ctx context.Context) T
	OnTake(ctx context.Context, obj T)
	OnReturn(ctx context.Context, obj T)
	// OnReturnBlocking runs for PutBlocking, outside any task context.
	OnReturnBlocking(obj T)
}

// PoolObjectFuncs adapts plain functions to PoolObject. Nil funcs are
// no-ops; a nil New yields the zero value of T.
type PoolObjectFuncs[T any] struct {
	New    func() T
	Take   func(T)
	Return func(T)
}

var _ PoolObject[int] = PoolObjectFuncs[int]{}

// NewInstance calls New, or returns the zero value when New is nil.
func (f PoolObjectFuncs[T]) NewInstance() T {
	if f.New == nil {
		var zero T
		return zero
	}
	return f.New()
}

// OnTake calls Take if set.
func (f PoolObjectFuncs[T]) OnTake(obj T) {
	if f.Take != nil {
		f.Take(obj)
	}
}

// OnReturn calls Return if set.
func (f PoolObjectFuncs[T]) OnReturn(obj T) {
	if f.Return != nil {
		f.Return(obj)
	}
}

// BoundedPoolObjectFuncs adapts plain functions to BoundedPoolObject.
type BoundedPoolObjectFuncs[T any] struct {
	PoolObjectFuncs[T]
	Removal func(T)
}

var _ BoundedPoolObject[int] = BoundedPoolObjectFuncs[int]{}

// OnRemoval calls Removal if set.
func (f BoundedPoolObjectFuncs[T]) OnRemoval(obj T) {
	if f.Removal != nil {
		f.Removal(obj)
	}
}

// SuspendingPoolObjectFuncs adapts plain functions to SuspendingPoolObject.
// When ReturnBlocking is nil, OnReturnBlocking falls back to Return with a
// background context.
type SuspendingPoolObjectFuncs[T any] struct {
	New            func(ctx context.Context) T
	Take           func(ctx context.Context, obj T)
	Return         func(ctx context.Context, obj T)
	ReturnBlocking func(obj T)
}

var _ SuspendingPoolObject[int] = SuspendingPoolObjectFuncs[int]{}

// NewInstance calls New, or returns the zero value when New is nil.
func (f SuspendingPoolObjectFuncs[T]) NewInstance(ctx context.Context) T {
	if f.New == nil {
		var zero T
		return zero
	}
	return f.New(ctx)
}

// OnTake calls Take if set.
func (f SuspendingPoolObjectFuncs[T]) OnTake(ctx context.Context, obj T) {
	if f.Take != nil {
		f.Take(ctx, obj)
	}
}

// OnReturn calls Return if set.
func (f SuspendingPoolObjectFuncs[T]) OnReturn(ctx context.Context, obj T) {
	if f.Return != nil {
		f.Return(ctx, obj)
	}
}

// OnReturnBlocking calls ReturnBlocking, falling back to Return.
func (f SuspendingPoolObjectFuncs[T]) OnReturnBlocking(obj T) {
	switch {
	case f.ReturnBlocking != nil:
		f.ReturnBlocking(obj)
	case f.Return != nil:
		f.Return(context.Background(), obj)
	}
}
