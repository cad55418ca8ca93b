// Package reclaim implements reclaimable slots for memory-sensitive pools.
//
// A Ref holds a pooled value that may disappear at any read: either it was
// cleared directly, or the Reclaimer it is bound to started a new generation
// after the Ref was created. Readers must treat a missing payload as a normal
// outcome and fall back to building a fresh object.
//
// Reclamation is driven from outside the pool. A Watcher samples Go heap and
// system memory usage and calls Reclaimer.Reclaim when a threshold is
// crossed, dropping every idle entry at once, in the same spirit as a
// runtime clearing soft references before running out of memory.
package reclaim

import "sync/atomic"

// Slot is a container whose payload may be reclaimed at any time.
type Slot[T any] interface {
	// Get returns the payload, or ok=false if it has been reclaimed.
	Get() (value T, ok bool)
	// Clear reclaims the payload immediately.
	Clear()
}

// Reclaimer invalidates Refs in bulk by advancing a generation counter.
// The zero value is ready to use.
type Reclaimer struct {
	gen atomic.Uint64
}

// NewReclaimer returns a Reclaimer at generation zero.
func NewReclaimer() *Reclaimer {
	return &Reclaimer{}
}

// Generation returns the current generation.
func (r *Reclaimer) Generation() uint64 {
	return r.gen.Load()
}

// Reclaim starts a new generation. Every Ref created before the call
// reports its payload as gone from now on.
func (r *Reclaimer) Reclaim() {
	r.gen.Add(1)
}

// Ref is a reclaimable reference to a value of type T.
type Ref[T any] struct {
	value atomic.Pointer[T]
	owner *Reclaimer
	gen   uint64
}

var _ Slot[int] = (*Ref[int])(nil)

// NewRef wraps v. A nil owner means only Clear can reclaim it.
func NewRef[T any](v T, owner *Reclaimer) *Ref[T] {
	r := &Ref[T]{owner: owner}
	if owner != nil {
		r.gen = owner.Generation()
	}
	r.value.Store(&v)
	return r
}

// Get returns the payload unless it has been reclaimed. A payload found to
// belong to an expired generation is dropped on the spot.
func (r *Ref[T]) Get() (value T, ok bool) {
	p := r.value.Load()
	if p == nil {
		return value, false
	}
	if r.owner != nil && r.owner.Generation() != r.gen {
		r.value.CompareAndSwap(p, nil)
		return value, false
	}
	return *p, true
}

// Clear drops the payload.
func (r *Ref[T]) Clear() {
	r.value.Store(nil)
}
