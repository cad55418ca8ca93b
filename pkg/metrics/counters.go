package metrics

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ajitpratap0/objectpool/pkg/pool"
)

// Stats is a point-in-time copy of one pool's counters.
type Stats struct {
	Created   int64 `json:"created"`
	Taken     int64 `json:"taken"`
	Returned  int64 `json:"returned"`
	Discarded int64 `json:"discarded"`
	Reclaimed int64 `json:"reclaimed"`
	Degraded  int64 `json:"degraded"`
	Missed    int64 `json:"missed"`
}

// HitRate is the share of takes served from storage. Objects built to
// pre-fill a pool are not misses; degraded takes are.
func (s Stats) HitRate() float64 {
	if s.Taken == 0 {
		return 0
	}
	hits := s.Taken - s.Missed
	if hits < 0 {
		hits = 0
	}
	return float64(hits) / float64(s.Taken)
}

type counterSet struct {
	created   atomic.Int64
	taken     atomic.Int64
	returned  atomic.Int64
	discarded atomic.Int64
	reclaimed atomic.Int64
	degraded  atomic.Int64
	missed    atomic.Int64
}

// Counters is an in-memory pool.Observer keeping one counter set per pool
// name.
type Counters struct {
	pools sync.Map // string -> *counterSet
}

var _ pool.Observer = (*Counters)(nil)

// NewCounters returns empty counters.
func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) set(name string) *counterSet {
	if s, ok := c.pools.Load(name); ok {
		return s.(*counterSet)
	}
	s, _ := c.pools.LoadOrStore(name, &counterSet{})
	return s.(*counterSet)
}

func (c *Counters) OnCreate(name string)    { c.set(name).created.Add(1) }
func (c *Counters) OnTake(name string)      { c.set(name).taken.Add(1) }
func (c *Counters) OnPut(name string)       { c.set(name).returned.Add(1) }
func (c *Counters) OnDiscard(name string)   { c.set(name).discarded.Add(1) }
func (c *Counters) OnReclaimed(name string) { c.set(name).reclaimed.Add(1) }
func (c *Counters) OnDegrade(name string)   { c.set(name).degraded.Add(1) }
func (c *Counters) OnMiss(name string)      { c.set(name).missed.Add(1) }

// Snapshot returns the counters of the named pool. Unknown pools yield
// zero Stats.
func (c *Counters) Snapshot(name string) Stats {
	v, ok := c.pools.Load(name)
	if !ok {
		return Stats{}
	}
	s := v.(*counterSet)
	return Stats{
		Created:   s.created.Load(),
		Taken:     s.taken.Load(),
		Returned:  s.returned.Load(),
		Discarded: s.discarded.Load(),
		Reclaimed: s.reclaimed.Load(),
		Degraded:  s.degraded.Load(),
		Missed:    s.missed.Load(),
	}
}

// Pools returns the names of every pool seen so far, sorted.
func (c *Counters) Pools() []string {
	var names []string
	c.pools.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Reset forgets all counters.
func (c *Counters) Reset() {
	c.pools.Range(func(k, _ any) bool {
		c.pools.Delete(k)
		return true
	})
}
