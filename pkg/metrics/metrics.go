// Package metrics provides pool observers and timing utilities for
// objectpool.
//
// # Overview
//
// Pools report events through the pool.Observer interface. This package
// implements it three ways:
//   - Counters: lock-free in-memory counters, one set per pool name
//   - Prometheus: counter vectors labelled by pool name
//   - Multi: fan-out to several observers
//
// # Basic Usage
//
//	counters := metrics.NewCounters()
//	prom := metrics.NewPrometheus(prometheus.DefaultRegisterer)
//
//	p := pool.NonBlocking[*Conn](hooks,
//	    pool.WithName("conns"),
//	    pool.WithObserver(metrics.Multi(counters, prom)))
//
//	stats := counters.Snapshot("conns")
//	fmt.Println(stats.Created, stats.Taken, stats.HitRate())
//
// # Performance Considerations
//
// Observers run synchronously inside Take and Put:
//   - Counters uses atomic adds after the first event of a pool
//   - Prometheus caches the per-pool label children
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/objectpool/pkg/pool"
)

const namespace = "objectpool"

// Prometheus is a pool.Observer backed by Prometheus counters.
type Prometheus struct {
	created   *prometheus.CounterVec
	taken     *prometheus.CounterVec
	returned  *prometheus.CounterVec
	discarded *prometheus.CounterVec
	reclaimed *prometheus.CounterVec
	degraded  *prometheus.CounterVec
	missed    *prometheus.CounterVec

	takeLatency *prometheus.HistogramVec
	stored      *prometheus.GaugeVec

	mu       sync.RWMutex
	children map[string]*promChildren
}

type promChildren struct {
	created, taken, returned, discarded, reclaimed, degraded, missed prometheus.Counter
}

var _ pool.Observer = (*Prometheus)(nil)

// NewPrometheus registers the pool metrics with reg. Registering twice with
// the same registerer panics, as with promauto.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	prom := metrics.NewPrometheus(reg)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	counter := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"pool"})
	}

	return &Prometheus{
		created:   counter("objects_created_total", "Objects built by NewInstance"),
		taken:     counter("objects_taken_total", "Objects handed out by Take"),
		returned:  counter("objects_returned_total", "Objects stored by Put"),
		discarded: counter("objects_discarded_total", "Returned objects dropped instead of stored"),
		reclaimed: counter("entries_reclaimed_total", "Stored entries found reclaimed on Take"),
		degraded:  counter("takes_degraded_total", "Cancelled takes answered with a fallback object"),
		missed:    counter("takes_missed_total", "Takes not served from storage"),

		// Buckets tuned for sub-millisecond hand-offs
		takeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "take_latency_seconds",
			Help:      "Time spent waiting in Take",
			Buckets: []float64{
				1e-7, // 100ns
				1e-6, // 1μs
				1e-5, // 10μs
				1e-4, // 100μs
				1e-3, // 1ms
				1e-2, // 10ms
				1e-1, // 100ms
				1,    // 1s
			},
		}, []string{"pool"}),

		stored: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_objects",
			Help:      "Objects currently stored in the pool",
		}, []string{"pool"}),

		children: make(map[string]*promChildren),
	}
}

func (p *Prometheus) child(name string) *promChildren {
	p.mu.RLock()
	c, ok := p.children[name]
	p.mu.RUnlock()
	if ok {
		return c
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok = p.children[name]; ok {
		return c
	}
	c = &promChildren{
		created:   p.created.WithLabelValues(name),
		taken:     p.taken.WithLabelValues(name),
		returned:  p.returned.WithLabelValues(name),
		discarded: p.discarded.WithLabelValues(name),
		reclaimed: p.reclaimed.WithLabelValues(name),
		degraded:  p.degraded.WithLabelValues(name),
		missed:    p.missed.WithLabelValues(name),
	}
	p.children[name] = c
	return c
}

func (p *Prometheus) OnCreate(name string)    { p.child(name).created.Inc() }
func (p *Prometheus) OnTake(name string)      { p.child(name).taken.Inc() }
func (p *Prometheus) OnPut(name string)       { p.child(name).returned.Inc() }
func (p *Prometheus) OnDiscard(name string)   { p.child(name).discarded.Inc() }
func (p *Prometheus) OnReclaimed(name string) { p.child(name).reclaimed.Inc() }
func (p *Prometheus) OnDegrade(name string)   { p.child(name).degraded.Inc() }
func (p *Prometheus) OnMiss(name string)      { p.child(name).missed.Inc() }

// ObserveTake records how long a Take waited.
func (p *Prometheus) ObserveTake(name string, d time.Duration) {
	p.takeLatency.WithLabelValues(name).Observe(d.Seconds())
}

// SetStored records the number of stored objects.
func (p *Prometheus) SetStored(name string, n int) {
	p.stored.WithLabelValues(name).Set(float64(n))
}

// Multi fans events out to every non-nil observer in order.
func Multi(observers ...pool.Observer) pool.Observer {
	out := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multi []pool.Observer

func (m multi) OnCreate(name string) {
	for _, o := range m {
		o.OnCreate(name)
	}
}

func (m multi) OnTake(name string) {
	for _, o := range m {
		o.OnTake(name)
	}
}

func (m multi) OnPut(name string) {
	for _, o := range m {
		o.OnPut(name)
	}
}

func (m multi) OnDiscard(name string) {
	for _, o := range m {
		o.OnDiscard(name)
	}
}

func (m multi) OnReclaimed(name string) {
	for _, o := range m {
		o.OnReclaimed(name)
	}
}

func (m multi) OnDegrade(name string) {
	for _, o := range m {
		o.OnDegrade(name)
	}
}

func (m multi) OnMiss(name string) {
	for _, o := range m {
		o.OnMiss(name)
	}
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It can be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// LatencyTracker keeps the most recent latencies for percentile queries.
// Safe for concurrent use.
type LatencyTracker struct {
	mu      sync.Mutex
	values  []time.Duration
	next    int
	full    bool
	maxSize int
}

// NewLatencyTracker creates a tracker holding up to maxSize samples.
func NewLatencyTracker(maxSize int) *LatencyTracker {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LatencyTracker{
		values:  make([]time.Duration, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record records a latency value, overwriting the oldest once full.
func (l *LatencyTracker) Record(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		l.values = append(l.values, d)
		l.full = len(l.values) == l.maxSize
		return
	}
	l.values[l.next] = d
	l.next = (l.next + 1) % l.maxSize
}

// Count returns the number of samples held.
func (l *LatencyTracker) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.values)
}

// GetPercentile returns the nearest-rank percentile (0-100) of the held
// samples, or 0 when there are none.
func (l *LatencyTracker) GetPercentile(p float64) time.Duration {
	l.mu.Lock()
	sorted := make([]time.Duration, len(l.values))
	copy(sorted, l.values)
	l.mu.Unlock()

	if len(sorted) == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := int(float64(len(sorted)) * p / 100)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}
	return sorted[index]
}
