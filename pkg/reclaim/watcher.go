package reclaim

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// Sample is a point-in-time view of memory usage.
type Sample struct {
	HeapAlloc         uint64  // bytes allocated on the Go heap
	SystemUsedPercent float64 // host memory in use, 0-100
}

// Sampler produces memory samples. SampleMemory is the default.
type Sampler func() (Sample, error)

// WatcherConfig controls when a Watcher triggers reclamation. A zero
// threshold disables that check.
type WatcherConfig struct {
	// Interval between samples
	Interval time.Duration `yaml:"interval" json:"interval"`
	// MaxHeapBytes triggers reclamation when the Go heap grows past it
	MaxHeapBytes uint64 `yaml:"max_heap_bytes" json:"max_heap_bytes"`
	// MaxSystemPercent triggers reclamation when host memory usage passes it
	MaxSystemPercent float64 `yaml:"max_system_percent" json:"max_system_percent"`
}

// Watcher samples memory on an interval and reclaims soft references under
// pressure.
type Watcher struct {
	reclaimer *Reclaimer
	cfg       WatcherConfig
	sample    Sampler
	logger    *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	reclaim uint64
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithSampler replaces the memory sampler, mainly for tests.
func WithSampler(s Sampler) WatcherOption {
	return func(w *Watcher) {
		w.sample = s
	}
}

// WithLogger sets the logger used to report reclamation.
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a stopped Watcher driving r.
func NewWatcher(r *Reclaimer, cfg WatcherConfig, opts ...WatcherOption) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	w := &Watcher{
		reclaimer: r,
		cfg:       cfg,
		sample:    SampleMemory,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SampleMemory reads Go heap statistics and host memory usage.
func SampleMemory() (Sample, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	s := Sample{HeapAlloc: ms.HeapAlloc}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("failed to read system memory: %w", err)
	}
	s.SystemUsedPercent = vm.UsedPercent
	return s, nil
}

// Check takes one sample and reclaims if a threshold is exceeded. It
// reports whether reclamation happened.
func (w *Watcher) Check() (bool, error) {
	s, err := w.sample()
	if err != nil && s.HeapAlloc == 0 {
		return false, err
	}

	overHeap := w.cfg.MaxHeapBytes > 0 && s.HeapAlloc > w.cfg.MaxHeapBytes
	overSystem := err == nil && w.cfg.MaxSystemPercent > 0 && s.SystemUsedPercent > w.cfg.MaxSystemPercent
	if !overHeap && !overSystem {
		return false, err
	}

	w.reclaimer.Reclaim()

	w.mu.Lock()
	w.reclaim++
	w.mu.Unlock()

	w.logger.Info("memory pressure, reclaimed soft references",
		zap.Uint64("heap_alloc", s.HeapAlloc),
		zap.Float64("system_used_percent", s.SystemUsedPercent),
		zap.Uint64("generation", w.reclaimer.Generation()))
	return true, err
}

// Reclaims returns how many times this Watcher triggered reclamation.
func (w *Watcher) Reclaims() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reclaim
}

// Start begins sampling in a background goroutine until ctx is done or Stop
// is called. Starting a running Watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := w.Check(); err != nil {
					w.logger.Debug("memory sample failed", zap.Error(err))
				}
			}
		}
	}(w.done)
}

// Stop halts sampling and waits for the background goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
