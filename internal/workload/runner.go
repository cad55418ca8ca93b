// Package workload drives a pool with concurrent take/hold/put loops and
// reports what happened.
package workload

import (
	"context"
	"sync/atomic"
	"time"

	concpool "github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ajitpratap0/objectpool/pkg/config"
	"github.com/ajitpratap0/objectpool/pkg/metrics"
	"github.com/ajitpratap0/objectpool/pkg/observability"
	"github.com/ajitpratap0/objectpool/pkg/pool"
	"github.com/ajitpratap0/objectpool/pkg/reclaim"
)

// latencySamples bounds the take latency reservoir.
const latencySamples = 10000

// Runner runs one workload against one pool.
type Runner struct {
	cfg      *config.Config
	logger   *zap.Logger
	counters *metrics.Counters
	prom     *metrics.Prometheus
	observer pool.Observer
	sampler  reclaim.Sampler
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger for the runner and its pool.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPrometheus also reports pool events and take latency to p.
func WithPrometheus(p *metrics.Prometheus) Option {
	return func(r *Runner) {
		r.prom = p
	}
}

// WithObserver adds an observer for pool events.
func WithObserver(o pool.Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithMemorySampler replaces the soft pool memory sampler.
func WithMemorySampler(s reclaim.Sampler) Option {
	return func(r *Runner) {
		r.sampler = s
	}
}

// New creates a Runner for a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:      cfg,
		logger:   zap.NewNop(),
		counters: metrics.NewCounters(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run builds the pool, runs the workers until the configured duration
// elapses or ctx is done, and returns the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	pc := r.cfg.Pool
	wc := r.cfg.Workload

	ctx, span := observability.StartSpan(ctx, "workload.run",
		attribute.String("pool.name", pc.Name),
		attribute.String("pool.kind", string(pc.Kind)),
		attribute.String("pool.queue", string(pc.QueueType())),
		attribute.Int("workers", wc.GetWorkers()),
	)

	var observers []pool.Observer
	observers = append(observers, r.counters, r.observer)
	if r.prom != nil {
		observers = append(observers, r.prom)
	}
	b, err := build(pc,
		pool.WithName(pc.Name),
		pool.WithLogger(r.logger),
		pool.WithObserver(metrics.Multi(observers...)),
	)
	if err != nil {
		observability.EndSpan(span, err)
		return nil, err
	}
	defer b.target.close()

	var watcher *reclaim.Watcher
	if b.reclaimer != nil {
		wopts := []reclaim.WatcherOption{reclaim.WithLogger(r.logger)}
		if r.sampler != nil {
			wopts = append(wopts, reclaim.WithSampler(r.sampler))
		}
		watcher = reclaim.NewWatcher(b.reclaimer, pc.Reclaim.Watcher(), wopts...)
		watcher.Start(ctx)
	}

	if wc.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wc.Duration)
		defer cancel()
	}

	var limiter *rate.Limiter
	if wc.IsRateLimited() {
		limiter = rate.NewLimiter(rate.Limit(wc.Rate), max(1, wc.GetWorkers()))
	}

	var ops, errs atomic.Int64
	latency := metrics.NewLatencyTracker(latencySamples)
	timer := metrics.NewTimer()

	r.logger.Info("workload started",
		zap.String("pool", pc.Name),
		zap.String("kind", string(pc.Kind)),
		zap.Int("workers", wc.GetWorkers()),
		zap.Duration("duration", wc.Duration))

	workers := concpool.New().WithMaxGoroutines(wc.GetWorkers())
	for i := 0; i < wc.GetWorkers(); i++ {
		id := i + 1
		workers.Go(func() {
			w := worker{
				id:      id,
				target:  b.target,
				limiter: limiter,
				cfg:     wc,
				latency: latency,
				prom:    r.prom,
				pool:    pc.Name,
				ops:     &ops,
				errs:    &errs,
				logger:  r.logger.With(zap.Int("worker", id)),
			}
			w.run(ctx)
		})
	}
	workers.Wait()
	elapsed := timer.Stop()

	if watcher != nil {
		watcher.Stop()
	}

	report := &Report{
		Pool:     pc.Name,
		Kind:     string(pc.Kind),
		Queue:    string(pc.QueueType()),
		Workers:  wc.GetWorkers(),
		Elapsed:  elapsed,
		Ops:      ops.Load(),
		Errors:   errs.Load(),
		TakeP50:  latency.GetPercentile(50),
		TakeP99:  latency.GetPercentile(99),
		Stored:   b.target.len(),
		Built:    b.hooks.next.Load(),
		Removed:  b.hooks.removed.Load(),
		Stats:    r.counters.Snapshot(pc.Name),
		Version:  pool.Version,
		Finished: time.Now().UTC(),
	}
	if elapsed > 0 {
		report.Throughput = float64(report.Ops) / elapsed.Seconds()
	}
	if watcher != nil {
		report.Reclaims = watcher.Reclaims()
	}
	if r.prom != nil {
		r.prom.SetStored(pc.Name, report.Stored)
	}

	span.SetAttributes(
		attribute.Int64("ops", report.Ops),
		attribute.Int64("errors", report.Errors),
		attribute.Int64("objects.built", report.Built),
	)
	observability.EndSpan(span, nil)

	r.logger.Info("workload finished",
		zap.Int64("ops", report.Ops),
		zap.Int64("errors", report.Errors),
		zap.Float64("ops_per_sec", report.Throughput),
		zap.Duration("take_p99", report.TakeP99))
	return report, nil
}

// Counters returns the in-memory event counters of the last run.
func (r *Runner) Counters() *metrics.Counters {
	return r.counters
}

type worker struct {
	id      int
	target  target
	limiter *rate.Limiter
	cfg     config.WorkloadConfig
	latency *metrics.LatencyTracker
	prom    *metrics.Prometheus
	pool    string
	ops     *atomic.Int64
	errs    *atomic.Int64
	logger  *zap.Logger
}

func (w *worker) run(ctx context.Context) {
	for ctx.Err() == nil {
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
		}

		buf, wait, err := w.take(ctx)
		w.latency.Record(wait)
		if w.prom != nil {
			w.prom.ObserveTake(w.pool, wait)
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.errs.Add(1)
			w.logger.Debug("take failed", zap.Error(err))
			continue
		}

		buf.Owner = w.id
		buf.Data = append(buf.Data, byte(w.id))
		if !w.hold(ctx) {
			// The run ended while holding; give the object back without
			// waiting on the finished context.
			_ = w.target.put(context.Background(), buf)
			return
		}

		if err := w.target.put(ctx, buf); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.errs.Add(1)
			w.logger.Debug("put failed", zap.Error(err))
			continue
		}
		w.ops.Add(1)
	}
}

func (w *worker) take(ctx context.Context) (*Buffer, time.Duration, error) {
	if w.cfg.TakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.TakeTimeout)
		defer cancel()
	}
	timer := metrics.NewTimer()
	buf, err := w.target.take(ctx)
	return buf, timer.Stop(), err
}

// hold keeps the object for the configured time. It reports false if ctx
// ended first.
func (w *worker) hold(ctx context.Context) bool {
	if w.cfg.Hold <= 0 {
		return true
	}
	t := time.NewTimer(w.cfg.Hold)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
