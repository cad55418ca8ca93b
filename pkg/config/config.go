package config

import (
	"runtime"
	"slices"
	"time"

	poolerrors "github.com/ajitpratap0/objectpool/pkg/errors"
	"github.com/ajitpratap0/objectpool/pkg/logger"
	"github.com/ajitpratap0/objectpool/pkg/reclaim"
)

// Kind selects a pool variant.
type Kind string

const (
	KindBlocking    Kind = "blocking"
	KindNonBlocking Kind = "non_blocking"
	KindBounded     Kind = "bounded"
	KindSoft        Kind = "soft"
	KindSuspending  Kind = "suspending"
)

// QueueType selects the backing queue of a pool.
type QueueType string

const (
	QueueRing    QueueType = "ring"
	QueueArray   QueueType = "array"
	QueueLinked  QueueType = "linked"
	QueueMPMC    QueueType = "mpmc"
	QueueChannel QueueType = "channel"
)

// queuesByKind lists the queues each kind accepts. The first entry is the
// default.
var queuesByKind = map[Kind][]QueueType{
	KindBlocking:    {QueueRing, QueueArray},
	KindNonBlocking: {QueueLinked, QueueMPMC, QueueRing, QueueArray},
	KindBounded:     {QueueMPMC, QueueLinked, QueueRing, QueueArray},
	KindSoft:        {QueueLinked, QueueMPMC},
	KindSuspending:  {QueueChannel},
}

// Config is the top-level objpool configuration file.
type Config struct {
	// Pool describes the pool under test
	Pool PoolConfig `yaml:"pool" json:"pool"`
	// Workload drives the pool with concurrent take/put loops
	Workload WorkloadConfig `yaml:"workload" json:"workload"`
	// Observability settings for metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
	// Logging configures the zap logger
	Logging logger.Config `yaml:"logging" json:"logging"`
}

// PoolConfig describes how to build one pool.
type PoolConfig struct {
	// Name appears in logs and metric labels
	Name string `yaml:"name" json:"name"`
	// Kind selects the variant
	Kind Kind `yaml:"kind" json:"kind"`
	// Size is the pre-fill count for blocking and suspending pools
	Size int `yaml:"size" json:"size"`
	// MaxSize is the bounded pool ceiling
	MaxSize int `yaml:"max_size" json:"max_size"`
	// FillPool pre-fills suspending pools
	FillPool bool `yaml:"fill_pool" json:"fill_pool"`
	// Queue overrides the default backing queue for Kind
	Queue QueueType `yaml:"queue" json:"queue"`
	// Reclaim configures memory-pressure reclamation for soft pools
	Reclaim ReclaimConfig `yaml:"reclaim" json:"reclaim"`
}

// ReclaimConfig sets the thresholds of the soft pool memory watcher.
type ReclaimConfig struct {
	Interval         time.Duration `yaml:"interval" json:"interval"`
	MaxHeapMB        int           `yaml:"max_heap_mb" json:"max_heap_mb"`
	MaxSystemPercent float64       `yaml:"max_system_percent" json:"max_system_percent"`
}

// WorkloadConfig controls the workload runner.
type WorkloadConfig struct {
	// Workers is the number of concurrent take/put loops
	Workers int `yaml:"workers" json:"workers"`
	// Duration bounds the run
	Duration time.Duration `yaml:"duration" json:"duration"`
	// Rate limits takes per second across all workers (0 = unlimited)
	Rate float64 `yaml:"rate" json:"rate"`
	// Hold is how long a worker keeps an object before putting it back
	Hold time.Duration `yaml:"hold" json:"hold"`
	// TakeTimeout bounds each take (0 = wait until the run ends)
	TakeTimeout time.Duration `yaml:"take_timeout" json:"take_timeout"`
}

// ObservabilityConfig controls metrics and tracing output.
type ObservabilityConfig struct {
	// MetricsAddr serves Prometheus metrics when set, e.g. ":9090"
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
	// EnableTracing writes an OpenTelemetry span per run to stdout
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
}

// Default returns a configuration for a small blocking pool driven by one
// worker per CPU.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			Name:     "default",
			Kind:     KindBlocking,
			Size:     16,
			MaxSize:  16,
			FillPool: true,
			Reclaim: ReclaimConfig{
				Interval:         time.Second,
				MaxHeapMB:        512,
				MaxSystemPercent: 90,
			},
		},
		Workload: WorkloadConfig{
			Workers:  runtime.NumCPU(),
			Duration: 10 * time.Second,
			Hold:     time.Millisecond,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Pool.Validate(); err != nil {
		return err
	}
	return c.Workload.Validate()
}

// Validate checks the pool description. An empty Queue is valid and means
// the default queue for Kind.
func (p *PoolConfig) Validate() error {
	if p.Name == "" {
		return configError("name", "name is required")
	}
	allowed, ok := queuesByKind[p.Kind]
	if !ok {
		return configError("kind", "unknown pool kind").WithDetail("value", string(p.Kind))
	}
	if p.Queue != "" && !slices.Contains(allowed, p.Queue) {
		return configError("queue", "queue not supported by pool kind").
			WithDetail("kind", string(p.Kind)).
			WithDetail("value", string(p.Queue))
	}

	switch p.Kind {
	case KindBlocking, KindSuspending:
		if p.Size <= 0 {
			return configError("size", "size must be positive")
		}
	case KindBounded:
		if p.MaxSize <= 0 {
			return configError("max_size", "max_size must be positive")
		}
	case KindSoft:
		if p.Reclaim.MaxHeapMB < 0 {
			return configError("reclaim.max_heap_mb", "max_heap_mb cannot be negative")
		}
		if p.Reclaim.MaxSystemPercent < 0 || p.Reclaim.MaxSystemPercent > 100 {
			return configError("reclaim.max_system_percent", "max_system_percent must be within 0-100")
		}
	}
	return nil
}

// QueueType returns the configured queue, or the default for Kind.
func (p *PoolConfig) QueueType() QueueType {
	if p.Queue != "" {
		return p.Queue
	}
	if allowed, ok := queuesByKind[p.Kind]; ok {
		return allowed[0]
	}
	return ""
}

// Validate checks the workload settings.
func (w *WorkloadConfig) Validate() error {
	if w.Workers < 0 {
		return configError("workers", "workers cannot be negative")
	}
	if w.Duration < 0 {
		return configError("duration", "duration cannot be negative")
	}
	if w.Rate < 0 {
		return configError("rate", "rate cannot be negative")
	}
	return nil
}

// GetWorkers returns the number of workers, ensuring it's at least 1
func (w *WorkloadConfig) GetWorkers() int {
	if w.Workers <= 0 {
		return runtime.NumCPU()
	}
	return w.Workers
}

// IsRateLimited returns true if rate limiting is enabled
func (w *WorkloadConfig) IsRateLimited() bool {
	return w.Rate > 0
}

// Watcher converts the thresholds for reclaim.NewWatcher.
func (r ReclaimConfig) Watcher() reclaim.WatcherConfig {
	return reclaim.WatcherConfig{
		Interval:         r.Interval,
		MaxHeapBytes:     uint64(r.MaxHeapMB) << 20,
		MaxSystemPercent: r.MaxSystemPercent,
	}
}

func configError(field, msg string) *poolerrors.Error {
	return poolerrors.New(poolerrors.ErrorTypeConfig, msg).WithDetail("field", field)
}
