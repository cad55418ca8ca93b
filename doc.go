// Package objectpool provides generic object pools for Go with pluggable
// lifecycle hooks, several storage strategies and context-based
// cancellation.
//
// # Architecture
//
// A pool hands out objects with Take and accepts them back with Put.
// Each variant pairs a storage strategy with a queue from pkg/queue:
//
//	Blocking                 fixed pre-filled pool, Take waits for a free object
//	NonBlocking              grows on demand, Take never waits
//	NonBlockingBounded       like NonBlocking but keeps at most maxSize objects
//	NonBlockingSoftReference entries may be reclaimed under memory pressure
//	Suspending               fixed pool with context-aware Take and Put
//	BlockingFromCollection   pool over a caller supplied set of objects
//	SuspendingFromCollection suspending pool over a caller supplied set
//
// Hooks (NewInstance, OnTake, OnReturn and, for bounded pools, OnRemoval)
// let the caller build, prepare, reset and dispose of objects.
//
// # Quick Start
//
//	import (
//	    "bytes"
//	    "context"
//
//	    "github.com/ajitpratap0/objectpool/pkg/pool"
//	)
//
//	buffers := pool.NonBlocking[*bytes.Buffer](pool.PoolObjectFuncs[*bytes.Buffer]{
//	    New:    func() *bytes.Buffer { return new(bytes.Buffer) },
//	    Return: func(b *bytes.Buffer) { b.Reset() },
//	})
//
//	buf := buffers.Take(context.Background())
//	defer buffers.Put(buf)
//
// # Key Packages
//
//	pkg/pool          - Pool contracts, hooks and variants
//	pkg/queue         - Linked, ring, array, MPMC and channel queues
//	pkg/reclaim       - Reclaimable references and the memory watcher
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging with zap
//	pkg/metrics       - In-memory counters and Prometheus observers
//	pkg/observability - OpenTelemetry tracing and meter observer
//	pkg/config        - YAML configuration for the objpool command
//	pkg/json          - goccy/go-json helpers on a pooled buffer
//
// # Command
//
// cmd/objpool builds a pool from a YAML file, drives it with concurrent
// take/hold/put loops and reports throughput, take latency and pool
// events:
//
//	objpool config > pool.yaml
//	objpool run --config pool.yaml --workers 32 --duration 30s
//	objpool run --kind bounded --max-size 8 --metrics-addr :9090
//
// Every run flag can also be set through an OBJPOOL_ environment variable,
// and configuration files accept ${VAR_NAME} substitution.
package objectpool
