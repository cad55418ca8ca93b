package workload

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/objectpool/pkg/config"
	"github.com/ajitpratap0/objectpool/pkg/metrics"
	"github.com/ajitpratap0/objectpool/pkg/reclaim"
	"github.com/ajitpratap0/objectpool/pkg/testutil"
)

func testConfig(kind config.Kind, queue config.QueueType) *config.Config {
	cfg := config.Default()
	cfg.Pool.Name = string(kind)
	cfg.Pool.Kind = kind
	cfg.Pool.Queue = queue
	cfg.Pool.Size = 4
	cfg.Pool.MaxSize = 4
	cfg.Pool.Reclaim.Interval = 5 * time.Millisecond
	cfg.Workload.Workers = 4
	cfg.Workload.Duration = 50 * time.Millisecond
	cfg.Workload.Hold = 100 * time.Microsecond
	return cfg
}

func TestRunAllKinds(t *testing.T) {
	tests := []struct {
		kind  config.Kind
		queue config.QueueType
	}{
		{config.KindBlocking, ""},
		{config.KindBlocking, config.QueueArray},
		{config.KindNonBlocking, ""},
		{config.KindNonBlocking, config.QueueMPMC},
		{config.KindNonBlocking, config.QueueRing},
		{config.KindBounded, ""},
		{config.KindBounded, config.QueueLinked},
		{config.KindSoft, ""},
		{config.KindSoft, config.QueueMPMC},
		{config.KindSuspending, ""},
	}

	for _, tt := range tests {
		name := string(tt.kind)
		if tt.queue != "" {
			name += "/" + string(tt.queue)
		}
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(tt.kind, tt.queue)
			r, err := New(cfg, WithLogger(testutil.TestLogger(t)))
			require.NoError(t, err)

			report, err := r.Run(testutil.TestContext(t))
			require.NoError(t, err)

			assert.Equal(t, string(tt.kind), report.Kind)
			assert.Equal(t, string(cfg.Pool.QueueType()), report.Queue)
			assert.Equal(t, 4, report.Workers)
			assert.Positive(t, report.Ops)
			assert.Zero(t, report.Errors)
			assert.GreaterOrEqual(t, report.Stats.Taken, report.Ops)
			assert.Positive(t, report.Built)
			assert.LessOrEqual(t, report.Stored, max(cfg.Pool.Size, cfg.Pool.MaxSize))
		})
	}
}

func TestRunBlockingNeverBuildsPastSize(t *testing.T) {
	cfg := testConfig(config.KindBlocking, "")
	cfg.Workload.Workers = 16
	cfg.Workload.TakeTimeout = 10 * time.Millisecond

	r, err := New(cfg)
	require.NoError(t, err)
	report, err := r.Run(testutil.TestContext(t))
	require.NoError(t, err)

	assert.EqualValues(t, 4, report.Built)
	assert.Zero(t, report.Stats.Degraded)
	assert.Zero(t, report.Stats.Missed, "every take is served from the prefilled pool")
	assert.Equal(t, 4, report.Stored)
}

func TestRunBoundedRemovesExtras(t *testing.T) {
	cfg := testConfig(config.KindBounded, "")
	cfg.Pool.MaxSize = 2
	cfg.Workload.Workers = 8

	r, err := New(cfg)
	require.NoError(t, err)
	report, err := r.Run(testutil.TestContext(t))
	require.NoError(t, err)

	assert.LessOrEqual(t, report.Stored, 2)
	assert.Equal(t, report.Built-int64(report.Stored), report.Removed)
}

func TestRunSoftReclaimsUnderPressure(t *testing.T) {
	cfg := testConfig(config.KindSoft, "")
	cfg.Pool.Reclaim.MaxHeapMB = 1
	// Paced workers leave their objects idle in the pool between takes.
	cfg.Workload.Rate = 400
	cfg.Workload.Hold = 0
	cfg.Workload.Duration = 150 * time.Millisecond

	pressure := func() (reclaim.Sample, error) {
		return reclaim.Sample{HeapAlloc: 2 << 20}, nil
	}
	r, err := New(cfg, WithMemorySampler(pressure))
	require.NoError(t, err)
	report, err := r.Run(testutil.TestContext(t))
	require.NoError(t, err)

	assert.Positive(t, report.Reclaims)
	assert.Positive(t, report.Stats.Reclaimed)
}

func TestRunRateLimited(t *testing.T) {
	cfg := testConfig(config.KindNonBlocking, "")
	cfg.Workload.Rate = 100
	cfg.Workload.Workers = 2
	cfg.Workload.Duration = 100 * time.Millisecond
	cfg.Workload.Hold = 0

	r, err := New(cfg)
	require.NoError(t, err)
	report, err := r.Run(testutil.TestContext(t))
	require.NoError(t, err)

	// burst of 2 plus about 10 tokens over 100ms
	assert.LessOrEqual(t, report.Ops, int64(20))
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(config.KindSuspending, "")
	cfg.Workload.Duration = 0

	r, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunReportsToPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom := metrics.NewPrometheus(reg)
	cfg := testConfig(config.KindNonBlocking, "")

	r, err := New(cfg, WithPrometheus(prom))
	require.NoError(t, err)
	report, err := r.Run(testutil.TestContext(t))
	require.NoError(t, err)

	n, err := promtest.GatherAndCount(reg, "objectpool_objects_taken_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = promtest.GatherAndCount(reg, "objectpool_stored_objects")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Positive(t, report.Ops)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(config.KindBlocking, config.QueueChannel)
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue not supported")
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := build(config.PoolConfig{Name: "x", Kind: "weird", Size: 1})
	require.Error(t, err)
}

func TestBufferHooksReset(t *testing.T) {
	h := &bufferHooks{}
	b := h.NewInstance()
	assert.EqualValues(t, 1, b.ID)
	assert.Equal(t, bufferSize, cap(b.Data))

	b.Data = append(b.Data, 1, 2, 3)
	b.Owner = 7
	h.OnReturn(b)
	assert.Empty(t, b.Data)
	assert.Zero(t, b.Owner)
}

func TestReportWriters(t *testing.T) {
	report := &Report{
		Pool:     "p",
		Kind:     "bounded",
		Queue:    "mpmc",
		Workers:  2,
		Elapsed:  time.Second,
		Ops:      100,
		Removed:  3,
		Stats:    metrics.Stats{Created: 9, Taken: 100, Returned: 97, Missed: 5},
		Version:  "test",
		Finished: time.Unix(0, 0).UTC(),
	}

	var text bytes.Buffer
	require.NoError(t, report.WriteText(&text))
	out := text.String()
	assert.Contains(t, out, "p (bounded, mpmc queue)")
	assert.Contains(t, out, "removed:")
	assert.NotContains(t, out, "reclaims:")
	assert.True(t, strings.Contains(out, "95.0%"), out)

	var js bytes.Buffer
	require.NoError(t, report.WriteJSON(&js))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "bounded", decoded["kind"])
	assert.EqualValues(t, 100, decoded["ops"])
	assert.EqualValues(t, 3, decoded["removed"])
}
