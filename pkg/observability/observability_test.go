package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/ajitpratap0/objectpool/pkg/pool"
)

func TestInitTracingExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig("test")
	cfg.Writer = &buf
	cfg.PrettyPrint = false

	shutdown, err := InitTracing(cfg)
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "workload.run", attribute.String("pool", "p"))
	_, child := StartSpan(ctx, "workload.worker")
	EndSpan(child, errors.New("boom"))
	EndSpan(span, nil)

	require.NoError(t, shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "workload.run")
	assert.Contains(t, out, "workload.worker")
	assert.Contains(t, out, "boom")
}

func TestNeverSample(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig("test")
	cfg.Writer = &buf
	cfg.SamplingRate = 0

	shutdown, err := InitTracing(cfg)
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "dropped")
	EndSpan(span, nil)
	require.NoError(t, shutdown(context.Background()))

	assert.NotContains(t, buf.String(), "dropped")
}

func TestMeterObserver(t *testing.T) {
	obs, err := NewMeterObserver(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	p := pool.NonBlocking[int](pool.PoolObjectFuncs[int]{}, pool.WithObserver(obs))
	p.Put(p.Take(context.Background()))
	obs.OnReclaimed("x")
	obs.OnDegrade("x")
	obs.OnMiss("x")
	obs.OnDiscard("x")

	global, err := NewMeterObserver(nil)
	require.NoError(t, err)
	global.OnCreate("y")
}
