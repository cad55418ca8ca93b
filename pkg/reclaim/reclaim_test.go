package reclaim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefGetAndClear(t *testing.T) {
	r := NewRef("payload", nil)

	v, ok := r.Get()
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	r.Clear()
	v, ok = r.Get()
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestReclaimerInvalidatesOlderRefs(t *testing.T) {
	rc := NewReclaimer()
	old := NewRef(1, rc)

	rc.Reclaim()
	fresh := NewRef(2, rc)

	_, ok := old.Get()
	assert.False(t, ok)

	v, ok := fresh.Get()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, uint64(1), rc.Generation())
}

func TestWatcherCheckThresholds(t *testing.T) {
	tests := []struct {
		name    string
		cfg     WatcherConfig
		sample  Sample
		reclaim bool
	}{
		{"below limits", WatcherConfig{MaxHeapBytes: 100, MaxSystemPercent: 90}, Sample{HeapAlloc: 50, SystemUsedPercent: 40}, false},
		{"heap over", WatcherConfig{MaxHeapBytes: 100}, Sample{HeapAlloc: 150}, true},
		{"system over", WatcherConfig{MaxSystemPercent: 80}, Sample{HeapAlloc: 1, SystemUsedPercent: 95}, true},
		{"disabled", WatcherConfig{}, Sample{HeapAlloc: 1 << 40, SystemUsedPercent: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := NewReclaimer()
			ref := NewRef("x", rc)
			w := NewWatcher(rc, tt.cfg, WithSampler(func() (Sample, error) { return tt.sample, nil }))

			got, err := w.Check()
			require.NoError(t, err)
			assert.Equal(t, tt.reclaim, got)

			_, alive := ref.Get()
			assert.Equal(t, !tt.reclaim, alive)
		})
	}
}

func TestWatcherSamplerError(t *testing.T) {
	boom := errors.New("no meminfo")
	w := NewWatcher(NewReclaimer(), WatcherConfig{MaxHeapBytes: 1},
		WithSampler(func() (Sample, error) { return Sample{}, boom }))

	got, err := w.Check()
	assert.False(t, got)
	assert.ErrorIs(t, err, boom)
}

func TestWatcherStartStop(t *testing.T) {
	var calls atomic.Int32
	rc := NewReclaimer()
	w := NewWatcher(rc, WatcherConfig{Interval: 5 * time.Millisecond, MaxHeapBytes: 10},
		WithSampler(func() (Sample, error) {
			calls.Add(1)
			return Sample{HeapAlloc: 20}, nil
		}))

	w.Start(context.Background())
	w.Start(context.Background()) // no-op while running

	require.Eventually(t, func() bool { return w.Reclaims() >= 2 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()
	w.Stop()

	n := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, calls.Load(), "no samples after Stop")
	assert.GreaterOrEqual(t, rc.Generation(), uint64(2))
}

func TestSampleMemory(t *testing.T) {
	s, err := SampleMemory()
	if err != nil {
		t.Skipf("system memory unavailable: %v", err)
	}
	assert.NotZero(t, s.HeapAlloc)
}
