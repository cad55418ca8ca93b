package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewDefaults(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestForPoolNilBaseIsNop(t *testing.T) {
	l := ForPool(nil, "p", "blocking")
	require.NotNil(t, l)
	// must not panic
	l.Info("ignored")
}

func TestForPoolAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := ForPool(zap.New(core), "buffers", "bounded")

	l.Debug("discard")

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "buffers", ctx["pool"])
	assert.Equal(t, "bounded", ctx["variant"])
}

func TestInitReplacesGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objpool.log")
	require.NoError(t, Init(Config{Level: "warn", OutputPaths: []string{path}}))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	log := Get()
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	log.Info("dropped")
	log.Warn("kept", zap.String("pool", "conns"))
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"kept"`)
	assert.Contains(t, string(data), `"pool":"conns"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestInitKeepsPreviousOnError(t *testing.T) {
	require.NoError(t, Init(Config{Level: "error", OutputPaths: []string{"stderr"}}))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })
	before := Get()

	require.Error(t, Init(Config{Level: "loud"}))
	assert.Same(t, before, Get())
}
