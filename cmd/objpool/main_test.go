package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/objectpool/pkg/config"
	"github.com/ajitpratap0/objectpool/pkg/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "objpool v"+version)
}

func TestConfigPrintsDefault(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: blocking")
	assert.Contains(t, out, "workload:")
}

func TestConfigValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	cfg := config.Default()
	cfg.Pool.Kind = config.KindBounded
	cfg.Pool.MaxSize = 3
	require.NoError(t, config.Save(path, cfg))

	out, err := execute(t, "config", "--validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: bounded")

	require.NoError(t, os.WriteFile(path, []byte("pool:\n  name: x\n  kind: nope\n"), 0o600))
	_, err = execute(t, "config", "--validate", path)
	require.Error(t, err)
}

func runReport(t *testing.T, args ...string) map[string]any {
	t.Helper()
	args = append([]string{"run", "--json", "--log-level", "error", "--duration", "50ms"}, args...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	return report
}

func TestRunFlags(t *testing.T) {
	report := runReport(t, "--kind", "bounded", "--max-size", "2", "--workers", "3", "--name", "conns")
	assert.Equal(t, "conns", report["pool"])
	assert.Equal(t, "bounded", report["kind"])
	assert.Equal(t, "mpmc", report["queue"])
	assert.EqualValues(t, 3, report["workers"])
	assert.Greater(t, report["ops"].(float64), 0.0)
}

func TestRunEnvironment(t *testing.T) {
	t.Setenv("OBJPOOL_KIND", "suspending")
	t.Setenv("OBJPOOL_WORKERS", "2")
	t.Setenv("OBJPOOL_TAKE_TIMEOUT", "10ms")

	report := runReport(t)
	assert.Equal(t, "suspending", report["kind"])
	assert.Equal(t, "channel", report["queue"])
	assert.EqualValues(t, 2, report["workers"])
}

func TestRunConfigFileWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	cfg := config.Default()
	cfg.Pool.Name = "from-file"
	cfg.Pool.Kind = config.KindNonBlocking
	cfg.Workload.Workers = 5
	require.NoError(t, config.Save(path, cfg))

	report := runReport(t, "--config", path, "--workers", "2")
	assert.Equal(t, "from-file", report["pool"])
	assert.Equal(t, "linked", report["queue"])
	assert.EqualValues(t, 2, report["workers"])
}

func TestRunRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "run", "--kind", "blocking", "--queue", "linked", "--duration", "10ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestRunTextReport(t *testing.T) {
	out, err := execute(t, "run", "--kind", "soft", "--duration", "30ms", "--workers", "2", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "(soft, linked queue)")
	assert.Contains(t, out, "reclaims:")
	assert.Contains(t, out, "missed:")
}

func TestRunInstallsGlobalLogger(t *testing.T) {
	t.Cleanup(func() { _ = logger.Init(logger.DefaultConfig()) })

	_, err := execute(t, "run", "--kind", "non_blocking", "--duration", "10ms", "--workers", "1", "--log-level", "error")
	require.NoError(t, err)

	core := logger.Get().Core()
	assert.True(t, core.Enabled(zap.ErrorLevel))
	assert.False(t, core.Enabled(zap.WarnLevel))
}

func TestRunWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	runReport(t, "--kind", "non_blocking", "--workers", "2", "--cpuprofile", cpu, "--memprofile", mem)

	for _, f := range []string{cpu, mem} {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
