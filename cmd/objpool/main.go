package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/objectpool/internal/workload"
	"github.com/ajitpratap0/objectpool/pkg/config"
	"github.com/ajitpratap0/objectpool/pkg/logger"
	"github.com/ajitpratap0/objectpool/pkg/metrics"
	"github.com/ajitpratap0/objectpool/pkg/observability"
	"github.com/ajitpratap0/objectpool/pkg/pool"
)

var version = pool.Version

const (
	envPrefix             = "OBJPOOL"
	metricsShutdownPeriod = 5 * time.Second
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "objpool",
		Short: "objpool - generic object pools and a workload driver",
		Long: `objpool exercises the objectpool library. It builds one pool from a
YAML configuration, drives it with concurrent take/hold/put loops and
reports throughput, take latency and pool events.`,
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "objpool v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newConfigCmd(), newRunCmd())
	return root
}

func newConfigCmd() *cobra.Command {
	var validate string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration or validate a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if validate != "" {
				loaded, err := config.Load(validate)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&validate, "validate", "", "Load, validate and print a configuration file")
	return cmd
}

func newRunCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a pool with a concurrent workload",
		Long: `Run builds the configured pool and drives it until the duration elapses
or the process is interrupted. Flags override the configuration file and
every flag can also be set through an OBJPOOL_ environment variable.

Example:
  objpool run --config pool.yaml --workers 32 --duration 30s
  OBJPOOL_KIND=bounded OBJPOOL_MAX_SIZE=8 objpool run --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			return runWorkload(cmd.Context(), cmd.OutOrStdout(), cfg, runOptions{
				JSON:       v.GetBool("json"),
				CPUProfile: v.GetString("cpuprofile"),
				MemProfile: v.GetString("memprofile"),
			})
		},
	}

	f := cmd.Flags()
	f.String("config", "", "Path to a YAML configuration file")
	f.String("name", "", "Pool name used in logs and metric labels")
	f.String("kind", "", "Pool kind (blocking, non_blocking, bounded, soft, suspending)")
	f.String("queue", "", "Backing queue (ring, array, linked, mpmc, channel)")
	f.Int("size", 0, "Pre-fill count for blocking and suspending pools")
	f.Int("max-size", 0, "Ceiling of bounded pools")
	f.Int("workers", 0, "Number of concurrent workers (default: number of CPUs)")
	f.Duration("duration", 0, "How long to run (0 runs until interrupted)")
	f.Float64("rate", 0, "Takes per second across all workers (0 = unlimited)")
	f.Duration("hold", 0, "How long a worker keeps an object")
	f.Duration("take-timeout", 0, "Per-take timeout")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	f.Bool("trace", false, "Export a trace of the run to stderr")
	f.String("log-level", "", "Log level (debug, info, warn, error)")
	f.Bool("json", false, "Print the report as JSON")
	f.String("cpuprofile", "", "Write a CPU profile of the run to this file")
	f.String("memprofile", "", "Write a heap profile after the run to this file")
	_ = v.BindPFlags(f)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

// loadConfig reads the configuration file, if any, and applies every flag
// or environment variable that was set on top of it.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v.IsSet("name") {
		cfg.Pool.Name = v.GetString("name")
	}
	if v.IsSet("kind") {
		cfg.Pool.Kind = config.Kind(v.GetString("kind"))
	}
	if v.IsSet("queue") {
		cfg.Pool.Queue = config.QueueType(v.GetString("queue"))
	}
	if v.IsSet("size") {
		cfg.Pool.Size = v.GetInt("size")
	}
	if v.IsSet("max-size") {
		cfg.Pool.MaxSize = v.GetInt("max-size")
	}
	if v.IsSet("workers") {
		cfg.Workload.Workers = v.GetInt("workers")
	}
	if v.IsSet("duration") {
		cfg.Workload.Duration = v.GetDuration("duration")
	}
	if v.IsSet("rate") {
		cfg.Workload.Rate = v.GetFloat64("rate")
	}
	if v.IsSet("hold") {
		cfg.Workload.Hold = v.GetDuration("hold")
	}
	if v.IsSet("take-timeout") {
		cfg.Workload.TakeTimeout = v.GetDuration("take-timeout")
	}
	if v.IsSet("metrics-addr") {
		cfg.Observability.MetricsAddr = v.GetString("metrics-addr")
	}
	if v.IsSet("trace") {
		cfg.Observability.EnableTracing = v.GetBool("trace")
	}
	if v.IsSet("log-level") {
		cfg.Logging.Level = v.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runOptions are the run settings that do not belong in the config file.
type runOptions struct {
	JSON       bool
	CPUProfile string
	MemProfile string
}

func runWorkload(ctx context.Context, out io.Writer, cfg *config.Config, ro runOptions) error {
	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get().With(zap.String("component", "objpool-cli"))

	opts := []workload.Option{workload.WithLogger(log)}

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, workload.WithPrometheus(metrics.NewPrometheus(reg)))

		stop := serveMetrics(log, addr, reg)
		defer stop()
	}

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig(version)
		tc.Writer = os.Stderr
		shutdown, err := observability.InitTracing(tc)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("failed to flush traces", zap.Error(err))
			}
		}()

		meterObs, err := observability.NewMeterObserver(nil)
		if err != nil {
			return err
		}
		opts = append(opts, workload.WithObserver(meterObs))
	}

	runner, err := workload.New(cfg, opts...)
	if err != nil {
		return err
	}

	prof := &profiler{cpuFile: ro.CPUProfile, memFile: ro.MemProfile, log: log}
	if err := prof.start(); err != nil {
		return err
	}
	report, err := runner.Run(ctx)
	if perr := prof.stop(); perr != nil {
		log.Warn("profiling failed", zap.Error(perr))
	}
	if err != nil {
		return fmt.Errorf("workload failed: %w", err)
	}

	if ro.JSON {
		return report.WriteJSON(out)
	}
	return report.WriteText(out)
}

// serveMetrics exposes reg on addr until the returned func is called.
func serveMetrics(log *zap.Logger, addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownPeriod)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("failed to stop metrics server", zap.Error(err))
		}
	}
}
