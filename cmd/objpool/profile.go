package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"
)

// profiler writes CPU and heap profiles around a workload run.
type profiler struct {
	cpuFile string
	memFile string
	cpu     *os.File
	log     *zap.Logger
}

// start begins CPU profiling if a CPU profile file was requested.
func (p *profiler) start() error {
	if p.cpuFile == "" {
		return nil
	}
	f, err := os.Create(p.cpuFile)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	p.cpu = f
	p.log.Info("CPU profiling enabled", zap.String("file", p.cpuFile))
	return nil
}

// stop ends CPU profiling and writes the heap profile.
func (p *profiler) stop() error {
	if p.cpu != nil {
		pprof.StopCPUProfile()
		if err := p.cpu.Close(); err != nil {
			return fmt.Errorf("failed to close CPU profile: %w", err)
		}
		p.cpu = nil
	}
	if p.memFile == "" {
		return nil
	}

	f, err := os.Create(p.memFile)
	if err != nil {
		return fmt.Errorf("failed to create memory profile: %w", err)
	}
	defer f.Close()

	runtime.GC() // Get up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	p.log.Info("memory profile written", zap.String("file", p.memFile))
	return nil
}
