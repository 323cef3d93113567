// Package simulator runs one tomasulo engine per configured core
// concurrently and aggregates their completion statistics.
package simulator

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/swlpark/ece552/internal/config"
	"github.com/swlpark/ece552/internal/core"
)

// Statistics summarizes a completed multi-core run.
type Statistics struct {
	TotalCycles          int64
	InstructionsExecuted int64
	IPC                  float64 // total instructions / (TotalCycles * number of cores)
	CoreUtilization      []float64
}

// Simulator is the multi-core Tomasulo simulator: one goroutine per
// configured core, each running its own engine to completion.
type Simulator struct {
	config *config.Config
	logger *log.Logger
	cores  []*core.Processor

	running    atomic.Bool
	wg         sync.WaitGroup
	stopChan   chan struct{}
	stats      Statistics
	statsMutex sync.RWMutex
}

// New constructs a Simulator and loads every configured core's trace.
func New(cfg *config.Config, logger *log.Logger) (*Simulator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration provided")
	}

	sim := &Simulator{
		config:   cfg,
		logger:   logger,
		stopChan: make(chan struct{}),
		stats:    Statistics{CoreUtilization: make([]float64, cfg.NumCores)},
	}

	sim.cores = make([]*core.Processor, cfg.NumCores)
	for i := 0; i < cfg.NumCores; i++ {
		proc, err := core.NewProcessor(i, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize core %d: %w", i, err)
		}
		sim.cores[i] = proc
	}

	return sim, nil
}

// Run drains every core's trace to completion concurrently. Each core's
// engine determines its own cycle count (spec §4.9); there is no externally
// imposed budget.
func (s *Simulator) Run() error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("simulation is already running")
	}
	defer s.running.Store(false)

	startTime := time.Now()

	errs := make([]error, len(s.cores))
	for i, proc := range s.cores {
		s.wg.Add(1)
		go func(i int, p *core.Processor) {
			defer s.wg.Done()
			select {
			case <-s.stopChan:
				return
			default:
			}
			errs[i] = p.Run()
		}(i, proc)
	}
	s.wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("core %d: %w", i, err)
		}
	}

	duration := time.Since(startTime)
	s.calculateStatistics()

	if s.logger != nil {
		s.logger.Printf("simulated %d core(s) in %v", len(s.cores), duration)
	}

	return nil
}

func (s *Simulator) calculateStatistics() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	var maxCycles, totalInstructions int64
	for i, proc := range s.cores {
		cycles := int64(proc.Cycles())
		if cycles > maxCycles {
			maxCycles = cycles
		}
		totalInstructions += int64(proc.Instructions())
		s.stats.CoreUtilization[i] = proc.Utilization()
	}

	s.stats.TotalCycles = maxCycles
	s.stats.InstructionsExecuted = totalInstructions
	if maxCycles > 0 && len(s.cores) > 0 {
		s.stats.IPC = float64(totalInstructions) / float64(maxCycles*int64(len(s.cores)))
	}
}

// GetStatistics returns a copy of the latest run's statistics.
func (s *Simulator) GetStatistics() Statistics {
	s.statsMutex.RLock()
	defer s.statsMutex.RUnlock()

	statsCopy := s.stats
	statsCopy.CoreUtilization = make([]float64, len(s.stats.CoreUtilization))
	copy(statsCopy.CoreUtilization, s.stats.CoreUtilization)
	return statsCopy
}

// Shutdown prevents any core whose goroutine has not yet started Run from
// starting. A core already mid-flight runs to completion: spec §5 gives the
// engine no cancellation or timeout semantics.
func (s *Simulator) Shutdown() {
	if !s.running.Load() {
		return
	}
	close(s.stopChan)
	s.wg.Wait()
}

// Reset reloads every core's trace and clears statistics so the simulator
// can Run again from a clean state.
func (s *Simulator) Reset() error {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stopChan = make(chan struct{})
	s.running.Store(false)

	for i := range s.stats.CoreUtilization {
		s.stats.CoreUtilization[i] = 0.0
	}
	s.stats.TotalCycles = 0
	s.stats.InstructionsExecuted = 0
	s.stats.IPC = 0.0

	for _, proc := range s.cores {
		if err := proc.Reset(); err != nil {
			return err
		}
	}
	return nil
}
