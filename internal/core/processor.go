// Package core wraps one Tomasulo engine instance per simulated processor
// core, loading its trace and exposing the run/statistics surface the
// multi-core simulator drives.
package core

import (
	"fmt"
	"log"

	"github.com/swlpark/ece552/internal/config"
	"github.com/swlpark/ece552/internal/tomasulo"
	"github.com/swlpark/ece552/internal/trace"
)

// Processor is one simulated core: a trace and the engine scheduling it.
type Processor struct {
	ID     int
	config *config.Config
	logger *log.Logger

	engine *tomasulo.Engine
	tr     *trace.Trace

	done bool
}

// NewProcessor loads core id's trace and constructs its engine.
func NewProcessor(id int, cfg *config.Config, logger *log.Logger) (*Processor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration provided")
	}

	tr, err := trace.Load(cfg.TracePath(id))
	if err != nil {
		return nil, fmt.Errorf("core %d: failed to load trace: %w", id, err)
	}

	return &Processor{
		ID:     id,
		config: cfg,
		logger: logger,
		engine: tomasulo.NewEngine(cfg.Params(), logger),
		tr:     tr,
	}, nil
}

// Run drains this core's trace through its engine to completion.
func (p *Processor) Run() error {
	if _, err := p.engine.Run(p.tr); err != nil {
		return fmt.Errorf("core %d: %w", p.ID, err)
	}
	p.done = true
	return nil
}

// Cycles returns the total cycle count of the completed run.
func (p *Processor) Cycles() int {
	return p.engine.Cycles()
}

// Instructions returns the number of instructions in this core's trace,
// traps included.
func (p *Processor) Instructions() int {
	return p.tr.NumInsn()
}

// Utilization returns the fraction of cycles in which any reservation
// station was occupied.
func (p *Processor) Utilization() float64 {
	cycles := p.engine.Cycles()
	if cycles == 0 {
		return 0.0
	}
	return float64(p.engine.BusyCycles()) / float64(cycles)
}

// Validate runs the post-simulation property checks (spec §8) against this
// core's completed trace.
func (p *Processor) Validate() []tomasulo.Violation {
	return tomasulo.Validate(p.tr, p.config.Params())
}

// Trace exposes the underlying decoded trace for inspection/reporting.
func (p *Processor) Trace() *trace.Trace {
	return p.tr
}

// Reset reloads this core's trace and constructs a fresh engine, so the
// processor can be run again from a clean state.
func (p *Processor) Reset() error {
	tr, err := trace.Load(p.config.TracePath(p.ID))
	if err != nil {
		return fmt.Errorf("core %d: failed to reload trace: %w", p.ID, err)
	}
	p.tr = tr
	p.engine = tomasulo.NewEngine(p.config.Params(), p.logger)
	p.done = false
	return nil
}
