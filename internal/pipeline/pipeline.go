// Package pipeline describes the configured shape of the Tomasulo machine:
// a read-only topology view used for --show-pipeline output and logging, not
// a stage-by-stage simulation driver (the tomasulo engine owns all
// scheduling state).
package pipeline

import "fmt"

// Stage is one named phase of the machine along with the resource capacity
// it arbitrates (spec §4.10/§6).
type Stage struct {
	Name     string
	Capacity int
}

// Topology is the ordered sequence of stages for a configured machine.
type Topology struct {
	Stages []Stage
}

// NewTopology builds the named stage sequence for a configured machine:
// Fetch (IFQ depth), Dispatch (combined reservation-station capacity),
// Issue (same capacity — issue never blocks on a resource of its own),
// Execute (combined functional-unit capacity), Writeback (the single CDB).
func NewTopology(ifqCapacity, rsInt, rsFP, fuInt, fuFP int) *Topology {
	rsTotal := rsInt + rsFP
	fuTotal := fuInt + fuFP

	return &Topology{
		Stages: []Stage{
			{Name: "Fetch", Capacity: ifqCapacity},
			{Name: "Dispatch", Capacity: rsTotal},
			{Name: "Issue", Capacity: rsTotal},
			{Name: "Execute", Capacity: fuTotal},
			{Name: "Writeback", Capacity: 1},
		},
	}
}

// GetStages returns the topology's stages.
func (t *Topology) GetStages() []Stage {
	return t.Stages
}

// String renders the topology as a single line, e.g.
// "Fetch(10) -> Dispatch(6) -> Issue(6) -> Execute(3) -> Writeback(1)".
func (t *Topology) String() string {
	s := ""
	for i, stage := range t.Stages {
		if i > 0 {
			s += " -> "
		}
		s += fmt.Sprintf("%s(%d)", stage.Name, stage.Capacity)
	}
	return s
}
