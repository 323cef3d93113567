package tomasulo

import (
	"fmt"
	"log"

	"github.com/swlpark/ece552/internal/trace"
)

// Engine is one Tomasulo scheduler instance: the instruction-fetch queue,
// reservation stations, functional units, register producer map and CDB
// arbiter described in spec §3-§4. An Engine is single-use: call Run once
// per trace.
type Engine struct {
	params Params
	logger *log.Logger

	q           *ifq
	rsInt, rsFP *rsTable
	fuInt, fuFP *fuTable
	mt          *mapTable
	cdb         int // trace index currently broadcasting, 0 if none

	fetchIndex int
	cycle      int
	busyCycles int

	tr      *trace.Trace
	numInsn int
}

// Cycles returns the total cycle count of the last Run.
func (e *Engine) Cycles() int { return e.cycle }

// BusyCycles returns the number of cycles in which any reservation station
// was occupied — a schedule-density metric consulted by core.Processor's
// Utilization.
func (e *Engine) BusyCycles() int { return e.busyCycles }

// NewEngine constructs an Engine with the given parameters. logger may be
// nil; it is only consulted when params.Debug is set, to report
// unclassified opcodes (spec §7).
func NewEngine(params Params, logger *log.Logger) *Engine {
	return &Engine{
		params: params,
		logger: logger,
		q:      newIFQ(params.IFQCapacity),
		rsInt:  newRSTable(params.RSIntSlots),
		rsFP:   newRSTable(params.RSFPSlots),
		fuInt:  newFUTable(params.FUIntSlots),
		fuFP:   newFUTable(params.FUFPSlots),
		mt:     newMapTable(params.RegisterFile),
	}
}

// Run drains tr through the engine and returns the total cycle count,
// stamping each non-trap instruction's dispatch/issue/execute/cdb cycles
// in place (branches receive only a dispatch cycle). The only error path is a nil trace; everything else is a
// programming-invariant panic (spec §7).
func (e *Engine) Run(tr *trace.Trace) (int, error) {
	if tr == nil {
		return 0, fmt.Errorf("tomasulo: nil trace")
	}

	e.tr = tr
	e.numInsn = tr.NumInsn()
	e.fetchIndex = 1
	e.cycle = 1

	for {
		if e.rsInt.occupied() > 0 || e.rsFP.occupied() > 0 {
			e.busyCycles++
		}

		e.fetchToDispatch()
		e.dispatchToIssue()
		e.issueToExecute()
		e.executeToCDB()
		e.cdbToRetire()
		e.cycle++

		if e.isDone() {
			break
		}
	}

	return e.cycle, nil
}

func (e *Engine) isDone() bool {
	return e.fetchIndex > e.numInsn && e.rsInt.occupied() == 0 && e.rsFP.occupied() == 0
}

// fetchToDispatch implements spec §4.4: fetch pulls the next non-trap
// instruction into the IFQ, then dispatch tries to allocate a reservation
// station (or complete a branch) for the oldest queued instruction.
func (e *Engine) fetchToDispatch() {
	e.fetch()
	e.dispatch()
}

func (e *Engine) fetch() {
	if e.fetchIndex > e.numInsn {
		return
	}
	if e.q.IsFull() {
		return
	}

	for {
		if e.fetchIndex > e.numInsn {
			return
		}
		idx := e.fetchIndex
		e.fetchIndex++
		inst := e.tr.Instr(idx)
		if inst.IsTrap() {
			continue
		}
		e.q.push(idx)
		return
	}
}

func (e *Engine) dispatch() {
	if e.q.IsEmpty() {
		return
	}

	idx := e.q.peekTail()
	inst := e.tr.Instr(idx)
	dispatched := false

	switch {
	case inst.UsesIntFU():
		tags := e.rawTags(inst)
		if e.rsInt.allocate(idx, tags) {
			inst.DispatchCycle = e.cycle
			e.mt.set(idx, inst.Out)
			dispatched = true
		}
	case inst.UsesFPFU():
		tags := e.rawTags(inst)
		if e.rsFP.allocate(idx, tags) {
			inst.DispatchCycle = e.cycle
			e.mt.set(idx, inst.Out)
			dispatched = true
		}
	case inst.IsBranch():
		inst.DispatchCycle = e.cycle
		dispatched = true
	default:
		if !inst.Known() && e.params.Debug && e.logger != nil {
			e.logger.Printf("debug: unclassified opcode %q (class %q) at index %d, treating as branch", inst.Op, inst.Class, idx)
		}
		inst.DispatchCycle = e.cycle
		dispatched = true
	}

	if !dispatched {
		return
	}
	e.q.popTail()
}

// rawTags captures the current map-table producer for each input operand,
// before inst's own outputs overwrite the map table this cycle.
func (e *Engine) rawTags(inst *trace.Instruction) [3]int {
	return [3]int{
		e.mt.lookup(inst.In[0]),
		e.mt.lookup(inst.In[1]),
		e.mt.lookup(inst.In[2]),
	}
}

// dispatchToIssue implements spec §4.5: every RS entry dispatched exactly
// one cycle ago issues this cycle.
func (e *Engine) dispatchToIssue() {
	e.issueTable(e.rsInt)
	e.issueTable(e.rsFP)
}

func (e *Engine) issueTable(t *rsTable) {
	for _, s := range t.slots {
		if s == 0 {
			continue
		}
		inst := e.tr.Instr(s)
		if inst.IssueCycle == 0 && inst.DispatchCycle == e.cycle-1 {
			inst.IssueCycle = e.cycle
		}
	}
}

// issueToExecute implements spec §4.6: each free FU slot (INT first, then
// FP) claims the oldest ready, issued-but-not-executing RS entry.
func (e *Engine) issueToExecute() {
	e.execTable(e.rsInt, e.fuInt)
	e.execTable(e.rsFP, e.fuFP)
}

func (e *Engine) execTable(rs *rsTable, fu *fuTable) {
	for {
		slot := fu.firstFree()
		if slot == -1 {
			return
		}

		best := -1
		for j, s := range rs.slots {
			if s == 0 || !rs.ready(j) {
				continue
			}
			inst := e.tr.Instr(s)
			if inst.ExecuteCycle != 0 {
				continue
			}
			if !(inst.IssueCycle > 0 && inst.IssueCycle < e.cycle) {
				continue
			}
			if best == -1 || e.tr.Instr(rs.slots[best]).DispatchCycle > inst.DispatchCycle {
				best = j
			}
		}
		if best == -1 {
			return
		}

		idx := rs.slots[best]
		e.tr.Instr(idx).ExecuteCycle = e.cycle
		fu.slots[slot] = idx
	}
}

// executeToCDB implements spec §4.7: broadcast last cycle's CDB winner,
// then arbitrate this cycle's completion-eligible instructions.
func (e *Engine) executeToCDB() {
	if e.cdb != 0 {
		winner := e.tr.Instr(e.cdb)
		assertf(e.cycle == winner.CDBCycle, "CDB broadcast at cycle %d but winner %d was assigned cycle %d", e.cycle, e.cdb, winner.CDBCycle)

		e.mt.clearIf(e.cdb, winner.Out)
		e.rsInt.clearTag(e.cdb)
		e.rsFP.clearTag(e.cdb)
		e.cdb = 0
	}

	var winner, winnerDispatch int
	consider := func(fu *fuTable, latency int) {
		for i, s := range fu.slots {
			if s == 0 {
				continue
			}
			inst := e.tr.Instr(s)
			assertf(inst.ExecuteCycle > 0, "FU slot %d holds instruction %d with no execute cycle", i, s)

			completeCycle := inst.ExecuteCycle + latency - 1
			if completeCycle > e.cycle {
				continue
			}

			if inst.IsStore() {
				inst.CDBCycle = completeCycle
				fu.free(s)
				e.rsInt.free(s)
				e.rsFP.free(s)
				continue
			}

			if winner == 0 || inst.DispatchCycle < winnerDispatch {
				winner = s
				winnerDispatch = inst.DispatchCycle
			}
		}
	}

	consider(e.fuInt, e.params.LatencyInt)
	consider(e.fuFP, e.params.LatencyFP)

	if winner == 0 {
		return
	}

	inst := e.tr.Instr(winner)
	inst.CDBCycle = e.cycle + 1
	e.cdb = winner
	e.fuInt.free(winner)
	e.fuFP.free(winner)
}

// cdbToRetire implements spec §4.8: free the RS slot of the instruction
// that claimed the CDB this cycle.
func (e *Engine) cdbToRetire() {
	e.retireTable(e.rsInt)
	e.retireTable(e.rsFP)
}

func (e *Engine) retireTable(t *rsTable) {
	for _, s := range t.slots {
		if s == 0 {
			continue
		}
		inst := e.tr.Instr(s)
		if inst.CDBCycle == e.cycle+1 {
			t.free(s)
		}
	}
}
