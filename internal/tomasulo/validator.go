package tomasulo

import (
	"fmt"

	"github.com/swlpark/ece552/internal/trace"
)

// Violation is one failed testable property (spec §8), identified by the
// trace index of the instruction that failed it.
type Violation struct {
	Index    int
	Property string
	Detail   string
}

func (v Violation) String() string {
	return fmt.Sprintf("index %d: %s: %s", v.Index, v.Property, v.Detail)
}

// Validate walks a completed trace and checks properties P1, P2, P3, P4 and
// P7 from spec §8. It never panics — a violation here is a diagnostic
// finding about the trace/engine interaction, not a programming invariant;
// those are already enforced (and would have panicked) during Run.
func Validate(tr *trace.Trace, params Params) []Violation {
	var violations []Violation
	var prevDispatch, prevIssue int
	sawPrev := false

	for i := 1; i <= tr.NumInsn(); i++ {
		inst := tr.Instr(i)
		if inst.IsTrap() {
			continue
		}

		schedulable := inst.UsesIntFU() || inst.UsesFPFU()
		if schedulable {
			if !(inst.DispatchCycle > 0 && inst.DispatchCycle < inst.IssueCycle &&
				inst.IssueCycle < inst.ExecuteCycle && inst.ExecuteCycle <= inst.CDBCycle) {
				violations = append(violations, Violation{i, "P1", "cycle stamps are not strictly monotone"})
			}
			if inst.IssueCycle != inst.DispatchCycle+1 {
				violations = append(violations, Violation{i, "P2", "issue cycle does not follow dispatch by exactly one"})
			}

			latency := params.LatencyInt
			if inst.UsesFPFU() {
				latency = params.LatencyFP
			}
			if inst.IsStore() {
				if inst.CDBCycle != inst.ExecuteCycle+latency-1 {
					violations = append(violations, Violation{i, "P3", "store completion cycle does not match execute+latency-1"})
				}
				if inst.CDBCycle <= 0 {
					violations = append(violations, Violation{i, "P7", "store never completed"})
				}
			} else if inst.CDBCycle < inst.ExecuteCycle+latency {
				violations = append(violations, Violation{i, "P3", "writeback arrived before the functional unit's latency elapsed"})
			}
		}

		if !inst.IsBranch() {
			if sawPrev {
				if inst.DispatchCycle <= prevDispatch {
					violations = append(violations, Violation{i, "P4", "dispatch cycle did not increase in program order"})
				}
				if inst.IssueCycle != 0 && prevIssue != 0 && inst.IssueCycle <= prevIssue {
					violations = append(violations, Violation{i, "P4", "issue cycle did not increase in program order"})
				}
			}
			prevDispatch, prevIssue = inst.DispatchCycle, inst.IssueCycle
			sawPrev = true
		}
	}

	return violations
}
