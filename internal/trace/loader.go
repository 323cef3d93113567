package trace

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// entry is the on-disk YAML shape of one instruction. Out/In default to
// DNA when omitted so hand-written traces can leave unused operands out
// entirely.
type entry struct {
	Op    string `yaml:"op"`
	Class string `yaml:"class"`
	Out   []int  `yaml:"out"`
	In    []int  `yaml:"in"`
}

// Trace is a 1-indexed, fully materialized sequence of decoded
// instructions. Trace owns its instruction records; every other component
// only ever holds a weak reference (the Index) into it.
type Trace struct {
	instrs []Instruction // instrs[0] is unused; instructions live at 1..NumInsn
}

// NumInsn is sim_num_insn: the number of instructions available to fetch.
func (t *Trace) NumInsn() int {
	return len(t.instrs) - 1
}

// Instr returns a pointer to instruction k (1-based). The engine stamps
// its cycle fields directly through this pointer.
func (t *Trace) Instr(k int) *Instruction {
	return &t.instrs[k]
}

// Load reads a YAML trace file and returns a materialized Trace.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML trace bytes into a Trace.
func Parse(data []byte) (*Trace, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}

	tr := &Trace{instrs: make([]Instruction, len(entries)+1)}
	for i, e := range entries {
		idx := i + 1
		inst := Instruction{
			Index: idx,
			Op:    e.Op,
			Class: Class(e.Class),
			Out:   [2]int{DNA, DNA},
			In:    [3]int{DNA, DNA, DNA},
		}
		for j, r := range e.Out {
			if j >= len(inst.Out) {
				return nil, fmt.Errorf("trace entry %d: too many output registers", idx)
			}
			inst.Out[j] = r
		}
		for j, r := range e.In {
			if j >= len(inst.In) {
				return nil, fmt.Errorf("trace entry %d: too many input registers", idx)
			}
			inst.In[j] = r
		}
		tr.instrs[idx] = inst
	}
	return tr, nil
}
