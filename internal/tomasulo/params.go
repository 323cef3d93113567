// Package tomasulo implements the Tomasulo dynamic-scheduling core: the
// instruction-fetch queue, reservation stations, functional units,
// register producer map, and common-data-bus arbitration that together
// schedule a pre-decoded instruction trace through a four-stage pipeline.
package tomasulo

// Params are the engine's compile-time-configurable parameters (spec §6).
// config.LoadConfig starts from DefaultParams' values for absent fields and
// rejects non-positive ones, so a loaded configuration never passes zero
// values to NewEngine.
type Params struct {
	IFQCapacity  int
	RSIntSlots   int
	RSFPSlots    int
	FUIntSlots   int
	FUFPSlots    int
	LatencyInt   int
	LatencyFP    int
	RegisterFile int
	Debug        bool
}

// DefaultParams returns the parameters named in spec §6.
func DefaultParams() Params {
	return Params{
		IFQCapacity:  10,
		RSIntSlots:   4,
		RSFPSlots:    2,
		FUIntSlots:   2,
		FUFPSlots:    1,
		LatencyInt:   4,
		LatencyFP:    9,
		RegisterFile: 32,
	}
}
