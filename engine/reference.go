package engine

import (
	"github.com/coregx/gpuregex/dfa"
	"github.com/coregx/gpuregex/pdfa"
)

// ReferenceMatch is the "sequential reference" engine of spec §4.5/§8:
// it folds the entire input through the PDFA one byte at a time with no
// block/reduction-tree structure at all, used to validate the
// block-parallel cpuDevice path (and, transitively, any future GPU
// binding) agrees with the simplest possible correct implementation.
func ReferenceMatch(cp *CompiledPattern, input []byte) bool {
	if len(input) == 0 {
		return cp.PDFA.EmptyIsAccepting
	}
	return pdfa.SimulateSerial(cp.PDFA, input)
}

// DFAMatch is the "sequential DFA simulator" of spec §4.5/§8: it walks
// cp's retained classical DFA byte-by-byte instead of going through the
// PDFA at all, used to fuzz-test the PDFA parallelization (package pdfa)
// by random generation, and as the third leg of the differential
// Agreement test (spec §8).
func DFAMatch(cp *CompiledPattern, input []byte) bool {
	return dfa.Simulate(cp.DFA, input)
}
