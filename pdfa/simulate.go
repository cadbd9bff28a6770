package pdfa

// SimulateSerial folds input through p sequentially via InitialStates and
// MergeAt, without any parallel reduction structure. This is the "serial
// PDFA simulator" of spec §4.5/§8, used to validate Build's output
// against dfa.Simulate and as the building block of engine.ReferenceMatch.
func SimulateSerial(p *ParallelDfa, input []byte) bool {
	if len(input) == 0 {
		return p.EmptyIsAccepting
	}
	states := make([]uint8, len(input))
	for i, b := range input {
		states[i] = p.InitialStates[b]
	}
	return p.IsAccepting(Fold(p, states))
}

// Fold reduces a slice of already-mapped per-byte (or per-block) PDFA
// states into one, left-to-right, via repeated MergeAt. Used by
// SimulateSerial; the engine's CPU fallback does its own block folding.
func Fold(p *ParallelDfa, states []uint8) uint8 {
	if len(states) == 0 {
		panic("pdfa: Fold called with no states")
	}
	acc := states[0]
	for _, s := range states[1:] {
		acc = p.MergeAt(acc, s)
	}
	return acc
}
