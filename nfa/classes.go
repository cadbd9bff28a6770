package nfa

// computeByteClasses derives a ByteClasses alphabet reduction from an
// already-built NFA by marking a boundary at every distinct byte symbol
// that appears on some transition. Bytes that never distinguish behavior
// for this NFA collapse into the same class. Subset construction itself
// ignores the result (a byte-level automaton with at most 255 states has
// no need to reduce the alphabet to keep DFA.State.Trans within budget),
// but it is retained on NFA.Classes for prefilter.Build, which gates
// literal extraction on how much of the alphabet the pattern distinguishes.
func computeByteClasses(n *NFA) ByteClasses {
	set := NewByteClassSet()
	for _, t := range n.Transitions {
		if t.Sym.IsEpsilon {
			continue
		}
		set.SetByte(t.Sym.Byte)
	}
	return set.ByteClasses()
}
