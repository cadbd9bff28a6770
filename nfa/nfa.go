// Package nfa builds a Thompson-style epsilon-NFA from a pattern tree and
// represents it as an index-addressed automaton shared in shape with the
// classical DFA built on top of it (see package dfa): states hold a
// (first_transition, num_transitions, accept) triple, and transitions are
// grouped contiguously by source state, sorted by symbol with epsilon
// (Symbol.IsEpsilon) ordered first within a group.
package nfa

import "github.com/coregx/gpuregex/pattern"

// StateID indexes into an NFA's Transitions/States arrays.
type StateID uint32

// Symbol is either a concrete byte or epsilon (IsEpsilon == true).
type Symbol struct {
	Byte      byte
	IsEpsilon bool
}

// Eps is the epsilon symbol.
func Eps() Symbol { return Symbol{IsEpsilon: true} }

// On returns the symbol for a concrete byte transition.
func On(b byte) Symbol { return Symbol{Byte: b} }

// Less orders epsilon before every byte, then bytes ascending, matching
// the invariant that a state's transitions are sorted with epsilon first.
func (s Symbol) Less(o Symbol) bool {
	if s.IsEpsilon != o.IsEpsilon {
		return s.IsEpsilon
	}
	return s.Byte < o.Byte
}

// Transition is one (destination, symbol) edge.
type Transition struct {
	Dst StateID
	Sym Symbol
}

// State is one NFA state's transition-group header plus accept flag.
type State struct {
	First   uint32
	NumTrns uint32
	Accept  bool
}

// NFA is an epsilon-NFA in the shared index-addressed shape. Start state
// is always index 0. Built once by Build and then immutable; Subset
// construction (package dfa) treats it as read-only.
type NFA struct {
	States      []State
	Transitions []Transition
	Classes     ByteClasses
}

// TransitionsOf returns the transition group for state s.
func (n *NFA) TransitionsOf(s StateID) []Transition {
	st := n.States[s]
	return n.Transitions[st.First : st.First+st.NumTrns]
}

// Build runs Thompson construction over p and returns the resulting NFA.
// Every pattern tree node variant from package pattern is handled; the
// single accept state of the whole pattern is the NFA's designated match
// state (spec's "exactly one state is marked accept").
func Build(p *pattern.Pattern) *NFA {
	b := newBuilder()
	start, accept := b.compile(p, p.Root())
	b.patch(accept, true)
	nfa := b.finish(start)
	nfa.Classes = computeByteClasses(nfa)
	return nfa
}
