// Package dfa performs eager subset construction over an epsilon-NFA
// (package nfa), producing a classical byte-level DFA with no unreachable
// states. Unlike the teacher's lazy/on-demand determinization (suited to
// capturing search over unbounded input), this construction runs to
// completion up front: the PDFA parallelization stage (package pdfa)
// needs the complete transition function before it can enumerate merge
// functions, so there is nothing to gain from laziness here.
package dfa

import (
	"sort"

	"github.com/coregx/gpuregex/internal/conv"
	"github.com/coregx/gpuregex/internal/sparse"
	"github.com/coregx/gpuregex/nfa"
)

// StateID indexes into a DFA's States array. Start state is always 0.
type StateID uint32

// noTransition marks the absence of an outgoing transition for a byte;
// missing transitions are implicit rejection (spec §4.3).
const noTransition = ^uint32(0)

// State holds one DFA state's 256-entry transition table (indexed
// directly by byte value; dense rather than the NFA's sorted
// group-by-symbol layout, since subset construction needs O(1) transition
// lookup per byte while building and this shape only costs 1KB/state,
// negligible next to the per-state bitset work it replaces) and its
// accept flag.
type State struct {
	Trans  [256]uint32 // noTransition, or a StateID
	Accept bool
}

// DFA is the fully determinized automaton. Built once by Build; consumed
// read-only by package pdfa.
type DFA struct {
	States []State
}

// Step returns the destination state for (s, b), or (0, false) if there
// is no such transition.
func (d *DFA) Step(s StateID, b byte) (StateID, bool) {
	t := d.States[s].Trans[b]
	if t == noTransition {
		return 0, false
	}
	return StateID(t), true
}

// Simulate walks the DFA byte-by-byte from the start state and reports
// whether the input is accepted. Used as the "sequential DFA simulator"
// reference engine (spec §4.5, §8) and by differential/fuzz tests.
func Simulate(d *DFA, input []byte) bool {
	cur := StateID(0)
	for _, b := range input {
		next, ok := d.Step(cur, b)
		if !ok {
			return false
		}
		cur = next
	}
	return d.States[cur].Accept
}

// subset is a sorted, deduplicated set of NFA state IDs: the unit of
// content-addressed dedup subset construction interns into DFA states.
type subset struct {
	ids []nfa.StateID
}

func (s subset) key() string {
	// ids are always produced pre-sorted by closure, so this is a
	// stable content key without an extra sort here.
	buf := make([]byte, len(s.ids)*4)
	for i, id := range s.ids {
		buf[i*4] = byte(id)
		buf[i*4+1] = byte(id >> 8)
		buf[i*4+2] = byte(id >> 16)
		buf[i*4+3] = byte(id >> 24)
	}
	return string(buf)
}

// Build determinizes n into a DFA via subset construction: closure,
// follow, move as specified in spec §4.3, with an ordered, deduplicating
// content-addressed store keyed by subset contents so equal NFA-state
// sets intern to one DFA state.
func Build(n *nfa.NFA) *DFA {
	store := newStateStore()
	closureBuf := sparse.NewSparseSet(conv.IntToUint32(len(n.States)))

	start := closure(n, []nfa.StateID{0}, closureBuf)
	startID := store.intern(start)

	var dfaStates []State
	ensureSize := func(id StateID) {
		for int(id) >= len(dfaStates) {
			var s State
			for i := range s.Trans {
				s.Trans[i] = noTransition
			}
			dfaStates = append(dfaStates, s)
		}
	}

	worklist := []StateID{startID}
	seen := map[StateID]bool{startID: true}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		sub := store.subsets[cur]

		ensureSize(cur)
		dfaStates[cur].Accept = isAccepting(n, sub)

		for _, b := range follow(n, sub) {
			moved := move(n, sub, b)
			closed := closure(n, moved, closureBuf)
			if len(closed.ids) == 0 {
				continue
			}
			dst := store.intern(closed)
			ensureSize(dst)
			dfaStates[cur].Trans[b] = uint32(dst)
			if !seen[dst] {
				seen[dst] = true
				worklist = append(worklist, dst)
			}
		}
	}

	return &DFA{States: dfaStates}
}

func isAccepting(n *nfa.NFA, s subset) bool {
	for _, id := range s.ids {
		if n.States[id].Accept {
			return true
		}
	}
	return false
}

// closure extends seed by repeatedly following epsilon transitions,
// exploiting that a state's transitions are sorted epsilon-first: once a
// non-epsilon transition is seen, iteration over that state's group
// stops (spec §4.3).
func closure(n *nfa.NFA, seed []nfa.StateID, buf *sparse.SparseSet) subset {
	buf.Clear()
	stack := make([]nfa.StateID, 0, len(seed))
	for _, id := range seed {
		if !buf.Contains(uint32(id)) {
			buf.Insert(uint32(id))
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range n.TransitionsOf(id) {
			if !t.Sym.IsEpsilon {
				break
			}
			if !buf.Contains(uint32(t.Dst)) {
				buf.Insert(uint32(t.Dst))
				stack = append(stack, t.Dst)
			}
		}
	}
	ids := make([]nfa.StateID, buf.Size())
	for i, v := range buf.Values() {
		ids[i] = nfa.StateID(v)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return subset{ids: ids}
}

// follow returns the sorted, deduplicated set of bytes labelling any
// non-epsilon outgoing transition from any state in s.
func follow(n *nfa.NFA, s subset) []byte {
	var seen [256]bool
	for _, id := range s.ids {
		for _, t := range n.TransitionsOf(id) {
			if !t.Sym.IsEpsilon {
				seen[t.Sym.Byte] = true
			}
		}
	}
	var out []byte
	for b := 0; b < 256; b++ {
		if seen[b] {
			out = append(out, byte(b))
		}
	}
	return out
}

// move returns every NFA destination reached by a b-labelled transition
// from any state in s.
func move(n *nfa.NFA, s subset, b byte) []nfa.StateID {
	var out []nfa.StateID
	for _, id := range s.ids {
		for _, t := range n.TransitionsOf(id) {
			if t.Sym.IsEpsilon {
				continue
			}
			if t.Sym.Byte == b {
				out = append(out, t.Dst)
			}
		}
	}
	return out
}

// stateStore interns subsets by content, assigning each distinct subset a
// dense StateID, mirroring the content-addressed dedup idiom used
// throughout this codebase for automaton state sets.
type stateStore struct {
	index   map[string]StateID
	subsets []subset
}

func newStateStore() *stateStore {
	return &stateStore{index: make(map[string]StateID)}
}

func (s *stateStore) intern(sub subset) StateID {
	k := sub.key()
	if id, ok := s.index[k]; ok {
		return id
	}
	id := StateID(len(s.subsets))
	s.subsets = append(s.subsets, sub)
	s.index[k] = id
	return id
}
