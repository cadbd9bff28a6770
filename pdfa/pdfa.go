// Package pdfa parallelizes a classical DFA (package dfa) into a PDFA
// (ParallelDfa): an automaton whose states are themselves functions
// DFA-state -> DFA-state ∪ {reject}, composed by an associative merge
// operation. This is the algorithmic core the rest of the system exists
// to exploit: because merge is associative, the reduction engine
// (package engine) can fold an arbitrary input in O(log n) parallel
// depth instead of the DFA's inherently sequential left-fold.
package pdfa

import (
	"github.com/coregx/gpuregex/dfa"
)

// Reject is the distinguished sentinel byte value representing "no valid
// continuation". It absorbs merge from either side. The host-side
// representation below keeps this as a normal PDFA state index (255);
// device code uses the same reserved value, per spec's open question (a)
// on keeping host/device sentinel conventions aligned.
const Reject = 255

// MaxStates is the maximum number of real (non-reject) parallel states
// addressable by the 8-bit kernel ABI (spec §3's size cap).
const MaxStates = 255

// maxFootprintBytes bounds N²+256, the merge table plus initial_states
// shared-memory footprint a kernel block must hold (spec §3).
const maxFootprintBytes = 32768

// function is a PDFA state's vector representation: function[q] is the
// DFA state reached by applying this PDFA state's composed transition to
// DFA state q, or Reject. One byte per entry, matching the device's
// 8-bit state type (spec §3's size cap exists precisely so this fits).
type function []uint8 // index: dfa.StateID (int), value: dfa.StateID or Reject

func (f function) key() string {
	return string(f)
}

func (f function) apply(q dfa.StateID) (dfa.StateID, bool) {
	v := f[q]
	if v == Reject {
		return 0, false
	}
	return dfa.StateID(v), true
}

// ParallelDfa is the associative-encoding automaton described in spec §3.
type ParallelDfa struct {
	// InitialStates[b] is the parallel-state index representing the
	// effect of consuming exactly byte b, or Reject.
	InitialStates [256]uint8
	// Merge is the flattened N×N composition table: Merge[a*N+b] is the
	// result of applying a then b, or Reject.
	Merge []uint8
	// N is the number of real (non-reject) parallel states.
	N int
	// Accepting[s] holds iff parallel state s, applied to the DFA start
	// state, yields a DFA accept state.
	Accepting []bool
	// EmptyIsAccepting mirrors whether DFA state 0 itself accepts.
	EmptyIsAccepting bool
}

// MergeAt returns Merge[a][b] as a plain two-argument accessor.
func (p *ParallelDfa) MergeAt(a, b uint8) uint8 {
	if a == Reject || b == Reject {
		return Reject
	}
	return p.Merge[int(a)*p.N+int(b)]
}

// IsAccepting reports whether a PDFA state (as returned by InitialStates
// or MergeAt) is accepting. Reject is never accepting.
func (p *ParallelDfa) IsAccepting(s uint8) bool {
	if s == Reject {
		return false
	}
	return p.Accepting[s]
}

// store is the content-addressed parallel-state intern table (spec §4.4,
// §4.9/DESIGN NOTES "parallel-state storage").
type store struct {
	index     map[string]uint8
	functions []function
}

func newStore() *store {
	return &store{index: make(map[string]uint8)}
}

// intern returns f's index, assigning a fresh one if f hasn't been seen,
// and whether that index was newly created. ok is false if f is
// identically Reject (never stored: spec §4.4 "a byte whose f_b is
// identically reject maps to the global reject sentinel instead of being
// enumerated").
func (s *store) intern(f function) (idx uint8, ok bool, isNew bool) {
	allReject := true
	for _, v := range f {
		if v != Reject {
			allReject = false
			break
		}
	}
	if allReject {
		return Reject, false, false
	}
	k := f.key()
	if id, exists := s.index[k]; exists {
		return id, true, false
	}
	id := uint8(len(s.functions))
	s.functions = append(s.functions, f)
	s.index[k] = id
	return id, true, true
}

// Build parallelizes d into a PDFA, per the construction loop of spec
// §4.4: enumerate the 256 per-byte functions, then close the set under
// merge via a doubly-nested worklist sweep until no new state is
// produced in a full pass, bounded by stateLimit (0 means MaxStates).
func Build(d *dfa.DFA, stateLimit int) (*ParallelDfa, error) {
	if len(d.States) > MaxStates {
		return nil, &CompileError{Kind: TooManyStates, N: len(d.States)}
	}
	if stateLimit <= 0 || stateLimit > MaxStates {
		stateLimit = MaxStates
	}

	st := newStore()

	var initial [256]uint8
	for b := 0; b < 256; b++ {
		f := make(function, len(d.States))
		for q := range d.States {
			if dst, ok := d.Step(dfa.StateID(q), byte(b)); ok {
				f[q] = uint8(dst)
			} else {
				f[q] = Reject
			}
		}
		idx, ok, _ := st.intern(f)
		if ok {
			initial[b] = idx
		} else {
			initial[b] = Reject
		}
		if len(st.functions) > stateLimit {
			return nil, &CompileError{Kind: StateLimitReached, N: len(st.functions)}
		}
	}

	// merge closes the store under composition: repeatedly sweep every
	// (i, j) pair over the *current* count, interning merge(i,j) and
	// merge(j,i); newly discovered states extend the range future
	// sweeps cover. Terminates when a full sweep adds nothing, which
	// must happen because the set of distinct functions is finite
	// (bounded by (|Q|+1)^|Q|).
	done := make(map[[2]uint8]bool)
	for {
		progressed := false
		n := len(st.functions)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				key := [2]uint8{uint8(i), uint8(j)}
				if done[key] {
					continue
				}
				done[key] = true
				_, isNew := composeAndIntern(st, uint8(i), uint8(j))
				if isNew {
					progressed = true
				}
				if len(st.functions) > stateLimit {
					return nil, &CompileError{Kind: StateLimitReached, N: len(st.functions)}
				}
				footprint := len(st.functions)*len(st.functions) + 256
				if footprint > maxFootprintBytes {
					return nil, &CompileError{Kind: MergeTableOverflow, N: len(st.functions)}
				}
			}
		}
		if !progressed && n == len(st.functions) {
			break
		}
	}

	n := len(st.functions)
	mergeTable := make([]uint8, n*n)
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			dst, _ := composeAndIntern(st, uint8(a), uint8(b))
			mergeTable[a*n+b] = dst
		}
	}

	accepting := make([]bool, n)
	for s := 0; s < n; s++ {
		f := st.functions[s]
		if dst, ok := f.apply(0); ok {
			accepting[s] = d.States[dst].Accept
		}
	}

	return &ParallelDfa{
		InitialStates:    initial,
		Merge:            mergeTable,
		N:                n,
		Accepting:        accepting,
		EmptyIsAccepting: d.States[0].Accept,
	}, nil
}

// composeAndIntern computes merge(a, b) = "apply a, then b" and interns
// the result, returning (Reject, false) if either side is Reject or the
// composition collapses to Reject everywhere. isNew reports whether this
// composition discovered a previously-unseen parallel state.
func composeAndIntern(st *store, a, b uint8) (idx uint8, isNew bool) {
	if a == Reject || b == Reject {
		return Reject, false
	}
	fa, fb := st.functions[a], st.functions[b]
	r := make(function, len(fa))
	for q := range fa {
		v := fa[q]
		if v == Reject {
			r[q] = Reject
			continue
		}
		r[q] = fb[v]
	}
	result, _, isNew := st.intern(r)
	return result, isNew
}
