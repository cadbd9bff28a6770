package nfa

import (
	"sort"

	"github.com/coregx/gpuregex/internal/conv"
	"github.com/coregx/gpuregex/pattern"
)

// builder accumulates states and per-state transition lists while walking
// a pattern tree, then flattens everything into the final contiguous,
// sorted-by-symbol NFA arrays in finish.
type builder struct {
	accept []bool
	trns   [][]Transition // trns[s] holds state s's outgoing edges, unsorted
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) newState() StateID {
	id := StateID(len(b.accept))
	b.accept = append(b.accept, false)
	b.trns = append(b.trns, nil)
	return id
}

func (b *builder) addEdge(from StateID, t Transition) {
	b.trns[from] = append(b.trns[from], t)
}

func (b *builder) patch(s StateID, accept bool) {
	b.accept[s] = accept
}

// compile builds the Thompson fragment for the subtree rooted at ref and
// returns (start, accept) states for that fragment. accept is never
// marked as the pattern's overall match state here; the caller (Build)
// does that once for the top-level fragment's accept.
func (b *builder) compile(p *pattern.Pattern, ref pattern.NodeRef) (StateID, StateID) {
	n := p.Node(ref)
	switch n.Kind {
	case pattern.Empty:
		s := b.newState()
		return s, s

	case pattern.Char:
		start := b.newState()
		accept := b.newState()
		b.addEdge(start, Transition{Dst: accept, Sym: On(n.Char)})
		return start, accept

	case pattern.AnyNotNL:
		start := b.newState()
		accept := b.newState()
		for v := 0; v < 256; v++ {
			if byte(v) == '\n' {
				continue
			}
			b.addEdge(start, Transition{Dst: accept, Sym: On(byte(v))})
		}
		return start, accept

	case pattern.CharSetNode:
		start := b.newState()
		accept := b.newState()
		cs := p.CharSetAt(n.CharSet)
		for _, byt := range cs.Bytes() {
			b.addEdge(start, Transition{Dst: accept, Sym: On(byt)})
		}
		return start, accept

	case pattern.Sequence:
		children := p.Children(n)
		if len(children) == 0 {
			s := b.newState()
			return s, s
		}
		start, prevAccept := b.compile(p, children[0])
		for _, c := range children[1:] {
			cstart, caccept := b.compile(p, c)
			b.addEdge(prevAccept, Transition{Dst: cstart, Sym: Eps()})
			prevAccept = caccept
		}
		return start, prevAccept

	case pattern.Alternation:
		children := p.Children(n)
		start := b.newState()
		accept := b.newState()
		for _, c := range children {
			cstart, caccept := b.compile(p, c)
			b.addEdge(start, Transition{Dst: cstart, Sym: Eps()})
			b.addEdge(caccept, Transition{Dst: accept, Sym: Eps()})
		}
		return start, accept

	case pattern.Repeat:
		cstart, caccept := b.compile(p, n.Child)
		start := b.newState()
		accept := b.newState()
		switch n.RepeatKind {
		case pattern.ZeroOrMore:
			b.addEdge(start, Transition{Dst: cstart, Sym: Eps()})
			b.addEdge(start, Transition{Dst: accept, Sym: Eps()})
			b.addEdge(caccept, Transition{Dst: cstart, Sym: Eps()})
			b.addEdge(caccept, Transition{Dst: accept, Sym: Eps()})
		case pattern.OnceOrMore:
			b.addEdge(start, Transition{Dst: cstart, Sym: Eps()})
			b.addEdge(caccept, Transition{Dst: cstart, Sym: Eps()})
			b.addEdge(caccept, Transition{Dst: accept, Sym: Eps()})
		case pattern.ZeroOrOnce:
			b.addEdge(start, Transition{Dst: cstart, Sym: Eps()})
			b.addEdge(start, Transition{Dst: accept, Sym: Eps()})
			b.addEdge(caccept, Transition{Dst: accept, Sym: Eps()})
		}
		return start, accept

	default:
		panic("nfa: unhandled pattern node kind")
	}
}

// finish flattens the per-state edge lists into the contiguous,
// symbol-sorted arrays an NFA exposes, reordering states so the given
// start becomes index 0 (Thompson construction above allocates a
// Repeat's start state only after compiling its child fragment, so the
// overall pattern start isn't necessarily state 0 once fragments are
// nested by Sequence/Alternation/Repeat wiring).
func (b *builder) finish(start StateID) *NFA {
	n := len(b.accept)
	order := make([]StateID, 0, n)
	remap := make([]int32, n)
	for i := range remap {
		remap[i] = -1
	}
	var visit func(StateID)
	visit = func(s StateID) {
		if remap[s] != -1 {
			return
		}
		remap[s] = int32(len(order))
		order = append(order, s)
		for _, t := range b.trns[s] {
			visit(t.Dst)
		}
	}
	visit(start)
	for s := StateID(0); int(s) < n; s++ {
		visit(s)
	}

	states := make([]State, n)
	var transitions []Transition
	for newIdx, old := range order {
		edges := make([]Transition, len(b.trns[old]))
		copy(edges, b.trns[old])
		for i := range edges {
			edges[i].Dst = StateID(remap[edges[i].Dst])
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i].Sym.Less(edges[j].Sym) })
		states[newIdx] = State{
			First:   conv.IntToUint32(len(transitions)),
			NumTrns: conv.IntToUint32(len(edges)),
			Accept:  b.accept[old],
		}
		transitions = append(transitions, edges...)
	}

	return &NFA{States: states, Transitions: transitions}
}
