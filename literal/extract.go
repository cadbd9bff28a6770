package literal

import "github.com/coregx/gpuregex/pattern"

// ExtractRequired walks a pattern tree and returns the set of literal byte
// strings at least one of which must appear in any whole-string match, or
// nil if no such set can be proven (the regex-syntax walk this package
// used to do over *syntax.Regexp, generalized to pattern.Pattern's flat
// node tree).
//
// The returned Seq is a disjunction: ExtractRequired guarantees that every
// accepted input contains at least one of its literals as a substring, so
// "none of these literals occur" is sound grounds to reject without
// running the automaton. It is never a guarantee of acceptance.
//
// Extraction is all-or-nothing at every branch point: Alternation only
// contributes if every one of its branches yields a required literal
// (otherwise a branch with no required literal could match without any of
// them present). A node it cannot bound this way (CharSetNode, AnyNotNL,
// Empty, or a ZeroOrMore/ZeroOrOnce repeat) yields nothing: when such a
// node is the whole pattern, an alternation branch or a repeat operand,
// extraction gives up; inside a Sequence it only breaks the run of
// literal bytes, and the longest run of consecutive literal bytes is kept
// (so "a[0-9]bcde" yields "bcde").
func ExtractRequired(p *pattern.Pattern) *Seq {
	seq, ok := extract(p, p.Root())
	if !ok || seq.IsEmpty() {
		return nil
	}
	seq.Minimize()
	return seq
}

// extract returns the required-literal set for the subtree rooted at ref,
// and whether that set is sound (ok == false means "no bound available,
// the caller must not rely on anything about this subtree").
func extract(p *pattern.Pattern, ref pattern.NodeRef) (*Seq, bool) {
	n := p.Node(ref)
	switch n.Kind {
	case pattern.Char:
		return NewSeq(NewLiteral([]byte{n.Char}, false)), true

	case pattern.Sequence:
		return extractSequence(p, n)

	case pattern.Alternation:
		return extractAlternation(p, n)

	case pattern.Repeat:
		if n.RepeatKind == pattern.OnceOrMore {
			return extract(p, n.Child)
		}
		// ZeroOrMore and ZeroOrOnce both admit the empty repetition, so
		// no literal is guaranteed present.
		return nil, false

	default:
		// Empty, AnyNotNL, CharSetNode: no guaranteed literal bytes.
		return nil, false
	}
}

// extractSequence finds the longest run of consecutive Char children and
// returns it as a single required literal. A Sequence containing any
// non-Char child still contributes the longest literal run found among
// its children, since every accepted string contains that run regardless
// of what the other children matched.
func extractSequence(p *pattern.Pattern, n *pattern.Node) (*Seq, bool) {
	children := p.Children(n)
	best := []byte(nil)
	var run []byte
	flushBest := func() {
		if len(run) > len(best) {
			best = run
		}
		run = nil
	}
	for _, c := range children {
		child := p.Node(c)
		if child.Kind == pattern.Char {
			run = append(run, child.Char)
			continue
		}
		flushBest()
	}
	flushBest()
	if len(best) == 0 {
		return nil, false
	}
	return NewSeq(NewLiteral(best, false)), true
}

// extractAlternation requires every branch to yield a required literal;
// the result is the union of all branches' literals, since a match takes
// exactly one branch and that branch's literal is then guaranteed.
func extractAlternation(p *pattern.Pattern, n *pattern.Node) (*Seq, bool) {
	children := p.Children(n)
	var lits []Literal
	for _, c := range children {
		sub, ok := extract(p, c)
		if !ok {
			return nil, false
		}
		for i := 0; i < sub.Len(); i++ {
			lits = append(lits, sub.Get(i))
		}
	}
	if len(lits) == 0 {
		return nil, false
	}
	return NewSeq(lits...), true
}
