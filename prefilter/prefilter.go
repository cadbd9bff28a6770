// Package prefilter provides a cheap, sound reject-only filter that runs
// ahead of full PDFA matching. When a pattern has at least one literal
// byte string guaranteed to appear in any match, the filter uses an
// Aho-Corasick automaton over that literal set to answer "none of these
// occur" in a single linear scan, letting Regex.Match skip the PDFA
// reduction entirely for inputs that can never match (spec §9 domain
// stack: the Aho-Corasick engine).
package prefilter

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/gpuregex/literal"
	"github.com/coregx/gpuregex/nfa"
	"github.com/coregx/gpuregex/pattern"
	"github.com/coregx/gpuregex/simd"
)

// wideAlphabetThreshold bounds how many byte equivalence classes an NFA may
// have before its pattern is judged a poor prefilter candidate: a pattern
// whose automaton distinguishes most of the byte alphabet (heavy use of
// wide character classes or '.') is one where "none of these bytes occur"
// is unlikely to reject much, so Build skips literal extraction rather
// than spend the walk on a filter that won't pay for itself.
const wideAlphabetThreshold = 200

// Prefilter decides, cheaply and soundly, whether a candidate input can be
// rejected without running the full matcher. CanReject must never return
// true for an input that would otherwise match; false negatives (saying
// "cannot reject" when the input in fact would not match) are always
// safe, since the caller falls back to the full matcher either way.
type Prefilter interface {
	CanReject(b []byte) bool
}

// Build analyzes p and returns a Prefilter for it, or nil if no sound
// literal bound could be extracted, or if n's byte classes show the
// pattern already distinguishes most of the alphabet (in which case the
// caller should skip prefiltering and go straight to the full matcher).
func Build(p *pattern.Pattern, n *nfa.NFA) Prefilter {
	if n.Classes.AlphabetLen() > wideAlphabetThreshold {
		return nil
	}

	seq := literal.ExtractRequired(p)
	if seq == nil || seq.IsEmpty() {
		return nil
	}

	// A single one-byte required literal is common enough (a lone literal
	// byte between classes, as in `a[0-9]`, or alternation branches that
	// minimize to one byte, as in `a|ab`) to skip building an automaton for
	// it entirely.
	if seq.Len() == 1 && seq.Get(0).Len() == 1 {
		return &byteFilter{b: seq.Get(0).Bytes[0]}
	}

	// A single multi-byte required literal (the common case: a plain
	// Sequence run, or an Alternation all of whose branches happened to
	// extract the same literal and collapse to one entry) is a plain
	// substring search, so Memmem's rare-byte-accelerated scan beats
	// standing up a one-pattern Aho-Corasick automaton for it.
	if seq.Len() == 1 {
		return &substringFilter{needle: seq.Get(0).Bytes}
	}

	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		// The literal set itself is sound; only the automaton build
		// failed (e.g. resource limits), so fall back to no filter
		// rather than propagating a compile-time failure for what is
		// purely a performance optimization.
		return nil
	}
	return &literalPrefilter{auto: auto}
}

// literalPrefilter rejects any input containing none of its automaton's
// literals.
type literalPrefilter struct {
	auto *ahocorasick.Automaton
}

func (f *literalPrefilter) CanReject(b []byte) bool {
	return !f.auto.IsMatch(b)
}

// byteFilter is the single-byte-literal specialization of literalPrefilter,
// using simd.Memchr instead of standing up a one-pattern Aho-Corasick
// automaton.
type byteFilter struct {
	b byte
}

func (f *byteFilter) CanReject(b []byte) bool {
	return simd.Memchr(b, f.b) < 0
}

// substringFilter is the single-multi-byte-literal specialization of
// literalPrefilter, using simd.Memmem instead of an Aho-Corasick
// automaton with one registered pattern.
type substringFilter struct {
	needle []byte
}

func (f *substringFilter) CanReject(b []byte) bool {
	return simd.Memmem(b, f.needle) < 0
}
