// Package pattern holds the abstract pattern tree produced by parsing a
// regular expression, and the recursive-descent parser that builds it.
//
// The tree is stored as a flat array of Nodes addressed by 32-bit index,
// with index 0 always the root. Sequence and alternation children are not
// inlined into the node itself; instead each such node records a
// (first, count) run into a shared children arena, appended contiguously
// at the point the parent node is created. CharSet payloads live in a
// separate arena tied to the Pattern's lifetime, mirroring the way NFA
// alphabet boundaries are tracked in a side structure rather than inline
// per state.
package pattern

import (
	"github.com/coregx/gpuregex/charset"
	"github.com/coregx/gpuregex/internal/conv"
)

// NodeKind discriminates the variants of a pattern tree node.
type NodeKind uint8

const (
	// Empty matches only the empty string.
	Empty NodeKind = iota
	// AnyNotNL matches any byte except '\n'.
	AnyNotNL
	// Char matches a single literal byte.
	Char
	// CharSetNode matches any byte in a referenced CharSet.
	CharSetNode
	// Sequence matches its children in order.
	Sequence
	// Alternation matches any one of its children.
	Alternation
	// Repeat matches its single child zero_or_more, zero_or_once, or
	// once_or_more times, per RepeatKind.
	Repeat
)

// RepeatKind discriminates the three supported quantifiers.
type RepeatKind uint8

const (
	ZeroOrMore RepeatKind = iota // *
	ZeroOrOnce                   // ?
	OnceOrMore                   // +
)

// NodeRef indexes into a Pattern's node array. Index 0 is always the root.
type NodeRef uint32

// CharSetRef indexes into a Pattern's CharSet arena.
type CharSetRef uint32

// Node is one entry of the flat pattern tree.
type Node struct {
	Kind NodeKind

	// Char holds the literal byte for Char nodes.
	Char byte

	// CharSet references the owning Pattern's charset arena for
	// CharSetNode nodes.
	CharSet CharSetRef

	// First/Count describe a contiguous run in the owning Pattern's
	// children arena, used by Sequence and Alternation.
	First NodeRef
	Count uint32

	// Child is the single operand of a Repeat node.
	Child NodeRef

	// RepeatKind discriminates Repeat nodes.
	RepeatKind RepeatKind
}

// Pattern is an immutable pattern tree plus its side arenas. The zero
// value is not useful; construct via the parser's Parse function.
type Pattern struct {
	nodes    []Node
	children []NodeRef
	charSets []charset.CharSet
}

// Root returns the root node reference, always 0.
func (p *Pattern) Root() NodeRef { return 0 }

// Node returns the node at the given reference.
func (p *Pattern) Node(ref NodeRef) *Node { return &p.nodes[ref] }

// NumNodes returns the number of nodes in the tree.
func (p *Pattern) NumNodes() int { return len(p.nodes) }

// Children returns the child references for a Sequence or Alternation
// node.
func (p *Pattern) Children(n *Node) []NodeRef {
	return p.children[n.First : n.First+NodeRef(n.Count)]
}

// CharSetAt returns the CharSet referenced by a CharSetNode node.
func (p *Pattern) CharSetAt(ref CharSetRef) charset.CharSet {
	return p.charSets[ref]
}

// builder accumulates nodes/children/charSets while parsing. It is
// intentionally append-only: node indices, once handed out, never move.
type builder struct {
	nodes    []Node
	children []NodeRef
	charSets []charset.CharSet
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) addNode(n Node) NodeRef {
	ref := NodeRef(len(b.nodes))
	b.nodes = append(b.nodes, n)
	return ref
}

func (b *builder) addCharSet(cs charset.CharSet) CharSetRef {
	ref := CharSetRef(len(b.charSets))
	b.charSets = append(b.charSets, cs)
	return ref
}

// addChildren appends refs contiguously to the children arena and returns
// the (first, count) pair describing their placement.
func (b *builder) addChildren(refs []NodeRef) (NodeRef, uint32) {
	first := NodeRef(len(b.children))
	b.children = append(b.children, refs...)
	return first, conv.IntToUint32(len(refs))
}

func (b *builder) build() *Pattern {
	return &Pattern{nodes: b.nodes, children: b.children, charSets: b.charSets}
}
