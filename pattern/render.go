package pattern

import (
	"fmt"
	"strings"
)

// Render reproduces a regex source string for p. It is not guaranteed to
// produce byte-identical source to whatever was originally parsed (e.g. it
// parenthesizes every alternation or multi-item sequence nested inside a
// sequence or repeat and never re-collapses a character class back to
// '.'), but parsing its output yields a Pattern
// structurally equivalent to p, which is what the round-trip testable
// property (spec §8) requires.
func Render(p *Pattern) string {
	var sb strings.Builder
	renderNode(p, p.Root(), &sb)
	return sb.String()
}

func renderNode(p *Pattern, ref NodeRef, sb *strings.Builder) {
	n := p.Node(ref)
	switch n.Kind {
	case Empty:
		// Nothing: the empty sequence matches "".
	case AnyNotNL:
		sb.WriteByte('.')
	case Char:
		renderLiteralByte(n.Char, sb)
	case CharSetNode:
		renderCharSet(p, n, sb)
	case Sequence:
		for _, c := range p.Children(n) {
			renderAtomOrGroup(p, c, sb)
		}
	case Alternation:
		for i, c := range p.Children(n) {
			if i > 0 {
				sb.WriteByte('|')
			}
			if p.Node(c).Kind == Alternation {
				sb.WriteByte('(')
				renderNode(p, c, sb)
				sb.WriteByte(')')
			} else {
				renderNode(p, c, sb)
			}
		}
	case Repeat:
		if p.Node(n.Child).Kind == Repeat {
			// "a**" is a parse error, so a repeated repeat needs a group.
			sb.WriteByte('(')
			renderNode(p, n.Child, sb)
			sb.WriteByte(')')
		} else {
			renderAtomOrGroup(p, n.Child, sb)
		}
		switch n.RepeatKind {
		case ZeroOrMore:
			sb.WriteByte('*')
		case OnceOrMore:
			sb.WriteByte('+')
		case ZeroOrOnce:
			sb.WriteByte('?')
		}
	}
}

// renderAtomOrGroup wraps a child in '(' ')' whenever rendering it bare
// inside a sequence or as the operand of a repeat would be ambiguous
// (alternation, multi-item sequences, and the empty pattern, which would
// otherwise vanish and leave a repeat operator with no operand).
func renderAtomOrGroup(p *Pattern, ref NodeRef, sb *strings.Builder) {
	n := p.Node(ref)
	needsGroup := n.Kind == Alternation || n.Kind == Empty || (n.Kind == Sequence && n.Count > 1)
	if needsGroup {
		sb.WriteByte('(')
		renderNode(p, ref, sb)
		sb.WriteByte(')')
		return
	}
	renderNode(p, ref, sb)
}

func renderLiteralByte(b byte, sb *strings.Builder) {
	switch b {
	case '\n':
		sb.WriteString(`\n`)
	case '\r':
		sb.WriteString(`\r`)
	case '\t':
		sb.WriteString(`\t`)
	case '\\', '\'', '"', '-', '^', '$', '(', ')', '[', ']', '.', '|', '*', '+', '?':
		sb.WriteByte('\\')
		sb.WriteByte(b)
	default:
		if b >= 0x20 && b < 0x7f {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(sb, `\x%02x`, b)
		}
	}
}

func renderCharSet(p *Pattern, n *Node, sb *strings.Builder) {
	cs := p.CharSetAt(n.CharSet)
	sb.WriteByte('[')
	if cs.Invert() {
		sb.WriteByte('^')
	}
	for _, r := range cs.Ranges() {
		renderLiteralByte(r.Lo, sb)
		if r.Hi != r.Lo {
			sb.WriteByte('-')
			renderLiteralByte(r.Hi, sb)
		}
	}
	sb.WriteByte(']')
}
