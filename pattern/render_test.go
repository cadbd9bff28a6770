package pattern

import "testing"

// equalStructure compares two patterns for structural equivalence
// (same shape, ignoring node array layout/order differences that
// reorderRootFirst might otherwise introduce — but since both sides go
// through the same parser, layout is canonical already).
func equalStructure(t *testing.T, a, b *Pattern) bool {
	t.Helper()
	return equalNode(a, a.Root(), b, b.Root())
}

func equalNode(a *Pattern, ar NodeRef, b *Pattern, br NodeRef) bool {
	na, nb := a.Node(ar), b.Node(br)
	if na.Kind != nb.Kind {
		return false
	}
	switch na.Kind {
	case Char:
		return na.Char == nb.Char
	case CharSetNode:
		return a.CharSetAt(na.CharSet).Equal(b.CharSetAt(nb.CharSet))
	case Sequence, Alternation:
		ca, cb := a.Children(na), b.Children(nb)
		if len(ca) != len(cb) {
			return false
		}
		for i := range ca {
			if !equalNode(a, ca[i], b, cb[i]) {
				return false
			}
		}
		return true
	case Repeat:
		return na.RepeatKind == nb.RepeatKind && equalNode(a, na.Child, b, nb.Child)
	default:
		return true
	}
}

func TestRoundTrip(t *testing.T) {
	patterns := []string{
		"",
		"a",
		"abc",
		"abc|def",
		"a*b",
		"a(bc)*a",
		"[A-Za-z_][A-Za-z0-9_]*",
		`a\nb`,
		"a+b?c*",
	}
	for _, src := range patterns {
		t.Run(src, func(t *testing.T) {
			p1 := mustParse(t, src)
			rendered := Render(p1)
			p2, err := Parse([]byte(rendered))
			if err != nil {
				t.Fatalf("re-parse of rendered %q failed: %v", rendered, err)
			}
			if !equalStructure(t, p1, p2) {
				t.Fatalf("round-trip mismatch: %q -> %q", src, rendered)
			}
		})
	}
}
