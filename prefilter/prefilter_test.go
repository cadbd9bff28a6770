package prefilter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/coregx/gpuregex/nfa"
	"github.com/coregx/gpuregex/pattern"
)

func mustBuild(t *testing.T, src string) Prefilter {
	t.Helper()
	p, err := pattern.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return Build(p, nfa.Build(p))
}

func TestBuildRejectsNonMatchingInput(t *testing.T) {
	pf := mustBuild(t, "abc")
	if pf == nil {
		t.Fatal("expected a prefilter for a literal pattern")
	}
	if !pf.CanReject([]byte("xyz")) {
		t.Error("expected CanReject to reject input missing the required literal")
	}
	if pf.CanReject([]byte("xxabcxx")) {
		t.Error("expected CanReject to pass through input containing the required literal")
	}
}

func TestBuildAlternationUnion(t *testing.T) {
	pf := mustBuild(t, "abc|def")
	if pf == nil {
		t.Fatal("expected a prefilter for an alternation of literals")
	}
	if !pf.CanReject([]byte("ghijkl")) {
		t.Error("expected reject when neither branch literal occurs")
	}
	if pf.CanReject([]byte("...def...")) {
		t.Error("expected no reject when one branch literal occurs")
	}
	if pf.CanReject([]byte("...abc...")) {
		t.Error("expected no reject when the other branch literal occurs")
	}
}

func TestBuildNoLiteralReturnsNil(t *testing.T) {
	for _, src := range []string{"", ".", "a*", "[a-z]", "abc|x*"} {
		if pf := mustBuild(t, src); pf != nil {
			t.Errorf("pattern %q: expected nil prefilter, got non-nil", src)
		}
	}
}

// wideAlphabetClass builds a character class of many disjoint single-byte
// ranges, spread far enough apart that each contributes its own pair of
// class boundaries, pushing the NFA's ByteClasses well past the
// wide-alphabet threshold.
func wideAlphabetClass() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for b := 1; b < 252; b += 2 {
		sb.WriteString(fmt.Sprintf(`\x%02x`, b))
	}
	sb.WriteByte(']')
	return sb.String()
}

func TestBuildSkipsWideAlphabetPattern(t *testing.T) {
	src := "ab" + wideAlphabetClass() + "cd"
	p, err := pattern.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	n := nfa.Build(p)
	if n.Classes.AlphabetLen() <= wideAlphabetThreshold {
		t.Fatalf("expected wide alphabet, got AlphabetLen() = %d", n.Classes.AlphabetLen())
	}
	if pf := Build(p, n); pf != nil {
		t.Errorf("expected nil prefilter for a wide-alphabet pattern, got non-nil")
	}

	// The same required literal ("ab" or "cd") would build a prefilter
	// once the surrounding class narrows enough to drop under the
	// threshold.
	narrow := "ab[\\x01\\x02]cd"
	p2, err := pattern.Parse([]byte(narrow))
	if err != nil {
		t.Fatalf("parse(%q): %v", narrow, err)
	}
	if pf := Build(p2, nfa.Build(p2)); pf == nil {
		t.Error("expected a prefilter once the pattern no longer spans most of the alphabet")
	}
}

func TestBuildNeverRejectsAMatchingInput(t *testing.T) {
	cases := []struct {
		pattern string
		inputs  []string
	}{
		{"abc", []string{"abc"}},
		{"a(bc)*a", []string{"aa", "abca", "abcbca"}},
		{"[A-Za-z_][A-Za-z0-9_]*", []string{"_1", "test123"}},
	}
	for _, c := range cases {
		p, err := pattern.Parse([]byte(c.pattern))
		if err != nil {
			t.Fatalf("parse(%q): %v", c.pattern, err)
		}
		pf := Build(p, nfa.Build(p))
		for _, in := range c.inputs {
			if pf != nil && pf.CanReject([]byte(in)) {
				t.Errorf("pattern %q: prefilter wrongly rejected matching input %q", c.pattern, in)
			}
		}
	}
}
