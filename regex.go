// Package gpuregex is a whole-string (anchored) regex acceptance matcher
// that compiles a pattern into a parallel DFA (PDFA) whose merge
// operation is associative, then decides acceptance by reducing the
// input through that PDFA in O(log n) parallel depth — on a GPU via the
// engine.Device contract, or on the CPU fallback engine ships by
// default.
//
// gpuregex answers exactly one question per pattern: does the whole
// input match, start to end? There is no submatch/group capture, no
// partial/leftmost search, no replace, and no Unicode character classes
// (matching is byte-level). Supported syntax: '.', '*', '+', '?', '|',
// '(...)', character classes '[...]' with '^' negation and 'a-b' ranges,
// and the escapes pattern.Parse documents. '^' and '$' anchors are
// rejected at parse time since matching is always implicitly anchored.
//
// Basic usage:
//
//	re, err := gpuregex.Compile(`[A-Za-z_][A-Za-z0-9_]*`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer re.Close()
//	if ok, _ := re.MatchString("identifier_1"); ok {
//	    fmt.Println("matched!")
//	}
package gpuregex

import (
	"github.com/coregx/gpuregex/dfa"
	"github.com/coregx/gpuregex/engine"
	"github.com/coregx/gpuregex/nfa"
	"github.com/coregx/gpuregex/pattern"
	"github.com/coregx/gpuregex/prefilter"
)

// Config controls pattern compilation and kernel launch shape. The zero
// value is not valid; use DefaultConfig.
type Config = engine.Config

// DefaultConfig returns the default configuration: 256-thread blocks, 16
// items per thread, CPU-fallback worker count equal to runtime.NumCPU(),
// static block partitioning, and the default PDFA state limit.
func DefaultConfig() Config {
	return engine.DefaultConfig()
}

// Regex is a compiled pattern ready to match input. A Regex owns device
// resources (real or CPU-fallback) and must be released with Close once
// it is no longer needed.
type Regex struct {
	source string
	cp     *engine.CompiledPattern
	pf     prefilter.Prefilter
}

// Compile parses and compiles src with DefaultConfig, targeting the CPU
// fallback engine.Device (no GPU binding ships in this module; see
// CompileWithDevice to plug one in via the engine.Device contract).
func Compile(src string) (*Regex, error) {
	return CompileWithConfig(src, DefaultConfig())
}

// MustCompile is like Compile but panics if src fails to parse or
// compile. Intended for patterns known at build time.
func MustCompile(src string) *Regex {
	re, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return re
}

// CompileWithConfig compiles src with an explicit Config, targeting the
// CPU fallback device.
func CompileWithConfig(src string, cfg Config) (*Regex, error) {
	return CompileWithDevice(src, cfg, nil)
}

// CompileWithDevice compiles src and binds it to device (nil selects the
// CPU fallback). This is the extension point for a real GPU binding
// implementing the engine.Device contract (spec §4.6).
func CompileWithDevice(src string, cfg Config, device engine.Device) (*Regex, error) {
	p, err := pattern.Parse([]byte(src))
	if err != nil {
		return nil, err
	}
	n := nfa.Build(p)
	d := dfa.Build(n)
	cp, err := engine.Compile(d, cfg, device)
	if err != nil {
		return nil, err
	}
	return &Regex{
		source: src,
		cp:     cp,
		pf:     prefilter.Build(p, n),
	}, nil
}

// String returns the source the Regex was compiled from.
func (re *Regex) String() string { return re.source }

// Match reports whether the entire byte slice b matches the pattern.
func (re *Regex) Match(b []byte) (bool, error) {
	if re.pf != nil && re.pf.CanReject(b) {
		re.cp.NotePrefilterReject()
		return false, nil
	}
	return engine.Match(re.cp, b)
}

// MatchString reports whether the entire string s matches the pattern.
func (re *Regex) MatchString(s string) (bool, error) {
	return re.Match([]byte(s))
}

// Stats returns a snapshot of this Regex's match-time counters.
func (re *Regex) Stats() engine.Stats {
	return re.cp.Stats()
}

// Close releases every device resource this Regex owns. Idempotent.
func (re *Regex) Close() {
	re.cp.Close()
}
