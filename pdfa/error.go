package pdfa

import "fmt"

// CompileErrorKind classifies why PDFA construction failed.
type CompileErrorKind uint8

const (
	// StateLimitReached means the number of distinct parallel states
	// (merge-closed functions) exceeded the configured limit before
	// construction could close.
	StateLimitReached CompileErrorKind = iota
	// TooManyStates means the underlying DFA itself has more states
	// than the 8-bit function-vector index can address.
	TooManyStates
	// MergeTableOverflow means N²+256 would exceed the 32 KiB shared-
	// memory budget the kernel reserves per block.
	MergeTableOverflow
)

func (k CompileErrorKind) String() string {
	switch k {
	case StateLimitReached:
		return "StateLimitReached"
	case TooManyStates:
		return "TooManyStates"
	case MergeTableOverflow:
		return "MergeTableOverflow"
	default:
		return fmt.Sprintf("UnknownCompileErrorKind(%d)", k)
	}
}

// CompileError reports why a pattern's DFA could not be parallelized.
type CompileError struct {
	Kind CompileErrorKind
	// N is the parallel-state (or DFA-state, for TooManyStates) count at
	// the point construction gave up.
	N int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s (n=%d)", e.Kind, e.N)
}

func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
