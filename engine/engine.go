package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/coregx/gpuregex/dfa"
	"github.com/coregx/gpuregex/pdfa"
	"github.com/coregx/gpuregex/simd"
)

// Stats accumulates ambient observability counters for a CompiledPattern
// across its lifetime, in lieu of a logging dependency (SPEC_FULL §2:
// none of the retrieved examples import a logging framework for this
// domain, so diagnostics live on plain counters instead).
type Stats struct {
	BytesMatched      uint64
	KernelLaunches    uint64
	PrefilterRejects  uint64
	EmptyInputMatches uint64
	ASCIIInputs       uint64
}

func (s *Stats) addBytesMatched(n int)   { atomic.AddUint64(&s.BytesMatched, uint64(n)) }
func (s *Stats) addKernelLaunches(n int) { atomic.AddUint64(&s.KernelLaunches, uint64(n)) }
func (s *Stats) addPrefilterReject()     { atomic.AddUint64(&s.PrefilterRejects, 1) }
func (s *Stats) addEmptyInputMatch()     { atomic.AddUint64(&s.EmptyInputMatches, 1) }
func (s *Stats) addASCIIInput()          { atomic.AddUint64(&s.ASCIIInputs, 1) }

// Snapshot returns a copy of the current counters, safe to read
// concurrently with ongoing matches.
func (s *Stats) Snapshot() Stats {
	return Stats{
		BytesMatched:      atomic.LoadUint64(&s.BytesMatched),
		KernelLaunches:    atomic.LoadUint64(&s.KernelLaunches),
		PrefilterRejects:  atomic.LoadUint64(&s.PrefilterRejects),
		EmptyInputMatches: atomic.LoadUint64(&s.EmptyInputMatches),
		ASCIIInputs:       atomic.LoadUint64(&s.ASCIIInputs),
	}
}

// CompiledPattern retains a built PDFA plus the device resources holding
// its device-resident copies (spec §3 "CompiledPattern"). It owns those
// resources as a unit: Close releases every buffer it allocated exactly
// once regardless of how many times it is called.
type CompiledPattern struct {
	PDFA   *pdfa.ParallelDfa
	DFA    *dfa.DFA // retained only for differential-test/simulator use
	cfg    Config
	device Device

	initialBuf Buffer
	mergeBuf   Buffer

	stats Stats

	closeOnce sync.Once
	closed    bool
}

// Compile parallelizes d into a PDFA and uploads its tables to device,
// returning a CompiledPattern ready for Match (spec §6 "compile(pattern)
// -> CompiledPattern | LargeAutomaton | CompileError").
func Compile(d *dfa.DFA, cfg Config, device Device) (*CompiledPattern, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pd, err := pdfa.Build(d, cfg.StateLimit)
	if err != nil {
		return nil, err
	}
	if device == nil {
		device = newCPUDevice(cfg)
	}

	initialBuf, err := device.NewBufferWithData(pd.InitialStates[:])
	if err != nil {
		return nil, &RuntimeError{Kind: OutOfDeviceMemory, Message: "uploading initial_states", Cause: err}
	}
	mergeBuf, err := device.NewBufferWithData(pd.Merge)
	if err != nil {
		initialBuf.Release()
		return nil, &RuntimeError{Kind: OutOfDeviceMemory, Message: "uploading merge table", Cause: err}
	}

	return &CompiledPattern{
		PDFA:       pd,
		DFA:        d,
		cfg:        cfg,
		device:     device,
		initialBuf: initialBuf,
		mergeBuf:   mergeBuf,
	}, nil
}

// Close releases every device resource this CompiledPattern owns.
// Idempotent: a second call is a no-op (spec §5 "Double-release is
// defined as no-op").
func (cp *CompiledPattern) Close() {
	cp.closeOnce.Do(func() {
		cp.closed = true
		if cp.initialBuf != nil {
			cp.initialBuf.Release()
		}
		if cp.mergeBuf != nil {
			cp.mergeBuf.Release()
		}
		cp.device.Release()
	})
}

// Stats returns a snapshot of this pattern's observability counters.
func (cp *CompiledPattern) Stats() Stats {
	return cp.stats.Snapshot()
}

// NotePrefilterReject records that a candidate input was rejected by a
// literal prefilter ahead of the PDFA reduction, without running Match.
// Exposed so the root package's prefilter fast path can feed the same
// Stats counters as device-driven matches.
func (cp *CompiledPattern) NotePrefilterReject() {
	cp.stats.addPrefilterReject()
}

// compiledPDFA builds the minimal device-facing view of this pattern's
// PDFA, sized against the configured launch constants.
func (cp *CompiledPattern) compiledPDFA() CompiledPDFA {
	return CompiledPDFA{
		InitialStates:  cp.PDFA.InitialStates,
		Merge:          cp.PDFA.Merge,
		N:              cp.PDFA.N,
		BlockSize:      cp.cfg.BlockSize,
		ItemsPerThread: cp.cfg.ItemsPerThread,
	}
}

// Match decides acceptance of input against cp's PDFA via the two-kernel
// scan/reduce strategy (spec §4.5). Empty input is decided without
// touching the device (spec §4.5 "Empty input"). As this package's
// top-level entry point, Match recovers any *InvariantError panic raised
// during the reduction and reports it as a *RuntimeError instead of
// letting it escape.
func Match(cp *CompiledPattern, input []byte) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			matched, err = false, &RuntimeError{Kind: InvariantViolation, Message: "recovered invariant violation", Cause: ie}
		}
	}()

	if cp.closed {
		return false, &RuntimeError{Kind: Closed, Message: "Match called on a released CompiledPattern"}
	}
	if len(input) == 0 {
		cp.stats.addEmptyInputMatch()
		return cp.PDFA.EmptyIsAccepting, nil
	}
	if simd.IsASCII(input) {
		cp.stats.addASCIIInput()
	}

	final, rerr := runReduction(cp.device, cp.compiledPDFA(), cp.cfg, input, &cp.stats)
	if rerr != nil {
		return false, rerr
	}
	cp.stats.addBytesMatched(len(input))
	if final == pdfa.Reject {
		return false, nil
	}
	return cp.PDFA.IsAccepting(final), nil
}

// runReduction is the host driver of spec §4.5: allocate device input and
// two ping-pong output buffers, enqueue the initial kernel, then loop
// enqueueing the reduce kernel (swapping ping-pong buffers, dividing size
// by ItemsPerBlock with ceiling) until size <= 1, finally reading back
// the single remaining byte.
func runReduction(device Device, pd CompiledPDFA, cfg Config, input []byte, stats *Stats) (uint8, error) {
	ctx := context.Background()

	inputBuf, err := device.NewBufferWithData(input)
	if err != nil {
		return 0, &RuntimeError{Kind: OutOfDeviceMemory, Message: "uploading input", Cause: err}
	}
	defer inputBuf.Release()

	itemsPerBlock := cfg.ItemsPerBlock()
	size := ceilDiv(len(input), itemsPerBlock)

	pingSize := size
	if pingSize < 1 {
		pingSize = 1
	}
	ping, err := device.NewBuffer(pingSize)
	if err != nil {
		return 0, &RuntimeError{Kind: OutOfDeviceMemory, Message: "allocating reduction buffer", Cause: err}
	}
	defer ping.Release()
	pong, err := device.NewBuffer(pingSize)
	if err != nil {
		return 0, &RuntimeError{Kind: OutOfDeviceMemory, Message: "allocating reduction buffer", Cause: err}
	}
	defer pong.Release()

	queue, err := device.NewQueue()
	if err != nil {
		return 0, &DeviceError{Kind: NoDevice, Message: "opening queue", Cause: err}
	}
	defer queue.Release()

	tok, err := queue.EnqueueInitial(pd, inputBuf, ping)
	if err != nil {
		return 0, wrapDeviceErr(err)
	}
	stats.addKernelLaunches(1)

	cur, next := ping, pong
	for size > 1 {
		newSize := ceilDiv(size, itemsPerBlock)
		tok, err = queue.EnqueueReduce(pd, cur, size, next, tok)
		if err != nil {
			return 0, wrapDeviceErr(err)
		}
		stats.addKernelLaunches(1)
		cur, next = next, cur
		size = newSize
	}

	if err := tok.Wait(ctx); err != nil {
		return 0, wrapDeviceErr(err)
	}
	out, err := cur.Read(ctx)
	if err != nil {
		return 0, &RuntimeError{Kind: OutOfHostMemory, Message: "reading back result", Cause: err}
	}
	if len(out) == 0 {
		panic(&InvariantError{Message: "reduction produced no output byte"})
	}
	return out[0], nil
}

func wrapDeviceErr(err error) error {
	if _, ok := err.(*DeviceError); ok {
		return err
	}
	if _, ok := err.(*RuntimeError); ok {
		return err
	}
	return &DeviceError{Kind: QueueError, Message: "kernel launch failed", Cause: err}
}
