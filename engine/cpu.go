package engine

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// cpuDevice is the CPU fallback Device: it implements the same
// two-kernel algorithm as a real GPU binding would, using a
// goroutine pool instead of GPU threads, following the orchestration
// style of a worker-pool-per-search-state idiom while substituting
// goroutines for hardware warps (spec §4.5 "Alternative engines").
type cpuDevice struct {
	workers int
	persistent bool
}

func newCPUDevice(cfg Config) *cpuDevice {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &cpuDevice{workers: workers, persistent: cfg.PersistentThreads}
}

func (d *cpuDevice) Name() string { return "cpu-fallback" }

func (d *cpuDevice) NewQueue() (Queue, error) {
	return &cpuQueue{dev: d}, nil
}

func (d *cpuDevice) NewBuffer(size int) (Buffer, error) {
	return &cpuBuffer{data: make([]byte, size)}, nil
}

func (d *cpuDevice) NewBufferWithData(data []byte) (Buffer, error) {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &cpuBuffer{data: cp}, nil
}

func (d *cpuDevice) Release() {}

// cpuBuffer is a plain host byte slice standing in for a device buffer.
type cpuBuffer struct {
	mu   sync.Mutex
	data []byte
	freed bool
}

func (b *cpuBuffer) Size() int { return len(b.data) }

func (b *cpuBuffer) Read(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.freed {
		return nil, &RuntimeError{Kind: Closed, Message: "read from released buffer"}
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, nil
}

func (b *cpuBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.freed = true
	b.data = nil
}

// cpuToken completes synchronously: by the time EnqueueInitial/Reduce
// return, the work is already done, so Wait is a no-op unless the
// launch itself failed.
type cpuToken struct{ err error }

func (t cpuToken) Wait(ctx context.Context) error { return t.err }

type cpuQueue struct {
	dev      *cpuDevice
	released bool
}

func (q *cpuQueue) Release() { q.released = true }

// EnqueueInitial implements spec §4.5 step 1: partition input into
// ITEMS_PER_BLOCK-byte blocks, map each byte through InitialStates, fold
// each block sequentially, and write one PDFA state per block to out.
// The persistent-thread/atomic-counter scheduling variant is selected by
// cpuDevice.persistent; both variants produce identical output, only the
// work-claiming strategy differs (spec §4.5 "Scheduling").
func (q *cpuQueue) EnqueueInitial(pd CompiledPDFA, input Buffer, out Buffer, deps ...Token) (Token, error) {
	if err := waitAll(deps); err != nil {
		return cpuToken{}, err
	}
	in, ok := input.(*cpuBuffer)
	o, ok2 := out.(*cpuBuffer)
	if !ok || !ok2 {
		return cpuToken{}, &DeviceError{Kind: QueueError, Message: "cpuQueue requires cpuBuffer"}
	}

	itemsPerBlock := pd.BlockSize * pd.ItemsPerThread
	if itemsPerBlock <= 0 {
		return cpuToken{}, &RuntimeError{Kind: InvalidConfig, Message: "ItemsPerBlock must be positive"}
	}
	n := len(in.data)
	numBlocks := ceilDiv(n, itemsPerBlock)
	if len(o.data) < numBlocks {
		return cpuToken{}, &DeviceError{Kind: QueueError, Message: "output buffer too small for block count"}
	}

	runBlocks(q.dev.workers, numBlocks, q.dev.persistent, func(blockID int) {
		start := blockID * itemsPerBlock
		end := start + itemsPerBlock
		if end > n {
			end = n // last block's partial-tail masking (spec §4.5)
		}
		o.data[blockID] = reduceInitialBlock(&pd, in.data[start:end])
	})

	return cpuToken{}, nil
}

// EnqueueReduce implements spec §4.5 step 2: fold n per-block PDFA
// states into ceil(n/ItemsPerBlock) states one level up the reduction
// tree.
func (q *cpuQueue) EnqueueReduce(pd CompiledPDFA, in Buffer, n int, out Buffer, deps ...Token) (Token, error) {
	if err := waitAll(deps); err != nil {
		return cpuToken{}, err
	}
	ib, ok := in.(*cpuBuffer)
	ob, ok2 := out.(*cpuBuffer)
	if !ok || !ok2 {
		return cpuToken{}, &DeviceError{Kind: QueueError, Message: "cpuQueue requires cpuBuffer"}
	}
	if n > len(ib.data) {
		return cpuToken{}, &DeviceError{Kind: QueueError, Message: "n exceeds input buffer size"}
	}

	itemsPerBlock := pd.BlockSize * pd.ItemsPerThread
	numBlocks := ceilDiv(n, itemsPerBlock)
	if len(ob.data) < numBlocks {
		return cpuToken{}, &DeviceError{Kind: QueueError, Message: "output buffer too small for block count"}
	}

	runBlocks(q.dev.workers, numBlocks, q.dev.persistent, func(blockID int) {
		start := blockID * itemsPerBlock
		end := start + itemsPerBlock
		if end > n {
			end = n
		}
		ob.data[blockID] = reduceStateBlock(&pd, ib.data[start:end])
	})

	return cpuToken{}, nil
}

// reduceInitialBlock sequentially folds a slice of raw input bytes into
// one PDFA state: each byte is mapped through InitialStates before being
// merged into the running accumulator. Used by the initial kernel, whose
// input buffer is still raw bytes.
func reduceInitialBlock(pd *CompiledPDFA, bytes []byte) byte {
	if len(bytes) == 0 {
		panic(&InvariantError{Message: "reduceInitialBlock called with empty slice"})
	}
	acc := pd.InitialStates[bytes[0]]
	for _, b := range bytes[1:] {
		acc = mergeAt(pd, acc, pd.InitialStates[b])
	}
	return acc
}

// reduceStateBlock sequentially folds a slice of already-resolved PDFA
// states into one, via merge. Used by the reduce kernel, whose input
// buffer holds per-block states written by a previous kernel launch, not
// raw bytes, so no InitialStates lookup applies here.
func reduceStateBlock(pd *CompiledPDFA, states []byte) byte {
	if len(states) == 0 {
		panic(&InvariantError{Message: "reduceStateBlock called with empty slice"})
	}
	acc := states[0]
	for _, s := range states[1:] {
		acc = mergeAt(pd, acc, s)
	}
	return acc
}

func mergeAt(pd *CompiledPDFA, a, b uint8) uint8 {
	const reject = 255
	if a == reject || b == reject {
		return reject
	}
	return pd.Merge[int(a)*pd.N+int(b)]
}

// runBlocks executes numBlocks invocations of do across a worker pool,
// either via static partitioning (each goroutine owns a contiguous
// range) or the persistent-thread/atomic-counter variant (spec §4.5): a
// fixed-size pool of goroutines each atomically claims the next block
// index until none remain, which is cheaper than one goroutine per block
// for very large inputs.
func runBlocks(workers, numBlocks int, persistent bool, do func(blockID int)) {
	if numBlocks == 0 {
		return
	}
	if workers > numBlocks {
		workers = numBlocks
	}
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	if persistent {
		var counter int64
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for {
					idx := int(atomic.AddInt64(&counter, 1)) - 1
					if idx >= numBlocks {
						return
					}
					do(idx)
				}
			}()
		}
		wg.Wait()
		return
	}

	chunk := ceilDiv(numBlocks, workers)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > numBlocks {
			end = numBlocks
		}
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				do(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func waitAll(tokens []Token) error {
	for _, t := range tokens {
		if t == nil {
			continue
		}
		if err := t.Wait(context.Background()); err != nil {
			return err
		}
	}
	return nil
}

func ceilDiv(a, b int) int {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}
