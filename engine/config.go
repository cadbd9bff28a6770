package engine

import "fmt"

// Default kernel launch constants (spec §6 "BLOCK_SIZE and
// ITEMS_PER_THREAD are compile-time constants exposed to the kernel
// module and used in size arithmetic; the host must pass them
// identically to device code"). cpuDevice and any future GPU binding
// must agree on these, which is why they live on Config rather than
// being hardcoded separately in each.
const (
	DefaultBlockSize      = 256
	DefaultItemsPerThread = 16
)

// Config controls kernel launch shape and CPU-fallback scheduling. The
// zero value is not valid; use DefaultConfig.
type Config struct {
	// BlockSize is the number of cooperative threads per block.
	BlockSize int
	// ItemsPerThread is the number of input bytes each thread folds
	// sequentially before the block-level reduction.
	ItemsPerThread int
	// Workers bounds the CPU fallback's goroutine pool size. Zero means
	// runtime.NumCPU().
	Workers int
	// PersistentThreads selects the atomic-counter block-claiming
	// variant of the initial kernel (spec §4.5 "Scheduling") instead of
	// one goroutine batch per block; cpuDevice honors this by using a
	// shared atomic cursor instead of pre-partitioning work statically.
	PersistentThreads bool
	// StateLimit bounds PDFA construction (spec §4.4); 0 means
	// pdfa.MaxStates.
	StateLimit int
}

// DefaultConfig returns the default launch configuration.
func DefaultConfig() Config {
	return Config{
		BlockSize:      DefaultBlockSize,
		ItemsPerThread: DefaultItemsPerThread,
		Workers:        0,
		StateLimit:     0,
	}
}

// ItemsPerBlock is BlockSize * ItemsPerThread, the number of input bytes
// one block of the initial kernel consumes (spec §4.5).
func (c Config) ItemsPerBlock() int {
	return c.BlockSize * c.ItemsPerThread
}

// Validate reports a *RuntimeError if the configuration is unusable.
func (c Config) Validate() error {
	if c.BlockSize <= 0 {
		return &RuntimeError{Kind: InvalidConfig, Message: fmt.Sprintf("BlockSize must be positive, got %d", c.BlockSize)}
	}
	if c.ItemsPerThread <= 0 {
		return &RuntimeError{Kind: InvalidConfig, Message: fmt.Sprintf("ItemsPerThread must be positive, got %d", c.ItemsPerThread)}
	}
	if c.Workers < 0 {
		return &RuntimeError{Kind: InvalidConfig, Message: fmt.Sprintf("Workers must be non-negative, got %d", c.Workers)}
	}
	return nil
}
