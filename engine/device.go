// Package engine drives the two-kernel scan/reduce strategy described in
// spec §4.5 over a compiled PDFA, either on a real GPU (via the Device
// contract below, bound by an external collaborator — see spec §4.6 and
// §1's "out of scope") or on the CPU fallback this package ships
// (cpuDevice), and exposes a sequential reference implementation and a
// plain DFA walker for differential testing (spec §4.5, §8).
package engine

import "context"

// Device is the GPU abstraction contract this package consumes. No
// concrete GPU backend lives in this repository: none of the retrieved
// examples ships a CUDA/OpenCL/Vulkan compute binding, so the contract
// is implemented here but bound only to cpuDevice, exactly as spec §1/§4.6
// frame the device layer as an external collaborator described by
// interface alone.
type Device interface {
	// Name identifies the device for diagnostics and device-filter
	// selection (spec §4.6 "device selection with optional name
	// substring filters" is a concern of the external selector, not
	// this contract, but Name is what it would filter on).
	Name() string
	// NewQueue opens a command queue bound to this device.
	NewQueue() (Queue, error)
	// NewBuffer allocates a device-resident byte buffer of size bytes.
	NewBuffer(size int) (Buffer, error)
	// NewBufferWithData allocates a device-resident buffer initialized
	// from data.
	NewBufferWithData(data []byte) (Buffer, error)
	// Release frees device-level resources. Idempotent.
	Release()
}

// Buffer is a device-resident byte buffer.
type Buffer interface {
	Size() int
	// Read copies the buffer's contents back to the host.
	Read(ctx context.Context) ([]byte, error)
	// Release frees the buffer. Idempotent.
	Release()
}

// Queue is a device command queue: kernel launches enqueued on it
// execute in submission order relative to each other on this queue, and
// a launch's returned Token can be passed as a dependency to a later
// launch on any queue (spec §5 "Kernel ordering").
type Queue interface {
	// EnqueueInitial launches the initial kernel (spec §4.5 step 1):
	// maps each byte of input to initial_states[byte] and performs a
	// block-parallel reduction, writing one PDFA state per block to
	// out.
	EnqueueInitial(pd CompiledPDFA, input Buffer, out Buffer, deps ...Token) (Token, error)
	// EnqueueReduce launches the reduce kernel (spec §4.5 step 2): folds
	// in, a sequence of n PDFA states, into ceil(n/ItemsPerBlock) states
	// written to out.
	EnqueueReduce(pd CompiledPDFA, in Buffer, n int, out Buffer, deps ...Token) (Token, error)
	// Release frees the queue. Idempotent.
	Release()
}

// Token is a completion handle for an enqueued kernel launch, usable as
// a dependency for a later launch and as a source of profiling
// timestamps (spec §4.6). The CPU fallback's tokens complete
// synchronously; a real GPU binding's tokens would not.
type Token interface {
	// Wait blocks until the launch this token refers to has completed,
	// surfacing any device-lost or queue-level error raised during it
	// (spec §7 "Device-lost or queue-error after a successful enqueue
	// surfaces at the next dependent enqueue or at final readback").
	Wait(ctx context.Context) error
}

// CompiledPDFA is the minimal read-only view of a compiled pattern a
// Device needs to run the two kernels: the flattened initial_states map
// and merge table, plus the launch constants they were sized against.
type CompiledPDFA struct {
	InitialStates [256]uint8
	Merge         []uint8
	N             int
	BlockSize     int
	ItemsPerThread int
}
