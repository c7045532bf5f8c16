package langconcepts

import (
	"github.com/wippyai/lang-concepts/heap"
)

// Allocator hands out and takes back blocks of a manually managed heap.
type Allocator interface {
	Alloc(size, align uint32) (heap.Ptr, error)
	Free(p heap.Ptr) error
}

// Memory reads and writes through heap pointers.
type Memory interface {
	Read(p heap.Ptr, n uint32) ([]byte, error)
	Write(p heap.Ptr, data []byte) error
	ReadU32(p heap.Ptr) (uint32, error)
	WriteU32(p heap.Ptr, v uint32) error
	WriteU32s(p heap.Ptr, vals []uint32) error
}

// Accounting reports what a heap currently holds.
type Accounting interface {
	// Live returns the number of allocated blocks.
	Live() int
	// InUse returns the bytes requested by allocated blocks.
	InUse() uint32
	// Size returns the bytes reserved by the heap.
	Size() uint32
}

// Heap is the full surface the demos allocate through.
type Heap interface {
	Allocator
	Memory
	Accounting
}
