package memdemo

import (
	"go.uber.org/zap"

	langconcepts "github.com/wippyai/lang-concepts"
	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/heap"
)

// Heap is the allocator surface a NamedResource needs.
type Heap = langconcepts.Heap

// Resource type IDs in the handle table.
const (
	TypeNamedResource uint32 = iota + 1
	TypeText
)

// DefaultSize is the buffer size of every demo resource.
const DefaultSize = 1024 * 1024

// NamedResource owns a heap buffer of size/4 32-bit integers. Creating one
// prints an allocation line; Drop prints a deallocation line and frees the
// buffer. The buffer is freed at most once.
type NamedResource struct {
	heap     Heap
	out      *console.Printer
	name     string
	data     heap.Ptr
	size     uint32
	released bool
}

// NewNamedResource allocates the buffer and fills it with 0, 1, 2, ...
func NewNamedResource(h Heap, out *console.Printer, name string, size uint32) (*NamedResource, error) {
	out.Printf("Allocating %s with %d bytes", name, size)

	data, err := h.Alloc(size, 4)
	if err != nil {
		return nil, err
	}

	vals := make([]uint32, size/4)
	for i := range vals {
		vals[i] = uint32(i)
	}
	if err := h.WriteU32s(data, vals); err != nil {
		_ = h.Free(data)
		return nil, err
	}

	Logger().Debug("resource constructed",
		zap.String("name", name),
		zap.Stringer("data", data),
		zap.Uint32("size", size))

	return &NamedResource{
		heap: h,
		out:  out,
		name: name,
		data: data,
		size: size,
	}, nil
}

// Name returns the resource label.
func (r *NamedResource) Name() string {
	return r.name
}

// Data returns the buffer address, or heap.Nil once released.
func (r *NamedResource) Data() heap.Ptr {
	return r.data
}

// Len returns the number of integers in the buffer.
func (r *NamedResource) Len() int {
	return int(r.size / 4)
}

// Released reports whether Drop has run.
func (r *NamedResource) Released() bool {
	return r.released
}

// Drop prints the deallocation line and frees the buffer.
func (r *NamedResource) Drop() {
	if r.released {
		Logger().Warn("resource dropped twice", zap.String("name", r.name))
		return
	}
	r.released = true

	r.out.Printf("Deallocating %s", r.name)
	if err := r.heap.Free(r.data); err != nil {
		Logger().Error("free resource buffer",
			zap.String("name", r.name),
			zap.Error(err))
	}
	r.data = heap.Nil
}
