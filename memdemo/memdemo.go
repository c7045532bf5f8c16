package memdemo

import (
	"go.uber.org/zap"

	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/heap"
	"github.com/wippyai/lang-concepts/resource"
)

// Demo walks through manual allocation, a dangling pointer, scoped and
// counted ownership, and a deliberate leak, printing a transcript.
type Demo struct {
	heap  Heap
	table *resource.Table
	out   *console.Printer
}

// New creates a demo allocating from h and printing to out.
func New(h Heap, out *console.Printer) *Demo {
	table := resource.NewTable()
	table.Subscribe(resource.LogObserver(Logger()))
	return &Demo{
		heap:  h,
		table: table,
		out:   out,
	}
}

// Table returns the handle table holding owned resources.
func (d *Demo) Table() *resource.Table {
	return d.table
}

// Run prints the header, every scenario in order and the closing summary.
func (d *Demo) Run() error {
	d.out.Println("Memory Management in Go")

	for _, step := range []func() error{
		d.ProperManagement,
		d.DanglingPointer,
		d.SmartPointers,
	} {
		if err := step(); err != nil {
			return err
		}
	}

	d.out.Caution("CAUTION: The following demonstration will cause a memory leak")
	if err := d.Leak(); err != nil {
		return err
	}

	d.out.Blank()
	d.out.Println("Program completed. All properly managed resources should be freed.")
	d.out.Println("However, the deliberately leaked resource remains allocated.")
	d.out.Printf("Outstanding allocations: %d (%d bytes)", d.heap.Live(), d.heap.InUse())
	return d.out.Err()
}

// ProperManagement allocates a resource and releases it explicitly.
func (d *Demo) ProperManagement() error {
	d.out.Section("Demonstrating Proper Manual Memory Management")

	r, err := NewNamedResource(d.heap, d.out, "ManagedResource", DefaultSize)
	if err != nil {
		return err
	}
	d.out.Println("Resource created")
	r.Drop()
	return nil
}

// DanglingPointer frees a cell while a pointer to it survives, then clears
// the pointer instead of reading through it.
func (d *Demo) DanglingPointer() error {
	d.out.Section("Demonstrating Dangling Pointer")

	ptr, err := d.heap.Alloc(4, 4)
	if err != nil {
		return err
	}
	if err := d.heap.WriteU32(ptr, 42); err != nil {
		return err
	}
	v, err := d.heap.ReadU32(ptr)
	if err != nil {
		return err
	}
	d.out.Printf("Allocated integer with value: %d", v)

	if err := d.heap.Free(ptr); err != nil {
		return err
	}
	d.out.Println("Memory freed, but pointer still exists")
	Logger().Debug("pointer outlives its block", zap.Stringer("ptr", ptr))

	d.out.Println("Attempting to access freed memory (dangerous!): [access prevented to avoid crash]")

	ptr = heap.Nil
	d.out.Println("Set pointer to nil for safety")

	if ptr.IsNil() {
		d.out.Println("Pointer is nil, safely avoided accessing freed memory")
	}
	return nil
}

// SmartPointers shows a uniquely owned resource released at the end of its
// scope and a shared resource released when its last reference goes.
func (d *Demo) SmartPointers() error {
	d.out.Section("Demonstrating Smart Pointers")

	d.out.Println("Creating unique handle (single ownership)")
	if err := d.uniqueScope(); err != nil {
		return err
	}

	d.out.Blank()
	d.out.Println("Creating shared handle (shared ownership)")
	r, err := NewNamedResource(d.heap, d.out, "SharedResource", DefaultSize)
	if err != nil {
		return err
	}
	shared, err := resource.NewShared(d.table, TypeNamedResource, r)
	if err != nil {
		r.Drop()
		return err
	}
	defer release(shared.Release)

	d.out.Printf("Reference count: %d", shared.UseCount())
	if err := d.sharedScope(shared); err != nil {
		return err
	}
	d.out.Printf("After inner scope, reference count: %d", shared.UseCount())
	return nil
}

func (d *Demo) uniqueScope() error {
	r, err := NewNamedResource(d.heap, d.out, "UniqueResource", DefaultSize)
	if err != nil {
		return err
	}
	owner, err := resource.NewUnique(d.table, TypeNamedResource, r)
	if err != nil {
		r.Drop()
		return err
	}
	defer release(owner.Release)

	return owner.Borrow(func(r *NamedResource) {
		d.out.Printf("Used resource data at address: %s", r.Data())
	})
}

func (d *Demo) sharedScope(shared *resource.Shared[*NamedResource]) error {
	d.out.Println("Creating another reference to the same resource")
	ref, err := shared.Clone()
	if err != nil {
		return err
	}
	defer release(ref.Release)

	d.out.Printf("Reference count: %d", ref.UseCount())
	return nil
}

// Leak allocates a resource and parks it on the process-wide retained list
// without ever releasing it.
func (d *Demo) Leak() error {
	d.out.Section("Demonstrating Memory Leak")

	r, err := NewNamedResource(d.heap, d.out, "LeakedResource", DefaultSize)
	if err != nil {
		return err
	}
	resource.Leak(r)
	d.out.Println("Resource created but not deleted (leaked)")
	return nil
}

func release(fn func() error) {
	if err := fn(); err != nil {
		Logger().Error("release owned value", zap.Error(err))
	}
}
