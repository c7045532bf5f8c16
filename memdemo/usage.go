package memdemo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/heap"
)

const mib = 1024 * 1024

// dataHolder is a named 1 MiB payload kept alive by a list.
type dataHolder struct {
	name string
	data heap.Ptr
	size uint32
}

func (d *dataHolder) String() string {
	return fmt.Sprintf("%s (%dMB)", d.name, d.size/mib)
}

// Usage allocates and releases blocks on h, reporting heap usage after each
// step, then shows how a list that keeps references holds memory until the
// list itself lets go.
func Usage(h Heap, out *console.Printer) error {
	report := func(label string) {
		out.Printf("%s: %dMB in use of %dMB reserved", label, h.InUse()/mib, h.Size()/mib)
	}

	report("Initial memory usage")

	out.Println("Allocating memory...")
	var blocks []heap.Ptr
	for i := 0; i < 5; i++ {
		p, err := h.Alloc(mib, 8)
		if err != nil {
			return err
		}
		blocks = append(blocks, p)
		out.Printf("Allocated 1MB, total: %dMB", i+1)
		report(fmt.Sprintf("After allocation %d", i+1))
	}

	out.Blank()
	out.Println("Releasing the allocated blocks...")
	for _, p := range blocks {
		if err := h.Free(p); err != nil {
			return err
		}
	}
	report("After releasing the blocks")

	out.Blank()
	out.Println("Demonstrating potential memory leak pattern...")
	var leaky []*dataHolder
	for i := 0; i < 5; i++ {
		p, err := h.Alloc(mib, 8)
		if err != nil {
			return err
		}
		holder := &dataHolder{name: fmt.Sprintf("Object %d", i), data: p, size: mib}
		leaky = append(leaky, holder)
		out.Printf("Added %s to leaky list", holder)
		report("After adding to leaky list")
	}

	out.Blank()
	out.Println("Objects in the leaky list persist until the list releases them")
	for _, holder := range leaky {
		if err := h.Free(holder.data); err != nil {
			Logger().Error("free holder", zap.String("name", holder.name), zap.Error(err))
		}
	}

	report("Final memory usage")
	return out.Err()
}
