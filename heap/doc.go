// Package heap provides a manually managed heap on top of a WebAssembly
// linear memory.
//
// Go memory is garbage collected, so allocating and freeing it by hand
// cannot be shown directly. This package instantiates a module that only
// declares and exports one memory, runs it in a wazero runtime, and hands
// out blocks of that memory through an explicit Alloc/Free API:
//
//	h, err := heap.New(ctx, heap.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer h.Close(ctx)
//
//	p, err := h.Alloc(4, 4)
//	_ = h.WriteU32(p, 42)
//	_ = h.Free(p)
//
// # Pointers
//
// A Ptr is an offset into linear memory. Offset 0 is reserved and is the Nil
// sentinel; Alloc never returns it.
//
// # Checked Access
//
// Every read and write is checked against the set of live blocks. Access
// through a pointer into a released block fails with a dangling error rather
// than returning stale data, and freeing a block twice fails with a
// double_free error.
//
// # Growth
//
// Blocks are placed first-fit in an address ordered free list. Adjacent free
// spans are merged on Free. When no span fits, memory grows by whole 64KB
// pages up to Config.MaxPages.
//
// Blocks that are never freed stay allocated until the heap is closed.
package heap
