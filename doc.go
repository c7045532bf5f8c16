// Package langconcepts demonstrates static typing and manual memory
// management in Go, printing a transcript for each walkthrough.
//
// Go's own memory is garbage collected, so the memory walkthroughs allocate
// from a simulated heap: the linear memory of a small WebAssembly module run
// by wazero. Blocks on that heap are allocated and freed explicitly, which
// makes leaks, dangling pointers and double frees observable.
//
// # Architecture Overview
//
//	langconcepts/        Root package with the Heap, Allocator and Memory interfaces
//	├── heap/            Manually managed heap over wazero linear memory
//	├── resource/        Handle table, Unique and Shared ownership, retained list
//	├── typesys/         Typing walkthrough and the go/types static check
//	├── memdemo/         Memory, ownership and usage walkthroughs
//	├── demo/            Registry of runnable walkthroughs
//	├── console/         Transcript printer with optional lipgloss styling
//	├── errors/          Structured error types
//	├── internal/        Flag handling and process statistics for the binaries
//	└── cmd/             typedemo, memorydemo and the interactive tour
//
// # Quick Start
//
// Allocate, write and release a block:
//
//	h, err := heap.New(ctx, heap.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer h.Close(ctx)
//
//	p, err := h.Alloc(4, 4)
//	if err != nil {
//	    return err
//	}
//	_ = h.WriteU32(p, 42)
//	_ = h.Free(p)
//
// Reading p after Free fails with a dangling pointer error instead of
// returning stale data.
//
// Hold a value under counted ownership:
//
//	table := resource.NewTable()
//	s, _ := resource.NewShared(table, 1, value)
//	ref, _ := s.Clone()   // UseCount() == 2
//	_ = ref.Release()     // UseCount() == 1
//	_ = s.Release()       // value.Drop() runs here if value is a resource.Dropper
//
// # Binaries
//
//	go run ./cmd/typedemo
//	go run ./cmd/memorydemo [-v] [-rss] [-heap-pages N]
//	go run ./cmd/tour [-list] [-demo NAME] [-i]
package langconcepts
