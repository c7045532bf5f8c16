package memdemo

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/heap"
	"github.com/wippyai/lang-concepts/resource"
)

func newTestHeap(t *testing.T) *heap.Heap {
	t.Helper()
	h, err := heap.New(context.Background(), heap.DefaultConfig())
	if err != nil {
		t.Fatalf("heap.New failed: %v", err)
	}
	t.Cleanup(func() { _ = h.Close(context.Background()) })
	return h
}

func newTestDemo(t *testing.T) (*Demo, *heap.Heap, *bytes.Buffer) {
	t.Helper()
	h := newTestHeap(t)
	var buf bytes.Buffer
	return New(h, console.New(&buf)), h, &buf
}

func assertLines(t *testing.T, got string, want []string) {
	t.Helper()
	lines := console.Lines(got)
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(want), len(lines), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestNamedResource_Lifecycle(t *testing.T) {
	h := newTestHeap(t)
	var buf bytes.Buffer
	out := console.New(&buf)

	r, err := NewNamedResource(h, out, "Buffer", 64)
	if err != nil {
		t.Fatalf("NewNamedResource failed: %v", err)
	}
	if r.Name() != "Buffer" {
		t.Errorf("Expected name Buffer, got %s", r.Name())
	}
	if r.Len() != 16 {
		t.Fatalf("Expected 16 elements, got %d", r.Len())
	}
	for i := 0; i < r.Len(); i++ {
		v, err := h.ReadU32(r.Data() + heap.Ptr(4*i))
		if err != nil {
			t.Fatalf("ReadU32(%d) failed: %v", i, err)
		}
		if v != uint32(i) {
			t.Fatalf("Expected data[%d] == %d, got %d", i, i, v)
		}
	}
	if h.Live() != 1 {
		t.Fatalf("Expected 1 live block, got %d", h.Live())
	}

	r.Drop()
	r.Drop()

	if !r.Released() {
		t.Error("Expected resource to be released")
	}
	if !r.Data().IsNil() {
		t.Errorf("Expected nil data after Drop, got %s", r.Data())
	}
	if h.Live() != 0 {
		t.Errorf("Expected 0 live blocks, got %d", h.Live())
	}
	if h.Stats().Frees != 1 {
		t.Errorf("Expected exactly 1 free, got %d", h.Stats().Frees)
	}
	assertLines(t, buf.String(), []string{
		"Allocating Buffer with 64 bytes",
		"Deallocating Buffer",
	})
}

func TestNamedResource_AllocFailure(t *testing.T) {
	h := newTestHeap(t)
	var buf bytes.Buffer

	if _, err := NewNamedResource(h, console.New(&buf), "Empty", 0); err == nil {
		t.Fatal("Expected error for zero-size resource")
	}
	if h.Live() != 0 {
		t.Errorf("Expected 0 live blocks, got %d", h.Live())
	}
}

func TestDemo_ProperManagement(t *testing.T) {
	d, h, buf := newTestDemo(t)

	if err := d.ProperManagement(); err != nil {
		t.Fatalf("ProperManagement failed: %v", err)
	}
	if h.Live() != 0 {
		t.Errorf("Expected 0 live blocks, got %d", h.Live())
	}
	assertLines(t, buf.String(), []string{
		"",
		"--- Demonstrating Proper Manual Memory Management ---",
		"Allocating ManagedResource with 1048576 bytes",
		"Resource created",
		"Deallocating ManagedResource",
	})
}

func TestDemo_DanglingPointer(t *testing.T) {
	d, h, buf := newTestDemo(t)

	before := h.Stats()
	if err := d.DanglingPointer(); err != nil {
		t.Fatalf("DanglingPointer failed: %v", err)
	}
	after := h.Stats()

	// One read before the free; none after.
	if reads := after.Reads - before.Reads; reads != 1 {
		t.Errorf("Expected 1 read, got %d", reads)
	}
	if h.Live() != 0 {
		t.Errorf("Expected 0 live blocks, got %d", h.Live())
	}
	assertLines(t, buf.String(), []string{
		"",
		"--- Demonstrating Dangling Pointer ---",
		"Allocated integer with value: 42",
		"Memory freed, but pointer still exists",
		"Attempting to access freed memory (dangerous!): [access prevented to avoid crash]",
		"Set pointer to nil for safety",
		"Pointer is nil, safely avoided accessing freed memory",
	})
	if strings.Count(buf.String(), "42") != 1 {
		t.Errorf("Expected 42 to appear once, got:\n%s", buf.String())
	}
}

func TestDemo_SmartPointers(t *testing.T) {
	d, h, buf := newTestDemo(t)

	if err := d.SmartPointers(); err != nil {
		t.Fatalf("SmartPointers failed: %v", err)
	}
	if h.Live() != 0 {
		t.Errorf("Expected 0 live blocks, got %d", h.Live())
	}
	if d.Table().Len() != 0 {
		t.Errorf("Expected empty table, got %d entries", d.Table().Len())
	}

	lines := console.Lines(buf.String())
	want := []string{
		"",
		"--- Demonstrating Smart Pointers ---",
		"Creating unique handle (single ownership)",
		"Allocating UniqueResource with 1048576 bytes",
		"", // address line, checked below
		"Deallocating UniqueResource",
		"",
		"Creating shared handle (shared ownership)",
		"Allocating SharedResource with 1048576 bytes",
		"Reference count: 1",
		"Creating another reference to the same resource",
		"Reference count: 2",
		"After inner scope, reference count: 1",
		"Deallocating SharedResource",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(want), len(lines), buf.String())
	}
	for i := range want {
		if i == 4 {
			continue
		}
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}

	const prefix = "Used resource data at address: 0x"
	if !strings.HasPrefix(lines[4], prefix) {
		t.Fatalf("Expected address line, got %q", lines[4])
	}
	if lines[4] == prefix+"00000000" {
		t.Error("Expected non-nil address")
	}
}

func TestDemo_Leak(t *testing.T) {
	d, h, buf := newTestDemo(t)

	leaked := resource.Leaked()
	if err := d.Leak(); err != nil {
		t.Fatalf("Leak failed: %v", err)
	}
	if resource.Leaked() != leaked+1 {
		t.Errorf("Expected %d retained values, got %d", leaked+1, resource.Leaked())
	}
	if h.Live() != 1 {
		t.Errorf("Expected 1 live block, got %d", h.Live())
	}
	if strings.Contains(buf.String(), "Deallocating") {
		t.Errorf("Expected no deallocation, got:\n%s", buf.String())
	}
}

func TestDemo_Run(t *testing.T) {
	d, _, buf := newTestDemo(t)

	if err := d.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "Deallocating LeakedResource") {
		t.Error("Expected LeakedResource never to be deallocated")
	}

	var order []string
	for _, line := range console.Lines(out) {
		if name, ok := strings.CutPrefix(line, "Deallocating "); ok {
			order = append(order, name)
		}
	}
	wantOrder := []string{"ManagedResource", "UniqueResource", "SharedResource"}
	if strings.Join(order, ",") != strings.Join(wantOrder, ",") {
		t.Errorf("Expected destruction order %v, got %v", wantOrder, order)
	}

	lines := console.Lines(out)
	if lines[0] != "Memory Management in Go" {
		t.Errorf("Expected header, got %q", lines[0])
	}
	tail := []string{
		"",
		"CAUTION: The following demonstration will cause a memory leak",
		"",
		"--- Demonstrating Memory Leak ---",
		"Allocating LeakedResource with 1048576 bytes",
		"Resource created but not deleted (leaked)",
		"",
		"Program completed. All properly managed resources should be freed.",
		"However, the deliberately leaked resource remains allocated.",
		"Outstanding allocations: 1 (1048576 bytes)",
	}
	got := lines[len(lines)-len(tail):]
	for i := range tail {
		if got[i] != tail[i] {
			t.Errorf("Tail line %d: expected %q, got %q", i, tail[i], got[i])
		}
	}
	if len(lines) != 37 {
		t.Errorf("Expected 37 lines, got %d", len(lines))
	}
}

func TestDemo_TableEvents(t *testing.T) {
	d, _, _ := newTestDemo(t)

	obs := &recorder{}
	d.Table().Subscribe(obs)
	if err := d.SmartPointers(); err != nil {
		t.Fatalf("SmartPointers failed: %v", err)
	}

	want := []resource.EventType{
		resource.EventCreated, // unique
		resource.EventBorrowed,
		resource.EventBorrowReturned,
		resource.EventDropped,
		resource.EventCreated, // shared
		resource.EventRetained,
		resource.EventReleased,
		resource.EventDropped,
	}
	if len(obs.events) != len(want) {
		t.Fatalf("Expected %d events, got %d: %v", len(want), len(obs.events), obs.events)
	}
	for i := range want {
		if obs.events[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], obs.events[i])
		}
	}
}

type recorder struct {
	events []resource.EventType
}

func (r *recorder) OnResourceEvent(e resource.Event) {
	r.events = append(r.events, e.Type)
}
