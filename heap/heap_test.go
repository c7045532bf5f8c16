package heap

import (
	"context"
	"encoding/binary"
	stderrors "errors"
	"testing"

	"github.com/wippyai/lang-concepts/errors"
)

func newTestHeap(t *testing.T, cfg Config) *Heap {
	t.Helper()
	h, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = h.Close(context.Background()) })
	return h
}

func isKind(err error, phase errors.Phase, kind errors.Kind) bool {
	return stderrors.Is(err, &errors.Error{Phase: phase, Kind: kind})
}

func TestHeap_AllocFree(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	p, err := h.Alloc(16, 0)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if p.IsNil() {
		t.Fatal("Expected non-nil pointer")
	}
	if h.Live() != 1 {
		t.Fatalf("Expected 1 live block, got %d", h.Live())
	}
	if h.InUse() != 16 {
		t.Fatalf("Expected 16 bytes in use, got %d", h.InUse())
	}

	if err := h.Free(p); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if h.Live() != 0 {
		t.Fatalf("Expected 0 live blocks, got %d", h.Live())
	}
	if h.InUse() != 0 {
		t.Fatalf("Expected 0 bytes in use, got %d", h.InUse())
	}

	st := h.Stats()
	if st.Allocs != 1 || st.Frees != 1 {
		t.Fatalf("Expected 1 alloc and 1 free, got %+v", st)
	}
}

func TestHeap_ReadWrite(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	p, err := h.Alloc(4, 4)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := h.WriteU32(p, 42); err != nil {
		t.Fatalf("WriteU32 failed: %v", err)
	}
	v, err := h.ReadU32(p)
	if err != nil {
		t.Fatalf("ReadU32 failed: %v", err)
	}
	if v != 42 {
		t.Fatalf("Expected 42, got %d", v)
	}

	// 4 byte block: a second word is out of bounds even though the span is 8.
	if _, err := h.ReadU32(p + 4); !isKind(err, errors.PhaseAccess, errors.KindOutOfBounds) {
		t.Fatalf("Expected out_of_bounds, got %v", err)
	}
}

func TestHeap_WriteU32s(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	p, err := h.Alloc(16, 4)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := h.WriteU32s(p, []uint32{0, 1, 2, 3}); err != nil {
		t.Fatalf("WriteU32s failed: %v", err)
	}

	data, err := h.Read(p, 16)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if got := binary.LittleEndian.Uint32(data[i*4:]); got != uint32(i) {
			t.Fatalf("Expected word %d = %d, got %d", i, i, got)
		}
	}
}

func TestHeap_DanglingAccess(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	p, _ := h.Alloc(4, 4)
	_ = h.WriteU32(p, 42)
	if err := h.Free(p); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	readsBefore := h.Stats().Reads
	if _, err := h.ReadU32(p); !isKind(err, errors.PhaseAccess, errors.KindDangling) {
		t.Fatalf("Expected dangling error, got %v", err)
	}
	if err := h.WriteU32(p, 7); !isKind(err, errors.PhaseAccess, errors.KindDangling) {
		t.Fatalf("Expected dangling error on write, got %v", err)
	}
	if h.Stats().Reads != readsBefore {
		t.Fatal("Rejected read must not be counted")
	}
}

func TestHeap_FreeErrors(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	if err := h.Free(Nil); !isKind(err, errors.PhaseFree, errors.KindNilPointer) {
		t.Fatalf("Expected nil_pointer, got %v", err)
	}

	p, _ := h.Alloc(32, 0)
	if err := h.Free(p + 8); !isKind(err, errors.PhaseFree, errors.KindInvalidPointer) {
		t.Fatalf("Expected invalid_pointer for interior address, got %v", err)
	}
	if err := h.Free(p); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if err := h.Free(p); !isKind(err, errors.PhaseFree, errors.KindDoubleFree) {
		t.Fatalf("Expected double_free, got %v", err)
	}
}

func TestHeap_NilAccess(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	if _, err := h.ReadU32(Nil); !isKind(err, errors.PhaseAccess, errors.KindNilPointer) {
		t.Fatalf("Expected nil_pointer, got %v", err)
	}
}

func TestHeap_AllocInvalidInput(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	tests := []struct {
		name  string
		size  uint32
		align uint32
	}{
		{"zero size", 0, 8},
		{"align not power of two", 8, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.Alloc(tt.size, tt.align); !isKind(err, errors.PhaseAlloc, errors.KindInvalidInput) {
				t.Fatalf("Expected invalid_input, got %v", err)
			}
		})
	}
}

func TestHeap_Alignment(t *testing.T) {
	h := newTestHeap(t, DefaultConfig())

	for _, align := range []uint32{1, 4, 8, 16, 64, 4096} {
		p, err := h.Alloc(3, align)
		if err != nil {
			t.Fatalf("Alloc(align=%d) failed: %v", align, err)
		}
		if uint32(p)%align != 0 {
			t.Fatalf("Expected %s aligned to %d", p, align)
		}
	}
}

func TestHeap_Grow(t *testing.T) {
	h := newTestHeap(t, Config{InitialPages: 1, MaxPages: 64})

	before := h.Size()
	p, err := h.Alloc(1<<20, 0)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if h.Size() <= before {
		t.Fatalf("Expected memory to grow beyond %d, got %d", before, h.Size())
	}
	if h.Stats().Grows == 0 {
		t.Fatal("Expected grow to be counted")
	}
	if size, ok := h.SizeOf(p); !ok || size != 1<<20 {
		t.Fatalf("Expected SizeOf = 1MB, got %d (%v)", size, ok)
	}
}

func TestHeap_GrowUsesTrailingSpan(t *testing.T) {
	tests := []struct {
		name     string
		maxPages uint32
		wantErr  bool
	}{
		{"fits in 17 pages", 17, false},
		{"too big for 16 pages", 16, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHeap(t, Config{InitialPages: 1, MaxPages: tt.maxPages})

			p, err := h.Alloc(1<<20, 4)
			if tt.wantErr {
				if !isKind(err, errors.PhaseAlloc, errors.KindOutOfMemory) {
					t.Fatalf("Expected out_of_memory, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Alloc failed: %v", err)
			}
			if h.Size() != 17*PageSize {
				t.Errorf("Expected %d bytes of memory, got %d", 17*PageSize, h.Size())
			}
			if h.Stats().Grows != 1 {
				t.Errorf("Expected 1 grow, got %d", h.Stats().Grows)
			}
			if err := h.WriteU32(p+(1<<20)-4, 7); err != nil {
				t.Errorf("Expected last word writable, got %v", err)
			}
		})
	}
}

func TestHeap_GrowAligned(t *testing.T) {
	h := newTestHeap(t, Config{InitialPages: 1, MaxPages: 4})

	p, err := h.Alloc(2*PageSize, PageSize)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if uint32(p)%PageSize != 0 {
		t.Errorf("Expected page-aligned pointer, got %s", p)
	}
}

func TestHeap_OutOfMemory(t *testing.T) {
	h := newTestHeap(t, Config{InitialPages: 1, MaxPages: 2})

	if _, err := h.Alloc(4*PageSize, 0); !isKind(err, errors.PhaseAlloc, errors.KindOutOfMemory) {
		t.Fatalf("Expected out_of_memory, got %v", err)
	}
	if h.Live() != 0 {
		t.Fatalf("Failed alloc must not leave live blocks, got %d", h.Live())
	}
}

func TestHeap_ReuseAndCoalesce(t *testing.T) {
	h := newTestHeap(t, Config{InitialPages: 1, MaxPages: 1})

	a, _ := h.Alloc(1024, 0)
	b, _ := h.Alloc(1024, 0)
	c, _ := h.Alloc(1024, 0)

	if err := h.Free(a); err != nil {
		t.Fatalf("Free a failed: %v", err)
	}
	if err := h.Free(b); err != nil {
		t.Fatalf("Free b failed: %v", err)
	}

	// a and b merge into one 2048 byte span that a new block fits into.
	d, err := h.Alloc(2048, 0)
	if err != nil {
		t.Fatalf("Alloc after coalesce failed: %v", err)
	}
	if d != a {
		t.Fatalf("Expected reuse of %s, got %s", a, d)
	}

	// Reads through the new block are no longer dangling.
	if err := h.WriteU32(a, 1); err != nil {
		t.Fatalf("WriteU32 into reused block failed: %v", err)
	}

	_ = h.Free(c)
	_ = h.Free(d)

	// Everything coalesced back: a block using the whole page minus the
	// reserved prefix fits without growing.
	if _, err := h.Alloc(PageSize-reserved, 0); err != nil {
		t.Fatalf("Expected full page allocation after coalesce, got %v", err)
	}
}

func TestHeap_Close(t *testing.T) {
	h, err := New(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p, _ := h.Alloc(8, 0)

	if err := h.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := h.Close(context.Background()); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}

	if _, err := h.Alloc(8, 0); !isKind(err, errors.PhaseAlloc, errors.KindClosed) {
		t.Fatalf("Expected closed error from Alloc, got %v", err)
	}
	if err := h.Free(p); !isKind(err, errors.PhaseFree, errors.KindClosed) {
		t.Fatalf("Expected closed error from Free, got %v", err)
	}
	if _, err := h.ReadU32(p); !isKind(err, errors.PhaseAccess, errors.KindClosed) {
		t.Fatalf("Expected closed error from ReadU32, got %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero initial", Config{InitialPages: 0, MaxPages: 4}},
		{"max below initial", Config{InitialPages: 8, MaxPages: 4}},
		{"max too large", Config{InitialPages: 1, MaxPages: 70000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.cfg); !isKind(err, errors.PhaseRuntime, errors.KindInvalidInput) {
				t.Fatalf("Expected invalid_input, got %v", err)
			}
		})
	}
}

func TestPtr_String(t *testing.T) {
	if got := Ptr(0x1234).String(); got != "0x00001234" {
		t.Fatalf("Expected 0x00001234, got %s", got)
	}
	if !Nil.IsNil() {
		t.Fatal("Nil must be nil")
	}
}
