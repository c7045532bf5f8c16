package heap

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/lang-concepts/errors"
)

// PageSize is the size of one linear memory page.
const PageSize = 65536

const (
	// reserved low bytes are never handed out, so Nil is never a live block.
	reserved     uint32 = 8
	defaultAlign uint32 = 8
	maxPages     uint32 = 65536
)

// Ptr is an offset into the heap's linear memory.
// Ptr 0 is reserved and always invalid.
type Ptr uint32

// Nil is the null sentinel. Alloc never returns it.
const Nil Ptr = 0

// IsNil reports whether p is the null sentinel.
func (p Ptr) IsNil() bool {
	return p == Nil
}

func (p Ptr) String() string {
	return fmt.Sprintf("0x%08x", uint32(p))
}

// Config holds configuration for heap creation
type Config struct {
	// InitialPages is the memory size at creation, in 64KB pages.
	InitialPages uint32

	// MaxPages bounds growth. Alloc fails with out_of_memory beyond it.
	// 16 pages is 1MB of memory, but the first 8 bytes are reserved, so a
	// 1MB block needs at least 17.
	MaxPages uint32
}

// DefaultConfig returns a one page heap that may grow to 64MB.
func DefaultConfig() Config {
	return Config{
		InitialPages: 1,
		MaxPages:     1024,
	}
}

func (c Config) validate() error {
	if c.InitialPages == 0 {
		return errors.InvalidInput(errors.PhaseRuntime, "initial pages must be at least 1")
	}
	if c.MaxPages < c.InitialPages {
		return errors.InvalidInput(errors.PhaseRuntime,
			fmt.Sprintf("max pages %d below initial pages %d", c.MaxPages, c.InitialPages))
	}
	if c.MaxPages > maxPages {
		return errors.InvalidInput(errors.PhaseRuntime,
			fmt.Sprintf("max pages %d exceeds %d", c.MaxPages, maxPages))
	}
	return nil
}

// Stats counts heap operations since creation.
type Stats struct {
	Allocs uint64
	Frees  uint64
	Reads  uint64
	Writes uint64
	Grows  uint64
}

type span struct {
	off  uint32
	size uint32
}

func (s span) end() uint32 {
	return s.off + s.size
}

type block struct {
	// size is the requested size; span.size may be larger after rounding.
	size uint32
	span span
}

// Heap is a manually managed heap carved out of a wazero linear memory.
// Blocks stay allocated until Free is called on them.
type Heap struct {
	rt       wazero.Runtime
	mem      api.Memory
	live     map[Ptr]block
	released map[Ptr]uint32
	free     []span
	stats    Stats
	cfg      Config
	inUse    uint32
	mu       sync.Mutex
	closed   bool
}

// New creates a heap backed by a fresh wazero runtime.
func New(ctx context.Context, cfg Config) (*Heap, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rt := wazero.NewRuntimeWithConfig(ctx,
		wazero.NewRuntimeConfig().WithMemoryLimitPages(cfg.MaxPages))

	mod, err := rt.InstantiateWithConfig(ctx,
		encodeModule(cfg.InitialPages, cfg.MaxPages),
		wazero.NewModuleConfig().WithName("heap"))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	mem := mod.ExportedMemory(memoryExport)
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.Instantiation(fmt.Errorf("module does not export %q", memoryExport))
	}

	h := &Heap{
		rt:       rt,
		mem:      mem,
		cfg:      cfg,
		live:     make(map[Ptr]block),
		released: make(map[Ptr]uint32),
	}
	h.free = []span{{off: reserved, size: mem.Size() - reserved}}

	Logger().Debug("heap created",
		zap.Uint32("pages", cfg.InitialPages),
		zap.Uint32("max_pages", cfg.MaxPages))

	return h, nil
}

// Alloc reserves size bytes aligned to align and returns the block's address.
// An align of 0 selects 8.
func (h *Heap) Alloc(size, align uint32) (Ptr, error) {
	if size == 0 {
		return Nil, errors.InvalidInput(errors.PhaseAlloc, "zero size allocation")
	}
	if align == 0 {
		align = defaultAlign
	}
	if align&(align-1) != 0 {
		return Nil, errors.InvalidInput(errors.PhaseAlloc, fmt.Sprintf("alignment %d is not a power of two", align))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return Nil, errors.Closed(errors.PhaseAlloc, "heap")
	}

	need := alignUp(size, defaultAlign)
	if need < size {
		return Nil, errors.OutOfMemory(size, align)
	}

	p, ok := h.carve(need, align)
	if !ok {
		if err := h.grow(need, align); err != nil {
			return Nil, errors.Wrap(errors.PhaseAlloc, errors.KindOutOfMemory, err,
				fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align))
		}
		if p, ok = h.carve(need, align); !ok {
			return Nil, errors.OutOfMemory(size, align)
		}
	}

	b := block{size: size, span: span{off: uint32(p), size: need}}
	h.live[p] = b
	h.forgetReleased(b.span)
	h.inUse += size
	h.stats.Allocs++

	Logger().Debug("alloc",
		zap.Stringer("ptr", p),
		zap.Uint32("size", size),
		zap.Uint32("align", align))

	return p, nil
}

// Free releases the block starting at p.
func (h *Heap) Free(p Ptr) error {
	if p.IsNil() {
		return errors.NilPointer(errors.PhaseFree, "heap.Ptr")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.Closed(errors.PhaseFree, "heap")
	}

	b, ok := h.live[p]
	if !ok {
		if _, was := h.released[p]; was {
			return errors.DoubleFree(uint32(p))
		}
		return errors.InvalidPointer(errors.PhaseFree, uint32(p))
	}

	delete(h.live, p)
	h.released[p] = b.size
	h.inUse -= b.size
	h.stats.Frees++
	h.insertFree(b.span)

	Logger().Debug("free",
		zap.Stringer("ptr", p),
		zap.Uint32("size", b.size))

	return nil
}

// ReadU32 reads a little-endian uint32 at p.
func (h *Heap) ReadU32(p Ptr) (uint32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.check(p, 4); err != nil {
		return 0, err
	}
	v, ok := h.mem.ReadUint32Le(uint32(p))
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseAccess, uint32(p), 4)
	}
	h.stats.Reads++
	return v, nil
}

// WriteU32 writes a little-endian uint32 at p.
func (h *Heap) WriteU32(p Ptr, v uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.check(p, 4); err != nil {
		return err
	}
	if !h.mem.WriteUint32Le(uint32(p), v) {
		return errors.OutOfBounds(errors.PhaseAccess, uint32(p), 4)
	}
	h.stats.Writes++
	return nil
}

// Read returns a copy of n bytes starting at p.
func (h *Heap) Read(p Ptr, n uint32) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.check(p, n); err != nil {
		return nil, err
	}
	view, ok := h.mem.Read(uint32(p), n)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseAccess, uint32(p), n)
	}
	h.stats.Reads++
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

// Write copies data to p.
func (h *Heap) Write(p Ptr, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.check(p, uint32(len(data))); err != nil {
		return err
	}
	if !h.mem.Write(uint32(p), data) {
		return errors.OutOfBounds(errors.PhaseAccess, uint32(p), uint32(len(data)))
	}
	h.stats.Writes++
	return nil
}

// WriteU32s writes vals as consecutive little-endian uint32 values at p.
func (h *Heap) WriteU32s(p Ptr, vals []uint32) error {
	buf := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return h.Write(p, buf)
}

// Live returns the number of allocated blocks.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// InUse returns the sum of requested sizes of allocated blocks.
func (h *Heap) InUse() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inUse
}

// Size returns the current linear memory size in bytes.
func (h *Heap) Size() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0
	}
	return h.mem.Size()
}

// SizeOf returns the requested size of the live block starting at p.
func (h *Heap) SizeOf(p Ptr) (uint32, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.live[p]
	return b.size, ok
}

// Stats returns a snapshot of operation counters.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Close releases the wazero runtime. Blocks still allocated are reported
// at debug level and discarded.
func (h *Heap) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if len(h.live) > 0 {
		Logger().Debug("heap closed with live blocks",
			zap.Int("blocks", len(h.live)),
			zap.Uint32("bytes", h.inUse))
	}

	h.free = nil
	h.released = nil
	return h.rt.Close(ctx)
}

// check verifies that [p, p+n) lies inside one live block. Caller holds mu.
func (h *Heap) check(p Ptr, n uint32) error {
	if h.closed {
		return errors.Closed(errors.PhaseAccess, "heap")
	}
	if p.IsNil() {
		return errors.NilPointer(errors.PhaseAccess, "heap.Ptr")
	}

	addr := uint64(p)
	for base, b := range h.live {
		if addr >= uint64(base) && addr+uint64(n) <= uint64(base)+uint64(b.size) {
			return nil
		}
	}
	for base, size := range h.released {
		if addr >= uint64(base) && addr < uint64(base)+uint64(size) {
			return errors.Dangling(uint32(p))
		}
	}
	return errors.OutOfBounds(errors.PhaseAccess, uint32(p), n)
}

// carve takes need bytes at the requested alignment from the first span
// that fits. Caller holds mu.
func (h *Heap) carve(need, align uint32) (Ptr, bool) {
	for i, s := range h.free {
		start := alignUp(s.off, align)
		if start < s.off {
			continue
		}
		pad := start - s.off
		if uint64(pad)+uint64(need) > uint64(s.size) {
			continue
		}

		rest := []span{}
		if pad > 0 {
			rest = append(rest, span{off: s.off, size: pad})
		}
		if tail := s.size - pad - need; tail > 0 {
			rest = append(rest, span{off: start + need, size: tail})
		}

		h.free = append(h.free[:i], append(rest, h.free[i+1:]...)...)
		return Ptr(start), true
	}
	return Nil, false
}

// grow extends linear memory by just enough pages for a block of need bytes
// at align. A free span at the end of memory merges with the new pages, so
// only the part of the block it cannot hold is requested. Caller holds mu.
func (h *Heap) grow(need, align uint32) error {
	end := uint64(h.mem.Size())
	start := alignUp64(end, align)
	if n := len(h.free); n > 0 && uint64(h.free[n-1].end()) == end {
		start = alignUp64(uint64(h.free[n-1].off), align)
	}
	bytes := start + uint64(need) - end

	pages := (bytes + PageSize - 1) / PageSize
	current := end / PageSize
	if current+pages > uint64(h.cfg.MaxPages) {
		return errors.New(errors.PhaseAlloc, errors.KindOutOfMemory).
			Value(bytes).
			Detail("cannot grow memory by %d page(s) (at %d, limit %d)", pages, current, h.cfg.MaxPages).
			Build()
	}

	prev, ok := h.mem.Grow(uint32(pages))
	if !ok {
		return errors.New(errors.PhaseAlloc, errors.KindOutOfMemory).
			Value(bytes).
			Detail("cannot grow memory by %d page(s) (limit %d)", pages, h.cfg.MaxPages).
			Build()
	}
	h.stats.Grows++

	Logger().Debug("grow",
		zap.Uint32("from_pages", prev),
		zap.Uint64("by_pages", pages))

	h.insertFree(span{off: prev * PageSize, size: uint32(pages) * PageSize})
	return nil
}

// insertFree returns s to the address ordered free list, merging it with
// adjacent spans. Caller holds mu.
func (h *Heap) insertFree(s span) {
	i := sort.Search(len(h.free), func(i int) bool {
		return h.free[i].off >= s.off
	})

	h.free = append(h.free, span{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = s

	if i+1 < len(h.free) && h.free[i].end() == h.free[i+1].off {
		h.free[i].size += h.free[i+1].size
		h.free = append(h.free[:i+1], h.free[i+2:]...)
	}
	if i > 0 && h.free[i-1].end() == h.free[i].off {
		h.free[i-1].size += h.free[i].size
		h.free = append(h.free[:i], h.free[i+1:]...)
	}
}

// forgetReleased drops released records that the new span s now covers.
// Caller holds mu.
func (h *Heap) forgetReleased(s span) {
	for base, size := range h.released {
		if uint64(base) < uint64(s.end()) && uint64(s.off) < uint64(base)+uint64(size) {
			delete(h.released, base)
		}
	}
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}

func alignUp64(v uint64, align uint32) uint64 {
	a := uint64(align)
	return (v + a - 1) &^ (a - 1)
}
