package demo

import (
	"context"

	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/heap"
	"github.com/wippyai/lang-concepts/memdemo"
	"github.com/wippyai/lang-concepts/resource"
	"github.com/wippyai/lang-concepts/typesys"
)

// Demo is a named walkthrough that prints a transcript.
type Demo struct {
	Name    string
	Title   string
	Summary string
	Run     func(ctx context.Context, p *console.Printer) error
}

// Config holds settings shared by the demos.
type Config struct {
	Heap heap.Config
}

// DefaultConfig returns the settings the binaries use without flags.
func DefaultConfig() Config {
	return Config{Heap: heap.DefaultConfig()}
}

// Registry lists the demos in presentation order.
type Registry struct {
	demos []Demo
}

// NewRegistry builds the registry. Demos that allocate use cfg.Heap for a
// fresh heap on every run.
func NewRegistry(cfg Config) *Registry {
	return &Registry{demos: []Demo{
		{
			Name:    "types",
			Title:   "Static typing",
			Summary: "Declared types, generic addition, narrowing and a closure counter",
			Run: func(_ context.Context, p *console.Printer) error {
				typesys.Demo(p)
				return p.Err()
			},
		},
		{
			Name:    "static",
			Title:   "Compile-time type errors",
			Summary: "A reassignment to another type rejected by the type checker",
			Run: func(_ context.Context, p *console.Printer) error {
				return typesys.StaticDemo(p)
			},
		},
		{
			Name:    "memory",
			Title:   "Manual memory management",
			Summary: "Explicit release, a dangling pointer, scoped ownership and a leak",
			Run: withHeap(cfg.Heap, func(h *heap.Heap, p *console.Printer) error {
				return memdemo.New(h, p).Run()
			}),
		},
		{
			Name:    "ownership",
			Title:   "Ownership and borrowing",
			Summary: "Moves, borrows, scope-bound release and counted sharing",
			Run: func(_ context.Context, p *console.Printer) error {
				table := resource.NewTable()
				defer table.Close()
				table.Subscribe(resource.LogObserver(memdemo.Logger()))
				return memdemo.Ownership(table, p)
			},
		},
		{
			Name:    "usage",
			Title:   "Heap usage",
			Summary: "Usage reports while blocks are allocated, released and held by a list",
			Run: withHeap(cfg.Heap, func(h *heap.Heap, p *console.Printer) error {
				return memdemo.Usage(h, p)
			}),
		},
	}}
}

// All returns every demo in order.
func (r *Registry) All() []Demo {
	out := make([]Demo, len(r.demos))
	copy(out, r.demos)
	return out
}

// Names returns the demo names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.demos))
	for i, d := range r.demos {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a demo by name.
func (r *Registry) Lookup(name string) (Demo, bool) {
	for _, d := range r.demos {
		if d.Name == name {
			return d, true
		}
	}
	return Demo{}, false
}

func withHeap(cfg heap.Config, fn func(*heap.Heap, *console.Printer) error) func(context.Context, *console.Printer) error {
	return func(ctx context.Context, p *console.Printer) error {
		h, err := heap.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer h.Close(ctx)
		return fn(h, p)
	}
}
