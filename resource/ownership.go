package resource

import (
	"fmt"

	"github.com/wippyai/lang-concepts/errors"
)

// Unique is an exclusively owned resource. Exactly one Unique refers to an
// entry at a time; Move hands the entry to a new owner and empties the old one.
type Unique[T any] struct {
	table  *Table
	handle Handle
}

// NewUnique inserts v into t under single ownership.
func NewUnique[T any](t *Table, typeID uint32, v T) (*Unique[T], error) {
	h := t.Insert(typeID, v)
	if h == 0 {
		return nil, errors.Closed(errors.PhaseOwnership, "resource table")
	}
	return &Unique[T]{table: t, handle: h}, nil
}

// Handle returns the owned handle, or 0 after Move or Release.
func (u *Unique[T]) Handle() Handle {
	return u.handle
}

// Valid reports whether u still owns a live entry.
func (u *Unique[T]) Valid() bool {
	if u.handle == 0 {
		return false
	}
	_, ok := u.table.Get(u.handle)
	return ok
}

// Get returns the owned value.
func (u *Unique[T]) Get() (T, bool) {
	return typed[T](u.table, u.handle)
}

// Borrow lends the value to fn. The entry cannot be destroyed while fn runs.
func (u *Unique[T]) Borrow(fn func(T)) error {
	v, err := u.borrow()
	if err != nil {
		return err
	}
	defer u.table.ReturnBorrow(u.handle)

	fn(v)
	return nil
}

// BorrowMut lends the value to fn for modification and stores the result.
func (u *Unique[T]) BorrowMut(fn func(*T)) error {
	v, err := u.borrow()
	if err != nil {
		return err
	}
	defer u.table.ReturnBorrow(u.handle)

	fn(&v)
	u.table.Set(u.handle, v)
	return nil
}

func (u *Unique[T]) borrow() (T, error) {
	var zero T
	if u.handle == 0 || !u.table.Borrow(u.handle) {
		return zero, errors.InvalidHandle(uint32(u.handle))
	}
	v, ok := u.Get()
	if !ok {
		u.table.ReturnBorrow(u.handle)
		return zero, errors.TypeMismatch(errors.PhaseOwnership, nil, typeName[T](), "stored value has a different type")
	}
	return v, nil
}

// Move transfers ownership to the returned Unique. u no longer owns anything
// and its Release becomes a no-op.
func (u *Unique[T]) Move() *Unique[T] {
	moved := &Unique[T]{table: u.table, handle: u.handle}
	u.handle = 0
	if moved.handle != 0 {
		u.table.notifyMoved(moved.handle)
	}
	return moved
}

// Release destroys the owned entry, running its destructor. Releasing an
// empty Unique does nothing.
func (u *Unique[T]) Release() error {
	if u.handle == 0 {
		return nil
	}
	h := u.handle
	if _, err := u.table.Remove(h); err != nil {
		return err
	}
	u.handle = 0
	return nil
}

// Shared is one counted reference to a resource. The entry is destroyed when
// the last reference is released.
type Shared[T any] struct {
	table    *Table
	handle   Handle
	released bool
}

// NewShared inserts v into t and returns its first reference.
func NewShared[T any](t *Table, typeID uint32, v T) (*Shared[T], error) {
	h := t.Insert(typeID, v)
	if h == 0 {
		return nil, errors.Closed(errors.PhaseOwnership, "resource table")
	}
	return &Shared[T]{table: t, handle: h}, nil
}

// Handle returns the referenced handle.
func (s *Shared[T]) Handle() Handle {
	return s.handle
}

// Get returns the shared value.
func (s *Shared[T]) Get() (T, bool) {
	if s.released {
		var zero T
		return zero, false
	}
	return typed[T](s.table, s.handle)
}

// Clone returns a new reference to the same entry.
func (s *Shared[T]) Clone() (*Shared[T], error) {
	if s.released || !s.table.Retain(s.handle) {
		return nil, errors.InvalidHandle(uint32(s.handle))
	}
	return &Shared[T]{table: s.table, handle: s.handle}, nil
}

// UseCount returns the number of live references, or 0 once the entry is gone.
func (s *Shared[T]) UseCount() int {
	refs, ok := s.table.RefCount(s.handle)
	if !ok {
		return 0
	}
	return int(refs)
}

// Release gives up this reference. A reference can be released once; later
// calls do nothing.
func (s *Shared[T]) Release() error {
	if s.released {
		return nil
	}
	if _, err := s.table.Release(s.handle); err != nil {
		return err
	}
	s.released = true
	return nil
}

func typed[T any](t *Table, h Handle) (T, bool) {
	var zero T
	if h == 0 {
		return zero, false
	}
	v, ok := t.Get(h)
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
