package resource

import (
	"sync"

	"go.uber.org/zap"
)

// Table maps handles to values, runs destructors when entries are destroyed
// and notifies observers of every lifecycle change.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value with a reference count of one and returns its handle.
// It returns 0 once the table is closed.
func (t *Table) Insert(typeID uint32, value any) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(typeID, value)
	if err != nil {
		Logger().Debug("insert failed", zap.Uint32("type_id", typeID), zap.Error(err))
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
		Refs:   1,
	})

	return handle
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *Table) GetTyped(handle Handle, typeID uint32) (any, bool) {
	actualTypeID, ok := t.backend.TypeID(handle)
	if !ok || actualTypeID != typeID {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Set replaces the value stored under handle without running a destructor.
func (t *Table) Set(handle Handle, value any) bool {
	return t.backend.Set(handle, value)
}

// Retain adds a reference to handle.
func (t *Table) Retain(handle Handle) bool {
	refs, ok := t.backend.Retain(handle)
	if !ok {
		return false
	}
	typeID, _ := t.backend.TypeID(handle)
	t.notify(Event{
		Type:   EventRetained,
		Handle: handle,
		TypeID: typeID,
		Refs:   refs,
	})
	return true
}

// Release drops one reference to handle. When the last reference goes the
// value's destructor runs and dropped is true.
func (t *Table) Release(handle Handle) (dropped bool, err error) {
	typeID, _ := t.backend.TypeID(handle)
	value, refs, err := t.backend.Release(handle)
	if err != nil {
		return false, err
	}

	if refs > 0 {
		t.notify(Event{
			Type:   EventReleased,
			Handle: handle,
			TypeID: typeID,
			Refs:   refs,
		})
		return false, nil
	}

	t.destroy(handle, typeID, value)
	return true, nil
}

// Remove destroys the entry regardless of its reference count and returns
// its value.
func (t *Table) Remove(handle Handle) (any, error) {
	typeID, _ := t.backend.TypeID(handle)
	value, err := t.backend.Drop(handle)
	if err != nil {
		return nil, err
	}

	t.destroy(handle, typeID, value)
	return value, nil
}

func (t *Table) destroy(handle Handle, typeID uint32, value any) {
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})
}

// RefCount returns the number of live references to handle.
func (t *Table) RefCount(handle Handle) (uint32, bool) {
	return t.backend.RefCount(handle)
}

// Borrow marks handle as borrowed. A borrowed entry cannot be destroyed.
func (t *Table) Borrow(handle Handle) bool {
	if !t.backend.Borrow(handle) {
		return false
	}
	refs, _ := t.backend.RefCount(handle)
	typeID, _ := t.backend.TypeID(handle)
	t.notify(Event{
		Type:   EventBorrowed,
		Handle: handle,
		TypeID: typeID,
		Refs:   refs,
	})
	return true
}

// ReturnBorrow ends one borrow of handle.
func (t *Table) ReturnBorrow(handle Handle) bool {
	if !t.backend.ReturnBorrow(handle) {
		return false
	}
	refs, _ := t.backend.RefCount(handle)
	typeID, _ := t.backend.TypeID(handle)
	t.notify(Event{
		Type:   EventBorrowReturned,
		Handle: handle,
		TypeID: typeID,
		Refs:   refs,
	})
	return true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of active resources.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Each calls fn for every live entry until fn returns false.
func (t *Table) Each(fn func(h Handle, typeID uint32, value any) bool) {
	t.backend.Each(fn)
}

// Clear destroys all resources.
func (t *Table) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	t.backend.Each(func(h Handle, typeID uint32, value any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		if _, err := t.Remove(h); err != nil {
			Logger().Debug("clear skipped entry", zap.Uint32("handle", uint32(h)), zap.Error(err))
		}
	}
}

// Close runs the destructor of every remaining resource and stops accepting
// operations.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

func (t *Table) notifyMoved(handle Handle) {
	refs, _ := t.backend.RefCount(handle)
	typeID, _ := t.backend.TypeID(handle)
	t.notify(Event{
		Type:   EventMoved,
		Handle: handle,
		TypeID: typeID,
		Refs:   refs,
	})
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
