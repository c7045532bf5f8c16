package resource

// Handle is an opaque reference to a resource in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventBorrowed
	EventBorrowReturned
	EventRetained
	EventReleased
	EventMoved
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow_returned"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	// Refs is the reference count after the event.
	Refs uint32
	Type EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage mechanism for resources.
type Backend interface {
	// Create stores a value with a reference count of one and returns a handle.
	Create(typeID uint32, value any) (Handle, error)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// Drop removes a resource regardless of its reference count and returns
	// the value so the caller can run its destructor.
	// Fails if the handle is invalid or has outstanding borrows.
	Drop(handle Handle) (any, error)

	// Close releases all resources held by the backend.
	Close() error
}

// CountingBackend extends Backend with reference counting and borrow tracking.
type CountingBackend interface {
	Backend

	// Retain increments the reference count and returns the new count.
	Retain(handle Handle) (uint32, bool)

	// Release decrements the reference count. When it reaches zero the entry
	// is removed and its value returned with a count of zero.
	Release(handle Handle) (any, uint32, error)

	// RefCount returns the current reference count.
	RefCount(handle Handle) (uint32, bool)

	// Borrow increments the borrow count for a handle.
	Borrow(handle Handle) bool

	// ReturnBorrow decrements the borrow count for a handle.
	ReturnBorrow(handle Handle) bool
}

// Dropper is optionally implemented by resource values that need cleanup.
// Drop runs once, when the entry holding the value is destroyed.
type Dropper interface {
	Drop()
}
