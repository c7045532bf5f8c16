// Package resource provides ownership-tagged handles over a reference
// counted handle table.
//
// Go has no destructors, so deterministic release has to be spelled out.
// A Table maps integer handles to values and runs a value's Drop method
// (see Dropper) at the exact moment its entry is destroyed.
//
// # Ownership
//
// Two handle kinds sit on top of the table:
//
//	Unique[T] - single owner; Release destroys the entry, Move transfers it
//	Shared[T] - one counted reference; the entry is destroyed when the last
//	            reference is released
//
// Scope-bound release is written with defer:
//
//	u, err := resource.NewUnique(table, typeID, value)
//	if err != nil {
//	    return err
//	}
//	defer u.Release()
//
//	s1, _ := resource.NewShared(table, typeID, value)
//	defer s1.Release()
//	s2, _ := s1.Clone()     // s1.UseCount() == 2
//	s2.Release()            // s1.UseCount() == 1
//
// # Borrowing
//
// Unique.Borrow and Unique.BorrowMut lend the value to a callback. While a
// borrow is outstanding the entry cannot be destroyed.
//
// # Observers
//
// Register observers to track resource lifecycle events:
//
//	table.Subscribe(resource.LogObserver(logger))
//
// # Leaks
//
// Leak parks a value on a process-wide list so that it is never collected
// and never dropped. It exists to show what a forgotten release looks like.
package resource
