// Package memdemo prints walkthroughs of manual memory management on a
// simulated heap.
//
// # Memory demo
//
// Demo.Run prints four scenarios in order:
//
//   - ProperManagement allocates a NamedResource and releases it explicitly.
//   - DanglingPointer frees a cell, keeps the stale pointer, and clears it
//     to heap.Nil instead of reading through it.
//   - SmartPointers holds one resource under resource.Unique, released when
//     its scope returns, and one under resource.Shared, released with its
//     last reference.
//   - Leak parks a resource on the process-wide retained list.
//
// The closing lines report what is still allocated, which is exactly the
// leaked resource.
//
// # Other walkthroughs
//
// Ownership shows moves, borrows and counted sharing over plain strings.
// Usage reports heap usage while blocks are allocated, released and held by
// a list.
//
// The transcript goes to a console.Printer. Diagnostics go to Logger().
package memdemo
