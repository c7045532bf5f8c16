package memdemo

import (
	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/resource"
)

// Ownership prints a walkthrough of moves, borrows, scope-bound release and
// counted sharing over string values held in t.
func Ownership(t *resource.Table, out *console.Printer) error {
	s1, err := resource.NewUnique(t, TypeText, "hello")
	if err != nil {
		return err
	}
	v, _ := s1.Get()
	out.Printf("Created string: %s", v)

	s2 := s1.Move()
	defer release(s2.Release)
	v, _ = s2.Get()
	out.Printf("Ownership transferred to s2: %s", v)
	if !s1.Valid() {
		out.Println("s1 no longer owns the data")
	}

	s3, err := resource.NewUnique(t, TypeText, "world")
	if err != nil {
		return err
	}
	defer release(s3.Release)
	if err := s3.Borrow(func(s string) {
		out.Printf("Borrowed: %s", s)
	}); err != nil {
		return err
	}
	v, _ = s3.Get()
	out.Printf("After borrowing, s3 is still valid: %s", v)

	s4, err := resource.NewUnique(t, TypeText, "hello")
	if err != nil {
		return err
	}
	defer release(s4.Release)
	if err := s4.BorrowMut(func(s *string) {
		*s += " world"
		out.Printf("Modified borrowed string: %s", *s)
	}); err != nil {
		return err
	}
	v, _ = s4.Get()
	out.Printf("After mutable borrowing, s4 is: %s", v)

	if err := scoped(t, out); err != nil {
		return err
	}

	shared, err := resource.NewShared(t, TypeText, "shared")
	if err != nil {
		return err
	}
	defer release(shared.Release)
	out.Printf("Created shared data, ref count: %d", shared.UseCount())

	if err := sharedRefs(shared, out); err != nil {
		return err
	}
	out.Printf("After inner scope, ref count: %d", shared.UseCount())
	return out.Err()
}

func scoped(t *resource.Table, out *console.Printer) error {
	s5, err := resource.NewUnique(t, TypeText, "temporary")
	if err != nil {
		return err
	}
	defer release(s5.Release)

	v, _ := s5.Get()
	out.Printf("Inside scope: %s", v)
	return nil
}

func sharedRefs(shared *resource.Shared[string], out *console.Printer) error {
	ref1, err := shared.Clone()
	if err != nil {
		return err
	}
	defer release(ref1.Release)
	ref2, err := shared.Clone()
	if err != nil {
		return err
	}
	defer release(ref2.Release)

	out.Printf("Added two references, ref count: %d", shared.UseCount())
	v1, _ := ref1.Get()
	out.Printf("Shared data via ref1: %s", v1)
	v2, _ := ref2.Get()
	out.Printf("Shared data via ref2: %s", v2)
	return nil
}
