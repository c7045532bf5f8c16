package resource

import (
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func (o *testObserver) types() []EventType {
	out := make([]EventType, len(o.events))
	for i, e := range o.events {
		out[i] = e.Type
	}
	return out
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h := table.Insert(1, "test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if _, ok := table.GetTyped(h, 1); !ok {
		t.Fatal("GetTyped with correct type failed")
	}
	if _, ok := table.GetTyped(h, 2); ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	val, err := table.Remove(h)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert(1, "test")
	table.Retain(h)
	table.Borrow(h)
	table.ReturnBorrow(h)
	table.Release(h)
	table.Release(h)

	want := []EventType{EventCreated, EventRetained, EventBorrowed, EventBorrowReturned, EventReleased, EventDropped}
	got := obs.types()
	if len(got) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if obs.events[1].Refs != 2 {
		t.Fatalf("Expected Retain event with 2 refs, got %d", obs.events[1].Refs)
	}
	if obs.events[4].Refs != 1 {
		t.Fatalf("Expected Release event with 1 ref, got %d", obs.events[4].Refs)
	}
	if obs.events[5].Handle != h {
		t.Fatal("Wrong handle in drop event")
	}

	table.Unsubscribe(obs)
	table.Insert(1, "test2")
	if len(obs.events) != len(want) {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_ReleaseRunsDropperOnLastReference(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h := table.Insert(1, d)
	table.Retain(h)

	dropped, err := table.Release(h)
	if err != nil || dropped {
		t.Fatalf("First Release should not drop, got dropped=%v err=%v", dropped, err)
	}
	if d.count != 0 {
		t.Fatal("Drop() called while a reference remains")
	}

	dropped, err = table.Release(h)
	if err != nil || !dropped {
		t.Fatalf("Last Release should drop, got dropped=%v err=%v", dropped, err)
	}
	if d.count != 1 {
		t.Fatalf("Expected Drop() to be called once, called %d times", d.count)
	}
}

func TestTable_DropperInterface(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h := table.Insert(1, d)
	table.Retain(h)
	if _, err := table.Remove(h); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if d.count != 1 {
		t.Fatalf("Expected Drop() to be called once, called %d times", d.count)
	}
}

func TestTable_Set(t *testing.T) {
	table := NewTable()

	h := table.Insert(1, "before")
	if !table.Set(h, "after") {
		t.Fatal("Set failed")
	}
	if v, _ := table.Get(h); v != "after" {
		t.Fatalf("Expected 'after', got %v", v)
	}
	if table.Set(0, "x") {
		t.Fatal("Set on handle 0 should fail")
	}
}

func TestTable_Clear(t *testing.T) {
	table := NewTable()

	table.Insert(1, "a")
	table.Insert(1, "b")
	table.Insert(1, "c")

	if table.Len() != 3 {
		t.Fatal("Expected Len() == 3")
	}

	table.Clear()

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Clear")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	table.Insert(1, d)
	table.Insert(1, "b")

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.count != 1 {
		t.Fatalf("Expected Close to drop remaining values, got %d", d.count)
	}

	if h := table.Insert(1, "c"); h != 0 {
		t.Fatal("Expected Insert to fail after Close")
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable()
	table.Insert(1, "a")
	h := table.Insert(2, "b")
	table.Insert(1, "c")
	if _, err := table.Remove(h); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	var seen []any
	table.Each(func(_ Handle, _ uint32, v any) bool {
		seen = append(seen, v)
		return true
	})
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "c" {
		t.Errorf("Expected [a c], got %v", seen)
	}

	count := 0
	table.Each(func(Handle, uint32, any) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Expected iteration to stop after 1 entry, got %d", count)
	}
}
