package history

import (
	"reflect"
	"testing"
)

type counterEdit struct {
	value *int
	delta int
}

func (e counterEdit) Label() string { return "add" }
func (e counterEdit) Apply()        { *e.value += e.delta }
func (e counterEdit) Revert()       { *e.value -= e.delta }

func TestHistoryEvents(t *testing.T) {
	value := 0
	h := New(0)
	var events []Event
	h.Subscribe(func(e Event) { events = append(events, e) })

	h.Execute(counterEdit{&value, 2})
	h.Execute(counterEdit{&value, 3})
	if value != 5 {
		t.Fatalf("expected 5, got %d", value)
	}
	if !h.Undo() || value != 2 {
		t.Fatalf("undo failed, value=%d", value)
	}
	if !h.Redo() || value != 5 {
		t.Fatalf("redo failed, value=%d", value)
	}
	if h.Redo() {
		t.Fatalf("redo with empty stack should fail")
	}

	want := []Event{Done, Done, Undone, Redone}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
}

func TestHistoryExecuteClearsRedo(t *testing.T) {
	value := 0
	h := New(10)
	h.Execute(counterEdit{&value, 1})
	h.Undo()
	if !h.CanRedo() {
		t.Fatalf("expected redo available")
	}
	h.Execute(counterEdit{&value, 4})
	if h.CanRedo() {
		t.Fatalf("execute should discard redo stack")
	}
	if value != 4 {
		t.Fatalf("expected 4, got %d", value)
	}
}

func TestHistoryLimit(t *testing.T) {
	value := 0
	h := New(2)
	for i := 0; i < 3; i++ {
		h.Execute(counterEdit{&value, 1})
	}
	undone := 0
	for h.Undo() {
		undone++
	}
	if undone != 2 {
		t.Fatalf("expected 2 undoable edits, got %d", undone)
	}
	if value != 1 {
		t.Fatalf("oldest edit should stay applied, value=%d", value)
	}
}

func TestHistoryUnsubscribe(t *testing.T) {
	value := 0
	h := New(0)
	calls := 0
	stop := h.Subscribe(func(Event) { calls++ })
	h.Execute(counterEdit{&value, 1})
	stop()
	h.Undo()
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if h.Undo() {
		t.Fatalf("nothing left to undo")
	}
}

func TestEventString(t *testing.T) {
	if Done.String() != "Done" || Undone.String() != "Undone" || Redone.String() != "Redone" || Event(9).String() != "Unknown" {
		t.Fatalf("unexpected event names")
	}
}
