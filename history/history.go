// Package history is a bounded undo/redo stack of reversible edits.
package history

// DefaultLimit is the number of edits kept for undo.
const DefaultLimit = 100

// Edit is a reversible change. Apply must be safe to call again after Revert.
type Edit interface {
	Label() string
	Apply()
	Revert()
}

// Event reports what happened to the top of the stack.
type Event int

const (
	Done Event = iota
	Redone
	Undone
)

func (e Event) String() string {
	switch e {
	case Done:
		return "Done"
	case Redone:
		return "Redone"
	case Undone:
		return "Undone"
	default:
		return "Unknown"
	}
}

type listener struct {
	id int
	fn func(Event)
}

// History executes edits and keeps them for undo and redo.
type History struct {
	undoStack []Edit
	redoStack []Edit
	maxUndo   int

	listeners []listener
	nextID    int
}

// New returns a history keeping at most limit edits; limit <= 0 uses
// DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{maxUndo: limit}
}

// Subscribe registers fn for every event and returns a function removing it.
func (h *History) Subscribe(fn func(Event)) func() {
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Execute applies e and pushes it on the undo stack. Pending redos are
// discarded and the oldest edit is dropped past the limit.
func (h *History) Execute(e Edit) {
	if e == nil {
		return
	}
	e.Apply()
	h.undoStack = append(h.undoStack, e)
	if len(h.undoStack) > h.maxUndo {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = nil
	h.notify(Done)
}

// Undo reverts the most recent edit.
func (h *History) Undo() bool {
	n := len(h.undoStack)
	if n == 0 {
		return false
	}
	e := h.undoStack[n-1]
	h.undoStack = h.undoStack[:n-1]
	e.Revert()
	h.redoStack = append(h.redoStack, e)
	h.notify(Undone)
	return true
}

// Redo re-applies the most recently undone edit.
func (h *History) Redo() bool {
	n := len(h.redoStack)
	if n == 0 {
		return false
	}
	e := h.redoStack[n-1]
	h.redoStack = h.redoStack[:n-1]
	e.Apply()
	h.undoStack = append(h.undoStack, e)
	h.notify(Redone)
	return true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// UndoLabel returns the label of the edit Undo would revert.
func (h *History) UndoLabel() string {
	if n := len(h.undoStack); n > 0 {
		return h.undoStack[n-1].Label()
	}
	return ""
}

// Clear drops every edit without notifying.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func (h *History) notify(e Event) {
	for _, l := range append([]listener(nil), h.listeners...) {
		l.fn(e)
	}
}
