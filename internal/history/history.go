// Package history keeps bounded undo and redo stacks of shape list snapshots.
package history

import "github.com/example/sketchpad/internal/shape"

// DefaultLimit is the stack bound used when none is configured.
const DefaultLimit = 20

// History holds deep copies of previous and undone shape lists, most recent
// last. Neither stack grows beyond the limit; the oldest entry is evicted.
type History struct {
	undo  [][]shape.Shape
	redo  [][]shape.Shape
	limit int
}

// New creates a History bounded to limit entries per stack.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Push records the state before a commit and clears the redo stack.
func (h *History) Push(before []shape.Shape) {
	h.undo = push(h.undo, snapshot(before), h.limit)
	h.redo = nil
}

// Undo returns the most recent snapshot and stores current on the redo stack.
// It reports false when there is nothing to undo.
func (h *History) Undo(current []shape.Shape) ([]shape.Shape, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	var prev []shape.Shape
	h.undo, prev = pop(h.undo)
	h.redo = push(h.redo, snapshot(current), h.limit)
	return shape.CloneAll(prev), true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current []shape.Shape) ([]shape.Shape, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	var next []shape.Shape
	h.redo, next = pop(h.redo)
	h.undo = push(h.undo, snapshot(current), h.limit)
	return shape.CloneAll(next), true
}

// UndoLen returns the number of undoable snapshots.
func (h *History) UndoLen() int { return len(h.undo) }

// RedoLen returns the number of redoable snapshots.
func (h *History) RedoLen() int { return len(h.redo) }

func snapshot(shapes []shape.Shape) []shape.Shape {
	out := shape.CloneAll(shapes)
	if out == nil {
		out = []shape.Shape{}
	}
	return out
}

func push(stack [][]shape.Shape, s []shape.Shape, limit int) [][]shape.Shape {
	stack = append(stack, s)
	if over := len(stack) - limit; over > 0 {
		// copy down so the evicted snapshots are not retained by the backing array
		n := copy(stack, stack[over:])
		for i := n; i < len(stack); i++ {
			stack[i] = nil
		}
		stack = stack[:n]
	}
	return stack
}

func pop(stack [][]shape.Shape) ([][]shape.Shape, []shape.Shape) {
	last := len(stack) - 1
	s := stack[last]
	stack[last] = nil
	return stack[:last], s
}
