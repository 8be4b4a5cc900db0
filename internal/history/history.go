// Package history keeps a linear undo/redo stack of tree snapshots.
package history

import "mindmap/internal/tree"

// Entry is one snapshot. Data is owned by the stack; callers receive copies.
type Entry struct {
	Data       *tree.Node
	SelectedID string
}

// Stack holds snapshots and a cursor. index is -1 when empty.
type Stack struct {
	entries []Entry
	index   int
	limit   int
}

type Option func(*Stack)

// WithLimit caps the number of stored entries. Zero means unbounded.
func WithLimit(n int) Option {
	return func(s *Stack) {
		if n > 0 {
			s.limit = n
		}
	}
}

func New(opts ...Option) *Stack {
	s := &Stack{index: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records a snapshot of data and the selection. It is dropped when both
// equal the current entry. Adding after an undo discards the redo tail.
func (s *Stack) Add(data *tree.Node, selectedID string) bool {
	if data == nil {
		return false
	}
	if s.index >= 0 {
		cur := s.entries[s.index]
		if cur.SelectedID == selectedID && tree.Equal(cur.Data, data) {
			return false
		}
	}
	s.entries = append(s.entries[:s.index+1], Entry{Data: tree.Clone(data), SelectedID: selectedID})
	s.index = len(s.entries) - 1
	if s.limit > 0 && len(s.entries) > s.limit {
		drop := len(s.entries) - s.limit
		s.entries = append([]Entry(nil), s.entries[drop:]...)
		s.index -= drop
	}
	return true
}

// Undo moves the cursor back and returns a copy of the entry it lands on.
func (s *Stack) Undo() (Entry, bool) {
	if !s.CanUndo() {
		return Entry{}, false
	}
	s.index--
	return s.current(), true
}

// Redo moves the cursor forward and returns a copy of that entry.
func (s *Stack) Redo() (Entry, bool) {
	if !s.CanRedo() {
		return Entry{}, false
	}
	s.index++
	return s.current(), true
}

func (s *Stack) CanUndo() bool { return s.index > 0 }

func (s *Stack) CanRedo() bool { return s.index < len(s.entries)-1 }

// Clear empties the stack.
func (s *Stack) Clear() {
	s.entries = nil
	s.index = -1
}

func (s *Stack) Len() int { return len(s.entries) }

// Index is the cursor position, -1 when empty.
func (s *Stack) Index() int { return s.index }

func (s *Stack) current() Entry {
	e := s.entries[s.index]
	return Entry{Data: tree.Clone(e.Data), SelectedID: e.SelectedID}
}
