package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mindmap/internal/tree"
)

func snapshot(text string) *tree.Node {
	return &tree.Node{ID: tree.RootID, Text: text}
}

func TestEmptyStack(t *testing.T) {
	s := New()
	assert.Equal(t, -1, s.Index())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	_, ok := s.Undo()
	assert.False(t, ok)
	_, ok = s.Redo()
	assert.False(t, ok)
	assert.False(t, s.Add(nil, ""))
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := New()
	s.Add(snapshot("one"), "root")
	s.Add(snapshot("two"), "root")
	s.Add(snapshot("three"), "x")

	e, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "two", e.Data.Text)
	e, ok = s.Undo()
	require.True(t, ok)
	assert.Equal(t, "one", e.Data.Text)
	assert.False(t, s.CanUndo())

	e, ok = s.Redo()
	require.True(t, ok)
	assert.Equal(t, "two", e.Data.Text)
	e, ok = s.Redo()
	require.True(t, ok)
	assert.Equal(t, "three", e.Data.Text)
	assert.Equal(t, "x", e.SelectedID)
	assert.False(t, s.CanRedo())
}

func TestConsecutiveDuplicatesAreDropped(t *testing.T) {
	s := New()
	assert.True(t, s.Add(snapshot("a"), ""))
	assert.False(t, s.Add(snapshot("a"), ""))
	assert.Equal(t, 1, s.Len())

	s.Add(snapshot("b"), "")
	assert.True(t, s.Add(snapshot("a"), ""), "only the current entry is compared")
	assert.Equal(t, 3, s.Len())
}

func TestSelectionChangeIsRecorded(t *testing.T) {
	s := New()
	root := snapshot("a")
	assert.True(t, s.Add(root, tree.RootID))
	assert.True(t, s.Add(root, "other"))
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Add(root, "other"))

	s.Add(snapshot("b"), tree.RootID)
	e, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", e.Data.Text)
	assert.Equal(t, "other", e.SelectedID)
}

func TestAddAfterUndoTruncates(t *testing.T) {
	s := New()
	s.Add(snapshot("a"), "")
	s.Add(snapshot("b"), "")
	s.Add(snapshot("c"), "")
	s.Undo()
	s.Undo()
	s.Add(snapshot("d"), "")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Index())
	assert.False(t, s.CanRedo())
	e, _ := s.Undo()
	assert.Equal(t, "a", e.Data.Text)
}

func TestEntriesAreIsolatedCopies(t *testing.T) {
	s := New()
	live := snapshot("a")
	s.Add(live, "")
	live.Text = "mutated"
	s.Add(snapshot("b"), "")

	e, _ := s.Undo()
	assert.Equal(t, "a", e.Data.Text)
	e.Data.Text = "changed"
	e, _ = s.Redo()
	e, _ = s.Undo()
	assert.Equal(t, "a", e.Data.Text)
}

func TestClear(t *testing.T) {
	s := New()
	s.Add(snapshot("a"), "")
	s.Add(snapshot("b"), "")
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, -1, s.Index())
	assert.True(t, s.Add(snapshot("b"), ""))
	assert.Equal(t, 0, s.Index())
}

func TestLimitDropsOldest(t *testing.T) {
	s := New(WithLimit(3))
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		s.Add(snapshot(text), "")
	}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Index())
	e, _ := s.Undo()
	assert.Equal(t, "d", e.Data.Text)
	e, _ = s.Undo()
	assert.Equal(t, "c", e.Data.Text)
	assert.False(t, s.CanUndo())
}

func TestIndexStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(WithLimit(rapid.IntRange(0, 6).Draw(t, "limit")))
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				s.Add(snapshot(rapid.StringMatching(`[ab]`).Draw(t, "text")), "")
			case 1:
				s.Undo()
			case 2:
				s.Redo()
			}
			if s.Len() == 0 && s.Index() != -1 {
				t.Fatalf("empty stack with index %d", s.Index())
			}
			if s.Len() > 0 && (s.Index() < 0 || s.Index() >= s.Len()) {
				t.Fatalf("index %d out of range for %d entries", s.Index(), s.Len())
			}
		}
	})
}
