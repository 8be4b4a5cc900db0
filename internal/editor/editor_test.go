package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/internal/document"
	"mindmap/internal/layout"
	"mindmap/internal/tree"
)

type fakeHost struct{ w, h float64 }

func (f *fakeHost) Size() (float64, float64) { return f.w, f.h }

func newEditor(t *testing.T) *Editor {
	t.Helper()
	e := New(&fakeHost{w: 800, h: 600}, layout.NewCellMeasurer(), DefaultOptions())
	e.Viewport().Settle()
	return e
}

func TestNewDocument(t *testing.T) {
	e := newEditor(t)
	root := e.Root()
	assert.Equal(t, tree.RootID, root.ID)
	assert.Equal(t, DefaultRootText, root.Text)
	assert.Equal(t, 400.0, root.X)
	assert.Equal(t, 300.0, root.Y)
	assert.Positive(t, root.Width)
	assert.Equal(t, tree.RootID, e.SelectedID())
	assert.Equal(t, 1, e.History().Len())

	s := e.Viewport().State()
	assert.InDelta(t, 0, s.PanX, 0.01)
	assert.InDelta(t, 0, s.PanY, 0.01)
}

func TestAddChildSelectsAndUndoes(t *testing.T) {
	e := newEditor(t)
	id, ok := e.AddChild()
	require.True(t, ok)
	assert.Equal(t, id, e.SelectedID())
	assert.Len(t, e.Root().Children, 1)
	assert.Greater(t, e.FindNode(id).X, e.Root().X)

	require.True(t, e.Undo())
	assert.Empty(t, e.Root().Children)
	assert.Equal(t, tree.RootID, e.SelectedID())
	assert.False(t, e.Undo())

	require.True(t, e.Redo())
	assert.Len(t, e.Root().Children, 1)
	assert.Equal(t, id, e.SelectedID())
}

func TestAddSibling(t *testing.T) {
	e := newEditor(t)
	_, ok := e.AddSibling()
	assert.False(t, ok, "the root has no siblings")

	first, _ := e.AddChild()
	second, ok := e.AddSibling()
	require.True(t, ok)
	assert.Equal(t, second, e.SelectedID())
	require.Len(t, e.Root().Children, 2)
	assert.Equal(t, first, e.Root().Children[0].ID)
	assert.Less(t, e.Root().Children[0].Y, e.Root().Children[1].Y)
}

func TestDeleteSelectsNeighbour(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddChild()
	b, _ := e.AddSibling()
	require.True(t, e.Select(a))
	require.True(t, e.DeleteSelected())
	assert.Equal(t, b, e.SelectedID())

	require.True(t, e.DeleteSelected())
	assert.Equal(t, tree.RootID, e.SelectedID())
	assert.False(t, e.DeleteSelected(), "the root cannot be deleted")
}

func TestCutPasteClearsClipboard(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddChild()
	require.True(t, e.SetText(a, "moved"))
	require.True(t, e.Cut())
	assert.Equal(t, tree.RootID, e.SelectedID())

	pasted, ok := e.Paste()
	require.True(t, ok)
	assert.Equal(t, pasted, e.SelectedID())
	assert.NotEqual(t, a, pasted)
	assert.Equal(t, "moved", e.FindNode(pasted).Text)
	assert.Nil(t, e.Clipboard())

	_, ok = e.Paste()
	assert.False(t, ok)
}

func TestCopyPasteTwice(t *testing.T) {
	e := newEditor(t)
	e.AddChild()
	require.True(t, e.Copy())
	require.True(t, e.Select(tree.RootID))
	p1, _ := e.Paste()
	require.True(t, e.Select(tree.RootID))
	p2, _ := e.Paste()
	assert.NotEqual(t, p1, p2)
	assert.Len(t, e.Root().Children, 3)
	assert.NotNil(t, e.Clipboard())
}

func TestSetTextTrimsAndDedups(t *testing.T) {
	e := newEditor(t)
	before := e.History().Len()
	assert.True(t, e.SetText(tree.RootID, "Plan  \n"))
	assert.Equal(t, "Plan", e.Root().Text)
	assert.False(t, e.SetText(tree.RootID, "Plan"))
	assert.Equal(t, before+1, e.History().Len())
}

func TestDragReparent(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddChild()
	a1, _ := e.AddChild()
	require.True(t, e.Select(a))
	b, _ := e.AddSibling()

	assert.False(t, e.BeginDrag(tree.RootID))
	require.True(t, e.BeginDrag(a))
	assert.Equal(t, a, e.DraggedID())
	assert.Empty(t, e.PotentialParent(a, a1), "own descendant")
	assert.False(t, e.EndDrag(a1))
	assert.Empty(t, e.DraggedID())

	require.True(t, e.BeginDrag(a))
	require.True(t, e.EndDrag(b))
	assert.Equal(t, b, tree.FindParent(e.Root(), a).ID)
	assert.Equal(t, a, tree.FindParent(e.Root(), a1).ID, "the subtree moves along")
	assert.Greater(t, e.FindNode(a).X, e.FindNode(b).X)
}

func TestDragStartedThreshold(t *testing.T) {
	e := newEditor(t)
	assert.False(t, e.DragStarted(5, -5))
	assert.True(t, e.DragStarted(0, 5.5))
}

func TestNavigate(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddChild()
	a1, _ := e.AddChild()
	require.True(t, e.Select(a))
	b, _ := e.AddSibling()

	require.True(t, e.Select(""))
	assert.True(t, e.Navigate(Down), "no selection selects the root")
	assert.Equal(t, tree.RootID, e.SelectedID())

	assert.True(t, e.Navigate(Right))
	assert.Equal(t, a, e.SelectedID())
	assert.True(t, e.Navigate(Down))
	assert.Equal(t, b, e.SelectedID())
	assert.False(t, e.Navigate(Down))
	assert.True(t, e.Navigate(Up))
	assert.True(t, e.Navigate(Right))
	assert.Equal(t, a1, e.SelectedID())
	assert.True(t, e.Navigate(Left))
	assert.Equal(t, a, e.SelectedID())

	require.True(t, e.ToggleCollapse(a))
	assert.False(t, e.Navigate(Right), "collapsed children are skipped")
}

func TestCollapseMovesHiddenSelection(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddChild()
	a1, _ := e.AddChild()
	require.Equal(t, a1, e.SelectedID())
	require.True(t, e.ToggleCollapse(a))
	assert.Equal(t, a, e.SelectedID())

	e.ExpandAll()
	require.True(t, e.Select(a1))
	e.Collapse(0)
	assert.Equal(t, tree.RootID, e.SelectedID())
	e.Expand(1)
	assert.False(t, e.Root().Collapsed)
	assert.True(t, e.FindNode(a).Collapsed)
}

func TestSearchRevealsMatches(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddChild()
	require.True(t, e.SetText(a, "Needle one"))
	deep, _ := e.AddChild()
	require.True(t, e.SetText(deep, "needle two"))
	require.True(t, e.ToggleCollapse(a))

	assert.Equal(t, 2, e.SetSearch("NEEDLE"))
	assert.True(t, e.IsHighlighted(deep))
	require.True(t, e.Select(tree.RootID))

	id, ok := e.NextMatch()
	require.True(t, ok)
	assert.Equal(t, a, id)
	id, _ = e.NextMatch()
	assert.Equal(t, deep, id)
	assert.False(t, e.FindNode(a).Collapsed, "ancestors are expanded")
	id, _ = e.NextMatch()
	assert.Equal(t, a, id, "wraps around")
	id, _ = e.PrevMatch()
	assert.Equal(t, deep, id)

	e.ClearSearch()
	assert.Empty(t, e.Highlighted())
	_, ok = e.NextMatch()
	assert.False(t, ok)
}

func TestContentChangeHook(t *testing.T) {
	e := newEditor(t)
	calls := 0
	e.OnContentChange(func() { calls++ })
	e.AddChild()
	e.Undo()
	assert.Equal(t, 2, calls)
}

func TestLoadRawErrorKeepsDocument(t *testing.T) {
	e := newEditor(t)
	id, _ := e.AddChild()
	err := e.LoadRaw([]byte(`{"text":"no id"}`))
	require.ErrorIs(t, err, document.ErrFileRead)
	assert.NotNil(t, e.FindNode(id))
}

func TestLoadRawBlankStartsNewDocument(t *testing.T) {
	e := newEditor(t)
	e.AddChild()
	require.NoError(t, e.LoadRaw([]byte("  ")))
	assert.Empty(t, e.Root().Children)
	assert.Equal(t, 1, e.History().Len())
}

func TestReloadWithoutPanCentersRoot(t *testing.T) {
	e := newEditor(t)
	e.AddChild()
	e.Viewport().ZoomAtPoint(2, 0, 0)
	e.Viewport().PanBy(37, -12)

	raw, err := e.RawData(false)
	require.NoError(t, err)

	other := newEditor(t)
	require.NoError(t, other.LoadRaw(raw))
	other.Viewport().Settle()

	s := other.Viewport().State()
	assert.Equal(t, 2.0, s.Scale)
	assert.InDelta(t, 400-2*400, s.PanX, 0.01)
	assert.InDelta(t, 300-2*300, s.PanY, 0.01)
	assert.Len(t, other.Root().Children, 1)
	assert.Equal(t, e.ContentKey(), other.ContentKey())
	assert.Equal(t, 1, other.History().Len())
}

func TestReloadWithPanRestoresView(t *testing.T) {
	e := newEditor(t)
	e.Viewport().PanBy(37, -12)
	raw, err := e.RawData(true)
	require.NoError(t, err)

	other := newEditor(t)
	require.NoError(t, other.LoadRaw(raw))
	s := other.Viewport().State()
	assert.False(t, other.Viewport().Animating())
	assert.InDelta(t, 37, s.PanX, 1e-9)
	assert.InDelta(t, -12, s.PanY, 1e-9)
}

func TestReloadKeepsCollapseAndSelection(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddChild()
	e.AddChild()
	require.True(t, e.ToggleCollapse(a))
	require.True(t, e.Select(a))
	e.Viewport().PanBy(10, 10)
	before := e.Viewport().State()

	raw, err := e.RawData(false)
	require.NoError(t, err)
	require.NoError(t, e.ReloadRaw(raw))

	assert.True(t, e.FindNode(a).Collapsed)
	assert.Equal(t, a, e.SelectedID())
	assert.Equal(t, before.PanX, e.Viewport().State().PanX)
	assert.Equal(t, 1, e.History().Len())

	require.NoError(t, e.ReloadRaw([]byte(`{"id":"root","text":"fresh"}`)))
	assert.Equal(t, tree.RootID, e.SelectedID())
	assert.Equal(t, "fresh", e.Root().Text)

	assert.Error(t, e.ReloadRaw([]byte(`{`)))
	assert.Equal(t, "fresh", e.Root().Text)
}
