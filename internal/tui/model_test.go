package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/internal/config"
	"mindmap/internal/document"
	"mindmap/internal/store"
	"mindmap/internal/tree"
	"mindmap/internal/viewport"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, opts Options, mutate func(*config.Config)) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.StartMenu = false
	cfg.Autosave.Enabled = false
	cfg.SaveDirectory = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	opts.Config = cfg
	m, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.editor.Viewport().Settle()
	return m
}

// addNode creates a node with tab or enter and commits text for it.
func addNode(t *testing.T, m *Model, how, text string) string {
	t.Helper()
	m.Update(key(how))
	require.Equal(t, ModeEditing, m.mode)
	id := m.editNodeID
	m.editInput.SetValue(text)
	m.Update(key("enter"))
	require.Equal(t, ModeNormal, m.mode)
	m.editor.Viewport().Settle()
	return id
}

func savedDocument(t *testing.T, text string) []byte {
	t.Helper()
	raw, err := document.Marshal(document.Savable(tree.New(text), viewport.State{Scale: 1, MinScale: 0.2, MaxScale: 3}, false))
	require.NoError(t, err)
	return raw
}

func TestWindowSizeResizesScreen(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	assert.Equal(t, 100, m.screen.cols)
	assert.Equal(t, 29, m.screen.rows)
	w, h := m.screen.Size()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 464.0, h)
}

func TestTabAddsChildAndEdits(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	id := addNode(t, m, "tab", "Idea")

	n := m.editor.FindNode(id)
	require.NotNil(t, n)
	assert.Equal(t, "Idea", n.Text)
	assert.Equal(t, id, m.editor.SelectedID())

	m.Update(key("u"))
	assert.Equal(t, "", m.editor.FindNode(id).Text, "undo reverts the text edit first")
	m.Update(key("u"))
	assert.Nil(t, m.editor.FindNode(id))
	m.Update(key("U"))
	assert.NotNil(t, m.editor.FindNode(id))
}

func TestEscCancelsEdit(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	id := addNode(t, m, "tab", "keep")

	m.Update(key("e"))
	require.Equal(t, ModeEditing, m.mode)
	m.editInput.SetValue("discard")
	m.Update(key("esc"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "keep", m.editor.FindNode(id).Text)
}

func TestEnterOnRootIsRejected(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m.Update(key("enter"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.NotEmpty(t, m.errorMessage)
	assert.Equal(t, 1, tree.Count(m.editor.Root()))
}

func TestSaveOpenRoundTrip(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	addNode(t, m, "tab", "Child")

	m.Update(key("S"))
	require.Equal(t, ModeFileInput, m.mode)
	m.fileInput.SetValue("plan")
	m.Update(key("enter"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.errorMessage)

	path := filepath.Join(m.cfg.SaveDirectory, "plan"+document.Extension)
	assert.FileExists(t, path)
	assert.Equal(t, path, m.path)
	assert.Equal(t, "plan", m.docName)
	assert.False(t, m.dirty())
	require.NotNil(t, m.watcher)

	m.Update(key("ctrl+n"))
	assert.Equal(t, 1, tree.Count(m.editor.Root()))
	assert.Empty(t, m.path)
	assert.Nil(t, m.watcher)

	m.Update(key("o"))
	require.Equal(t, ModeFileInput, m.mode)
	assert.Equal(t, []string{"plan"}, m.fileList)
	assert.Equal(t, "plan", m.fileInput.Value())
	m.Update(key("enter"))
	assert.Equal(t, ModeNormal, m.mode)
	require.Equal(t, 2, tree.Count(m.editor.Root()))
	assert.Equal(t, "Child", m.editor.Root().Children[0].Text)
}

func TestSaveAsAsksBeforeOverwriting(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	path := filepath.Join(m.cfg.SaveDirectory, "taken"+document.Extension)
	require.NoError(t, os.WriteFile(path, savedDocument(t, "old"), 0o644))

	m.Update(key("S"))
	m.fileInput.SetValue("taken")
	m.Update(key("enter"))
	require.Equal(t, ModeConfirm, m.mode)
	assert.Equal(t, ConfirmOverwriteFile, m.confirmAction)

	m.Update(key("y"))
	assert.Equal(t, ModeNormal, m.mode)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Central Topic")
}

func TestQuitConfirmsWhenDirty(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	cmd := m.handleKey(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	addNode(t, m, "tab", "unsaved")
	m.Update(key("q"))
	require.Equal(t, ModeConfirm, m.mode)
	assert.Equal(t, ConfirmQuit, m.confirmAction)
	m.Update(key("n"))
	assert.Equal(t, ModeNormal, m.mode)

	m.Update(key("q"))
	cmd = m.handleKey(key("y"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSearchJumpsToMatch(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	alpha := addNode(t, m, "tab", "alpha")
	beta := addNode(t, m, "enter", "beta")
	m.editor.Select(alpha)

	m.Update(key("/"))
	require.Equal(t, ModeSearch, m.mode)
	m.Update(key("bet"))
	assert.Equal(t, "bet", m.editor.SearchTerm())
	assert.Equal(t, []string{beta}, m.editor.Matches())

	m.Update(key("enter"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, beta, m.editor.SelectedID())

	m.Update(key("esc"))
	assert.Empty(t, m.editor.SearchTerm())
}

func TestExportVisualText(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m.Update(key("X"))
	require.Equal(t, ModeFileInput, m.mode)
	assert.Equal(t, "untitled.png", m.fileInput.Value())

	m.fileInput.SetValue("view.txt")
	m.Update(key("enter"))
	assert.Equal(t, ModeNormal, m.mode)
	raw, err := os.ReadFile(filepath.Join(m.cfg.SaveDirectory, "view.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Central Topic")
}

func TestExportImageRunsOffTheLoop(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	path := filepath.Join(t.TempDir(), "map.svg")
	msg, ok := m.exportImage(path)().(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.FileExists(t, path)

	m.Update(msg)
	assert.Contains(t, m.successMessage, "map.svg")
}

func TestZoomAnimatesThroughFrames(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	view := m.editor.Viewport()

	m.Update(key("+"))
	require.True(t, view.Animating())
	require.True(t, m.ticking)

	m.Update(frameMsg{gen: m.tickGen - 1})
	assert.Equal(t, 1.0, view.State().Scale, "frames from an older animation are dropped")

	for i := 0; i < 200 && view.Animating(); i++ {
		m.Update(frameMsg{gen: m.tickGen})
	}
	assert.False(t, view.Animating())
	assert.False(t, m.ticking)
	assert.InDelta(t, 1.25, view.State().Scale, 1e-9)
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
}

func TestMouseDragReparents(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m.showMinimap = false
	a := addNode(t, m, "tab", "a")
	b := addNode(t, m, "enter", "b")

	view := m.editor.Viewport()
	ra := nodeCells(view, m.editor.FindNode(a))
	rb := nodeCells(view, m.editor.FindNode(b))

	m.Update(press((rb.x0+rb.x1)/2, rb.midY()))
	assert.Equal(t, b, m.editor.SelectedID())
	m.Update(motion((ra.x0+ra.x1)/2, ra.midY()))
	assert.Equal(t, b, m.editor.DraggedID())
	assert.Equal(t, a, m.dropTarget)
	m.Update(release((ra.x0+ra.x1)/2, ra.midY()))

	assert.Empty(t, m.dropTarget)
	assert.Empty(t, m.editor.DraggedID())
	assert.Equal(t, a, tree.FindParent(m.editor.Root(), b).ID)
}

func TestMouseDragOnEmptySpacePans(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m.showMinimap = false
	before := m.editor.Viewport().State()

	m.Update(press(1, 1))
	m.Update(motion(3, 2))
	m.Update(release(3, 2))

	after := m.editor.Viewport().State()
	assert.InDelta(t, before.PanX+2*cellWidth, after.PanX, 1e-9)
	assert.InDelta(t, before.PanY+cellHeight, after.PanY, 1e-9)
}

func TestWheelZoomsAtPointer(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m.Update(tea.MouseMsg{X: 50, Y: 14, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Greater(t, m.editor.Viewport().State().Scale, 1.0)
	m.Update(tea.MouseMsg{X: 50, Y: 14, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.InDelta(t, 1.0, m.editor.Viewport().State().Scale, 1e-9)
}

func TestMinimapViewBoxDragPans(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	ox, oy, ok := minimapOrigin(m.screen.cols, m.screen.rows)
	require.True(t, ok)
	before := m.editor.Viewport().State()

	m.Update(press(ox+7, oy+3))
	require.True(t, m.mouse.onMinimap)
	require.True(t, m.mouse.onViewBox)
	m.Update(motion(ox+8, oy+3))
	m.Update(release(ox+8, oy+3))

	after := m.editor.Viewport().State()
	assert.Less(t, after.PanX, before.PanX, "dragging the box right moves the view right")
	assert.InDelta(t, before.PanY, after.PanY, 1e-9)
}

func TestInsertOutline(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	assert.Equal(t, 2, m.insertOutline("One\n  Two\nThree"))

	root := m.editor.Root()
	assert.Equal(t, 4, tree.Count(root))
	assert.Equal(t, "One", m.editor.SelectedNode().Text)
	assert.Nil(t, m.editor.Clipboard())

	assert.Zero(t, m.insertOutline("   \n"))
}

func TestAutosaveWritesStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "mindmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	m := newTestModel(t, Options{Store: st}, func(cfg *config.Config) {
		cfg.Autosave.Enabled = true
		cfg.Autosave.Debounce = time.Hour
	})
	addNode(t, m, "tab", "saved")
	require.True(t, m.autosaver.Pending())

	m.Close()
	entries, err := st.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, untitled, entries[0].Name)

	raw, err := st.Load(untitled)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "saved")
}

func TestAutosaveRetriesAfterFailedSave(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "mindmap.db"))
	require.NoError(t, err)

	m := newTestModel(t, Options{Store: st}, func(cfg *config.Config) {
		cfg.Autosave.Enabled = true
		cfg.Autosave.Debounce = time.Hour
	})
	addNode(t, m, "tab", "unsaved")
	require.True(t, m.autosaver.Pending())

	require.NoError(t, st.Close())
	require.True(t, m.autosaver.Flush())
	assert.NotEqual(t, m.editor.ContentKey(), m.autosaved.get())

	m.contentChanged()
	assert.True(t, m.autosaver.Pending(), "content from a failed save is saved again")
}

func TestAutosaveSkipsUnchangedContent(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "mindmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	m := newTestModel(t, Options{Store: st}, func(cfg *config.Config) {
		cfg.Autosave.Enabled = true
		cfg.Autosave.Debounce = time.Hour
	})
	m.Update(key("t"))
	m.Update(key("+"))
	assert.False(t, m.autosaver.Pending(), "collapse and zoom do not change content")
}

func TestStartupResumesStoredDocument(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "mindmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Save("notes", savedDocument(t, "Notes root")))

	m := newTestModel(t, Options{Store: st}, func(cfg *config.Config) {
		cfg.StartMenu = true
	})
	require.Equal(t, ModeStartup, m.mode)
	assert.Contains(t, m.View(), "Resume notes")

	m.Update(key("r"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "notes", m.docName)
	assert.Equal(t, "Notes root", m.editor.Root().Text)
}

func TestOpenPathOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "start"+document.Extension)
	require.NoError(t, os.WriteFile(path, savedDocument(t, "From disk"), 0o644))

	m := newTestModel(t, Options{Path: path}, nil)
	assert.Equal(t, "From disk", m.editor.Root().Text)
	assert.Equal(t, "start", m.docName)
	assert.NotNil(t, m.Init(), "the watcher is armed")

	missing := filepath.Join(t.TempDir(), "fresh"+document.Extension)
	m = newTestModel(t, Options{Path: missing}, nil)
	assert.Equal(t, missing, m.path)
	assert.Equal(t, 1, tree.Count(m.editor.Root()))
}

func TestOpenMalformedPathFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+document.Extension)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg := config.DefaultConfig()
	_, err := New(Options{Config: cfg, Path: path})
	assert.Error(t, err)
}

func TestFileChangedReloads(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m.saveTo(m.documentPath("plan"))
	require.NotNil(t, m.watcher)

	require.NoError(t, os.WriteFile(m.path, savedDocument(t, "Edited elsewhere"), 0o644))
	m.Update(fileChangedMsg{path: m.watcher.Path()})
	assert.Equal(t, "Edited elsewhere", m.editor.Root().Text)
	assert.False(t, m.dirty())

	m.Update(fileChangedMsg{path: "/somewhere/else.mind"})
	assert.Equal(t, ModeNormal, m.mode)
}

func TestFileChangedAsksWhenDirty(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m.saveTo(m.documentPath("plan"))
	addNode(t, m, "tab", "local")

	require.NoError(t, os.WriteFile(m.path, savedDocument(t, "Remote"), 0o644))
	m.Update(fileChangedMsg{path: m.watcher.Path()})
	require.Equal(t, ModeConfirm, m.mode)
	assert.Equal(t, ConfirmReload, m.confirmAction)

	m.Update(key("y"))
	assert.Equal(t, "Remote", m.editor.Root().Text)
	assert.Equal(t, 1, tree.Count(m.editor.Root()))
}

func TestHelpScrolls(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m.Update(key("?"))
	require.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "mindmap Help")

	m.Update(key("j"))
	assert.Equal(t, 1, m.helpScroll)
	m.Update(key("k"))
	assert.Equal(t, 0, m.helpScroll)
	m.Update(key("x"))
	assert.Equal(t, ModeNormal, m.mode)
}

func TestViewShowsStatus(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	v := m.View()
	assert.Contains(t, v, "NORMAL")
	assert.Contains(t, v, "untitled")
	assert.Contains(t, v, "Central Topic")

	m.Update(key("m"))
	assert.False(t, m.showMinimap)
}
