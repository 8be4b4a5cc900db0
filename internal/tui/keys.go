package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mindmap/internal/editor"
	"mindmap/internal/tree"
)

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeStartup:
		return m.handleStartupKey(msg)
	case ModeHelp:
		m.handleHelpKey(msg)
		return nil
	case ModeEditing:
		return m.handleEditKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeFileInput:
		return m.handleFileKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleStartupKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "n":
		m.newDocument()
	case "o":
		return m.startFileInput(FileOpOpen)
	case "r":
		if entry, ok := m.lastStored(); ok {
			if err := m.openStored(entry.Name); err != nil {
				m.errorMessage = err.Error()
			}
		}
	case "q", "ctrl+c", "esc":
		return m.quit()
	}
	return nil
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	e := m.editor
	key := msg.String()
	m.errorMessage, m.successMessage = "", ""

	switch key {
	case "q", "ctrl+c":
		if m.dirty() && m.cfg.Confirmations {
			m.confirm(ConfirmQuit)
			return nil
		}
		return m.quit()

	case "?":
		m.prevMode, m.mode = m.mode, ModeHelp
		m.helpScroll = 0

	case "tab":
		if id, ok := e.AddChild(); ok {
			return m.startEditing(id)
		}
	case "enter":
		if id, ok := e.AddSibling(); ok {
			return m.startEditing(id)
		}
		m.errorMessage = "The central topic has no siblings"
	case "delete", "backspace", "d":
		if !e.DeleteSelected() {
			m.errorMessage = "The central topic cannot be deleted"
		}

	case "up", "k":
		e.Navigate(editor.Up)
	case "down", "j":
		e.Navigate(editor.Down)
	case "left", "h":
		e.Navigate(editor.Left)
	case "right", "l":
		e.Navigate(editor.Right)
	case "shift+up", "shift+down", "shift+left", "shift+right", "H", "J", "K", "L":
		m.handlePan(key, getMoveSpeed(key))
	case "[":
		e.MoveSelected(-1)
	case "]":
		e.MoveSelected(1)

	case " ", "e", "f2":
		return m.startEditing(e.SelectedID())
	case "t":
		e.ToggleCollapse(e.SelectedID())
	case "E":
		e.ExpandAll()
	case "C":
		e.Collapse(1)

	case "ctrl+z", "u":
		if !e.Undo() {
			m.successMessage = "Nothing to undo"
		}
	case "ctrl+y", "ctrl+r", "U":
		if !e.Redo() {
			m.successMessage = "Nothing to redo"
		}

	case "c":
		if e.Copy() {
			m.successMessage = "Copied"
		}
	case "x":
		if !e.Cut() {
			m.errorMessage = "The central topic cannot be cut"
		}
	case "p", "v":
		if _, ok := e.Paste(); !ok && e.Clipboard() == nil {
			m.errorMessage = "Clipboard is empty"
		}
	case "y":
		m.copyText()
	case "Y":
		m.copyOutline()
	case "P":
		m.pasteOutline()

	case "/":
		m.searchInput.SetValue(e.SearchTerm())
		m.searchInput.CursorEnd()
		m.mode = ModeSearch
		return m.searchInput.Focus()
	case "n":
		e.NextMatch()
	case "N":
		e.PrevMatch()
	case "esc":
		e.ClearSearch()

	case "+", "=":
		e.Viewport().ZoomIn()
	case "-", "_":
		e.Viewport().ZoomOut()
	case "0":
		e.Viewport().ResetZoom()
	case "z":
		e.Viewport().CenterViewportOnNode(e.SelectedID())
	case "m":
		m.showMinimap = !m.showMinimap

	case "s", "ctrl+s":
		if m.path != "" {
			return m.saveTo(m.path)
		}
		return m.startFileInput(FileOpSave)
	case "S":
		return m.startFileInput(FileOpSave)
	case "o":
		return m.startFileInput(FileOpOpen)
	case "X":
		return m.startFileInput(FileOpExport)
	case "ctrl+n":
		if m.dirty() && m.cfg.Confirmations {
			m.confirm(ConfirmNewDocument)
			return nil
		}
		m.newDocument()
	}
	return nil
}

func (m *Model) confirm(action ConfirmAction) {
	m.confirmAction = action
	m.prevMode, m.mode = m.mode, ModeConfirm
}

func (m *Model) startEditing(id string) tea.Cmd {
	n := m.editor.FindNode(id)
	if n == nil {
		return nil
	}
	m.editNodeID = id
	m.editInput.SetValue(n.Text)
	m.mode = ModeEditing
	return m.editInput.Focus()
}

func (m *Model) stopEditing(commit bool) {
	if commit {
		m.editor.SetText(m.editNodeID, m.editInput.Value())
	}
	m.editInput.Blur()
	m.editInput.Reset()
	m.editNodeID = ""
	m.mode = ModeNormal
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.stopEditing(false)
		return nil
	case "enter", "ctrl+s":
		m.stopEditing(true)
		return nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.editor.ClearSearch()
		m.searchInput.Blur()
		m.mode = ModeNormal
		return nil
	case "enter":
		m.searchInput.Blur()
		m.mode = ModeNormal
		if _, ok := m.editor.NextMatch(); !ok && m.editor.SearchTerm() != "" {
			m.errorMessage = fmt.Sprintf("No match for %q", m.editor.SearchTerm())
		}
		return nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.editor.SetSearch(strings.TrimSpace(m.searchInput.Value()))
	return cmd
}

func (m *Model) startFileInput(op FileOperation) tea.Cmd {
	m.fileOp = op
	m.errorMessage, m.successMessage = "", ""
	m.fileInput.Reset()
	switch op {
	case FileOpOpen:
		m.scanDocuments()
		if m.selectedFileIndex >= 0 {
			m.fileInput.SetValue(m.fileList[m.selectedFileIndex])
		}
	case FileOpSave:
		if m.docName != untitled {
			m.fileInput.SetValue(m.docName)
		}
	case FileOpExport:
		m.fileInput.SetValue(m.storeName() + ".png")
	}
	m.fileInput.CursorEnd()
	m.prevMode, m.mode = m.mode, ModeFileInput
	return m.fileInput.Focus()
}

func (m *Model) closeFileInput() {
	m.fileInput.Blur()
	if m.prevMode == ModeStartup {
		m.mode = ModeStartup
		return
	}
	m.mode = ModeNormal
}

func (m *Model) handleFileKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.errorMessage = ""
		m.closeFileInput()
		return nil
	case "up", "down":
		if m.fileOp == FileOpOpen && len(m.fileList) > 0 {
			if msg.String() == "up" && m.selectedFileIndex > 0 {
				m.selectedFileIndex--
			} else if msg.String() == "down" && m.selectedFileIndex < len(m.fileList)-1 {
				m.selectedFileIndex++
			}
			m.fileInput.SetValue(m.fileList[m.selectedFileIndex])
			m.fileInput.CursorEnd()
		}
		return nil
	case "enter":
		name := strings.TrimSpace(m.fileInput.Value())
		if name == "" {
			m.errorMessage = "Enter a file name"
			return nil
		}
		m.errorMessage = ""
		return m.submitFile(name)
	}
	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return cmd
}

func (m *Model) submitFile(name string) tea.Cmd {
	switch m.fileOp {
	case FileOpSave:
		path := m.documentPath(name)
		if path != m.path && fileExists(path) && m.cfg.Confirmations {
			m.pendingFile = path
			m.fileInput.Blur()
			m.confirmAction, m.mode = ConfirmOverwriteFile, ModeConfirm
			return nil
		}
		cmd := m.saveTo(path)
		if m.errorMessage == "" {
			m.closeFileInput()
		}
		return cmd

	case FileOpOpen:
		cmd := m.openFile(m.documentPath(name))
		if m.errorMessage == "" {
			m.fileInput.Blur()
			m.mode = ModeNormal
		}
		return cmd

	case FileOpExport:
		path := m.cfg.SavePath(name)
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		m.closeFileInput()
		if strings.EqualFold(filepath.Ext(path), ".txt") {
			if err := m.exportVisualTXT(path); err != nil {
				m.errorMessage = fmt.Sprintf("Export failed: %v", err)
			} else {
				m.successMessage = "Exported " + path
			}
			return nil
		}
		m.successMessage = "Exporting " + filepath.Base(path) + "..."
		return m.exportImage(path)
	}
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m.quit()
		case ConfirmNewDocument:
			m.newDocument()
		case ConfirmOverwriteFile:
			path := m.pendingFile
			m.pendingFile = ""
			return m.saveTo(path)
		case ConfirmReload:
			m.reloadFromDisk()
		}
	case "n", "N", "esc":
		m.pendingFile = ""
		m.mode = ModeNormal
		if m.confirmAction == ConfirmOverwriteFile {
			return m.startFileInput(FileOpSave)
		}
	}
	return nil
}

func (m *Model) copyText() {
	n := m.editor.SelectedNode()
	if n == nil {
		return
	}
	if err := writeClipboardText(n.Text); err != nil {
		m.errorMessage = fmt.Sprintf("Clipboard unavailable: %v", err)
		return
	}
	m.successMessage = "Copied text"
}

func (m *Model) copyOutline() {
	n := m.editor.SelectedNode()
	if n == nil {
		return
	}
	if err := writeClipboardText(outline(n)); err != nil {
		m.errorMessage = fmt.Sprintf("Clipboard unavailable: %v", err)
		return
	}
	m.successMessage = fmt.Sprintf("Copied outline of %d nodes", tree.Count(n))
}

func (m *Model) pasteOutline() {
	text, err := readClipboardText()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Clipboard unavailable: %v", err)
		return
	}
	if n := m.insertOutline(text); n == 0 {
		m.errorMessage = "Clipboard holds no text"
	}
}

// insertOutline pastes each top-level outline entry under the selected node
// and returns how many were added. The node clipboard is left as it was.
func (m *Model) insertOutline(text string) int {
	e := m.editor
	parentID := e.SelectedID()
	if e.FindNode(parentID) == nil {
		return 0
	}
	saved := e.Clipboard()
	defer e.SetClipboard(saved)

	first, count := "", 0
	for _, sub := range parseOutline(text) {
		e.Select(parentID)
		e.SetClipboard(&tree.Clipboard{Kind: tree.ClipCopy, Data: sub})
		if id, ok := e.Paste(); ok {
			if first == "" {
				first = id
			}
			count++
		}
	}
	if first != "" {
		e.Select(first)
		e.Viewport().CenterViewportOnNode(first)
	}
	return count
}
