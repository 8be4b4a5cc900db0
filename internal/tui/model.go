// Package tui is the terminal front end: it renders the mind map into a
// cell grid and maps keys and mouse gestures onto editor operations.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	bkey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mindmap/internal/config"
	"mindmap/internal/debug"
	"mindmap/internal/editor"
	"mindmap/internal/layout"
	"mindmap/internal/notify"
	"mindmap/internal/store"
)

const untitled = "untitled"

type Options struct {
	Config *config.Config
	// Store receives autosaves. It may be nil.
	Store *store.Store
	// Path opens a document file; Name opens a stored document.
	Path string
	Name string
}

type frameMsg struct {
	gen uint64
}

func New(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := &Model{
		width:       80,
		height:      24,
		screen:      &screen{cols: 80, rows: 23},
		cfg:         cfg,
		store:       opts.Store,
		mode:        ModeNormal,
		docName:     untitled,
		showMinimap: true,
	}
	m.editor = editor.New(m.screen, layout.NewCellMeasurer(), editor.Options{
		Layout:        cfg.LayoutOptions(),
		Padding:       layout.Padding{X: cellWidth, Y: cellHeight},
		Viewport:      cfg.ViewportOptions(),
		HistoryLimit:  cfg.History.Limit,
		DragThreshold: cfg.Drag.Threshold,
	})
	m.editor.Viewport().Settle()
	m.savedKey = m.editor.ContentKey()
	m.autosaved.set(m.savedKey)
	m.editor.OnContentChange(m.contentChanged)

	m.editInput = textarea.New()
	m.editInput.ShowLineNumbers = false
	m.editInput.Placeholder = "Node text"
	m.editInput.KeyMap.InsertNewline = bkey.NewBinding(bkey.WithKeys("alt+enter", "ctrl+j"))
	m.editInput.SetHeight(3)

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "/"
	m.searchInput.Placeholder = "search"

	m.fileInput = textinput.New()
	m.fileInput.Prompt = "File: "
	m.fileInput.CharLimit = 255

	if m.store != nil && cfg.Autosave.Enabled {
		m.autosaver = notify.NewDebouncer(cfg.Autosave.Debounce)
	}

	switch {
	case opts.Path != "":
		m.openFile(opts.Path)
		if m.errorMessage != "" {
			return nil, fmt.Errorf("failed to open %s: %s", opts.Path, m.errorMessage)
		}
	case opts.Name != "":
		if err := m.openStored(opts.Name); err != nil {
			return nil, err
		}
	case cfg.StartMenu:
		m.mode = ModeStartup
	}
	return m, nil
}

// Editor exposes the document controller, mainly for tests and commands.
func (m *Model) Editor() *editor.Editor {
	return m.editor
}

func (m *Model) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForChange(m.watcher, m.watchDone)
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case frameMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		m.ticking = false
		view := m.editor.Viewport()
		if msg.gen == view.Generation() {
			view.Step()
		}

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case fileChangedMsg:
		cmd = m.handleFileChanged(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.successMessage = "Exported " + msg.path
		}

	default:
		cmd = m.updateInputs(msg)
	}
	return m, tea.Batch(cmd, m.frameCmd())
}

// updateInputs forwards cursor blinks and similar messages to the focused
// input.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case ModeEditing:
		m.editInput, cmd = m.editInput.Update(msg)
	case ModeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case ModeFileInput:
		m.fileInput, cmd = m.fileInput.Update(msg)
	}
	return cmd
}

// frameCmd schedules the next animation frame unless a frame for the
// current animation generation is already pending.
func (m *Model) frameCmd() tea.Cmd {
	view := m.editor.Viewport()
	if !view.Animating() {
		m.ticking = false
		return nil
	}
	gen := view.Generation()
	if m.ticking && m.tickGen == gen {
		return nil
	}
	m.ticking, m.tickGen = true, gen
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.screen.cols = max(width, 1)
	m.screen.rows = max(height-1, 1)
	m.editor.Resize()
	m.editInput.SetWidth(max(width-4, 10))
	m.searchInput.Width = max(width-20, 10)
	m.fileInput.Width = max(width-20, 10)
}

func (m *Model) dirty() bool {
	return m.editor.ContentKey() != m.savedKey
}

// Close flushes a pending autosave and stops watching the document file.
func (m *Model) Close() {
	if m.autosaver != nil {
		m.autosaver.Flush()
	}
	m.stopWatcher()
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

func (m *Model) View() string {
	switch m.mode {
	case ModeHelp:
		return m.helpView()
	case ModeStartup:
		return m.startupView()
	case ModeFileInput:
		if m.fileOp == FileOpOpen {
			return m.fileListView()
		}
	}

	lines := renderLines(m.editor, m.screen.cols, m.screen.rows, m.dropTarget, m.showMinimap, true)
	if m.mode == ModeEditing {
		panel := strings.Split(editPanelStyle.Width(max(m.width-2, 10)).Render(m.editInput.View()), "\n")
		if len(panel) < len(lines) {
			copy(lines[len(lines)-len(panel):], panel)
		}
	}
	return strings.Join(lines, "\n") + "\n" + m.statusLine()
}

func (m *Model) title() string {
	name := m.docName
	if m.dirty() {
		name += "*"
	}
	return name
}

func (m *Model) statusLine() string {
	mode := statusModeStyle.Render(" " + m.mode.String() + " ")
	var status string
	switch m.mode {
	case ModeEditing:
		status = "Enter=save, Alt+Enter=newline, Esc=cancel"
	case ModeSearch:
		status = fmt.Sprintf("%s | %d matches | Enter=jump, Esc=clear", m.searchInput.View(), len(m.editor.Matches()))
	case ModeFileInput:
		op := "Save"
		if m.fileOp == FileOpExport {
			op = "Export (.png, .svg, .txt)"
		}
		status = fmt.Sprintf("%s | %s | Enter=confirm, Esc=cancel", op, m.fileInput.View())
	case ModeConfirm:
		status = m.confirmMessage()
	default:
		status = fmt.Sprintf("%s | Zoom %d%%", m.title(), int(math.Round(m.editor.Viewport().State().Scale*100)))
		if n := m.editor.SelectedNode(); n != nil {
			status += " | " + truncate(strings.ReplaceAll(n.Text, "\n", " "), 30)
		}
		if term := m.editor.SearchTerm(); term != "" {
			status += fmt.Sprintf(" | /%s (%d)", term, len(m.editor.Matches()))
		}
		if m.successMessage != "" {
			status += " | " + m.successMessage
		}
		if m.errorMessage == "" && m.successMessage == "" {
			status += " | ? for help | q to quit"
		}
	}
	line := mode + statusStyle.Render(" "+status)
	if m.errorMessage != "" {
		line += statusErrorStyle.Render(" ERROR: " + m.errorMessage)
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(line)
}

func (m *Model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmQuit:
		return "Quit with unsaved changes? (y/n)"
	case ConfirmNewDocument:
		return "Start a new map? Unsaved changes will be lost. (y/n)"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingFile)
	case ConfirmReload:
		return "The file changed on disk. Reload and drop local changes? (y/n)"
	}
	return ""
}

func (m *Model) startupView() string {
	var b strings.Builder
	b.WriteString(startupTitleStyle.Render("mindmap"))
	b.WriteString("\n\n")
	b.WriteString("n  New map\n")
	b.WriteString("o  Open a saved map\n")
	if entry, ok := m.lastStored(); ok {
		b.WriteString(fmt.Sprintf("r  Resume %s (%s)\n", entry.Name, humanizeTime(entry.UpdatedAt)))
	}
	b.WriteString("q  Quit")
	banner := startupBannerStyle.Render(b.String())
	return lipgloss.Place(max(m.width, 1), max(m.height, 1), lipgloss.Center, lipgloss.Center, banner)
}

func (m *Model) fileListView() string {
	var b strings.Builder
	rule := strings.Repeat("─", max(m.width, 1))
	b.WriteString("Select a saved map:\n")
	b.WriteString(rule + "\n")

	rows := max(m.height-4, 1)
	if len(m.fileList) == 0 {
		b.WriteString(fmt.Sprintf("(No %s files found in %s)\n", documentExtension, m.documentDir()))
		rows--
	} else {
		start := 0
		if m.selectedFileIndex >= rows {
			start = m.selectedFileIndex - rows + 1
		}
		end := min(start+rows, len(m.fileList))
		for i := start; i < end; i++ {
			if i == m.selectedFileIndex {
				b.WriteString(fileSelectedStyle.Render("> " + m.fileList[i]))
			} else {
				b.WriteString(fileListStyle.Render("  " + m.fileList[i]))
			}
			b.WriteString("\n")
		}
		rows -= end - start
	}
	for ; rows > 0; rows-- {
		b.WriteString("\n")
	}
	b.WriteString(rule + "\n")
	b.WriteString(m.fileInput.View())
	if m.errorMessage != "" {
		b.WriteString(statusErrorStyle.Render("  ERROR: " + m.errorMessage))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func logError(err error, msg string, fields map[string]any) {
	if err == nil {
		return
	}
	debug.WithFields(fields).WithError(err).Warn(msg)
}
