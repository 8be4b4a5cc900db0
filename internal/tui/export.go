package tui

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mindmap/internal/export"
	"mindmap/internal/tree"
)

type exportDoneMsg struct {
	path string
	err  error
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// exportVisualTXT writes the current view as plain text, exactly as drawn
// but without colors or the minimap.
func (m *Model) exportVisualTXT(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range renderLines(m.editor, m.screen.cols, m.screen.rows, "", false, false) {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	return w.Flush()
}

// exportImage renders a copy of the tree off the UI goroutine.
func (m *Model) exportImage(path string) tea.Cmd {
	root := tree.Clone(m.editor.Root())
	opts := m.cfg.ExportOptions()
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: export.File(path, root, opts)}
	}
}
