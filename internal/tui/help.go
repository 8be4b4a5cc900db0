package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var helpLines = []string{
	"mindmap Help",
	"============",
	"",
	"Structure:",
	"----------",
	"  Tab              Add a child to the selected node and edit it",
	"  Enter            Add a sibling after the selected node and edit it",
	"  Space/e/F2       Edit the selected node",
	"  d/Del/Backspace  Delete the selected node and its subtree",
	"  [ / ]            Move the selected node up / down among its siblings",
	"  Mouse drag       Drop a node onto another node to reparent it",
	"",
	"Navigation:",
	"-----------",
	"  h/←  l/→         Parent / first child",
	"  k/↑  j/↓         Previous / next sibling",
	"  H/J/K/L          Pan the view",
	"  Shift+arrows     Pan the view 2x faster",
	"  z                Center the selected node",
	"  Mouse drag       Pan when started on empty space",
	"",
	"Folding:",
	"--------",
	"  t                Collapse / expand the selected node",
	"  E                Expand everything",
	"  C                Collapse everything below the first level",
	"",
	"Zoom:",
	"-----",
	"  + / -            Zoom in / out",
	"  0                Reset zoom",
	"  Mouse wheel      Zoom at the pointer",
	"  m                Toggle the minimap (click or drag it to move the view)",
	"",
	"Clipboard:",
	"----------",
	"  c / x / p        Copy / cut / paste a subtree",
	"  y                Copy the node text to the system clipboard",
	"  Y                Copy the subtree as an indented outline",
	"  P                Paste an indented outline as new children",
	"",
	"Search:",
	"-------",
	"  /                Search node text",
	"  n / N            Next / previous match",
	"  Esc              Clear the search",
	"",
	"Files:",
	"------",
	"  s / Ctrl+S       Save",
	"  S                Save as",
	"  o                Open a saved map",
	"  X                Export as .png, .svg or .txt",
	"  Ctrl+N           New map",
	"",
	"General:",
	"--------",
	"  u / Ctrl+Z       Undo",
	"  U / Ctrl+Y       Redo",
	"  ?                Toggle this help screen",
	"  q / Ctrl+C       Quit",
}

func (m *Model) helpRows() int {
	return max(m.height-1, 1)
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) {
	maxScroll := max(len(helpLines)-m.helpRows(), 0)
	switch msg.String() {
	case "j", "down":
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.mode = m.prevMode
		if m.mode == ModeHelp {
			m.mode = ModeNormal
		}
		m.helpScroll = 0
	}
}

func (m *Model) helpView() string {
	rows := m.helpRows()
	start := min(m.helpScroll, max(len(helpLines)-rows, 0))
	end := min(start+rows, len(helpLines))

	var b strings.Builder
	b.WriteString(strings.Join(helpLines[start:end], "\n"))
	for i := end - start; i < rows; i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, any other key to close",
		start+1, end, len(helpLines))))
	return b.String()
}
