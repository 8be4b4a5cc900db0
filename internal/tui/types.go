package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"mindmap/internal/config"
	"mindmap/internal/editor"
	"mindmap/internal/notify"
	"mindmap/internal/store"
	"mindmap/internal/watch"
)

// screen is the drawing area the editor lays out against, in content units.
type screen struct {
	cols int
	rows int
}

func (s *screen) Size() (float64, float64) {
	return float64(s.cols) * cellWidth, float64(s.rows) * cellHeight
}

// pointer tracks a mouse gesture on the canvas or the minimap.
type pointer struct {
	down      bool
	startX    int
	startY    int
	lastX     int
	lastY     int
	nodeID    string
	dragging  bool
	onMinimap bool
	grabX     float64
	grabY     float64
	onViewBox bool
}

type Model struct {
	width  int
	height int
	screen *screen

	cfg    *config.Config
	editor *editor.Editor
	store  *store.Store

	mode       Mode
	prevMode   Mode
	helpScroll int

	editInput   textarea.Model
	editNodeID  string
	searchInput textinput.Model
	fileInput   textinput.Model

	fileOp            FileOperation
	fileList          []string
	selectedFileIndex int

	confirmAction ConfirmAction
	pendingFile   string

	path         string
	docName      string
	savedKey     string
	autosaved    autosaveMark
	loading      bool
	watcher      *watch.Watcher
	watchDone    chan struct{}
	autosaver    *notify.Debouncer

	showMinimap bool
	mouse       pointer
	dropTarget  string

	ticking bool
	tickGen uint64

	errorMessage   string
	successMessage string
}
