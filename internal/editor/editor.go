// Package editor ties the tree, layout, history and viewport together into
// the editing controller the front ends drive.
package editor

import (
	"math"
	"time"

	"mindmap/internal/debug"
	"mindmap/internal/history"
	"mindmap/internal/layout"
	"mindmap/internal/tree"
	"mindmap/internal/viewport"
)

// DefaultRootText is the text of the root node of a new document.
const DefaultRootText = "Central Topic"

type Options struct {
	Layout        layout.Options
	Padding       layout.Padding
	Viewport      viewport.Options
	HistoryLimit  int
	DragThreshold float64
}

func DefaultOptions() Options {
	return Options{
		Layout:        layout.DefaultOptions(),
		Padding:       layout.DefaultPadding(),
		Viewport:      viewport.DefaultOptions(),
		DragThreshold: 5,
	}
}

// Editor owns one document. All methods run on the caller's event loop and
// must not be called concurrently.
type Editor struct {
	opts     Options
	host     viewport.HostSize
	measurer layout.Measurer

	root        *tree.Node
	selectedID  string
	clipboard   *tree.Clipboard
	searchTerm  string
	highlighted map[string]bool
	draggedID   string

	history *history.Stack
	view    *viewport.Controller

	onContentChange []func()
}

// New returns an editor holding a fresh document.
func New(host viewport.HostSize, m layout.Measurer, opts Options) *Editor {
	e := &Editor{
		opts:        opts,
		host:        host,
		measurer:    m,
		highlighted: map[string]bool{},
		history:     history.New(history.WithLimit(opts.HistoryLimit)),
	}
	e.view = viewport.New(host, e, opts.Viewport)
	e.NewDocument(DefaultRootText)
	return e
}

// FindNode resolves id in the current document.
func (e *Editor) FindNode(id string) *tree.Node {
	return tree.Find(e.root, id)
}

func (e *Editor) Root() *tree.Node               { return e.root }
func (e *Editor) SelectedID() string             { return e.selectedID }
func (e *Editor) SelectedNode() *tree.Node       { return e.FindNode(e.selectedID) }
func (e *Editor) Viewport() *viewport.Controller { return e.view }
func (e *Editor) History() *history.Stack        { return e.history }
func (e *Editor) Clipboard() *tree.Clipboard     { return e.clipboard }
func (e *Editor) SearchTerm() string             { return e.searchTerm }
func (e *Editor) DraggedID() string              { return e.draggedID }
func (e *Editor) Options() Options               { return e.opts }

// IsHighlighted reports whether id matches the current search.
func (e *Editor) IsHighlighted(id string) bool { return e.highlighted[id] }

// Highlighted returns the ids matching the current search.
func (e *Editor) Highlighted() map[string]bool { return e.highlighted }

// OnContentChange registers fn to run after every update of the document.
func (e *Editor) OnContentChange(fn func()) {
	e.onContentChange = append(e.onContentChange, fn)
}

func (e *Editor) notifyContentChange() {
	for _, fn := range e.onContentChange {
		fn()
	}
}

// Update re-measures and lays out the tree, refreshes search highlights,
// records a history snapshot and fires the content change hooks, in that
// order.
func (e *Editor) Update() {
	if e.root == nil {
		return
	}
	start := time.Now()
	e.relayout()
	e.history.Add(e.root, e.selectedID)
	debug.LogTiming("update", time.Since(start))
	e.notifyContentChange()
}

func (e *Editor) relayout() {
	layout.MeasureTree(e.root, e.measurer, e.opts.Padding)
	layout.AutoLayout(e.root, e.opts.Layout)
	e.refreshHighlights()
}

func (e *Editor) refreshHighlights() {
	if e.searchTerm == "" {
		if len(e.highlighted) > 0 {
			e.highlighted = map[string]bool{}
		}
		return
	}
	e.highlighted = tree.Search(e.root, e.searchTerm)
}

// Select makes id the selected node. An empty id clears the selection.
func (e *Editor) Select(id string) bool {
	if id == "" {
		e.selectedID = ""
		return true
	}
	if e.FindNode(id) == nil {
		return false
	}
	e.selectedID = id
	return true
}

// Resize keeps the view centered on the same content after the host size
// changed.
func (e *Editor) Resize() {
	e.view.Resize()
}

// ContentBounds is the bounding box of the visible tree.
func (e *Editor) ContentBounds() viewport.Rect {
	return viewport.ContentBounds(e.root, false)
}

// PotentialParent returns targetID when the dragged node may be dropped on
// it, or "" when the target is the dragged node itself or one of its
// descendants.
func (e *Editor) PotentialParent(draggedID, targetID string) string {
	if targetID == "" || targetID == draggedID {
		return ""
	}
	if e.FindNode(targetID) == nil || tree.IsDescendant(e.root, targetID, draggedID) {
		return ""
	}
	return targetID
}

// DragStarted reports whether a pointer moved far enough to count as a drag.
func (e *Editor) DragStarted(dx, dy float64) bool {
	return math.Abs(dx) > e.opts.DragThreshold || math.Abs(dy) > e.opts.DragThreshold
}

// BeginDrag marks id as being relocated.
func (e *Editor) BeginDrag(id string) bool {
	if id == tree.RootID || e.FindNode(id) == nil {
		return false
	}
	e.draggedID = id
	return true
}

// EndDrag drops the dragged node on targetID. An empty or illegal target
// cancels the drag.
func (e *Editor) EndDrag(targetID string) bool {
	dragged := e.draggedID
	e.draggedID = ""
	if dragged == "" {
		return false
	}
	target := e.PotentialParent(dragged, targetID)
	if target == "" {
		return false
	}
	return e.Reparent(dragged, target)
}
