package editor

import (
	"mindmap/internal/debug"
	"mindmap/internal/document"
	"mindmap/internal/tree"
	"mindmap/internal/viewport"
)

// NewDocument replaces the current document with a lone root titled title,
// placed at the center of the host and centered in the view.
func (e *Editor) NewDocument(title string) {
	e.history.Clear()
	e.clipboard = nil
	e.draggedID = ""
	e.root = tree.New(title)
	e.root.X, e.root.Y = e.hostCenter()
	e.selectedID = tree.RootID
	e.Update()
	e.view.CenterViewportOnNode(tree.RootID)
}

func (e *Editor) hostCenter() (float64, float64) {
	w, h := e.host.Size()
	return w / 2, h / 2
}

// LoadRaw replaces the current document with the decoded payload. A blank
// payload starts a new document. On a decode error the current document is
// kept and the error is returned.
func (e *Editor) LoadRaw(raw []byte) error {
	doc, err := document.Parse(raw)
	if err != nil {
		debug.WithFields(map[string]any{"bytes": len(raw)}).WithError(err).Warn("load rejected")
		return err
	}
	if doc == nil {
		e.NewDocument(DefaultRootText)
		return nil
	}
	e.Load(doc)
	return nil
}

// Load installs a decoded document. The saved view is applied as is; when it
// carries no pan the view is centered on the root.
func (e *Editor) Load(doc *document.Document) {
	e.history.Clear()
	e.clipboard = nil
	e.draggedID = ""
	e.root = doc.Data
	e.root.X, e.root.Y = e.hostCenter()
	e.selectedID = tree.RootID

	meta := doc.View()
	if meta != nil {
		e.view.StopAnimation()
		if meta.MinScale > 0 && meta.MaxScale >= meta.MinScale {
			e.view.SetLimits(meta.MinScale, meta.MaxScale)
		}
		v := viewport.View{PanX: meta.PanX, PanY: meta.PanY}
		if meta.Scale > 0 {
			scale := meta.Scale
			v.Scale = &scale
		}
		e.view.SetView(v)
	}
	e.Update()
	if !meta.HasPan() {
		e.view.CenterViewportOnNode(tree.RootID)
	}
	debug.WithFields(map[string]any{"nodes": tree.Count(e.root)}).Debug("document loaded")
}

// ReloadRaw replaces the tree with raw after an external change. Collapse
// state and the selection carry over where the ids still exist; the view is
// left where it is. A blank payload is ignored.
func (e *Editor) ReloadRaw(raw []byte) error {
	doc, err := document.Parse(raw)
	if err != nil || doc == nil {
		return err
	}
	states := tree.CollapsedStates(e.root)
	selected := e.selectedID
	x, y := e.root.X, e.root.Y

	e.history.Clear()
	e.draggedID = ""
	e.root = doc.Data
	e.root.X, e.root.Y = x, y
	tree.SetCollapsedStates(e.root, states)
	if e.FindNode(selected) == nil {
		selected = tree.RootID
	}
	e.selectedID = selected
	e.Update()
	debug.Log("document reloaded, %d nodes", tree.Count(e.root))
	return nil
}

// SavableData is the persisted form of the current document and view.
func (e *Editor) SavableData(recordPan bool) *document.Document {
	return document.Savable(e.root, e.view.State(), recordPan)
}

// RawData encodes SavableData.
func (e *Editor) RawData(recordPan bool) ([]byte, error) {
	return document.Marshal(e.SavableData(recordPan))
}

// ContentKey identifies the current content independent of layout.
func (e *Editor) ContentKey() string {
	return document.ContentKey(e.root)
}
