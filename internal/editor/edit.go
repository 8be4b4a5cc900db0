package editor

import (
	"strings"

	"mindmap/internal/debug"
	"mindmap/internal/tree"
)

// AddChild appends an empty child to the selected node and selects it.
func (e *Editor) AddChild() (string, bool) {
	if e.selectedID == "" {
		return "", false
	}
	child := tree.AddChild(e.root, e.selectedID)
	if child == nil {
		return "", false
	}
	if parent := e.FindNode(e.selectedID); parent != nil {
		parent.Collapsed = false
	}
	e.selectedID = child.ID
	debug.Log("add child %s", child.ID)
	e.Update()
	return child.ID, true
}

// AddSibling inserts an empty node after the selection and selects it.
func (e *Editor) AddSibling() (string, bool) {
	if e.selectedID == "" || e.selectedID == tree.RootID {
		return "", false
	}
	sibling := tree.AddSibling(e.root, e.selectedID)
	if sibling == nil {
		return "", false
	}
	e.selectedID = sibling.ID
	debug.Log("add sibling %s", sibling.ID)
	e.Update()
	return sibling.ID, true
}

// DeleteSelected removes the selected subtree and selects the neighbouring
// sibling, or the parent when none is left.
func (e *Editor) DeleteSelected() bool {
	id := e.selectedID
	next, ok := tree.Delete(e.root, id)
	if !ok {
		return false
	}
	e.selectedID = next
	debug.Log("delete %s, select %s", id, next)
	e.Update()
	e.view.CenterViewportOnNode(next)
	return true
}

// Copy puts a copy of the selected subtree on the clipboard.
func (e *Editor) Copy() bool {
	clip := tree.Copy(e.root, e.selectedID)
	if clip == nil {
		return false
	}
	e.clipboard = clip
	return true
}

// SetClipboard replaces the internal clipboard, e.g. with a subtree parsed
// from the system clipboard.
func (e *Editor) SetClipboard(clip *tree.Clipboard) {
	e.clipboard = clip
}

// Cut moves the selected subtree to the clipboard.
func (e *Editor) Cut() bool {
	clip, next := tree.Cut(e.root, e.selectedID)
	if clip == nil {
		return false
	}
	e.clipboard = clip
	e.selectedID = next
	debug.Log("cut %s", clip.Data.ID)
	e.Update()
	e.view.CenterViewportOnNode(next)
	return true
}

// Paste appends the clipboard under the selected node with fresh ids. A cut
// clipboard can be pasted once.
func (e *Editor) Paste() (string, bool) {
	if e.clipboard == nil || e.selectedID == "" {
		return "", false
	}
	if parent := e.FindNode(e.selectedID); parent != nil {
		parent.Collapsed = false
	}
	pasted := tree.Paste(e.root, e.selectedID, e.clipboard)
	if pasted == nil {
		return "", false
	}
	if e.clipboard.Kind == tree.ClipCut {
		e.clipboard = nil
	}
	e.selectedID = pasted.ID
	debug.Log("paste %s", pasted.ID)
	e.Update()
	e.view.CenterViewportOnNode(pasted.ID)
	return pasted.ID, true
}

// Reparent moves id under newParentID. Moves that would create a cycle are
// ignored.
func (e *Editor) Reparent(id, newParentID string) bool {
	if !tree.Reparent(e.root, id, newParentID) {
		debug.Log("reparent %s -> %s rejected", id, newParentID)
		return false
	}
	if parent := e.FindNode(newParentID); parent != nil {
		parent.Collapsed = false
	}
	e.Update()
	return true
}

// ReparentSelected moves the selected node under newParentID.
func (e *Editor) ReparentSelected(newParentID string) bool {
	return e.Reparent(e.selectedID, newParentID)
}

// MoveSelected reorders the selection among its siblings.
func (e *Editor) MoveSelected(delta int) bool {
	if !tree.MoveSibling(e.root, e.selectedID, delta) {
		return false
	}
	e.Update()
	return true
}

// SetText replaces the text of id. Trailing whitespace is dropped.
func (e *Editor) SetText(id, text string) bool {
	node := e.FindNode(id)
	if node == nil {
		return false
	}
	text = strings.TrimRight(text, " \t\r\n")
	if node.Text == text {
		return false
	}
	node.Text = text
	e.Update()
	return true
}

func (e *Editor) ToggleCollapse(id string) bool {
	node := e.FindNode(id)
	if node == nil || !node.HasChildren() {
		return false
	}
	node.Collapsed = !node.Collapsed
	if node.Collapsed && e.selectedID != id && tree.IsDescendant(e.root, e.selectedID, id) {
		e.selectedID = id
	}
	e.Update()
	return true
}

// Expand opens the tree down to depth; depth <= 0 opens everything.
func (e *Editor) Expand(depth int) {
	tree.Expand(e.root, depth)
	e.Update()
}

// Collapse folds every node at or below retainDepth.
func (e *Editor) Collapse(retainDepth int) {
	tree.Collapse(e.root, retainDepth)
	if !e.isVisible(e.selectedID) {
		e.selectedID = tree.RootID
	}
	e.Update()
}

func (e *Editor) ExpandAll() {
	e.Expand(0)
}

// isVisible reports whether no ancestor of id is collapsed.
func (e *Editor) isVisible(id string) bool {
	for p := tree.FindParent(e.root, id); p != nil; p = tree.FindParent(e.root, p.ID) {
		if p.Collapsed {
			return false
		}
	}
	return e.FindNode(id) != nil
}

// reveal expands every collapsed ancestor of id.
func (e *Editor) reveal(id string) bool {
	changed := false
	for p := tree.FindParent(e.root, id); p != nil; p = tree.FindParent(e.root, p.ID) {
		if p.Collapsed {
			p.Collapsed = false
			changed = true
		}
	}
	return changed
}

// Undo restores the previous snapshot and its selection.
func (e *Editor) Undo() bool {
	entry, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(entry.Data, entry.SelectedID)
	return true
}

func (e *Editor) Redo() bool {
	entry, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(entry.Data, entry.SelectedID)
	return true
}

func (e *Editor) restore(root *tree.Node, selectedID string) {
	e.root = root
	e.selectedID = selectedID
	if e.FindNode(selectedID) == nil {
		e.selectedID = ""
	}
	e.relayout()
	e.notifyContentChange()
	if e.selectedID != "" {
		e.view.CenterViewportOnNode(e.selectedID)
	}
}
