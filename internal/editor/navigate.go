package editor

import (
	"mindmap/internal/tree"
)

// Direction is an arrow-key move through the tree.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Navigate moves the selection. Up and Down walk siblings, Left goes to the
// parent and Right to the first child of an expanded node. Without a
// selection any direction selects the root.
func (e *Editor) Navigate(d Direction) bool {
	if e.root == nil {
		return false
	}
	if e.FindNode(e.selectedID) == nil {
		e.selectedID = tree.RootID
		e.view.CenterViewportOnNode(tree.RootID)
		return true
	}

	var next *tree.Node
	switch d {
	case Up:
		next = tree.PrevSibling(e.root, e.selectedID)
	case Down:
		next = tree.NextSibling(e.root, e.selectedID)
	case Left:
		next = tree.FindParent(e.root, e.selectedID)
	case Right:
		next = tree.FirstVisibleChild(e.root, e.selectedID)
	}
	if next == nil {
		return false
	}
	e.selectedID = next.ID
	e.view.CenterViewportOnNode(next.ID)
	return true
}

// SetSearch highlights every node whose text contains term and returns the
// number of matches. An empty term clears the highlights.
func (e *Editor) SetSearch(term string) int {
	e.searchTerm = term
	e.refreshHighlights()
	return len(e.highlighted)
}

func (e *Editor) ClearSearch() {
	e.SetSearch("")
}

// Matches lists the highlighted ids in depth-first order.
func (e *Editor) Matches() []string {
	var ids []string
	tree.Traverse(e.root, func(n *tree.Node) {
		if e.highlighted[n.ID] {
			ids = append(ids, n.ID)
		}
	})
	return ids
}

// NextMatch selects the match after the current selection, wrapping around.
// Collapsed ancestors of the match are expanded.
func (e *Editor) NextMatch() (string, bool) {
	return e.stepMatch(1)
}

func (e *Editor) PrevMatch() (string, bool) {
	return e.stepMatch(-1)
}

func (e *Editor) stepMatch(delta int) (string, bool) {
	ids := e.Matches()
	if len(ids) == 0 {
		return "", false
	}
	cur := -1
	for i, id := range ids {
		if id == e.selectedID {
			cur = i
			break
		}
	}
	var idx int
	switch {
	case cur < 0 && delta < 0:
		idx = len(ids) - 1
	case cur < 0:
		idx = 0
	default:
		idx = (cur + delta + len(ids)) % len(ids)
	}
	id := ids[idx]
	e.selectedID = id
	if e.reveal(id) {
		e.Update()
	}
	e.view.CenterViewportOnNode(id)
	return id, true
}
