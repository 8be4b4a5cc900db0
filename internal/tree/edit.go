package tree

// ClipboardKind tells Paste whether the clipboard came from a copy or a cut.
type ClipboardKind int

const (
	ClipCopy ClipboardKind = iota
	ClipCut
)

// Clipboard holds a detached deep copy of a subtree.
type Clipboard struct {
	Kind     ClipboardKind
	Data     *Node
	ParentID string
}

// AddChild appends an empty child under parentID and returns it.
func AddChild(root *Node, parentID string) *Node {
	parent := Find(root, parentID)
	if parent == nil {
		return nil
	}
	child := &Node{ID: NewID(), Children: []*Node{}}
	parent.Children = append(parent.Children, child)
	return child
}

// AddSibling inserts an empty node right after id. The root has no siblings.
func AddSibling(root *Node, id string) *Node {
	parent := FindParent(root, id)
	if parent == nil {
		return nil
	}
	sibling := &Node{ID: NewID(), Children: []*Node{}}
	idx := indexOf(parent, id)
	if idx < 0 {
		idx = len(parent.Children) - 1
	}
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[idx+2:], parent.Children[idx+1:])
	parent.Children[idx+1] = sibling
	return sibling
}

// Delete removes id and its subtree. It returns the id that should become
// selected: the sibling now at the same index (clamped), else the parent.
// The root cannot be deleted.
func Delete(root *Node, id string) (string, bool) {
	parent, idx := detach(root, id)
	if parent == nil {
		return "", false
	}
	return fallbackSelection(parent, idx), true
}

func detach(root *Node, id string) (*Node, int) {
	if root == nil || id == root.ID {
		return nil, -1
	}
	parent := FindParent(root, id)
	if parent == nil {
		return nil, -1
	}
	idx := indexOf(parent, id)
	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	return parent, idx
}

func fallbackSelection(parent *Node, idx int) string {
	if len(parent.Children) == 0 {
		return parent.ID
	}
	if idx >= len(parent.Children) {
		idx = len(parent.Children) - 1
	}
	return parent.Children[idx].ID
}

// Copy returns a clipboard holding a deep copy of id's subtree.
func Copy(root *Node, id string) *Clipboard {
	node := Find(root, id)
	if node == nil {
		return nil
	}
	return &Clipboard{Kind: ClipCopy, Data: Clone(node)}
}

// Cut detaches id into a clipboard and returns the fallback selection.
func Cut(root *Node, id string) (*Clipboard, string) {
	node := Find(root, id)
	if node == nil {
		return nil, ""
	}
	parentID := ""
	if p := FindParent(root, id); p != nil {
		parentID = p.ID
	}
	data := Clone(node)
	parent, idx := detach(root, id)
	if parent == nil {
		return nil, ""
	}
	return &Clipboard{Kind: ClipCut, Data: data, ParentID: parentID}, fallbackSelection(parent, idx)
}

// Paste appends a copy of the clipboard subtree under parentID. Every pasted
// node gets a fresh id so pasting the same clipboard twice stays unique.
func Paste(root *Node, parentID string, clip *Clipboard) *Node {
	if clip == nil || clip.Data == nil {
		return nil
	}
	parent := Find(root, parentID)
	if parent == nil {
		return nil
	}
	pasted := Clone(clip.Data)
	Traverse(pasted, func(n *Node) { n.ID = NewID() })
	parent.Children = append(parent.Children, pasted)
	return pasted
}

// CanReparent reports whether id may move under newParentID without creating
// a cycle.
func CanReparent(root *Node, id, newParentID string) bool {
	if id == newParentID || root == nil || id == root.ID {
		return false
	}
	if Find(root, id) == nil || Find(root, newParentID) == nil {
		return false
	}
	return !IsDescendant(root, newParentID, id)
}

// Reparent moves id to the end of newParentID's children. Illegal moves and
// moves to the current parent are ignored.
func Reparent(root *Node, id, newParentID string) bool {
	if !CanReparent(root, id, newParentID) {
		return false
	}
	oldParent := FindParent(root, id)
	if oldParent == nil || oldParent.ID == newParentID {
		return false
	}
	node := Find(root, id)
	detach(root, id)
	newParent := Find(root, newParentID)
	newParent.Children = append(newParent.Children, node)
	return true
}

// MoveSibling shifts id by delta positions among its siblings, clamped to
// the ends.
func MoveSibling(root *Node, id string, delta int) bool {
	parent := FindParent(root, id)
	if parent == nil || delta == 0 {
		return false
	}
	from := indexOf(parent, id)
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(parent.Children)-1 {
		to = len(parent.Children) - 1
	}
	if to == from {
		return false
	}
	node := parent.Children[from]
	parent.Children = append(parent.Children[:from], parent.Children[from+1:]...)
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[to+1:], parent.Children[to:])
	parent.Children[to] = node
	return true
}

// ToggleCollapse flips the collapsed flag of id.
func ToggleCollapse(root *Node, id string) bool {
	node := Find(root, id)
	if node == nil {
		return false
	}
	node.Collapsed = !node.Collapsed
	return true
}

// Expand opens nodes down to toDepth; toDepth <= 0 expands everything.
func Expand(root *Node, toDepth int) {
	TraverseDepth(root, func(n *Node, depth int) {
		if !n.HasChildren() {
			return
		}
		if toDepth <= 0 {
			n.Collapsed = false
		} else {
			n.Collapsed = depth >= toDepth
		}
	})
	if root != nil {
		root.Collapsed = false
	}
}

// Collapse folds every node with children below retainDepth.
func Collapse(root *Node, retainDepth int) {
	TraverseDepth(root, func(n *Node, depth int) {
		if depth < retainDepth {
			n.Collapsed = false
		} else if n.HasChildren() {
			n.Collapsed = true
		}
	})
}

// CollapsedStates snapshots the collapsed flag of every node.
func CollapsedStates(root *Node) map[string]bool {
	states := make(map[string]bool)
	Traverse(root, func(n *Node) { states[n.ID] = n.Collapsed })
	return states
}

// SetCollapsedStates restores flags captured by CollapsedStates. Ids missing
// from states keep their current flag.
func SetCollapsedStates(root *Node, states map[string]bool) {
	if states == nil {
		return
	}
	Traverse(root, func(n *Node) {
		if collapsed, ok := states[n.ID]; ok {
			n.Collapsed = collapsed
		}
	})
}

// ExpandAll clears every collapsed flag and returns the previous states.
func ExpandAll(root *Node) map[string]bool {
	states := CollapsedStates(root)
	Traverse(root, func(n *Node) { n.Collapsed = false })
	return states
}
