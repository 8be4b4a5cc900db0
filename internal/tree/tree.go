// Package tree holds the mind-map node tree and the pure queries and
// structural edits over it. Nothing in here recomputes layout or records
// history; callers sequence that themselves.
package tree

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RootID is the id every document root carries.
const RootID = "root"

// Node is one element of the mind map. X/Y are layout-assigned centers and
// Width/Height come from text measurement; none of them are persisted.
type Node struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Children []*Node `json:"children"`

	Collapsed bool    `json:"-"`
	X         float64 `json:"-"`
	Y         float64 `json:"-"`
	Width     float64 `json:"-"`
	Height    float64 `json:"-"`
}

// New returns a fresh root node.
func New(text string) *Node {
	return &Node{ID: RootID, Text: text, Children: []*Node{}}
}

// NewID returns an id that stays unique across rapid successive calls.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("node-%d-%s", time.Now().UnixMilli(), suffix)
}

// HasChildren reports whether n has at least one child.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Bounds returns the node rectangle as min/max corners.
func (n *Node) Bounds() (minX, minY, maxX, maxY float64) {
	return n.X - n.Width/2, n.Y - n.Height/2, n.X + n.Width/2, n.Y + n.Height/2
}

// Find returns the first node with the given id in a depth-first search, or nil.
func Find(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := Find(child, id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the node whose direct children include id. The root and
// unknown ids have no parent.
func FindParent(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	for _, child := range root.Children {
		if child.ID == id {
			return root
		}
		if found := FindParent(child, id); found != nil {
			return found
		}
	}
	return nil
}

// IsDescendant reports whether candidateID appears anywhere strictly below
// ancestorID.
func IsDescendant(root *Node, candidateID, ancestorID string) bool {
	ancestor := Find(root, ancestorID)
	if ancestor == nil {
		return false
	}
	for _, child := range ancestor.Children {
		if Find(child, candidateID) != nil {
			return true
		}
	}
	return false
}

// Traverse visits node and every descendant in pre-order, collapsed subtrees
// included.
func Traverse(node *Node, visit func(*Node)) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.Children {
		Traverse(child, visit)
	}
}

// TraverseDepth is Traverse with the depth of each node (root is 0).
func TraverseDepth(node *Node, visit func(n *Node, depth int)) {
	traverseDepth(node, 0, visit)
}

func traverseDepth(node *Node, depth int, visit func(*Node, int)) {
	if node == nil {
		return
	}
	visit(node, depth)
	for _, child := range node.Children {
		traverseDepth(child, depth+1, visit)
	}
}

// Count returns the number of nodes in the subtree, collapsed ones included.
func Count(node *Node) int {
	total := 0
	Traverse(node, func(*Node) { total++ })
	return total
}

// Clone returns a deep copy of node sharing no memory with the original.
func Clone(node *Node) *Node {
	if node == nil {
		return nil
	}
	out := *node
	out.Children = make([]*Node, len(node.Children))
	for i, child := range node.Children {
		out.Children[i] = Clone(child)
	}
	return &out
}

// Equal compares two trees field by field, geometry and collapse state
// included.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Text != b.Text || a.Collapsed != b.Collapsed ||
		a.X != b.X || a.Y != b.Y || a.Width != b.Width || a.Height != b.Height ||
		len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// indexOf returns the position of id among parent's children, or -1.
func indexOf(parent *Node, id string) int {
	for i, child := range parent.Children {
		if child.ID == id {
			return i
		}
	}
	return -1
}

// PrevSibling returns the sibling just above id, or nil.
func PrevSibling(root *Node, id string) *Node {
	parent := FindParent(root, id)
	if parent == nil {
		return nil
	}
	if idx := indexOf(parent, id); idx > 0 {
		return parent.Children[idx-1]
	}
	return nil
}

// NextSibling returns the sibling just below id, or nil.
func NextSibling(root *Node, id string) *Node {
	parent := FindParent(root, id)
	if parent == nil {
		return nil
	}
	if idx := indexOf(parent, id); idx >= 0 && idx < len(parent.Children)-1 {
		return parent.Children[idx+1]
	}
	return nil
}

// FirstVisibleChild returns the first child of id unless id is collapsed.
func FirstVisibleChild(root *Node, id string) *Node {
	node := Find(root, id)
	if node == nil || node.Collapsed || len(node.Children) == 0 {
		return nil
	}
	return node.Children[0]
}

// Search returns the ids of every node whose text contains term, ignoring
// case. An empty term matches nothing.
func Search(root *Node, term string) map[string]bool {
	matches := make(map[string]bool)
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return matches
	}
	Traverse(root, func(n *Node) {
		if strings.Contains(strings.ToLower(n.Text), needle) {
			matches[n.ID] = true
		}
	})
	return matches
}
