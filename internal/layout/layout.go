// Package layout positions mind-map nodes left to right with siblings
// stacked vertically and centered on their parent.
package layout

import "mindmap/internal/tree"

const (
	DefaultVerticalMargin   = 60.0
	DefaultHorizontalMargin = 150.0
)

// Options carries the spacing between laid out nodes.
type Options struct {
	VerticalMargin   float64
	HorizontalMargin float64
}

func DefaultOptions() Options {
	return Options{
		VerticalMargin:   DefaultVerticalMargin,
		HorizontalMargin: DefaultHorizontalMargin,
	}
}

// AutoLayout assigns X/Y to every visible node. The root stays where it is
// and acts as the anchor. Collapsed nodes are laid out as leaves so their
// descendants keep stale coordinates until expanded again.
//
// The returned map holds the subtree height computed for each laid out node.
func AutoLayout(root *tree.Node, opts Options) map[string]float64 {
	if root == nil {
		return nil
	}
	heights := SubtreeHeights(root, opts)
	place(root, root.X, root.Y, heights, opts)
	return heights
}

// SubtreeHeights runs only the bottom-up pass.
func SubtreeHeights(root *tree.Node, opts Options) map[string]float64 {
	heights := make(map[string]float64)
	if root != nil {
		measureSubtree(root, heights, opts)
	}
	return heights
}

func measureSubtree(node *tree.Node, heights map[string]float64, opts Options) float64 {
	var h float64
	if len(node.Children) == 0 || node.Collapsed {
		h = node.Height
	} else {
		for _, child := range node.Children {
			h += measureSubtree(child, heights, opts)
		}
		h += float64(len(node.Children)-1) * opts.VerticalMargin
	}
	heights[node.ID] = h
	return h
}

func place(node *tree.Node, x, y float64, heights map[string]float64, opts Options) {
	node.X, node.Y = x, y
	if len(node.Children) == 0 || node.Collapsed {
		return
	}
	offset := y - heights[node.ID]/2
	for _, child := range node.Children {
		childHeight := heights[child.ID]
		childX := x + node.Width/2 + opts.HorizontalMargin + child.Width/2
		place(child, childX, offset+childHeight/2, heights, opts)
		offset += childHeight + opts.VerticalMargin
	}
}
