package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"mindmap/internal/tree"
)

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsZero reports the empty-bounds sentinel.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

func (r Rect) Center() r2.Vec {
	return r2.Vec{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) Box() r2.Box {
	return r2.Box{Min: r2.Vec{X: r.X, Y: r.Y}, Max: r2.Vec{X: r.X + r.Width, Y: r.Y + r.Height}}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Pad grows r by d on every side.
func (r Rect) Pad(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// ContentBounds is the bounding box of every measured node rectangle. The
// children of collapsed nodes are skipped unless force is set. An empty or
// unmeasured tree yields the zero Rect.
func ContentBounds(root *tree.Node, force bool) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		if n == nil || (n.Width == 0 && n.Height == 0) {
			return
		}
		minX = math.Min(minX, n.X-n.Width/2)
		maxX = math.Max(maxX, n.X+n.Width/2)
		minY = math.Min(minY, n.Y-n.Height/2)
		maxY = math.Max(maxY, n.Y+n.Height/2)
		if force || !n.Collapsed {
			for _, child := range n.Children {
				walk(child)
			}
		}
	}
	walk(root)

	if math.IsInf(minX, 1) {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
