// Package minimap projects the whole mind map and the main view's visible
// area into a small fixed-size overview.
package minimap

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"mindmap/internal/tree"
	"mindmap/internal/viewport"
)

const (
	// margin leaves a 10% border around the projected content.
	margin = 0.9
	// rootZoom inflates the bounds of a fresh document so the lone root is
	// not drawn as a dot filling the whole overview.
	rootZoom = 3

	DefaultClickThreshold = 5
)

// Transform maps content space into minimap space: p*Scale + Offset.
type Transform struct {
	Scale  float64
	Offset r2.Vec
}

func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(t.Scale, p), t.Offset)
}

func (t Transform) Invert(p r2.Vec) r2.Vec {
	return r2.Scale(1/t.Scale, r2.Sub(p, t.Offset))
}

func (t Transform) ApplyRect(r viewport.Rect) viewport.Rect {
	tl := t.Apply(r2.Vec{X: r.X, Y: r.Y})
	return viewport.Rect{X: tl.X, Y: tl.Y, Width: r.Width * t.Scale, Height: r.Height * t.Scale}
}

// Node is one projected node rectangle.
type Node struct {
	ID          string
	Rect        viewport.Rect
	Root        bool
	Selected    bool
	Highlighted bool
}

// Link joins the projected centers of a parent and a child.
type Link struct {
	From r2.Vec
	To   r2.Vec
}

// Projection is everything needed to draw the overview, already in minimap
// coordinates. Empty is set when there is nothing to draw.
type Projection struct {
	Transform Transform
	Nodes     []Node
	Links     []Link
	Viewport  viewport.Rect
	Empty     bool
}

// Input is the main view state the overview is derived from.
type Input struct {
	Root        *tree.Node
	View        viewport.State
	SelectedID  string
	Highlighted map[string]bool
	// DraggedID is the node being relocated in the main view, if any.
	DraggedID string
}

type Projector struct {
	Width  float64
	Height float64
}

func New(width, height float64) *Projector {
	return &Projector{Width: width, Height: height}
}

// Project lays the visible tree and the main viewport box out in minimap
// space.
func (p *Projector) Project(in Input) Projection {
	bounds := viewport.ContentBounds(in.Root, false)
	if bounds.Width == 0 || p.Width <= 0 || p.Height <= 0 {
		return Projection{Empty: true}
	}
	if in.Root.ID == tree.RootID && len(in.Root.Children) == 0 {
		w, h := bounds.Width*rootZoom, bounds.Height*rootZoom
		bounds = viewport.Rect{
			X:      bounds.X - (w-bounds.Width)/2,
			Y:      bounds.Y - (h-bounds.Height)/2,
			Width:  w,
			Height: h,
		}
	}

	scale := math.Min(p.Width/bounds.Width, p.Height/bounds.Height) * margin
	xf := Transform{
		Scale: scale,
		Offset: r2.Vec{
			X: (p.Width-bounds.Width*scale)/2 - bounds.X*scale,
			Y: (p.Height-bounds.Height*scale)/2 - bounds.Y*scale,
		},
	}

	view := mainViewRect(in.View)
	proj := Projection{Transform: xf, Viewport: xf.ApplyRect(view)}

	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		rect := nodeRect(n)
		if !(n.ID == in.DraggedID && in.View.Width > 0 && in.View.Height > 0 && !intersects(rect, view)) {
			proj.Nodes = append(proj.Nodes, Node{
				ID:          n.ID,
				Rect:        xf.ApplyRect(rect),
				Root:        n.ID == tree.RootID,
				Selected:    n.ID == in.SelectedID,
				Highlighted: in.Highlighted[n.ID],
			})
		}
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			proj.Links = append(proj.Links, Link{
				From: xf.Apply(r2.Vec{X: n.X, Y: n.Y}),
				To:   xf.Apply(r2.Vec{X: c.X, Y: c.Y}),
			})
			walk(c)
		}
	}
	walk(in.Root)
	return proj
}

// mainViewRect is the content area visible in the main view.
func mainViewRect(s viewport.State) viewport.Rect {
	if s.Scale == 0 {
		return viewport.Rect{}
	}
	return viewport.Rect{
		X:      -s.PanX / s.Scale,
		Y:      -s.PanY / s.Scale,
		Width:  s.Width / s.Scale,
		Height: s.Height / s.Scale,
	}
}

func nodeRect(n *tree.Node) viewport.Rect {
	return viewport.Rect{X: n.X - n.Width/2, Y: n.Y - n.Height/2, Width: n.Width, Height: n.Height}
}

func intersects(a, b viewport.Rect) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

// PanForViewportDrag converts a pointer position while dragging the viewport
// box back into a main-view pan. grab is where inside the box the drag
// started, both in minimap coordinates.
func (pr Projection) PanForViewportDrag(pointer, grab r2.Vec, viewScale float64) r2.Vec {
	topLeft := pr.Transform.Invert(r2.Sub(pointer, grab))
	return r2.Scale(-viewScale, topLeft)
}

// PanForClick returns the main-view pan that centers the clicked point.
func (pr Projection) PanForClick(click r2.Vec, view viewport.State) r2.Vec {
	content := pr.Transform.Invert(click)
	return r2.Vec{
		X: view.Width/2 - content.X*view.Scale,
		Y: view.Height/2 - content.Y*view.Scale,
	}
}

// InViewport reports whether a minimap point falls on the viewport box.
func (pr Projection) InViewport(p r2.Vec) bool {
	return !pr.Empty && pr.Viewport.Contains(p)
}

// IsClick reports whether a pointer that went down at down and up at up
// stayed within threshold on both axes.
func IsClick(down, up r2.Vec, threshold float64) bool {
	return math.Abs(up.X-down.X) <= threshold && math.Abs(up.Y-down.Y) <= threshold
}
