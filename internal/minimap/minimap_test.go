package minimap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"mindmap/internal/layout"
	"mindmap/internal/tree"
	"mindmap/internal/viewport"
)

const tol = 1e-9

func laidOut() *tree.Node {
	root := &tree.Node{ID: tree.RootID, Width: 100, Height: 40, Children: []*tree.Node{
		{ID: "a", Width: 60, Height: 40, Children: []*tree.Node{{ID: "a1", Width: 60, Height: 40}}},
		{ID: "b", Width: 60, Height: 40},
	}}
	layout.AutoLayout(root, layout.DefaultOptions())
	return root
}

func view(scale, panX, panY float64) viewport.State {
	return viewport.State{Scale: scale, PanX: panX, PanY: panY, Width: 800, Height: 600}
}

func byID(p Projection) map[string]Node {
	out := make(map[string]Node)
	for _, n := range p.Nodes {
		out[n.ID] = n
	}
	return out
}

func TestProjectFitsContentWithMargin(t *testing.T) {
	root := laidOut()
	p := New(200, 100).Project(Input{Root: root, View: view(1, 400, 300)})
	require.False(t, p.Empty)

	bounds := viewport.ContentBounds(root, false)
	projected := p.Transform.ApplyRect(bounds)
	assert.InDelta(t, 100, projected.Y+projected.Height/2, tol, "vertically centered")
	assert.InDelta(t, 200/2, projected.X+projected.Width/2, tol, "horizontally centered")
	assert.LessOrEqual(t, projected.Width, 200*0.9+tol)
	assert.LessOrEqual(t, projected.Height, 100*0.9+tol)
	assert.True(t,
		projected.Width > 200*0.9-tol || projected.Height > 100*0.9-tol,
		"the limiting axis fills 90%")

	assert.Len(t, p.Nodes, 4)
	assert.Len(t, p.Links, 3)
	assert.True(t, byID(p)[tree.RootID].Root)
}

func TestProjectLoneRootIsInflated(t *testing.T) {
	root := &tree.Node{ID: tree.RootID, Width: 100, Height: 40}
	p := New(300, 300).Project(Input{Root: root, View: view(1, 0, 0)})
	require.Len(t, p.Nodes, 1)
	// 300 / (100*3) * 0.9
	assert.InDelta(t, 0.9, p.Transform.Scale, tol)
	assert.InDelta(t, 90, p.Nodes[0].Rect.Width, tol)
}

func TestProjectEmpty(t *testing.T) {
	assert.True(t, New(200, 100).Project(Input{Root: &tree.Node{ID: tree.RootID}}).Empty)
	assert.True(t, New(0, 100).Project(Input{Root: laidOut()}).Empty)
	assert.False(t, Projection{Empty: true}.InViewport(r2.Vec{}))
}

func TestProjectSkipsCollapsedChildren(t *testing.T) {
	root := laidOut()
	tree.Find(root, "a").Collapsed = true
	p := New(200, 100).Project(Input{Root: root, View: view(1, 400, 300)})
	assert.NotContains(t, byID(p), "a1")
	assert.Len(t, p.Links, 2)
}

func TestProjectClasses(t *testing.T) {
	p := New(200, 100).Project(Input{
		Root:        laidOut(),
		View:        view(1, 400, 300),
		SelectedID:  "b",
		Highlighted: map[string]bool{"a1": true},
	})
	nodes := byID(p)
	assert.True(t, nodes["b"].Selected)
	assert.False(t, nodes["a"].Selected)
	assert.True(t, nodes["a1"].Highlighted)
}

func TestViewportBoxMatchesMainView(t *testing.T) {
	root := laidOut()
	state := view(2, 100, -40)
	p := New(200, 100).Project(Input{Root: root, View: state})

	want := p.Transform.ApplyRect(viewport.Rect{X: -50, Y: 20, Width: 400, Height: 300})
	assert.InDelta(t, want.X, p.Viewport.X, tol)
	assert.InDelta(t, want.Y, p.Viewport.Y, tol)
	assert.InDelta(t, want.Width, p.Viewport.Width, tol)
	assert.InDelta(t, want.Height, p.Viewport.Height, tol)
}

func TestDraggedNodeOutsideViewIsSuppressed(t *testing.T) {
	root := laidOut()
	b := tree.Find(root, "b")
	b.X, b.Y = 10000, 10000

	p := New(200, 100).Project(Input{Root: root, View: view(1, 400, 300), DraggedID: "b"})
	assert.NotContains(t, byID(p), "b")

	p = New(200, 100).Project(Input{Root: root, View: view(1, 400, 300), DraggedID: "a"})
	assert.Contains(t, byID(p), "a", "visible dragged nodes stay")
	assert.Contains(t, byID(p), "b")
}

func TestViewportDragInvertsTransform(t *testing.T) {
	root := laidOut()
	state := view(1.5, 120, -80)
	p := New(200, 100).Project(Input{Root: root, View: state})

	grab := r2.Vec{X: 3, Y: 2}
	pointer := r2.Vec{X: p.Viewport.X + grab.X, Y: p.Viewport.Y + grab.Y}
	pan := p.PanForViewportDrag(pointer, grab, state.Scale)
	assert.InDelta(t, state.PanX, pan.X, 1e-6, "no movement keeps the pan")
	assert.InDelta(t, state.PanY, pan.Y, 1e-6)

	moved := p.PanForViewportDrag(r2.Add(pointer, r2.Vec{X: 10}), grab, state.Scale)
	assert.InDelta(t, state.PanX-10/p.Transform.Scale*state.Scale, moved.X, 1e-6)
}

func TestClickCentersMainView(t *testing.T) {
	root := laidOut()
	state := view(1, 0, 0)
	p := New(200, 100).Project(Input{Root: root, View: state})

	click := p.Transform.Apply(r2.Vec{X: root.X, Y: root.Y})
	pan := p.PanForClick(click, state)
	assert.InDelta(t, 400-root.X, pan.X, 1e-6)
	assert.InDelta(t, 300-root.Y, pan.Y, 1e-6)
}

func TestIsClick(t *testing.T) {
	assert.True(t, IsClick(r2.Vec{}, r2.Vec{X: 5, Y: -5}, DefaultClickThreshold))
	assert.False(t, IsClick(r2.Vec{}, r2.Vec{X: 6}, DefaultClickThreshold))
}
