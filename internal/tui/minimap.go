package tui

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"mindmap/internal/editor"
	"mindmap/internal/minimap"
	"mindmap/internal/viewport"
)

// minimapOrigin places the overview in the top right corner, or reports
// false when the terminal is too small to spare the room.
func minimapOrigin(cols, rows int) (int, int, bool) {
	if cols < minimapCols*2 || rows < minimapRows+2 {
		return 0, 0, false
	}
	return cols - minimapCols - 1, 1, true
}

// minimapProjection projects into the area inside the frame. Minimap units
// match content units so the cell mapping is shared with the main canvas.
func minimapProjection(e *editor.Editor) minimap.Projection {
	p := minimap.New(float64(minimapCols-2)*cellWidth, float64(minimapRows-2)*cellHeight)
	return p.Project(minimap.Input{
		Root:        e.Root(),
		View:        e.Viewport().State(),
		SelectedID:  e.SelectedID(),
		Highlighted: e.Highlighted(),
		DraggedID:   e.DraggedID(),
	})
}

func minimapRect(r viewport.Rect) cellRect {
	cr := cellRect{
		x0: 1 + int(math.Floor(r.X/cellWidth)),
		y0: 1 + int(math.Floor(r.Y/cellHeight)),
		x1: 1 + int(math.Ceil((r.X+r.Width)/cellWidth)) - 1,
		y1: 1 + int(math.Ceil((r.Y+r.Height)/cellHeight)) - 1,
	}
	if cr.x1 < cr.x0 {
		cr.x1 = cr.x0
	}
	if cr.y1 < cr.y0 {
		cr.y1 = cr.y0
	}
	return cr
}

// renderMinimap draws the overview into its own framed canvas.
func renderMinimap(e *editor.Editor) *Canvas {
	c := NewCanvas(minimapCols, minimapRows)
	for y := 0; y < minimapRows; y++ {
		for x := 0; x < minimapCols; x++ {
			ch := ' '
			switch {
			case y == 0 && x == 0:
				ch = '┌'
			case y == 0 && x == minimapCols-1:
				ch = '┐'
			case y == minimapRows-1 && x == 0:
				ch = '└'
			case y == minimapRows-1 && x == minimapCols-1:
				ch = '┘'
			case y == 0 || y == minimapRows-1:
				ch = '─'
			case x == 0 || x == minimapCols-1:
				ch = '│'
			}
			c.Set(x, y, ch, classMinimapFrame)
		}
	}

	proj := minimapProjection(e)
	if proj.Empty {
		return c
	}
	inside := func(x, y int) bool {
		return x > 0 && y > 0 && x < minimapCols-1 && y < minimapRows-1
	}

	for _, l := range proj.Links {
		steps := int(math.Max(math.Abs(l.To.X-l.From.X)/cellWidth, math.Abs(l.To.Y-l.From.Y)/cellHeight)) + 1
		for i := 0; i <= steps; i++ {
			p := r2.Add(l.From, r2.Scale(float64(i)/float64(steps), r2.Sub(l.To, l.From)))
			x, y := 1+int(p.X/cellWidth), 1+int(p.Y/cellHeight)
			if inside(x, y) && c.Rune(x, y) == ' ' {
				c.Set(x, y, '·', classMinimapLink)
			}
		}
	}

	for _, n := range proj.Nodes {
		cls, ch := classMinimapNode, '▪'
		switch {
		case n.Selected:
			cls, ch = classMinimapSelected, '■'
		case n.Highlighted:
			cls = classMinimapMatch
		case n.Root:
			cls, ch = classMinimapRoot, '■'
		}
		r := minimapRect(n.Rect)
		for y := r.y0; y <= r.y1; y++ {
			for x := r.x0; x <= r.x1; x++ {
				if inside(x, y) {
					c.Set(x, y, ch, cls)
				}
			}
		}
	}

	v := minimapRect(proj.Viewport)
	for x := v.x0; x <= v.x1; x++ {
		for _, y := range []int{v.y0, v.y1} {
			if inside(x, y) {
				c.Set(x, y, '┈', classMinimapView)
			}
		}
	}
	for y := v.y0 + 1; y < v.y1; y++ {
		for _, x := range []int{v.x0, v.x1} {
			if inside(x, y) {
				c.Set(x, y, '┊', classMinimapView)
			}
		}
	}
	return c
}

// minimapPoint converts a terminal cell inside the minimap to minimap units,
// using the cell center.
func minimapPoint(originX, originY, x, y int) r2.Vec {
	return r2.Vec{
		X: (float64(x-originX-1) + 0.5) * cellWidth,
		Y: (float64(y-originY-1) + 0.5) * cellHeight,
	}
}

func onMinimap(originX, originY, x, y int) bool {
	return x >= originX && y >= originY && x < originX+minimapCols && y < originY+minimapRows
}
