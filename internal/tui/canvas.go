package tui

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/spatial/r2"

	"mindmap/internal/editor"
	"mindmap/internal/tree"
	"mindmap/internal/viewport"
)

// continuation marks the second cell of a double-width rune.
const continuation rune = 0

// Canvas is a grid of terminal cells, each with a style class.
type Canvas struct {
	width   int
	height  int
	cells   [][]rune
	classes [][]cellClass
}

func NewCanvas(width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c := &Canvas{
		width:   width,
		height:  height,
		cells:   make([][]rune, height),
		classes: make([][]cellClass, height),
	}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", width))
		c.classes[y] = make([]cellClass, width)
	}
	return c
}

func (c *Canvas) isValidPos(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// Set writes r at x, y. Double-width runes take the following cell too and
// are replaced by a space when they would not fit.
func (c *Canvas) Set(x, y int, r rune, cls cellClass) {
	if !c.isValidPos(x, y) {
		return
	}
	row := c.cells[y]
	if row[x] == continuation && x > 0 {
		row[x-1] = ' '
	}
	if x+1 < c.width && row[x+1] == continuation {
		row[x+1] = ' '
	}
	if runewidth.RuneWidth(r) == 2 {
		if x+1 >= c.width {
			r = ' '
		} else {
			if x+2 < c.width && row[x+2] == continuation {
				row[x+2] = ' '
			}
			row[x+1] = continuation
			c.classes[y][x+1] = cls
		}
	}
	row[x] = r
	c.classes[y][x] = cls
}

// Rune returns the rune at x, y or a space outside the canvas.
func (c *Canvas) Rune(x, y int) rune {
	if !c.isValidPos(x, y) {
		return ' '
	}
	return c.cells[y][x]
}

// WriteString writes s from x, y, spending at most maxWidth cells. It
// returns the number of cells used.
func (c *Canvas) WriteString(x, y int, s string, maxWidth int, cls cellClass) int {
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		c.Set(x+used, y, r, cls)
		used += w
	}
	return used
}

// Blit copies src onto c with its top left corner at x, y.
func (c *Canvas) Blit(src *Canvas, x, y int) {
	for sy := 0; sy < src.height; sy++ {
		for sx := 0; sx < src.width; sx++ {
			r := src.cells[sy][sx]
			if r == continuation {
				continue
			}
			c.Set(x+sx, y+sy, r, src.classes[sy][sx])
		}
	}
}

// Plain returns the canvas as unstyled lines of exactly width cells.
func (c *Canvas) Plain() []string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var b strings.Builder
		for _, r := range row {
			if r != continuation {
				b.WriteRune(r)
			}
		}
		lines[y] = b.String()
	}
	return lines
}

// Styled renders each line with runs of equal class styled together.
func (c *Canvas) Styled() []string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var (
			b   strings.Builder
			run strings.Builder
			cur cellClass
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if style, ok := cellStyles[cur]; ok {
				b.WriteString(style.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for x, r := range row {
			if r == continuation {
				continue
			}
			if cls := c.classes[y][x]; cls != cur {
				flush()
				cur = cls
			}
			run.WriteRune(r)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

type cellRect struct {
	x0, y0, x1, y1 int
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1
}

func (r cellRect) midY() int {
	return (r.y0 + r.y1) / 2
}

// toCell maps a screen coordinate to the cell containing it. Halves round
// the same way on both sides of zero so shifted boxes keep their size.
func toCell(v, size float64) int {
	return int(math.Floor(v/size + 0.5))
}

func nodeCells(view *viewport.Controller, n *tree.Node) cellRect {
	tl := view.ContentToScreen(r2.Vec{X: n.X - n.Width/2, Y: n.Y - n.Height/2})
	br := view.ContentToScreen(r2.Vec{X: n.X + n.Width/2, Y: n.Y + n.Height/2})
	r := cellRect{
		x0: toCell(tl.X, cellWidth),
		y0: toCell(tl.Y, cellHeight),
		x1: toCell(br.X, cellWidth) - 1,
		y1: toCell(br.Y, cellHeight) - 1,
	}
	if r.x1 < r.x0 {
		r.x1 = r.x0
	}
	if r.y1 < r.y0 {
		r.y1 = r.y0
	}
	return r
}

// visibleNodes lists nodes not hidden by a collapsed ancestor, parents
// before children.
func visibleNodes(root *tree.Node) []*tree.Node {
	var out []*tree.Node
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		out = append(out, n)
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// nodeAtCell returns the topmost visible node drawn over the cell.
func nodeAtCell(e *editor.Editor, x, y int) string {
	nodes := visibleNodes(e.Root())
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodeCells(e.Viewport(), nodes[i]).contains(x, y) {
			return nodes[i].ID
		}
	}
	return ""
}

type borderSet struct {
	tl, tr, bl, br, h, v rune
}

var (
	borderNormal   = borderSet{'╭', '╮', '╰', '╯', '─', '│'}
	borderRoot     = borderSet{'╔', '╗', '╚', '╝', '═', '║'}
	borderSelected = borderSet{'#', '#', '#', '#', '#', '#'}
)

// renderScene draws the visible tree of e: links first so boxes cover them.
func renderScene(c *Canvas, e *editor.Editor, dropTarget string) {
	view := e.Viewport()
	nodes := visibleNodes(e.Root())
	rects := make(map[string]cellRect, len(nodes))
	for _, n := range nodes {
		rects[n.ID] = nodeCells(view, n)
	}

	for _, n := range nodes {
		if n.Collapsed {
			continue
		}
		for _, child := range n.Children {
			drawLink(c, rects[n.ID], rects[child.ID])
		}
	}

	for _, n := range nodes {
		cls := classNode
		border := borderNormal
		switch {
		case n.ID == dropTarget:
			cls = classDropTarget
		case n.ID == e.DraggedID():
			cls = classDragged
		case n.ID == e.SelectedID():
			cls = classSelected
			border = borderSelected
		case e.IsHighlighted(n.ID):
			cls = classMatch
		case n.ID == tree.RootID:
			cls = classRoot
		}
		if n.ID == tree.RootID && border != borderSelected {
			border = borderRoot
		}
		drawNode(c, n, rects[n.ID], border, cls)
	}
}

// drawLink routes an elbow from the right side of the parent to the left
// side of the child through the column halfway between them.
func drawLink(c *Canvas, from, to cellRect) {
	sx, sy := from.x1+1, from.midY()
	tx, ty := to.x0-1, to.midY()
	if tx < sx {
		return
	}
	mid := (sx + tx) / 2
	for x := sx; x <= tx; x++ {
		y := sy
		if x > mid {
			y = ty
		}
		if x != mid || sy == ty {
			c.Set(x, y, '─', classLink)
		}
	}
	if sy == ty {
		return
	}
	step := 1
	top, bottom := '╮', '╰'
	if ty < sy {
		step = -1
		top, bottom = '╯', '╭'
	}
	for y := sy + step; y != ty; y += step {
		c.Set(mid, y, '│', classLink)
	}
	c.Set(mid, sy, top, classLink)
	c.Set(mid, ty, bottom, classLink)
}

// drawNode draws a bordered box when there is room for one, otherwise just
// as much of the text as fits.
func drawNode(c *Canvas, n *tree.Node, r cellRect, b borderSet, cls cellClass) {
	w, h := r.x1-r.x0+1, r.y1-r.y0+1
	lines := strings.Split(n.Text, "\n")

	if w < 3 || h < 3 {
		for x := r.x0; x <= r.x1; x++ {
			c.Set(x, r.midY(), ' ', cls)
		}
		if c.WriteString(r.x0, r.midY(), lines[0], w, cls) == 0 {
			c.Set(r.x0, r.midY(), '▪', cls)
		}
		return
	}

	for y := r.y0; y <= r.y1; y++ {
		for x := r.x0; x <= r.x1; x++ {
			ch := ' '
			switch {
			case y == r.y0 && x == r.x0:
				ch = b.tl
			case y == r.y0 && x == r.x1:
				ch = b.tr
			case y == r.y1 && x == r.x0:
				ch = b.bl
			case y == r.y1 && x == r.x1:
				ch = b.br
			case y == r.y0 || y == r.y1:
				ch = b.h
			case x == r.x0 || x == r.x1:
				ch = b.v
			}
			c.Set(x, y, ch, cls)
		}
	}

	innerW, innerH := w-2, h-2
	top := r.y0 + 1 + (innerH-len(lines))/2
	if top < r.y0+1 {
		top = r.y0 + 1
	}
	for i, line := range lines {
		y := top + i
		if y > r.y1-1 {
			break
		}
		if runewidth.StringWidth(line) > innerW {
			line = runewidth.Truncate(line, innerW, "…")
		}
		x := r.x0 + 1 + (innerW-runewidth.StringWidth(line))/2
		c.WriteString(x, y, line, innerW, cls)
	}
	if n.Collapsed && n.HasChildren() {
		c.Set(r.x1, r.midY(), '+', cls)
	}
}

// renderLines draws the full scene with the optional minimap overlay.
func renderLines(e *editor.Editor, cols, rows int, dropTarget string, showMinimap bool, styled bool) []string {
	c := NewCanvas(cols, rows)
	renderScene(c, e, dropTarget)
	if showMinimap {
		if x, y, ok := minimapOrigin(cols, rows); ok {
			c.Blit(renderMinimap(e), x, y)
		}
	}
	if styled {
		return c.Styled()
	}
	return c.Plain()
}
