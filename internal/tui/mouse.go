package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"mindmap/internal/minimap"
	"mindmap/internal/viewport"
)

// cellCenter is the screen point at the middle of a terminal cell.
func cellCenter(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * cellWidth, (float64(y) + 0.5) * cellHeight
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.mode != ModeNormal {
		return
	}
	view := m.editor.Viewport()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		x, y := cellCenter(msg.X, msg.Y)
		view.WheelZoom(-1, x, y)
		return
	case tea.MouseButtonWheelDown:
		x, y := cellCenter(msg.X, msg.Y)
		view.WheelZoom(1, x, y)
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointerDown(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		if m.mouse.down {
			m.pointerMove(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		if m.mouse.down {
			m.pointerUp(msg.X, msg.Y)
		}
	}
}

func (m *Model) minimapAt(x, y int) (int, int, bool) {
	if !m.showMinimap {
		return 0, 0, false
	}
	ox, oy, ok := minimapOrigin(m.screen.cols, m.screen.rows)
	if !ok || !onMinimap(ox, oy, x, y) {
		return 0, 0, false
	}
	return ox, oy, true
}

func (m *Model) pointerDown(x, y int) {
	m.mouse = pointer{down: true, startX: x, startY: y, lastX: x, lastY: y}
	m.errorMessage, m.successMessage = "", ""

	if ox, oy, ok := m.minimapAt(x, y); ok {
		m.mouse.onMinimap = true
		proj := minimapProjection(m.editor)
		p := minimapPoint(ox, oy, x, y)
		if proj.InViewport(p) {
			m.mouse.onViewBox = true
			m.mouse.grabX, m.mouse.grabY = p.X-proj.Viewport.X, p.Y-proj.Viewport.Y
		}
		return
	}

	if id := nodeAtCell(m.editor, x, y); id != "" {
		m.mouse.nodeID = id
		m.editor.Select(id)
	}
}

func (m *Model) pointerMove(x, y int) {
	e := m.editor
	view := e.Viewport()
	defer func() { m.mouse.lastX, m.mouse.lastY = x, y }()

	if m.mouse.onMinimap {
		if !m.mouse.onViewBox {
			return
		}
		ox, oy, ok := minimapOrigin(m.screen.cols, m.screen.rows)
		if !ok {
			return
		}
		proj := minimapProjection(e)
		pan := proj.PanForViewportDrag(minimapPoint(ox, oy, x, y), r2.Vec{X: m.mouse.grabX, Y: m.mouse.grabY}, view.State().Scale)
		view.StopAnimation()
		view.SetView(viewport.View{PanX: &pan.X, PanY: &pan.Y})
		return
	}

	if m.mouse.nodeID != "" && !m.mouse.dragging {
		dx := float64(x-m.mouse.startX) * cellWidth
		dy := float64(y-m.mouse.startY) * cellHeight
		if e.DragStarted(dx, dy) {
			m.mouse.dragging = e.BeginDrag(m.mouse.nodeID)
		}
	}
	if m.mouse.dragging {
		m.dropTarget = e.PotentialParent(m.mouse.nodeID, nodeAtCell(e, x, y))
		return
	}
	view.PanBy(float64(x-m.mouse.lastX)*cellWidth, float64(y-m.mouse.lastY)*cellHeight)
}

func (m *Model) pointerUp(x, y int) {
	e := m.editor
	defer func() {
		m.mouse = pointer{}
		m.dropTarget = ""
	}()

	if m.mouse.onMinimap {
		ox, oy, ok := minimapOrigin(m.screen.cols, m.screen.rows)
		if !ok || m.mouse.onViewBox {
			return
		}
		down := minimapPoint(ox, oy, m.mouse.startX, m.mouse.startY)
		up := minimapPoint(ox, oy, x, y)
		if !minimap.IsClick(down, up, minimap.DefaultClickThreshold) {
			return
		}
		proj := minimapProjection(e)
		if proj.Empty {
			return
		}
		view := e.Viewport()
		pan := proj.PanForClick(up, view.State())
		view.StopAnimation()
		view.SetView(viewport.View{PanX: &pan.X, PanY: &pan.Y})
		return
	}

	if m.mouse.dragging {
		if !e.EndDrag(m.dropTarget) {
			m.successMessage = "Drop cancelled"
		}
	}
}
