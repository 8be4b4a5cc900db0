package tui

// handlePan shifts the view by panStep cells per speed unit. The arrow
// names the direction the view moves over the map.
func (m *Model) handlePan(key string, speed int) {
	dx, dy := 0, 0
	switch key {
	case "H", "shift+left":
		dx = 1
	case "L", "shift+right":
		dx = -1
	case "K", "shift+up":
		dy = 1
	case "J", "shift+down":
		dy = -1
	}
	step := float64(panStep * speed)
	m.editor.Viewport().PanBy(float64(dx)*step*cellWidth, float64(dy)*step*cellHeight)
}

// getMoveSpeed pans further with the shifted arrow keys than with HJKL.
func getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
