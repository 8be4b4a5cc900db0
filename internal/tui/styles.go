package tui

import "github.com/charmbracelet/lipgloss"

type cellClass uint8

const (
	classNone cellClass = iota
	classLink
	classNode
	classRoot
	classSelected
	classMatch
	classDropTarget
	classDragged
	classMinimapFrame
	classMinimapLink
	classMinimapNode
	classMinimapRoot
	classMinimapSelected
	classMinimapMatch
	classMinimapView
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#60a5fa"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#4b5563"}
	colorMatch  = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
	colorDrop   = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	colorText   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#e5e7eb"}
	colorError  = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}

	cellStyles = map[cellClass]lipgloss.Style{
		classLink:            lipgloss.NewStyle().Foreground(colorMuted),
		classNode:            lipgloss.NewStyle().Foreground(colorText),
		classRoot:            lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		classSelected:        lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Reverse(true),
		classMatch:           lipgloss.NewStyle().Foreground(colorMatch).Bold(true),
		classDropTarget:      lipgloss.NewStyle().Foreground(colorDrop).Bold(true),
		classDragged:         lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		classMinimapFrame:    lipgloss.NewStyle().Foreground(colorMuted),
		classMinimapLink:     lipgloss.NewStyle().Foreground(colorMuted).Faint(true),
		classMinimapNode:     lipgloss.NewStyle().Foreground(colorText),
		classMinimapRoot:     lipgloss.NewStyle().Foreground(colorAccent),
		classMinimapSelected: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		classMinimapMatch:    lipgloss.NewStyle().Foreground(colorMatch),
		classMinimapView:     lipgloss.NewStyle().Foreground(colorAccent).Faint(true),
	}

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#f9fafb", Dark: "#111827"}).
			Background(lipgloss.AdaptiveColor{Light: "#374151", Dark: "#9ca3af"})
	statusModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorAccent).
			Bold(true).
			Padding(0, 1)
	statusErrorStyle   = statusStyle.Copy().Foreground(colorError).Bold(true)
	editPanelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent)
	fileListStyle      = lipgloss.NewStyle().Foreground(colorText)
	fileSelectedStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	startupTitleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	startupBannerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(1, 4)
)
