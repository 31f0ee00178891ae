package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	colorError   = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(colorMuted)

	editorStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorMuted)
)
