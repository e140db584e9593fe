// Package tui provides the interactive terminal widgets used while setting up
// a story.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#50FA7B") // Green
	colorCursor  = lipgloss.Color("#8BE9FD") // Cyan
	colorDim     = lipgloss.Color("#6272A4") // Muted purple

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorCursor).
			Bold(true)

	itemStyle = lipgloss.NewStyle()

	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
