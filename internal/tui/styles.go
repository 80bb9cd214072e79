package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Transcript styles
	InputLineStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	ResultStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	MessageStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)
