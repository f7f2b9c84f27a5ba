package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the viewer.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	LiveStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	TranslationStyle = lipgloss.NewStyle().
				Foreground(ColorCyan)

	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	PartialStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)
