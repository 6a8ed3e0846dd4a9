package ui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha accents used by the status output
var (
	Subtext0 = lipgloss.Color("#a6adc8")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")

	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
	Sky    = lipgloss.Color("#89dceb")
)
