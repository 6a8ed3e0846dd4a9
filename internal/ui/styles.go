package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// DeviceStyle marks lines received from the device
	DeviceStyle = lipgloss.NewStyle().
			Foreground(Sky)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Subtext0)
)
