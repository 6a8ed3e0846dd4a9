package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/rtc-sync/serial"
)

// PortList prints one port per line, marking the auto-discovered one
func PortList(out io.Writer, ports []serial.Descriptor, selected string) {
	for _, p := range ports {
		marker := " "
		if p.Path == selected {
			marker = SuccessStyle.Render("*")
		}
		fmt.Fprintf(out, "%s %s - %s\n", marker, p.Path, p.Description)
	}
}

// PortTable renders the ports as a static table with the auto-discovered
// port highlighted
func PortTable(ports []serial.Descriptor, selected string) string {
	portWidth := len("Port")
	descWidth := len("Description")
	rows := make([]table.Row, 0, len(ports))
	cursor := -1
	for i, p := range ports {
		rows = append(rows, table.Row{p.Path, p.Description})
		portWidth = max(portWidth, lipgloss.Width(p.Path))
		descWidth = max(descWidth, lipgloss.Width(p.Description))
		if p.Path == selected {
			cursor = i
		}
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Port", Width: portWidth},
			{Title: "Description", Width: descWidth},
		}),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Subtext0).
		BorderBottom(true).
		Bold(true).
		Foreground(Text)
	if cursor >= 0 {
		s.Selected = s.Selected.
			Foreground(Green).
			Background(Surface1).
			Bold(true)
		t.SetCursor(cursor)
	} else {
		s.Selected = lipgloss.NewStyle()
	}
	t.SetStyles(s)

	return t.View()
}
