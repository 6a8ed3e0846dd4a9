/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/allbin/rtc-sync"
	"github.com/allbin/rtc-sync/internal/ui"
	"github.com/allbin/rtc-sync/serial"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports with their descriptions.

USB ports are described using the product and manufacturer strings the
device reports, which is what auto-discovery matches against. The port
auto-discovery would pick is marked with '*' (or highlighted in the table).

Virtual terminals and pseudo-terminals are excluded from the listing.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sess, err := newSession(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ports, err := serial.Descriptors()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		tableFormat, _ := cmd.Flags().GetBool("table")
		renderPorts(sess.out, ports, sess.settings.Config.Keywords, tableFormat)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("table", "T", false, "Display output in a styled table format")
}

func renderPorts(out io.Writer, ports []serial.Descriptor, keywords []string, tableFormat bool) {
	if len(ports) == 0 {
		fmt.Fprintln(out, "No serial ports found")
		return
	}

	var selected string
	if p, ok := rtcsync.MatchPort(ports, keywords); ok {
		selected = p.Path
	}

	if tableFormat {
		fmt.Fprintf(out, "Found %d serial port(s):\n\n", len(ports))
		fmt.Fprintln(out, ui.PortTable(ports, selected))
		return
	}
	ui.PortList(out, ports, selected)
}
