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

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata,
and whether auto-discovery would pick it.

Examples:
  rtcsync info /dev/ttyUSB0
  rtcsync info /dev/ttyACM0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sess, err := newSession(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		info, err := serial.GetPortInfo(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting port info: %v\n", err)
			os.Exit(1)
		}

		printPortInfo(sess.out, info, sess.settings.Config.Keywords)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printPortInfo(out io.Writer, info *serial.PortInfo, keywords []string) {
	fmt.Fprintf(out, "Port Information: %s\n\n", info.Path)
	fmt.Fprintf(out, "  Name:        %s\n", info.Name)
	fmt.Fprintf(out, "  Description: %s\n", info.Description)

	_, matched := rtcsync.MatchPort([]serial.Descriptor{{Path: info.Path, Description: info.Description}}, keywords)
	if matched {
		fmt.Fprintf(out, "  Discovery:   %s\n", ui.SuccessStyle.Render("matches"))
	} else {
		fmt.Fprintf(out, "  Discovery:   %s\n", ui.MutedStyle.Render("no match"))
	}

	if !info.IsUSB() {
		return
	}

	fmt.Fprintln(out, "\nUSB Device Information:")
	fields := []struct{ label, value string }{
		{"Vendor ID:   ", info.VendorID},
		{"Product ID:  ", info.ProductID},
		{"Serial:      ", info.SerialNumber},
		{"Interface:   ", info.InterfaceNumber},
		{"Bus:         ", info.BusNumber},
		{"Device:      ", info.DeviceNumber},
		{"Manufacturer:", info.Manufacturer},
		{"Product:     ", info.Product},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(out, "  %s %s\n", f.label, f.value)
		}
	}
}
