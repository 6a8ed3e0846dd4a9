/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/allbin/rtc-sync"
	"github.com/spf13/cobra"
)

// gettimeCmd represents the gettime command
var gettimeCmd = &cobra.Command{
	Use:   "gettime",
	Short: "Read the device's RTC time without changing it",
	Long: `Connect to the device the same way the root command does, send
"gettime" and print the first line the device answers with.

Example usage:
  rtcsync gettime
  rtcsync gettime --port /dev/ttyUSB0`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sess, err := newSession(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := interruptible(cmd.Context())
		defer stop()

		runner := newRunner(sess.settings, sess.in, sess.out, sess.printer, sess.logger)
		line, err := runner.QueryTime(ctx)
		sess.printer.QueryResult(line, err)

		if err != nil {
			stop()
			os.Exit(rtcsync.Classify(rtcsync.Result{}, err).ExitCode())
		}
	},
}

func init() {
	rootCmd.AddCommand(gettimeCmd)
}
