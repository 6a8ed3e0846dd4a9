/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/allbin/rtc-sync"
	"github.com/allbin/rtc-sync/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// v holds flag values overlaid with RTCSYNC_* environment variables
var v = viper.New()

// rootCmd represents the base command; run without a subcommand it syncs the clock
var rootCmd = &cobra.Command{
	Use:   "rtcsync",
	Short: "Set a microcontroller's real-time clock to the host time",
	Long: `Set the real-time clock of a microcontroller connected over a USB serial
bridge to the current local time of this machine.

The device port is found by matching the port description against known
bridge chips (ESP32, Silicon Labs, CH340, CP210, USB Serial). If nothing
matches you are asked to pick a port from the list.

The command "settime YYYY-MM-DD HH:MM:SS" is sent at 115200 baud and the
device has 5 seconds to confirm. On success the device time is read back
with "gettime".

Every flag can also be set through the environment, e.g. RTCSYNC_PORT.

Example usage:
  rtcsync
  rtcsync --port /dev/ttyACM0
  rtcsync --no-pause --timeout 10s`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runSync(cmd))
	},
}

// Execute runs the command tree
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addFlags(rootCmd.PersistentFlags())
	bindViper(v, rootCmd.PersistentFlags())
}

func addFlags(pf *pflag.FlagSet) {
	pf.StringP("port", "p", "", "Serial port to use instead of auto-discovery")
	pf.IntP("baud", "b", 115200, "Baud rate")
	pf.DurationP("timeout", "t", 5*time.Second, "How long to wait for the device to answer")
	pf.Duration("settle", 2*time.Second, "Pause after opening the port while the board resets")
	pf.BoolP("verbose", "v", false, "Enable debug logging on stderr")
	pf.Bool("no-pause", false, "Exit without waiting for Enter")
}

// bindViper layers RTCSYNC_* environment variables over the flags
func bindViper(v *viper.Viper, flags *pflag.FlagSet) {
	v.SetEnvPrefix("rtcsync")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	cobra.CheckErr(v.BindPFlags(flags))
}

// settings is the resolved configuration of one invocation
type settings struct {
	Port    string
	Verbose bool
	NoPause bool
	Config  rtcsync.Config
}

func loadSettings(v *viper.Viper) (settings, error) {
	cfg, err := rtcsync.NewConfig(
		rtcsync.WithBaudRate(v.GetInt("baud")),
		rtcsync.WithResponseTimeout(v.GetDuration("timeout")),
		rtcsync.WithSettleDelay(v.GetDuration("settle")),
	)
	if err != nil {
		return settings{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return settings{
		Port:    v.GetString("port"),
		Verbose: v.GetBool("verbose"),
		NoPause: v.GetBool("no-pause"),
		Config:  cfg,
	}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRunner(s settings, in *rtcsync.LineReader, out io.Writer, events rtcsync.Events, logger *slog.Logger) *rtcsync.Runner {
	clock := rtcsync.SystemClock{}
	return &rtcsync.Runner{
		Port:     s.Port,
		Locate:   rtcsync.NewLocator(s.Config.Keywords, in, out, logger).Locate,
		Dial:     rtcsync.DialSession(rtcsync.NewDialer(s.Config, clock, logger)),
		Protocol: rtcsync.NewProtocol(s.Config, clock, events, logger),
		Events:   events,
		Logger:   logger,
	}
}

// session bundles what every device command needs
type session struct {
	settings settings
	in       *rtcsync.LineReader
	out      io.Writer
	printer  *ui.Printer
	logger   *slog.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	s, err := loadSettings(v)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	return &session{
		settings: s,
		in:       rtcsync.NewLineReader(cmd.InOrStdin()),
		out:      out,
		printer:  ui.NewPrinter(out),
		logger:   newLogger(cmd.ErrOrStderr(), s.Verbose),
	}, nil
}

// interruptible returns a context cancelled by Ctrl+C or SIGTERM
func interruptible(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runSync(cmd *cobra.Command) int {
	sess, err := newSession(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := interruptible(cmd.Context())
	sess.printer.Banner()
	runner := newRunner(sess.settings, sess.in, sess.out, sess.printer, sess.logger)
	res, err := runner.Sync(ctx)
	stop()

	outcome := rtcsync.Classify(res, err)
	sess.logger.Debug("sync finished", "outcome", outcome.String(), "error", err)
	sess.printer.Outcome(outcome, err)

	if shouldPause(outcome, sess.settings.NoPause, isTerminal(os.Stdin)) {
		pause(sess.in, sess.out)
	}
	return outcome.ExitCode()
}

// isTerminal reports whether f is a character device, i.e. someone can press Enter
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// shouldPause reports whether to wait for Enter before exiting. An
// interrupted run exits straight away.
func shouldPause(outcome rtcsync.Outcome, noPause, terminal bool) bool {
	return !noPause && terminal && outcome != rtcsync.OutcomeInterrupted
}

// pause waits for the user to press Enter
func pause(in *rtcsync.LineReader, out io.Writer) {
	fmt.Fprint(out, "\nPress Enter to exit...")
	in.ReadLine(context.Background())
}
