package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/allbin/rtc-sync"
)

// Printer renders sync progress as styled status lines
type Printer struct {
	out io.Writer
}

// Ensure Printer implements rtcsync.Events at compile time
var _ rtcsync.Events = (*Printer)(nil)

// NewPrinter returns a Printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Banner prints the program header
func (p *Printer) Banner() {
	p.println(TitleStyle.Render("=== RTC Time Setter ==="))
	p.println("Setting the system time on the device RTC")
}

func (p *Printer) Connecting(port string) {
	p.println(InfoStyle.Render("⚡"), fmt.Sprintf("Connecting to %s...", port))
}

func (p *Printer) Connected(string) {
	p.println(SuccessStyle.Render("✓"), "Connected!")
}

func (p *Printer) SystemTime(_ time.Time, formatted string) {
	p.println(InfoStyle.Render("🕒"), "System time:", formatted)
	p.println("Setting time on the RTC...")
}

func (p *Printer) AwaitingResponse() {
	p.println("Waiting for device response...")
}

func (p *Printer) Response(line string) {
	p.println(DeviceStyle.Render("Device:"), line)
}

func (p *Printer) Confirmed() {
	p.println(SuccessStyle.Render("✅ Time set successfully!"))
}

func (p *Printer) Verifying() {
	p.println("Checking the time on the device...")
}

func (p *Printer) DeviceTime(line string) {
	p.println(InfoStyle.Render("RTC time:"), line)
}

func (p *Printer) Closed(string) {
	p.println(MutedStyle.Render("Connection closed."))
}

// Outcome prints the closing message for a finished run
func (p *Printer) Outcome(outcome rtcsync.Outcome, err error) {
	switch outcome {
	case rtcsync.OutcomeSynced:
		p.println()
		p.println(SuccessStyle.Render("🎉 Operation completed successfully!"))
		return
	case rtcsync.OutcomeInterrupted:
		p.println()
		p.println(WarningStyle.Render("⏹️ Operation interrupted by user"))
		return
	case rtcsync.OutcomePortNotFound:
		p.println(ErrorStyle.Render("✗"), "Could not find the device. Make sure it is connected.")
		if err != nil && err != rtcsync.ErrPortNotFound {
			p.println(MutedStyle.Render(err.Error()))
		}
	case rtcsync.OutcomeConnectionFailed:
		p.println(ErrorStyle.Render("❌"), fmt.Sprintf("Port connection error: %v", err))
	case rtcsync.OutcomeNotConfirmed:
		p.println(WarningStyle.Render("⚠️ No confirmation received from the device"))
	default:
		p.println(ErrorStyle.Render("❌"), fmt.Sprintf("Unexpected error: %v", err))
	}

	p.println()
	p.println(ErrorStyle.Render("❌ Failed to set the RTC time"))
}

// QueryResult prints the answer of a gettime query
func (p *Printer) QueryResult(line string, err error) {
	if err != nil {
		p.println(ErrorStyle.Render("✗"), err)
		return
	}
	p.println(InfoStyle.Render("RTC time:"), line)
}
