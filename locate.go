package rtcsync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/allbin/rtc-sync/serial"
)

// Enumerator lists the serial ports visible to the host, in a stable order
type Enumerator func() ([]serial.Descriptor, error)

// Locator finds the device's port, falling back to asking the user
type Locator struct {
	Enumerate Enumerator
	Keywords  []string
	In        *LineReader // answers to the selection prompt
	Out       io.Writer   // port list and prompt
	Logger    *slog.Logger
}

// NewLocator returns a Locator backed by the system's port list
func NewLocator(keywords []string, in *LineReader, out io.Writer, logger *slog.Logger) *Locator {
	return &Locator{
		Enumerate: serial.Descriptors,
		Keywords:  keywords,
		In:        in,
		Out:       out,
		Logger:    logger,
	}
}

// MatchPort returns the first port whose description contains any keyword,
// compared case-insensitively. Ports are scanned in order, and for each port
// the keywords are tried in order.
func MatchPort(ports []serial.Descriptor, keywords []string) (serial.Descriptor, bool) {
	for _, p := range ports {
		desc := strings.ToLower(p.Description)
		for _, kw := range keywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				return p, true
			}
		}
	}
	return serial.Descriptor{}, false
}

// Locate returns the device path of the microcontroller. When no port
// matches a keyword the user picks one by number; anything that is not an
// in-range number yields ErrPortNotFound without asking again.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	ports, err := l.Enumerate()
	if err != nil {
		return "", fmt.Errorf("%w: listing ports: %w", ErrPortNotFound, err)
	}
	if len(ports) == 0 {
		return "", ErrPortNotFound
	}

	if p, ok := MatchPort(ports, l.Keywords); ok {
		l.logger().Debug("port matched by description", "port", p.Path, "description", p.Description)
		return p.Path, nil
	}

	fmt.Fprintln(l.Out, "Device not found automatically. Available ports:")
	for i, p := range ports {
		fmt.Fprintf(l.Out, "%d. %s - %s\n", i+1, p.Path, p.Description)
	}
	fmt.Fprint(l.Out, "Select port number: ")

	answer, err := l.In.ReadLine(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		l.logger().Debug("no port selection read", "error", err)
		return "", ErrPortNotFound
	}

	choice, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || choice < 1 || choice > len(ports) {
		l.logger().Debug("invalid port selection", "answer", answer)
		return "", ErrPortNotFound
	}
	return ports[choice-1].Path, nil
}

func (l *Locator) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
