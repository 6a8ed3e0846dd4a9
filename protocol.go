package rtcsync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// TimeLayout is the date-time format the firmware parses
const TimeLayout = "2006-01-02 15:04:05"

// GetTimeCommand asks the device for its current RTC time
const GetTimeCommand = "gettime\n"

// SetTimeCommand formats the command that sets the device clock to t
func SetTimeCommand(t time.Time) string {
	return "settime " + t.Format(TimeLayout) + "\n"
}

// IsConfirmation reports whether line contains any marker, ignoring case
func IsConfirmation(line string, markers []string) bool {
	lower := strings.ToLower(line)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// Result describes what happened during a sync
type Result struct {
	Command      string
	SystemTime   time.Time
	Synced       bool
	Confirmation string   // the line that confirmed the set
	DeviceTime   string   // answer to gettime, empty if none arrived
	Responses    []string // every line read while waiting
}

// Protocol drives the settime/gettime exchange over a Transport
type Protocol struct {
	Config Config
	Clock  Clock
	Events Events
	Logger *slog.Logger
}

// NewProtocol returns a Protocol; nil events and logger get defaults
func NewProtocol(cfg Config, clock Clock, events Events, logger *slog.Logger) *Protocol {
	if events == nil {
		events = NopEvents{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Protocol{Config: cfg, Clock: clock, Events: events, Logger: logger}
}

// Sync sends the host's local time and waits up to ResponseTimeout for a
// confirmation line. Not hearing one is reported with Synced == false, not
// as an error. After a confirmation the device is asked for its time; a
// missing answer does not affect the result, but a transport failure or an
// undecodable answer fails the whole run.
func (p *Protocol) Sync(ctx context.Context, t Transport) (Result, error) {
	now := p.Clock.Now()
	res := Result{
		SystemTime: now,
		Command:    SetTimeCommand(now),
	}
	p.Events.SystemTime(now, now.Format(TimeLayout))

	if err := p.send(t, res.Command); err != nil {
		return res, err
	}

	p.Events.AwaitingResponse()
	deadline := p.Clock.Now().Add(p.Config.ResponseTimeout)
	for p.Clock.Now().Before(deadline) {
		line, ok, err := p.poll(t)
		if err != nil {
			return res, err
		}
		if ok {
			res.Responses = append(res.Responses, line)
			p.Events.Response(line)

			if IsConfirmation(line, p.Config.SuccessMarkers) {
				res.Synced = true
				res.Confirmation = line
				p.Events.Confirmed()

				deviceTime, err := p.verify(ctx, t)
				res.DeviceTime = deviceTime
				return res, err
			}
		}

		if err := p.Clock.Sleep(ctx, p.Config.PollInterval); err != nil {
			return res, err
		}
	}

	p.Logger.Warn("no confirmation from device", "timeout", p.Config.ResponseTimeout, "lines", len(res.Responses))
	return res, nil
}

// Query asks the device for its RTC time and returns the first non-empty
// line it answers with.
func (p *Protocol) Query(ctx context.Context, t Transport) (string, error) {
	if err := p.send(t, GetTimeCommand); err != nil {
		return "", err
	}

	deadline := p.Clock.Now().Add(p.Config.ResponseTimeout)
	for p.Clock.Now().Before(deadline) {
		line, ok, err := p.poll(t)
		if err != nil {
			return "", err
		}
		if ok {
			p.Events.Response(line)
			if line != "" {
				return line, nil
			}
		}

		if err := p.Clock.Sleep(ctx, p.Config.PollInterval); err != nil {
			return "", err
		}
	}
	return "", ErrNoResponse
}

// verify sends gettime and reads one answer if it arrived within
// VerifyDelay. A missing answer is not an error; a failed write or read, or
// an answer that does not decode, is.
func (p *Protocol) verify(ctx context.Context, t Transport) (string, error) {
	p.Events.Verifying()

	if err := p.send(t, GetTimeCommand); err != nil {
		return "", err
	}

	if err := p.Clock.Sleep(ctx, p.Config.VerifyDelay); err != nil {
		return "", err
	}

	line, ok, err := p.poll(t)
	if err != nil {
		return "", err
	}
	if !ok {
		p.Logger.Debug("no verification answer")
		return "", nil
	}
	p.Events.DeviceTime(line)
	return line, nil
}

// send writes cmd and waits for it to be transmitted
func (p *Protocol) send(t Transport, cmd string) error {
	p.Logger.Debug("sending command", "command", strings.TrimSpace(cmd))
	if _, err := t.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("%w: writing %q: %w", ErrConnection, strings.TrimSpace(cmd), err)
	}
	if err := t.Flush(); err != nil {
		return fmt.Errorf("%w: flushing %q: %w", ErrConnection, strings.TrimSpace(cmd), err)
	}
	return nil
}

// poll reads and decodes one line if input is waiting. ok is false when
// nothing was available.
func (p *Protocol) poll(t Transport) (line string, ok bool, err error) {
	n, err := t.InWaiting()
	if err != nil {
		return "", false, fmt.Errorf("%w: checking input: %w", ErrConnection, err)
	}
	if n == 0 {
		return "", false, nil
	}

	raw, err := t.ReadLine()
	if err != nil {
		return "", false, fmt.Errorf("%w: reading: %w", ErrConnection, err)
	}
	line, err = decodeLine(raw)
	if err != nil {
		return "", false, err
	}
	p.Logger.Debug("device line", "line", line)
	return line, true, nil
}

// decodeLine validates raw as UTF-8 and trims surrounding whitespace
func decodeLine(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: %q", ErrMalformedResponse, raw)
	}
	return strings.TrimSpace(string(raw)), nil
}
