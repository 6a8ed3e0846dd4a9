package rtcsync

import (
	"bytes"
	"context"
	"time"

	"github.com/allbin/rtc-sync/serial"
)

// fakeClock advances only when slept on
type fakeClock struct {
	now     time.Time
	slept   []time.Duration
	onSleep func(c *fakeClock)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 15, 14, 30, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	if c.onSleep != nil {
		c.onSleep(c)
	}
	return nil
}

func (c *fakeClock) total() time.Duration {
	var sum time.Duration
	for _, d := range c.slept {
		sum += d
	}
	return sum
}

// fakeTransport serves queued lines and records writes
type fakeTransport struct {
	lines    [][]byte
	writes   []string
	flushes  int
	closes   int
	onWrite  func(t *fakeTransport, cmd string)
	readErr  error
	writeErr func(cmd string) error
}

func (t *fakeTransport) queue(lines ...string) {
	for _, l := range lines {
		t.lines = append(t.lines, []byte(l))
	}
}

func (t *fakeTransport) Write(p []byte) (int, error) {
	if t.writeErr != nil {
		if err := t.writeErr(string(p)); err != nil {
			return 0, err
		}
	}
	t.writes = append(t.writes, string(p))
	if t.onWrite != nil {
		t.onWrite(t, string(p))
	}
	return len(p), nil
}

func (t *fakeTransport) Flush() error {
	t.flushes++
	return nil
}

func (t *fakeTransport) InWaiting() (int, error) {
	n := 0
	for _, l := range t.lines {
		n += len(l)
	}
	return n, nil
}

func (t *fakeTransport) ReadLine() ([]byte, error) {
	if t.readErr != nil {
		return nil, t.readErr
	}
	if len(t.lines) == 0 {
		return nil, nil
	}
	line := t.lines[0]
	t.lines = t.lines[1:]
	return line, nil
}

func (t *fakeTransport) Close() error {
	t.closes++
	return nil
}

// fakePort is an in-memory serial.Port. Each entry in reads is returned by
// one Read call; an empty entry simulates the read timeout.
type fakePort struct {
	reads    [][]byte
	written  bytes.Buffer
	queued   int
	drains   int
	flushIn  int
	flushOut int
	closes   int
	flushErr error
	closeErr error
}

var _ serial.Port = (*fakePort)(nil)

func (p *fakePort) Read(buf []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, nil
	}
	chunk := p.reads[0]
	p.reads = p.reads[1:]
	return copy(buf, chunk), nil
}

func (p *fakePort) Write(data []byte) (int, error) { return p.written.Write(data) }
func (p *fakePort) Drain() error                   { p.drains++; return nil }
func (p *fakePort) InWaiting() (int, error)        { return p.queued, nil }

func (p *fakePort) FlushInput() error {
	p.flushIn++
	return p.flushErr
}

func (p *fakePort) FlushOutput() error {
	p.flushOut++
	return nil
}

func (p *fakePort) Close() error {
	p.closes++
	return p.closeErr
}

// recordingEvents keeps the names of received events in order
type recordingEvents struct {
	NopEvents
	names      []string
	responses  []string
	deviceTime string
}

func (e *recordingEvents) Connecting(string)    { e.names = append(e.names, "connecting") }
func (e *recordingEvents) Connected(string)     { e.names = append(e.names, "connected") }
func (e *recordingEvents) Confirmed()           { e.names = append(e.names, "confirmed") }
func (e *recordingEvents) Verifying()           { e.names = append(e.names, "verifying") }
func (e *recordingEvents) Closed(string)        { e.names = append(e.names, "closed") }
func (e *recordingEvents) DeviceTime(l string)  { e.deviceTime = l }
func (e *recordingEvents) Response(line string) { e.responses = append(e.responses, line) }
