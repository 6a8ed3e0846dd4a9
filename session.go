package rtcsync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/allbin/rtc-sync/serial"
)

// maxLineLength bounds a single response line; longer runs are returned in pieces
const maxLineLength = 4096

// Transport is the line-oriented view of an open port used by the protocol
type Transport interface {
	Write(p []byte) (int, error)
	// Flush blocks until written bytes have left the host
	Flush() error
	// InWaiting reports how many received bytes can be read without waiting
	InWaiting() (int, error)
	// ReadLine returns the next line including its terminator, or whatever
	// arrived before the read timeout expired
	ReadLine() ([]byte, error)
}

// Opener opens a serial device; serial.Open in production
type Opener func(device string, opts ...serial.Option) (serial.Port, error)

// Dialer opens and prepares sessions
type Dialer struct {
	Config Config
	Clock  Clock
	Open   Opener
	Logger *slog.Logger
}

// NewDialer returns a Dialer that opens real serial ports
func NewDialer(cfg Config, clock Clock, logger *slog.Logger) *Dialer {
	return &Dialer{
		Config: cfg,
		Clock:  clock,
		Open:   serial.Open,
		Logger: logger,
	}
}

// Dial opens the port, waits for the board to settle after the reset that
// opening usually triggers, then discards anything already buffered in
// either direction. On any failure after the open the port is closed before
// returning.
func (d *Dialer) Dial(ctx context.Context, path string) (*Session, error) {
	port, err := d.Open(path, d.Config.SerialOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	s := &Session{
		path: path,
		port: port,
		buf:  make([]byte, 256),
	}

	d.logger().Debug("port opened, settling", "port", path, "delay", d.Config.SettleDelay)
	if err := d.Clock.Sleep(ctx, d.Config.SettleDelay); err != nil {
		s.Close()
		return nil, err
	}

	if err := port.FlushInput(); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %s: discarding input: %w", ErrConnection, path, err)
	}
	if err := port.FlushOutput(); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %s: discarding output: %w", ErrConnection, path, err)
	}

	return s, nil
}

func (d *Dialer) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Session is an open, settled serial connection to the device
type Session struct {
	path    string
	port    serial.Port
	buf     []byte
	pending []byte

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// Ensure Session implements Transport at compile time
var _ Transport = (*Session)(nil)

// Path returns the device path the session was opened on
func (s *Session) Path() string {
	return s.path
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Write sends data to the device
func (s *Session) Write(p []byte) (int, error) {
	if s.isClosed() {
		return 0, serial.ErrPortClosed
	}
	return s.port.Write(p)
}

// Flush waits until written data has been transmitted
func (s *Session) Flush() error {
	if s.isClosed() {
		return serial.ErrPortClosed
	}
	return s.port.Drain()
}

// InWaiting counts bytes already read ahead plus those queued in the kernel
func (s *Session) InWaiting() (int, error) {
	if s.isClosed() {
		return 0, serial.ErrPortClosed
	}
	n, err := s.port.InWaiting()
	if err != nil {
		return 0, err
	}
	return n + len(s.pending), nil
}

// ReadLine reads until a newline, the read timeout, or maxLineLength bytes
func (s *Session) ReadLine() ([]byte, error) {
	if s.isClosed() {
		return nil, serial.ErrPortClosed
	}

	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			return s.take(i + 1), nil
		}
		if len(s.pending) >= maxLineLength {
			return s.take(maxLineLength), nil
		}

		n, err := s.port.Read(s.buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// read timeout
			return s.take(len(s.pending)), nil
		}
		s.pending = append(s.pending, s.buf[:n]...)
	}
}

// take removes and returns the first n pending bytes
func (s *Session) take(n int) []byte {
	line := make([]byte, n)
	copy(line, s.pending[:n])
	s.pending = append(s.pending[:0], s.pending[n:]...)
	return line
}

// Close closes the port. Only the first call reaches the port; later calls
// return the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.closeErr = s.port.Close()
	})
	return s.closeErr
}
