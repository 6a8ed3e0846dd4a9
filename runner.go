package rtcsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Conn is an open transport that must be closed when done
type Conn interface {
	Transport
	io.Closer
}

// DialFunc opens a Conn on the given device path
type DialFunc func(ctx context.Context, path string) (Conn, error)

// DialSession adapts a Dialer to a DialFunc
func DialSession(d *Dialer) DialFunc {
	return func(ctx context.Context, path string) (Conn, error) {
		s, err := d.Dial(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Outcome is the overall disposition of a run
type Outcome int

const (
	OutcomeSynced Outcome = iota
	OutcomeNotConfirmed
	OutcomePortNotFound
	OutcomeConnectionFailed
	OutcomeInterrupted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSynced:
		return "synced"
	case OutcomeNotConfirmed:
		return "not confirmed"
	case OutcomePortNotFound:
		return "port not found"
	case OutcomeConnectionFailed:
		return "connection failed"
	case OutcomeInterrupted:
		return "interrupted"
	default:
		return "failed"
	}
}

// ExitCode maps the outcome to a process exit status
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeSynced:
		return 0
	case OutcomeInterrupted:
		return 130
	default:
		return 1
	}
}

// Classify derives the outcome of a run from its result and error
func Classify(res Result, err error) Outcome {
	switch {
	case err == nil && res.Synced:
		return OutcomeSynced
	case err == nil:
		return OutcomeNotConfirmed
	case errors.Is(err, context.Canceled):
		return OutcomeInterrupted
	case errors.Is(err, ErrPortNotFound):
		return OutcomePortNotFound
	case errors.Is(err, ErrConnection):
		return OutcomeConnectionFailed
	default:
		return OutcomeFailed
	}
}

// Runner sequences discovery, connection and the protocol
type Runner struct {
	// Port skips discovery when set
	Port     string
	Locate   func(ctx context.Context) (string, error)
	Dial     DialFunc
	Protocol *Protocol
	Events   Events
	Logger   *slog.Logger
}

// Sync runs the whole set-time workflow. The connection is closed exactly
// once on every path after a successful dial.
func (r *Runner) Sync(ctx context.Context) (Result, error) {
	var res Result
	err := r.withConn(ctx, func(c Conn) error {
		var err error
		res, err = r.Protocol.Sync(ctx, c)
		return err
	})
	return res, err
}

// QueryTime opens the device and returns its answer to gettime
func (r *Runner) QueryTime(ctx context.Context) (string, error) {
	var line string
	err := r.withConn(ctx, func(c Conn) error {
		var err error
		line, err = r.Protocol.Query(ctx, c)
		return err
	})
	return line, err
}

func (r *Runner) withConn(ctx context.Context, fn func(Conn) error) error {
	path := r.Port
	if path == "" {
		var err error
		if path, err = r.Locate(ctx); err != nil {
			return err
		}
	}

	r.events().Connecting(path)
	conn, err := r.Dial(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			r.logger().Warn("closing port", "port", path, "error", err)
		}
		r.events().Closed(path)
	}()
	r.events().Connected(path)

	return fn(conn)
}

func (r *Runner) events() Events {
	if r.Events == nil {
		return NopEvents{}
	}
	return r.Events
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
