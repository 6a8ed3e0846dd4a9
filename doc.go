// Package rtcsync sets the real-time clock of a microcontroller attached over
// a USB serial bridge to the host's local time.
//
// The workflow is linear: find the device's port, open it, send
//
//	settime YYYY-MM-DD HH:MM:SS\n
//
// and poll for a line containing one of the firmware's confirmation phrases.
// Once confirmed, a best-effort gettime query reads back the device clock.
//
// # Basic Usage
//
//	cfg := rtcsync.DefaultConfig()
//	clock := rtcsync.SystemClock{}
//	runner := &rtcsync.Runner{
//	    Locate:   rtcsync.NewLocator(cfg.Keywords, rtcsync.NewLineReader(os.Stdin), os.Stdout, nil).Locate,
//	    Dial:     rtcsync.DialSession(rtcsync.NewDialer(cfg, clock, nil)),
//	    Protocol: rtcsync.NewProtocol(cfg, clock, nil, nil),
//	}
//	res, err := runner.Sync(ctx)
//
// # Timing
//
// All waits go through a Clock so they can be faked in tests:
//
//   - SettleDelay: 2s after opening, since most bridges reset the board
//   - ResponseTimeout: 5s for the confirmation, polled every PollInterval (100ms)
//   - VerifyDelay: 500ms before reading the gettime answer
//
// # Errors
//
// ErrPortNotFound, ErrConnection and ErrMalformedResponse are checked with
// errors.Is. A missing confirmation is not an error: Result.Synced is false.
// Cancelling the context aborts any wait and still closes the port.
package rtcsync
