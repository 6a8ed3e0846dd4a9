package rtcsync

import (
	"context"
	"time"
)

// Clock supplies wall-clock time and sleeping. Tests substitute a fake
// that advances instantly.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the real clock
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep waits for d or until ctx is cancelled
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
