package stability

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrVanished reports that the watched path became unreadable mid-wait,
// usually because the producer removed it. The caller decides whether the
// surrounding operation retries; the detector never does.
var ErrVanished = errors.New("file vanished during stability wait")

// ErrTimeout reports that MaxWait elapsed before the size settled.
var ErrTimeout = errors.New("stability wait timed out")

// Detector declares a file safe to read once its size has stayed constant
// for Threshold, sampled every PollInterval.
type Detector struct {
	PollInterval time.Duration
	Threshold    time.Duration
	// MaxWait bounds a single wait. Zero means block until the file settles
	// or vanishes, which is the default behavior.
	MaxWait time.Duration
}

// Wait blocks until path's size has been unchanged for the configured
// threshold. It returns ErrVanished as soon as the path cannot be stat'd,
// ErrTimeout if MaxWait elapses first, and ctx.Err() on cancellation.
//
// A threshold less than or equal to one poll interval is satisfied by a
// single unchanged re-read; a threshold of zero returns after the first
// successful stat.
func (d Detector) Wait(ctx context.Context, path string) error {
	poll := d.PollInterval
	if poll <= 0 {
		poll = time.Second
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVanished, err)
	}
	lastSize := info.Size()

	var unchanged time.Duration
	deadline := time.Time{}
	if d.MaxWait > 0 {
		deadline = time.Now().Add(d.MaxWait)
	}

	for {
		if unchanged >= d.Threshold {
			return nil
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return fmt.Errorf("%w after %s", ErrTimeout, d.MaxWait)
		}

		timer := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrVanished, err)
		}
		if info.Size() == lastSize {
			unchanged += poll
		} else {
			lastSize = info.Size()
			unchanged = 0
		}
	}
}
