// Package pace holds the frame pacing and sleeping used by the animation loops.
package pace

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done, whichever comes first
func Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacer spaces frames a fixed interval apart. A frame that overruns its
// budget is followed immediately by the next one; later frames are never
// shortened to make up for it.
type Pacer struct {
	interval time.Duration
	now      func() time.Time
	start    time.Time
}

// NewPacer creates a pacer with the given frame budget
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		now:      time.Now,
	}
}

// Begin marks the start of a frame
func (p *Pacer) Begin() {
	p.start = p.now()
}

// Wait sleeps for whatever is left of the frame budget
func (p *Pacer) Wait(ctx context.Context) error {
	return Sleep(ctx, p.Remaining())
}

// Remaining returns the unused part of the current frame budget, or zero
func (p *Pacer) Remaining() time.Duration {
	return max(p.interval-p.now().Sub(p.start), 0)
}

// Interval returns the frame budget
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
