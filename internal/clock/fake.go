package clock

import (
	"context"
	"time"
)

// Fake is a manually driven clock. Sleep advances it instantly.
// Not safe for concurrent use.
type Fake struct {
	now time.Time

	// Slept records every Sleep duration, in order.
	Slept []time.Duration

	// AfterSleep, if set, is called with the new time after every Sleep.
	// Tests use it to change inputs or cancel the context at a given time.
	AfterSleep func(now time.Time)
}

// NewFake creates a Fake starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake time.
func (f *Fake) Now() time.Time {
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// Sleep advances the clock by d unless ctx is already done.
func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Slept = append(f.Slept, d)
	f.Advance(d)
	if f.AfterSleep != nil {
		f.AfterSleep(f.now)
	}
	return ctx.Err()
}

// Total returns the sum of all recorded sleeps.
func (f *Fake) Total() time.Duration {
	var total time.Duration
	for _, d := range f.Slept {
		total += d
	}
	return total
}
