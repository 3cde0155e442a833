// Package clock provides the time source the simulation reads "now" from.
package clock

import "time"

// Clock abstracts time for deterministic tests and headless runs.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// Now returns the current time using the system clock.
func (Real) Now() time.Time {
	return time.Now()
}

// Fake is a manually advanced clock. It never moves backwards.
type Fake struct {
	now time.Time
}

// NewFake returns a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	return f.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (f *Fake) Advance(d time.Duration) {
	if d > 0 {
		f.now = f.now.Add(d)
	}
}

// Set jumps to t if it is not before the current time.
func (f *Fake) Set(t time.Time) {
	if t.After(f.now) {
		f.now = t
	}
}
