// Package clock abstracts the time source used by the toast timers so the
// countdown logic can be driven deterministically in tests.
package clock

import "time"

// Timer is a scheduled one-shot callback.
type Timer interface {
	// Stop prevents the callback from running if it has not started yet. It
	// reports whether the call stopped the timer.
	Stop() bool
}

// Clock provides the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Real is the wall clock. time.Now carries a monotonic reading, so elapsed
// time computed from it is immune to wall clock adjustments.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
