package kernel

import "time"

// Clock returns the current instant. Tests inject fixed or stepping clocks.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// SteppingClock starts at start and advances by step on every call.
// It is not safe for concurrent use.
func SteppingClock(start time.Time, step time.Duration) Clock {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}
