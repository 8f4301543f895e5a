package biztime

import "time"

// Clock supplies the current instant. Domain logic receives "now" from a
// Clock instead of reading the system time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return NowUTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// NewFixedClock returns a clock frozen at at.
func NewFixedClock(at time.Time) FixedClock {
	return FixedClock{At: at.UTC()}
}
