package clock

import "time"

// Clock is the time source for stamp timestamps and session expiry.
// Injecting it keeps both testable.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
