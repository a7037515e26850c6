package clock

import "time"

// Clock abstracts time.Now() so "today" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// Real implements Clock with the standard time package, in a fixed location.
type Real struct {
	Location *time.Location
}

// Now returns the current time in the configured location.
func (c Real) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
