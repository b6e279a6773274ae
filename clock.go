package hcache

import "time"

// Clock is a monotonic nanosecond time source (spec §4.5). It never goes
// backward and is never affected by wall-clock adjustments.
type Clock interface {
	// Now returns the current reading in monotonic nanoseconds. Only the
	// differences between successive readings are meaningful; the absolute
	// value has no relation to wall-clock time.
	Now() int64
}

// monotonicClock measures elapsed time since a fixed reference instant
// captured at construction. time.Since reads the monotonic component
// embedded in time.Time (see the time package docs), so this is immune to
// NTP corrections and manual clock changes: a wall-clock step backward or
// forward can never make a live entry appear younger or an expired entry
// reappear (spec §6).
type monotonicClock struct {
	start time.Time
}

// NewClock returns the default production Clock.
func NewClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) Now() int64 {
	return int64(time.Since(c.start))
}
