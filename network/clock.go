package network

import "time"

// Clock reports monotonic time in milliseconds.
type Clock interface {
	Now() float64
}

// MonotonicClock measures milliseconds since it was created. It relies on
// the monotonic reading carried by time.Time, so wall-clock jumps do not
// affect it.
type MonotonicClock struct {
	start time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

func (c *MonotonicClock) Now() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }
