package ports

import "time"

// Clock is the protocol time source. Every time-boxed check re-reads it at
// the point of the dependent call instead of caching a timestamp.
type Clock interface {
	// Now returns the current protocol time as unix seconds.
	Now() int64
}

type wallClock struct{}

// NewWallClock returns a Clock backed by the system time.
func NewWallClock() Clock {
	return wallClock{}
}

func (wallClock) Now() int64 {
	return time.Now().Unix()
}
