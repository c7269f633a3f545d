package engine

import "sync/atomic"

// Clock is the monotonic logical clock for op ordering.
//
// All op records are stamped with a strictly increasing seq number from this
// clock. This ensures deterministic ordering (no wall-clock involvement) and
// that replay produces an identical order.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// although execution is single-threaded and only one goroutine calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
// The first call to Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
