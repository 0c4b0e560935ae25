package host

import (
	"sync/atomic"
	"time"
)

// HeightClock is the monotonic logical height for call sequencing.
//
// Every mutating call is stamped with a strictly increasing height.
// Message ids derive from this height, so the clock is what makes id
// derivation deterministic: no wall-clock involvement, and a resumed
// host continues from where the last run stopped.
//
// Thread-safety: safe for concurrent use (atomic operations), though
// the host's single-caller discipline means only one goroutine
// normally calls Next().
type HeightClock struct {
	height atomic.Uint64
}

// NewHeightClock creates a clock starting at 0; the first call runs at
// height 1.
func NewHeightClock() *HeightClock {
	return &HeightClock{}
}

// NewHeightClockAt creates a clock resuming from a specific height.
// Used when reopening an existing store so new ids never collide with
// a restarted sequence.
func NewHeightClockAt(start uint64) *HeightClock {
	c := &HeightClock{}
	c.height.Store(start)
	return c
}

// Next advances the clock and returns the new height.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *HeightClock) Next() uint64 {
	return c.height.Add(1)
}

// Current returns the current height without advancing.
func (c *HeightClock) Current() uint64 {
	return c.height.Load()
}

// TimeSource supplies the wall time stamped into each call's Env.
// The core never reads the system clock directly; tests substitute a
// fixed source for reproducible timestamps.
type TimeSource func() time.Time

// SystemTime is the production time source.
func SystemTime() time.Time {
	return time.Now().UTC()
}

// FixedTime returns a source that always answers the given instant.
func FixedTime(t time.Time) TimeSource {
	return func() time.Time { return t }
}

// SteppedTime returns a source that starts at the given instant and
// advances by step on every reading. Deterministic, but distinct calls
// still see distinct timestamps.
func SteppedTime(start time.Time, step time.Duration) TimeSource {
	var n atomic.Int64
	return func() time.Time {
		i := n.Add(1) - 1
		return start.Add(time.Duration(i) * step)
	}
}
