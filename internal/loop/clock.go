package loop

import (
	"sync"
	"time"
)

// Clock is a monotonically increasing microsecond counter. The world never
// reads wall-clock time directly.
type Clock interface {
	Micros() int64
}

// MonotonicClock counts microseconds since it was created.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock starts a clock at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Micros returns microseconds since creation.
func (c *MonotonicClock) Micros() int64 {
	return time.Since(c.start).Microseconds()
}

// ManualClock only moves when told to. Used for tests and replays.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

// NewManualClock creates a clock at the given time.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

// Micros returns the current time.
func (c *ManualClock) Micros() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d microseconds.
func (c *ManualClock) Advance(d int64) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Set moves the clock to t. Going backwards is not supported.
func (c *ManualClock) Set(t int64) {
	c.mu.Lock()
	if t > c.now {
		c.now = t
	}
	c.mu.Unlock()
}
