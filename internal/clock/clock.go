package clock

import (
	"sync"
	"time"
)

// Clock hands out the logical timestamps stamped onto created_at, updated_at
// and version records. The registry only requires the values to be
// monotonically non-decreasing across the whole process.
type Clock interface {
	Now() time.Time
}

// Monotonic is a wall-clock source that never moves backwards, even if the
// system clock does. Assignment is serialized so concurrent operations observe
// non-decreasing timestamps.
type Monotonic struct {
	mu   sync.Mutex
	last time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{}
}

func (c *Monotonic) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(c.last) {
		now = c.last
	}
	c.last = now

	return now
}
