// Package monitor records prediction outcomes and latencies.
package monitor

import (
	"math"
	"sync/atomic"
	"time"
)

// Counter is a thread-safe counter
type Counter struct {
	value atomic.Int64
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	c.value.Add(1)
}

// Get returns the current counter value
func (c *Counter) Get() int64 {
	return c.value.Load()
}

// Timer is a thread-safe accumulator of durations
type Timer struct {
	count atomic.Int64
	total atomic.Int64
	min   atomic.Int64
	max   atomic.Int64
}

// NewTimer creates an empty timer
func NewTimer() *Timer {
	t := &Timer{}
	t.min.Store(math.MaxInt64)
	return t
}

// Record records a duration measurement
func (t *Timer) Record(d time.Duration) {
	nanos := d.Nanoseconds()

	t.count.Add(1)
	t.total.Add(nanos)

	for {
		current := t.min.Load()
		if nanos >= current || t.min.CompareAndSwap(current, nanos) {
			break
		}
	}
	for {
		current := t.max.Load()
		if nanos <= current || t.max.CompareAndSwap(current, nanos) {
			break
		}
	}
}

// Count returns the number of recorded measurements
func (t *Timer) Count() int64 {
	return t.count.Load()
}

// Min returns the shortest recorded duration, or 0 before any record
func (t *Timer) Min() time.Duration {
	if v := t.min.Load(); v != math.MaxInt64 {
		return time.Duration(v)
	}
	return 0
}

// Max returns the longest recorded duration
func (t *Timer) Max() time.Duration {
	return time.Duration(t.max.Load())
}

// Avg returns the mean recorded duration
func (t *Timer) Avg() time.Duration {
	count := t.count.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(t.total.Load() / count)
}
