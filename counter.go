package pulse

import "sync/atomic"

// Counter is a cumulative metric handle. Counters only go up, and
// their totals survive Take. Handles are cheap values; Clone shares
// the backing cell rather than allocating a new one.
type Counter struct {
	c *cell
}

// Incr atomically adds delta to the counter. It never blocks and never
// fails; a write against an evicted cell is silently dropped.
func (c Counter) Incr(delta uint64) {
	if c.c == nil {
		return
	}
	atomic.AddUint64(&c.c.value, delta)
}

// Clone returns a handle to the same cell, holding its own reference
// for eviction accounting.
func (c Counter) Clone() Counter {
	if c.c != nil {
		c.c.retain()
	}
	return c
}

// Release drops this handle's reference. Once no handle references the
// cell, the next Take evicts it. Using a released handle is safe: its
// writes are dropped.
func (c Counter) Release() {
	if c.c != nil {
		c.c.release()
	}
}
