package pulse

import "sync/atomic"

// Gauge is a point-in-time metric handle with last-write-wins
// semantics. Gauge values are relative to the reporting interval and
// reset on Take.
type Gauge struct {
	c *cell
}

// Set atomically replaces the gauge's value.
func (g Gauge) Set(value uint64) {
	if g.c == nil {
		return
	}
	atomic.StoreUint64(&g.c.value, value)
}

// Incr atomically adds delta to the gauge.
func (g Gauge) Incr(delta uint64) {
	if g.c == nil {
		return
	}
	atomic.AddUint64(&g.c.value, delta)
}

// Decr atomically subtracts delta from the gauge, saturating at zero.
func (g Gauge) Decr(delta uint64) {
	if g.c == nil {
		return
	}
	for {
		old := atomic.LoadUint64(&g.c.value)
		var next uint64
		if old > delta {
			next = old - delta
		}
		if atomic.CompareAndSwapUint64(&g.c.value, old, next) {
			return
		}
	}
}

// Clone returns a handle to the same cell, holding its own reference
// for eviction accounting.
func (g Gauge) Clone() Gauge {
	if g.c != nil {
		g.c.retain()
	}
	return g
}

// Release drops this handle's reference.
func (g Gauge) Release() {
	if g.c != nil {
		g.c.release()
	}
}
