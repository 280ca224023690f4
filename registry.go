package pulse

import (
	"sync"
	"sync/atomic"

	"github.com/go-kit/log"
)

// cell is the shared storage behind a Counter or Gauge handle: an
// atomic unsigned value plus a count of the live handles referencing
// it. A cell whose handle count reaches zero is evicted on the next
// Take; writes through a handle to an evicted cell are harmless no-ops
// as far as future reports are concerned.
type cell struct {
	refs  int64  // live handle count, atomic
	value uint64 // atomic
}

func (c *cell) retain()    { atomic.AddInt64(&c.refs, 1) }
func (c *cell) release()   { atomic.AddInt64(&c.refs, -1) }
func (c *cell) live() bool { return atomic.LoadInt64(&c.refs) > 0 }

// registry is the single shared store mapping Keys to cells. Map
// mutation only happens on first use of a Key, so one registry-wide
// mutex guards all three maps; the metric write paths never touch it.
// Each kind keeps its own insertion order so that exposition output is
// stable across snapshots.
type registry struct {
	mtx    sync.Mutex
	logger log.Logger

	counters     map[Key]*cell
	counterOrder []Key

	gauges     map[Key]*cell
	gaugeOrder []Key

	stats     map[Key]*statCell
	statOrder []Key
}

func newRegistry(logger log.Logger) *registry {
	return &registry{
		logger:   logger,
		counters: map[Key]*cell{},
		gauges:   map[Key]*cell{},
		stats:    map[Key]*statCell{},
	}
}

// counter resolves k to its cell, creating it if absent, and returns a
// handle holding one reference.
func (r *registry) counter(k Key) Counter {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	c, ok := r.counters[k]
	if !ok {
		c = &cell{}
		r.counters[k] = c
		r.counterOrder = append(r.counterOrder, k)
	}
	c.retain()
	return Counter{c: c}
}

// gauge resolves k to its cell, creating it if absent, and returns a
// handle holding one reference.
func (r *registry) gauge(k Key) Gauge {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	c, ok := r.gauges[k]
	if !ok {
		c = &cell{}
		r.gauges[k] = c
		r.gaugeOrder = append(r.gaugeOrder, k)
	}
	c.retain()
	return Gauge{c: c}
}

// stat resolves k to its cell, creating it with k's bounds if absent,
// and returns a handle holding one reference. An existing cell keeps
// the bounds it was created with.
func (r *registry) stat(k StatKey) Stat {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	c, ok := r.stats[k.Key]
	if !ok {
		c = newStatCell(k.Low, k.High, r.logger)
		r.stats[k.Key] = c
		r.statOrder = append(r.statOrder, k.Key)
	}
	c.retain()
	return Stat{c: c}
}

// evictIdle removes every cell no live handle references. Callers must
// hold r.mtx.
func (r *registry) evictIdle() {
	r.counterOrder = evictCells(r.counters, r.counterOrder, func(k Key) bool { return r.counters[k].live() })
	r.gaugeOrder = evictCells(r.gauges, r.gaugeOrder, func(k Key) bool { return r.gauges[k].live() })
	r.statOrder = evictStatCells(r.stats, r.statOrder)
}

func evictCells(m map[Key]*cell, order []Key, live func(Key) bool) []Key {
	kept := order[:0]
	for _, k := range order {
		if live(k) {
			kept = append(kept, k)
			continue
		}
		delete(m, k)
	}
	return kept
}

func evictStatCells(m map[Key]*statCell, order []Key) []Key {
	kept := order[:0]
	for _, k := range order {
		if m[k].live() {
			kept = append(kept, k)
			continue
		}
		delete(m, k)
	}
	return kept
}
