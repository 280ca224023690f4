package pulse

import "sync/atomic"

// Reporter produces snapshots of the registry it is bound to. It is
// safe for concurrent use from any goroutine, though Take is normally
// driven by a single periodic publisher.
type Reporter struct {
	reg *registry
}

// Peek returns a read-only snapshot without disturbing any cell: no
// values are reset and no storage is reclaimed.
func (r *Reporter) Peek() *Report {
	reg := r.reg
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	report := &Report{}
	for _, k := range reg.counterOrder {
		report.counters = append(report.counters, CounterValue{Key: k, Value: atomic.LoadUint64(&reg.counters[k].value)})
	}
	for _, k := range reg.gaugeOrder {
		report.gauges = append(report.gauges, GaugeValue{Key: k, Value: atomic.LoadUint64(&reg.gauges[k].value)})
	}
	for _, k := range reg.statOrder {
		hist, sum := reg.stats[k].snapshot()
		report.stats = append(report.stats, statValue(k, hist, sum))
	}
	return report
}

// Take returns an owned snapshot suitable for exposition. Counters are
// copied but not reset: they are cumulative across the process
// lifetime, and every Take reports the running total. Gauges and stats
// are copied and then reset, since their values are relative to the
// reporting interval. After copying, any cell of any kind that no live
// handle references is evicted, bounding memory growth from label
// combinations that are no longer in use.
//
// The registry lock is held only for the copy, reset, and eviction;
// formatting the returned Report happens outside of it.
func (r *Reporter) Take() *Report {
	reg := r.reg
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	report := &Report{}
	for _, k := range reg.counterOrder {
		report.counters = append(report.counters, CounterValue{Key: k, Value: atomic.LoadUint64(&reg.counters[k].value)})
	}
	for _, k := range reg.gaugeOrder {
		report.gauges = append(report.gauges, GaugeValue{Key: k, Value: atomic.SwapUint64(&reg.gauges[k].value, 0)})
	}
	for _, k := range reg.statOrder {
		hist, sum := reg.stats[k].drain()
		report.stats = append(report.stats, statValue(k, hist, sum))
	}

	reg.evictIdle()
	return report
}
