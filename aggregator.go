package pulse

import (
	"runtime"

	"github.com/go-kit/log"
)

// Aggregator is the single consumer of the pipeline's sample queue. It
// folds each Sample into the shared registry: counter deltas add,
// gauges are last-write-wins, and stat observations are recorded into
// the corresponding histogram.
//
// If the queue is continuously non-empty, draining it in a tight loop
// would starve every other goroutine scheduled on the same thread,
// including the periodic reporter. Run therefore merges at most
// batchSize samples per cycle and then explicitly yields the
// processor. This is a correctness requirement under sustained load,
// not an optimization.
type Aggregator struct {
	q         *sampleQueue
	reg       *registry
	batchSize int
	yield     func()
	logger    log.Logger

	// Resolved handles, cached so that merging does not take the
	// registry lock per sample. Counter handles are held for the life
	// of the run, keeping pipeline-fed totals alive across Take
	// eviction. Gauge and stat handles are released at the end of each
	// cycle: their cells are interval-relative, and pinning them would
	// keep stale label combinations in the registry forever.
	counters map[Key]Counter
	gauges   map[Key]Gauge
	stats    map[Key]Stat
}

func newAggregator(q *sampleQueue, reg *registry, batchSize int, logger log.Logger) *Aggregator {
	return &Aggregator{
		q:         q,
		reg:       reg,
		batchSize: batchSize,
		yield:     runtime.Gosched,
		logger:    logger,
		counters:  map[Key]Counter{},
		gauges:    map[Key]Gauge{},
		stats:     map[Key]Stat{},
	}
}

// Run merges samples until the producer side of the queue is fully
// closed and the queue is drained; that is the only way Run returns.
// It must not be invoked concurrently with itself.
func (a *Aggregator) Run() {
	for {
		for i := 0; i < a.batchSize; i++ {
			s, ok := a.next()
			if !ok {
				a.releaseTransient()
				a.logger.Log("msg", "aggregator finished", "counters", len(a.counters))
				return
			}
			a.merge(s)
		}
		a.releaseTransient()
		a.yield()
	}
}

// releaseTransient drops the cached gauge and stat handles so that
// Take may evict cells no producer references anymore. They are
// re-resolved on the next sample that names them.
func (a *Aggregator) releaseTransient() {
	for k, h := range a.gauges {
		h.Release()
		delete(a.gauges, k)
	}
	for k, h := range a.stats {
		h.Release()
		delete(a.stats, k)
	}
}

// next blocks until a sample is available or the queue is finished.
func (a *Aggregator) next() (*Sample, bool) {
	for {
		s, ok, open := a.q.pop()
		if ok {
			return s, true
		}
		if !open {
			return nil, false
		}
		a.q.wait()
	}
}

func (a *Aggregator) merge(s *Sample) {
	for k, delta := range s.counters {
		a.counter(k).Incr(delta)
	}
	for k, value := range s.gauges {
		a.gauge(k).Set(value)
	}
	for k, vs := range s.stats {
		a.stat(k).AddValues(vs...)
	}
}

func (a *Aggregator) counter(k Key) Counter {
	if h, ok := a.counters[k]; ok {
		return h
	}
	h := a.reg.counter(k)
	a.counters[k] = h
	return h
}

func (a *Aggregator) gauge(k Key) Gauge {
	if h, ok := a.gauges[k]; ok {
		return h
	}
	h := a.reg.gauge(k)
	a.gauges[k] = h
	return h
}

func (a *Aggregator) stat(k StatKey) Stat {
	if h, ok := a.stats[k.Key]; ok {
		return h
	}
	h := a.reg.stat(k)
	a.stats[k.Key] = h
	return h
}
