package pulse

import (
	"sync"

	"github.com/go-kit/log"
)

// Sample is an ephemeral batch of pending metric updates: counter
// deltas, gauge values, and stat observations keyed by the Keys they
// apply to. A Sample is accumulated by one Recorder and consumed
// exactly once by the Aggregator; it is handed over by move, never
// copied.
type Sample struct {
	counters map[Key]uint64
	gauges   map[Key]uint64
	stats    map[StatKey][]uint64
}

func newSample() *Sample {
	return &Sample{
		counters: map[Key]uint64{},
		gauges:   map[Key]uint64{},
		stats:    map[StatKey][]uint64{},
	}
}

func (s *Sample) empty() bool {
	return len(s.counters) == 0 && len(s.gauges) == 0 && len(s.stats) == 0
}

// sampleQueue is the unbounded multi-producer/single-consumer queue
// between Recorders and the Aggregator. push never blocks. The queue
// closes permanently when the last sender is dropped; it cannot be
// reopened.
type sampleQueue struct {
	mtx     sync.Mutex
	samples []*Sample
	senders int
	dead    bool

	wake chan struct{}
}

func newSampleQueue() *sampleQueue {
	return &sampleQueue{senders: 1, wake: make(chan struct{}, 1)}
}

func (q *sampleQueue) addSender() {
	q.mtx.Lock()
	if !q.dead {
		q.senders++
	}
	q.mtx.Unlock()
}

func (q *sampleQueue) dropSender() {
	q.mtx.Lock()
	if q.dead {
		q.mtx.Unlock()
		return
	}
	q.senders--
	closed := q.senders <= 0
	if closed {
		q.dead = true
	}
	q.mtx.Unlock()
	if closed {
		q.notify()
	}
}

func (q *sampleQueue) push(s *Sample) bool {
	q.mtx.Lock()
	if q.dead {
		q.mtx.Unlock()
		return false
	}
	q.samples = append(q.samples, s)
	q.mtx.Unlock()
	q.notify()
	return true
}

// pop removes the oldest sample, if any. open reports whether more
// samples may still arrive; once ok and open are both false the queue
// is finished.
func (q *sampleQueue) pop() (s *Sample, ok, open bool) {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	if len(q.samples) > 0 {
		s, q.samples = q.samples[0], q.samples[1:]
		return s, true, true
	}
	return nil, false, !q.dead
}

func (q *sampleQueue) wait() { <-q.wake }

func (q *sampleQueue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// RecorderFactory hands out Recorders bound to the pipeline's sample
// queue. The factory itself holds the queue open; the Aggregator only
// terminates after the factory and every Recorder it produced have
// been closed.
type RecorderFactory struct {
	q      *sampleQueue
	logger log.Logger

	mtx    sync.Mutex
	closed bool
}

// Recorder returns a fresh Recorder. Each Recorder is intended to be
// owned by a single goroutine.
func (f *RecorderFactory) Recorder() *Recorder {
	f.q.addSender()
	return &Recorder{q: f.q, logger: f.logger, sample: newSample()}
}

// Close drops the factory's hold on the queue. Close is idempotent.
func (f *RecorderFactory) Close() {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.q.dropSender()
}

// Recorder batches metric updates locally, with no shared-state
// contention during accumulation. Nothing reaches the Aggregator until
// Flush or Close. A Recorder is not safe for concurrent use.
type Recorder struct {
	q      *sampleQueue
	logger log.Logger
	sample *Sample
	closed bool
}

// Incr adds delta to the pending counter update for k.
func (r *Recorder) Incr(k Key, delta uint64) {
	r.sample.counters[k] += delta
}

// Set records the pending gauge value for k, overwriting any earlier
// value in this batch.
func (r *Recorder) Set(k Key, value uint64) {
	r.sample.gauges[k] = value
}

// Add appends a stat observation for k.
func (r *Recorder) Add(k StatKey, v uint64) {
	r.sample.stats[k] = append(r.sample.stats[k], v)
}

// AddValues appends stat observations for k.
func (r *Recorder) AddValues(k StatKey, vs ...uint64) {
	r.sample.stats[k] = append(r.sample.stats[k], vs...)
}

// Flush moves the accumulated Sample onto the queue and starts a fresh
// batch. If the queue has closed underneath the Recorder the batch is
// logged and discarded; recording never becomes an application-visible
// error.
func (r *Recorder) Flush() {
	s := r.sample
	r.sample = newSample()
	if s.empty() {
		return
	}
	if r.closed || !r.q.push(s) {
		r.logger.Log("msg", "dropping metrics sample",
			"counters", len(s.counters), "gauges", len(s.gauges), "stats", len(s.stats))
	}
}

// Close flushes any pending updates and drops the Recorder's hold on
// the queue. Close is idempotent; a closed Recorder discards further
// flushes.
func (r *Recorder) Close() {
	if r.closed {
		return
	}
	r.Flush()
	r.closed = true
	r.q.dropSender()
}
