package pulse

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/codahale/hdrhistogram"
	"github.com/go-kit/log"
)

// All stat histograms record at four significant decimal digits.
const sigfigs = 4

// statCell backs a Stat handle: an HDR histogram plus an explicitly
// tracked sum, which the histogram itself does not provide. Histogram
// recording is not lock-free, so each cell carries its own short-lived
// mutex; contention only ever occurs between writers of the same Key.
type statCell struct {
	refs int64 // live handle count, atomic

	mtx  sync.Mutex
	hist *hdrhistogram.Histogram
	sum  uint64
	low  int64
	high int64

	logger log.Logger
}

func newStatCell(low, high uint64, logger log.Logger) *statCell {
	lo := clampInt64(low)
	hi := clampInt64(high)
	return &statCell{
		hist:   hdrhistogram.New(lo, hi, sigfigs),
		low:    lo,
		high:   hi,
		logger: logger,
	}
}

func (c *statCell) retain()    { atomic.AddInt64(&c.refs, 1) }
func (c *statCell) release()   { atomic.AddInt64(&c.refs, -1) }
func (c *statCell) live() bool { return atomic.LoadInt64(&c.refs) > 0 }

func (c *statCell) record(vs ...uint64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for _, v := range vs {
		if v > math.MaxInt64 {
			c.logger.Log("err", "dropping unrepresentable stat value", "value", v)
			continue
		}
		if err := c.hist.RecordValue(int64(v)); err != nil {
			c.expand(int64(v))
			if err := c.hist.RecordValue(int64(v)); err != nil {
				c.logger.Log("err", err, "value", v)
				continue
			}
		}
		c.sum = saturatingAdd(c.sum, v)
	}
}

// expand replaces the histogram with one wide enough to represent v,
// carrying over all recorded counts. Callers must hold c.mtx.
func (c *statCell) expand(v int64) {
	high := c.high
	for high < v {
		if high > math.MaxInt64/2 {
			high = math.MaxInt64
			break
		}
		high *= 2
	}
	wider := hdrhistogram.New(c.low, high, sigfigs)
	if dropped := wider.Merge(c.hist); dropped > 0 {
		c.logger.Log("msg", "dropped samples while expanding histogram", "dropped", dropped)
	}
	c.hist = wider
	c.high = high
}

// snapshot returns a deep copy of the histogram and the current sum
// without disturbing the cell.
func (c *statCell) snapshot() (*hdrhistogram.Histogram, uint64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return hdrhistogram.Import(c.hist.Export()), c.sum
}

// drain returns the accumulated histogram and sum, leaving the cell
// empty with its current bounds.
func (c *statCell) drain() (*hdrhistogram.Histogram, uint64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	hist, sum := c.hist, c.sum
	c.hist = hdrhistogram.New(c.low, c.high, sigfigs)
	c.sum = 0
	return hist, sum
}

// Stat is a value-distribution metric handle. Recorded values feed a
// bounded-precision histogram and a saturating sum; distributions are
// relative to the reporting interval and reset on Take.
type Stat struct {
	c *statCell
}

// Add records a single value. Values that cannot be represented at the
// configured precision are logged and dropped; instrumentation never
// propagates errors into application logic.
func (s Stat) Add(v uint64) {
	if s.c == nil {
		return
	}
	s.c.record(v)
}

// AddValues records each value in vs under one acquisition of the cell
// lock.
func (s Stat) AddValues(vs ...uint64) {
	if s.c == nil || len(vs) == 0 {
		return
	}
	s.c.record(vs...)
}

// Clone returns a handle to the same cell, holding its own reference
// for eviction accounting.
func (s Stat) Clone() Stat {
	if s.c != nil {
		s.c.retain()
	}
	return s
}

// Release drops this handle's reference.
func (s Stat) Release() {
	if s.c != nil {
		s.c.release()
	}
}

func saturatingAdd(a, b uint64) uint64 {
	if sum := a + b; sum >= a {
		return sum
	}
	return math.MaxUint64
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
