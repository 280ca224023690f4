package pulse

import "github.com/codahale/hdrhistogram"

// CounterValue is one counter's cumulative total at snapshot time.
type CounterValue struct {
	Key   Key
	Value uint64
}

// GaugeValue is one gauge's value at snapshot time.
type GaugeValue struct {
	Key   Key
	Value uint64
}

// StatValue is one stat's distribution at snapshot time.
type StatValue struct {
	Key   Key
	Count uint64
	Sum   uint64
	Min   uint64
	Max   uint64

	hist *hdrhistogram.Histogram
}

// Quantile returns the recorded value at quantile q, 0 < q < 1.
func (v StatValue) Quantile(q float64) uint64 {
	if v.hist == nil || v.Count == 0 {
		return 0
	}
	val := v.hist.ValueAtQuantile(q * 100)
	if val < 0 {
		return 0
	}
	return uint64(val)
}

// Bucket is one cumulative histogram bucket: the number of recorded
// values less than or equal to UpperBound.
type Bucket struct {
	UpperBound uint64
	Count      uint64
}

// Buckets returns the nonzero cumulative buckets of the distribution,
// in increasing bound order. The implicit +Inf bucket equals Count.
func (v StatValue) Buckets() []Bucket {
	if v.hist == nil || v.Count == 0 {
		return nil
	}
	var (
		buckets    []Bucket
		cumulative uint64
	)
	for _, bar := range v.hist.Distribution() {
		if bar.Count == 0 {
			continue
		}
		cumulative += uint64(bar.Count)
		buckets = append(buckets, Bucket{UpperBound: uint64(bar.To), Count: cumulative})
	}
	return buckets
}

// Report is a point-in-time snapshot of registry state. Entries of
// each kind appear in first-use order, so repeated snapshots of the
// same registry enumerate metrics in a stable order.
type Report struct {
	counters []CounterValue
	gauges   []GaugeValue
	stats    []StatValue
}

// Counters returns the counter totals in first-use order.
func (r *Report) Counters() []CounterValue { return r.counters }

// Gauges returns the gauge values in first-use order.
func (r *Report) Gauges() []GaugeValue { return r.gauges }

// Stats returns the stat distributions in first-use order.
func (r *Report) Stats() []StatValue { return r.stats }

// Len returns the total number of metrics in the report.
func (r *Report) Len() int {
	return len(r.counters) + len(r.gauges) + len(r.stats)
}

// Empty reports whether the report contains no metrics.
func (r *Report) Empty() bool { return r.Len() == 0 }

func statValue(k Key, hist *hdrhistogram.Histogram, sum uint64) StatValue {
	v := StatValue{Key: k, Sum: sum, hist: hist, Count: uint64(hist.TotalCount())}
	if v.Count > 0 {
		v.Min = uint64(hist.Min())
		v.Max = uint64(hist.Max())
	}
	return v
}
