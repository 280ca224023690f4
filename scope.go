package pulse

import "fmt"

// Timing stats default to a range of 10s in ms, or 10ms in us.
const defaultTimingHigh = 10000

// Scope is an immutable label and prefix context bound to a registry.
// Deriving a labeled or prefixed Scope never mutates the receiver, so a
// Scope may be shared freely across goroutines. A Scope is the factory
// for metric handles and for the Keys used by the pipeline Recorder.
type Scope struct {
	reg    *registry
	prefix []string
	labels []Label
}

// Labeled returns a Scope with the label set to value, overwriting any
// prior value for that label name.
func (s Scope) Labeled(name, value string) Scope {
	labels := make([]Label, 0, len(s.labels)+1)
	inserted := false
	for _, l := range s.labels {
		switch {
		case l.Name == name:
			labels = append(labels, Label{name, value})
			inserted = true
		case l.Name > name && !inserted:
			labels = append(labels, Label{name, value}, l)
			inserted = true
		default:
			labels = append(labels, l)
		}
	}
	if !inserted {
		labels = append(labels, Label{name, value})
	}
	return Scope{reg: s.reg, prefix: s.prefix, labels: labels}
}

// Prefixed returns a Scope whose prefix path is the receiver's path
// with segment appended. Prefix segments are joined with colons in the
// exposed metric name.
func (s Scope) Prefixed(segment string) Scope {
	prefix := make([]string, 0, len(s.prefix)+1)
	prefix = append(prefix, s.prefix...)
	prefix = append(prefix, segment)
	return Scope{reg: s.reg, prefix: prefix, labels: s.labels}
}

// CounterKey builds the Key a counter named name would have under this
// Scope, without touching the registry.
func (s Scope) CounterKey(name string) Key {
	return newKey(name, s.prefix, s.labels)
}

// GaugeKey builds the Key a gauge named name would have under this
// Scope, without touching the registry.
func (s Scope) GaugeKey(name string) Key {
	return newKey(name, s.prefix, s.labels)
}

// StatKey builds the StatKey a stat named name would have under this
// Scope, with the default auto-expanding bounds.
func (s Scope) StatKey(name string) StatKey {
	return s.StatKeyWithBounds(name, 1, 2)
}

// StatKeyWithBounds is StatKey with explicit histogram bounds.
// It panics if low < 1 or high < 2*low.
func (s Scope) StatKeyWithBounds(name string, low, high uint64) StatKey {
	validateBounds(low, high)
	return StatKey{Key: newKey(name, s.prefix, s.labels), Low: low, High: high}
}

// Counter returns a Counter handle for name under this Scope, creating
// the backing cell on first use.
func (s Scope) Counter(name string) Counter {
	return s.reg.counter(s.CounterKey(name))
}

// Gauge returns a Gauge handle for name under this Scope, creating the
// backing cell on first use.
func (s Scope) Gauge(name string) Gauge {
	return s.reg.gauge(s.GaugeKey(name))
}

// Stat returns a Stat handle for name under this Scope with the
// default bounds. The histogram range expands as out-of-range values
// are recorded.
func (s Scope) Stat(name string) Stat {
	return s.reg.stat(s.StatKey(name))
}

// StatWithBounds is Stat with an explicit expected value range, which
// avoids reallocation when the range of recorded values is known up
// front. It panics if low < 1 or high < 2*low. If the cell already
// exists, its original bounds are kept.
func (s Scope) StatWithBounds(name string, low, high uint64) Stat {
	return s.reg.stat(s.StatKeyWithBounds(name, low, high))
}

// TimingMillis returns a Stat sized for latencies recorded in
// milliseconds.
func (s Scope) TimingMillis(name string) Stat {
	return s.StatWithBounds(name, 1, defaultTimingHigh)
}

// TimingMicros returns a Stat sized for latencies recorded in
// microseconds.
func (s Scope) TimingMicros(name string) Stat {
	return s.StatWithBounds(name, 1, defaultTimingHigh)
}

func validateBounds(low, high uint64) {
	if low < 1 || high < 2*low {
		panic(fmt.Sprintf("invalid stat bounds [%d, %d]: need low >= 1 and high >= 2*low", low, high))
	}
}
