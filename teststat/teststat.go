// Package teststat contains helper functions for testing pulse metric
// handles against reported values.
package teststat

import (
	"fmt"

	"github.com/pulsemetrics/pulse"
)

// TestCounter puts a counter handle through a sequence of increments
// and checks the reported total after each one. value should read the
// counter's current total, typically through Reporter.Peek.
func TestCounter(c pulse.Counter, value func() uint64) error {
	var want uint64
	for _, delta := range []uint64{1, 5, 0, 37, 1} {
		c.Incr(delta)
		want += delta
		if have := value(); want != have {
			return fmt.Errorf("after Incr(%d): want %d, have %d", delta, want, have)
		}
	}
	return nil
}

// TestGauge puts a gauge handle through set, increment, and saturating
// decrement, checking the reported value after each step.
func TestGauge(g pulse.Gauge, value func() uint64) error {
	steps := []struct {
		op   func()
		want uint64
	}{
		{func() { g.Set(42) }, 42},
		{func() { g.Incr(8) }, 50},
		{func() { g.Decr(20) }, 30},
		{func() { g.Set(5) }, 5},
		{func() { g.Decr(10) }, 0}, // saturates, never wraps
	}
	for i, step := range steps {
		step.op()
		if have := value(); step.want != have {
			return fmt.Errorf("step %d: want %d, have %d", i, step.want, have)
		}
	}
	return nil
}

// TestStat records a fixed set of values and checks the snapshot
// produced by snapshot against the known distribution.
func TestStat(s pulse.Stat, snapshot func() pulse.StatValue) error {
	s.Add(1)
	s.Add(2)
	s.Add(3)
	v := snapshot()
	if want, have := uint64(3), v.Count; want != have {
		return fmt.Errorf("count: want %d, have %d", want, have)
	}
	if want, have := uint64(6), v.Sum; want != have {
		return fmt.Errorf("sum: want %d, have %d", want, have)
	}
	if want, have := uint64(1), v.Min; want != have {
		return fmt.Errorf("min: want %d, have %d", want, have)
	}
	if want, have := uint64(3), v.Max; want != have {
		return fmt.Errorf("max: want %d, have %d", want, have)
	}
	if want, have := uint64(2), v.Quantile(0.5); want != have {
		return fmt.Errorf("p50: want %d, have %d", want, have)
	}
	return nil
}
