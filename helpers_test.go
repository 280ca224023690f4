package pulse_test

import (
	"testing"

	"github.com/pulsemetrics/pulse"
)

func findCounter(t *testing.T, r *pulse.Report, k pulse.Key) (uint64, bool) {
	t.Helper()
	for _, c := range r.Counters() {
		if c.Key == k {
			return c.Value, true
		}
	}
	return 0, false
}

func findGauge(t *testing.T, r *pulse.Report, k pulse.Key) (uint64, bool) {
	t.Helper()
	for _, g := range r.Gauges() {
		if g.Key == k {
			return g.Value, true
		}
	}
	return 0, false
}

func findStat(t *testing.T, r *pulse.Report, k pulse.Key) (pulse.StatValue, bool) {
	t.Helper()
	for _, s := range r.Stats() {
		if s.Key == k {
			return s, true
		}
	}
	return pulse.StatValue{}, false
}

func mustCounter(t *testing.T, r *pulse.Report, k pulse.Key) uint64 {
	t.Helper()
	v, ok := findCounter(t, r, k)
	if !ok {
		t.Fatalf("counter %v not in report", k)
	}
	return v
}

func mustGauge(t *testing.T, r *pulse.Report, k pulse.Key) uint64 {
	t.Helper()
	v, ok := findGauge(t, r, k)
	if !ok {
		t.Fatalf("gauge %v not in report", k)
	}
	return v
}

func mustStat(t *testing.T, r *pulse.Report, k pulse.Key) pulse.StatValue {
	t.Helper()
	v, ok := findStat(t, r, k)
	if !ok {
		t.Fatalf("stat %v not in report", k)
	}
	return v
}
