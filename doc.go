// Package pulse provides an in-process telemetry core: a shared,
// concurrently-writable registry of counters, gauges, and value
// distributions, plus a reporting path that renders point-in-time
// snapshots without blocking writers. All metrics are safe for
// concurrent use. Considerable design influence has been taken from
// https://github.com/codahale/metrics and https://prometheus.io.
//
// Application code obtains metric handles from a Scope:
//
//	scope, reporter := pulse.New()
//	requests := scope.Labeled("service", "api").Counter("requests_total")
//	requests.Incr(1)
//
// A Reporter produces snapshots for exposition:
//
//	report := reporter.Take()
//	prometheus.Format(os.Stdout, report)
//
// When producers run on many goroutines and per-cell contention is
// undesirable, the pipeline variant batches updates locally and merges
// them on a single aggregation goroutine:
//
//	scope, factory, agg, reporter := pulse.NewPipeline()
//	go agg.Run()
package pulse
