package pulse

import "time"

// Stopwatch measures elapsed wall time for recording into a timing
// Stat:
//
//	sw := pulse.StartStopwatch()
//	handleRequest()
//	latency.Add(sw.ElapsedMillis())
type Stopwatch struct {
	start time.Time
}

// StartStopwatch returns a running Stopwatch.
func StartStopwatch() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// ElapsedMillis returns the elapsed time in whole milliseconds.
func (s Stopwatch) ElapsedMillis() uint64 {
	return durationMillis(time.Since(s.start))
}

// ElapsedMicros returns the elapsed time in whole microseconds.
func (s Stopwatch) ElapsedMicros() uint64 {
	return durationMicros(time.Since(s.start))
}

func durationMillis(d time.Duration) uint64 {
	if d < 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

func durationMicros(d time.Duration) uint64 {
	if d < 0 {
		return 0
	}
	return uint64(d / time.Microsecond)
}
