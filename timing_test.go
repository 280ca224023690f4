package pulse

import (
	"testing"
	"time"
)

func TestDurationConversions(t *testing.T) {
	d := 54*time.Second + 321987600*time.Nanosecond
	if want, have := uint64(54321987), durationMicros(d); want != have {
		t.Errorf("micros: want %d, have %d", want, have)
	}
	if want, have := uint64(54321), durationMillis(d); want != have {
		t.Errorf("millis: want %d, have %d", want, have)
	}
	if want, have := uint64(0), durationMillis(-time.Second); want != have {
		t.Errorf("negative duration: want %d, have %d", want, have)
	}
}

func TestStopwatch(t *testing.T) {
	sw := StartStopwatch()
	time.Sleep(2 * time.Millisecond)
	if have := sw.ElapsedMicros(); have == 0 {
		t.Error("expected nonzero elapsed time")
	}
	if sw.ElapsedMicros() < sw.ElapsedMillis() {
		t.Error("micros must not be smaller than millis")
	}
}
