package pulse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-kit/log"
)

func TestSampleQueueOrder(t *testing.T) {
	q := newSampleQueue()
	first, second := newSample(), newSample()
	q.push(first)
	q.push(second)

	s, ok, open := q.pop()
	if !ok || !open || s != first {
		t.Fatalf("pop: ok=%v open=%v", ok, open)
	}
	s, ok, _ = q.pop()
	if !ok || s != second {
		t.Fatal("expected second sample")
	}
	if _, ok, open := q.pop(); ok || !open {
		t.Fatalf("empty queue with live sender: ok=%v open=%v", ok, open)
	}
}

func TestSampleQueueCloses(t *testing.T) {
	q := newSampleQueue()
	q.push(newSample())
	q.dropSender()

	// Draining continues after close.
	if _, ok, _ := q.pop(); !ok {
		t.Fatal("expected queued sample after close")
	}
	if _, ok, open := q.pop(); ok || open {
		t.Fatalf("closed empty queue: ok=%v open=%v", ok, open)
	}
	// A dead queue refuses new work and new senders.
	if q.push(newSample()) {
		t.Error("push succeeded on dead queue")
	}
	q.addSender()
	if q.push(newSample()) {
		t.Error("dead queue was resurrected")
	}
}

func TestSampleQueueSenderCountStopsAtZero(t *testing.T) {
	q := newSampleQueue()
	q.dropSender()

	// Senders minted and dropped against a dead queue are no-ops: the
	// count stays at zero rather than going negative.
	q.addSender()
	q.dropSender()
	q.dropSender()
	if want, have := 0, q.senders; want != have {
		t.Errorf("want %d senders, have %d", want, have)
	}
	if !q.dead {
		t.Error("queue came back to life")
	}
}

func TestRecorderCloseAfterFactoryDead(t *testing.T) {
	_, factory, _, _ := NewPipeline()
	factory.Close()

	rec := factory.Recorder()
	rec.Close()
	rec.Close()
	if want, have := 0, rec.q.senders; want != have {
		t.Errorf("want %d senders, have %d", want, have)
	}
}

func TestRecorderBatchesLocally(t *testing.T) {
	scope, factory, _, _ := NewPipeline()
	rec := factory.Recorder()
	ck := scope.CounterKey("requests")
	rec.Incr(ck, 1)
	rec.Incr(ck, 2)
	rec.Set(scope.GaugeKey("queue_depth"), 9)
	rec.Add(scope.StatKey("latency_ms"), 5)

	// Nothing reaches the queue until a flush.
	if _, ok, _ := rec.q.pop(); ok {
		t.Fatal("sample leaked before flush")
	}

	rec.Flush()
	s, ok, _ := rec.q.pop()
	if !ok {
		t.Fatal("expected flushed sample")
	}
	if want, have := uint64(3), s.counters[ck]; want != have {
		t.Errorf("counter delta: want %d, have %d", want, have)
	}
	if want, have := 1, len(s.stats); want != have {
		t.Errorf("stat entries: want %d, have %d", want, have)
	}

	// The recorder starts a fresh batch after flushing.
	rec.Flush()
	if _, ok, _ := rec.q.pop(); ok {
		t.Error("empty flush should enqueue nothing")
	}
}

func TestRecorderCloseFlushes(t *testing.T) {
	scope, factory, _, _ := NewPipeline()
	rec := factory.Recorder()
	rec.Incr(scope.CounterKey("requests"), 7)
	rec.Close()

	s, ok, _ := rec.q.pop()
	if !ok {
		t.Fatal("expected sample flushed on close")
	}
	if want, have := uint64(7), s.counters[scope.CounterKey("requests")]; want != have {
		t.Errorf("want %d, have %d", want, have)
	}
}

func TestRecorderDropsAfterClose(t *testing.T) {
	var buf bytes.Buffer
	scope, factory, _, _ := NewPipeline(WithLogger(log.NewLogfmtLogger(&buf)))
	rec := factory.Recorder()
	rec.Close()
	rec.Close() // idempotent

	rec.Incr(scope.CounterKey("requests"), 1)
	rec.Flush()
	if _, ok, _ := rec.q.pop(); ok {
		t.Error("closed recorder leaked a sample")
	}
	if !strings.Contains(buf.String(), "dropping metrics sample") {
		t.Errorf("expected a drop diagnostic, have %q", buf.String())
	}
}
