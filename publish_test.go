package pulse_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"

	"github.com/pulsemetrics/pulse"
)

func TestPublisherPublishesOnCadence(t *testing.T) {
	scope, reporter := pulse.New()
	scope.Counter("requests").Incr(5)

	mock := clock.NewMock()
	reports := make(chan *pulse.Report, 8)
	format := func(w io.Writer, r *pulse.Report) error {
		reports <- r
		return nil
	}
	p := pulse.NewPublisher(reporter, io.Discard, format, time.Second, pulse.WithClock(mock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	// Give Run a moment to register its ticker with the mock clock.
	time.Sleep(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		mock.Add(time.Second)
		select {
		case r := <-reports:
			if want, have := uint64(5), mustCounter(t, r, scope.CounterKey("requests")); want != have {
				t.Errorf("tick %d: want %d, have %d", i, want, have)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("no report published for tick %d", i)
		}
	}
}

func TestPublisherLogsFormatErrors(t *testing.T) {
	_, reporter := pulse.New()

	var buf bytes.Buffer
	mock := clock.NewMock()
	formatted := make(chan struct{}, 1)
	format := func(io.Writer, *pulse.Report) error {
		defer func() { formatted <- struct{}{} }()
		return errors.New("render broke")
	}
	p := pulse.NewPublisher(reporter, io.Discard, format, time.Second,
		pulse.WithClock(mock), pulse.WithPublisherLogger(log.NewLogfmtLogger(&buf)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	mock.Add(time.Second)

	select {
	case <-formatted:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher never ticked")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher did not stop")
	}

	if !strings.Contains(buf.String(), "failed to publish report") {
		t.Errorf("expected a publish failure log line, have %q", buf.String())
	}
}
