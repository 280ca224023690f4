package pulse

import (
	"context"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"
)

// FormatFunc renders a Report to a writer. The prometheus subpackage
// provides the usual implementation.
type FormatFunc func(io.Writer, *Report) error

// Publisher drives the periodic reporting cadence: every interval it
// takes a snapshot and renders it to the configured writer.
type Publisher struct {
	reporter *Reporter
	w        io.Writer
	format   FormatFunc
	interval time.Duration
	clk      clock.Clock
	logger   log.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithClock substitutes the clock driving the publish interval. Tests
// use a mock clock to publish deterministically.
func WithClock(clk clock.Clock) PublisherOption {
	return func(p *Publisher) { p.clk = clk }
}

// WithPublisherLogger sets the logger for render and write failures.
func WithPublisherLogger(logger log.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

// NewPublisher returns a Publisher that renders a Take snapshot to w
// every interval.
func NewPublisher(reporter *Reporter, w io.Writer, format FormatFunc, interval time.Duration, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		reporter: reporter,
		w:        w,
		format:   format,
		interval: interval,
		clk:      clock.New(),
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run publishes until ctx is done. A failed render or write is logged
// and the cadence continues; a snapshot is consumed either way.
func (p *Publisher) Run(ctx context.Context) {
	ticker := p.clk.Ticker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.format(p.w, p.reporter.Take()); err != nil {
				p.logger.Log("msg", "failed to publish report", "err", err)
			}
		}
	}
}
