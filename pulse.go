package pulse

import "github.com/go-kit/log"

// DefaultBatchSize is the Aggregator's per-cycle merge cap when none
// is configured.
const DefaultBatchSize = 1000

type config struct {
	logger    log.Logger
	batchSize int
}

// Option configures New and NewPipeline.
type Option func(*config)

// WithLogger sets the logger used for recoverable internal errors,
// such as unrepresentable stat values and dropped samples. The default
// discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBatchSize sets the number of samples the Aggregator merges per
// cycle before yielding. Values below one are ignored.
func WithBatchSize(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.batchSize = n
		}
	}
}

func newConfig(opts []Option) config {
	c := config{logger: log.NewNopLogger(), batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// New creates a telemetry core and returns its root Scope (no labels,
// root prefix) and a Reporter bound to the same registry.
func New(opts ...Option) (Scope, *Reporter) {
	c := newConfig(opts)
	reg := newRegistry(c.logger)
	return Scope{reg: reg}, &Reporter{reg: reg}
}

// NewPipeline creates a telemetry core with the cooperative ingestion
// pipeline attached: producers batch updates through Recorders, and
// the returned Aggregator merges them into the registry. The caller is
// expected to start the Aggregator on its own goroutine:
//
//	scope, factory, agg, reporter := pulse.NewPipeline()
//	go agg.Run()
//
// The returned Scope writes to the same registry directly, so the two
// update paths may be mixed.
func NewPipeline(opts ...Option) (Scope, *RecorderFactory, *Aggregator, *Reporter) {
	c := newConfig(opts)
	reg := newRegistry(c.logger)
	q := newSampleQueue()
	factory := &RecorderFactory{q: q, logger: c.logger}
	agg := newAggregator(q, reg, c.batchSize, c.logger)
	return Scope{reg: reg}, factory, agg, &Reporter{reg: reg}
}
