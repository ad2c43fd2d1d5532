package corobridge

import (
	"github.com/rs/zerolog"

	"github.com/ygrebnov/corobridge/metrics"
	"github.com/ygrebnov/corobridge/pool"
)

// Option configures a Runner. Construct one with New(opts...).
type Option func(*options)

type poolKind int

const (
	poolUnspecified poolKind = iota
	poolFixed
	poolUnbounded
	poolCustom
)

type options struct {
	maxThreads     int
	poolKind       poolKind
	customPool     pool.Pool
	onUnhandledErr func(error)
	metrics        metrics.Provider
	logger         *zerolog.Logger
	completionBuf  int
}

func defaultOptions() options {
	return options{
		maxThreads:    0, // resolved to runtime.GOMAXPROCS(0) by pool.Fixed
		poolKind:      poolUnspecified,
		metrics:       metrics.NewNoopProvider(),
		completionBuf: 256,
	}
}

// WithMaxThreads sets the fixed worker pool's size. Panics if n <= 0 or if
// a pool option was already selected via WithPool or WithUnboundedPool.
// Default: a host-appropriate positive
// integer (runtime.GOMAXPROCS(0)).
func WithMaxThreads(n int) Option {
	return func(o *options) {
		if o.poolKind != poolUnspecified && o.poolKind != poolFixed {
			panic("corobridge: conflicting pool options: WithMaxThreads and WithPool/WithUnboundedPool both specified")
		}
		if n <= 0 {
			panic("corobridge: WithMaxThreads requires n > 0")
		}
		o.poolKind = poolFixed
		o.maxThreads = n
	}
}

// WithUnboundedPool selects the unbounded pool (one goroutine per
// submission, no fixed worker count) instead of the default fixed pool.
func WithUnboundedPool() Option {
	return func(o *options) {
		if o.poolKind != poolUnspecified && o.poolKind != poolUnbounded {
			panic("corobridge: conflicting pool options: WithUnboundedPool and WithMaxThreads/WithPool both specified")
		}
		o.poolKind = poolUnbounded
	}
}

// WithPool injects a caller-constructed Pool, bypassing both the default
// fixed pool and WithMaxThreads/WithUnboundedPool.
func WithPool(p pool.Pool) Option {
	return func(o *options) {
		if p == nil {
			panic("corobridge: WithPool requires a non-nil pool.Pool")
		}
		if o.poolKind != poolUnspecified && o.poolKind != poolCustom {
			panic("corobridge: conflicting pool options: WithPool and WithMaxThreads/WithUnboundedPool both specified")
		}
		o.poolKind = poolCustom
		o.customPool = p
	}
}

// WithOnUnhandledError sets the error sink invoked with an error that
// escaped a root task. Default: log at error level and re-post the error
// onto the loop goroutine so it surfaces as an unhandled error there
// rather than being silently swallowed.
func WithOnUnhandledError(fn func(error)) Option {
	return func(o *options) {
		if fn == nil {
			panic("corobridge: WithOnUnhandledError requires a non-nil function")
		}
		o.onUnhandledErr = fn
	}
}

// WithMetrics injects a metrics.Provider used for pool and runner
// instrumentation. Default: metrics.NewNoopProvider().
func WithMetrics(p metrics.Provider) Option {
	return func(o *options) {
		if p == nil {
			panic("corobridge: WithMetrics requires a non-nil metrics.Provider")
		}
		o.metrics = p
	}
}

// WithLogger injects a *zerolog.Logger for lifecycle events (start, close,
// shutdown-drop, root-task-error). Default: a disabled logger, so the
// Runner is silent unless a logger is supplied, matching metrics'
// always-safe no-op default convention.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) {
		if l == nil {
			panic("corobridge: WithLogger requires a non-nil *zerolog.Logger")
		}
		o.logger = l
	}
}

// WithCompletionBuffer sets the Completion Channel's buffer size. Default:
// 256.
func WithCompletionBuffer(n int) Option {
	return func(o *options) {
		if n <= 0 {
			panic("corobridge: WithCompletionBuffer requires n > 0")
		}
		o.completionBuf = n
	}
}
