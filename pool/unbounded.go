package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/corobridge/metrics"
)

// unboundedPool spawns one goroutine per Submission, with no queueing limit.
// It exists for workloads dominated by I/O wait, where a fixed worker cap
// would under-use available concurrency, and as a deliberately simpler
// second Pool implementation. Submissions start in no defined order.
type unboundedPool struct {
	poster     Poster
	active     metrics.UpDownCounter
	completed  metrics.Counter
	runSeconds metrics.Histogram

	stopped atomic.Bool
	wg      sync.WaitGroup
}

// Unbounded constructs a Pool with no fixed worker count.
func Unbounded(poster Poster, provider metrics.Provider) Pool {
	if provider == nil {
		provider = metrics.NewNoopProvider()
	}
	return &unboundedPool{
		poster:     poster,
		active:     provider.UpDownCounter("corobridge_pool_active_workers", metrics.WithAttributes(map[string]string{"pool": "unbounded"})),
		completed:  provider.Counter("corobridge_pool_submissions_completed", metrics.WithAttributes(map[string]string{"pool": "unbounded"})),
		runSeconds: provider.Histogram("corobridge_pool_run_seconds", metrics.WithUnit("seconds"), metrics.WithAttributes(map[string]string{"pool": "unbounded"})),
	}
}

func (p *unboundedPool) Size() int { return 0 }

func (p *unboundedPool) Submit(s Submission) {
	if p.stopped.Load() {
		return
	}
	p.wg.Add(1)
	p.active.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.active.Add(-1)
		started := time.Now()
		outcome := run(s)
		p.runSeconds.Record(time.Since(started).Seconds())
		p.completed.Add(1)
		p.poster.Post(s.ID, outcome)
	}()
}

// Stop prevents new submissions from starting and blocks until goroutines
// already running have finished and posted their outcome, so no Post
// happens after Stop returns.
func (p *unboundedPool) Stop() {
	p.stopped.Store(true)
	p.wg.Wait()
}
