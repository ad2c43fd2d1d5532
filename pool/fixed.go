package pool

import (
	"runtime"
	"sync"
	"time"

	"github.com/ygrebnov/corobridge/metrics"
)

// fixedPool is the default pool: exactly n long-lived goroutines
// consuming one shared buffered channel of Submissions, so submissions
// begin executing in FIFO order of Submit.
type fixedPool struct {
	n      int
	queue  chan Submission
	poster Poster

	queueDepth metrics.UpDownCounter
	active     metrics.UpDownCounter
	completed  metrics.Counter
	runSeconds metrics.Histogram

	stopOnce sync.Once
	stopped  chan struct{}
	wg       sync.WaitGroup
}

// Fixed constructs a fixed-size Pool. n <= 0 defaults to
// runtime.GOMAXPROCS(0).
func Fixed(n int, poster Poster, provider metrics.Provider) Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if provider == nil {
		provider = metrics.NewNoopProvider()
	}

	p := &fixedPool{
		n: n,
		// Sized generously so Submit stays non-blocking from the loop
		// goroutine under any realistic backlog.
		queue:   make(chan Submission, max(n*4, 1024)),
		poster:  poster,
		stopped: make(chan struct{}),

		queueDepth: provider.UpDownCounter("corobridge_pool_queue_depth", metrics.WithDescription("submissions waiting in the pool queue")),
		active:     provider.UpDownCounter("corobridge_pool_active_workers", metrics.WithDescription("worker goroutines currently executing a submission")),
		completed:  provider.Counter("corobridge_pool_submissions_completed", metrics.WithDescription("submissions whose outcome was posted")),
		runSeconds: provider.Histogram("corobridge_pool_run_seconds", metrics.WithDescription("wall time spent executing one submission's callable"), metrics.WithUnit("seconds")),
	}

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *fixedPool) Size() int { return p.n }

func (p *fixedPool) Submit(s Submission) {
	select {
	case <-p.stopped:
		// Stopped; drop without running, matching the "discard queued
		// submissions" shutdown contract.
		return
	default:
	}
	p.queueDepth.Add(1)
	select {
	case p.queue <- s:
	case <-p.stopped:
		p.queueDepth.Add(-1)
	}
}

func (p *fixedPool) worker() {
	defer p.wg.Done()
	for {
		// Checked before each dequeue so a stopped pool never picks up
		// queued work, even when both channels are ready.
		select {
		case <-p.stopped:
			return
		default:
		}
		select {
		case s := <-p.queue:
			p.queueDepth.Add(-1)
			p.active.Add(1)
			started := time.Now()
			outcome := run(s)
			p.runSeconds.Record(time.Since(started).Seconds())
			p.active.Add(-1)
			p.completed.Add(1)
			p.poster.Post(s.ID, outcome)
		case <-p.stopped:
			return
		}
	}
}

// Stop stops the pool: in-flight workers finish their current submission
// and post its outcome, anything still queued is discarded. Blocks until
// every worker has exited, so no Post happens after Stop returns.
func (p *fixedPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopped)
	})
	p.wg.Wait()
}

func run(s Submission) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Err: panicError(r)}
		}
	}()
	v, err := s.Fn()
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Value: v}
}
