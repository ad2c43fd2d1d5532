package corobridge

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ygrebnov/corobridge/guihost"
	"github.com/ygrebnov/corobridge/internal/ids"
	"github.com/ygrebnov/corobridge/metrics"
	"github.com/ygrebnov/corobridge/pool"
)

// Runner is the user-facing facade: it holds the Worker Pool, submits
// work, tracks in-flight SuspendableTasks, wires completions back into
// their drivers, and enforces the hard shutdown policy. It implements
// Bridge.
type Runner struct {
	loop       guihost.Poster
	pool       pool.Pool
	completion *completionChannel

	mu              sync.Mutex
	liveTasks       map[ids.ID]*SuspendableTask
	submissionOwner map[ids.ID]*AwaitRequest
	inFlight        int

	shuttingDown atomic.Bool
	closeOnce    sync.Once
	stopDrain    chan struct{}
	eg           *errgroup.Group

	onUnhandledErr func(error)
	logger         *zerolog.Logger

	tasksStarted  metrics.Counter
	tasksFinished metrics.Counter
	tasksFailed   metrics.Counter
	shutdownDrops metrics.Counter
}

// New constructs a Runner wired to loop (the GUI framework's cross-thread
// post primitive; see package guihost for a Go-native stand-in). Panics on
// conflicting or invalid options.
func New(loop guihost.Poster, opts ...Option) *Runner {
	if loop == nil {
		panic("corobridge: New requires a non-nil guihost.Poster")
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			panic("corobridge: nil Option")
		}
		opt(&o)
	}
	if o.logger == nil {
		l := zerolog.Nop()
		o.logger = &l
	}

	completion := newCompletionChannel(o.completionBuf)

	var p pool.Pool
	switch o.poolKind {
	case poolCustom:
		p = o.customPool
	case poolUnbounded:
		p = pool.Unbounded(completion, o.metrics)
	default:
		p = pool.Fixed(o.maxThreads, completion, o.metrics)
	}

	r := &Runner{
		loop:            loop,
		pool:            p,
		completion:      completion,
		liveTasks:       make(map[ids.ID]*SuspendableTask),
		submissionOwner: make(map[ids.ID]*AwaitRequest),
		stopDrain:       make(chan struct{}),
		logger:          o.logger,
		tasksStarted:    o.metrics.Counter("corobridge_runner_tasks_started"),
		tasksFinished:   o.metrics.Counter("corobridge_runner_tasks_finished"),
		tasksFailed:     o.metrics.Counter("corobridge_runner_tasks_failed"),
		shutdownDrops:   o.metrics.Counter("corobridge_runner_shutdown_drops"),
	}
	if o.onUnhandledErr != nil {
		r.onUnhandledErr = o.onUnhandledErr
	} else {
		r.onUnhandledErr = r.defaultUnhandled
	}

	r.eg = new(errgroup.Group)
	r.eg.Go(func() error {
		for {
			select {
			case ev := <-completion.events:
				id, outcome := ev.id, ev.outcome
				r.loop.Post(func() { r.handleCompletion(id, outcome) })
			case <-r.stopDrain:
				return nil
			}
		}
	})

	return r
}

// Start implements Bridge. After Close the task is dropped without ever
// running: the shutdown flag is irreversible and no task may transition
// into the live table once it is set.
func (r *Runner) Start(fn func(*Ctx) (any, error)) {
	if r.shuttingDown.Load() {
		r.shutdownDrops.Add(1)
		r.logger.Debug().Msg("corobridge: start after close dropped")
		return
	}

	task := newSuspendableTask(true)

	r.mu.Lock()
	r.liveTasks[task.ID] = task
	r.mu.Unlock()
	r.tasksStarted.Add(1)
	r.logger.Debug().Stringer("task_id", task.ID).Msg("corobridge: root task started")

	result := task.driver.firstStep(task, fn)
	r.handleDriverResult(task, result)
}

// ToSync implements Bridge.
func (r *Runner) ToSync(fn func(*Ctx, ...any) (any, error)) func(args ...any) {
	return func(args ...any) {
		r.Start(func(ctx *Ctx) (any, error) {
			return fn(ctx, args...)
		})
	}
}

// IsIdle implements Bridge.
func (r *Runner) IsIdle() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.liveTasks) == 0 && r.inFlight == 0
}

// Close implements Bridge. Safe to call more than once; only the first
// call has any effect.
//
// Shutdown order matters: the pool is stopped first and Stop blocks
// until every executing submission has posted its outcome, so by the
// time the completion-drain goroutine is torn down no worker can be left
// blocked on a post nobody reads. Outcomes that were still in flight are
// delivered to handleCompletion on a later loop turn and dropped there
// under the shutdown flag.
func (r *Runner) Close() error {
	r.closeOnce.Do(func() {
		r.shuttingDown.Store(true)

		r.mu.Lock()
		dropped := len(r.liveTasks)
		r.liveTasks = make(map[ids.ID]*SuspendableTask)
		r.submissionOwner = make(map[ids.ID]*AwaitRequest)
		r.inFlight = 0
		r.mu.Unlock()

		r.pool.Stop()
		close(r.stopDrain)
		_ = r.eg.Wait()

		r.shutdownDrops.Add(int64(dropped))
		r.logger.Debug().Int("dropped_tasks", dropped).Msg("corobridge: closed")
	})
	return nil
}

// handleCompletion is the Runner's single handler on the Completion
// Channel, always invoked on the loop goroutine (posted there by the
// drain goroutine started in New). It drops the event if shutting down,
// finds the owning AwaitRequest, buffers the Outcome, and pumps it to the
// task if the task is (or becomes) ready for it.
func (r *Runner) handleCompletion(id ids.ID, outcome Outcome) {
	r.mu.Lock()
	req, ok := r.submissionOwner[id]
	if ok {
		delete(r.submissionOwner, id)
		r.inFlight--
		if !r.shuttingDown.Load() {
			if outcome.isError() {
				outcome.Err = newSubmissionError(outcome.Err, id.String(), req.task.ID.String())
			}
			req.buffer(outcome)
		}
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	r.pump(req)
}

// pump delivers buffered outcomes to req's owning task for as long as the
// task is suspended on req and a buffered Outcome is available. It is
// called both right after every suspension on req (whether or not its
// Submissions were just submitted, since later elements of the same
// run_parallel may already be buffered) and on every completion event.
func (r *Runner) pump(req *AwaitRequest) {
	for {
		r.mu.Lock()
		if r.shuttingDown.Load() {
			r.mu.Unlock()
			return
		}
		task := req.task
		if task == nil || task.state != taskSuspended || task.waitingOn != req {
			r.mu.Unlock()
			return
		}
		outcome, ok := req.popPending()
		if !ok {
			r.mu.Unlock()
			return
		}
		task.state = taskRunning
		task.waitingOn = nil
		r.mu.Unlock()

		result := task.driver.advance(outcome)
		r.handleDriverResult(task, result)
	}
}

// handleDriverResult applies one of the three states a driver call can
// return: register a fresh suspension (submitting its Submissions to the
// pool the first time this AwaitRequest is seen), or finalize the task.
func (r *Runner) handleDriverResult(task *SuspendableTask, result driverResult) {
	switch result.kind {
	case driverFinished:
		r.finishTask(task, result.value, nil)
	case driverFailed:
		r.finishTask(task, nil, result.err)
	case driverYielded:
		req := result.req

		r.mu.Lock()
		task.state = taskSuspended
		task.waitingOn = req
		needsSubmit := !req.submitted
		if needsSubmit {
			req.submitted = true
			req.task = task
			for _, s := range req.subs {
				r.submissionOwner[s.ID] = req
			}
			r.inFlight += len(req.subs)
		}
		r.mu.Unlock()

		if needsSubmit {
			for _, s := range req.subs {
				r.pool.Submit(pool.Submission{ID: s.ID, Fn: s.Fn})
			}
		}
		r.pump(req)
	}
}

func (r *Runner) finishTask(task *SuspendableTask, value any, err error) {
	r.mu.Lock()
	task.state = taskFinished
	task.result = value
	task.resultErr = err
	delete(r.liveTasks, task.ID)
	r.mu.Unlock()

	if err == nil {
		r.tasksFinished.Add(1)
		return
	}
	r.tasksFailed.Add(1)
	if task.isRoot {
		r.onUnhandledErr(newRootTaskError(err, task.ID.String()))
	}
}

// defaultUnhandled is the default error sink: log at error level and
// re-raise the error into the GUI thread on the next loop turn, so it
// surfaces as an unhandled error there instead of being silently
// swallowed.
func (r *Runner) defaultUnhandled(err error) {
	r.logger.Error().Err(err).Msg("corobridge: unhandled root task error")
	r.loop.Post(func() { panic(err) })
}
