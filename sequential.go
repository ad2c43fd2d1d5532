package corobridge

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/ygrebnov/corobridge/internal/ids"
	"github.com/ygrebnov/corobridge/metrics"
)

// SequentialRunner implements the same Bridge contract as Runner but
// ignores the Worker Pool and Completion Channel entirely: run invokes
// the callable synchronously in the current goroutine, and run_parallel
// invokes callables in submission order, delivering outcomes in that same
// order. It exists as a deterministic substitute for tests that want
// scheduling variance removed.
type SequentialRunner struct {
	mu        sync.Mutex
	liveTasks map[ids.ID]*SuspendableTask
	closed    bool

	onUnhandledErr func(error)
	logger         *zerolog.Logger

	tasksFinished metrics.Counter
	tasksFailed   metrics.Counter
}

// NewSequential constructs a SequentialRunner. Panics on a nil option,
// matching Runner's construction convention.
func NewSequential(opts ...Option) *SequentialRunner {
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

	r := &SequentialRunner{
		liveTasks:     make(map[ids.ID]*SuspendableTask),
		logger:        o.logger,
		tasksFinished: o.metrics.Counter("corobridge_sequential_tasks_finished"),
		tasksFailed:   o.metrics.Counter("corobridge_sequential_tasks_failed"),
	}
	if o.onUnhandledErr != nil {
		r.onUnhandledErr = o.onUnhandledErr
	} else {
		r.onUnhandledErr = r.defaultUnhandled
	}
	return r
}

// Start implements Bridge. After Close the task is dropped without ever
// running, mirroring Runner.
func (r *SequentialRunner) Start(fn func(*Ctx) (any, error)) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		r.logger.Debug().Msg("corobridge: start after close dropped")
		return
	}

	task := newSuspendableTask(true)

	r.mu.Lock()
	r.liveTasks[task.ID] = task
	r.mu.Unlock()

	result := task.driver.firstStep(task, fn)
	r.drive(task, result)
}

// ToSync implements Bridge.
func (r *SequentialRunner) ToSync(fn func(*Ctx, ...any) (any, error)) func(args ...any) {
	return func(args ...any) {
		r.Start(func(ctx *Ctx) (any, error) {
			return fn(ctx, args...)
		})
	}
}

// IsIdle implements Bridge. Since every await resolves synchronously
// within the call that suspended on it, this is only ever observed false
// while a Start/ToSync call is still on the stack.
func (r *SequentialRunner) IsIdle() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.liveTasks) == 0
}

// Close implements Bridge. There is no pool or completion channel to tear
// down; it only sets the closed flag so further Start calls are rejected
// as dropped, mirroring Runner's irreversible shutdown.
func (r *SequentialRunner) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// drive steps task to completion, resolving each AwaitRequest's
// Submissions synchronously and in submission order the first time the
// request is seen.
func (r *SequentialRunner) drive(task *SuspendableTask, result driverResult) {
	for {
		r.mu.Lock()
		closed := r.closed
		r.mu.Unlock()
		if closed {
			r.mu.Lock()
			delete(r.liveTasks, task.ID)
			r.mu.Unlock()
			return
		}

		switch result.kind {
		case driverFinished:
			r.finish(task, nil)
			return
		case driverFailed:
			r.finish(task, result.err)
			return
		case driverYielded:
			req := result.req
			if !req.submitted {
				req.submitted = true
				for _, s := range req.subs {
					outcome := s.run()
					if outcome.isError() {
						outcome.Err = newSubmissionError(outcome.Err, s.ID.String(), task.ID.String())
					}
					req.buffer(outcome)
				}
			}
			outcome, ok := req.popPending()
			if !ok {
				// Every submission already delivered; nothing further to
				// resolve, but the task suspended anyway (a logic error
				// in user code awaiting more elements than it submitted).
				return
			}
			result = task.driver.advance(outcome)
		}
	}
}

func (r *SequentialRunner) finish(task *SuspendableTask, err error) {
	r.mu.Lock()
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

// defaultUnhandled is the sequential default sink: with no event loop to
// re-post onto, re-raising in the caller's goroutine is the closest
// equivalent of surfacing an unhandled error on the GUI thread.
func (r *SequentialRunner) defaultUnhandled(err error) {
	r.logger.Error().Err(err).Msg("corobridge: unhandled root task error")
	panic(err)
}
