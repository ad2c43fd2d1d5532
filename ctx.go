package corobridge

// Ctx is the await context a suspendable function receives. It is the
// handle through which user code reaches run/run_parallel; it is valid
// only while its task is running and must not be retained past the
// suspendable function's return.
type Ctx struct {
	d *driver
}

// ParallelResult is one element of the lazy sequence RunParallel produces.
// Done is true once every submitted callable's Outcome has been delivered;
// Value and Err are meaningless when Done is true.
type ParallelResult struct {
	Value any
	Err   error
	Done  bool
}

// RunParallel returns a closure that yields the Outcome of each fn in fns
// in completion order, not submission order, one element per call. The
// first call submits every fn to the bridge's worker pool at once; nothing
// is submitted before that call. Each call is itself an await
// point: the task goroutine parks until the Runner has an Outcome ready
// for it, or until shutdown drops the resumption.
//
// An empty fns completes immediately: the returned closure reports Done on
// its first call without ever suspending.
func (c *Ctx) RunParallel(fns []func() (any, error)) func() ParallelResult {
	subs := make([]Submission, len(fns))
	for i, fn := range fns {
		subs[i] = newSubmission(fn)
	}
	req := newAwaitRequest(subs)

	return func() ParallelResult {
		if req.exhausted() {
			return ParallelResult{Done: true}
		}
		outcome := c.d.suspend(req)
		if outcome.Err != nil {
			return ParallelResult{Err: outcome.Err}
		}
		return ParallelResult{Value: outcome.Value}
	}
}

// Run submits fn to the bridge's worker pool and awaits its single
// Outcome. It is observationally identical to a single-element
// RunParallel consumed as one, ignoring completion-order semantics (there
// being only one element to complete).
func (c *Ctx) Run(fn func() (any, error)) (any, error) {
	next := c.RunParallel([]func() (any, error){fn})
	r := next()
	return r.Value, r.Err
}
