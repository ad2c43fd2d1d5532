package corobridge

import "fmt"

// driverResultKind is the narrow view the driver exposes: a task is
// always exactly one of yielded, finished or failed after
// advance/firstStep returns.
type driverResultKind int

const (
	driverYielded driverResultKind = iota
	driverFinished
	driverFailed
)

// driverResult is what advance/firstStep return: the narrow interface the
// rest of the core is written against, regardless of how the host language
// happens to express suspension.
type driverResult struct {
	kind  driverResultKind
	req   *AwaitRequest
	value any
	err   error
}

// yieldMsg is what the task goroutine sends the driver when it suspends or
// terminates.
type yieldMsg struct {
	kind  driverResultKind
	req   *AwaitRequest
	value any
	err   error
}

// resumeMsg is what the driver sends the task goroutine to resume it with
// the Outcome of the AwaitRequest it was suspended on.
type resumeMsg struct {
	outcome Outcome
}

// driver steps a single SuspendableTask's goroutine forward. It is the
// only piece that knows how a suspendable function expresses suspension
// in this realization: an ordinary goroutine parked on an unbuffered
// channel. Everything above this type is written against driverResult
// alone.
//
// advance sends on resume then blocks receiving on yield; the task
// goroutine is parked the entire time it is not between those two points,
// which is what gives the core its "never runs concurrently with itself"
// invariant: only one task goroutine is ever unparked at a time, because
// the loop goroutine does not call advance again until the previous call
// returns.
type driver struct {
	yield  chan yieldMsg
	resume chan resumeMsg
}

func newDriver() *driver {
	return &driver{
		yield:  make(chan yieldMsg),
		resume: make(chan resumeMsg),
	}
}

// suspendableFunc is a suspendable function realized as an ordinary Go
// function taking an await context.
type suspendableFunc func(*Ctx) (any, error)

// firstStep launches fn on its own goroutine and drives it to its first
// suspension or terminal state.
func (d *driver) firstStep(task *SuspendableTask, fn suspendableFunc) driverResult {
	go d.runTask(task, fn)
	return d.wait()
}

// advance resumes a suspended task with outcome, injected as the result of
// the await point it is parked on.
func (d *driver) advance(outcome Outcome) driverResult {
	d.resume <- resumeMsg{outcome: outcome}
	return d.wait()
}

func (d *driver) wait() driverResult {
	msg := <-d.yield
	return driverResult{kind: msg.kind, req: msg.req, value: msg.value, err: msg.err}
}

func (d *driver) runTask(task *SuspendableTask, fn suspendableFunc) {
	defer func() {
		if r := recover(); r != nil {
			d.yield <- yieldMsg{kind: driverFailed, err: fmt.Errorf("%w: %v", ErrTaskPanicked, r)}
		}
	}()

	ctx := &Ctx{d: d}
	v, err := fn(ctx)
	if err != nil {
		d.yield <- yieldMsg{kind: driverFailed, err: err}
		return
	}
	d.yield <- yieldMsg{kind: driverFinished, value: v}
}

// suspend is called from inside the task goroutine (user code, via Ctx) to
// pause at an await point. It hands req to the driver's owner and blocks
// until advance delivers the matching Outcome.
func (d *driver) suspend(req *AwaitRequest) Outcome {
	d.yield <- yieldMsg{kind: driverYielded, req: req}
	msg := <-d.resume
	return msg.outcome
}
