package corobridge

import "github.com/ygrebnov/corobridge/internal/ids"

// taskState is the three-state machine a SuspendableTask moves through:
// running (executing on the loop goroutine), suspended (parked, waiting on
// an AwaitRequest) or finished. A task never executes any of its code on a
// worker goroutine: the only code that ever runs concurrently with the
// loop goroutine on a task's behalf is the callable inside a Submission.
type taskState int

const (
	taskRunning taskState = iota
	taskSuspended
	taskFinished
)

// SuspendableTask is the running suspendable function, its driver, and its
// current suspension (if any). It is created by Start or the to-sync
// adapter and destroyed once its terminal outcome is delivered, or dropped
// on shutdown.
type SuspendableTask struct {
	ID     ids.ID
	isRoot bool

	driver *driver
	state  taskState

	// waitingOn is the AwaitRequest this task is currently suspended on,
	// nil unless state == taskSuspended.
	waitingOn *AwaitRequest

	// result is set once state == taskFinished.
	result    any
	resultErr error
}

func newSuspendableTask(isRoot bool) *SuspendableTask {
	return &SuspendableTask{
		ID:     ids.New(),
		isRoot: isRoot,
		driver: newDriver(),
		state:  taskRunning,
	}
}
