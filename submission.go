package corobridge

import (
	"fmt"

	"github.com/ygrebnov/corobridge/internal/ids"
)

// Submission is one unit of blocking work handed to the worker pool: a
// zero-argument callable plus the identifier workers use to address its
// Outcome back through the Completion Channel.
type Submission struct {
	ID ids.ID
	Fn func() (any, error)
}

func newSubmission(fn func() (any, error)) Submission {
	return Submission{ID: ids.New(), Fn: fn}
}

// run executes the callable and captures its outcome. A panic is recovered
// into an error rather than re-thrown: this is the synchronous twin of the
// worker pool's own recover, used by the sequential runner.
func (s Submission) run() (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = errorOutcome(fmt.Errorf("%w: %v", ErrSubmissionPanicked, r))
		}
	}()
	v, err := s.Fn()
	if err != nil {
		return errorOutcome(err)
	}
	return valueOutcome(v)
}
