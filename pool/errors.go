package pool

import (
	"errors"
	"fmt"
)

// ErrPanicked is the sentinel every panic recovered on a worker goroutine
// wraps: a submission's callable must never crash its worker, only fail
// that one submission's Outcome. The root package re-exports it as
// corobridge.ErrSubmissionPanicked.
var ErrPanicked = errors.New("corobridge: submission panicked")

func panicError(r any) error {
	return fmt.Errorf("%w: %v", ErrPanicked, r)
}
