// Package pool implements the Worker Pool: a set of goroutines consuming
// one shared FIFO submission queue and executing plain blocking callables
// off the caller's goroutine.
package pool

import "github.com/ygrebnov/corobridge/internal/ids"

// Submission is the minimal shape the pool needs from a unit of work: an
// identifier for addressing its Outcome, and a zero-argument callable.
// The pool package does not depend on the root corobridge package's
// Submission/Outcome types directly to avoid an import cycle; it works
// against this narrow view instead.
type Submission struct {
	ID ids.ID
	Fn func() (any, error)
}

// Outcome is the tagged result the pool posts to a Poster after running a
// Submission's callable.
type Outcome struct {
	Value any
	Err   error
}

// Poster is the pool's only way to communicate results back to its owner.
// Post must be safe to call from any worker goroutine; it is the pool's
// half of the Completion Channel boundary (see the root package's
// completion.go for the GUI-thread-side half).
type Poster interface {
	Post(id ids.ID, outcome Outcome)
}

// Pool runs Submissions off the caller's goroutine and reports each
// Submission's Outcome to a Poster. Submit must be non-blocking and safe
// to call from the GUI goroutine.
type Pool interface {
	// Submit enqueues a Submission for execution. Non-blocking, thread-safe.
	Submit(Submission)

	// Stop stops the pool and blocks until submissions already executing
	// have finished and posted their outcomes; submissions still queued
	// are discarded without ever running or posting. After Stop returns
	// the pool makes no further Post calls, so its owner may safely tear
	// down the Poster. Safe to call more than once.
	Stop()

	// Size reports the pool's configured worker count (0 for an unbounded
	// pool, where a new goroutine is spawned per submission).
	Size() int
}
