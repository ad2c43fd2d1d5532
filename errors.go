package corobridge

import (
	"errors"
	"fmt"

	"github.com/ygrebnov/corobridge/pool"
)

// Namespace prefixes every error message the bridge constructs itself.
const Namespace = "corobridge"

var (
	// ErrSubmissionPanicked wraps the recovered value of a panic that
	// escaped a user callable on a worker goroutine. It is the pool
	// package's sentinel re-exported under the bridge's namespace so
	// callers only ever import one package for errors.Is checks.
	ErrSubmissionPanicked = pool.ErrPanicked

	// ErrTaskPanicked wraps the recovered value of a panic that escaped a
	// suspendable function on its task goroutine.
	ErrTaskPanicked = errors.New(Namespace + ": suspendable function panicked")
)

// SubmissionMetaError exposes correlation metadata for a submission
// failure: the identifiers linking the error observed at an await point
// back to the Submission and SuspendableTask it came from.
type SubmissionMetaError interface {
	error
	Unwrap() error
	SubmissionID() (string, bool)
	TaskID() (string, bool)
}

// submissionTaggedError tags an error that escaped a user callable on a
// worker with the submission and task identifiers. Error() is transparent:
// it returns the original error's message unchanged, so the error
// reappears at the await point with the exact type (via errors.As) and
// message the callable raised.
type submissionTaggedError struct {
	err          error
	submissionID string
	taskID       string
}

func newSubmissionError(err error, submissionID, taskID string) error {
	if err == nil {
		return nil
	}
	return &submissionTaggedError{err: err, submissionID: submissionID, taskID: taskID}
}

func (e *submissionTaggedError) Error() string { return e.err.Error() }
func (e *submissionTaggedError) Unwrap() error { return e.err }

func (e *submissionTaggedError) SubmissionID() (string, bool) { return e.submissionID, true }
func (e *submissionTaggedError) TaskID() (string, bool)       { return e.taskID, true }

func (e *submissionTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "submission(id=%s,task=%s): %+v", e.submissionID, e.taskID, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// RootTaskError wraps an error that escaped a root suspendable function
// past its top. It is what reaches the configured error sink.
type RootTaskError struct {
	err    error
	taskID string
}

func newRootTaskError(err error, taskID string) error {
	if err == nil {
		return nil
	}
	return &RootTaskError{err: err, taskID: taskID}
}

func (e *RootTaskError) Error() string {
	return fmt.Sprintf("%s: root task %s failed: %s", Namespace, e.taskID, e.err.Error())
}

func (e *RootTaskError) Unwrap() error { return e.err }

// TaskID returns the identifier of the root task the error escaped from.
func (e *RootTaskError) TaskID() string { return e.taskID }

// ExtractSubmissionID returns the submission identifier from err if err
// (or anything it wraps) came off a worker.
func ExtractSubmissionID(err error) (string, bool) {
	var sme SubmissionMetaError
	if errors.As(err, &sme) {
		return sme.SubmissionID()
	}
	return "", false
}

// ExtractTaskID returns the task identifier from err if err (or anything
// it wraps) is correlated with a SuspendableTask.
func ExtractTaskID(err error) (string, bool) {
	var sme SubmissionMetaError
	if errors.As(err, &sme) {
		return sme.TaskID()
	}
	var rte *RootTaskError
	if errors.As(err, &rte) {
		return rte.TaskID(), true
	}
	return "", false
}
