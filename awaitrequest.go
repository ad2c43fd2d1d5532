package corobridge

import "github.com/ygrebnov/corobridge/internal/ids"

// AwaitRequest is the bookkeeping entity representing one suspension of a
// task, possibly spanning several Submissions: run_parallel submits all of
// them at once, then the task suspends once per element of the resulting
// lazy sequence. pending buffers outcomes that arrived from a worker
// before the task asked for the next element, since a later submission
// may finish while the task is still processing an earlier result. consumed
// counts elements already handed to the user; the sequence is exhausted
// once consumed equals the number of submissions.
type AwaitRequest struct {
	ID          ids.ID
	submissions []ids.ID
	subs        []Submission
	total       int
	consumed    int
	pending     []Outcome

	// task is the SuspendableTask suspended on this request, set by the
	// Runner when the request's Submissions are first submitted. Outcomes
	// are only ever pumped to it while it is still suspended here.
	task *SuspendableTask

	// submitted guards against resubmitting this request's Submissions:
	// a run_parallel call submits everything once, up front, even though
	// the task suspends on this same request once per element consumed.
	submitted bool
}

func newAwaitRequest(subs []Submission) *AwaitRequest {
	submissionIDs := make([]ids.ID, len(subs))
	for i, s := range subs {
		submissionIDs[i] = s.ID
	}
	return &AwaitRequest{
		ID:          ids.New(),
		submissions: submissionIDs,
		subs:        subs,
		total:       len(subs),
	}
}

// exhausted reports whether every submission's outcome has already been
// handed to the user.
func (r *AwaitRequest) exhausted() bool { return r.consumed >= r.total }

// buffer records an Outcome that arrived from a worker. Call popPending
// (or check it first) to hand it to a waiting consumer.
func (r *AwaitRequest) buffer(outcome Outcome) {
	r.pending = append(r.pending, outcome)
}

// popPending returns and removes the oldest buffered Outcome, marking it
// consumed, if any is available.
func (r *AwaitRequest) popPending() (Outcome, bool) {
	if len(r.pending) == 0 {
		return Outcome{}, false
	}
	o := r.pending[0]
	r.pending = r.pending[1:]
	r.consumed++
	return o, true
}
