package corobridge

import (
	"github.com/ygrebnov/corobridge/internal/ids"
	"github.com/ygrebnov/corobridge/pool"
)

// completionEvent is what travels across the Completion Channel: "submission
// X completed with outcome Y".
type completionEvent struct {
	id      ids.ID
	outcome Outcome
}

// completionChannel is the Completion Channel: the one-directional,
// thread-safe delivery path from any worker goroutine to the loop
// goroutine. Post is a plain channel send, which is what makes it safe to
// call from any thread; the Runner's drain goroutine (started in New) is
// the one and only reader, and it re-posts each event onto the loop
// goroutine, keeping this the single boundary-crossing path between the
// two threading regimes.
//
// Delivery order on the reading side is the order of posts from a single
// worker, but posts from different workers may interleave arbitrarily;
// callers must not assume a causal order between submissions.
type completionChannel struct {
	events chan completionEvent
}

func newCompletionChannel(buffer int) *completionChannel {
	if buffer <= 0 {
		buffer = 1
	}
	return &completionChannel{events: make(chan completionEvent, buffer)}
}

// Post implements pool.Poster. Safe from any goroutine.
func (c *completionChannel) Post(id ids.ID, outcome pool.Outcome) {
	c.events <- completionEvent{id: id, outcome: Outcome{Value: outcome.Value, Err: outcome.Err}}
}
