// Package ids mints identifiers for submissions, await-requests and tasks.
//
// xid.ID values are monotonic-ish and sortable by creation time, which is
// enough to trace a submission from enqueue to outcome in a log line or a
// metrics label without taking a lock for a counter.
package ids

import "github.com/rs/xid"

// ID identifies a Submission, AwaitRequest or SuspendableTask.
type ID = xid.ID

// New mints a fresh identifier.
func New() ID { return xid.New() }
