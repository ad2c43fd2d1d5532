package corobridge

// Outcome is the tagged result of running one Submission: either a value or
// an error, never both. Workers never re-throw an error that escapes a
// callable; they capture it here instead, preserving the error's original
// type and message so it can surface unchanged at the await point.
type Outcome struct {
	Value any
	Err   error
}

func valueOutcome(v any) Outcome     { return Outcome{Value: v} }
func errorOutcome(err error) Outcome { return Outcome{Err: err} }

func (o Outcome) isError() bool { return o.Err != nil }
