package corobridge

// Bridge is the capability interface both Runner and SequentialRunner
// satisfy: a widget wires itself to whichever Bridge its call site is
// given and never has to care which one it got.
//
// run/run_parallel are deliberately not part of this surface: they only
// make sense from inside a running suspendable function, reached through
// the *Ctx a Bridge hands that function, never from outside one.
type Bridge interface {
	// Start schedules fn as a root task: fire-and-forget, no return value
	// the caller can await. An error that escapes fn is forwarded to the
	// configured error sink.
	Start(fn func(*Ctx) (any, error))

	// ToSync adapts fn into a plain callable suitable for direct
	// connection to a GUI-framework slot. Calling the returned function
	// builds a task by invoking fn(ctx, args...) and hands it to Start.
	ToSync(fn func(*Ctx, ...any) (any, error)) func(args ...any)

	// IsIdle reports whether the live-task table is empty and no
	// Submission is unresolved. Cheap and safe to poll from the GUI
	// thread.
	IsIdle() bool

	// Close sets the shutdown flag and discards, without resumption,
	// every task still suspended. Safe to call more than once.
	Close() error
}
