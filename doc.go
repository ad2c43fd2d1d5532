// Package corobridge lets a single-goroutine GUI event loop offload
// blocking work to a worker pool while keeping event-handler code in a
// linear, top-to-bottom form. A handler is written as a suspendable
// function taking a *Ctx; it pauses at Ctx.Run/Ctx.RunParallel await
// points and resumes on the loop goroutine once the background result is
// ready, so all widget mutation stays single-threaded.
//
// Constructors
//   - New(loop, opts ...Option): the concurrent Runner, backed by a
//     fixed-size worker pool and a completion channel.
//   - NewSequential(opts ...Option): same Bridge contract, but every
//     submission runs synchronously in the caller's goroutine. Use it in
//     tests that want scheduling variance removed.
//
// Defaults
// Unless overridden, a newly constructed Runner uses:
//   - a fixed pool of runtime.GOMAXPROCS(0) workers
//   - a completion channel buffer of 256
//   - a disabled zerolog logger
//   - a no-op metrics provider
//   - an unhandled-error sink that logs and re-raises the error on the
//     loop goroutine at its next turn
//
// Shutdown
// Close is coarse and irreversible: it stops the pool (in-flight
// callables finish, queued ones are discarded) and drops every task still
// suspended, without resumption. Code after a dropped await point never
// runs. This is deliberate: resuming tasks after Close risks touching
// widgets that have been torn down.
//
// Idle
// IsIdle reports whether no tasks are live and no submissions are
// unresolved, which is what test code polls to know the runner is
// quiescent. The predicate is only reliable when slots are connected in
// direct/synchronous mode; with a queued-mode connection the slot body
// runs at a later loop turn, so IsIdle taken right after emitting a
// signal can observe a stale true. That is a documented limitation, not
// a bug.
package corobridge
