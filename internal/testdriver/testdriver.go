// Package testdriver drives a Bridge and its guihost.Loop from test code:
// the start_and_wait pattern of scheduling a root task, spinning the loop
// on the test goroutine until the bridge is quiescent, and failing with a
// dedicated error kind when it never is. The test goroutine plays the
// role of the GUI thread for the duration of a Wait call.
package testdriver

import (
	"errors"
	"time"

	"github.com/ygrebnov/corobridge"
	"github.com/ygrebnov/corobridge/guihost"
)

// ErrTimeout is returned when the bridge does not go idle within the
// deadline handed to StartAndWait or WaitIdle.
var ErrTimeout = errors.New("testdriver: timed out waiting for the bridge to go idle")

// DefaultTimeout bounds Wait calls that do not pass their own timeout.
const DefaultTimeout = 5 * time.Second

// Harness couples a Bridge with the Loop that owns it. Timeout, when
// non-zero, overrides DefaultTimeout for every Wait on this harness; a
// per-call timeout overrides both.
type Harness struct {
	Loop    *guihost.Loop
	Bridge  corobridge.Bridge
	Timeout time.Duration
}

// New constructs a Harness around bridge and loop.
func New(bridge corobridge.Bridge, loop *guihost.Loop) *Harness {
	return &Harness{Loop: loop, Bridge: bridge}
}

// StartAndWait schedules fn as a root task via the loop and drives the
// loop on the calling goroutine until the bridge is idle or the timeout
// elapses.
func (h *Harness) StartAndWait(fn func(*corobridge.Ctx) (any, error), timeout ...time.Duration) error {
	h.Loop.Post(func() { h.Bridge.Start(fn) })
	return h.WaitIdle(timeout...)
}

// WaitIdle drives the loop on the calling goroutine until the bridge
// reports idle. Returns ErrTimeout if the deadline elapses first.
func (h *Harness) WaitIdle(timeout ...time.Duration) error {
	d := h.Timeout
	if d <= 0 {
		d = DefaultTimeout
	}
	if len(timeout) > 0 {
		d = timeout[0]
	}
	if !h.Loop.RunUntil(h.Bridge.IsIdle, d) {
		return ErrTimeout
	}
	return nil
}

// Drain runs the loop on the calling goroutine for exactly d, processing
// whatever gets posted, with no idleness requirement. Useful for "let a
// little time pass mid-scenario" steps such as closing the bridge while a
// task is still suspended.
func (h *Harness) Drain(d time.Duration) {
	h.Loop.RunUntil(func() bool { return false }, d)
}
