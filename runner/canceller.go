// Package runner drives module execution: the per-module pipeline, the
// run orchestrator and the cooperative cancellation coordinator.
package runner

import "sync/atomic"

const (
	stateRunning int32 = iota
	stateCancelRequested
	stateTerminating
)

// Canceller coordinates cooperative cancellation of a run. State only moves
// forward: running, then cancel requested, then terminating. It is set by
// the interrupt handler and by the stop-on-fail policy and read by every
// pipeline between steps.
type Canceller struct {
	state atomic.Int32
	user  atomic.Bool
}

// NewCanceller creates a coordinator in the running state.
func NewCanceller() *Canceller {
	return &Canceller{}
}

// Request asks for cancellation. The first call moves to cancel-requested
// and returns true, meaning callers should wind down gracefully. A second
// call while cancellation is pending moves to terminating and returns
// false, meaning the caller may terminate the process immediately.
func (c *Canceller) Request() bool {
	if c.state.CompareAndSwap(stateRunning, stateCancelRequested) {
		return true
	}
	c.state.CompareAndSwap(stateCancelRequested, stateTerminating)
	return false
}

// Interrupt records a user-initiated cancellation request, e.g. from the
// interrupt signal handler. The return value follows Request.
func (c *Canceller) Interrupt() bool {
	c.user.Store(true)
	return c.Request()
}

// Cancelled reports whether cancellation has been requested.
func (c *Canceller) Cancelled() bool {
	return c.state.Load() != stateRunning
}

// UserInterrupted reports whether cancellation came from the user rather
// than from the stop-on-fail policy. It selects the cancelled exit code.
func (c *Canceller) UserInterrupted() bool {
	return c.user.Load()
}
