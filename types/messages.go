package types

import "time"

// Message is the discriminated union of lifecycle messages flowing through
// the sink chain to observers. For a given module the ordering is:
// DiscoveryStarting, DiscoveryFinished, ExecutionStarting (if any tests
// matched), TestStarting/TestFinished interleavings, ExecutionFinished.
// Across modules no ordering is guaranteed.
type Message interface {
	isMessage()
}

// DiscoveryStarting announces that discovery is beginning for a module.
type DiscoveryStarting struct {
	Module string
}

// DiscoveryFinished carries discovery counts for a module. Matched is the
// count remaining after the filter predicate was applied.
type DiscoveryFinished struct {
	Module     string
	Discovered int
	Matched    int
}

// ExecutionStarting announces that execution is beginning for a module.
// It is never emitted for modules with zero matched test cases.
type ExecutionStarting struct {
	Module string
}

// TestStarting announces that a single test case has begun executing.
type TestStarting struct {
	Module string
	Test   string
}

// TestFinished carries the terminal outcome of a single test case.
type TestFinished struct {
	Module  string
	Test    string
	Outcome Outcome
	Elapsed time.Duration

	// Output holds captured test output, populated for failures and skips.
	Output string
	// Failure holds the failure detail when Outcome is OutcomeFail.
	Failure string
}

// ExecutionFinished carries the module's execution summary.
type ExecutionFinished struct {
	Module  string
	Summary Summary
}

// RunFinished is the single aggregate message emitted after all modules
// complete, iterating summaries in module-identity order.
type RunFinished struct {
	Elapsed   time.Duration
	Modules   []string
	Summaries map[string]Summary
}

// Diagnostic carries free-form diagnostic chatter, e.g. long-running test
// warnings from the watchdog sink.
type Diagnostic struct {
	Module string
	Text   string
}

func (DiscoveryStarting) isMessage() {}
func (DiscoveryFinished) isMessage() {}
func (ExecutionStarting) isMessage() {}
func (TestStarting) isMessage()      {}
func (TestFinished) isMessage()      {}
func (ExecutionFinished) isMessage() {}
func (RunFinished) isMessage()       {}
func (Diagnostic) isMessage()        {}

// Observer receives lifecycle messages. Returning false is a hint to stop
// producing further messages and is propagated upward as a cancellation
// request.
type Observer interface {
	OnMessage(msg Message) bool
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Message) bool

func (f ObserverFunc) OnMessage(msg Message) bool { return f(msg) }
