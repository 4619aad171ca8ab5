// Package engine defines the contract between the orchestration core and
// the discovery/execution engine for a module. The engine is a black box:
// the core never interprets test semantics, it only drives Find and
// RunTests and waits on their one-shot completion signals.
package engine

import (
	"go.uber.org/zap"

	"github.com/james-s-tayler/xunit/types"
)

// Engine discovers and executes the test cases of one module. Find and
// RunTests run on the engine's own schedule; each signals completion
// exactly once through the supplied sink.
type Engine interface {
	// ModuleID returns the identity of the module this engine was built for.
	ModuleID() string

	// Find discovers test cases and reports each through the sink. The
	// engine must call the sink's Done exactly once when discovery is
	// complete, even on failure. A false return from OnDiscovered tells the
	// engine to stop producing further cases.
	Find(includeSource bool, sink DiscoverySink, opts types.DiscoveryOptions) error

	// RunTests executes the given cases, streaming lifecycle messages into
	// the sink. On a nil return the engine has emitted exactly one
	// ExecutionFinished message, even when zero cases ran to completion. On
	// a non-nil return it must not emit ExecutionFinished: the run is a hard
	// failure and produces no summary.
	RunTests(cases []types.TestCase, sink ExecutionSink, opts types.ExecutionOptions) error

	// Serialize encodes a test case into a self-contained blob.
	Serialize(tc types.TestCase) ([]byte, error)

	// Deserialize decodes a blob produced by Serialize. The round-tripped
	// case must behave identically when executed.
	Deserialize(data []byte) (types.TestCase, error)
}

// DiscoverySink receives discovered test cases. Done is the engine-side
// completion signal; Finished is the waiter-side view of it.
type DiscoverySink interface {
	// OnDiscovered reports one discovered case. Returning false asks the
	// engine to stop discovering.
	OnDiscovered(tc types.TestCase) bool

	// Done signals that discovery has finished. It must be called exactly
	// once; later calls are ignored.
	Done()

	// Finished is closed once Done has been called.
	Finished() <-chan struct{}
}

// ExecutionSink receives lifecycle messages during execution. Finished is
// closed once the sink has fully processed the ExecutionFinished message;
// callers wait on it to know all outcomes are recorded.
type ExecutionSink interface {
	OnMessage(msg types.Message) bool
	Finished() <-chan struct{}
}

// Factory constructs an engine for a module. Construction may fail, which
// the pipeline surfaces as a hard failure for that module only.
type Factory func(module types.Module, log *zap.SugaredLogger) (Engine, error)
