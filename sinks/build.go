package sinks

import (
	"time"

	"go.uber.org/zap"

	"github.com/james-s-tayler/xunit/engine"
	"github.com/james-s-tayler/xunit/registry"
	"github.com/james-s-tayler/xunit/reporting"
	"github.com/james-s-tayler/xunit/types"
)

// Sink is the chain-internal contract. Halt tears the chain down without an
// ExecutionFinished message: completion channels close, background work
// stops and no summary is registered. It is the escape hatch for the
// execution error path, where the finished message never arrives.
type Sink interface {
	engine.ExecutionSink
	Halt()
}

// Options selects which decorators the chain gets for one module.
type Options struct {
	// LongRunning enables the watchdog when positive.
	LongRunning time.Duration
	// FailSkips rewrites skipped tests into failures.
	FailSkips bool
}

// Build assembles the execution sink chain for one module, innermost out:
// base, then report recording (when fragment is non-nil), then the
// long-running watchdog, then fail-on-skip. The returned sink is the
// outermost link; its Finished channel closes only after every inner
// sink has finished.
func Build(module string, opts Options, observer types.Observer, completions *registry.Completions, fragment *reporting.Fragment, log *zap.SugaredLogger) Sink {
	var sink Sink = NewBase(module, observer, completions)

	if fragment != nil {
		sink = NewReportSink(sink, fragment)
	}
	if opts.LongRunning > 0 {
		sink = NewWatchdog(sink, module, opts.LongRunning, log)
	}
	if opts.FailSkips {
		sink = NewFailSkips(sink)
	}
	return sink
}
