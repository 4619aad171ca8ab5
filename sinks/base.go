// Package sinks implements the execution sink decoration chain. The base
// sink is innermost; optional decorators (report fragment, long-running
// watchdog, fail-on-skip) wrap it. Messages flow outermost-in, completion
// signals fire innermost-first.
package sinks

import (
	"sync"

	"github.com/james-s-tayler/xunit/registry"
	"github.com/james-s-tayler/xunit/types"
)

// Base is the innermost execution sink. It forwards every message to the
// shared observer, registers the module's summary on ExecutionFinished and
// then closes its completion channel. It is safe for concurrent OnMessage
// calls because decorators may inject diagnostics from their own
// goroutines.
type Base struct {
	module      string
	observer    types.Observer
	completions *registry.Completions

	mu       sync.Mutex
	stopped  bool
	finished chan struct{}
	once     sync.Once
}

// NewBase creates the innermost sink for one module.
func NewBase(module string, observer types.Observer, completions *registry.Completions) *Base {
	return &Base{
		module:      module,
		observer:    observer,
		completions: completions,
		finished:    make(chan struct{}),
	}
}

// OnMessage forwards msg to the observer. A false return from the observer
// is remembered and propagated upward as a cancellation request for every
// later message.
func (b *Base) OnMessage(msg types.Message) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.observer.OnMessage(msg) {
		b.stopped = true
	}

	if fin, ok := msg.(types.ExecutionFinished); ok {
		b.completions.Register(b.module, fin.Summary)
		b.once.Do(func() { close(b.finished) })
	}

	return !b.stopped
}

// Finished is closed once the ExecutionFinished message has been processed
// and the summary registered.
func (b *Base) Finished() <-chan struct{} {
	return b.finished
}

// Halt closes the completion channel without registering a summary. Used
// when execution hard-fails and the finished message will never arrive.
func (b *Base) Halt() {
	b.once.Do(func() { close(b.finished) })
}
