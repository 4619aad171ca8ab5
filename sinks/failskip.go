package sinks

import (
	"sync"

	"github.com/james-s-tayler/xunit/types"
)

// FailSkips rewrites skipped tests into failures before they reach the rest
// of the chain. The skip reason becomes the failure detail and the
// execution summary is adjusted so skipped counts move to failed.
type FailSkips struct {
	inner Sink

	finished chan struct{}
	once     sync.Once
}

// NewFailSkips wraps inner with skip-to-failure rewriting.
func NewFailSkips(inner Sink) *FailSkips {
	return &FailSkips{
		inner:    inner,
		finished: make(chan struct{}),
	}
}

func (f *FailSkips) OnMessage(msg types.Message) bool {
	switch m := msg.(type) {
	case types.TestFinished:
		if m.Outcome == types.OutcomeSkip {
			m.Outcome = types.OutcomeFail
			if m.Failure == "" {
				m.Failure = "test was skipped but skips are treated as failures"
			}
			msg = m
		}
	case types.ExecutionFinished:
		m.Summary.Failed += m.Summary.Skipped
		m.Summary.Skipped = 0
		msg = m
	}

	cont := f.inner.OnMessage(msg)

	if _, ok := msg.(types.ExecutionFinished); ok {
		<-f.inner.Finished()
		f.once.Do(func() { close(f.finished) })
	}

	return cont
}

// Finished is closed after the wrapped sink has finished.
func (f *FailSkips) Finished() <-chan struct{} {
	return f.finished
}

// Halt tears down the wrapped sink and closes the completion channel.
func (f *FailSkips) Halt() {
	f.inner.Halt()
	f.once.Do(func() { close(f.finished) })
}
