package sinks

import (
	"sync"

	"github.com/james-s-tayler/xunit/reporting"
	"github.com/james-s-tayler/xunit/types"
)

// ReportSink records finished tests into the module's report fragment while
// passing every message through to the wrapped sink.
type ReportSink struct {
	inner    Sink
	fragment *reporting.Fragment

	finished chan struct{}
	once     sync.Once
}

// NewReportSink wraps inner with report fragment recording.
func NewReportSink(inner Sink, fragment *reporting.Fragment) *ReportSink {
	return &ReportSink{
		inner:    inner,
		fragment: fragment,
		finished: make(chan struct{}),
	}
}

func (r *ReportSink) OnMessage(msg types.Message) bool {
	cont := r.inner.OnMessage(msg)

	switch m := msg.(type) {
	case types.TestFinished:
		r.fragment.Append(reporting.TestRecord{
			Name:    m.Test,
			Outcome: m.Outcome,
			Elapsed: m.Elapsed,
			Failure: m.Failure,
			Output:  m.Output,
		})
	case types.ExecutionFinished:
		<-r.inner.Finished()
		r.fragment.SetSummary(m.Summary)
		r.once.Do(func() { close(r.finished) })
	}

	return cont
}

// Finished is closed after the wrapped sink has finished and the fragment
// summary is attached.
func (r *ReportSink) Finished() <-chan struct{} {
	return r.finished
}

// Halt tears down the wrapped sink and closes the completion channel. The
// fragment keeps whatever records were appended but gets no summary.
func (r *ReportSink) Halt() {
	r.inner.Halt()
	r.once.Do(func() { close(r.finished) })
}
