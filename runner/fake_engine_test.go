package runner

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/james-s-tayler/xunit/engine"
	"github.com/james-s-tayler/xunit/types"
)

// fakeCase is the opaque token the fake engine produces.
type fakeCase struct {
	name string
}

func (f fakeCase) Name() string { return f.name }

// fakeEngine scripts discovery and execution for pipeline tests. Outcomes
// default to pass for any discovered case without an entry.
type fakeEngine struct {
	module   types.Module
	cases    []string
	outcomes map[string]types.Outcome

	findErr    error
	runErr     error
	encodeErr  error
	ranCases   []string
	runOptions types.ExecutionOptions
}

func (f *fakeEngine) ModuleID() string { return f.module.ID }

func (f *fakeEngine) Find(includeSource bool, sink engine.DiscoverySink, opts types.DiscoveryOptions) error {
	defer sink.Done()
	if f.findErr != nil {
		return f.findErr
	}
	for _, name := range f.cases {
		if !sink.OnDiscovered(fakeCase{name: name}) {
			return nil
		}
	}
	return nil
}

func (f *fakeEngine) RunTests(cases []types.TestCase, sink engine.ExecutionSink, opts types.ExecutionOptions) error {
	f.runOptions = opts
	if f.runErr != nil {
		return f.runErr
	}

	var summary types.Summary
	for _, tc := range cases {
		f.ranCases = append(f.ranCases, tc.Name())
		sink.OnMessage(types.TestStarting{Module: f.module.ID, Test: tc.Name()})

		outcome := types.OutcomePass
		if o, ok := f.outcomes[tc.Name()]; ok {
			outcome = o
		}
		msg := types.TestFinished{
			Module:  f.module.ID,
			Test:    tc.Name(),
			Outcome: outcome,
			Elapsed: time.Millisecond,
		}
		if outcome == types.OutcomeFail {
			msg.Failure = "scripted failure"
		}

		summary.Total++
		switch outcome {
		case types.OutcomeFail:
			summary.Failed++
		case types.OutcomeSkip:
			summary.Skipped++
		}
		sink.OnMessage(msg)
	}

	sink.OnMessage(types.ExecutionFinished{Module: f.module.ID, Summary: summary})
	return nil
}

func (f *fakeEngine) Serialize(tc types.TestCase) ([]byte, error) {
	if f.encodeErr != nil {
		return nil, f.encodeErr
	}
	return []byte(tc.Name()), nil
}

func (f *fakeEngine) Deserialize(data []byte) (types.TestCase, error) {
	if len(data) == 0 {
		return nil, errors.New("empty token")
	}
	return fakeCase{name: string(data)}, nil
}

// fakeFactory builds fake engines, remembering each one so tests can
// inspect what ran.
type fakeFactory struct {
	engines map[string]*fakeEngine
	err     error
}

func newFakeFactory(engines ...*fakeEngine) *fakeFactory {
	m := make(map[string]*fakeEngine, len(engines))
	for _, e := range engines {
		m[e.module.ID] = e
	}
	return &fakeFactory{engines: m}
}

func (f *fakeFactory) build(module types.Module, log *zap.SugaredLogger) (engine.Engine, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.engines[module.ID]
	if !ok {
		e = &fakeEngine{module: module}
		f.engines[module.ID] = e
	}
	e.module = module
	return e, nil
}
