package runner

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	xunit "github.com/james-s-tayler/xunit"
	"github.com/james-s-tayler/xunit/engine"
	"github.com/james-s-tayler/xunit/filter"
	"github.com/james-s-tayler/xunit/registry"
	"github.com/james-s-tayler/xunit/reporting"
	"github.com/james-s-tayler/xunit/sinks"
	"github.com/james-s-tayler/xunit/types"
)

// Pipeline executes one module end to end: validation, option merge,
// engine construction, discovery, filtering and execution through the sink
// chain. ExecuteModule never panics outward; any failure is returned as an
// error and the orchestrator treats it as a hard failure for that module
// only.
type Pipeline struct {
	factory     engine.Factory
	global      types.GlobalOptions
	completions *registry.Completions
	canceller   *Canceller
	log         *zap.SugaredLogger
}

// NewPipeline creates a pipeline sharing the run-wide collaborators.
func NewPipeline(factory engine.Factory, global types.GlobalOptions, completions *registry.Completions, canceller *Canceller, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		factory:     factory,
		global:      global,
		completions: completions,
		canceller:   canceller,
		log:         log,
	}
}

// ExecuteModule runs the full pipeline for one module. The returned
// fragment is nil when reporting is disabled, when the module was skipped
// due to cancellation, or on a hard failure.
func (p *Pipeline) ExecuteModule(module types.Module, pred filter.Predicate, observer types.Observer) (fragment *reporting.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			fragment = nil
			err = xunit.NewRuntimeError(fmt.Errorf("panic executing module %s: %v", module.ID, r))
		}
	}()

	if p.canceller.Cancelled() {
		p.log.Debugw("Skipping module, cancellation requested", "module", module.ID)
		return nil, nil
	}

	opts, err := p.prepare(&module)
	if err != nil {
		return nil, xunit.NewRuntimeError(err)
	}

	eng, err := p.factory(module, p.log)
	if err != nil {
		return nil, xunit.NewRuntimeError(fmt.Errorf("constructing engine for module %s: %w", module.ID, err))
	}

	if p.canceller.Cancelled() {
		return nil, nil
	}

	matched, discovered, err := p.discover(eng, module, opts, pred, observer)
	if err != nil {
		return nil, xunit.NewRuntimeError(err)
	}
	p.log.Debugw("Discovery complete", "module", module.ID, "discovered", discovered, "matched", len(matched))

	if p.global.Report {
		fragment = reporting.NewFragment(module.ID)
	}

	if len(matched) == 0 {
		summary := types.Summary{}
		p.completions.Register(module.ID, summary)
		if fragment != nil {
			fragment.SetSummary(summary)
		}
		return fragment, nil
	}

	if p.canceller.Cancelled() {
		return nil, nil
	}

	if opts.SerializeTokens {
		if err := p.roundTrip(eng, module, matched); err != nil {
			return nil, xunit.NewRuntimeError(err)
		}
	}

	if err := p.execute(eng, module, opts, matched, observer, fragment); err != nil {
		return nil, xunit.NewRuntimeError(err)
	}

	if opts.StopOnFail {
		if s, ok := p.completions.Get(module.ID); ok && s.FailedAndErrored() > 0 {
			p.log.Infow("Requesting cancellation, module failed with stop-on-fail set", "module", module.ID)
			p.canceller.Request()
		}
	}

	return fragment, nil
}

// prepare validates the module's files and merges its effective options.
func (p *Pipeline) prepare(module *types.Module) (types.ModuleOptions, error) {
	if _, err := os.Stat(module.Path); err != nil {
		return types.ModuleOptions{}, fmt.Errorf("module %s: %w", module.ID, err)
	}

	opts := module.Options
	if module.ConfigPath != "" {
		loaded, err := xunit.LoadModuleOptions(module.ConfigPath)
		if err != nil {
			return types.ModuleOptions{}, fmt.Errorf("module %s: %w", module.ID, err)
		}
		opts = loaded
	}

	opts = opts.Merged(p.global)
	module.Options = opts
	return opts, nil
}

// discover drives the engine's Find call, waits for the one-shot
// completion signal and applies the filter predicate. It returns the
// matched cases in discovery order plus the raw discovered count.
func (p *Pipeline) discover(eng engine.Engine, module types.Module, opts types.ModuleOptions, pred filter.Predicate, observer types.Observer) ([]types.TestCase, int, error) {
	if !observer.OnMessage(types.DiscoveryStarting{Module: module.ID}) {
		p.canceller.Request()
	}

	sink := newDiscoverySink(p.canceller)
	if err := eng.Find(false, sink, types.DiscoveryOptions{
		PreEnumerate: opts.PreEnumerate,
		Diagnostics:  opts.Diagnostics,
	}); err != nil {
		return nil, 0, fmt.Errorf("discovering module %s: %w", module.ID, err)
	}
	<-sink.Finished()

	all := sink.Cases()
	matched := make([]types.TestCase, 0, len(all))
	for _, tc := range all {
		if pred(tc) {
			matched = append(matched, tc)
		}
	}

	if !observer.OnMessage(types.DiscoveryFinished{
		Module:     module.ID,
		Discovered: len(all),
		Matched:    len(matched),
	}) {
		p.canceller.Request()
	}
	return matched, len(all), nil
}

// roundTrip serializes and deserializes every matched case, verifying the
// engine's token codec preserves identity.
func (p *Pipeline) roundTrip(eng engine.Engine, module types.Module, cases []types.TestCase) error {
	for i, tc := range cases {
		data, err := eng.Serialize(tc)
		if err != nil {
			return fmt.Errorf("serializing test %q in module %s: %w", tc.Name(), module.ID, err)
		}
		back, err := eng.Deserialize(data)
		if err != nil {
			return fmt.Errorf("deserializing test %q in module %s: %w", tc.Name(), module.ID, err)
		}
		if back.Name() != tc.Name() {
			return fmt.Errorf("round-trip of test %q in module %s produced %q", tc.Name(), module.ID, back.Name())
		}
		cases[i] = back
	}
	return nil
}

// execute builds the sink chain, drives the engine's RunTests call and
// blocks until the outermost sink reports completion. When the engine
// errors, the finished message never arrives: the chain is halted so no
// summary is registered and no background work lingers.
func (p *Pipeline) execute(eng engine.Engine, module types.Module, opts types.ModuleOptions, cases []types.TestCase, observer types.Observer, fragment *reporting.Fragment) error {
	chain := sinks.Build(module.ID, sinks.Options{
		LongRunning: opts.LongRunning,
		FailSkips:   p.global.FailSkips,
	}, observer, p.completions, fragment, p.log)

	chain.OnMessage(types.ExecutionStarting{Module: module.ID})

	parallelizeCollections := opts.ParallelizeCollections == nil || *opts.ParallelizeCollections
	if err := eng.RunTests(cases, chain, types.ExecutionOptions{
		ParallelizeCollections: parallelizeCollections,
		MaxThreads:             opts.MaxThreads,
		Diagnostics:            opts.Diagnostics,
	}); err != nil {
		chain.Halt()
		return fmt.Errorf("executing module %s: %w", module.ID, err)
	}
	<-chain.Finished()
	return nil
}
