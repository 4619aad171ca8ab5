package runner

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	xunit "github.com/james-s-tayler/xunit"
	"github.com/james-s-tayler/xunit/engine"
	"github.com/james-s-tayler/xunit/exitcodes"
	"github.com/james-s-tayler/xunit/filter"
	"github.com/james-s-tayler/xunit/metrics"
	"github.com/james-s-tayler/xunit/registry"
	"github.com/james-s-tayler/xunit/reporting"
	"github.com/james-s-tayler/xunit/types"
)

// Orchestrator drives a whole run: scheduling modules sequentially or in
// parallel, aggregating summaries and handing the assembled report to the
// configured transformers.
type Orchestrator struct {
	pipeline     *Pipeline
	global       types.GlobalOptions
	completions  *registry.Completions
	canceller    *Canceller
	transformers []reporting.Transformer
	log          *zap.SugaredLogger
	runID        string
}

// RunResult is the terminal state of a run.
type RunResult struct {
	RunID        string
	Summaries    map[string]types.Summary
	Elapsed      time.Duration
	HardFailures int
	Cancelled    bool

	// ExitCode is the process exit code: the cancelled sentinel when the
	// user interrupted the run, otherwise the failed-plus-errored count,
	// floored at 1 when any hard failure occurred.
	ExitCode int
}

// NewOrchestrator creates an orchestrator for one run. The canceller is
// shared with the interrupt handler in the command surface.
func NewOrchestrator(factory engine.Factory, global types.GlobalOptions, canceller *Canceller, transformers []reporting.Transformer, log *zap.SugaredLogger) *Orchestrator {
	completions := registry.NewCompletions()
	return &Orchestrator{
		pipeline:     NewPipeline(factory, global, completions, canceller, log),
		global:       global,
		completions:  completions,
		canceller:    canceller,
		transformers: transformers,
		log:          log,
		runID:        uuid.New().String(),
	}
}

// RunID returns the unique identity of this run.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Run executes all modules and returns the aggregate result. A panic that
// escapes the per-module pipelines is treated as fail-fast: it is logged
// and the process exits immediately with the runtime-fault code.
func (o *Orchestrator) Run(ctx context.Context, modules []types.Module, pred filter.Predicate, observer types.Observer) RunResult {
	defer func() {
		if r := recover(); r != nil {
			o.log.Errorw("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeFault)
		}
	}()

	o.log.Infow("Starting run", "run_id", o.runID, "modules", len(modules))
	start := time.Now()

	prepared, hardFailures := o.prepareModules(modules)
	var fragments []*reporting.Fragment

	parallel, sequential := o.partition(prepared)
	if ctx.Err() != nil {
		o.canceller.Interrupt()
	}

	var mu sync.Mutex
	runOne := func(m types.Module) {
		frag, err := o.pipeline.ExecuteModule(m, pred, observer)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			o.logHardFailure(m.ID, err)
			hardFailures++
			return
		}
		if frag != nil {
			fragments = append(fragments, frag)
		}
	}

	var wg sync.WaitGroup
	for _, m := range parallel {
		wg.Add(1)
		go func(m types.Module) {
			defer wg.Done()
			runOne(m)
		}(m)
	}
	wg.Wait()

	// Sequential modules run in list order. Some engines change the
	// working directory while executing, so restore it afterwards.
	if len(sequential) > 0 {
		if cwd, err := os.Getwd(); err == nil {
			defer func() {
				if err := os.Chdir(cwd); err != nil {
					o.log.Errorw("Failed to restore working directory", "dir", cwd, "error", err)
				}
			}()
		}
		for _, m := range sequential {
			runOne(m)
		}
	}

	elapsed := time.Since(start)

	if o.completions.Len() > 0 {
		observer.OnMessage(types.RunFinished{
			Elapsed:   elapsed,
			Modules:   o.completions.Modules(),
			Summaries: o.completions.Snapshot(),
		})
	}

	if o.global.Report {
		report := reporting.NewReport(o.runID, elapsed, fragments)
		for _, tr := range o.transformers {
			if err := tr.Transform(report); err != nil {
				o.logHardFailure("report:"+tr.Name(), err)
				hardFailures++
			}
		}
	}

	result := RunResult{
		RunID:        o.runID,
		Summaries:    o.completions.Snapshot(),
		Elapsed:      elapsed,
		HardFailures: hardFailures,
		Cancelled:    o.canceller.UserInterrupted(),
	}
	result.ExitCode = o.exitCode(result)
	o.record(result)
	return result
}

// prepareModules validates and merges options for every module up front so
// scheduling can honor per-module parallelism opt-outs from config files.
// Modules that fail preparation are dropped and counted as hard failures.
func (o *Orchestrator) prepareModules(modules []types.Module) ([]types.Module, int) {
	prepared := make([]types.Module, 0, len(modules))
	hardFailures := 0
	for _, m := range modules {
		if _, err := o.pipeline.prepare(&m); err != nil {
			o.logHardFailure(m.ID, xunit.NewRuntimeError(err))
			hardFailures++
			continue
		}
		m.ConfigPath = ""
		prepared = append(prepared, m)
	}
	return prepared, hardFailures
}

// partition splits modules into a parallel batch and a sequential batch,
// preserving list order within each.
func (o *Orchestrator) partition(modules []types.Module) (parallel, sequential []types.Module) {
	for _, m := range modules {
		if m.Options.WantsParallel() {
			parallel = append(parallel, m)
		} else {
			sequential = append(sequential, m)
		}
	}
	return parallel, sequential
}

func (o *Orchestrator) logHardFailure(subject string, err error) {
	o.log.Errorw("Module hard failure", "subject", subject, "cause_chain", xunit.CauseChain(err))
	metrics.RecordHardFailure()
}

func (o *Orchestrator) exitCode(r RunResult) int {
	if r.Cancelled {
		return exitcodes.Cancelled
	}
	failed := o.completions.FailedAndErrored()
	if failed == 0 && r.HardFailures > 0 {
		return exitcodes.HardFailure
	}
	return failed
}

func (o *Orchestrator) record(r RunResult) {
	status := "pass"
	switch {
	case r.Cancelled:
		status = "cancelled"
	case r.ExitCode != exitcodes.Success:
		status = "fail"
	}
	metrics.RecordRun(o.runID, status, r.Elapsed)
	for id, s := range r.Summaries {
		metrics.RecordModule(o.runID, id, s)
	}
}
