package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	xunit "github.com/james-s-tayler/xunit"
	"github.com/james-s-tayler/xunit/engine/gotest"
	"github.com/james-s-tayler/xunit/exitcodes"
	"github.com/james-s-tayler/xunit/flags"
	"github.com/james-s-tayler/xunit/logging"
	"github.com/james-s-tayler/xunit/reporting"
	"github.com/james-s-tayler/xunit/runner"
	"github.com/james-s-tayler/xunit/types"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "xunit"
	app.Usage = "Test run orchestrator"
	app.Description = "xunit discovers and executes tests across modules, in parallel, with deterministic aggregate results"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit(err.Error(), exitCodeFor(err)))
		}
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcodes.BadInvocation)
	}
}

// exitCodeFor maps run's typed errors to a process exit code: a test
// failure exits with the failed-plus-errored count, a runtime error with
// the fault code, anything else with the hard-failure floor.
func exitCodeFor(err error) int {
	var testErr *xunit.TestFailureError
	if errors.As(err, &testErr) {
		if testErr.Failed > 0 {
			return testErr.Failed
		}
		return exitcodes.HardFailure
	}
	if xunit.IsRuntimeError(err) {
		return exitcodes.RuntimeFault
	}
	return exitcodes.HardFailure
}

func run(c *cli.Context) error {
	log := logging.New(os.Stderr, c.Bool(flags.Debug.Name) || c.Bool(flags.InternalDiagnostics.Name))

	modules, err := xunit.ModulesFromCLI(c)
	if err != nil {
		return cli.Exit(err.Error(), exitcodes.BadInvocation)
	}
	filters, err := xunit.FiltersFromCLI(c)
	if err != nil {
		return cli.Exit(err.Error(), exitcodes.BadInvocation)
	}
	global := xunit.GlobalFromCLI(c)

	canceller := runner.NewCanceller()
	interrupts := make(chan os.Signal, 2)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range interrupts {
			if canceller.Interrupt() {
				log.Warnw("Cancellation requested, waiting for running modules to finish. Interrupt again to terminate.")
				continue
			}
			log.Errorw("Terminating immediately")
			// The cancelled sentinel is negative; the shell reports it as 255.
			os.Exit(exitcodes.Cancelled)
		}
	}()

	var transformers []reporting.Transformer
	if global.Report {
		transformers = []reporting.Transformer{
			reporting.NewJSONTransformer(global.ReportDir),
			reporting.NewTextTransformer(global.ReportDir, true),
		}
	}

	consoleLock := &logging.ConsoleLock{}
	observer := newConsoleObserver(os.Stdout, consoleLock, global.Diagnostics)

	orch := runner.NewOrchestrator(gotest.Factory, global, canceller, transformers, log)
	result := orch.Run(c.Context, modules, filters.AsPredicate(), observer)

	consoleLock.With(func() {
		xunit.PrintSummaryTable(os.Stdout, result.RunID, result.Elapsed, result.Summaries, result.HardFailures)
		printRerunHint(c, result, modules)
	})

	if result.ExitCode == exitcodes.Success {
		return nil
	}
	if result.Cancelled {
		return cli.Exit("", result.ExitCode)
	}

	failed := 0
	for _, s := range result.Summaries {
		failed += s.FailedAndErrored()
	}
	if failed > 0 {
		return xunit.NewTestFailureError(result.ExitCode)
	}
	return cli.Exit("", result.ExitCode)
}

// printRerunHint prints a copy-pastable command rerunning only the modules
// that failed.
func printRerunHint(c *cli.Context, result runner.RunResult, modules []types.Module) {
	var failed []types.Module
	for _, m := range modules {
		if s, ok := result.Summaries[m.ID]; ok && s.FailedAndErrored() > 0 {
			failed = append(failed, m)
		}
	}
	if len(failed) == 0 {
		return
	}

	var filterArgs []string
	for _, p := range c.StringSlice(flags.Run.Name) {
		filterArgs = append(filterArgs, "--run", p)
	}
	for _, p := range c.StringSlice(flags.Skip.Name) {
		filterArgs = append(filterArgs, "--skip", p)
	}

	fmt.Printf("\nTo rerun the failed modules:\n  %s\n", xunit.RerunHint(os.Args[0], failed, filterArgs))
}
