package gotest

import (
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/james-s-tayler/xunit/engine"
	"github.com/james-s-tayler/xunit/types"
)

// testNamePattern matches the function names `go test -list` prints.
var testNamePattern = regexp.MustCompile(`^(Test|Benchmark|Example|Fuzz)\w*$`)

// Engine runs `go test` for one module directory.
type Engine struct {
	module   types.Module
	goBinary string
	log      *zap.SugaredLogger
}

// Factory constructs a gotest engine. It satisfies engine.Factory.
func Factory(module types.Module, log *zap.SugaredLogger) (engine.Engine, error) {
	goBinary, err := exec.LookPath("go")
	if err != nil {
		return nil, fmt.Errorf("locating go binary: %w", err)
	}
	return &Engine{
		module:   module,
		goBinary: goBinary,
		log:      log,
	}, nil
}

var _ engine.Factory = Factory

func (e *Engine) ModuleID() string {
	return e.module.ID
}

// Find lists test functions across the module's packages with
// `go test -json -list`. Every discovered case is reported through the
// sink; Done is signalled on every path.
func (e *Engine) Find(includeSource bool, sink engine.DiscoverySink, opts types.DiscoveryOptions) error {
	defer sink.Done()

	args := []string{"test", "-json", "-list", "^Test", "./..."}
	cmd := exec.Command(e.goBinary, args...)
	cmd.Dir = e.module.Path

	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("listing tests in %s: %w", e.module.Path, err)
	}

	for _, event := range listEvents(out) {
		name := strings.TrimSpace(event.Output)
		if !testNamePattern.MatchString(name) {
			continue
		}
		if opts.Diagnostics {
			e.log.Debugw("Discovered test", "module", e.module.ID, "package", event.Package, "test", name)
		}
		if !sink.OnDiscovered(Case{Pkg: event.Package, Test: name}) {
			return nil
		}
	}
	return nil
}

// RunTests executes the cases package by package, streaming -json events
// into the sink. ExecutionFinished is emitted only when every package
// invocation ran; an engine-level error aborts the run with no summary.
func (e *Engine) RunTests(cases []types.TestCase, sink engine.ExecutionSink, opts types.ExecutionOptions) error {
	start := time.Now()
	var summary types.Summary

	byPackage := make(map[string][]string)
	for _, tc := range cases {
		c, ok := tc.(Case)
		if !ok {
			return fmt.Errorf("test case %q was not produced by this engine", tc.Name())
		}
		byPackage[c.Pkg] = append(byPackage[c.Pkg], c.Test)
	}

	pkgs := make([]string, 0, len(byPackage))
	for pkg := range byPackage {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	for _, pkg := range pkgs {
		tally, err := e.runPackage(pkg, byPackage[pkg], sink, opts)
		if err != nil {
			return err
		}
		summary.Total += tally.total
		summary.Failed += tally.failed
		summary.Skipped += tally.skipped
		summary.Errored += tally.errored
	}

	summary.Elapsed = time.Since(start)
	sink.OnMessage(types.ExecutionFinished{Module: e.module.ID, Summary: summary})
	return nil
}

func (e *Engine) runPackage(pkg string, tests []string, sink engine.ExecutionSink, opts types.ExecutionOptions) (packageTally, error) {
	var tally packageTally

	args := []string{"test", "-json", "-v", "-count=1", "-run", runPattern(tests)}
	if !opts.ParallelizeCollections {
		args = append(args, "-parallel", "1")
	} else if opts.MaxThreads > 0 {
		args = append(args, "-parallel", fmt.Sprint(opts.MaxThreads))
	}
	args = append(args, pkg)

	cmd := exec.Command(e.goBinary, args...)
	cmd.Dir = e.module.Path

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return tally, fmt.Errorf("running tests in %s: %w", pkg, err)
	}
	if err := cmd.Start(); err != nil {
		return tally, fmt.Errorf("running tests in %s: %w", pkg, err)
	}

	streamEvents(e.module.ID, stdout, sink, &tally)

	// go test exits nonzero when tests fail; that outcome is already in
	// the event stream, so only a failure with no recorded result is an
	// engine-level error.
	if err := cmd.Wait(); err != nil && tally.total == 0 {
		return tally, fmt.Errorf("running tests in %s: %w", pkg, err)
	}
	return tally, nil
}

func (e *Engine) Serialize(tc types.TestCase) ([]byte, error) {
	c, ok := tc.(Case)
	if !ok {
		return nil, fmt.Errorf("test case %q was not produced by this engine", tc.Name())
	}
	return encodeCase(c)
}

func (e *Engine) Deserialize(data []byte) (types.TestCase, error) {
	c, err := decodeCase(data)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// runPattern builds the -run expression selecting exactly these tests.
func runPattern(tests []string) string {
	quoted := make([]string, len(tests))
	for i, t := range tests {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return "^(" + strings.Join(quoted, "|") + ")$"
}
