package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/james-s-tayler/xunit/logging"
	"github.com/james-s-tayler/xunit/types"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
	diagColor = color.New(color.FgCyan)
)

// consoleObserver renders lifecycle messages as colored console lines.
// All writes happen under the shared console lock so output from
// concurrently executing modules stays line-whole.
type consoleObserver struct {
	w       io.Writer
	lock    *logging.ConsoleLock
	verbose bool
}

func newConsoleObserver(w io.Writer, lock *logging.ConsoleLock, verbose bool) *consoleObserver {
	return &consoleObserver{w: w, lock: lock, verbose: verbose}
}

func (c *consoleObserver) OnMessage(msg types.Message) bool {
	c.lock.With(func() {
		switch m := msg.(type) {
		case types.DiscoveryStarting:
			if c.verbose {
				fmt.Fprintf(c.w, "=== %s: discovering tests\n", m.Module)
			}
		case types.DiscoveryFinished:
			fmt.Fprintf(c.w, "=== %s: discovered %d tests, running %d\n", m.Module, m.Discovered, m.Matched)
		case types.ExecutionStarting:
			if c.verbose {
				fmt.Fprintf(c.w, "=== %s: starting execution\n", m.Module)
			}
		case types.TestStarting:
			if c.verbose {
				fmt.Fprintf(c.w, "    %s: %s ...\n", m.Module, m.Test)
			}
		case types.TestFinished:
			c.printFinished(m)
		case types.ExecutionFinished:
			fmt.Fprintf(c.w, "=== %s: %s\n", m.Module, m.Summary)
		case types.Diagnostic:
			diagColor.Fprintf(c.w, "    %s: %s\n", m.Module, m.Text)
		case types.RunFinished:
			fmt.Fprintf(c.w, "=== run finished in %s across %d modules\n", m.Elapsed.Round(time.Millisecond), len(m.Modules))
		}
	})
	return true
}

func (c *consoleObserver) printFinished(m types.TestFinished) {
	switch m.Outcome {
	case types.OutcomeFail:
		failColor.Fprintf(c.w, "FAIL  %s: %s (%.3fs)\n", m.Module, m.Test, m.Elapsed.Seconds())
		if m.Failure != "" {
			fmt.Fprint(c.w, indent(m.Failure))
		}
	case types.OutcomeSkip:
		skipColor.Fprintf(c.w, "SKIP  %s: %s\n", m.Module, m.Test)
	default:
		if c.verbose {
			passColor.Fprintf(c.w, "PASS  %s: %s (%.3fs)\n", m.Module, m.Test, m.Elapsed.Seconds())
		}
	}
}

func indent(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		b.WriteString("      ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
