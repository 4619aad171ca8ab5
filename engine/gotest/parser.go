package gotest

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/james-s-tayler/xunit/engine"
	"github.com/james-s-tayler/xunit/types"
)

// testEvent mirrors the event stream emitted by `go test -json`.
type testEvent struct {
	Time    time.Time
	Action  string
	Package string
	Test    string
	Elapsed float64
	Output  string
}

// packageTally is the per-package slice of a module summary.
type packageTally struct {
	total   int
	failed  int
	skipped int
	errored int
}

// listEvents decodes the buffered -json output of a -list invocation.
func listEvents(out []byte) []testEvent {
	var events []testEvent
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		var event testEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		if event.Action == "output" {
			events = append(events, event)
		}
	}
	return events
}

// streamEvents decodes one package's -json stream, forwarding lifecycle
// messages into the sink as tests start and finish. It returns false when
// the sink asked to stop.
func streamEvents(module string, r io.Reader, sink engine.ExecutionSink, tally *packageTally) bool {
	outputs := make(map[string]*strings.Builder)
	cont := true

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var event testEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			// Non-JSON lines appear when a test binary panics or a build
			// step prints directly. They carry no event to forward.
			continue
		}

		switch event.Action {
		case "run":
			if event.Test == "" {
				continue
			}
			if !sink.OnMessage(types.TestStarting{Module: module, Test: event.Test}) {
				cont = false
			}
		case "output":
			if event.Test == "" {
				continue
			}
			b, ok := outputs[event.Test]
			if !ok {
				b = &strings.Builder{}
				outputs[event.Test] = b
			}
			b.WriteString(event.Output)
		case "pass", "fail", "skip":
			if event.Test == "" {
				// Package-level failure without a failing test means the
				// test binary itself broke, e.g. a compile error or panic
				// outside any test. Count it as errored.
				if event.Action == "fail" && tally.failed == 0 {
					tally.errored++
					tally.total++
				}
				continue
			}

			msg := finishMessage(module, event, outputs[event.Test])
			delete(outputs, event.Test)
			tally.total++
			switch msg.Outcome {
			case types.OutcomeFail:
				tally.failed++
			case types.OutcomeSkip:
				tally.skipped++
			}
			if !sink.OnMessage(msg) {
				cont = false
			}
		}
	}
	return cont
}

func finishMessage(module string, event testEvent, output *strings.Builder) types.TestFinished {
	msg := types.TestFinished{
		Module:  module,
		Test:    event.Test,
		Elapsed: time.Duration(event.Elapsed * float64(time.Second)),
	}

	captured := ""
	if output != nil {
		captured = output.String()
	}

	switch event.Action {
	case "fail":
		msg.Outcome = types.OutcomeFail
		msg.Output = captured
		msg.Failure = captured
	case "skip":
		msg.Outcome = types.OutcomeSkip
		msg.Output = captured
	default:
		msg.Outcome = types.OutcomePass
	}
	return msg
}
