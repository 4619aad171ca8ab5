package xunit

import (
	"errors"
	"fmt"
)

// RuntimeError wraps an infrastructure-level failure: a missing module
// file, a config that will not parse, an engine that could not be built or
// that broke mid-run. It is distinct from test outcomes, which flow through
// summaries rather than errors.
type RuntimeError struct {
	Err error
}

// NewRuntimeError wraps err as an infrastructure failure.
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsRuntimeError reports whether err is or wraps a RuntimeError.
func IsRuntimeError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re)
}

// TestFailureError carries the failed-plus-errored count of a finished run
// whose tests did not all pass. The count doubles as the process exit code.
type TestFailureError struct {
	Failed int
}

// NewTestFailureError creates the terminal error for a run with failures.
func NewTestFailureError(failed int) *TestFailureError {
	return &TestFailureError{Failed: failed}
}

func (e *TestFailureError) Error() string {
	if e.Failed == 1 {
		return "1 test failed"
	}
	return fmt.Sprintf("%d tests failed", e.Failed)
}

// IsTestFailureError reports whether err is or wraps a TestFailureError.
func IsTestFailureError(err error) bool {
	var te *TestFailureError
	return errors.As(err, &te)
}

// CauseChain flattens an error's wrap chain, outermost first, for logging
// the full causal chain of a module hard failure.
func CauseChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}
