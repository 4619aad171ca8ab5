package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	xunit "github.com/james-s-tayler/xunit"
	"github.com/james-s-tayler/xunit/exitcodes"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "test failures exit with the failure count",
			err:  xunit.NewTestFailureError(3),
			want: 3,
		},
		{
			name: "single failure",
			err:  xunit.NewTestFailureError(1),
			want: 1,
		},
		{
			name: "wrapped test failure is still recognized",
			err:  fmt.Errorf("run finished: %w", xunit.NewTestFailureError(5)),
			want: 5,
		},
		{
			name: "zero-count test failure floors at hard failure",
			err:  xunit.NewTestFailureError(0),
			want: exitcodes.HardFailure,
		},
		{
			name: "runtime error exits with the fault code",
			err:  xunit.NewRuntimeError(errors.New("engine construction failed")),
			want: exitcodes.RuntimeFault,
		},
		{
			name: "untyped error exits with the hard failure floor",
			err:  errors.New("something unexpected"),
			want: exitcodes.HardFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}
