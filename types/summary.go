package types

import (
	"fmt"
	"time"
)

// Summary captures the outcome counts for one module's execution. It is
// produced exactly once per module and registered into the completion
// registry.
type Summary struct {
	Total   int
	Failed  int
	Skipped int
	Errored int
	Elapsed time.Duration
}

// FailedAndErrored returns the count that feeds the process exit code.
func (s Summary) FailedAndErrored() int {
	return s.Failed + s.Errored
}

// Valid reports whether the summary's counts are internally consistent.
func (s Summary) Valid() bool {
	return s.Failed+s.Skipped+s.Errored <= s.Total
}

func (s Summary) String() string {
	return fmt.Sprintf("Total: %d, Failed: %d, Skipped: %d, Errored: %d, Time: %.3fs",
		s.Total, s.Failed, s.Skipped, s.Errored, s.Elapsed.Seconds())
}
