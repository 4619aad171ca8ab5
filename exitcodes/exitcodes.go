// Package exitcodes defines the reserved process exit codes of the runner.
package exitcodes

// The orchestrator's normal exit code is the count of failed plus errored
// tests across all modules, floored at 1 whenever an infrastructure-level
// failure occurred. The values below are reserved for the remaining states:
//
// * Success (0): every module ran and nothing failed
// * HardFailure (1): the floor applied when a hard failure occurred with zero test failures
// * BadInvocation (2): invalid command line or configuration
// * RuntimeFault (2): the runner itself faulted before the run could complete;
//   shares the value of BadInvocation since both mean "the runner could not proceed"
// * Cancelled (-1): the run was cancelled by the user
const (
	Success       = 0
	HardFailure   = 1
	BadInvocation = 2
	RuntimeFault  = 2
	Cancelled     = -1
)
