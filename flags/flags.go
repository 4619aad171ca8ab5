// Package flags defines the command line surface of the runner.
package flags

import (
	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "XUNIT"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Module = &cli.StringSliceFlag{
		Name:    "module",
		EnvVars: prefixEnvVars("MODULE"),
		Usage:   "Module to run, as 'id=path' or 'id=path:config.yaml'. Repeatable.",
	}
	Parallel = &cli.BoolFlag{
		Name:    "parallel",
		EnvVars: prefixEnvVars("PARALLEL"),
		Usage:   "Override per-module parallelization. Set to false to force sequential execution.",
	}
	MaxThreads = &cli.IntFlag{
		Name:    "max-threads",
		Value:   0,
		EnvVars: prefixEnvVars("MAX_THREADS"),
		Usage:   "Maximum engine concurrency per module. 0 lets the engine decide.",
	}
	Diagnostics = &cli.BoolFlag{
		Name:    "diag",
		Value:   false,
		EnvVars: prefixEnvVars("DIAG"),
		Usage:   "Enable diagnostic messages from the engines",
	}
	InternalDiagnostics = &cli.BoolFlag{
		Name:    "internal-diag",
		Value:   false,
		EnvVars: prefixEnvVars("INTERNAL_DIAG"),
		Usage:   "Enable internal diagnostic logging",
	}
	StopOnFail = &cli.BoolFlag{
		Name:    "stop-on-fail",
		Value:   false,
		EnvVars: prefixEnvVars("STOP_ON_FAIL"),
		Usage:   "Cancel the run after the first module with failures",
	}
	FailSkips = &cli.BoolFlag{
		Name:    "fail-skips",
		Value:   false,
		EnvVars: prefixEnvVars("FAIL_SKIPS"),
		Usage:   "Treat skipped tests as failures",
	}
	Serialize = &cli.BoolFlag{
		Name:    "serialize",
		Value:   false,
		EnvVars: prefixEnvVars("SERIALIZE"),
		Usage:   "Round-trip every test case through the engine serializer before execution (diagnostic)",
	}
	LongRunning = &cli.DurationFlag{
		Name:    "long-running",
		Value:   0,
		EnvVars: prefixEnvVars("LONG_RUNNING"),
		Usage:   "Report tests running longer than this threshold (e.g. '30s'). 0 disables.",
	}
	Report = &cli.BoolFlag{
		Name:    "report",
		Value:   false,
		EnvVars: prefixEnvVars("REPORT"),
		Usage:   "Write structured report files after the run",
	}
	ReportDir = &cli.StringFlag{
		Name:    "report-dir",
		Value:   "reports",
		EnvVars: prefixEnvVars("REPORT_DIR"),
		Usage:   "Directory report transformers write into",
	}
	Run = &cli.StringSliceFlag{
		Name:    "run",
		EnvVars: prefixEnvVars("RUN"),
		Usage:   "Regex pattern(s) selecting tests to run. Repeatable.",
	}
	Skip = &cli.StringSliceFlag{
		Name:    "skip",
		EnvVars: prefixEnvVars("SKIP"),
		Usage:   "Regex pattern(s) selecting tests not to run. Repeatable.",
	}
	Debug = &cli.BoolFlag{
		Name:    "debug",
		Value:   false,
		EnvVars: prefixEnvVars("DEBUG"),
		Usage:   "Enable debug logging",
	}
)

var requiredFlags = []cli.Flag{
	Module,
}

var optionalFlags = []cli.Flag{
	Parallel,
	MaxThreads,
	Diagnostics,
	InternalDiagnostics,
	StopOnFail,
	FailSkips,
	Serialize,
	LongRunning,
	Report,
	ReportDir,
	Run,
	Skip,
	Debug,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}
