// Package types contains shared types used across the xunit run orchestration core.
package types

import "time"

// Module describes one test-bearing module to run. It is immutable once
// execution begins; option overrides are merged in before discovery starts.
type Module struct {
	// ID uniquely identifies the module within a run. It keys the
	// completion registry and orders aggregate output.
	ID string

	// Path locates the module on disk.
	Path string

	// ConfigPath optionally locates a per-module YAML config file.
	ConfigPath string

	Options ModuleOptions
}

// ModuleOptions holds per-module execution options. Pointer fields
// distinguish "unset" from an explicit false so that global overrides can be
// merged correctly.
type ModuleOptions struct {
	// ParallelizeModule controls whether this module may run concurrently
	// with other modules. Unset means yes.
	ParallelizeModule *bool

	// ParallelizeCollections is forwarded to the execution engine; the core
	// does not interpret it.
	ParallelizeCollections *bool

	// MaxThreads hints the engine's internal concurrency. Zero means the
	// engine decides.
	MaxThreads int

	Diagnostics         bool
	InternalDiagnostics bool

	// LongRunning is the threshold above which a still-executing test is
	// reported by the watchdog. Zero disables the watchdog.
	LongRunning time.Duration

	// StopOnFail requests run cancellation after this module reports a
	// nonzero failure count.
	StopOnFail bool

	// SerializeTokens round-trips every matched test case through the
	// engine's serializer before execution. Diagnostic use only.
	SerializeTokens bool

	// PreEnumerate asks the engine to fully enumerate test cases during
	// discovery rather than lazily.
	PreEnumerate bool
}

// GlobalOptions holds run-wide options supplied by the CLI surface.
type GlobalOptions struct {
	// Parallel overrides the per-module parallelization choice when set.
	Parallel *bool

	MaxThreads          int
	Diagnostics         bool
	InternalDiagnostics bool
	StopOnFail          bool
	FailSkips           bool
	SerializeTokens     bool
	LongRunning         time.Duration

	// Report enables collection of structured report fragments.
	Report bool
	// ReportDir is where report transformers write their output.
	ReportDir string
}

// Merged combines module-local options with global overrides. Diagnostics
// flags are OR-combined; explicit global parallelism and thread-count values
// replace module-local ones when present.
func (m ModuleOptions) Merged(g GlobalOptions) ModuleOptions {
	out := m

	out.Diagnostics = m.Diagnostics || g.Diagnostics
	out.InternalDiagnostics = m.InternalDiagnostics || g.InternalDiagnostics
	out.StopOnFail = m.StopOnFail || g.StopOnFail
	out.SerializeTokens = m.SerializeTokens || g.SerializeTokens

	if g.Parallel != nil {
		v := *g.Parallel
		out.ParallelizeModule = &v
	}
	if g.MaxThreads > 0 {
		out.MaxThreads = g.MaxThreads
	}
	if g.LongRunning > 0 {
		out.LongRunning = g.LongRunning
	}

	return out
}

// WantsParallel reports whether the module is willing to run concurrently
// with other modules. Unset defaults to true.
func (m ModuleOptions) WantsParallel() bool {
	return m.ParallelizeModule == nil || *m.ParallelizeModule
}
