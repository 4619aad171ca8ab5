package types

// TestCase is an opaque identity token produced and owned by the discovery
// engine. The core stores and forwards tokens, applies the filter predicate
// to them, and optionally round-trips them through the engine's serializer;
// it never interprets what a test case does.
type TestCase interface {
	// Name returns the display name the filter predicate classifies on.
	Name() string
}

// Outcome is the terminal state of a single executed test case.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
	OutcomeSkip Outcome = "skip"
)

// DiscoveryOptions is forwarded to the engine's Find call.
type DiscoveryOptions struct {
	PreEnumerate bool
	Diagnostics  bool
}

// ExecutionOptions is forwarded to the engine's RunTests call.
type ExecutionOptions struct {
	ParallelizeCollections bool
	MaxThreads             int
	Diagnostics            bool
}
