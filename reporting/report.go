// Package reporting holds the structured report produced by a run and the
// transformers that render it. Transformers are explicit collaborators
// registered from a fixed configuration list at startup; there is no
// dynamic loading.
package reporting

import (
	"sort"
	"sync"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/james-s-tayler/xunit/types"
)

// TestRecord is one structured entry in a module's report fragment.
type TestRecord struct {
	Name    string        `json:"name"`
	Outcome types.Outcome `json:"outcome"`
	Elapsed time.Duration `json:"elapsed"`
	Failure string        `json:"failure,omitempty"`
	Output  string        `json:"output,omitempty"`
}

// Fragment accumulates the report records for one module. The report sink
// appends to it for every finished test; once execution finishes the
// module's summary is attached.
type Fragment struct {
	mu      sync.Mutex
	module  string
	records []TestRecord
	summary types.Summary
}

// NewFragment creates an empty fragment for a module.
func NewFragment(moduleID string) *Fragment {
	return &Fragment{module: moduleID}
}

// ModuleID returns the module this fragment belongs to.
func (f *Fragment) ModuleID() string {
	return f.module
}

// Append adds one finished-test record. Captured output is stripped of ANSI
// escapes so report files stay readable.
func (f *Fragment) Append(rec TestRecord) {
	rec.Output = stripansi.Strip(rec.Output)
	rec.Failure = stripansi.Strip(rec.Failure)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
}

// SetSummary attaches the module's final summary.
func (f *Fragment) SetSummary(s types.Summary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summary = s
}

// Records returns a copy of the appended records in append order.
func (f *Fragment) Records() []TestRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TestRecord(nil), f.records...)
}

// Summary returns the attached summary.
func (f *Fragment) Summary() types.Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary
}

// Report is the aggregate container handed to transformers after all
// modules finish. Fragments are held in module-identity order so report
// output is deterministic regardless of execution interleaving.
type Report struct {
	RunID     string
	Timestamp time.Time
	Elapsed   time.Duration
	Fragments []*Fragment
}

// NewReport assembles the aggregate report, stamped with the completion
// timestamp and sorted by module identity.
func NewReport(runID string, elapsed time.Duration, fragments []*Fragment) *Report {
	sorted := append([]*Fragment(nil), fragments...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ModuleID() < sorted[j].ModuleID()
	})

	return &Report{
		RunID:     runID,
		Timestamp: time.Now(),
		Elapsed:   elapsed,
		Fragments: sorted,
	}
}

// Transformer renders a completed report into some output format. Each
// transformer is independent and order-insensitive.
type Transformer interface {
	Name() string
	Transform(report *Report) error
}
