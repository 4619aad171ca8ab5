package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-s-tayler/xunit/types"
)

// outcomeMark maps an outcome to the single-character marker used in the
// text summary.
func outcomeMark(o types.Outcome) string {
	switch o {
	case types.OutcomePass:
		return "✓"
	case types.OutcomeSkip:
		return "-"
	default:
		return "✗"
	}
}

// TextTransformer writes a human-readable summary file, one section per
// module with a tree of its tests.
type TextTransformer struct {
	dir            string
	includeDetails bool
}

// NewTextTransformer creates a transformer writing summary.log into dir.
// When includeDetails is set, failure text is included under each failed
// test.
func NewTextTransformer(dir string, includeDetails bool) *TextTransformer {
	return &TextTransformer{dir: dir, includeDetails: includeDetails}
}

func (t *TextTransformer) Name() string { return "text" }

func (t *TextTransformer) Transform(report *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (%.1fs)\n", report.RunID, report.Elapsed.Seconds())

	for _, frag := range report.Fragments {
		s := frag.Summary()
		fmt.Fprintf(&b, "\nModule: %s\n", frag.ModuleID())
		fmt.Fprintf(&b, "├── %s\n", s)

		records := frag.Records()
		for i, rec := range records {
			prefix := "├──"
			if i == len(records)-1 {
				prefix = "└──"
			}
			fmt.Fprintf(&b, "%s %s %s (%.3fs)\n", prefix, outcomeMark(rec.Outcome), rec.Name, rec.Elapsed.Seconds())
			if t.includeDetails && rec.Failure != "" {
				for _, line := range strings.Split(strings.TrimRight(rec.Failure, "\n"), "\n") {
					fmt.Fprintf(&b, "│       %s\n", line)
				}
			}
		}
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory %s: %w", t.dir, err)
	}

	path := filepath.Join(t.dir, "summary.log")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing summary file %s: %w", path, err)
	}
	return nil
}

var _ Transformer = (*TextTransformer)(nil)
