package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// jsonModule is the serialized shape of one module in the JSON report.
type jsonModule struct {
	Module  string       `json:"module"`
	Total   int          `json:"total"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Errored int          `json:"errored"`
	Elapsed float64      `json:"elapsed_seconds"`
	Tests   []TestRecord `json:"tests"`
}

type jsonReport struct {
	RunID     string       `json:"run_id"`
	Timestamp time.Time    `json:"timestamp"`
	Elapsed   float64      `json:"elapsed_seconds"`
	Modules   []jsonModule `json:"modules"`
}

// JSONTransformer writes the aggregate report as an indented JSON file.
type JSONTransformer struct {
	dir string
}

// NewJSONTransformer creates a transformer writing into dir.
func NewJSONTransformer(dir string) *JSONTransformer {
	return &JSONTransformer{dir: dir}
}

func (t *JSONTransformer) Name() string { return "json" }

// Transform writes report.json into the transformer's directory.
func (t *JSONTransformer) Transform(report *Report) error {
	out := jsonReport{
		RunID:     report.RunID,
		Timestamp: report.Timestamp,
		Elapsed:   report.Elapsed.Seconds(),
	}
	for _, frag := range report.Fragments {
		s := frag.Summary()
		out.Modules = append(out.Modules, jsonModule{
			Module:  frag.ModuleID(),
			Total:   s.Total,
			Failed:  s.Failed,
			Skipped: s.Skipped,
			Errored: s.Errored,
			Elapsed: s.Elapsed.Seconds(),
			Tests:   frag.Records(),
		})
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory %s: %w", t.dir, err)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	path := filepath.Join(t.dir, "report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report file %s: %w", path, err)
	}
	return nil
}

var _ Transformer = (*JSONTransformer)(nil)
