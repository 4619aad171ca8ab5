package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-s-tayler/xunit/types"
)

func fragmentWithRecords(moduleID string, records ...TestRecord) *Fragment {
	f := NewFragment(moduleID)
	for _, r := range records {
		f.Append(r)
	}
	var s types.Summary
	for _, r := range records {
		s.Total++
		switch r.Outcome {
		case types.OutcomeFail:
			s.Failed++
		case types.OutcomeSkip:
			s.Skipped++
		}
	}
	f.SetSummary(s)
	return f
}

func TestFragment_AppendStripsANSI(t *testing.T) {
	f := NewFragment("mod-a")
	f.Append(TestRecord{
		Name:    "TestColored",
		Outcome: types.OutcomeFail,
		Output:  "\x1b[32mgreen\x1b[0m text",
		Failure: "\x1b[1mbold failure\x1b[0m",
	})

	records := f.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "green text", records[0].Output)
	assert.Equal(t, "bold failure", records[0].Failure)
}

func TestNewReport_SortsFragmentsByModule(t *testing.T) {
	report := NewReport("run-1", time.Second, []*Fragment{
		NewFragment("zeta"),
		NewFragment("alpha"),
		NewFragment("mid"),
	})

	require.Len(t, report.Fragments, 3)
	assert.Equal(t, "alpha", report.Fragments[0].ModuleID())
	assert.Equal(t, "mid", report.Fragments[1].ModuleID())
	assert.Equal(t, "zeta", report.Fragments[2].ModuleID())
	assert.False(t, report.Timestamp.IsZero())
}

func TestJSONTransformer_WritesReportFile(t *testing.T) {
	dir := t.TempDir()
	report := NewReport("run-42", 3*time.Second, []*Fragment{
		fragmentWithRecords("mod-a",
			TestRecord{Name: "TestPass", Outcome: types.OutcomePass, Elapsed: time.Second},
			TestRecord{Name: "TestFail", Outcome: types.OutcomeFail, Failure: "boom"},
		),
	})

	tr := NewJSONTransformer(dir)
	assert.Equal(t, "json", tr.Name())
	require.NoError(t, tr.Transform(report))

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)

	var decoded jsonReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-42", decoded.RunID)
	require.Len(t, decoded.Modules, 1)
	assert.Equal(t, "mod-a", decoded.Modules[0].Module)
	assert.Equal(t, 2, decoded.Modules[0].Total)
	assert.Equal(t, 1, decoded.Modules[0].Failed)
	require.Len(t, decoded.Modules[0].Tests, 2)
	assert.Equal(t, "boom", decoded.Modules[0].Tests[1].Failure)
}

func TestJSONTransformer_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	tr := NewJSONTransformer(dir)

	require.NoError(t, tr.Transform(NewReport("run-1", 0, nil)))
	_, err := os.Stat(filepath.Join(dir, "report.json"))
	assert.NoError(t, err)
}

func TestTextTransformer_WritesSummaryFile(t *testing.T) {
	dir := t.TempDir()
	report := NewReport("run-9", 2*time.Second, []*Fragment{
		fragmentWithRecords("mod-b",
			TestRecord{Name: "TestGood", Outcome: types.OutcomePass},
			TestRecord{Name: "TestBad", Outcome: types.OutcomeFail, Failure: "expected 1, got 2"},
			TestRecord{Name: "TestMeh", Outcome: types.OutcomeSkip},
		),
	})

	tr := NewTextTransformer(dir, true)
	assert.Equal(t, "text", tr.Name())
	require.NoError(t, tr.Transform(report))

	data, err := os.ReadFile(filepath.Join(dir, "summary.log"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "run-9")
	assert.Contains(t, content, "Module: mod-b")
	assert.Contains(t, content, "TestGood")
	assert.Contains(t, content, "expected 1, got 2", "failure detail should be included")
}

func TestTextTransformer_WithoutDetails(t *testing.T) {
	dir := t.TempDir()
	report := NewReport("run-9", 0, []*Fragment{
		fragmentWithRecords("mod-b",
			TestRecord{Name: "TestBad", Outcome: types.OutcomeFail, Failure: "secret detail"},
		),
	})

	require.NoError(t, NewTextTransformer(dir, false).Transform(report))

	data, err := os.ReadFile(filepath.Join(dir, "summary.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret detail")
}
