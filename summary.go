package xunit

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/james-s-tayler/xunit/types"
)

// PrintSummaryTable renders the per-module results of a run as a table.
// The table style tracks the overall outcome.
func PrintSummaryTable(w io.Writer, runID string, elapsed time.Duration, summaries map[string]types.Summary, hardFailures int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Test Run Results (%s)", formatDuration(elapsed)))

	t.AppendHeader(table.Row{
		"Module", "Duration", "Tests", "Passed", "Failed", "Skipped", "Errored", "Status",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Module", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Errored", Align: text.AlignRight},
	})

	ids := make([]string, 0, len(summaries))
	for id := range summaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var total types.Summary
	for _, id := range ids {
		s := summaries[id]
		total.Total += s.Total
		total.Failed += s.Failed
		total.Skipped += s.Skipped
		total.Errored += s.Errored

		t.AppendRow(table.Row{
			id,
			formatDuration(s.Elapsed),
			s.Total,
			s.Total - s.Failed - s.Skipped - s.Errored,
			s.Failed,
			s.Skipped,
			s.Errored,
			statusString(s.FailedAndErrored() > 0),
		})
	}

	failed := total.FailedAndErrored() > 0 || hardFailures > 0
	if failed {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("TOTAL (run %s)", runID),
		formatDuration(elapsed),
		total.Total,
		total.Total - total.Failed - total.Skipped - total.Errored,
		total.Failed,
		total.Skipped,
		total.Errored,
		statusString(failed),
	})
	t.Render()
}

// RerunHint builds a copy-pastable command line that reruns only the
// given modules with the same invocation arguments.
func RerunHint(argv0 string, modules []types.Module, filters []string) string {
	var b []string
	add := func(args ...string) {
		for _, a := range args {
			b = append(b, shellescape.Quote(a))
		}
	}

	add(argv0)
	for _, m := range modules {
		spec := m.ID + "=" + m.Path
		if m.ConfigPath != "" {
			spec += ":" + m.ConfigPath
		}
		add("--module", spec)
	}
	add(filters...)
	return strings.Join(b, " ")
}

func statusString(failed bool) string {
	if failed {
		return "fail"
	}
	return "pass"
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
