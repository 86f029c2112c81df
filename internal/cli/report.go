package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/es-index-migrator/internal/service"
)

const detailColumnWidth = 60

// RenderReport writes the steps of a workflow run as a table. A nil report
// writes nothing.
func RenderReport(w io.Writer, report *service.Report) {
	if report == nil {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("%s %s (run %s)", report.Workflow, report.Canonical, report.RunID))
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: detailColumnWidth},
	})

	t.AppendHeader(table.Row{"#", "Step", "Status", "Duration", "Detail"})
	for i, s := range report.Steps {
		t.AppendRow(table.Row{i + 1, s.Step, s.Status, formatDuration(s.Duration), s.Detail})
	}

	outcome := "incomplete"
	if report.Done() {
		outcome = "done"
	}
	total := time.Duration(0)
	if !report.FinishedAt.IsZero() {
		total = report.FinishedAt.Sub(report.StartedAt)
	}
	t.AppendFooter(table.Row{"", outcome, "", formatDuration(total), fmt.Sprintf("%d documents", report.ExpectedCount)})

	t.Render()
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
