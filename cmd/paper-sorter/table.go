package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/paper-sorter/internal/ledger"
)

// runsTable lists ledger runs newest first, with batch totals in the footer.
func runsTable(runs []ledger.Run) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Run", "Finished", "Root", "Moved", "Skipped", "Failed"})

	var moved, skipped, failed int
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID,
			r.FinishedAt.Local().Format(time.DateTime),
			r.Root,
			r.Moved,
			r.Skipped,
			r.Failed,
		})
		moved += r.Moved
		skipped += r.Skipped
		failed += r.Failed
	}
	tw.AppendFooter(table.Row{"Total", "", "", moved, skipped, failed})

	counts := func(n int) table.ColumnConfig {
		return table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight}
	}
	tw.SetColumnConfigs([]table.ColumnConfig{counts(4), counts(5), counts(6)})
	return tw.Render()
}

// placementsTable shows where each file of one run went. Failed files have
// no destination; the error takes its place.
func placementsTable(run ledger.Run) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Matched", "Folder", "Destination"})

	for _, p := range run.Placements {
		matched := p.Expected
		if matched == "" {
			matched = "-"
		}
		tw.AppendRow(table.Row{p.Filename, matched, p.Actual, p.Destination})
	}
	for _, f := range run.Failures {
		tw.AppendRow(table.Row{f.Filename, "", "failed", f.Error})
	}
	tw.SortBy([]table.SortBy{{Number: 1, Mode: table.Asc}})
	return tw.Render()
}
