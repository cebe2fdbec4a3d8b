// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-sorter/pkg/types"
)

// NothingMessage is printed in place of a report when no files were found.
const NothingMessage = "No PDF files found in the specified folder."

// Render writes r to w in the requested format. An empty format means text.
func Render(w io.Writer, r *Report, format types.ReportFormat) error {
	switch format {
	case "", types.FormatText:
		return renderText(w, r)
	case types.FormatTable:
		_, err := fmt.Fprintln(w, renderTable(r))
		return err
	case types.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return enc.Close()
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		return fmt.Errorf("unknown report format %q (want text, table, yaml, or json)", format)
	}
}

// RenderNothing writes the message shown when there is nothing to report.
func RenderNothing(w io.Writer) error {
	_, err := fmt.Fprintln(w, NothingMessage)
	return err
}

func renderText(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintln(w, "\nAnalysis Report:"); err != nil {
		return err
	}
	for _, s := range r.Categories {
		if _, err := fmt.Fprintf(w, "%s: %.2f%%\n", s.Category, s.Percent); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Correctness Score: %.2f%%\n", r.Correctness)
	return err
}

func renderTable(r *Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Category", "Files", "Share"})
	for _, s := range r.Categories {
		tw.AppendRow(table.Row{s.Category, s.Count, fmt.Sprintf("%.2f%%", s.Percent)})
	}
	tw.AppendFooter(table.Row{"Correctness", r.Records, fmt.Sprintf("%.2f%%", r.Correctness)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}
