package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-sorter/internal/ledger"
	"github.com/pdiddy/paper-sorter/internal/organize"
	"github.com/pdiddy/paper-sorter/internal/report"
	"github.com/pdiddy/paper-sorter/internal/taxonomy"
	"github.com/pdiddy/paper-sorter/pkg/types"
)

var organizeCmd = &cobra.Command{
	Use:   "organize [root]",
	Short: "Move PDFs into category folders and print a report",
	Long: `Organize classifies every PDF directly under root by its filename, moves
it into root/<category>[/<subcategory>], and prints the category distribution
and correctness score. When root is not given on the command line or in the
config, it is read from standard input.

A file that cannot be moved is reported and left in place; the rest of the
batch continues. The command exits non-zero if any file failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().Int("workers", 1, "number of files processed concurrently")
	organizeCmd.Flags().Bool("bootstrap", true, "create every category folder before sorting")
	organizeCmd.Flags().String("format", "text", "report format: text, table, yaml, json")
	organizeCmd.Flags().String("oracle", "", "YAML file of hand-assigned labels to score correctness against")

	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd.Flags(), map[string]string{
		"workers":   "sorter.workers",
		"bootstrap": "sorter.bootstrap",
		"format":    "report.format",
		"oracle":    "report.oracle",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	root, err := resolveRoot(args, cfg.Sorter.Root, cmd.InOrStdin(), out)
	if err != nil {
		return err
	}

	tax, err := loadTaxonomy(cfg.Sorter.TaxonomyPath)
	if err != nil {
		return err
	}

	coord, err := organize.NewCoordinator(root, tax, cfg.Sorter, slog.Default(), out)
	if err != nil {
		return err
	}

	started := time.Now()
	result, err := coord.Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := recordRun(cmd, cfg.Ledger, root, started, result); err != nil {
		slog.Warn("ledger write failed", slog.Any("error", err))
	}

	if err := printReport(out, root, tax, cfg, result.Placements); err != nil {
		return err
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed to move", result.Failed)
	}
	return nil
}

// recordRun saves the batch to the ledger when one is configured.
func recordRun(cmd *cobra.Command, cfg types.LedgerConfig, root string, started time.Time, result organize.BatchResult) error {
	store, err := openLedger(cfg)
	if err != nil || store == nil {
		return err
	}
	defer store.Close()

	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	run := ledger.Run{
		Root:       abs,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Moved:      result.Moved,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
		Placements: result.Placements,
	}
	for _, f := range result.Failures {
		run.Failures = append(run.Failures, ledger.Failure{Filename: f.Filename, Error: f.Err.Error()})
	}

	id, err := store.SaveRun(cmd.Context(), run)
	if err != nil {
		return err
	}
	slog.Info("run recorded", slog.String("run_id", id), slog.String("ledger", cfg.Path))
	return nil
}

// printReport generates the report for root and renders it to out. Records
// are rescored against the oracle when one is configured.
func printReport(out io.Writer, root string, tax types.Taxonomy, cfg types.Config, records []types.Placement) error {
	if cfg.Report.OraclePath != "" {
		oracle, err := report.LoadOracle(cfg.Report.OraclePath)
		if err != nil {
			return err
		}
		records = oracle.Apply(records)
	}

	categories := taxonomy.Categories(tax, types.FallbackCategory)
	r, err := report.Generate(root, categories, cfg.Sorter.Suffix, records)
	if errors.Is(err, report.ErrNothingToReport) {
		return report.RenderNothing(out)
	}
	if err != nil {
		return err
	}
	return report.Render(out, r, cfg.Report.Format)
}
