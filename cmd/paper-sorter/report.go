package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-sorter/internal/ledger"
	"github.com/pdiddy/paper-sorter/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report [root]",
	Short: "Report the category distribution of an organized folder",
	Long: `Report counts the PDFs under each category folder of root, including
subcategory folders, and prints each category's share of the total. When a
ledger is configured, the correctness score comes from the most recent
organize run recorded for root; otherwise it is 0.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("format", "text", "report format: text, table, yaml, json")
	reportCmd.Flags().String("oracle", "", "YAML file of hand-assigned labels to score correctness against")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd.Flags(), map[string]string{
		"format": "report.format",
		"oracle": "report.oracle",
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

	records, err := latestPlacements(cmd, cfg.Ledger, root)
	if err != nil {
		return err
	}
	return printReport(out, root, tax, cfg, records)
}

// latestPlacements loads the placements of the newest ledger run for root.
func latestPlacements(cmd *cobra.Command, cfg types.LedgerConfig, root string) ([]types.Placement, error) {
	store, err := openLedger(cfg)
	if err != nil || store == nil {
		return nil, err
	}
	defer store.Close()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	run, err := store.LatestRun(cmd.Context(), abs)
	if errors.Is(err, ledger.ErrRunNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run.Placements, nil
}
