package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List organize runs recorded in the ledger",
	Long: `History lists recent organize runs from the ledger. With --run, it prints
every placement and failure recorded for that run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().String("run", "", "show the placements of one run")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openLedger(cfg.Ledger)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("no ledger configured (use --ledger or ledger.path)")
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	runID, _ := cmd.Flags().GetString("run")
	if runID != "" {
		run, err := store.Run(cmd.Context(), runID)
		if err != nil {
			return fmt.Errorf("loading run %s: %w", runID, err)
		}
		fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.Root)
		fmt.Fprintln(out, placementsTable(run))
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintln(out, runsTable(runs))
	return nil
}
