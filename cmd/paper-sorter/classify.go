package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-sorter/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <filename>...",
	Short: "Show which folder each filename would be sorted into",
	Long: `Classify prints the category folder each filename matches without
touching the filesystem. Only the base name of each argument is matched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tax, err := loadTaxonomy(cfg.Sorter.TaxonomyPath)
	if err != nil {
		return err
	}
	c, err := classify.New(tax)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, arg := range args {
		name := filepath.Base(arg)
		fmt.Fprintf(out, "%s\t%s\n", name, c.Classify(name))
	}
	return nil
}
