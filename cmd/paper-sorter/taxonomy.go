package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-sorter/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Validate and print the effective taxonomy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tax, err := loadTaxonomy(cfg.Sorter.TaxonomyPath)
		if err != nil {
			return err
		}
		data, err := taxonomy.MarshalYAML(tax)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}
