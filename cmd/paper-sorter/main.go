// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-sorter CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-sorter/internal/ledger"
	"github.com/pdiddy/paper-sorter/internal/logging"
	"github.com/pdiddy/paper-sorter/internal/taxonomy"
	"github.com/pdiddy/paper-sorter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the paper-sorter CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-sorter",
	Short: "Sort a folder of PDFs into a category tree by filename keywords",
	Long: `paper-sorter moves the PDF files found directly in a root folder into
category and subcategory folders chosen by whole-word keyword matches on the
filename, then reports how the files are distributed across categories.

Files that match no keyword go to the Others folder. Running organize again
over an already sorted folder moves nothing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(viper.GetString("log.format"), logging.ParseLevel(viper.GetString("log.level")))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paper-sorter.yaml or ~/.config/paper-sorter/config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "auto", "log format: auto, text, json")
	pf.String("taxonomy", "", "taxonomy file (.yaml or .toml); built-in taxonomy when empty")
	pf.String("suffix", ".pdf", "filename suffix of files to sort and count")
	pf.String("ledger", "", "SQLite run ledger; disabled when empty")
}

// persistentKeys maps root flags to config keys.
var persistentKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"taxonomy":   "sorter.taxonomy",
	"suffix":     "sorter.suffix",
	"ledger":     "ledger.path",
}

func initConfig() {
	if err := bindFlags(rootCmd.PersistentFlags(), persistentKeys); err != nil {
		slog.Warn("binding flags to config keys", slog.Any("error", err))
	}

	viper.SetDefault("sorter.suffix", ".pdf")
	viper.SetDefault("sorter.workers", 1)
	viper.SetDefault("sorter.bootstrap", true)
	viper.SetDefault("report.format", string(types.FormatText))
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "auto")

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-sorter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-sorter"))
		}
	}

	viper.SetEnvPrefix("PAPER_SORTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds command-local flags to config keys. Several commands share
// keys, so binding happens when a command runs rather than at init.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig decodes the merged config file, environment and flags.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// loadTaxonomy returns the taxonomy at path, or the built-in one.
func loadTaxonomy(path string) (types.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.Load(path)
}

// openLedger opens the configured ledger; it returns nil when none is set.
func openLedger(cfg types.LedgerConfig) (*ledger.Store, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	return ledger.Open(cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
