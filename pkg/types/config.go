package types

// SorterConfig holds settings for the organize stage.
type SorterConfig struct {
	// Root is the directory whose top-level PDFs are organized in place.
	Root string `json:"root" yaml:"root" mapstructure:"root"`

	// TaxonomyPath points to a YAML or TOML taxonomy file. Empty selects
	// the built-in taxonomy.
	TaxonomyPath string `json:"taxonomy" yaml:"taxonomy" mapstructure:"taxonomy"`

	// Suffix is the filename suffix that marks a candidate (default ".pdf").
	Suffix string `json:"suffix" yaml:"suffix" mapstructure:"suffix"`

	// Workers bounds the number of files processed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Bootstrap creates every category and subcategory directory before
	// the batch starts.
	Bootstrap bool `json:"bootstrap" yaml:"bootstrap" mapstructure:"bootstrap"`
}

// ReportFormat selects how a report is rendered.
type ReportFormat string

const (
	FormatText  ReportFormat = "text"
	FormatTable ReportFormat = "table"
	FormatYAML  ReportFormat = "yaml"
	FormatJSON  ReportFormat = "json"
)

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// Format selects the output format: text, table, yaml, or json.
	Format ReportFormat `json:"format" yaml:"format" mapstructure:"format"`

	// OraclePath points to a hand-labeled YAML file of expected labels.
	// When set, correctness is scored against it instead of the matcher's
	// own decision.
	OraclePath string `json:"oracle,omitempty" yaml:"oracle,omitempty" mapstructure:"oracle"`
}

// LedgerConfig holds settings for the run ledger.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is one of auto, text, json. Auto picks text on a terminal.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings read from the config file, environment and flags.
type Config struct {
	Sorter SorterConfig `json:"sorter" yaml:"sorter" mapstructure:"sorter"`
	Report ReportConfig `json:"report" yaml:"report" mapstructure:"report"`
	Ledger LedgerConfig `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
