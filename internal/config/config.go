// =============================================================================
// Supplier Merge Tool - Configuration Module
// =============================================================================
//
// This module loads the main application configuration from YAML. It covers
// two concerns:
//
//   1. Runtime settings: directories, output file naming, archival and
//      logging behavior.
//   2. Merge rules: the per-sheet column lists the mutators apply (clear,
//      fill-with-X, rename). Built-in defaults match the standard SAP
//      extract layout; sites whose extracts carry extra Z-fields can
//      override individual lists without a code change.
//
// A missing configuration file is not an error: the defaults describe the
// standard extract and a relative ./input, ./output layout.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// InputDir is scanned for *.xlsx extracts when --input is not given.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated upload workbooks.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives processed extracts when ArchiveOnSuccess is
	// set. Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputNameFormat names generated files. Placeholders:
	//   {name}      - input file name without extension
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - a random UUID
	// Default: "{name}_upload_{timestamp}_{uuid}.xlsx"
	OutputNameFormat string `yaml:"output_name_format"`

	// ArchiveOnSuccess moves the input extract into InputArchiveDir after a
	// successful run. Default: false
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// The --verbose flag forces "debug". Default: "info"
	LogLevel string `yaml:"log_level"`

	// Rules holds the per-sheet mutation column lists.
	Rules MergeRules `yaml:"rules"`
}

// =============================================================================
// MERGE RULES
// =============================================================================

// TableRules is the column-list triple one mutator applies to child rows.
type TableRules struct {
	// Clear lists columns set to the empty string.
	Clear []string `yaml:"clear"`

	// FillX lists flag columns set to the literal "X".
	FillX []string `yaml:"fill_x"`

	// Rename lists name columns set to "COMMON SUPPLIER <parent>".
	Rename []string `yaml:"rename"`
}

// MergeRules carries the rule triples for the sheets that have them. The
// association sheets (LFB1, LFM1, WYT3) run the reconciliation rule instead
// and take no column lists.
type MergeRules struct {
	// General is applied to child rows of "BUT000 - General".
	General TableRules `yaml:"general"`

	// GeneralReportFlags lists the report flag columns set to "X" on rows
	// that are NOT children (explicit-pairs mode only).
	GeneralReportFlags []string `yaml:"general_report_flags"`

	// Address is applied to child rows of "ADRC - Address".
	Address TableRules `yaml:"address"`

	// SupplierGeneral is applied to child rows of "LFA1 - Supplier General".
	SupplierGeneral TableRules `yaml:"supplier_general"`
}

// DefaultMergeRules returns the rule set of the standard extract layout.
func DefaultMergeRules() MergeRules {
	return MergeRules{
		General: TableRules{
			Clear: []string{
				"NAME_ORG2", "NAME_ORG3", "NAME_ORG4",
				"MC_NAME2", "MC_NAME3", "MC_NAME4",
				"ZGSTS_SLP_REP_FLG", "ZGSTS_CMT_REP_FLG", "ZGSTS_ATL_REP_FLG",
			},
			FillX:  []string{"ZGSTS_AVN_REP_FLG", "XDELE"},
			Rename: []string{"MC_NAME1", "NAME_ORG1"},
		},
		GeneralReportFlags: []string{"ZGSTS_CMT_REP_FLG", "ZGSTS_ATL_REP_FLG"},
		Address: TableRules{
			Rename: []string{"Name1"},
		},
		SupplierGeneral: TableRules{
			Clear:  []string{"NAME2", "NAME3", "NAME4"},
			FillX:  []string{"LOEVM", "SPERR", "SPERM"},
			Rename: []string{"NAME1"},
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// DefaultMainConfig returns the configuration used when no file is present.
func DefaultMainConfig() *MainConfig {
	cfg := &MainConfig{}
	applyDefaults(cfg)
	return cfg
}

// LoadMainConfig loads and validates the configuration from a YAML file.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg MainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadOrDefault loads the configuration file when it exists and falls back
// to the defaults when it does not. Any other read or parse failure is
// still an error.
func LoadOrDefault(configPath string) (*MainConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultMainConfig(), nil
	}
	return LoadMainConfig(configPath)
}

// applyDefaults fills unset options, including any rule list left empty.
func applyDefaults(cfg *MainConfig) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "{name}_upload_{timestamp}_{uuid}.xlsx"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	defaults := DefaultMergeRules()
	if rulesEmpty(cfg.Rules.General) {
		cfg.Rules.General = defaults.General
	}
	if len(cfg.Rules.GeneralReportFlags) == 0 {
		cfg.Rules.GeneralReportFlags = defaults.GeneralReportFlags
	}
	if rulesEmpty(cfg.Rules.Address) {
		cfg.Rules.Address = defaults.Address
	}
	if rulesEmpty(cfg.Rules.SupplierGeneral) {
		cfg.Rules.SupplierGeneral = defaults.SupplierGeneral
	}
}

func rulesEmpty(r TableRules) bool {
	return len(r.Clear) == 0 && len(r.FillX) == 0 && len(r.Rename) == 0
}
