// =============================================================================
// Supplier Merge Tool - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'merge', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (suppliermerge)
//   ├── mergeCmd    (suppliermerge merge)
//   ├── validateCmd (suppliermerge validate)
//   └── versionCmd  (suppliermerge version)
//
// The root command owns the global flags (--config, --verbose) and the lazy
// configuration loader shared by the subcommands.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/config"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/merge"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "suppliermerge",
	Short: "Supplier Merge Tool - Merge supplier master extracts into upload workbooks",
	Long: `Supplier Merge Tool consolidates duplicate supplier records in SAP-style
multi-sheet xlsx extracts into a single canonical supplier, producing a
styled upload workbook in which every changed cell is highlighted.

Key Features:
  - Explicit parent:child pairs or positional parent detection
  - Canonical identity and name propagation across all sheets
  - Company code and purchasing org reconciliation with insert flags
  - Review-ready output: changed cells highlighted, noise sheets hidden

Example Usage:
  suppliermerge merge --input extract.xlsx --pairs 1000000003:1000000004
  suppliermerge merge                        # Process the input directory
  suppliermerge validate --input extract.xlsx`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose (debug) logging",
	)
}

// loadConfig loads the main configuration, falling back to built-in
// defaults when the file does not exist.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger every subcommand uses.
func newLogger() merge.Logger {
	return &merge.StdoutLogger{Verbose: verbose}
}
