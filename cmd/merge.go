// =============================================================================
// Supplier Merge Tool - Merge Command
// =============================================================================
//
// This file defines the 'merge' command, the primary workflow of the tool.
// It merges one extract workbook (or every workbook in the input directory)
// into styled upload files.
//
// COMMAND USAGE:
//   suppliermerge merge --input extract.xlsx --pairs P:C[,P:C...]
//   suppliermerge merge --input extract.xlsx --pairs-file pairs.csv
//   suppliermerge merge --input extract.xlsx            # positional mode
//   suppliermerge merge                                 # whole input directory
//
// CLASSIFICATION MODES:
//   With --pairs or --pairs-file, each child is merged into its own named
//   parent. Without either flag, parents are detected by the positional
//   convention (fourth digit of the identifier is '3') and every child is
//   merged into the first parent found.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/merger"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/pairs"
	"github.com/ginjaninja78/XLSX-supplier-merge/pkg/utils"
)

var (
	mergeInput      string
	mergeOutput     string
	mergePairs      string
	mergePairsFile  string
	mergePositional bool
	mergeDryRun     bool
	mergeNoArchive  bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge supplier extracts into upload workbooks",
	Long: `Merge duplicate suppliers in extract workbooks into their canonical
parent records and write styled upload workbooks.

With --input, a single workbook is processed. Without it, every *.xlsx file
in the configured input directory is processed; processed files are moved to
the archive directory when archive_on_success is enabled in the config.

Classification requires either explicit pairs (--pairs / --pairs-file) or
--positional; requiring the choice keeps a forgotten --pairs flag from
silently merging a whole extract into one record.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeInput, "input", "i", "",
		"Extract workbook to process (default: scan the input directory)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "",
		"Output file path (single-input mode only; default: generated name in the output directory)")
	mergeCmd.Flags().StringVarP(&mergePairs, "pairs", "p", "",
		"Comma-separated parent:child pairs, e.g. 1000000003:1000000004")
	mergeCmd.Flags().StringVar(&mergePairsFile, "pairs-file", "",
		"CSV file of parent,child pairs (one pair per line)")
	mergeCmd.Flags().BoolVar(&mergePositional, "positional", false,
		"Classify by the positional convention (4th identifier digit '3' marks the parent)")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false,
		"Run the pipeline without writing output or archiving input")
	mergeCmd.Flags().BoolVar(&mergeNoArchive, "no-archive", false,
		"Leave processed inputs in place")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	pairList, err := loadPairs()
	if err != nil {
		return err
	}
	if err := checkClassificationFlags(len(pairList) > 0, mergePositional); err != nil {
		return err
	}

	inputs := []string{mergeInput}
	if mergeInput == "" {
		if mergeOutput != "" {
			return fmt.Errorf("--output requires --input")
		}
		fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		inputs, err = fm.DiscoverInputFiles()
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			logger.Info("No workbooks found in %s", cfg.InputDir)
			return nil
		}
	}

	failed := 0
	for _, input := range inputs {
		m := merger.New(merger.Options{
			InputPath:  input,
			OutputPath: mergeOutput,
			Pairs:      pairList,
			DryRun:     mergeDryRun,
			Archive:    !mergeNoArchive && !mergeDryRun && mergeInput == "",
		}, cfg, logger)

		result := m.Run()
		printResult(result)
		if !result.Success {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d workbooks failed", failed, len(inputs))
	}
	return nil
}

// checkClassificationFlags enforces that exactly one classification mode is
// selected. Positional mode merges everything into a single parent, so it
// must be asked for, never fallen into.
func checkClassificationFlags(havePairs, positional bool) error {
	if havePairs && positional {
		return fmt.Errorf("--positional cannot be combined with --pairs or --pairs-file")
	}
	if !havePairs && !positional {
		return fmt.Errorf("either --pairs/--pairs-file or --positional is required")
	}
	return nil
}

// loadPairs combines the --pairs and --pairs-file flags into one list.
func loadPairs() ([]pairs.Pair, error) {
	var list []pairs.Pair
	if mergePairs != "" {
		parsed, err := pairs.ParseList(mergePairs)
		if err != nil {
			return nil, err
		}
		list = append(list, parsed...)
	}
	if mergePairsFile != "" {
		parsed, err := pairs.ParseFile(mergePairsFile)
		if err != nil {
			return nil, err
		}
		list = append(list, parsed...)
	}
	return list, nil
}

func printResult(r merger.Result) {
	fmt.Println("--------------------------------------------------------------")
	fmt.Printf("Input:          %s\n", r.InputFile)
	if r.Success {
		if r.OutputFile != "" {
			fmt.Printf("Output:         %s\n", r.OutputFile)
		} else {
			fmt.Printf("Output:         (dry run)\n")
		}
		fmt.Printf("Sheets:         %d\n", r.Stats.SheetsProcessed)
		fmt.Printf("Rows scanned:   %d\n", r.Stats.RowsScanned)
		fmt.Printf("Parents:        %d\n", r.Stats.Parents)
		fmt.Printf("Children:       %d\n", r.Stats.Children)
		fmt.Printf("Cells changed:  %d\n", r.Stats.CellsChanged)
		fmt.Printf("Insert flags:   %d\n", r.Stats.RowsFlaggedInsert)
		fmt.Printf("Duration:       %s\n", r.Stats.ProcessingTime)
	} else {
		fmt.Printf("FAILED:         %v\n", r.Error)
	}
}
