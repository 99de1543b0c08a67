// =============================================================================
// Supplier Merge Tool - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks an extract workbook
// and an optional pair list without producing any output. It is the safe
// preflight before a real merge: it confirms the required sheets and columns
// exist and that every pair refers to a real, unambiguous identifier.
//
// COMMAND USAGE:
//   suppliermerge validate --input extract.xlsx
//   suppliermerge validate --input extract.xlsx --pairs 1000000003:1000000004
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/pairs"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/table"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/workbook"
)

var (
	validateInput     string
	validatePairs     string
	validatePairsFile string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an extract workbook and pair list without merging",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "",
		"Extract workbook to validate (required)")
	validateCmd.Flags().StringVarP(&validatePairs, "pairs", "p", "",
		"Comma-separated parent:child pairs to validate against the workbook")
	validateCmd.Flags().StringVar(&validatePairsFile, "pairs-file", "",
		"CSV file of parent,child pairs to validate")
	validateCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	wb, err := workbook.ReadFile(validateInput)
	if err != nil {
		return err
	}
	fmt.Printf("Workbook OK: all %d required sheets present\n", len(table.RequiredSheets()))
	for _, name := range table.OptionalSheets() {
		if wb.Get(name) != nil {
			fmt.Printf("Optional sheet present: %s\n", name)
		}
	}

	base := wb.Get(table.SheetGeneral)
	base.NormalizeHeaders()
	sourceCol, err := base.FindColumn("Source_ID")
	if err != nil {
		return err
	}
	known := make(map[string]bool)
	for r := range base.Rows {
		if id := strings.TrimSpace(base.Cell(r, sourceCol)); id != "" {
			known[id] = true
		}
	}
	fmt.Printf("Identifiers on %s: %d\n", table.SheetGeneral, len(known))

	var list []pairs.Pair
	if validatePairs != "" {
		parsed, err := pairs.ParseList(validatePairs)
		if err != nil {
			return err
		}
		list = append(list, parsed...)
	}
	if validatePairsFile != "" {
		parsed, err := pairs.ParseFile(validatePairsFile)
		if err != nil {
			return err
		}
		list = append(list, parsed...)
	}
	if len(list) == 0 {
		fmt.Println("No pairs given; a merge would use positional classification")
		return nil
	}

	if verrs := pairs.Validate(list, known); len(verrs) > 0 {
		for _, ve := range verrs {
			fmt.Printf("INVALID: %s\n", ve.Error())
		}
		return fmt.Errorf("%d invalid pairs", len(verrs))
	}
	fmt.Printf("Pairs OK: %d pairs validated\n", len(list))
	return nil
}
