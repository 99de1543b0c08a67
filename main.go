// =============================================================================
// Supplier Merge Tool - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Supplier Merge Tool CLI. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   suppliermerge merge      - Merge extract workbooks into upload files
//   suppliermerge validate   - Check a workbook and pair list without merging
//   suppliermerge version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core business logic (not for external import)
//   - pkg/       : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/XLSX-supplier-merge/cmd"
)

func main() {
	cmd.Execute()
}
