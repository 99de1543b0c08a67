// =============================================================================
// Supplier Merge Tool - Workbook Reader
// =============================================================================
//
// This module loads an input extract into the in-memory table model. Every
// sheet is read fully before any mutation begins (no streaming), and every
// cell is read as raw text so no locale-specific numeric or date coercion
// can corrupt identifiers with leading zeros.
//
// ROW LAYOUT:
//   Row 1 of every sheet is an opaque preamble the exporting system writes
//   ahead of the real header. It is captured verbatim and reproduced in the
//   output. Row 2 is the header row; rows 3+ are data.
//
// The required sheet set is verified here, so a malformed extract fails
// before the engine touches anything.
//
// =============================================================================

package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/table"
)

// ReadFile loads an extract from disk.
func ReadFile(path string) (*table.Workbook, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()
	return readAll(f)
}

// Read loads an extract from a reader. Used when the caller already holds
// the workbook bytes (tests, service wrappers).
func Read(r io.Reader) (*table.Workbook, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readAll(f)
}

func readAll(f *excelize.File) (*table.Workbook, error) {
	var tables []*table.Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		var preamble, headers []string
		var data [][]string
		if len(rows) > 0 {
			preamble = rows[0]
		}
		if len(rows) > 1 {
			headers = rows[1]
		}
		if len(rows) > 2 {
			data = rows[2:]
		}
		tables = append(tables, table.New(sheet, preamble, headers, data))
	}

	wb := table.NewWorkbook(tables)
	for _, name := range table.RequiredSheets() {
		if wb.Get(name) == nil {
			return nil, &table.MissingSheetError{Sheet: name}
		}
	}
	return wb, nil
}
