// =============================================================================
// Supplier Merge Tool - Workbook Writer
// =============================================================================
//
// The writer rebuilds a fresh workbook from the in-memory tables rather than
// editing the input file in place, so the output carries none of the source
// file's defined names, macros, or stale styling. Every cell is written as a
// string to preserve identifiers exactly as the engine left them.
//
// STYLING CONTRACT:
//   - Every cell the ledger records as changed gets a solid yellow fill.
//   - Sheets outside the visible allow-list are hidden, never deleted.
//   - On the general and address sheets only the changed columns plus the
//     source identifier column stay visible; audit columns on the partner
//     function sheet are hidden by name.
//   - The preamble and header rows of every sheet get a bordered tan banner.
//
// =============================================================================

package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/merge"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/table"
)

const (
	highlightColor = "FFFF00"
	bannerColor    = "DBD5BF"

	// Data rows start on the third physical row: preamble, header, data.
	dataRowOffset = 3
)

// Audit columns hidden on the partner function sheet.
var partnerHiddenColumns = map[string]bool{
	"ERNAM": true,
	"ERDAT": true,
	"LIFN2": true,
	"LIFNR": true,
}

// WriteFile assembles the styled output workbook and saves it to path,
// creating parent directories as needed.
func WriteFile(wb *table.Workbook, ledger *merge.Ledger, path string) error {
	f, err := build(wb, ledger)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func build(wb *table.Workbook, ledger *merge.Ledger) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, t := range wb.Tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", t.Name, err)
		}
		if err := writeTable(f, t); err != nil {
			return nil, err
		}
	}

	if err := applyHighlights(f, wb, ledger); err != nil {
		return nil, err
	}
	if err := applyBanners(f, wb); err != nil {
		return nil, err
	}
	if err := applyColumnVisibility(f, wb, ledger); err != nil {
		return nil, err
	}
	if err := applySheetVisibility(f); err != nil {
		return nil, err
	}
	return f, nil
}

func writeTable(f *excelize.File, t *table.Table) error {
	writeRow := func(rowNum int, cells []string) error {
		for c, v := range cells {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(t.Name, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", t.Name, cell, err)
			}
		}
		return nil
	}

	if err := writeRow(1, t.Preamble); err != nil {
		return err
	}
	if err := writeRow(2, t.Headers); err != nil {
		return err
	}
	for r, row := range t.Rows {
		if err := writeRow(r+dataRowOffset, row); err != nil {
			return err
		}
	}
	return nil
}

func applyHighlights(f *excelize.File, wb *table.Workbook, ledger *merge.Ledger) error {
	if ledger == nil || ledger.Len() == 0 {
		return nil
	}
	styleID, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{highlightColor}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}

	for _, m := range ledger.Entries() {
		t := wb.Get(m.Sheet)
		if t == nil {
			continue
		}
		col := t.ColumnIndex(m.Column)
		if col < 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, m.Row+dataRowOffset)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(m.Sheet, cell, cell, styleID); err != nil {
			return fmt.Errorf("failed to highlight %s!%s: %w", m.Sheet, cell, err)
		}
	}
	return nil
}

func applyBanners(f *excelize.File, wb *table.Workbook) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	styleID, err := f.NewStyle(&excelize.Style{
		Border: border,
		Fill:   excelize.Fill{Type: "pattern", Color: []string{bannerColor}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create banner style: %w", err)
	}

	for _, t := range wb.Tables {
		width := len(t.Headers)
		if len(t.Preamble) > width {
			width = len(t.Preamble)
		}
		if width == 0 {
			continue
		}
		last, err := excelize.CoordinatesToCellName(width, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(t.Name, "A1", last, styleID); err != nil {
			return fmt.Errorf("failed to style banner on %s: %w", t.Name, err)
		}
	}
	return nil
}

func applyColumnVisibility(f *excelize.File, wb *table.Workbook, ledger *merge.Ledger) error {
	for _, t := range wb.Tables {
		switch t.Name {
		case table.SheetGeneral, table.SheetAddress:
			if err := hideUnchangedColumns(f, t, ledger); err != nil {
				return err
			}
		case table.SheetPartnerFunction:
			if err := hideNamedColumns(f, t, partnerHiddenColumns); err != nil {
				return err
			}
		}
	}
	return nil
}

// hideUnchangedColumns keeps only the columns the ledger touched, plus any
// column whose header names the source identifier. Everything else is hidden
// so a reviewer opens straight onto the cells that moved.
func hideUnchangedColumns(f *excelize.File, t *table.Table, ledger *merge.Ledger) error {
	keep := make(map[string]bool)
	if ledger != nil {
		for _, col := range ledger.ChangedColumns(t.Name) {
			keep[col] = true
		}
	}
	for idx, h := range t.Headers {
		if h == "" {
			continue
		}
		if keep[h] || isSourceIDHeader(h) {
			continue
		}
		if err := hideColumn(f, t.Name, idx); err != nil {
			return err
		}
	}
	return nil
}

func hideNamedColumns(f *excelize.File, t *table.Table, hidden map[string]bool) error {
	for idx, h := range t.Headers {
		if !hidden[strings.ToUpper(strings.TrimSpace(h))] {
			continue
		}
		if err := hideColumn(f, t.Name, idx); err != nil {
			return err
		}
	}
	return nil
}

func hideColumn(f *excelize.File, sheet string, idx int) error {
	name, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return err
	}
	if err := f.SetColVisible(sheet, name, false); err != nil {
		return fmt.Errorf("failed to hide column %s on %s: %w", name, sheet, err)
	}
	return nil
}

func isSourceIDHeader(header string) bool {
	h := strings.ToLower(header)
	return strings.Contains(h, "source") && strings.Contains(h, "id")
}

func applySheetVisibility(f *excelize.File) error {
	visible := make(map[string]bool)
	for _, name := range table.VisibleSheets() {
		visible[name] = true
	}
	active := -1
	for _, name := range f.GetSheetList() {
		if visible[name] {
			if active < 0 {
				active, _ = f.GetSheetIndex(name)
			}
			continue
		}
		if err := f.SetSheetVisible(name, false); err != nil {
			return fmt.Errorf("failed to hide sheet %s: %w", name, err)
		}
	}
	if active >= 0 {
		f.SetActiveSheet(active)
	}
	return nil
}
