// =============================================================================
// Supplier Merge Tool - Table Data Model
// =============================================================================
//
// This package contains the shared data model used across the pipeline to
// avoid import cycles. It is consumed by:
//   - registry  (classification needs the base sheet)
//   - merge     (mutators operate on tables)
//   - workbook  (reader produces tables, writer consumes them)
//   - merger    (orchestration)
//
// A Table is an ordered sequence of rows, each row a slice of string cells
// aligned with the header row. The pipeline never introduces numeric or date
// typing: every cell is a string or the empty string. Missing trailing cells
// in a ragged row read as "".
//
// =============================================================================

package table

import (
	"fmt"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// MissingSheetError indicates a required sheet is absent from the input
// workbook. This is fatal and aborts the run before any mutation.
type MissingSheetError struct {
	// Sheet is the exact sheet name that was expected.
	Sheet string
}

// Error implements the error interface.
func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("missing required sheet: %s", e.Sheet)
}

// ColumnNotFoundError indicates a logical column could not be resolved to any
// header of a table. For required sheets this is fatal; callers resolving
// optional columns catch it with errors.As and degrade.
type ColumnNotFoundError struct {
	// Sheet is the name of the table that was searched.
	Sheet string

	// Column is the logical column name that could not be resolved.
	Column string
}

// Error implements the error interface.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in sheet %q", e.Column, e.Sheet)
}

// =============================================================================
// TABLE
// =============================================================================

// Table is one sheet of the extract: a preserved preamble row, a header row,
// and data rows. Cell values are always strings.
type Table struct {
	// Name is the exact sheet name from the input workbook.
	Name string

	// Preamble is the original first physical row of the sheet, reproduced
	// verbatim ahead of the processed header and data in the output.
	Preamble []string

	// Headers is the header row (second physical row of the sheet).
	Headers []string

	// Rows holds the data rows (third physical row onward). Rows may be
	// shorter than Headers; missing cells read as "".
	Rows [][]string

	// index maps the exact header string to its position in Headers.
	// Rebuilt whenever the header row changes.
	index map[string]int
}

// New creates a Table and builds its header index.
func New(name string, preamble, headers []string, rows [][]string) *Table {
	t := &Table{
		Name:     name,
		Preamble: preamble,
		Headers:  headers,
		Rows:     rows,
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		// First occurrence wins for duplicate headers.
		if _, exists := t.index[h]; !exists {
			t.index[h] = i
		}
	}
}

// =============================================================================
// HEADER NORMALIZER
// =============================================================================

// NormalizeHeaders standardizes the header row in place: non-breaking spaces
// become plain spaces and leading/trailing whitespace is removed. Downstream
// column lookups are thereby robust to cosmetic header drift in exports.
func (t *Table) NormalizeHeaders() {
	for i, h := range t.Headers {
		t.Headers[i] = NormalizeHeader(h)
	}
	t.reindex()
}

// NormalizeHeader normalizes a single header string.
func NormalizeHeader(h string) string {
	h = strings.ReplaceAll(h, " ", " ")
	return strings.TrimSpace(h)
}

// =============================================================================
// COLUMN RESOLVER
// =============================================================================

// foldColumn is the comparison fold for column resolution: lowercase with all
// spaces removed, so "Source_ID", "source_id" and "Source _ID" all match.
func foldColumn(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}

// FindColumn resolves a logical column name to the actual header string,
// case- and space-insensitively. The first header matching under the fold
// wins. Returns *ColumnNotFoundError when no header matches.
func (t *Table) FindColumn(target string) (string, error) {
	want := foldColumn(target)
	for _, h := range t.Headers {
		if foldColumn(h) == want {
			return h, nil
		}
	}
	return "", &ColumnNotFoundError{Sheet: t.Name, Column: target}
}

// HasColumn reports whether the exact header exists in the table.
func (t *Table) HasColumn(header string) bool {
	_, ok := t.index[header]
	return ok
}

// EnsureColumn appends a new empty column when the exact header is absent,
// and returns the header name either way. Appending a column is not itself a
// mutation; only subsequent cell writes into it are.
func (t *Table) EnsureColumn(header string) string {
	if _, ok := t.index[header]; ok {
		return header
	}
	t.Headers = append(t.Headers, header)
	t.index[header] = len(t.Headers) - 1
	return header
}

// =============================================================================
// CELL ACCESS
// =============================================================================

// Cell returns the value at (row, header). Unknown headers and cells beyond
// the end of a ragged row read as "".
func (t *Table) Cell(row int, header string) string {
	col, ok := t.index[header]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// SetCell writes the value at (row, header), growing the row as needed.
// Writes to unknown headers are ignored; mutators only write to columns they
// resolved or created beforehand.
func (t *Table) SetCell(row int, header, value string) {
	col, ok := t.index[header]
	if !ok || row < 0 || row >= len(t.Rows) {
		return
	}
	r := t.Rows[row]
	if col >= len(r) {
		grown := make([]string, col+1)
		copy(grown, r)
		r = grown
		t.Rows[row] = r
	}
	r[col] = value
}

// ColumnIndex returns the position of the exact header in the header row,
// or -1 when absent. Used by the writer to translate ledger entries into
// workbook coordinates after columns have been appended.
func (t *Table) ColumnIndex(header string) int {
	col, ok := t.index[header]
	if !ok {
		return -1
	}
	return col
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is the full set of sheets from one input file, in file order.
// Sheets the pipeline does not know are carried through untouched.
type Workbook struct {
	// Tables holds every sheet in original file order.
	Tables []*Table

	byName map[string]*Table
}

// NewWorkbook builds a workbook from tables, preserving their order.
func NewWorkbook(tables []*Table) *Workbook {
	wb := &Workbook{
		Tables: tables,
		byName: make(map[string]*Table, len(tables)),
	}
	for _, t := range tables {
		wb.byName[t.Name] = t
	}
	return wb
}

// Get returns the named sheet, or nil when absent. Used for optional sheets.
func (w *Workbook) Get(name string) *Table {
	return w.byName[name]
}

// Require returns the named sheet or a *MissingSheetError.
func (w *Workbook) Require(name string) (*Table, error) {
	t := w.byName[name]
	if t == nil {
		return nil, &MissingSheetError{Sheet: name}
	}
	return t, nil
}
