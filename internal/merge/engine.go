// =============================================================================
// Supplier Merge Tool - Merge Engine
// =============================================================================
//
// The engine applies the merge to an in-memory workbook: for every row
// belonging to a child identifier it runs the sheet's configured
// clear/fill/rename rules, and on the association sheets (company code,
// purchasing org, partner function) it runs the reconciliation rule that
// decides whether a child's association must be inserted under the parent.
//
// CELL-WRITE CONTRACT:
//   A cell is written, and its location recorded in the ledger, only when
//   the trimmed new value differs from the trimmed old value. Writing an
//   empty string over an already-blank cell is a no-op: re-running the
//   engine over its own output produces zero new mutations.
//
// ERROR CONTRACT:
//   - Missing required sheet: fatal, surfaced before any mutation (checked
//     by the reader; Run re-checks via Workbook.Require).
//   - Missing required column on a required sheet: fatal.
//   - Missing column on an optional sheet: that sheet's logic is skipped
//     with a warning and the run continues.
//
// =============================================================================

package merge

import (
	"errors"
	"strings"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/config"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/registry"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/table"
)

// Column names shared by the association sheets.
const (
	// ActionCodeColumn is created on association sheets; "I" marks a row
	// that must be inserted under the parent identifier.
	ActionCodeColumn = "_ACTION_CODE"

	// DefaultPartnerColumn is created on the partner function sheet; "X"
	// marks the default partner rows (PARVW == "LF").
	DefaultPartnerColumn = "DEFPA"

	// sourceIDColumn is the logical identifier column present on every
	// processed sheet, resolved case- and space-insensitively.
	sourceIDColumn = "Source_ID"

	// namePrefix is the canonical replacement name prefix for child rows.
	namePrefix = "COMMON SUPPLIER "
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs the per-sheet mutators for one merge.
type Engine struct {
	reg      *registry.Registry
	rules    config.MergeRules
	ledger   *Ledger
	logger   Logger
	inserted int
}

// NewEngine creates an engine for one run. A nil logger discards output.
func NewEngine(reg *registry.Registry, rules config.MergeRules, logger Logger) *Engine {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Engine{
		reg:    reg,
		rules:  rules,
		ledger: NewLedger(),
		logger: logger,
	}
}

// Ledger returns the mutation ledger. Read-only for callers.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// InsertCount returns how many association rows were flagged for insertion.
func (e *Engine) InsertCount() int {
	return e.inserted
}

// Run applies all sheet mutators to the workbook in place.
func (e *Engine) Run(wb *table.Workbook) error {
	general, err := wb.Require(table.SheetGeneral)
	if err != nil {
		return err
	}
	if err := e.applyGeneral(general); err != nil {
		return err
	}

	address, err := wb.Require(table.SheetAddress)
	if err != nil {
		return err
	}
	if err := e.applyRules(address, e.rules.Address); err != nil {
		return err
	}

	supplier, err := wb.Require(table.SheetSupplierGeneral)
	if err != nil {
		return err
	}
	if err := e.applyRules(supplier, e.rules.SupplierGeneral); err != nil {
		return err
	}

	companyCode, err := wb.Require(table.SheetCompanyCode)
	if err != nil {
		return err
	}
	e.logger.Info("updating %s", companyCode.Name)
	companyCode.NormalizeHeaders()
	if err := e.reconcile(companyCode, "BUKRS"); err != nil {
		return err
	}

	if t := wb.Get(table.SheetPurchasingOrg); t != nil {
		e.logger.Info("updating %s", t.Name)
		t.NormalizeHeaders()
		if err := e.reconcile(t, "EKORG"); err != nil {
			if colErr, ok := asColumnNotFound(err); ok {
				e.logger.Warn("%v: skipping %s", colErr, t.Name)
			} else {
				return err
			}
		}
	} else {
		e.logger.Info("%s not found (skipped)", table.SheetPurchasingOrg)
	}

	if t := wb.Get(table.SheetPartnerFunction); t != nil {
		e.logger.Info("updating %s", t.Name)
		t.NormalizeHeaders()
		if err := e.applyPartnerFunction(t); err != nil {
			if colErr, ok := asColumnNotFound(err); ok {
				e.logger.Warn("%v: skipping %s", colErr, t.Name)
			} else {
				return err
			}
		}
	} else {
		e.logger.Info("%s not found (skipped)", table.SheetPartnerFunction)
	}

	return nil
}

// =============================================================================
// GENERAL SHEET MUTATOR
// =============================================================================

// applyGeneral handles the party master sheet. Child rows get the configured
// clear/fill/rename triple; all other rows get the report flags set to "X",
// but only in explicit-pairs mode: the legacy positional entry point never
// touched non-child rows.
func (e *Engine) applyGeneral(t *table.Table) error {
	e.logger.Info("updating %s", t.Name)
	t.NormalizeHeaders()

	srcCol, err := t.FindColumn(sourceIDColumn)
	if err != nil {
		return err
	}

	clearCols := e.resolveColumns(t, e.rules.General.Clear)
	fillCols := e.resolveColumns(t, e.rules.General.FillX)
	renameCols, err := e.requireColumns(t, e.rules.General.Rename)
	if err != nil {
		return err
	}
	reportCols := e.resolveColumns(t, e.rules.GeneralReportFlags)
	markNonChildren := e.reg.Mode() == registry.ModeExplicit

	for i := range t.Rows {
		sid := strings.TrimSpace(t.Cell(i, srcCol))
		if e.reg.IsChild(sid) {
			name := namePrefix + e.reg.ParentOf(sid)
			for _, col := range clearCols {
				e.update(t, i, col, "")
			}
			for _, col := range fillCols {
				e.update(t, i, col, "X")
			}
			for _, col := range renameCols {
				e.update(t, i, col, name)
			}
		} else if markNonChildren {
			for _, col := range reportCols {
				e.update(t, i, col, "X")
			}
		}
	}
	return nil
}

// =============================================================================
// GENERIC RULE MUTATOR
// =============================================================================

// applyRules runs a clear/fill/rename triple over the child rows of a sheet.
// Used for the address and supplier general sheets, which have no special
// cases beyond the triple itself.
func (e *Engine) applyRules(t *table.Table, rules config.TableRules) error {
	e.logger.Info("updating %s", t.Name)
	t.NormalizeHeaders()

	srcCol, err := t.FindColumn(sourceIDColumn)
	if err != nil {
		return err
	}

	clearCols := e.resolveColumns(t, rules.Clear)
	fillCols := e.resolveColumns(t, rules.FillX)
	renameCols, err := e.requireColumns(t, rules.Rename)
	if err != nil {
		return err
	}

	for i := range t.Rows {
		sid := strings.TrimSpace(t.Cell(i, srcCol))
		if !e.reg.IsChild(sid) {
			continue
		}
		name := namePrefix + e.reg.ParentOf(sid)
		for _, col := range clearCols {
			e.update(t, i, col, "")
		}
		for _, col := range fillCols {
			e.update(t, i, col, "X")
		}
		for _, col := range renameCols {
			e.update(t, i, col, name)
		}
	}
	return nil
}

// =============================================================================
// RECONCILIATION RULE
// =============================================================================

// reconcile merges a child's organizational-unit associations into its
// parent without duplicating existing ones. The per-identifier code sets are
// snapshotted from the sheet's current state before any rewrite: rows
// redirected during this pass do not extend the parent's set within the same
// pass.
//
// For each child row with a non-blank code value absent from the parent's
// set, the row is flagged _ACTION_CODE="I" and its identifier rewritten to
// the parent. Rows whose code is blank or already associated with the parent
// stay untouched.
func (e *Engine) reconcile(t *table.Table, codeColumn string) error {
	srcCol, err := t.FindColumn(sourceIDColumn)
	if err != nil {
		return err
	}
	codeCol, err := t.FindColumn(codeColumn)
	if err != nil {
		return err
	}
	actionCol := t.EnsureColumn(ActionCodeColumn)

	codeSets := collectCodeSets(t, srcCol, codeCol)

	for i := range t.Rows {
		sid := strings.TrimSpace(t.Cell(i, srcCol))
		if !e.reg.IsChild(sid) {
			continue
		}
		code := strings.TrimSpace(t.Cell(i, codeCol))
		if code == "" {
			continue
		}
		parent := e.reg.ParentOf(sid)
		if codeSets[parent][code] {
			continue
		}
		e.update(t, i, actionCol, "I")
		e.update(t, i, srcCol, parent)
		e.inserted++
	}
	return nil
}

// collectCodeSets groups the distinct trimmed, non-blank code values of a
// sheet by identifier.
func collectCodeSets(t *table.Table, srcCol, codeCol string) map[string]map[string]bool {
	sets := make(map[string]map[string]bool)
	for i := range t.Rows {
		sid := strings.TrimSpace(t.Cell(i, srcCol))
		code := strings.TrimSpace(t.Cell(i, codeCol))
		if sid == "" || code == "" {
			continue
		}
		if sets[sid] == nil {
			sets[sid] = make(map[string]bool)
		}
		sets[sid][code] = true
	}
	return sets
}

// =============================================================================
// PARTNER FUNCTION SHEET MUTATOR
// =============================================================================

// applyPartnerFunction runs the reconciliation rule on the partner function
// sheet and additionally marks every "LF" (vendor) partner row as the
// default partner, regardless of parent/child classification.
func (e *Engine) applyPartnerFunction(t *table.Table) error {
	if err := e.reconcile(t, "EKORG"); err != nil {
		return err
	}

	defpaCol := t.EnsureColumn(DefaultPartnerColumn)
	parvwCol, err := t.FindColumn("PARVW")
	if err != nil {
		// No partner role column: the default-partner rule has nothing to
		// key on, reconciliation above still applies.
		e.logger.Warn("%v: default partner flag not set", err)
		return nil
	}

	for i := range t.Rows {
		if strings.EqualFold(strings.TrimSpace(t.Cell(i, parvwCol)), "LF") {
			e.update(t, i, defpaCol, "X")
		}
	}
	return nil
}

// =============================================================================
// CELL WRITE
// =============================================================================

// update writes a value into (row, header) and records the mutation, unless
// the trimmed old and new values already agree or the header is absent from
// the sheet. Absent headers are silently skipped: input schemas drift and a
// configured column is not guaranteed on every extract.
func (e *Engine) update(t *table.Table, row int, header, value string) {
	if !t.HasColumn(header) {
		return
	}
	old := t.Cell(row, header)
	if strings.TrimSpace(old) == strings.TrimSpace(value) {
		return
	}
	t.SetCell(row, header, value)
	e.ledger.Record(Mutation{Sheet: t.Name, Row: row, Column: header})
}

// resolveColumns maps configured logical column names to actual headers,
// dropping the ones the sheet does not carry. Used for the clear and fill
// lists, where input schemas drift and an absent flag column is normal.
func (e *Engine) resolveColumns(t *table.Table, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		col, err := t.FindColumn(name)
		if err != nil {
			e.logger.Debug("%s: column %q not present, skipped", t.Name, name)
			continue
		}
		out = append(out, col)
	}
	return out
}

// requireColumns resolves every configured column name or fails with the
// first *ColumnNotFoundError. Used for the rename lists: a required sheet
// missing its name column cannot produce a correct upload, so the run must
// abort rather than silently skip the rename.
func (e *Engine) requireColumns(t *table.Table, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		col, err := t.FindColumn(name)
		if err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, nil
}

func asColumnNotFound(err error) (*table.ColumnNotFoundError, bool) {
	var colErr *table.ColumnNotFoundError
	if errors.As(err, &colErr) {
		return colErr, true
	}
	return nil, false
}
