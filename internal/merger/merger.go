// =============================================================================
// Supplier Merge Tool - Merger Module
// =============================================================================
//
// This module contains the core orchestration logic. It runs the entire
// merge pipeline for a single extract workbook, from loading to writing the
// styled upload file.
//
// MERGE PIPELINE:
//   1. Load the extract workbook into memory
//   2. Classify supplier identifiers as parents or children
//      (explicit parent:child pairs, or positional when no pairs are given)
//   3. Annotate purchasing-org roles from the role sheet
//   4. Run the merge engine: identity propagation, org-unit reconciliation,
//      partner-function defaults
//   5. Write the styled output workbook
//   6. Archive the processed input
//
// A dry run stops after step 4 and reports what would have changed.
//
// =============================================================================

package merger

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/config"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/merge"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/pairs"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/registry"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/table"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/workbook"
	"github.com/ginjaninja78/XLSX-supplier-merge/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single workbook.
type Result struct {
	// InputFile is the path to the extract that was processed.
	InputFile string

	// OutputFile is the path to the generated upload workbook.
	// Empty if processing failed or the run was a dry run.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the merge.
type ProcessingStats struct {
	// RowsScanned is the number of data rows read across all sheets.
	RowsScanned int

	// SheetsProcessed is the number of sheets the engine touched.
	SheetsProcessed int

	// CellsChanged is the number of distinct cells the engine rewrote.
	CellsChanged int

	// RowsFlaggedInsert is the number of rows marked for insert during
	// org-unit reconciliation.
	RowsFlaggedInsert int

	// Parents and Children are the classification counts.
	Parents  int
	Children int

	// ProcessingTime is the time taken to process the workbook.
	ProcessingTime time.Duration
}

// =============================================================================
// MERGER STRUCTURE
// =============================================================================

// Options configures a single merge run.
type Options struct {
	// InputPath is the extract workbook to process.
	InputPath string

	// OutputPath overrides the generated output file name. When empty the
	// name is derived from the main config's OutputNameFormat.
	OutputPath string

	// Pairs holds explicit parent:child pairs. When empty the merger falls
	// back to positional classification from the general sheet.
	Pairs []pairs.Pair

	// DryRun runs the full pipeline but writes no output and archives
	// nothing.
	DryRun bool

	// Archive moves the input to the archive directory after a successful
	// run.
	Archive bool
}

// Merger handles the merge of a single extract workbook.
type Merger struct {
	opts   Options
	cfg    *config.MainConfig
	logger merge.Logger
}

// New creates a new Merger instance.
func New(opts Options, cfg *config.MainConfig, logger merge.Logger) *Merger {
	if cfg == nil {
		cfg = config.DefaultMainConfig()
	}
	if logger == nil {
		logger = merge.NopLogger{}
	}
	return &Merger{opts: opts, cfg: cfg, logger: logger}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the merge pipeline for the workbook.
func (m *Merger) Run() Result {
	startTime := time.Now()
	result := Result{
		InputFile: m.opts.InputPath,
		Success:   false,
	}

	m.logger.Info("Processing workbook: %s", m.opts.InputPath)

	// =========================================================================
	// STEP 1: LOAD WORKBOOK
	// =========================================================================

	wb, err := workbook.ReadFile(m.opts.InputPath)
	if err != nil {
		result.Error = err
		return result
	}
	for _, t := range wb.Tables {
		result.Stats.RowsScanned += len(t.Rows)
	}

	// =========================================================================
	// STEP 2: CLASSIFY IDENTIFIERS
	// =========================================================================

	reg, err := m.classify(wb)
	if err != nil {
		result.Error = err
		return result
	}
	parents, children := reg.Counts()
	result.Stats.Parents = parents
	result.Stats.Children = children
	m.logger.Info("Classified %d parents, %d children (%s mode)",
		parents, children, reg.Mode())

	// =========================================================================
	// STEP 3: ANNOTATE ROLES
	// =========================================================================

	role, err := wb.Require(table.SheetRole)
	if err != nil {
		result.Error = err
		return result
	}
	if err := reg.AnnotateRoles(role); err != nil {
		result.Error = fmt.Errorf("failed to annotate roles: %w", err)
		return result
	}

	// =========================================================================
	// STEP 4: RUN THE MERGE ENGINE
	// =========================================================================

	engine := merge.NewEngine(reg, m.cfg.Rules, m.logger)
	if err := engine.Run(wb); err != nil {
		result.Error = err
		return result
	}
	result.Stats.CellsChanged = engine.Ledger().Len()
	result.Stats.RowsFlaggedInsert = engine.InsertCount()
	result.Stats.SheetsProcessed = sheetsPresent(wb)

	if m.opts.DryRun {
		m.logger.Info("Dry run: %d cells would change, %d rows flagged for insert",
			result.Stats.CellsChanged, result.Stats.RowsFlaggedInsert)
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// =========================================================================
	// STEP 5: WRITE OUTPUT
	// =========================================================================

	outputPath := m.opts.OutputPath
	if outputPath == "" {
		name := utils.GenerateOutputFileName(m.cfg.OutputNameFormat, map[string]string{
			"name": utils.BaseName(m.opts.InputPath),
		})
		outputPath = filepath.Join(m.cfg.OutputDir, name)
	}
	if err := workbook.WriteFile(wb, engine.Ledger(), outputPath); err != nil {
		result.Error = err
		return result
	}
	result.OutputFile = outputPath
	m.logger.Info("Wrote %s (%d cells changed)", outputPath, result.Stats.CellsChanged)

	// =========================================================================
	// STEP 6: ARCHIVE INPUT
	// =========================================================================

	if m.opts.Archive {
		fm := utils.NewFileManager(m.cfg.InputDir, m.cfg.OutputDir, m.cfg.InputArchiveDir)
		fm.ArchiveOnSuccess = m.cfg.ArchiveOnSuccess
		archived, err := fm.ArchiveInputFile(m.opts.InputPath)
		if err != nil {
			// The upload file is already written; a failed archive should
			// not fail the run.
			m.logger.Warn("Failed to archive input: %v", err)
		} else if archived != m.opts.InputPath {
			m.logger.Debug("Archived input to %s", archived)
		}
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// classify builds the identifier registry from explicit pairs when given,
// otherwise from the positional convention on the general sheet.
func (m *Merger) classify(wb *table.Workbook) (*registry.Registry, error) {
	base, err := wb.Require(table.SheetGeneral)
	if err != nil {
		return nil, err
	}
	base.NormalizeHeaders()
	sourceCol, err := base.FindColumn("Source_ID")
	if err != nil {
		return nil, err
	}

	if len(m.opts.Pairs) == 0 {
		return registry.ClassifyPositional(base, sourceCol), nil
	}

	known := make(map[string]bool)
	for r := range base.Rows {
		if id := strings.TrimSpace(base.Cell(r, sourceCol)); id != "" {
			known[id] = true
		}
	}
	if verrs := pairs.Validate(m.opts.Pairs, known); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("invalid pairs:\n  %s", strings.Join(msgs, "\n  "))
	}
	return registry.ClassifyPairs(m.opts.Pairs), nil
}

func sheetsPresent(wb *table.Workbook) int {
	count := len(table.RequiredSheets())
	for _, name := range table.OptionalSheets() {
		if wb.Get(name) != nil {
			count++
		}
	}
	return count
}

// IsFatal reports whether an error from Run means the extract itself is
// unusable, as opposed to an environmental failure like an unwritable
// output directory.
func IsFatal(err error) bool {
	var missing *table.MissingSheetError
	var notFound *table.ColumnNotFoundError
	return errors.As(err, &missing) || errors.As(err, &notFound)
}
