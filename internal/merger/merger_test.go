package merger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/config"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/pairs"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/table"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/workbook"
)

const (
	parentID = "1000000003"
	childID  = "1000000004"
)

// writeExtract builds a small but complete extract workbook on disk.
func writeExtract(t *testing.T, dir string) string {
	t.Helper()

	sheets := []struct {
		name string
		rows [][]string
	}{
		{table.SheetGeneral, [][]string{
			{"S_BP_GEN"},
			{"Source_ID", "NAME_ORG1", "NAME_ORG2", "MC_NAME1", "XDELE", "ZGSTS_CMT_REP_FLG"},
			{parentID, "ACME CORP", "DIVISION A", "ACME CORP", "", ""},
			{childID, "ACME DUPLICATE", "DIVISION B", "ACME DUPLICATE", "", ""},
		}},
		{table.SheetRole, [][]string{
			{"S_BP_ROLE"},
			{"Source_ID", "ROLE"},
			{parentID, "FLVN00"},
			{parentID, "FLVN01"},
			{childID, "FLVN00"},
		}},
		{table.SheetAddress, [][]string{
			{"S_ADDR"},
			{"Source_ID", "Name1", "City1"},
			{parentID, "ACME CORP", "DETROIT"},
			{childID, "ACME DUPLICATE", "CHICAGO"},
		}},
		{table.SheetSupplierGeneral, [][]string{
			{"S_LFA1"},
			{"Source_ID", "NAME1", "NAME2", "LOEVM"},
			{parentID, "ACME CORP", "", ""},
			{childID, "ACME DUPLICATE", "EXTRA", ""},
		}},
		{table.SheetCompanyCode, [][]string{
			{"S_LFB1"},
			{"Source_ID", "BUKRS"},
			{parentID, "1000"},
			{childID, "1000"},
			{childID, "2000"},
		}},
	}

	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		for r, row := range sheet.rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellStr(sheet.name, cell, v))
			}
		}
	}

	path := filepath.Join(dir, "extract.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func testConfig(dir string) *config.MainConfig {
	cfg := config.DefaultMainConfig()
	cfg.InputDir = dir
	cfg.OutputDir = filepath.Join(dir, "output")
	cfg.InputArchiveDir = filepath.Join(dir, "archive")
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeExtract(t, dir)

	m := New(Options{
		InputPath: input,
		Pairs:     []pairs.Pair{{Parent: parentID, Child: childID}},
	}, testConfig(dir), nil)

	result := m.Run()
	require.NoError(t, result.Error)
	require.True(t, result.Success)
	require.NotEmpty(t, result.OutputFile)

	assert.Equal(t, 1, result.Stats.Parents)
	assert.Equal(t, 1, result.Stats.Children)
	assert.Equal(t, 1, result.Stats.RowsFlaggedInsert)
	assert.Positive(t, result.Stats.CellsChanged)
	assert.Equal(t, 5, result.Stats.SheetsProcessed)

	// The output is a readable workbook with the merge applied.
	out, err := workbook.ReadFile(result.OutputFile)
	require.NoError(t, err)

	general := out.Get(table.SheetGeneral)
	assert.Equal(t, "COMMON SUPPLIER "+parentID, general.Cell(1, "NAME_ORG1"))
	assert.Equal(t, "X", general.Cell(1, "XDELE"))

	cc := out.Get(table.SheetCompanyCode)
	assert.Equal(t, parentID, cc.Cell(2, "Source_ID"))
	assert.Equal(t, "I", cc.Cell(2, "_ACTION_CODE"))
}

func TestRunPositionalMode(t *testing.T) {
	dir := t.TempDir()
	input := writeExtract(t, dir)

	// No pairs: positional classification, which sees no 4th-digit-'3'
	// parents in this extract and merges everything into the placeholder.
	m := New(Options{InputPath: input}, testConfig(dir), nil)
	result := m.Run()

	require.NoError(t, result.Error)
	require.True(t, result.Success)
	assert.Equal(t, 0, result.Stats.Parents)
	assert.Equal(t, 2, result.Stats.Children)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeExtract(t, dir)
	cfg := testConfig(dir)

	m := New(Options{
		InputPath: input,
		Pairs:     []pairs.Pair{{Parent: parentID, Child: childID}},
		DryRun:    true,
	}, cfg, nil)

	result := m.Run()
	require.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.Positive(t, result.Stats.CellsChanged)

	_, err := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(err), "dry run must not create the output directory")
}

func TestRunRejectsInvalidPairs(t *testing.T) {
	dir := t.TempDir()
	input := writeExtract(t, dir)

	m := New(Options{
		InputPath: input,
		Pairs:     []pairs.Pair{{Parent: parentID, Child: "9999999999"}},
	}, testConfig(dir), nil)

	result := m.Run()
	require.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "not found in Source_ID column")
	assert.Empty(t, result.OutputFile, "no output on a failed run")
}

func TestRunArchivesInput(t *testing.T) {
	dir := t.TempDir()
	input := writeExtract(t, dir)
	cfg := testConfig(dir)
	cfg.ArchiveOnSuccess = true

	m := New(Options{
		InputPath: input,
		Pairs:     []pairs.Pair{{Parent: parentID, Child: childID}},
		Archive:   true,
	}, cfg, nil)

	result := m.Run()
	require.True(t, result.Success)

	_, err := os.Stat(input)
	assert.True(t, os.IsNotExist(err), "input moved away")
	_, err = os.Stat(filepath.Join(cfg.InputArchiveDir, "extract.xlsx"))
	assert.NoError(t, err)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(&table.MissingSheetError{Sheet: table.SheetRole}))
	assert.True(t, IsFatal(&table.ColumnNotFoundError{Sheet: "s", Column: "Source_ID"}))
	assert.False(t, IsFatal(os.ErrPermission))
}
