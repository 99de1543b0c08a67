package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindColumn(t *testing.T) {
	tbl := New("BUT000 - General", nil,
		[]string{"Source_ID", "NAME_ORG1", "MC_NAME1"}, nil)

	tests := []struct {
		name   string
		target string
		want   string
		found  bool
	}{
		{"exact match", "Source_ID", "Source_ID", true},
		{"case insensitive", "source_id", "Source_ID", true},
		{"ignores spaces", "Source _ID", "Source_ID", true},
		{"missing", "LIFNR", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tbl.FindColumn(tc.target)
			if !tc.found {
				var colErr *ColumnNotFoundError
				require.Error(t, err)
				require.True(t, errors.As(err, &colErr))
				assert.Equal(t, "BUT000 - General", colErr.Sheet)
				assert.Equal(t, tc.target, colErr.Column)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeHeaders(t *testing.T) {
	tbl := New("s", nil, []string{" Source_ID ", "NAME ORG1", "X"}, nil)
	tbl.NormalizeHeaders()

	assert.Equal(t, []string{"Source_ID", "NAME ORG1", "X"}, tbl.Headers)
	assert.True(t, tbl.HasColumn("Source_ID"))
}

func TestCellRaggedRows(t *testing.T) {
	tbl := New("s", nil, []string{"A", "B", "C"}, [][]string{
		{"1", "2", "3"},
		{"1"}, // ragged: B and C missing
	})

	assert.Equal(t, "2", tbl.Cell(0, "B"))
	assert.Equal(t, "", tbl.Cell(1, "B"))
	assert.Equal(t, "", tbl.Cell(1, "C"))
	assert.Equal(t, "", tbl.Cell(5, "A"), "out-of-range row reads empty")
	assert.Equal(t, "", tbl.Cell(0, "Z"), "unknown header reads empty")
}

func TestSetCellGrowsRow(t *testing.T) {
	tbl := New("s", nil, []string{"A", "B", "C"}, [][]string{{"1"}})

	tbl.SetCell(0, "C", "x")

	assert.Equal(t, "x", tbl.Cell(0, "C"))
	assert.Equal(t, "1", tbl.Cell(0, "A"), "existing cells survive growth")
}

func TestEnsureColumn(t *testing.T) {
	tbl := New("s", nil, []string{"A"}, [][]string{{"1"}})

	tbl.EnsureColumn("_ACTION_CODE")
	assert.Equal(t, []string{"A", "_ACTION_CODE"}, tbl.Headers)
	assert.Equal(t, 1, tbl.ColumnIndex("_ACTION_CODE"))

	// Idempotent: a second call appends nothing.
	tbl.EnsureColumn("_ACTION_CODE")
	assert.Len(t, tbl.Headers, 2)

	tbl.SetCell(0, "_ACTION_CODE", "I")
	assert.Equal(t, "I", tbl.Cell(0, "_ACTION_CODE"))
}

func TestDuplicateHeadersFirstWins(t *testing.T) {
	tbl := New("s", nil, []string{"A", "A"}, [][]string{{"first", "second"}})

	assert.Equal(t, 0, tbl.ColumnIndex("A"))
	assert.Equal(t, "first", tbl.Cell(0, "A"))
}

func TestWorkbookRequire(t *testing.T) {
	wb := NewWorkbook([]*Table{New(SheetGeneral, nil, nil, nil)})

	got, err := wb.Require(SheetGeneral)
	require.NoError(t, err)
	assert.Equal(t, SheetGeneral, got.Name)

	_, err = wb.Require(SheetAddress)
	var missing *MissingSheetError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, SheetAddress, missing.Sheet)

	assert.Nil(t, wb.Get(SheetPurchasingOrg), "optional lookup returns nil, not error")
}

func TestVisibleSheetsExcludesRole(t *testing.T) {
	for _, name := range VisibleSheets() {
		assert.NotEqual(t, SheetRole, name)
	}
	assert.Contains(t, VisibleSheets(), SheetGeneral)
	assert.Contains(t, VisibleSheets(), SheetPartnerFunction)
}
