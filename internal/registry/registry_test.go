package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/pairs"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/table"
)

func baseSheet(ids ...string) *table.Table {
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{id, "name"}
	}
	return table.New(table.SheetGeneral, nil, []string{"Source_ID", "NAME_ORG1"}, rows)
}

func TestClassifyPairs(t *testing.T) {
	reg := ClassifyPairs([]pairs.Pair{
		{Parent: "1000000003", Child: "1000000004"},
		{Parent: "1000000003", Child: "1000000007"},
		{Parent: "2000000001", Child: "2000000002"},
	})

	assert.Equal(t, ModeExplicit, reg.Mode())
	assert.False(t, reg.IsChild("1000000003"))
	assert.True(t, reg.IsChild("1000000004"))
	assert.True(t, reg.IsChild("2000000002"))

	assert.Equal(t, "1000000003", reg.ParentOf("1000000004"))
	assert.Equal(t, "1000000003", reg.ParentOf("1000000007"))
	assert.Equal(t, "2000000001", reg.ParentOf("2000000002"))

	parents, children := reg.Counts()
	assert.Equal(t, 2, parents)
	assert.Equal(t, 3, children)
}

func TestClassifyPositional(t *testing.T) {
	base := baseSheet(
		"1000000004", // child: 4th char '0'
		"1003000001", // parent: 4th char '3', first parent = reference
		"1003000002", // parent, but not the reference
		"12",         // too short: child
		"1000000004", // duplicate, first classification stands
	)

	reg := ClassifyPositional(base, "Source_ID")

	assert.Equal(t, ModePositional, reg.Mode())
	assert.True(t, reg.IsChild("1000000004"))
	assert.False(t, reg.IsChild("1003000001"))
	assert.False(t, reg.IsChild("1003000002"))
	assert.True(t, reg.IsChild("12"))
	assert.Equal(t, 4, reg.Len(), "duplicates register once")

	// Every child resolves to the first parent found in row order.
	assert.Equal(t, "1003000001", reg.ParentOf("1000000004"))
	assert.Equal(t, "1003000001", reg.ParentOf("12"))
}

func TestClassifyPositionalNoParentFallback(t *testing.T) {
	base := baseSheet("1000000004", "1000000005")
	reg := ClassifyPositional(base, "Source_ID")

	assert.Equal(t, "0000000000", reg.ParentOf("1000000004"),
		"with no parent on the sheet merges fall back to the placeholder identity")
}

func TestAnnotateRoles(t *testing.T) {
	reg := ClassifyPairs([]pairs.Pair{
		{Parent: "1000000003", Child: "1000000004"},
	})

	// 1000000003 appears on two role rows (PO), 1000000004 on one (NPO).
	role := table.New(table.SheetRole, nil, []string{"Source_ID", "ROLE"}, [][]string{
		{"1000000003", "FLVN00"},
		{"1000000003", "FLVN01"},
		{"1000000004", "FLVN00"},
	})

	require.NoError(t, reg.AnnotateRoles(role))
	assert.Equal(t, RolePO, reg.Record("1000000003").Role)
	assert.Equal(t, RoleNPO, reg.Record("1000000004").Role)
}

func TestAnnotateRolesNormalizesHeaders(t *testing.T) {
	reg := ClassifyPairs([]pairs.Pair{{Parent: "1000000003", Child: "1000000004"}})

	// Raw exports carry non-breaking spaces and padding in headers; the
	// annotator must tolerate the same drift as every other sheet consumer.
	role := table.New(table.SheetRole, nil, []string{"Source_ID ", "ROLE"}, [][]string{
		{"1000000003", "FLVN00"},
		{"1000000003", "FLVN01"},
		{"1000000004", "FLVN00"},
	})

	require.NoError(t, reg.AnnotateRoles(role))
	assert.Equal(t, RolePO, reg.Record("1000000003").Role)
	assert.Equal(t, RoleNPO, reg.Record("1000000004").Role)
}

func TestAnnotateRolesMissingColumn(t *testing.T) {
	reg := ClassifyPairs([]pairs.Pair{{Parent: "1000000003", Child: "1000000004"}})
	role := table.New(table.SheetRole, nil, []string{"ROLE"}, nil)

	err := reg.AnnotateRoles(role)
	require.Error(t, err)
}

func TestRecordUnknownIdentifier(t *testing.T) {
	reg := ClassifyPairs([]pairs.Pair{{Parent: "1000000003", Child: "1000000004"}})

	assert.Nil(t, reg.Record("9999999999"))
	assert.False(t, reg.IsChild("9999999999"))
}
