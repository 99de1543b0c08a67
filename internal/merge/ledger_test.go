package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerRecordDeduplicates(t *testing.T) {
	l := NewLedger()
	m := Mutation{Sheet: "s", Row: 3, Column: "NAME1"}

	l.Record(m)
	l.Record(m)
	l.Record(Mutation{Sheet: "s", Row: 4, Column: "NAME1"})

	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Contains(m))
	assert.False(t, l.Contains(Mutation{Sheet: "other", Row: 3, Column: "NAME1"}))
}

func TestLedgerChangedColumns(t *testing.T) {
	l := NewLedger()
	l.Record(Mutation{Sheet: "a", Row: 0, Column: "NAME1"})
	l.Record(Mutation{Sheet: "a", Row: 1, Column: "XDELE"})
	l.Record(Mutation{Sheet: "a", Row: 2, Column: "NAME1"}) // repeat column
	l.Record(Mutation{Sheet: "b", Row: 0, Column: "BUKRS"})

	assert.Equal(t, []string{"NAME1", "XDELE"}, l.ChangedColumns("a"),
		"columns in first-mutation order, once each")
	assert.Equal(t, []string{"BUKRS"}, l.ChangedColumns("b"))
	assert.Empty(t, l.ChangedColumns("c"))
}

func TestLedgerEntriesPreserveOrder(t *testing.T) {
	l := NewLedger()
	first := Mutation{Sheet: "a", Row: 0, Column: "X"}
	second := Mutation{Sheet: "a", Row: 1, Column: "Y"}
	l.Record(first)
	l.Record(second)

	entries := l.Entries()
	assert.Equal(t, []Mutation{first, second}, entries)
}
