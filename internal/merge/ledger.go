// =============================================================================
// Supplier Merge Tool - Mutation Ledger
// =============================================================================
//
// The ledger records every cell whose value actually changed during a run,
// as (sheet, row, column) triples. It carries locations only, never values:
// the workbook writer consumes it read-only to decide which cells to
// highlight and which columns stay visible.
//
// Set semantics: a triple is recorded at most once, no matter how many rule
// passes touch the same cell. Insertion order is preserved so output styling
// is deterministic.
//
// =============================================================================

package merge

// Mutation locates one changed cell. Row is the zero-based data row index
// (the first row under the header), Column the exact header string at the
// time of the write.
type Mutation struct {
	Sheet  string
	Row    int
	Column string
}

// Ledger is the append-only, write-once-per-triple record of cell changes
// for one run.
type Ledger struct {
	entries []Mutation
	seen    map[Mutation]bool
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[Mutation]bool)}
}

// Record adds a mutation unless the identical triple was already recorded.
func (l *Ledger) Record(m Mutation) {
	if l.seen[m] {
		return
	}
	l.seen[m] = true
	l.entries = append(l.entries, m)
}

// Contains reports whether the triple was recorded.
func (l *Ledger) Contains(m Mutation) bool {
	return l.seen[m]
}

// Entries returns all mutations in insertion order. Callers must not modify
// the returned slice.
func (l *Ledger) Entries() []Mutation {
	return l.entries
}

// Len returns the number of distinct changed cells.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// ChangedColumns returns the distinct column headers mutated on one sheet,
// in first-mutation order. The writer uses this for the column visibility
// pass.
func (l *Ledger) ChangedColumns(sheet string) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, m := range l.entries {
		if m.Sheet != sheet || seen[m.Column] {
			continue
		}
		seen[m.Column] = true
		cols = append(cols, m.Column)
	}
	return cols
}
