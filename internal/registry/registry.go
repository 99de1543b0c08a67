// =============================================================================
// Supplier Merge Tool - Identifier Registry
// =============================================================================
//
// This package classifies every supplier identifier touched by a run as
// parent or child and resolves, per child, the canonical parent identifier
// the merge redirects to.
//
// CLASSIFICATION STRATEGIES:
//   Two entry points exist in the field and both are supported behind one
//   registry shape, selected by caller configuration:
//
//   1. Explicit pairs: the operator supplies (parent, child) pairs. Many
//      independent parent/child groups can be merged in one run; each child
//      resolves its own parent through the identity map.
//
//   2. Positional, the legacy convention: the 4th character of the 10-character
//      identifier is '3' for canonical (ATLAS-numbered) records. Only a
//      single merge target per run: the first parent encountered in base
//      sheet row order is the reference parent for every child.
//
// The registry is constructed once per run and passed into the mutators.
// Records are immutable after construction; role annotation fills the one
// remaining attribute and happens before any mutator runs.
//
// =============================================================================

package registry

import (
	"strings"

	"github.com/ginjaninja78/XLSX-supplier-merge/internal/pairs"
	"github.com/ginjaninja78/XLSX-supplier-merge/internal/table"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Classification is the merge role of an identifier.
type Classification string

const (
	// Parent is a canonical surviving identifier.
	Parent Classification = "parent"

	// Child is a duplicate identifier being folded into a parent.
	Child Classification = "child"
)

// Role is the partner-role category derived from the role sheet.
// PO means the identifier appears more than once in the role sheet (plays
// multiple partner roles); NPO means at most once. Descriptive metadata
// only: no mutation rule is gated on it.
type Role string

const (
	RolePO  Role = "PO"
	RoleNPO Role = "NPO"
)

// Mode identifies which classification strategy built the registry.
type Mode string

const (
	// ModeExplicit is the explicit-pairs strategy.
	ModeExplicit Mode = "explicit"

	// ModePositional is the legacy 4th-character strategy.
	ModePositional Mode = "positional"
)

// Record holds the attributes of one identifier.
type Record struct {
	Classification Classification
	Role           Role
}

// fallbackParent is written when a child has no resolvable parent. It cannot
// occur through the CLI (pair validation guarantees the mapping) but keeps
// the output well-formed for library callers.
const fallbackParent = "0000000000"

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is the per-run identifier registry consumed by the mutators.
type Registry struct {
	mode      Mode
	records   map[string]*Record
	parents   map[string]string // child -> parent (explicit mode)
	refParent string            // single merge target (positional mode)
}

// Mode returns the strategy that built the registry.
func (r *Registry) Mode() Mode {
	return r.mode
}

// IsChild reports whether the identifier is registered as a child.
func (r *Registry) IsChild(id string) bool {
	rec := r.records[id]
	return rec != nil && rec.Classification == Child
}

// Record returns the record for an identifier, or nil when unknown.
func (r *Registry) Record(id string) *Record {
	return r.records[id]
}

// ParentOf resolves the canonical parent for a child identifier. In explicit
// mode each child resolves through the identity map; in positional mode every
// child resolves to the single reference parent.
func (r *Registry) ParentOf(child string) string {
	if p, ok := r.parents[child]; ok {
		return p
	}
	if r.refParent != "" {
		return r.refParent
	}
	return fallbackParent
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int {
	return len(r.records)
}

// Counts returns the number of parents and children in the registry.
func (r *Registry) Counts() (parents, children int) {
	for _, rec := range r.records {
		if rec.Classification == Parent {
			parents++
		} else {
			children++
		}
	}
	return parents, children
}

// =============================================================================
// EXPLICIT-PAIRS STRATEGY
// =============================================================================

// ClassifyPairs builds a registry from validated (parent, child) pairs: every
// distinct parent classifies as Parent, every distinct child as Child, and
// the identity map records child -> parent. Pair validation has already
// rejected ambiguous input (an ID on both sides), so assignment order cannot
// matter here.
func ClassifyPairs(list []pairs.Pair) *Registry {
	r := &Registry{
		mode:    ModeExplicit,
		records: make(map[string]*Record),
		parents: make(map[string]string),
	}
	for _, p := range list {
		parent := strings.TrimSpace(p.Parent)
		child := strings.TrimSpace(p.Child)
		r.parents[child] = parent
		r.records[parent] = &Record{Classification: Parent}
		r.records[child] = &Record{Classification: Child}
	}
	return r
}

// =============================================================================
// POSITIONAL STRATEGY
// =============================================================================

// ClassifyPositional builds a registry from the base sheet: every distinct
// identifier in its source column classifies by the 4th character convention
// ('3' means parent). The first parent in row order becomes the reference
// parent for all merges of the run. Identifiers shorter than 4 characters
// classify as child.
func ClassifyPositional(base *table.Table, sourceCol string) *Registry {
	r := &Registry{
		mode:    ModePositional,
		records: make(map[string]*Record),
		parents: make(map[string]string),
	}
	for i := range base.Rows {
		id := strings.TrimSpace(base.Cell(i, sourceCol))
		if id == "" {
			continue
		}
		if _, seen := r.records[id]; seen {
			continue
		}
		c := Child
		if runes := []rune(id); len(runes) >= 4 && runes[3] == '3' {
			c = Parent
			if r.refParent == "" {
				r.refParent = id
			}
		}
		r.records[id] = &Record{Classification: c}
	}
	return r
}

// =============================================================================
// ROLE ANNOTATOR
// =============================================================================

// AnnotateRoles counts how many rows of the role sheet reference each
// identifier and marks registered identifiers PO (count > 1) or NPO. The
// headers are normalized first, as on every other processed sheet; the role
// sheet is required, so column resolution failure is fatal for the run.
func (r *Registry) AnnotateRoles(role *table.Table) error {
	role.NormalizeHeaders()
	srcCol, err := role.FindColumn("Source_ID")
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for i := range role.Rows {
		id := strings.TrimSpace(role.Cell(i, srcCol))
		if id == "" {
			continue
		}
		counts[id]++
	}

	for id, rec := range r.records {
		if counts[id] > 1 {
			rec.Role = RolePO
		} else {
			rec.Role = RoleNPO
		}
	}
	return nil
}
