// =============================================================================
// Supplier Merge Tool - Parent/Child Pair Input
// =============================================================================
//
// This package parses and validates the merge specification: an ordered list
// of (parent identifier, child identifier) pairs naming which supplier
// records fold into which canonical record.
//
// INPUT FORMS:
//   1. Flag syntax:  --pairs "1000000003:1000000004,1000000003:1000000007"
//   2. CSV file:     --pairs-file pairs.csv  (two columns: parent,child;
//      an optional header row "parent,child" is tolerated)
//
// VALIDATION STRATEGY:
//   Errors are collected, not thrown at the first failure, and each carries
//   the 1-based pair index so the operator can fix the whole input in one
//   round trip. The merge core itself never re-validates: it silently no-ops
//   on identifiers absent from an individual sheet.
//
// An identifier appearing as a parent in one pair and a child in another is
// rejected outright. Resolving that silently (last write wins) would merge
// records into a supplier that is itself being folded away.
//
// =============================================================================

package pairs

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Pair is one parent/child merge instruction.
type Pair struct {
	// Parent is the canonical surviving identifier.
	Parent string

	// Child is the duplicate identifier being folded into Parent.
	Child string
}

// =============================================================================
// PARSING
// =============================================================================

// ParseList parses the flag syntax "parent:child,parent:child,...".
// Whitespace around identifiers and separators is ignored; empty entries
// (from trailing commas) are skipped.
func ParseList(spec string) ([]Pair, error) {
	var out []Pair
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parent, child, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: expected parent:child", entry)
		}
		out = append(out, Pair{
			Parent: strings.TrimSpace(parent),
			Child:  strings.TrimSpace(child),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no pairs found in %q", spec)
	}
	return out, nil
}

// ParseFile reads pairs from a two-column CSV file (parent,child). A header
// row is detected by a non-numeric first field and skipped.
func ParseFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pairs file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // validated below with row context
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read pairs file %s: %w", path, err)
	}

	var out []Pair
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		if i == 0 && looksLikeHeader(record[0]) {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("pairs file %s row %d: expected 2 columns, got %d", path, i+1, len(record))
		}
		out = append(out, Pair{
			Parent: strings.TrimSpace(record[0]),
			Child:  strings.TrimSpace(record[1]),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("pairs file %s contains no pairs", path)
	}
	return out, nil
}

// looksLikeHeader reports whether a first CSV field is a column title rather
// than a 10-digit identifier.
func looksLikeHeader(field string) bool {
	return !isDigits(strings.TrimSpace(field))
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is a single problem with the pair input.
type ValidationError struct {
	// PairIndex is the 1-based position of the offending pair, or 0 for
	// cross-pair problems reported once.
	PairIndex int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.PairIndex > 0 {
		return fmt.Sprintf("pair #%d: %s", e.PairIndex, e.Message)
	}
	return e.Message
}

// Validate checks the pair list against the identifiers present in the base
// sheet. knownIDs holds every trimmed Source_ID of the base sheet. Returned
// errors cover:
//   - identifiers that are not exactly 10 digits
//   - identifiers absent from the base sheet
//   - an identifier used as both a parent and a child
//   - a child mapped to more than one parent (duplicates included)
func Validate(list []Pair, knownIDs map[string]bool) []*ValidationError {
	var errs []*ValidationError

	parents := make(map[string]bool)
	children := make(map[string]string) // child -> parent of first mapping

	for i, p := range list {
		n := i + 1

		if !isTenDigits(p.Parent) {
			errs = append(errs, &ValidationError{n, fmt.Sprintf("parent ID %q must be exactly 10 digits", p.Parent)})
		} else if !knownIDs[p.Parent] {
			errs = append(errs, &ValidationError{n, fmt.Sprintf("parent ID %q not found in Source_ID column", p.Parent)})
		}

		if !isTenDigits(p.Child) {
			errs = append(errs, &ValidationError{n, fmt.Sprintf("child ID %q must be exactly 10 digits", p.Child)})
		} else if !knownIDs[p.Child] {
			errs = append(errs, &ValidationError{n, fmt.Sprintf("child ID %q not found in Source_ID column", p.Child)})
		}

		if p.Parent == p.Child {
			errs = append(errs, &ValidationError{n, fmt.Sprintf("ID %q cannot be its own parent", p.Child)})
		}

		if prev, seen := children[p.Child]; seen {
			if prev == p.Parent {
				errs = append(errs, &ValidationError{n, fmt.Sprintf("duplicate pair for child ID %q", p.Child)})
			} else {
				errs = append(errs, &ValidationError{n, fmt.Sprintf("child ID %q already mapped to parent %q", p.Child, prev)})
			}
		} else {
			children[p.Child] = p.Parent
		}
		parents[p.Parent] = true
	}

	// An ID on both sides of the mapping is ambiguous: merging into a record
	// that is itself merged away has no defined outcome. A self-pair also
	// lands on both sides but was already reported above; one error per
	// mistake is enough.
	for child, parent := range children {
		if child == parent {
			continue
		}
		if parents[child] {
			errs = append(errs, &ValidationError{0, fmt.Sprintf("ID %q appears as both parent and child", child)})
		}
	}

	return errs
}

func isTenDigits(s string) bool {
	return len(s) == 10 && isDigits(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
