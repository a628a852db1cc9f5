// Package filter applies composable multi-stage filters to projected record
// collections. The three stages always run in a fixed order — scope, then
// field equality, then free-text search — each over the previous stage's
// output. Reordering would change results whenever scope and field filters
// disagree, so the order is part of the contract.
package filter

import (
	"strings"

	"github.com/complianceops/scorecard/internal/models"
)

// Filter is one composed filter pass. Zero-valued stages are no-ops.
type Filter struct {
	// Scope keeps only records whose accountId belongs to one of these
	// member accounts. Build it with ResolveScope from selected payers.
	Scope []models.AccountRef

	// Fields maps field key to a required exact value; a record passes
	// only when it matches every entry (conjunction).
	Fields map[string]string

	// Search is a case-sensitive substring matched against every field
	// value; a record passes when any field contains it.
	Search string
}

// ResolveScope expands the selected payer names into the union of their
// member account lists. Unknown names contribute nothing.
func ResolveScope(payers []models.PayerAccount, selected []string) []models.AccountRef {
	var scope []models.AccountRef
	for _, name := range selected {
		for _, payer := range payers {
			if payer.AccountName == name {
				scope = append(scope, payer.AccountList...)
			}
		}
	}
	return scope
}

// Matches reports whether one row survives every stage of f. Filtering a
// collection with Matches keeps exactly the rows Apply would keep.
func Matches[R ~map[string]string](f Filter, row R) bool {
	if len(f.Scope) > 0 {
		found := false
		for _, account := range f.Scope {
			if account.AccountID == row["accountId"] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for key, want := range f.Fields {
		if row[key] != want {
			return false
		}
	}
	if f.Search != "" {
		hit := false
		for _, value := range row {
			if strings.Contains(value, f.Search) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Apply runs the three stages over rows and returns the surviving records.
// R is any string-keyed, string-valued row representation.
func Apply[R ~map[string]string](f Filter, rows []R) []R {
	rows = applyScope(f.Scope, rows)
	rows = applyFields(f.Fields, rows)
	rows = applySearch(f.Search, rows)
	return rows
}

func applyScope[R ~map[string]string](scope []models.AccountRef, rows []R) []R {
	if len(scope) == 0 {
		return rows
	}
	member := make(map[string]struct{}, len(scope))
	for _, account := range scope {
		member[account.AccountID] = struct{}{}
	}
	var kept []R
	for _, row := range rows {
		if _, ok := member[row["accountId"]]; ok {
			kept = append(kept, row)
		}
	}
	return kept
}

func applyFields[R ~map[string]string](fields map[string]string, rows []R) []R {
	if len(fields) == 0 {
		return rows
	}
	var kept []R
	for _, row := range rows {
		matched := true
		for key, want := range fields {
			if row[key] != want {
				matched = false
				break
			}
		}
		if matched {
			kept = append(kept, row)
		}
	}
	return kept
}

func applySearch[R ~map[string]string](search string, rows []R) []R {
	if search == "" {
		return rows
	}
	var kept []R
	for _, row := range rows {
		for _, value := range row {
			if strings.Contains(value, search) {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}
