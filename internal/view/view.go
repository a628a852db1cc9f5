// Package view builds tabular projections for presentation: a declarative
// column schema plus string-valued rows derived from the domain records.
// Every builder is a pure function of its inputs — calling one twice with
// identical inputs yields identical output, which is what makes re-render
// and snapshot testing possible.
package view

import "github.com/complianceops/scorecard/internal/models"

// Column is one declarative column of a projection.
type Column struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Sortable   bool   `json:"sortable,omitempty"`
	Filterable bool   `json:"filterable,omitempty"`
	Width      int    `json:"width,omitempty"`
}

// Row maps column key to the cell's display value. Extra keys not declared
// as columns carry presentation metadata (e.g. trend classes) for
// renderers that want them.
type Row map[string]string

// FilterOptions lists the values a consumer may offer as filter choices
// for this projection.
type FilterOptions struct {
	// Payers are the payer groupings available for scope filtering.
	Payers []models.PayerAccount `json:"payers,omitempty"`

	// Accounts are the distinct account ids present in the rows.
	Accounts []string `json:"accounts,omitempty"`
}

// Table is one complete projection.
type Table struct {
	Columns []Column      `json:"columns"`
	Rows    []Row         `json:"rows"`
	Filter  FilterOptions `json:"filter"`

	// Colors aligns with Rows: Colors[i][columnKey] styles that cell.
	// The matrix and accounts projections populate it.
	Colors []map[string]models.ColorPair `json:"colors,omitempty"`
}
