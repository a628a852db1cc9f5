package view

import (
	"fmt"
	"sort"

	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/score"
)

// okColorKey selects the passing-cell colour pair regardless of severity.
const okColorKey = "ok"

// Matrix projects the cross-account requirement matrix: one row per
// requirement that at least one account reported a score for, with the
// requirement's aggregate failing count and one coloured cell per account.
func Matrix(status *models.StatusData, scores []models.AccountScores) Table {
	columns := []Column{
		{Key: "requirement", Name: "Requirement", Sortable: true, Filterable: true, Width: 400},
		{Key: "severity", Name: "Severity", Sortable: true, Filterable: true, Width: 200},
		{Key: "aggScore", Name: "Agg. Score", Filterable: true, Width: 200},
	}

	var accounts []string
	for _, account := range scores {
		if len(account.RequirementsScores) == 0 {
			continue
		}
		columns = append(columns, Column{
			Key:        account.AccountID,
			Name:       account.AccountName,
			Filterable: true,
		})
		accounts = appendUnique(accounts, account.AccountID)
	}

	var rows []Row
	var colors []map[string]models.ColorPair
	for _, req := range status.Requirements {
		total, reported := score.AggregateRequirement(req.RequirementID, scores)
		if !reported {
			continue
		}

		row := Row{
			"requirement":   req.Description,
			"requirementId": req.RequirementID,
			"severity":      req.Severity,
			"aggScore":      fmt.Sprintf("%d", total),
		}
		cellColors := make(map[string]models.ColorPair)

		for _, account := range scores {
			for _, reqScore := range account.RequirementsScores {
				if reqScore.RequirementID != req.RequirementID {
					continue
				}
				display, pair := matrixCell(status, reqScore.Score)
				row[account.AccountID] = display
				cellColors[account.AccountID] = pair
			}
		}

		rows = append(rows, row)
		colors = append(colors, cellColors)
	}

	return Table{
		Columns: columns,
		Rows:    rows,
		Colors:  colors,
		Filter: FilterOptions{
			Payers:   status.PayerAccounts,
			Accounts: accounts,
		},
	}
}

// matrixCell renders one account's severity-bucketed score for a
// requirement. Buckets iterate in sorted order so repeated builds agree on
// which bucket's display wins; passing and sentinel cells take the "ok"
// colour pair instead of the severity's.
func matrixCell(status *models.StatusData, buckets map[string]models.SeverityScore) (string, models.ColorPair) {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var display string
	var pair models.ColorPair
	for _, key := range keys {
		count := buckets[key].NumFailing
		display = count.String()

		colorKey := key
		if count.Value() == 0 {
			colorKey = okColorKey
		}
		pair = status.SeverityColors[colorKey]
	}
	return display, pair
}
