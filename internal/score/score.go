// Package score computes per-account score deltas and per-requirement
// aggregates across accounts. All functions are pure over already-fetched
// data; the same inputs always produce the same outputs.
package score

import (
	"fmt"
	"sort"

	"github.com/complianceops/scorecard/internal/models"
)

// Trend classifies the direction of an account's score movement since the
// most recent historical entry. Lower scores are better.
type Trend string

const (
	// TrendImproved means the current score dropped below the last entry.
	TrendImproved Trend = "improved"

	// TrendRegressed means the current score rose above the last entry.
	TrendRegressed Trend = "regressed"

	// TrendNeutral means no movement, or no history to compare against.
	TrendNeutral Trend = "neutral"
)

// Classify returns the trend for a current score against the most recent
// historical score. The delta sign strictly determines the class.
func Classify(current, last int) Trend {
	switch {
	case current < last:
		return TrendImproved
	case current > last:
		return TrendRegressed
	default:
		return TrendNeutral
	}
}

// Cell is a decorated current-score value ready for presentation.
type Cell struct {
	// Display is the score text, decorated with a direction arrow and the
	// delta when the score moved, e.g. "80 (↓-15)".
	Display string

	Trend Trend
}

// CurrentScoreCell formats an account's current score against its history.
// dateColumns must be the descending-sorted output of DateColumns; its
// first element is the comparison baseline. An account with no entry for
// the baseline date counts as 0 for that date. With no history at all the
// raw score renders with neutral styling.
func CurrentScoreCell(summary models.AccountSummary, dateColumns []string) Cell {
	if len(dateColumns) == 0 {
		return Cell{Display: fmt.Sprintf("%d", summary.CurrentScore), Trend: TrendNeutral}
	}

	last := 0
	for _, hist := range summary.HistoricalScores {
		if hist.Date == dateColumns[0] {
			last = hist.Score
		}
	}

	current := summary.CurrentScore
	delta := current - last
	switch trend := Classify(current, last); trend {
	case TrendImproved:
		return Cell{Display: fmt.Sprintf("%d (↓%d)", current, delta), Trend: trend}
	case TrendRegressed:
		return Cell{Display: fmt.Sprintf("%d (↑%d)", current, delta), Trend: trend}
	default:
		return Cell{Display: fmt.Sprintf("%d", current), Trend: TrendNeutral}
	}
}

// DateColumns returns the distinct historical score dates across all
// accounts, sorted most recent first. Dates are yyyy/mm/dd strings, so
// lexicographic order is chronological order.
func DateColumns(summaries []models.AccountSummary) []string {
	seen := make(map[string]struct{})
	var dates []string
	for _, summary := range summaries {
		for _, hist := range summary.HistoricalScores {
			if _, ok := seen[hist.Date]; !ok {
				seen[hist.Date] = struct{}{}
				dates = append(dates, hist.Date)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// HistoricalCells maps an account's history onto the date column set.
// Every column is present in the result; dates the account never reported
// fill in as 0.
func HistoricalCells(summary models.AccountSummary, dateColumns []string) map[string]int {
	cells := make(map[string]int, len(dateColumns))
	for _, date := range dateColumns {
		cells[date] = 0
	}
	for _, hist := range summary.HistoricalScores {
		if _, ok := cells[hist.Date]; ok {
			cells[hist.Date] = hist.Score
		}
	}
	return cells
}

// AggregateRequirement sums numFailing for one requirement across every
// account and severity bucket, with sentinels counting as 0. reported is
// false when no account carries any score for the requirement; such
// requirements are omitted from the matrix entirely.
func AggregateRequirement(requirementID string, accounts []models.AccountScores) (total int, reported bool) {
	for _, account := range accounts {
		for _, reqScore := range account.RequirementsScores {
			if reqScore.RequirementID != requirementID {
				continue
			}
			for _, sevScore := range reqScore.Score {
				total += sevScore.NumFailing.Value()
				reported = true
			}
		}
	}
	return total, reported
}
