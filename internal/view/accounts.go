package view

import (
	"fmt"

	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/score"
)

// Trend metadata keys carried on accounts rows alongside the declared
// columns.
const (
	KeyCurrentScore      = "currentScore"
	KeyCurrentScoreTrend = "currentScoreTrend"
)

// Accounts projects the per-account summary list: identity, decorated
// current score, one column per historical scan date (most recent first),
// critical-finding count, and the scorecard download link.
func Accounts(status *models.StatusData, summaries []models.AccountSummary) Table {
	dateColumns := score.DateColumns(summaries)

	// Heat shading is relative to the worst account in the set: the
	// cleanest fraction is 1, the worst is 0.
	worst := 0
	for _, summary := range summaries {
		if summary.CurrentScore > worst {
			worst = summary.CurrentScore
		}
	}

	columns := []Column{
		{Key: "accountId", Name: "Account Id", Sortable: true, Filterable: true},
		{Key: "accountName", Name: "Account Name", Sortable: true, Filterable: true},
		{Key: KeyCurrentScore, Name: "Current Score"},
	}
	for _, date := range dateColumns {
		columns = append(columns, Column{Key: date, Name: "Score " + date})
	}
	columns = append(columns,
		Column{Key: "criticalCount", Name: "Critical Findings", Filterable: true},
		Column{Key: "docButton", Name: "Spreadsheet", Width: 160},
	)

	var accounts []string
	rows := make([]Row, 0, len(summaries))
	colors := make([]map[string]models.ColorPair, 0, len(summaries))
	for _, summary := range summaries {
		accounts = appendUnique(accounts, summary.AccountID)

		row := Row{
			"accountId":   summary.AccountID,
			"accountName": summary.AccountName,
		}
		for date, value := range score.HistoricalCells(summary, dateColumns) {
			row[date] = fmt.Sprintf("%d", value)
		}

		cell := score.CurrentScoreCell(summary, dateColumns)
		row[KeyCurrentScore] = cell.Display
		row[KeyCurrentScoreTrend] = string(cell.Trend)

		row["criticalCount"] = fmt.Sprintf("%d", summary.CriticalCount)
		if summary.SpreadsheetDownload != nil {
			row["docButton"] = summary.SpreadsheetDownload.URL
		} else {
			row["docButton"] = ""
		}
		rows = append(rows, row)

		fraction := 1.0
		if worst > 0 {
			fraction = 1 - float64(summary.CurrentScore)/float64(worst)
		}
		colors = append(colors, map[string]models.ColorPair{
			KeyCurrentScore: {Background: score.HeatColor(fraction)},
		})
	}

	return Table{
		Columns: columns,
		Rows:    rows,
		Filter: FilterOptions{
			Payers:   status.PayerAccounts,
			Accounts: accounts,
		},
		Colors: colors,
	}
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
