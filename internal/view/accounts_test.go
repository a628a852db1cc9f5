package view_test

import (
	"encoding/json"
	"testing"

	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/view"
)

// marshal renders a projection for byte-level comparison.
func marshal(t *testing.T, table view.Table) string {
	t.Helper()
	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("marshal table: %v", err)
	}
	return string(data)
}

func accountsStatus() *models.StatusData {
	return &models.StatusData{
		PayerAccounts: []models.PayerAccount{{ID: "999900001111", AccountName: "prod-payer"}},
	}
}

func accountsSummaries() []models.AccountSummary {
	return []models.AccountSummary{
		{
			AccountID:    "111122223333",
			AccountName:  "prod-payments",
			CurrentScore: 12,
			HistoricalScores: []models.HistoricalScore{
				{Date: "2024/02/01", Score: 15},
				{Date: "2024/01/01", Score: 20},
			},
			CriticalCount:       4,
			SpreadsheetDownload: &models.SpreadsheetLink{URL: "https://example.com/sheet.xlsx"},
		},
		{
			AccountID:    "444455556666",
			AccountName:  "dev-sandbox",
			CurrentScore: 3,
			HistoricalScores: []models.HistoricalScore{
				{Date: "2024/02/01", Score: 3},
			},
		},
	}
}

func TestAccounts_ColumnsIncludeEveryHistoricalDate(t *testing.T) {
	table := view.Accounts(accountsStatus(), accountsSummaries())

	var keys []string
	for _, col := range table.Columns {
		keys = append(keys, col.Key)
	}
	want := []string{"accountId", "accountName", "currentScore", "2024/02/01", "2024/01/01", "criticalCount", "docButton"}
	if len(keys) != len(want) {
		t.Fatalf("got columns %v; want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got columns %v; want %v", keys, want)
		}
	}
}

func TestAccounts_DecoratedScoreAndTrendMetadata(t *testing.T) {
	table := view.Accounts(accountsStatus(), accountsSummaries())

	row := table.Rows[0]
	if row[view.KeyCurrentScore] != "12 (↓-3)" {
		t.Errorf("currentScore = %q; want decorated improvement", row[view.KeyCurrentScore])
	}
	if row[view.KeyCurrentScoreTrend] != "improved" {
		t.Errorf("trend = %q; want improved", row[view.KeyCurrentScoreTrend])
	}
}

func TestAccounts_MissingHistoryFillsZero(t *testing.T) {
	table := view.Accounts(accountsStatus(), accountsSummaries())

	// dev-sandbox never reported on 2024/01/01; the cell must render 0.
	row := table.Rows[1]
	if row["2024/01/01"] != "0" {
		t.Errorf("unreported date cell = %q; want 0", row["2024/01/01"])
	}
}

func TestAccounts_SpreadsheetLink(t *testing.T) {
	table := view.Accounts(accountsStatus(), accountsSummaries())

	if table.Rows[0]["docButton"] != "https://example.com/sheet.xlsx" {
		t.Errorf("docButton = %q; want the download link", table.Rows[0]["docButton"])
	}
	if table.Rows[1]["docButton"] != "" {
		t.Errorf("docButton = %q; accounts without a sheet render empty", table.Rows[1]["docButton"])
	}
}

func TestAccounts_FilterOptions(t *testing.T) {
	table := view.Accounts(accountsStatus(), accountsSummaries())

	if len(table.Filter.Payers) != 1 || table.Filter.Payers[0].AccountName != "prod-payer" {
		t.Errorf("unexpected payer options: %+v", table.Filter.Payers)
	}
	if len(table.Filter.Accounts) != 2 {
		t.Errorf("got %d account options; want 2", len(table.Filter.Accounts))
	}
}

func TestAccounts_HeatShading(t *testing.T) {
	table := view.Accounts(accountsStatus(), accountsSummaries())

	if len(table.Colors) != 2 {
		t.Fatalf("got %d colour rows; want one per account", len(table.Colors))
	}
	// prod-payments is the worst account in the set, dev-sandbox sits at
	// fraction 0.75 of the scale.
	if got := table.Colors[0][view.KeyCurrentScore].Background; got != "#f44336" {
		t.Errorf("worst account shade = %s; want #f44336", got)
	}
	if got := table.Colors[1][view.KeyCurrentScore].Background; got != "#cddc39" {
		t.Errorf("dev-sandbox shade = %s; want #cddc39", got)
	}
}

func TestAccounts_Deterministic(t *testing.T) {
	first := marshal(t, view.Accounts(accountsStatus(), accountsSummaries()))
	second := marshal(t, view.Accounts(accountsStatus(), accountsSummaries()))
	if first != second {
		t.Error("identical inputs must build byte-identical projections")
	}
}
