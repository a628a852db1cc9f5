package view_test

import (
	"testing"

	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/view"
)

func matrixStatus() *models.StatusData {
	return &models.StatusData{
		Requirements: []models.Requirement{
			{RequirementID: "req-encryption", Description: "Volumes must be encrypted", Severity: "critical"},
			{RequirementID: "req-logging", Description: "Access logging enabled", Severity: "medium"},
			{RequirementID: "req-unreported", Description: "Nobody scores this", Severity: "low"},
		},
		SeverityColors: map[string]models.ColorPair{
			"critical": {Background: "#b71c1c", Text: "#ffffff"},
			"medium":   {Background: "#ffb300", Text: "#000000"},
			"ok":       {Background: "#4caf50", Text: "#ffffff"},
		},
	}
}

func count(n int) models.SeverityScore {
	return models.SeverityScore{NumFailing: models.ScoreCount{NumFailing: n}}
}

func matrixScores() []models.AccountScores {
	return []models.AccountScores{
		{
			AccountID:   "111122223333",
			AccountName: "prod-payments",
			RequirementsScores: []models.RequirementScore{
				{RequirementID: "req-encryption", Score: map[string]models.SeverityScore{"critical": count(5)}},
				{RequirementID: "req-logging", Score: map[string]models.SeverityScore{"medium": count(0)}},
			},
		},
		{
			AccountID:   "444455556666",
			AccountName: "dev-sandbox",
			RequirementsScores: []models.RequirementScore{
				{RequirementID: "req-encryption", Score: map[string]models.SeverityScore{"critical": count(2)}},
			},
		},
	}
}

func TestMatrix_OneColumnPerReportingAccount(t *testing.T) {
	table := view.Matrix(matrixStatus(), matrixScores())

	var keys []string
	for _, col := range table.Columns {
		keys = append(keys, col.Key)
	}
	want := []string{"requirement", "severity", "aggScore", "111122223333", "444455556666"}
	if len(keys) != len(want) {
		t.Fatalf("got columns %v; want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got columns %v; want %v", keys, want)
		}
	}
}

func TestMatrix_UnreportedRequirementOmitted(t *testing.T) {
	table := view.Matrix(matrixStatus(), matrixScores())

	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows; requirements nobody scores must be omitted", len(table.Rows))
	}
	for _, row := range table.Rows {
		if row["requirementId"] == "req-unreported" {
			t.Error("unreported requirement must not produce a row")
		}
	}
}

func TestMatrix_AggregateSumsAcrossAccounts(t *testing.T) {
	table := view.Matrix(matrixStatus(), matrixScores())

	row := table.Rows[0]
	if row["requirementId"] != "req-encryption" {
		t.Fatalf("rows must follow requirement declaration order, got %q", row["requirementId"])
	}
	if row["aggScore"] != "7" {
		t.Errorf("aggScore = %q; want the cross-account sum 7", row["aggScore"])
	}
	if row["111122223333"] != "5" || row["444455556666"] != "2" {
		t.Errorf("unexpected per-account cells: %+v", row)
	}
}

func TestMatrix_CellColors(t *testing.T) {
	table := view.Matrix(matrixStatus(), matrixScores())

	if len(table.Colors) != len(table.Rows) {
		t.Fatalf("colors must align with rows: %d vs %d", len(table.Colors), len(table.Rows))
	}

	// Failing critical cell takes the severity colour.
	if got := table.Colors[0]["111122223333"]; got.Background != "#b71c1c" {
		t.Errorf("failing cell background = %q; want the critical colour", got.Background)
	}

	// Passing cell takes the ok colour regardless of bucket severity.
	if got := table.Colors[1]["111122223333"]; got.Background != "#4caf50" {
		t.Errorf("passing cell background = %q; want the ok colour", got.Background)
	}
}

func TestMatrix_SentinelCellDisplaysTextAndOkColor(t *testing.T) {
	scores := []models.AccountScores{{
		AccountID:   "111122223333",
		AccountName: "prod-payments",
		RequirementsScores: []models.RequirementScore{{
			RequirementID: "req-encryption",
			Score: map[string]models.SeverityScore{
				"critical": {NumFailing: models.ScoreCount{Sentinel: models.SentinelDNC}},
			},
		}},
	}}

	table := view.Matrix(matrixStatus(), scores)
	if table.Rows[0]["111122223333"] != "DNC" {
		t.Errorf("sentinel cell = %q; want the sentinel text", table.Rows[0]["111122223333"])
	}
	if got := table.Colors[0]["111122223333"]; got.Background != "#4caf50" {
		t.Errorf("sentinel cell background = %q; sentinels colour as passing", got.Background)
	}
}

func TestMatrix_Deterministic(t *testing.T) {
	first := marshal(t, view.Matrix(matrixStatus(), matrixScores()))
	second := marshal(t, view.Matrix(matrixStatus(), matrixScores()))
	if first != second {
		t.Error("identical inputs must build byte-identical projections")
	}
}
