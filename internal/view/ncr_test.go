package view_test

import (
	"testing"

	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/tags"
	"github.com/complianceops/scorecard/internal/view"
)

func ncrStatus() *models.StatusData {
	return &models.StatusData{
		Requirements: []models.Requirement{{
			RequirementID: "req-encryption",
			Description:   "Volumes must be encrypted",
			Severity:      "critical",
			ExclusionType: "exception",
			Remediation: &models.RemediationSpec{
				RemediationID: "encrypt-volume",
				Parameters: map[string]models.FormFieldDef{
					"kmsKeyId": {Label: "KMS Key"},
				},
			},
		}},
		ExclusionTypes: map[string]models.ExclusionType{
			"exception": {
				DisplayName: "Exception",
				States: map[string]models.StateDef{
					"initial": {ActionName: "Request Exception", DisplayName: "Pending"},
				},
			},
		},
	}
}

func finding(id string, exc *models.Exclusion) models.NCR {
	return models.NCR{
		NCRID: id,
		Resource: models.NCRResource{
			AccountID:     "111122223333",
			AccountName:   "prod-payments",
			RequirementID: "req-encryption",
			ResourceID:    "vol-" + id,
			ResourceType:  "EBS",
			Region:        "us-east-1",
			Reason:        "volume is unencrypted",
			Exclusion:     exc,
		},
	}
}

func TestNCRs_RowCarriesRequirementData(t *testing.T) {
	table := view.NCRs(ncrStatus(), []models.NCR{finding("ncr-1", nil)}, nil)

	row := table.Rows[0]
	if row["requirement"] != "Volumes must be encrypted" {
		t.Errorf("requirement = %q; want the description", row["requirement"])
	}
	if row["severity"] != "critical" {
		t.Errorf("severity = %q; want requirement severity", row["severity"])
	}
	if row["resourceId"] != "vol-ncr-1" || row["region"] != "us-east-1" {
		t.Errorf("unexpected resource cells: %+v", row)
	}
}

func TestNCRs_HiddenFindingsDropped(t *testing.T) {
	hidden := finding("ncr-hidden", &models.Exclusion{
		Status:         models.StatusApproved,
		HidesResources: true,
	})
	visible := finding("ncr-visible", nil)

	table := view.NCRs(ncrStatus(), []models.NCR{hidden, visible}, nil)
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows; hiding exclusions must drop the finding", len(table.Rows))
	}
	if table.Rows[0]["resourceId"] != "vol-ncr-visible" {
		t.Errorf("wrong surviving row: %+v", table.Rows[0])
	}
}

func TestNCRs_ExclusionCells(t *testing.T) {
	exc := &models.Exclusion{
		Status:         models.StatusApproved,
		ExpirationDate: "2024/06/01",
		Reason:         "accepted risk",
	}
	table := view.NCRs(ncrStatus(), []models.NCR{finding("ncr-1", exc)}, nil)

	row := table.Rows[0]
	if row["exclusionState"] != "approved" {
		t.Errorf("exclusionState = %q; want approved", row["exclusionState"])
	}
	if row["exclusionExpiration"] != "2024/06/01" || row["exclusionReason"] != "accepted risk" {
		t.Errorf("unexpected exclusion cells: %+v", row)
	}
}

func TestNCRs_ExclusionButtonLabelPerState(t *testing.T) {
	fresh := finding("ncr-1", nil)
	pending := finding("ncr-2", &models.Exclusion{Status: models.StatusInitial})

	table := view.NCRs(ncrStatus(), []models.NCR{fresh, pending}, nil)
	if table.Rows[0]["exclusionButton"] != "Request Exception" {
		t.Errorf("fresh finding button = %q; want the initial action name", table.Rows[0]["exclusionButton"])
	}
	if table.Rows[1]["exclusionButton"] != "Update" {
		t.Errorf("pending finding button = %q; want Update", table.Rows[1]["exclusionButton"])
	}
}

func TestNCRs_RemediationCellNeedsPermission(t *testing.T) {
	allowed := finding("ncr-1", nil)
	allowed.AllowedActions = &models.AllowedActions{Remediate: true}
	denied := finding("ncr-2", nil)

	table := view.NCRs(ncrStatus(), []models.NCR{allowed, denied}, nil)
	if table.Rows[0]["remediation"] != "Remediate" {
		t.Errorf("allowed finding remediation = %q; want Remediate", table.Rows[0]["remediation"])
	}
	if table.Rows[1]["remediation"] != "" {
		t.Errorf("denied finding remediation = %q; want empty", table.Rows[1]["remediation"])
	}
}

func TestNCRs_TagCells(t *testing.T) {
	fetched := map[string]models.NCRTags{
		"ncr-1": {NCRID: "ncr-1", Tags: []models.TagPair{{Name: "env", Value: "prod"}}},
		"ncr-2": {NCRID: "ncr-2"},
	}
	rows := view.NCRs(ncrStatus(), []models.NCR{
		finding("ncr-1", nil),
		finding("ncr-2", nil),
		finding("ncr-3", nil),
	}, fetched).Rows

	if rows[0]["tags"] != "env:prod" {
		t.Errorf("fetched tags = %q; want joined pairs", rows[0]["tags"])
	}
	if rows[1]["tags"] != tags.NoTags {
		t.Errorf("empty tag set = %q; want %q", rows[1]["tags"], tags.NoTags)
	}
	if rows[2]["tags"] != tags.NoTags {
		t.Errorf("unfetched tags = %q; want %q", rows[2]["tags"], tags.NoTags)
	}
}

func TestNCRs_Deterministic(t *testing.T) {
	input := []models.NCR{finding("ncr-1", nil), finding("ncr-2", &models.Exclusion{Status: models.StatusInitial})}
	first := marshal(t, view.NCRs(ncrStatus(), input, nil))
	second := marshal(t, view.NCRs(ncrStatus(), input, nil))
	if first != second {
		t.Error("identical inputs must build byte-identical projections")
	}
}
