package view

import (
	"time"

	"github.com/complianceops/scorecard/internal/exclusion"
	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/tags"
)

// NCRs projects the findings list. Findings whose exclusion hides
// resources are dropped before any row is built. The remediation and edit
// cells carry the derived action labels; resolved tag sets render joined,
// unresolved ones render the fetch-trigger text.
func NCRs(status *models.StatusData, ncrs []models.NCR, tagSets map[string]models.NCRTags) Table {
	columns := []Column{
		{Key: "accountName", Name: "Account Name", Sortable: true, Filterable: true, Width: 160},
		{Key: "accountId", Name: "Account Id", Sortable: true, Filterable: true, Width: 160},
		{Key: "requirement", Name: "Requirement", Sortable: true, Filterable: true, Width: 480},
		{Key: "resourceId", Name: "Resource Id", Sortable: true, Filterable: true, Width: 240},
		{Key: "resourceType", Name: "Resource Type", Sortable: true, Filterable: true, Width: 80},
		{Key: "severity", Name: "Severity", Sortable: true, Filterable: true, Width: 80},
		{Key: "region", Name: "Region", Sortable: true, Filterable: true, Width: 120},
		{Key: "reason", Name: "Reason", Filterable: true, Width: 480},
		{Key: "remediation", Name: "Remediation", Width: 160},
		{Key: "exclusionButton", Name: "Edit", Width: 160},
		{Key: "exclusionState", Name: "Exclusion State", Filterable: true, Width: 160},
		{Key: "exclusionExpiration", Name: "Exclusion Expiration", Filterable: true, Width: 160},
		{Key: "exclusionReason", Name: "Exclusion Reason", Width: 160},
		{Key: "tags", Name: "Tags", Width: 120},
	}

	var rows []Row
	var accounts []string
	for _, ncr := range ncrs {
		if ncr.Hidden() {
			continue
		}

		req := status.RequirementByID(ncr.Resource.RequirementID)
		accounts = appendUnique(accounts, ncr.Resource.AccountID)

		row := Row{
			"accountName":  ncr.Resource.AccountName,
			"accountId":    ncr.Resource.AccountID,
			"requirement":  req.Description,
			"severity":     req.Severity,
			"resourceId":   ncr.Resource.ResourceID,
			"resourceType": ncr.Resource.ResourceType,
			"region":       ncr.Resource.Region,
			"reason":       ncr.Resource.Reason,
		}

		row["exclusionState"] = ""
		row["exclusionExpiration"] = ""
		row["exclusionReason"] = ""
		if exc := ncr.Resource.Exclusion; exc != nil {
			row["exclusionState"] = string(exc.Status)
			row["exclusionExpiration"] = exc.ExpirationDate
			row["exclusionReason"] = exc.Reason
		}

		row["remediation"] = ""
		if action := exclusion.RemediationActionFor(ncr, status); action != nil {
			row["remediation"] = action.Label
		}

		// Only the label is read, so the zero clock keeps the projection a
		// pure function of its inputs.
		row["exclusionButton"] = ""
		if action, err := exclusion.ActionFor(ncr, status, time.Time{}); err == nil {
			row["exclusionButton"] = action.Label
		}

		row["tags"] = tags.NoTags
		if set, ok := tagSets[ncr.NCRID]; ok {
			if joined := set.Joined(); joined != "" {
				row["tags"] = joined
			}
		}

		rows = append(rows, row)
	}

	return Table{
		Columns: columns,
		Rows:    rows,
		Filter: FilterOptions{
			Payers:   status.PayerAccounts,
			Accounts: accounts,
		},
	}
}
