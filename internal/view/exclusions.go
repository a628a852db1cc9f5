package view

import "github.com/complianceops/scorecard/internal/models"

// Exclusions projects the admin exclusions list: every waiver record with
// its lifecycle status, audit trail, and an edit action.
func Exclusions(status *models.StatusData, exclusions []models.Exclusion) Table {
	columns := []Column{
		{Key: "accountId", Name: "Account Id", Sortable: true, Filterable: true, Width: 160},
		{Key: "requirementId", Name: "Requirement Id", Sortable: true, Filterable: true, Width: 160},
		{Key: "resourceId", Name: "Resource Id", Sortable: true, Filterable: true, Width: 160},
		{Key: "status", Name: "Exclusion Status", Sortable: true, Filterable: true, Width: 160},
		{Key: "type", Name: "Type", Sortable: true, Filterable: true, Width: 160},
		{Key: "reason", Name: "Reason", Sortable: true, Filterable: true, Width: 160},
		{Key: "hidesResources", Name: "Is Hidden", Sortable: true, Filterable: true, Width: 160},
		{Key: "expiration", Name: "Expiration", Sortable: true, Filterable: true, Width: 160},
		{Key: "adminComments", Name: "Comments", Filterable: true, Width: 160},
		{Key: "lastStatusChangeDate", Name: "Last Status Change Date", Sortable: true, Filterable: true, Width: 160},
		{Key: "lastModifiedByUser", Name: "Last Modified By User", Sortable: true, Filterable: true, Width: 160},
		{Key: "lastModifiedByAdmin", Name: "Last Modified By Admin", Sortable: true, Filterable: true, Width: 160},
		{Key: "editButton", Name: "Edit", Width: 80},
	}

	var accounts []string
	rows := make([]Row, 0, len(exclusions))
	for _, exc := range exclusions {
		accounts = appendUnique(accounts, exc.AccountID)

		reason := exc.FormFields["reason"]

		hides := "false"
		if exc.HidesResources {
			hides = "true"
		}

		rows = append(rows, Row{
			"accountId":            exc.AccountID,
			"requirementId":        exc.RequirementID,
			"resourceId":           exc.ResourceID,
			"status":               string(exc.Status),
			"type":                 exc.Type,
			"reason":               reason,
			"hidesResources":       hides,
			"expiration":           exc.ExpirationDate,
			"adminComments":        exc.AdminComments,
			"lastStatusChangeDate": exc.LastStatusChangeDate,
			"lastModifiedByUser":   exc.LastModifiedByUser,
			"lastModifiedByAdmin":  exc.LastModifiedByAdmin,
			"editButton":           "Edit",
		})
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
