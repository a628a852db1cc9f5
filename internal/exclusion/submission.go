package exclusion

import (
	"sort"

	"github.com/complianceops/scorecard/internal/models"
)

// MergeUserSubmission folds a filled transition form into the exclusion
// payload for PUT /exclusions/user. Unmodified existing fields carry over,
// entered values win, and the expiration date is promoted to its own
// top-level attribute — it never travels inside the form-field map.
// target is the machine-computed next state, or the user's explicit choice.
func MergeUserSubmission(existing *models.Exclusion, target models.ExclusionStatus, entered map[string]string) models.Exclusion {
	merged := models.Exclusion{
		Status:     target,
		FormFields: map[string]string{},
	}

	if existing != nil {
		merged.ExpirationDate = existing.ExpirationDate
		for key, value := range existing.FormFields {
			merged.FormFields[key] = value
		}
	}

	for key, value := range entered {
		if key == "expirationDate" {
			merged.ExpirationDate = value
			continue
		}
		if value != "" {
			merged.FormFields[key] = value
		}
	}

	return merged
}

// AdminEdit is a filled admin edit form for one exclusion record.
type AdminEdit struct {
	// NewStatus is the explicitly chosen target state; empty keeps the
	// record's current status.
	NewStatus models.ExclusionStatus

	HidesResources bool

	// Entered holds the filled field values. The promoted attributes
	// (accountId, resourceId, adminComments, expirationDate) are plucked
	// out; everything else lands in formFields.
	Entered map[string]string
}

// MergeAdminSubmission builds the exclusion payload for PUT /exclusions.
// The admin form flattens record attributes and form fields into a single
// field list, so the known top-level attributes are promoted back out of
// the entered map before the rest becomes the form-field set.
func MergeAdminSubmission(record models.Exclusion, edit AdminEdit) models.Exclusion {
	target := edit.NewStatus
	if target == models.StatusNone {
		target = record.Status
	}

	merged := models.Exclusion{
		Status:         target,
		HidesResources: edit.HidesResources,
		FormFields:     map[string]string{},
	}

	for key, value := range record.FormFields {
		merged.FormFields[key] = value
	}

	for key, value := range edit.Entered {
		if value == "" {
			continue
		}
		switch key {
		case "accountId":
			merged.AccountID = value
		case "resourceId":
			merged.ResourceID = value
		case "adminComments":
			merged.AdminComments = value
		case "expirationDate":
			merged.ExpirationDate = value
		default:
			merged.FormFields[key] = value
		}
	}

	return merged
}

// StateOptions lists the declared states of an exclusion type for the
// admin target-state dropdown, sorted for stable output.
func StateOptions(typeDef models.ExclusionType) []Option {
	options := make([]Option, 0, len(typeDef.States))
	for name, state := range typeDef.States {
		options = append(options, Option{
			Status: models.ExclusionStatus(name),
			Title:  state.DisplayName,
		})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Status < options[j].Status })
	return options
}
