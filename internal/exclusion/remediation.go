package exclusion

import (
	"sort"

	"github.com/complianceops/scorecard/internal/models"
)

// RemediateLabel is the fixed action label of the remediation flow.
const RemediateLabel = "Remediate"

// RemediationAction is the simpler two-state flow offered alongside the
// exclusion lifecycle: fill the requirement's declared parameters and
// submit. It never touches exclusion states.
type RemediationAction struct {
	NCRID  string
	Label  string
	Fields []FormField
}

// RemediationActionFor returns the remediation action for a finding, or
// nil when the session may not remediate it or the requirement declares
// no remediation parameters.
func RemediationActionFor(ncr models.NCR, status *models.StatusData) *RemediationAction {
	if ncr.AllowedActions == nil || !ncr.AllowedActions.Remediate {
		return nil
	}
	req := status.RequirementByID(ncr.Resource.RequirementID)
	if req.Remediation == nil || len(req.Remediation.Parameters) == 0 {
		return nil
	}

	keys := make([]string, 0, len(req.Remediation.Parameters))
	for key := range req.Remediation.Parameters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]FormField, 0, len(keys))
	for _, key := range keys {
		def := req.Remediation.Parameters[key]
		fields = append(fields, FormField{
			Kind:        KindField,
			ID:          key,
			Label:       def.Label,
			Placeholder: def.Placeholder,
		})
	}

	return &RemediationAction{
		NCRID:  ncr.NCRID,
		Label:  RemediateLabel,
		Fields: fields,
	}
}
