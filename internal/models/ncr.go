package models

// ExclusionStatus is the lifecycle state of a waiver. The zero value
// StatusNone means "no exclusion exists yet" and never appears on the wire;
// a stored Exclusion always carries one of the four persisted statuses.
type ExclusionStatus string

const (
	StatusNone     ExclusionStatus = ""
	StatusInitial  ExclusionStatus = "initial"
	StatusApproved ExclusionStatus = "approved"
	StatusRejected ExclusionStatus = "rejected"
	StatusArchived ExclusionStatus = "archived"
)

// Valid reports whether the status is one of the enumerated lifecycle values.
func (s ExclusionStatus) Valid() bool {
	switch s {
	case StatusNone, StatusInitial, StatusApproved, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// Exclusion is a user-submitted waiver record for one finding, with its own
// approval lifecycle.
type Exclusion struct {
	ExclusionID   string          `json:"exclusionId,omitempty"`
	Status        ExclusionStatus `json:"status"`
	AccountID     string          `json:"accountId,omitempty"`
	RequirementID string          `json:"requirementId,omitempty"`
	ResourceID    string          `json:"resourceId,omitempty"`

	// Type is the exclusion type key into StatusData.ExclusionTypes.
	Type string `json:"type,omitempty"`

	// FormFields is the free-form field set whose schema is declared by the
	// exclusion type. ExpirationDate is always a distinct top-level
	// attribute, never an entry in this map.
	FormFields map[string]string `json:"formFields,omitempty"`

	ExpirationDate string `json:"expirationDate,omitempty"`

	// HidesResources suppresses the excluded finding from every
	// presentation pipeline when true.
	HidesResources bool `json:"hidesResources,omitempty"`

	AdminComments        string `json:"adminComments,omitempty"`
	LastStatusChangeDate string `json:"lastStatusChangeDate,omitempty"`
	LastModifiedByUser   string `json:"lastModifiedByUser,omitempty"`
	LastModifiedByAdmin  string `json:"lastModifiedByAdmin,omitempty"`

	// Reason is surfaced by some admin listings outside FormFields.
	Reason string `json:"reason,omitempty"`
}

// NCRResource is the resource half of a finding: which account, requirement
// and concrete resource failed, plus the optional attached waiver.
type NCRResource struct {
	AccountID     string `json:"accountId"`
	AccountName   string `json:"accountName,omitempty"`
	RequirementID string `json:"requirementId"`
	ResourceID    string `json:"resourceId"`
	ResourceType  string `json:"resourceType,omitempty"`
	Region        string `json:"region,omitempty"`
	Reason        string `json:"reason,omitempty"`

	// Exclusion is nil when no waiver has ever been requested for this
	// finding. Nil is distinct from an exclusion in any status.
	Exclusion *Exclusion `json:"exclusion,omitempty"`
}

// AllowedActions flags which server-side operations the session may invoke
// on a finding.
type AllowedActions struct {
	Remediate bool `json:"remediate,omitempty"`
}

// NCR is a single detected non-compliance instance against one requirement
// for one resource.
type NCR struct {
	NCRID          string          `json:"ncrId"`
	Resource       NCRResource     `json:"resource"`
	AllowedActions *AllowedActions `json:"allowedActions,omitempty"`
}

// Hidden reports whether the finding must be dropped from presentation
// because its exclusion hides resources.
func (n *NCR) Hidden() bool {
	return n.Resource.Exclusion != nil && n.Resource.Exclusion.HidesResources
}
