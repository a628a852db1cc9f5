package models

// ---------------------------------------------------------------------------
// Reference data (GET /status)
//
// Fetched once per session and treated as read-mostly; a refresh replaces
// the whole StatusData value. Every projection receives this as an explicit
// read-only input, never as ambient global state.
// ---------------------------------------------------------------------------

// AccountRef is a minimal account identity pair used in account lists and
// payer groupings.
type AccountRef struct {
	AccountID   string `json:"accountId"`
	AccountName string `json:"accountName"`
}

// PayerAccount groups a set of member accounts under one payer id.
// Selecting payers scopes every view to their member account ids.
type PayerAccount struct {
	ID          string       `json:"id"`
	AccountName string       `json:"accountName"`
	AccountList []AccountRef `json:"accountList"`
}

// UserRecord describes one dashboard user; only populated for admins.
type UserRecord struct {
	Email       string       `json:"email"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	AccountList []AccountRef `json:"accountList"`
}

// RemediationSpec declares the named parameters a user must supply to
// request auto-remediation for a requirement.
type RemediationSpec struct {
	RemediationID string `json:"remediationId"`

	// Parameters maps parameter id to its form-field definition.
	Parameters map[string]FormFieldDef `json:"parameters"`
}

// Requirement is a single compliance requirement definition.
type Requirement struct {
	RequirementID string `json:"requirementId"`
	Description   string `json:"description"`
	Severity      string `json:"severity"`

	// ExclusionType names the waiver workflow for this requirement, e.g.
	// "exception" or the legacy compound "approval | justification | exception".
	ExclusionType string `json:"exclusionType"`

	// Remediation is nil when the requirement has no auto-remediation.
	Remediation *RemediationSpec `json:"remediation,omitempty"`
}

// FormFieldDef is a schema entry for one free-form exclusion or remediation
// form field.
type FormFieldDef struct {
	Label         string `json:"label"`
	Placeholder   string `json:"placeholder"`
	ShowInNCRView bool   `json:"showInNcrView,omitempty"`
}

// StateDef describes one lifecycle state of an exclusion type: the label of
// the action that moves a record into it and how it displays.
type StateDef struct {
	ActionName  string `json:"actionName"`
	DisplayName string `json:"displayName"`

	// Effective marks states in which the exclusion actually suppresses
	// findings from scoring.
	Effective bool `json:"effective"`
}

// ExclusionType is the schema for one waiver workflow: its form fields and
// the per-state action definitions the lifecycle machine presents.
type ExclusionType struct {
	DisplayName           string                  `json:"displayname"`
	DefaultDurationInDays int                     `json:"defaultDurationInDays"`
	MaxDurationInDays     int                     `json:"maxDurationInDays"`
	FormFields            map[string]FormFieldDef `json:"formFields"`
	States                map[string]StateDef     `json:"states"`
}

// ColorPair is a background/text colour pairing, as hex digits without the
// leading '#'.
type ColorPair struct {
	Background string `json:"background"`
	Text       string `json:"text"`
}

// ScanInfo carries the timestamp of the most recent completed scan.
type ScanInfo struct {
	LastScanDate string `json:"lastScanDate"`
}

// StatusData is the whole GET /status payload: session identity plus the
// reference data every projection depends on.
type StatusData struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         bool   `json:"isAdmin"`
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`

	Scan           *ScanInfo `json:"scan,omitempty"`
	SpreadsheetURL string    `json:"spreadsheetUrl,omitempty"`

	AccountList   []AccountRef   `json:"accountList"`
	PayerAccounts []PayerAccount `json:"payerAccounts,omitempty"`
	UsersList     []UserRecord   `json:"usersList,omitempty"`

	Requirements []Requirement `json:"requirements"`

	// ExclusionTypes maps exclusion type key to its workflow schema.
	ExclusionTypes map[string]ExclusionType `json:"exclusionTypes"`

	// SeverityColors maps severity name to its cell colours. The special
	// key "ok" is used for passing cells regardless of severity.
	SeverityColors map[string]ColorPair `json:"severityColors"`
}

// RequirementByID returns the requirement with the given id, or a zero
// Requirement when no definition matches.
func (s *StatusData) RequirementByID(id string) Requirement {
	for _, req := range s.Requirements {
		if req.RequirementID == id {
			return req
		}
	}
	return Requirement{}
}

// AccountIDs returns the ids of every account visible to the session, in
// list order.
func (s *StatusData) AccountIDs() []string {
	ids := make([]string, 0, len(s.AccountList))
	for _, acct := range s.AccountList {
		ids = append(ids, acct.AccountID)
	}
	return ids
}
