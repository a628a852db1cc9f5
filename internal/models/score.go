package models

import (
	"encoding/json"
	"fmt"
)

// Sentinel is a non-numeric score marker reported by the scanner for
// requirements that were not evaluated against a resource.
type Sentinel string

const (
	// SentinelDNC means the scanner does not check this requirement.
	SentinelDNC Sentinel = "DNC"

	// SentinelNA means the requirement is not applicable to the account.
	SentinelNA Sentinel = "N/A"
)

// ScoreCount is the number of failing resources for one severity bucket.
// The wire value is either a non-negative integer or one of the sentinel
// strings "DNC" / "N/A". Sentinels aggregate as zero but display distinctly.
type ScoreCount struct {
	// NumFailing is the failing-resource count. Always 0 when Sentinel is set.
	NumFailing int

	// Sentinel is non-empty when the scanner reported "DNC" or "N/A"
	// instead of a count.
	Sentinel Sentinel
}

// IsSentinel reports whether the count carries a sentinel instead of a number.
func (s ScoreCount) IsSentinel() bool { return s.Sentinel != "" }

// Value returns the count as it participates in arithmetic: the numeric
// value, or 0 for a sentinel.
func (s ScoreCount) Value() int {
	if s.IsSentinel() {
		return 0
	}
	return s.NumFailing
}

// String returns the display form: the sentinel text when present,
// otherwise the decimal count.
func (s ScoreCount) String() string {
	if s.IsSentinel() {
		return string(s.Sentinel)
	}
	return fmt.Sprintf("%d", s.NumFailing)
}

// UnmarshalJSON accepts either a JSON number or one of the sentinel strings.
// Any other string value is rejected at the boundary.
func (s *ScoreCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			return fmt.Errorf("numFailing must be non-negative, got %d", n)
		}
		*s = ScoreCount{NumFailing: n}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("numFailing must be a number or sentinel string: %s", data)
	}
	switch Sentinel(str) {
	case SentinelDNC, SentinelNA:
		*s = ScoreCount{Sentinel: Sentinel(str)}
		return nil
	default:
		return fmt.Errorf("unknown score sentinel %q", str)
	}
}

// MarshalJSON writes the sentinel string or the numeric count, mirroring
// the wire format accepted by UnmarshalJSON.
func (s ScoreCount) MarshalJSON() ([]byte, error) {
	if s.IsSentinel() {
		return json.Marshal(string(s.Sentinel))
	}
	return json.Marshal(s.NumFailing)
}

// SeverityScore is the scanner's result for one severity bucket of one
// requirement in one account.
type SeverityScore struct {
	NumFailing   ScoreCount `json:"numFailing"`
	NumResources int        `json:"numResources,omitempty"`
}

// HistoricalScore is one entry of an account's score time series,
// at calendar-day granularity.
type HistoricalScore struct {
	// Date is the scan day in yyyy/mm/dd form.
	Date string `json:"date"`

	Score int `json:"score"`
}

// SpreadsheetLink is a presigned download URL the server generated for an
// account's scorecard export. The client passes it through untouched.
type SpreadsheetLink struct {
	URL string `json:"url"`
}

// AccountSummary is the per-account record returned by
// GET /accounts/{ids}/summary.
type AccountSummary struct {
	AccountID           string            `json:"accountId"`
	AccountName         string            `json:"accountName"`
	CurrentScore        int               `json:"currentScore"`
	HistoricalScores    []HistoricalScore `json:"historicalScores"`
	CriticalCount       int               `json:"criticalCount"`
	SpreadsheetDownload *SpreadsheetLink  `json:"spreadsheetDownload,omitempty"`
}

// RequirementScore holds one requirement's severity-bucketed scores for
// one account, as returned by GET /accounts/{ids}/detailedScore.
type RequirementScore struct {
	RequirementID string `json:"requirementId"`

	// Score maps severity name (e.g. "critical") to that bucket's result.
	Score map[string]SeverityScore `json:"score"`
}

// AccountScores is the per-account record of the detailed score endpoint.
type AccountScores struct {
	AccountID          string             `json:"accountId"`
	AccountName        string             `json:"accountName"`
	RequirementsScores []RequirementScore `json:"requirementsScores"`
}
