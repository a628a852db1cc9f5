package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ScanError is one non-fatal error recorded against a scan run.
type ScanError struct {
	FunctionName string          `json:"functionName"`
	Error        json.RawMessage `json:"error,omitempty"`
}

// ScanRecord is one row of the scan history (GET /scans).
type ScanRecord struct {
	// ScanID encodes the scan start timestamp as an RFC 3339 prefix
	// followed by an opaque suffix.
	ScanID string `json:"scanId"`

	ProcessState string `json:"processState,omitempty"`

	// TTL is the record's expiry as a unix timestamp in seconds.
	TTL int64 `json:"ttl,omitempty"`

	Errors []ScanError `json:"errors,omitempty"`

	// FatalError is set when the scan aborted; its presence is the flag.
	FatalError *ScanError `json:"fatalError,omitempty"`
}

// scanIDTimeLen is the length of the RFC 3339 UTC prefix ("...Z") older
// scan ids append their suffix to without a '#' separator.
const scanIDTimeLen = len("2006-01-02T15:04:05Z")

// StartTime parses the scan start from the ScanID prefix. The zero time is
// returned when the prefix is not a valid RFC 3339 timestamp.
func (s *ScanRecord) StartTime() time.Time {
	prefix, _, _ := strings.Cut(s.ScanID, "#")
	if t, err := time.Parse(time.RFC3339, prefix); err == nil {
		return t
	}
	if len(prefix) > scanIDTimeLen {
		if t, err := time.Parse(time.RFC3339, prefix[:scanIDTimeLen]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Expiry returns the TTL as a wall-clock time, or the zero time when no TTL
// is set.
func (s *ScanRecord) Expiry() time.Time {
	if s.TTL == 0 {
		return time.Time{}
	}
	return time.Unix(s.TTL, 0).UTC()
}
