package api

import (
	"errors"
	"fmt"
)

// AuthError means the bearer credential is missing, expired, or rejected
// (HTTP 401/403). Callers propagate it to force re-authentication.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("authentication failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// NetworkError means the transport failed or the server answered 5xx.
// An in-flight aggregate fetch aborts as a whole; no partial results.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError means the server rejected a submitted exclusion or
// remediation. Message carries the server text verbatim for user display.
type ValidationError struct {
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrOverrideRequired is returned by Remediate when the server demands an
// explicit infrastructure-as-code override confirmation. Distinct from a
// validation failure: the caller re-prompts and resubmits with the
// override flag set.
var ErrOverrideRequired = errors.New("remediation requires infrastructure-as-code override confirmation")

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
