// Package api is the HTTP client for the scorecard service. It consumes
// already-authenticated JSON endpoints and maps failures onto the typed
// error taxonomy in errors.go. All multi-account reads are chunked and
// merged order-preserving through internal/batch.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/complianceops/scorecard/internal/batch"
	"github.com/complianceops/scorecard/internal/models"
)

// TokenSource supplies the bearer credential for each request. The login
// flow that produces tokens lives outside this module.
type TokenSource interface {
	// Token returns a currently valid bearer token, or an error when the
	// session has no credential.
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource wrapping a fixed credential string.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", &AuthError{Message: "no credential configured"}
	}
	return string(t), nil
}

// Client is the scorecard service API surface the engine consumes.
type Client interface {
	// Status fetches the session reference data.
	Status(ctx context.Context) (*models.StatusData, error)

	// AccountsSummary fetches per-account scores and history for ids,
	// chunked at the API limit and merged in input order.
	AccountsSummary(ctx context.Context, ids []string) ([]models.AccountSummary, error)

	// AccountsDetailedScore fetches per-account per-requirement severity
	// scores for ids, chunked and merged in input order.
	AccountsDetailedScore(ctx context.Context, ids []string) ([]models.AccountScores, error)

	// NCRs fetches findings for the given accounts, optionally restricted
	// to one requirement.
	NCRs(ctx context.Context, accountIDs []string, requirementID string) ([]models.NCR, error)

	// NCRTags fetches the resource tag set of one finding.
	NCRTags(ctx context.Context, ncrID string) (*models.NCRTags, error)

	// Exclusions fetches every exclusion record (admin view).
	Exclusions(ctx context.Context) ([]models.Exclusion, error)

	// PutUserExclusion creates or updates an exclusion through the
	// user-scoped endpoint.
	PutUserExclusion(ctx context.Context, sub UserExclusionSubmission) error

	// PutExclusion creates or updates an exclusion through the admin
	// endpoint.
	PutExclusion(ctx context.Context, sub AdminExclusionSubmission) error

	// Remediate requests auto-remediation of one finding. It returns
	// ErrOverrideRequired when the server demands IaC override
	// confirmation; resubmit with OverrideIacWarning set.
	Remediate(ctx context.Context, req RemediationRequest) error

	// Scans fetches the scan history, newest first.
	Scans(ctx context.Context) ([]models.ScanRecord, error)
}

// UserExclusionSubmission is the PUT /exclusions/user body.
type UserExclusionSubmission struct {
	NCRID     string           `json:"ncrId"`
	Exclusion models.Exclusion `json:"exclusion"`
}

// AdminExclusionSubmission is the PUT /exclusions body. ExclusionID is
// empty when creating a new record.
type AdminExclusionSubmission struct {
	ExclusionID string           `json:"exclusionId,omitempty"`
	Exclusion   models.Exclusion `json:"exclusion"`
}

// RemediationRequest is the POST /remediate body.
type RemediationRequest struct {
	NCRID                 string            `json:"ncrId"`
	RemediationParameters map[string]string `json:"remediationParameters"`
	OverrideIacWarning    bool              `json:"overrideIacWarning,omitempty"`
}

// DefaultClient is the production Client over net/http.
type DefaultClient struct {
	baseURL   string
	tokens    TokenSource
	http      *http.Client
	log       zerolog.Logger
	chunkSize int
}

// Option configures a DefaultClient.
type Option func(*DefaultClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *DefaultClient) { c.http = h }
}

// WithLogger attaches a structured logger; requests log at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(c *DefaultClient) { c.log = log }
}

// WithChunkSize overrides the per-request id limit. Intended for tests.
func WithChunkSize(n int) Option {
	return func(c *DefaultClient) { c.chunkSize = n }
}

// NewDefaultClient constructs a client for the service at baseURL using
// tokens for authentication.
func NewDefaultClient(baseURL string, tokens TokenSource, opts ...Option) *DefaultClient {
	c := &DefaultClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokens:    tokens,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       zerolog.Nop(),
		chunkSize: batch.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorEnvelope is the server's failure body: {"message": "..."}.
type errorEnvelope struct {
	Message string `json:"message"`
}

// do issues one request and decodes a 2xx JSON body into out (when out is
// non-nil). Non-2xx statuses map onto the error taxonomy: 401/403 auth,
// 5xx network, any other 4xx validation with the server message verbatim.
func (c *DefaultClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Str("request_id", requestID).Str("method", method).
			Str("path", path).Err(err).Msg("request failed")
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().Str("request_id", requestID).Str("method", method).
		Str("path", path).Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).Msg("request complete")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
		return nil
	}

	var envelope errorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, &envelope)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode, Message: envelope.Message}
	case resp.StatusCode >= 500:
		return &NetworkError{StatusCode: resp.StatusCode}
	default:
		message := envelope.Message
		if message == "" {
			message = fmt.Sprintf("request rejected (HTTP %d)", resp.StatusCode)
		}
		return &ValidationError{StatusCode: resp.StatusCode, Message: message}
	}
}

// Status implements Client.
func (c *DefaultClient) Status(ctx context.Context) (*models.StatusData, error) {
	var status models.StatusData
	if err := c.do(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

type summaryResponse struct {
	Accounts []models.AccountSummary `json:"accounts"`
}

// AccountsSummary implements Client.
func (c *DefaultClient) AccountsSummary(ctx context.Context, ids []string) ([]models.AccountSummary, error) {
	return batch.FanOut(ctx, ids, c.chunkSize, func(ctx context.Context, chunk []string) ([]models.AccountSummary, error) {
		path := fmt.Sprintf("/accounts/%s/summary", url.PathEscape(strings.Join(chunk, ",")))
		var resp summaryResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		return resp.Accounts, nil
	})
}

type detailedScoreResponse struct {
	Accounts []models.AccountScores `json:"accounts"`
}

// AccountsDetailedScore implements Client.
func (c *DefaultClient) AccountsDetailedScore(ctx context.Context, ids []string) ([]models.AccountScores, error) {
	return batch.FanOut(ctx, ids, c.chunkSize, func(ctx context.Context, chunk []string) ([]models.AccountScores, error) {
		path := fmt.Sprintf("/accounts/%s/detailedScore", url.PathEscape(strings.Join(chunk, ",")))
		var resp detailedScoreResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		return resp.Accounts, nil
	})
}

type ncrResponse struct {
	NCRRecords []models.NCR `json:"ncrRecords"`
}

// NCRs implements Client.
func (c *DefaultClient) NCRs(ctx context.Context, accountIDs []string, requirementID string) ([]models.NCR, error) {
	return batch.FanOut(ctx, accountIDs, c.chunkSize, func(ctx context.Context, chunk []string) ([]models.NCR, error) {
		query := url.Values{}
		for _, id := range chunk {
			query.Add("accountId", id)
		}
		if requirementID != "" {
			query.Set("requirementId", requirementID)
		}
		var resp ncrResponse
		if err := c.do(ctx, http.MethodGet, "/ncr?"+query.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		return resp.NCRRecords, nil
	})
}

type tagsResponse struct {
	NCRTags models.NCRTags `json:"ncrTags"`
}

// NCRTags implements Client.
func (c *DefaultClient) NCRTags(ctx context.Context, ncrID string) (*models.NCRTags, error) {
	path := fmt.Sprintf("/ncr/%s/tags", url.PathEscape(ncrID))
	var resp tagsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.NCRTags.NCRID == "" {
		resp.NCRTags.NCRID = ncrID
	}
	return &resp.NCRTags, nil
}

type exclusionsResponse struct {
	Exclusions []models.Exclusion `json:"exclusions"`
}

// Exclusions implements Client.
func (c *DefaultClient) Exclusions(ctx context.Context) ([]models.Exclusion, error) {
	var resp exclusionsResponse
	if err := c.do(ctx, http.MethodGet, "/exclusions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Exclusions, nil
}

// PutUserExclusion implements Client.
func (c *DefaultClient) PutUserExclusion(ctx context.Context, sub UserExclusionSubmission) error {
	return c.do(ctx, http.MethodPut, "/exclusions/user", sub, nil)
}

// PutExclusion implements Client.
func (c *DefaultClient) PutExclusion(ctx context.Context, sub AdminExclusionSubmission) error {
	return c.do(ctx, http.MethodPut, "/exclusions", sub, nil)
}

// remediationResponse is the 200 body of POST /remediate. The worker
// outcome rides inside a success status code.
type remediationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Remediation outcome statuses reported by the server.
const (
	remediationStatusError            = "error"
	remediationStatusValidationError  = "validationError"
	remediationStatusOverrideRequired = "iacOverrideRequired"
)

// Remediate implements Client.
func (c *DefaultClient) Remediate(ctx context.Context, req RemediationRequest) error {
	var resp remediationResponse
	if err := c.do(ctx, http.MethodPost, "/remediate", req, &resp); err != nil {
		return err
	}
	switch resp.Status {
	case remediationStatusOverrideRequired:
		return ErrOverrideRequired
	case remediationStatusError, remediationStatusValidationError:
		return &ValidationError{StatusCode: http.StatusOK, Message: resp.Message}
	default:
		return nil
	}
}

type scansResponse struct {
	Scans []models.ScanRecord `json:"scans"`
}

// Scans implements Client.
func (c *DefaultClient) Scans(ctx context.Context) ([]models.ScanRecord, error) {
	var resp scansResponse
	if err := c.do(ctx, http.MethodGet, "/scans", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Scans, nil
}
