package engine

import (
	"context"

	"github.com/complianceops/scorecard/internal/exclusion"
	"github.com/complianceops/scorecard/internal/filter"
	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/view"
)

// NCROptions scopes a findings fetch.
type NCROptions struct {
	// AccountIDs restricts the fetch; empty means every account visible
	// to the session.
	AccountIDs []string

	// RequirementID restricts the fetch to one requirement when set.
	RequirementID string
}

// Engine is the central orchestration interface: it coordinates API
// fetches, the session store, and the pure projection builders, returning
// completed tables for external consumers to render.
//
// Engine never renders anything itself and holds no UI concerns; its
// outputs are plain data.
type Engine interface {
	// RefreshStatus fetches the reference data and replaces the cached
	// copy. Every view call requires a prior successful refresh.
	RefreshStatus(ctx context.Context) (*models.StatusData, error)

	// AccountsView builds the accounts projection, filtered by f.
	AccountsView(ctx context.Context, f filter.Filter) (view.Table, error)

	// MatrixView builds the cross-account requirement matrix, filtered by f.
	MatrixView(ctx context.Context, f filter.Filter) (view.Table, error)

	// NCRView builds the findings projection, filtered by f.
	NCRView(ctx context.Context, opts NCROptions, f filter.Filter) (view.Table, error)

	// ExclusionsView builds the admin exclusions projection, filtered by f.
	ExclusionsView(ctx context.Context, f filter.Filter) (view.Table, error)

	// ScansView builds the scan history projection, filtered by f.
	ScansView(ctx context.Context, f filter.Filter) (view.Table, error)

	// FetchTags lazily resolves one finding's tag set into the session's
	// accumulated tag map. Fetching the same id again replaces the entry.
	FetchTags(ctx context.Context, ncrID string) error

	// Tags reads one finding's resolved tag set back out of the session.
	// ok is false when the finding's tags were never fetched.
	Tags(ncrID string) (set models.NCRTags, ok bool)

	// ExclusionAction derives the lifecycle action for one fetched finding.
	ExclusionAction(ncrID string) (exclusion.Action, error)

	// SubmitUserExclusion merges a filled transition form and submits it
	// through the user endpoint, then re-fetches the findings collection.
	SubmitUserExclusion(ctx context.Context, ncrID string, target models.ExclusionStatus, entered map[string]string) error

	// SubmitAdminExclusion submits an admin edit of an exclusion record,
	// then re-fetches the exclusions collection.
	SubmitAdminExclusion(ctx context.Context, exclusionID string, edit exclusion.AdminEdit) error

	// Remediate submits a remediation request for one finding. It returns
	// api.ErrOverrideRequired when the server demands confirmation; the
	// caller re-prompts and resubmits with override set.
	Remediate(ctx context.Context, ncrID string, parameters map[string]string, override bool) error
}
