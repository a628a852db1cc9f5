package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/complianceops/scorecard/internal/api"
	"github.com/complianceops/scorecard/internal/exclusion"
	"github.com/complianceops/scorecard/internal/filter"
	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/store"
	"github.com/complianceops/scorecard/internal/tags"
	"github.com/complianceops/scorecard/internal/view"
)

// DefaultEngine is the production implementation of Engine. Fetches go
// through the API client; fetched collections live in the session store
// with replace semantics; projections are pure functions over the store's
// contents.
type DefaultEngine struct {
	client api.Client
	store  *store.Store
	tags   *tags.Resolver
	log    zerolog.Logger
}

// NewDefaultEngine constructs a DefaultEngine wired to the supplied client.
func NewDefaultEngine(client api.Client, log zerolog.Logger) *DefaultEngine {
	return &DefaultEngine{
		client: client,
		store:  store.New(),
		tags:   tags.NewResolver(),
		log:    log,
	}
}

// applyFilter filters a projection's rows. Row-aligned colour entries are
// kept in step so cell styling never shifts onto the wrong record.
func applyFilter(f filter.Filter, table view.Table) view.Table {
	if len(table.Colors) == 0 {
		table.Rows = filter.Apply(f, table.Rows)
		return table
	}
	var rows []view.Row
	var colors []map[string]models.ColorPair
	for i, row := range table.Rows {
		if filter.Matches(f, row) {
			rows = append(rows, row)
			colors = append(colors, table.Colors[i])
		}
	}
	table.Rows = rows
	table.Colors = colors
	return table
}

// RefreshStatus implements Engine.
func (e *DefaultEngine) RefreshStatus(ctx context.Context) (*models.StatusData, error) {
	status, err := e.client.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh status: %w", err)
	}
	if !status.IsAuthenticated {
		return nil, &api.AuthError{Message: "session is not authenticated"}
	}
	e.store.SetStatus(status)
	e.log.Debug().Int("accounts", len(status.AccountList)).
		Int("requirements", len(status.Requirements)).Msg("reference data refreshed")
	return status, nil
}

// status returns the cached reference data or fails when no refresh has
// succeeded yet.
func (e *DefaultEngine) status() (*models.StatusData, error) {
	status := e.store.Status()
	if status == nil {
		return nil, fmt.Errorf("no reference data; call RefreshStatus first")
	}
	return status, nil
}

// AccountsView implements Engine.
func (e *DefaultEngine) AccountsView(ctx context.Context, f filter.Filter) (view.Table, error) {
	status, err := e.status()
	if err != nil {
		return view.Table{}, err
	}

	token := e.store.Summaries.Begin()
	summaries, err := e.client.AccountsSummary(ctx, status.AccountIDs())
	if err != nil {
		return view.Table{}, fmt.Errorf("fetch account summaries: %w", err)
	}
	if !e.store.Summaries.Replace(token, summaries) {
		summaries = e.store.Summaries.Get()
	}

	return applyFilter(f, view.Accounts(status, summaries)), nil
}

// MatrixView implements Engine.
func (e *DefaultEngine) MatrixView(ctx context.Context, f filter.Filter) (view.Table, error) {
	status, err := e.status()
	if err != nil {
		return view.Table{}, err
	}

	token := e.store.Scores.Begin()
	scores, err := e.client.AccountsDetailedScore(ctx, status.AccountIDs())
	if err != nil {
		return view.Table{}, fmt.Errorf("fetch detailed scores: %w", err)
	}
	if !e.store.Scores.Replace(token, scores) {
		scores = e.store.Scores.Get()
	}

	return applyFilter(f, view.Matrix(status, scores)), nil
}

// NCRView implements Engine.
func (e *DefaultEngine) NCRView(ctx context.Context, opts NCROptions, f filter.Filter) (view.Table, error) {
	status, err := e.status()
	if err != nil {
		return view.Table{}, err
	}

	accountIDs := opts.AccountIDs
	if len(accountIDs) == 0 {
		accountIDs = status.AccountIDs()
	}

	token := e.store.NCRs.Begin()
	ncrs, err := e.client.NCRs(ctx, accountIDs, opts.RequirementID)
	if err != nil {
		return view.Table{}, fmt.Errorf("fetch findings: %w", err)
	}
	if !e.store.NCRs.Replace(token, ncrs) {
		ncrs = e.store.NCRs.Get()
	}

	return applyFilter(f, view.NCRs(status, ncrs, e.tags.Snapshot())), nil
}

// ExclusionsView implements Engine.
func (e *DefaultEngine) ExclusionsView(ctx context.Context, f filter.Filter) (view.Table, error) {
	status, err := e.status()
	if err != nil {
		return view.Table{}, err
	}

	token := e.store.Exclusions.Begin()
	exclusions, err := e.client.Exclusions(ctx)
	if err != nil {
		return view.Table{}, fmt.Errorf("fetch exclusions: %w", err)
	}
	if !e.store.Exclusions.Replace(token, exclusions) {
		exclusions = e.store.Exclusions.Get()
	}

	return applyFilter(f, view.Exclusions(status, exclusions)), nil
}

// ScansView implements Engine.
func (e *DefaultEngine) ScansView(ctx context.Context, f filter.Filter) (view.Table, error) {
	token := e.store.Scans.Begin()
	scans, err := e.client.Scans(ctx)
	if err != nil {
		return view.Table{}, fmt.Errorf("fetch scans: %w", err)
	}
	if !e.store.Scans.Replace(token, scans) {
		scans = e.store.Scans.Get()
	}

	return applyFilter(f, view.Scans(scans)), nil
}

// FetchTags implements Engine.
func (e *DefaultEngine) FetchTags(ctx context.Context, ncrID string) error {
	set, err := e.client.NCRTags(ctx, ncrID)
	if err != nil {
		return fmt.Errorf("fetch tags for %s: %w", ncrID, err)
	}
	e.tags.Put(*set)
	return nil
}

// Tags implements Engine.
func (e *DefaultEngine) Tags(ncrID string) (models.NCRTags, bool) {
	return e.tags.Lookup(ncrID)
}

// findNCR locates a fetched finding by id.
func (e *DefaultEngine) findNCR(ncrID string) (models.NCR, error) {
	for _, ncr := range e.store.NCRs.Get() {
		if ncr.NCRID == ncrID {
			return ncr, nil
		}
	}
	return models.NCR{}, fmt.Errorf("finding %s is not in the fetched set", ncrID)
}

// ExclusionAction implements Engine.
func (e *DefaultEngine) ExclusionAction(ncrID string) (exclusion.Action, error) {
	status, err := e.status()
	if err != nil {
		return exclusion.Action{}, err
	}
	ncr, err := e.findNCR(ncrID)
	if err != nil {
		return exclusion.Action{}, err
	}
	return exclusion.ActionFor(ncr, status, time.Now())
}

// SubmitUserExclusion implements Engine. The local cache is only touched
// after the server accepts: a failed submission leaves every collection
// exactly as it was.
func (e *DefaultEngine) SubmitUserExclusion(ctx context.Context, ncrID string, target models.ExclusionStatus, entered map[string]string) error {
	ncr, err := e.findNCR(ncrID)
	if err != nil {
		return err
	}

	merged := exclusion.MergeUserSubmission(ncr.Resource.Exclusion, target, entered)
	err = e.client.PutUserExclusion(ctx, api.UserExclusionSubmission{
		NCRID:     ncrID,
		Exclusion: merged,
	})
	if err != nil {
		return fmt.Errorf("submit exclusion for %s: %w", ncrID, err)
	}

	e.refetchNCRs(ctx)
	return nil
}

// SubmitAdminExclusion implements Engine. An explicit target state must be
// one the record's exclusion type declares.
func (e *DefaultEngine) SubmitAdminExclusion(ctx context.Context, exclusionID string, edit exclusion.AdminEdit) error {
	var record models.Exclusion
	for _, exc := range e.store.Exclusions.Get() {
		if exc.ExclusionID == exclusionID {
			record = exc
			break
		}
	}

	if edit.NewStatus != models.StatusNone {
		if status := e.store.Status(); status != nil {
			if typeDef, ok := status.ExclusionTypes[record.Type]; ok {
				declared := false
				for _, option := range exclusion.StateOptions(typeDef) {
					if option.Status == edit.NewStatus {
						declared = true
						break
					}
				}
				if !declared {
					return fmt.Errorf("exclusion type %q declares no state %q", record.Type, edit.NewStatus)
				}
			}
		}
	}

	merged := exclusion.MergeAdminSubmission(record, edit)
	err := e.client.PutExclusion(ctx, api.AdminExclusionSubmission{
		ExclusionID: exclusionID,
		Exclusion:   merged,
	})
	if err != nil {
		return fmt.Errorf("submit exclusion %s: %w", exclusionID, err)
	}

	token := e.store.Exclusions.Begin()
	if exclusions, err := e.client.Exclusions(ctx); err == nil {
		e.store.Exclusions.Replace(token, exclusions)
	}
	return nil
}

// Remediate implements Engine.
func (e *DefaultEngine) Remediate(ctx context.Context, ncrID string, parameters map[string]string, override bool) error {
	err := e.client.Remediate(ctx, api.RemediationRequest{
		NCRID:                 ncrID,
		RemediationParameters: parameters,
		OverrideIacWarning:    override,
	})
	if err != nil {
		return err
	}

	e.refetchNCRs(ctx)
	return nil
}

// refetchNCRs refreshes the findings collection after a successful
// submission. A refresh failure is logged, not propagated — the
// submission itself succeeded.
func (e *DefaultEngine) refetchNCRs(ctx context.Context) {
	status := e.store.Status()
	if status == nil {
		return
	}
	token := e.store.NCRs.Begin()
	ncrs, err := e.client.NCRs(ctx, status.AccountIDs(), "")
	if err != nil {
		e.log.Warn().Err(err).Msg("refetch findings after submission failed")
		return
	}
	e.store.NCRs.Replace(token, ncrs)
}
