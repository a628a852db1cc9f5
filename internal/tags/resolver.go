// Package tags accumulates lazily fetched resource tag sets across a
// session. Storage is keyed by finding id with insert-or-replace
// semantics, so re-fetching the same finding is idempotent and concurrent
// fetches for different findings cannot corrupt each other's entries.
package tags

import (
	"sync"

	"github.com/complianceops/scorecard/internal/models"
)

// NoTags is the display text for a finding whose tags are not yet fetched.
const NoTags = "no tags"

// Resolver holds the accumulated tag sets of the current session.
// The zero value is not usable; construct with NewResolver.
type Resolver struct {
	mu    sync.RWMutex
	byNCR map[string]models.NCRTags
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{byNCR: make(map[string]models.NCRTags)}
}

// Put records the fetched tag set for its finding, replacing any earlier
// fetch of the same id.
func (r *Resolver) Put(set models.NCRTags) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byNCR[set.NCRID] = set
}

// Lookup returns the tag set for a finding id. ok is false when no fetch
// has completed for it yet, which callers surface as a fetch trigger.
func (r *Resolver) Lookup(ncrID string) (models.NCRTags, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.byNCR[ncrID]
	return set, ok
}

// Display returns the rendered tag list for a finding: the joined
// name:value pairs when fetched, NoTags otherwise.
func (r *Resolver) Display(ncrID string) string {
	set, ok := r.Lookup(ncrID)
	if !ok {
		return NoTags
	}
	if joined := set.Joined(); joined != "" {
		return joined
	}
	return NoTags
}

// Snapshot returns a copy of the accumulated tag map. Projections consume
// the snapshot so a concurrent Put cannot mutate rows mid-build.
func (r *Resolver) Snapshot() map[string]models.NCRTags {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(map[string]models.NCRTags, len(r.byNCR))
	for id, set := range r.byNCR {
		snap[id] = set
	}
	return snap
}
