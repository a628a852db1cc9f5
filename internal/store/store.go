// Package store holds the session's fetched data between operations.
// Reference data and per-view collections are fully replaced on each
// fetch; every replacement is generation-guarded so a stale fetch that
// lands after a fresher one has been launched is silently dropped.
package store

import (
	"sync"

	"github.com/complianceops/scorecard/internal/models"
)

// Collection is one fully-replaceable record set. A fetch calls Begin
// before issuing its requests and Replace with the returned token when
// they complete; Replace is a no-op when a newer fetch began in between.
type Collection[T any] struct {
	mu      sync.Mutex
	latest  uint64
	applied uint64
	items   []T
}

// Begin marks the start of a fetch and returns its generation token.
func (c *Collection[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	return c.latest
}

// Replace installs items as the collection's contents if no newer fetch
// has begun since token was issued. It reports whether the data was
// accepted.
func (c *Collection[T]) Replace(token uint64, items []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token < c.latest || token <= c.applied {
		return false
	}
	c.applied = token
	c.items = items
	return true
}

// Get returns the currently held items. The slice must be treated as
// read-only.
func (c *Collection[T]) Get() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Store is the whole session state: the read-mostly reference data plus
// the per-view collections.
type Store struct {
	statusMu sync.RWMutex
	status   *models.StatusData

	Summaries  Collection[models.AccountSummary]
	Scores     Collection[models.AccountScores]
	NCRs       Collection[models.NCR]
	Exclusions Collection[models.Exclusion]
	Scans      Collection[models.ScanRecord]
}

// New returns an empty Store.
func New() *Store { return &Store{} }

// Status returns the cached reference data, or nil before the first
// refresh.
func (s *Store) Status() *models.StatusData {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// SetStatus replaces the cached reference data wholesale. Refresh is an
// explicit operation producing a new value; callers never mutate the old
// one in place.
func (s *Store) SetStatus(status *models.StatusData) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = status
}
