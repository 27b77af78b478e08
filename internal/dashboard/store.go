// internal/dashboard/store.go
// Package dashboard turns a run batch into the values a dashboard displays:
// the list of successful runs, a caller-owned selection and metric cards.
package dashboard

import (
	"errors"
	"strings"

	"github.com/mwiater/matchboard/internal/metrics"
	"github.com/mwiater/matchboard/internal/runs"
)

// ErrRunNotFound is returned when an id names no successful run.
var ErrRunNotFound = errors.New("run not found")

// AllRunsAlias is accepted by Lookup as a shorthand for the aggregate id.
const AllRunsAlias = "all"

// Store is a read-only view over an immutable run batch.
type Store struct {
	records    []runs.Record
	successful []runs.Record
}

// NewStore copies records so later mutation by the caller cannot leak in.
func NewStore(records []runs.Record) *Store {
	copied := make([]runs.Record, len(records))
	copy(copied, records)
	return &Store{
		records:    copied,
		successful: metrics.SuccessfulRuns(copied),
	}
}

// All returns every record, successful or not.
func (s *Store) All() []runs.Record { return s.records }

// Successful returns the records that take part in listing and aggregation.
func (s *Store) Successful() []runs.Record { return s.successful }

// Aggregate derives the all-runs record afresh from the successful runs.
func (s *Store) Aggregate() (runs.Record, bool) {
	return metrics.AggregateSuccessful(s.records)
}

// Lookup returns a successful run by id, or the aggregate for
// metrics.AggregateRunID (or "all").
func (s *Store) Lookup(id string) (runs.Record, error) {
	id = strings.TrimSpace(id)
	if id == metrics.AggregateRunID || strings.EqualFold(id, AllRunsAlias) {
		agg, ok := s.Aggregate()
		if !ok {
			return runs.Record{}, ErrRunNotFound
		}
		return agg, nil
	}
	for _, rec := range s.successful {
		if rec.RunID == id {
			return rec, nil
		}
	}
	return runs.Record{}, ErrRunNotFound
}

// TopKeys returns at most limit ranked match keys for rec. The aggregate's
// list is re-merged at limit rather than cut from the default-sized merge.
func (s *Store) TopKeys(rec runs.Record, limit int) []runs.MatchKey {
	if limit <= 0 {
		limit = metrics.DefaultTopKeys
	}
	if metrics.IsAggregate(rec) {
		return metrics.MergeTopKeys(s.successful, limit)
	}
	if len(rec.TopMatchKeys) <= limit {
		return rec.TopMatchKeys
	}
	return rec.TopMatchKeys[:limit]
}

// Has reports whether Lookup(id) would succeed.
func (s *Store) Has(id string) bool {
	_, err := s.Lookup(id)
	return err == nil
}
