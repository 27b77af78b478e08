// internal/dashboard/selection.go
package dashboard

import "github.com/mwiater/matchboard/internal/runs"

// Selection holds the currently selected run id. It is owned by the caller
// and passed to whatever renders the selected run.
type Selection struct {
	RunID string
}

// Ensure keeps the current id if it still resolves, else falls back to the
// first successful run, else clears the selection.
func (s *Selection) Ensure(store *Store) {
	if s.RunID != "" && store.Has(s.RunID) {
		return
	}
	successful := store.Successful()
	if len(successful) == 0 {
		s.RunID = ""
		return
	}
	s.RunID = successful[0].RunID
}

// Select sets the selected id without validating it; Ensure or Current do that.
func (s *Selection) Select(id string) {
	s.RunID = id
}

// Current resolves the selection against store.
func (s Selection) Current(store *Store) (runs.Record, bool) {
	if s.RunID == "" {
		return runs.Record{}, false
	}
	rec, err := store.Lookup(s.RunID)
	if err != nil {
		return runs.Record{}, false
	}
	return rec, true
}
