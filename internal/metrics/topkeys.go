// internal/metrics/topkeys.go
package metrics

import (
	"sort"

	"github.com/mwiater/matchboard/internal/runs"
)

// DefaultTopKeys is the length of a ranked match-key list.
const DefaultTopKeys = 10

// MergeTopKeys sums per-run ranked match-key lists by label and returns the
// top limit labels by total, ties broken by label.
//
// Each source list was already truncated to its run's own top keys, so a
// label that missed a run's cutoff contributes nothing for that run. Merged
// totals are therefore a lower bound on the true counts across runs.
func MergeTopKeys(records []runs.Record, limit int) []runs.MatchKey {
	if limit <= 0 {
		limit = DefaultTopKeys
	}

	totals := make(map[string]float64)
	for _, rec := range records {
		for _, key := range rec.TopMatchKeys {
			totals[key.Label] += key.Count
		}
	}

	merged := make([]runs.MatchKey, 0, len(totals))
	for label, count := range totals {
		merged = append(merged, runs.MatchKey{Label: label, Count: count})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Count != merged[j].Count {
			return merged[i].Count > merged[j].Count
		}
		return merged[i].Label < merged[j].Label
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
