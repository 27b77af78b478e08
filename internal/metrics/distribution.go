// internal/metrics/distribution.go
package metrics

import (
	"math"

	"github.com/mwiater/matchboard/internal/runs"
)

// MergeDistributions sums the named distribution across records. Keys are
// unioned; records without the distribution are skipped.
func MergeDistributions(records []runs.Record, field runs.DistributionField) runs.Distribution {
	merged := make(runs.Distribution)
	for _, rec := range records {
		for key, value := range rec.Distribution(field) {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				continue
			}
			merged[key] += value
		}
	}
	return merged
}
