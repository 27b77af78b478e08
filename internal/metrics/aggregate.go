// internal/metrics/aggregate.go
package metrics

import (
	"fmt"

	"github.com/mwiater/matchboard/internal/runs"
)

// AggregateRunID identifies the synthetic "all runs" record. Real run ids
// always start with a timestamp, so it cannot collide with one.
const AggregateRunID = "__all_runs__"

// IsAggregate reports whether the record was produced by BuildAggregateRun.
func IsAggregate(rec runs.Record) bool { return rec.RunID == AggregateRunID }

// BuildAggregateRun synthesizes one record representing the union of the
// given successful records. Counts are summed (missing counts contribute 0)
// and every percentage is recomputed from the sums. A count no record
// reports stays unavailable. It returns false when records is empty.
func BuildAggregateRun(records []runs.Record) (runs.Record, bool) {
	if len(records) == 0 {
		return runs.Record{}, false
	}

	sum := func(field func(runs.Record) runs.Num) runs.Num {
		total, seen := 0.0, false
		for _, rec := range records {
			if v, ok := field(rec).Value(); ok {
				total += v
				seen = true
			}
		}
		if !seen {
			return runs.None()
		}
		return runs.Some(total)
	}

	agg := runs.Record{
		RunID:     AggregateRunID,
		RunLabel:  fmt.Sprintf("All runs (%d)", len(records)),
		RunStatus: runs.StatusSuccess,

		RecordsInput:        sum(func(r runs.Record) runs.Num { return r.RecordsInput }),
		RecordsExported:     sum(func(r runs.Record) runs.Num { return r.RecordsExported }),
		MatchedRecords:      sum(func(r runs.Record) runs.Num { return r.MatchedRecords }),
		MatchedPairs:        sum(func(r runs.Record) runs.Num { return r.MatchedPairs }),
		ResolvedEntities:    sum(func(r runs.Record) runs.Num { return r.ResolvedEntities }),
		OurResolvedEntities: sum(func(r runs.Record) runs.Num { return r.OurResolvedEntities }),

		TruePositive:      sum(func(r runs.Record) runs.Num { return r.TruePositive }),
		FalsePositive:     sum(func(r runs.Record) runs.Num { return r.FalsePositive }),
		FalseNegative:     sum(func(r runs.Record) runs.Num { return r.FalseNegative }),
		OurTruePositive:   sum(func(r runs.Record) runs.Num { return r.OurTruePositive }),
		OurFalsePositive:  sum(func(r runs.Record) runs.Num { return r.OurFalsePositive }),
		OurFalseNegative:  sum(func(r runs.Record) runs.Num { return r.OurFalseNegative }),
		OurTruePairsTotal: sum(func(r runs.Record) runs.Num { return r.OurTruePairsTotal }),

		PredictedPairsLabeled:   sum(func(r runs.Record) runs.Num { return r.PredictedPairsLabeled }),
		GroundTruthPairsLabeled: sum(func(r runs.Record) runs.Num { return r.GroundTruthPairsLabeled }),
		KnownPairsIPG:           sum(func(r runs.Record) runs.Num { return r.KnownPairsIPG }),

		ExtraTrueMatchesFound:  sum(func(r runs.Record) runs.Num { return r.ExtraTrueMatchesFound }),
		ExtraFalseMatchesFound: sum(func(r runs.Record) runs.Num { return r.ExtraFalseMatchesFound }),

		EntitySizeDistribution: MergeDistributions(records, runs.EntitySizeDistribution),
		MatchLevelDistribution: MergeDistributions(records, runs.MatchLevelDistribution),
		TopMatchKeys:           MergeTopKeys(records, DefaultTopKeys),
	}

	for _, rec := range records {
		if rec.QualityAvailable {
			agg.QualityAvailable = true
			break
		}
	}

	agg.PairPrecisionPct = RatioPct(agg.TruePositive, agg.TruePositive.Add(agg.FalsePositive))
	agg.PairRecallPct = RatioPct(agg.TruePositive, agg.TruePositive.Add(agg.FalseNegative))
	agg.OurMatchCoveragePct = RatioPct(agg.OurTruePositive, agg.OurTruePairsTotal)
	agg.OverallFalsePositivePct = RatioPct(agg.FalsePositive, agg.PredictedPairsLabeled)
	agg.ExtraGainVsKnownPct = RatioPct(agg.ExtraTrueMatchesFound, agg.KnownPairsIPG)

	return agg, true
}

// SuccessfulRuns filters records down to those with a success status, keeping order.
func SuccessfulRuns(records []runs.Record) []runs.Record {
	out := make([]runs.Record, 0, len(records))
	for _, rec := range records {
		if rec.Successful() {
			out = append(out, rec)
		}
	}
	return out
}

// AggregateSuccessful builds the aggregate over the successful subset of records.
func AggregateSuccessful(records []runs.Record) (runs.Record, bool) {
	return BuildAggregateRun(SuccessfulRuns(records))
}
