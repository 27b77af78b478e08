// internal/metrics/resolve.go
package metrics

import "github.com/mwiater/matchboard/internal/runs"

// ResolveMetric prefers a present precomputed value and otherwise evaluates
// fallback. Either way the result may be unavailable.
func ResolveMetric(primary runs.Num, fallback func() runs.Num) runs.Num {
	if primary.Valid() {
		return primary
	}
	if fallback == nil {
		return runs.None()
	}
	return fallback()
}

// Derived holds the displayed metrics of one record. Each value is resolved
// on its own; one being unavailable says nothing about the others.
type Derived struct {
	PrecisionPct         runs.Num `json:"precision_pct"`
	RecallPct            runs.Num `json:"recall_pct"`
	MissedPct            runs.Num `json:"missed_pct"`
	CoveragePct          runs.Num `json:"coverage_pct"`
	FalsePositiveRatePct runs.Num `json:"false_positive_rate_pct"`
	GainPct              runs.Num `json:"gain_pct"`
}

// Resolve computes every displayed metric for rec.
func Resolve(rec runs.Record) Derived {
	return Derived{
		PrecisionPct:         Precision(rec),
		RecallPct:            Recall(rec),
		MissedPct:            Missed(rec),
		CoveragePct:          Coverage(rec),
		FalsePositiveRatePct: FalsePositiveRate(rec),
		GainPct:              Gain(rec),
	}
}

// Coverage is the share of true pairs found by our own matching.
func Coverage(rec runs.Record) runs.Num {
	return ResolveMetric(rec.OurMatchCoveragePct, func() runs.Num {
		return RatioPct(rec.OurTruePositive, rec.OurTruePairsTotal)
	})
}

// FalsePositiveRate is the share of labeled predicted pairs that are wrong.
func FalsePositiveRate(rec runs.Record) runs.Num {
	return ResolveMetric(rec.OverallFalsePositivePct, func() runs.Num {
		return RatioPct(rec.FalsePositive, rec.PredictedPairsLabeled)
	})
}

// Gain is the number of extra true matches relative to the known pairs.
func Gain(rec runs.Record) runs.Num {
	return ResolveMetric(rec.ExtraGainVsKnownPct, func() runs.Num {
		return RatioPct(rec.ExtraTrueMatchesFound, rec.KnownPairsIPG)
	})
}

// Precision is unavailable unless ground truth was evaluated for the run,
// whatever pair_precision_pct holds.
func Precision(rec runs.Record) runs.Num {
	if !rec.QualityAvailable {
		return runs.None()
	}
	return ResolveMetric(rec.PairPrecisionPct, func() runs.Num {
		return RatioPct(rec.TruePositive, rec.TruePositive.Add(rec.FalsePositive))
	})
}

// Recall follows the same quality gate as Precision.
func Recall(rec runs.Record) runs.Num {
	if !rec.QualityAvailable {
		return runs.None()
	}
	return ResolveMetric(rec.PairRecallPct, func() runs.Num {
		return RatioPct(rec.TruePositive, rec.TruePositive.Add(rec.FalseNegative))
	})
}

// Missed is 100 minus recall, clamped to [0, 100].
func Missed(rec runs.Record) runs.Num {
	return Recall(rec).Map(MissedFromRecall)
}

// MissedFromRecall converts a recall percentage into the missed percentage.
func MissedFromRecall(recall float64) float64 {
	missed := 100 - recall
	if missed < 0 {
		return 0
	}
	if missed > 100 {
		return 100
	}
	return missed
}
