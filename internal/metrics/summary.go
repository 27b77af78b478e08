// internal/metrics/summary.go
package metrics

import "github.com/mwiater/matchboard/internal/runs"

// Summary describes a whole batch of runs.
type Summary struct {
	RunsTotal          int      `json:"runs_total"`
	QualityRunsTotal   int      `json:"quality_runs_total"`
	SuccessfulRuns     int      `json:"successful_runs"`
	FailedRuns         int      `json:"failed_runs"`
	IncompleteRuns     int      `json:"incomplete_runs"`
	LatestRunID        string   `json:"latest_run_id,omitempty"`
	RecordsInputTotal  float64  `json:"records_input_total"`
	MatchedPairsTotal  float64  `json:"matched_pairs_total"`
	PooledPrecisionPct runs.Num `json:"pooled_precision_pct"`
	PooledRecallPct    runs.Num `json:"pooled_recall_pct"`
}

// Summarize counts runs by status and pools quality metrics over the runs
// that carry ground truth. Precision and recall come from summed confusion
// counts, not from averaging each run's percentage.
func Summarize(records []runs.Record) Summary {
	s := Summary{RunsTotal: len(records)}

	var tp, fp, fn float64
	var latest runs.Record
	haveLatest := false

	for _, rec := range records {
		switch rec.Status() {
		case runs.StatusSuccess:
			s.SuccessfulRuns++
		case runs.StatusFailed:
			s.FailedRuns++
		default:
			s.IncompleteRuns++
		}

		if t, ok := runs.ParseRunTime(rec); ok {
			if lt, lok := runs.ParseRunTime(latest); !haveLatest || !lok || t.After(lt) {
				latest = rec
				haveLatest = true
			}
		} else if !haveLatest {
			latest = rec
			haveLatest = true
		}

		if !rec.QualityAvailable {
			continue
		}
		s.QualityRunsTotal++
		s.RecordsInputTotal += rec.RecordsInput.Or(0)
		s.MatchedPairsTotal += rec.MatchedPairs.Or(0)
		tp += rec.TruePositive.Or(0)
		fp += rec.FalsePositive.Or(0)
		fn += rec.FalseNegative.Or(0)
	}

	if haveLatest {
		s.LatestRunID = latest.RunID
	}
	if s.QualityRunsTotal > 0 {
		s.PooledPrecisionPct = RatioPct(runs.Some(tp), runs.Some(tp+fp))
		s.PooledRecallPct = RatioPct(runs.Some(tp), runs.Some(tp+fn))
	}
	return s
}
