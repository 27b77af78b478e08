// internal/metrics/audit.go
package metrics

import (
	"math"

	"github.com/mwiater/matchboard/internal/runs"
)

// DefaultAuditTolerance is the accepted difference, in percentage points,
// between a reported and a recomputed percentage.
const DefaultAuditTolerance = 0.01

// Audit check outcomes.
const (
	CheckPass = "PASS"
	CheckFail = "FAIL"
	CheckSkip = "SKIP"
)

// Check compares one reported value against its recomputation.
type Check struct {
	Name       string   `json:"name"`
	Reported   runs.Num `json:"reported"`
	Recomputed runs.Num `json:"recomputed"`
	Status     string   `json:"status"`
}

// RunAudit is the audit of one record.
type RunAudit struct {
	RunID           string  `json:"run_id"`
	RunLabel        string  `json:"run_label,omitempty"`
	SourceInputName string  `json:"source_input_name,omitempty"`
	RunStatus       string  `json:"run_status"`
	OverallStatus   string  `json:"overall_status"`
	Checks          []Check `json:"checks"`
}

// AuditReport is the audit of a whole batch.
type AuditReport struct {
	RunsTotal int        `json:"runs_total"`
	RunsPass  int        `json:"runs_pass"`
	RunsFail  int        `json:"runs_fail"`
	RunsSkip  int        `json:"runs_skip"`
	Runs      []RunAudit `json:"runs"`
}

// Failed reports whether any run failed a check.
func (r AuditReport) Failed() bool { return r.RunsFail > 0 }

// AuditRun checks the percentages a record reports against the ones its own
// counts produce. Values are rounded to two decimals before comparison, the
// precision upstream reports at.
func AuditRun(rec runs.Record, tolerance float64) RunAudit {
	if tolerance < 0 {
		tolerance = DefaultAuditTolerance
	}

	precision := RatioPct(rec.TruePositive, rec.TruePositive.Add(rec.FalsePositive))
	recall := RatioPct(rec.TruePositive, rec.TruePositive.Add(rec.FalseNegative))

	checks := []Check{
		evaluateCheck("Match Correctness (%)", rec.PairPrecisionPct, precision, tolerance),
		evaluateCheck("False Positive (%)", rec.OverallFalsePositivePct, RatioPct(rec.FalsePositive, rec.PredictedPairsLabeled), tolerance),
		evaluateCheck("Match Missed (%)", rec.PairRecallPct.Map(MissedFromRecall), recall.Map(MissedFromRecall), tolerance),
		evaluateCheck("Our Match Coverage (%)", rec.OurMatchCoveragePct, RatioPct(rec.OurTruePositive, rec.OurTruePairsTotal), tolerance),
		evaluateCheck("Gain vs Known (%)", rec.ExtraGainVsKnownPct, RatioPct(rec.ExtraTrueMatchesFound, rec.KnownPairsIPG), tolerance),
	}

	overall := CheckPass
	allSkip := true
	for _, check := range checks {
		if check.Status != CheckSkip {
			allSkip = false
		}
		if check.Status == CheckFail {
			overall = CheckFail
		}
	}
	if allSkip {
		overall = CheckSkip
	}

	return RunAudit{
		RunID:           rec.RunID,
		RunLabel:        rec.RunLabel,
		SourceInputName: rec.SourceInputName,
		RunStatus:       rec.Status(),
		OverallStatus:   overall,
		Checks:          checks,
	}
}

// Audit audits every record and tallies the outcomes.
func Audit(records []runs.Record, tolerance float64) AuditReport {
	report := AuditReport{Runs: make([]RunAudit, 0, len(records))}
	for _, rec := range records {
		audited := AuditRun(rec, tolerance)
		switch audited.OverallStatus {
		case CheckPass:
			report.RunsPass++
		case CheckFail:
			report.RunsFail++
		default:
			report.RunsSkip++
		}
		report.Runs = append(report.Runs, audited)
	}
	report.RunsTotal = len(report.Runs)
	return report
}

func evaluateCheck(name string, reported, recomputed runs.Num, tolerance float64) Check {
	check := Check{Name: name, Reported: reported, Recomputed: recomputed, Status: CheckSkip}
	a, aok := reported.Value()
	b, bok := recomputed.Value()
	if !aok || !bok {
		return check
	}
	// 1e-9 absorbs float error at the tolerance boundary.
	if math.Abs(round2(a)-round2(b)) <= tolerance+1e-9 {
		check.Status = CheckPass
	} else {
		check.Status = CheckFail
	}
	return check
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
