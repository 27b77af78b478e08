// internal/dashboard/cards.go
package dashboard

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mwiater/matchboard/internal/metrics"
	"github.com/mwiater/matchboard/internal/runs"
)

// NotAvailable is how an unavailable value is rendered.
const NotAvailable = "n/a"

var printer = message.NewPrinter(language.AmericanEnglish)

// Card is one labelled metric of the selected run.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormatInt renders a count with en-US digit grouping.
func FormatInt(n runs.Num) string {
	v, ok := n.Value()
	if !ok {
		return NotAvailable
	}
	if v != math.Trunc(v) {
		return printer.Sprintf("%.2f", v)
	}
	return printer.Sprintf("%d", int64(v))
}

// FormatPct renders a percentage with two decimals.
func FormatPct(n runs.Num) string {
	v, ok := n.Value()
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Cards returns the metric cards for rec, in display order.
func Cards(rec runs.Record) []Card {
	d := metrics.Resolve(rec)
	return []Card{
		{Label: "Selected Input Records", Value: FormatInt(rec.RecordsInput)},
		{Label: "Matched Pairs", Value: FormatInt(rec.MatchedPairs)},
		{Label: "Our Match Coverage", Value: FormatPct(d.CoveragePct)},
		{Label: "Match Correctness", Value: FormatPct(d.PrecisionPct)},
		{Label: "Match Missed", Value: FormatPct(d.MissedPct)},
		{Label: "False Positive %", Value: FormatPct(d.FalsePositiveRatePct)},
		{Label: "Extra True Matches Found", Value: FormatInt(rec.ExtraTrueMatchesFound)},
		{Label: "Gain vs Our Matches", Value: FormatPct(d.GainPct)},
		{Label: "Selected False Negative", Value: FormatInt(rec.FalseNegative)},
		{Label: "Selected Resolved Entities", Value: FormatInt(rec.ResolvedEntities)},
	}
}

// Title is the heading shown over a run's cards.
func Title(rec runs.Record) string {
	if metrics.IsAggregate(rec) {
		return rec.RunLabel
	}
	return runs.DisplayLabel(rec)
}

// Bar is one bucket of a distribution chart.
type Bar struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// DistributionBars orders a distribution numerically by key for charting.
func DistributionBars(dist runs.Distribution) []Bar {
	keys := dist.SortedKeys()
	bars := make([]Bar, 0, len(keys))
	for _, k := range keys {
		bars = append(bars, Bar{Key: k, Value: dist[k]})
	}
	return bars
}

// MatchKeyRow is one rendered row of the ranked match-key list.
type MatchKeyRow struct {
	Rank     int     `json:"rank"`
	RawLabel string  `json:"raw_label"`
	Label    string  `json:"label"`
	Count    float64 `json:"count"`
	SharePct float64 `json:"share_pct"`
	WidthPct float64 `json:"width_pct"`
}

// PrettifyMatchKey turns "NAME+DOB" into "NAME, DOB".
func PrettifyMatchKey(raw string) string {
	return strings.ReplaceAll(raw, "+", ", ")
}

// MatchKeyRows computes each key's share of the list total and its bar width
// relative to the largest count.
func MatchKeyRows(keys []runs.MatchKey) []MatchKeyRow {
	if len(keys) == 0 {
		return nil
	}
	maxCount, total := 1.0, 0.0
	for _, k := range keys {
		if k.Count > maxCount {
			maxCount = k.Count
		}
		total += k.Count
	}
	if total == 0 {
		total = 1
	}
	rows := make([]MatchKeyRow, 0, len(keys))
	for i, k := range keys {
		rows = append(rows, MatchKeyRow{
			Rank:     i + 1,
			RawLabel: k.Label,
			Label:    PrettifyMatchKey(k.Label),
			Count:    k.Count,
			SharePct: k.Count / total * 100,
			WidthPct: k.Count / maxCount * 100,
		})
	}
	return rows
}

// RunOption is one entry of a run selector: the real runs and, when there is
// at least one, the aggregate at the top.
type RunOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Options lists the selector entries for store.
func Options(store *Store) []RunOption {
	successful := store.Successful()
	if len(successful) == 0 {
		return nil
	}
	options := make([]RunOption, 0, len(successful)+1)
	if agg, ok := store.Aggregate(); ok {
		options = append(options, RunOption{ID: agg.RunID, Label: agg.RunLabel})
	}
	for _, rec := range successful {
		options = append(options, RunOption{ID: rec.RunID, Label: runs.DisplayLabel(rec)})
	}
	return options
}
