// internal/runs/record.go
// Package runs models the per-run metrics reported by batch entity-resolution runs.
package runs

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Normalized run statuses.
const (
	StatusSuccess    = "success"
	StatusFailed     = "failed"
	StatusIncomplete = "incomplete"
)

// MatchKey is one entry of a ranked match-key list.
type MatchKey struct {
	Label string
	Count float64
}

// MarshalJSON writes the [label, count] pair form used by the dashboard data.
func (k MatchKey) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{k.Label, k.Count})
}

// Distribution maps a stringified key (entity size, match level) to a count.
type Distribution map[string]float64

// Total sums the distribution values.
func (d Distribution) Total() float64 {
	total := 0.0
	for _, v := range d {
		total += v
	}
	return total
}

// SortedKeys orders keys numerically; non-numeric keys follow, lexicographically.
func (d Distribution) SortedKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.ParseFloat(keys[i], 64)
		b, bErr := strconv.ParseFloat(keys[j], 64)
		switch {
		case aErr == nil && bErr == nil:
			if a != b {
				return a < b
			}
			return keys[i] < keys[j]
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// DistributionField selects one of the distributions carried by a Record.
type DistributionField string

const (
	EntitySizeDistribution DistributionField = "entity_size_distribution"
	MatchLevelDistribution DistributionField = "match_level_distribution"
)

// Record is one batch-matching run as reported by the matching pipeline.
type Record struct {
	RunID           string `json:"run_id"`
	RunLabel        string `json:"run_label,omitempty"`
	SourceInputName string `json:"source_input_name,omitempty"`
	RunDatetime     string `json:"run_datetime,omitempty"`
	RunStatus       string `json:"run_status,omitempty"`

	QualityAvailable bool `json:"quality_available"`

	RecordsInput        Num `json:"records_input"`
	RecordsExported     Num `json:"records_exported"`
	MatchedRecords      Num `json:"matched_records"`
	MatchedPairs        Num `json:"matched_pairs"`
	ResolvedEntities    Num `json:"resolved_entities"`
	OurResolvedEntities Num `json:"our_resolved_entities"`

	TruePositive      Num `json:"true_positive"`
	FalsePositive     Num `json:"false_positive"`
	FalseNegative     Num `json:"false_negative"`
	OurTruePositive   Num `json:"our_true_positive"`
	OurFalsePositive  Num `json:"our_false_positive"`
	OurFalseNegative  Num `json:"our_false_negative"`
	OurTruePairsTotal Num `json:"our_true_pairs_total"`

	PredictedPairsLabeled   Num `json:"predicted_pairs_labeled"`
	GroundTruthPairsLabeled Num `json:"ground_truth_pairs_labeled"`
	KnownPairsIPG           Num `json:"known_pairs_ipg"`

	PairPrecisionPct        Num `json:"pair_precision_pct"`
	PairRecallPct           Num `json:"pair_recall_pct"`
	OurMatchCoveragePct     Num `json:"our_match_coverage_pct"`
	OverallFalsePositivePct Num `json:"overall_false_positive_pct"`
	ExtraGainVsKnownPct     Num `json:"extra_gain_vs_known_pct"`

	ExtraTrueMatchesFound  Num `json:"extra_true_matches_found"`
	ExtraFalseMatchesFound Num `json:"extra_false_matches_found"`

	EntitySizeDistribution Distribution `json:"entity_size_distribution"`
	MatchLevelDistribution Distribution `json:"match_level_distribution"`
	TopMatchKeys           []MatchKey   `json:"top_match_keys"`
}

// Status normalizes RunStatus. Anything but success or failed is incomplete.
func (r Record) Status() string {
	switch r.RunStatus {
	case StatusSuccess, StatusFailed:
		return r.RunStatus
	default:
		return StatusIncomplete
	}
}

// Successful reports whether the run participates in listing and aggregation.
func (r Record) Successful() bool { return r.Status() == StatusSuccess }

// Distribution returns the named distribution, or nil for an unknown field.
func (r Record) Distribution(field DistributionField) Distribution {
	switch field {
	case EntitySizeDistribution:
		return r.EntitySizeDistribution
	case MatchLevelDistribution:
		return r.MatchLevelDistribution
	default:
		return nil
	}
}

// UnmarshalJSON decodes leniently: a wrong-typed field becomes unavailable
// instead of failing the whole batch.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = FromMap(raw)
	return nil
}

// FromMap builds a Record from a decoded JSON object.
func FromMap(raw map[string]any) Record {
	num := func(key string) Num { return NumFrom(raw[key]) }
	return Record{
		RunID:           text(raw["run_id"]),
		RunLabel:        text(raw["run_label"]),
		SourceInputName: text(raw["source_input_name"]),
		RunDatetime:     text(raw["run_datetime"]),
		RunStatus:       text(raw["run_status"]),

		QualityAvailable: truthy(raw["quality_available"]),

		RecordsInput:        num("records_input"),
		RecordsExported:     num("records_exported"),
		MatchedRecords:      num("matched_records"),
		MatchedPairs:        num("matched_pairs"),
		ResolvedEntities:    num("resolved_entities"),
		OurResolvedEntities: num("our_resolved_entities"),

		TruePositive:      num("true_positive"),
		FalsePositive:     num("false_positive"),
		FalseNegative:     num("false_negative"),
		OurTruePositive:   num("our_true_positive"),
		OurFalsePositive:  num("our_false_positive"),
		OurFalseNegative:  num("our_false_negative"),
		OurTruePairsTotal: num("our_true_pairs_total"),

		PredictedPairsLabeled:   num("predicted_pairs_labeled"),
		GroundTruthPairsLabeled: num("ground_truth_pairs_labeled"),
		KnownPairsIPG:           num("known_pairs_ipg"),

		PairPrecisionPct:        num("pair_precision_pct"),
		PairRecallPct:           num("pair_recall_pct"),
		OurMatchCoveragePct:     num("our_match_coverage_pct"),
		OverallFalsePositivePct: num("overall_false_positive_pct"),
		ExtraGainVsKnownPct:     num("extra_gain_vs_known_pct"),

		ExtraTrueMatchesFound:  num("extra_true_matches_found"),
		ExtraFalseMatchesFound: num("extra_false_matches_found"),

		EntitySizeDistribution: distributionFrom(raw["entity_size_distribution"]),
		MatchLevelDistribution: distributionFrom(raw["match_level_distribution"]),
		TopMatchKeys:           matchKeysFrom(raw["top_match_keys"]),
	}
}

func text(v any) string {
	s, _ := v.(string)
	return s
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case string:
		return b != ""
	default:
		return false
	}
}

func distributionFrom(v any) Distribution {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	dist := make(Distribution, len(obj))
	for key, value := range obj {
		if n, ok := CoerceNum(value).Value(); ok {
			dist[key] = n
		}
	}
	return dist
}

func matchKeysFrom(v any) []MatchKey {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	keys := make([]MatchKey, 0, len(items))
	for _, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		label, ok := pair[0].(string)
		if !ok {
			continue
		}
		// A non-numeric count still lists the label, at zero.
		count := NumFrom(pair[1]).Or(0)
		keys = append(keys, MatchKey{Label: label, Count: count})
	}
	return keys
}
