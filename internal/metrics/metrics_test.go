package metrics

import (
	"math"
	"reflect"
	"testing"

	"github.com/mwiater/matchboard/internal/runs"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustValue(t *testing.T, n runs.Num, name string) float64 {
	t.Helper()
	v, ok := n.Value()
	if !ok {
		t.Fatalf("expected %s to be available", name)
	}
	return v
}

func TestRatioPct(t *testing.T) {
	cases := []struct {
		name  string
		num   runs.Num
		den   runs.Num
		want  float64
		valid bool
	}{
		{"simple", runs.Some(1), runs.Some(4), 25, true},
		{"zero numerator", runs.Some(0), runs.Some(10), 0, true},
		{"over one hundred", runs.Some(166), runs.Some(95), 166.0 / 95.0 * 100, true},
		{"zero denominator", runs.Some(5), runs.Some(0), 0, false},
		{"negative denominator", runs.Some(5), runs.Some(-2), 0, false},
		{"missing numerator", runs.None(), runs.Some(5), 0, false},
		{"missing denominator", runs.Some(5), runs.None(), 0, false},
		{"nan numerator", runs.Some(math.NaN()), runs.Some(5), 0, false},
		{"inf denominator", runs.Some(1), runs.Some(math.Inf(1)), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := RatioPct(tc.num, tc.den).Value()
			if ok != tc.valid {
				t.Fatalf("valid = %v, want %v", ok, tc.valid)
			}
			if ok && !approxEqual(got, tc.want) {
				t.Fatalf("RatioPct = %v, want %v", got, tc.want)
			}
		})
	}
}

func twoRuns() []runs.Record {
	return []runs.Record{
		{
			RunID:                 "20260301_100000",
			RunStatus:             runs.StatusSuccess,
			QualityAvailable:      true,
			RecordsInput:          runs.Some(500),
			MatchedPairs:          runs.Some(430),
			TruePositive:          runs.Some(70),
			FalsePositive:         runs.Some(15),
			FalseNegative:         runs.Some(50),
			PredictedPairsLabeled: runs.Some(86),
			PairPrecisionPct:      runs.Some(82.35),
			OurTruePositive:       runs.Some(95),
			OurTruePairsTotal:     runs.Some(305),
			ExtraTrueMatchesFound: runs.Some(166),
			KnownPairsIPG:         runs.Some(95),
			EntitySizeDistribution: runs.Distribution{
				"1": 3, "2": 1,
			},
			TopMatchKeys: []runs.MatchKey{{Label: "NAME", Count: 10}, {Label: "NAME+DOB", Count: 4}},
		},
		{
			RunID:                 "20260302_100000",
			RunStatus:             runs.StatusSuccess,
			QualityAvailable:      true,
			RecordsInput:          runs.Some(400),
			TruePositive:          runs.Some(64),
			FalsePositive:         runs.Some(16),
			FalseNegative:         runs.None(),
			PredictedPairsLabeled: runs.Some(80),
			PairPrecisionPct:      runs.Some(80),
			OurTruePositive:       runs.Some(50),
			OurTruePairsTotal:     runs.Some(100),
			EntitySizeDistribution: runs.Distribution{
				"2": 2, "3": 5,
			},
			TopMatchKeys: []runs.MatchKey{{Label: "NAME+DOB", Count: 7}, {Label: "NAME+TAX_ID", Count: 2}},
		},
	}
}

func TestBuildAggregateRunRecomputesFromSums(t *testing.T) {
	records := twoRuns()
	agg, ok := BuildAggregateRun(records)
	if !ok {
		t.Fatalf("expected aggregate for two runs")
	}

	precision := mustValue(t, agg.PairPrecisionPct, "precision")
	want := 134.0 / 165.0 * 100
	if !approxEqual(precision, want) {
		t.Fatalf("precision = %v, want %v", precision, want)
	}
	meanOfReported := (82.35 + 80.0) / 2
	if approxEqual(precision, meanOfReported) {
		t.Fatalf("aggregate precision must not be the mean of reported percentages")
	}

	if fpRate := mustValue(t, agg.OverallFalsePositivePct, "false positive rate"); !approxEqual(fpRate, 31.0/166.0*100) {
		t.Fatalf("false positive rate = %v", fpRate)
	}
	if coverage := mustValue(t, agg.OurMatchCoveragePct, "coverage"); !approxEqual(coverage, 145.0/405.0*100) {
		t.Fatalf("coverage = %v", coverage)
	}
	if gain := mustValue(t, agg.ExtraGainVsKnownPct, "gain"); !approxEqual(gain, 166.0/95.0*100) {
		t.Fatalf("gain = %v", gain)
	}
	// Run 2 has no false_negative and contributes 0 to the sum.
	if recall := mustValue(t, agg.PairRecallPct, "recall"); !approxEqual(recall, 134.0/184.0*100) {
		t.Fatalf("recall = %v", recall)
	}

	if v := mustValue(t, agg.RecordsInput, "records_input"); v != 900 {
		t.Fatalf("records_input = %v", v)
	}
	if v := mustValue(t, agg.MatchedPairs, "matched_pairs"); v != 430 {
		t.Fatalf("matched_pairs = %v", v)
	}
	if agg.ResolvedEntities.Valid() {
		t.Fatalf("resolved_entities reported by no run must stay unavailable, got %v", agg.ResolvedEntities)
	}

	wantDist := runs.Distribution{"1": 3, "2": 3, "3": 5}
	if !reflect.DeepEqual(agg.EntitySizeDistribution, wantDist) {
		t.Fatalf("entity_size_distribution = %v, want %v", agg.EntitySizeDistribution, wantDist)
	}
	wantKeys := []runs.MatchKey{{Label: "NAME+DOB", Count: 11}, {Label: "NAME", Count: 10}, {Label: "NAME+TAX_ID", Count: 2}}
	if !reflect.DeepEqual(agg.TopMatchKeys, wantKeys) {
		t.Fatalf("top_match_keys = %v, want %v", agg.TopMatchKeys, wantKeys)
	}

	if agg.RunID != AggregateRunID || !IsAggregate(agg) {
		t.Fatalf("unexpected aggregate id %q", agg.RunID)
	}
	if agg.RunLabel != "All runs (2)" {
		t.Fatalf("unexpected aggregate label %q", agg.RunLabel)
	}
	if !agg.Successful() || !agg.QualityAvailable {
		t.Fatalf("expected aggregate to be successful with quality, got %+v", agg)
	}
}

func TestBuildAggregateRunEmpty(t *testing.T) {
	if _, ok := BuildAggregateRun(nil); ok {
		t.Fatalf("expected no aggregate for empty input")
	}
	if _, ok := AggregateSuccessful([]runs.Record{{RunID: "x", RunStatus: "failed"}}); ok {
		t.Fatalf("expected no aggregate when no run succeeded")
	}
}

func TestBuildAggregateRunKeepsUnreportedCountsUnavailable(t *testing.T) {
	records := twoRuns()
	records[0].FalseNegative = runs.None()
	records[0].MatchedPairs = runs.None()
	records[0].FalsePositive = runs.None()
	records[1].FalsePositive = runs.None()

	agg, ok := BuildAggregateRun(records)
	if !ok {
		t.Fatalf("expected aggregate")
	}
	if agg.FalseNegative.Valid() || agg.MatchedPairs.Valid() || agg.FalsePositive.Valid() {
		t.Fatalf("expected unavailable sums, got fn=%v pairs=%v fp=%v", agg.FalseNegative, agg.MatchedPairs, agg.FalsePositive)
	}
	if agg.PairRecallPct.Valid() || Missed(agg).Valid() {
		t.Fatalf("recall and missed must be unavailable, got %v / %v", agg.PairRecallPct, Missed(agg))
	}
	if agg.OverallFalsePositivePct.Valid() || FalsePositiveRate(agg).Valid() {
		t.Fatalf("false positive rate must be unavailable, got %v", agg.OverallFalsePositivePct)
	}
	if v := mustValue(t, agg.PredictedPairsLabeled, "predicted_pairs_labeled"); v != 166 {
		t.Fatalf("predicted_pairs_labeled = %v", v)
	}
}

func TestBuildAggregateRunSingleRunMatchesOwnCounts(t *testing.T) {
	run := twoRuns()[0]
	run.PairPrecisionPct = runs.Some(99.9)

	agg, ok := BuildAggregateRun([]runs.Record{run})
	if !ok {
		t.Fatalf("expected aggregate")
	}
	for name, pair := range map[string][2]runs.Num{
		"records_input":   {agg.RecordsInput, run.RecordsInput},
		"true_positive":   {agg.TruePositive, run.TruePositive},
		"false_positive":  {agg.FalsePositive, run.FalsePositive},
		"false_negative":  {agg.FalseNegative, run.FalseNegative},
		"predicted_pairs": {agg.PredictedPairsLabeled, run.PredictedPairsLabeled},
	} {
		if mustValue(t, pair[0], name) != mustValue(t, pair[1], name) {
			t.Fatalf("%s: aggregate %v, run %v", name, pair[0], pair[1])
		}
	}

	direct := RatioPct(run.TruePositive, run.TruePositive.Add(run.FalsePositive))
	if mustValue(t, agg.PairPrecisionPct, "precision") != mustValue(t, direct, "direct precision") {
		t.Fatalf("precision = %v, want recomputed %v", agg.PairPrecisionPct, direct)
	}
	if approxEqual(mustValue(t, agg.PairPrecisionPct, "precision"), 99.9) {
		t.Fatalf("aggregate must not copy the reported percentage")
	}
	if !reflect.DeepEqual(agg.TopMatchKeys, run.TopMatchKeys) {
		t.Fatalf("top keys = %v, want %v", agg.TopMatchKeys, run.TopMatchKeys)
	}
}

func TestBuildAggregateRunIsIdempotent(t *testing.T) {
	a, _ := BuildAggregateRun(twoRuns())
	b, _ := BuildAggregateRun(twoRuns())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected equal aggregates on repeated calls")
	}
}

func TestMergeDistributions(t *testing.T) {
	a := runs.Record{EntitySizeDistribution: runs.Distribution{"1": 3, "2": 1}}
	b := runs.Record{EntitySizeDistribution: runs.Distribution{"2": 2, "3": 5}}
	c := runs.Record{EntitySizeDistribution: runs.Distribution{"3": 1, "8": 2, "bad": math.NaN()}}
	empty := runs.Record{}

	got := MergeDistributions([]runs.Record{a, b}, runs.EntitySizeDistribution)
	want := runs.Distribution{"1": 3, "2": 3, "3": 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merge = %v, want %v", got, want)
	}

	abc := MergeDistributions([]runs.Record{a, b, c, empty}, runs.EntitySizeDistribution)
	cab := MergeDistributions([]runs.Record{c, empty, a, b}, runs.EntitySizeDistribution)
	if !reflect.DeepEqual(abc, cab) {
		t.Fatalf("merge is not order independent: %v vs %v", abc, cab)
	}
	if _, ok := abc["bad"]; ok {
		t.Fatalf("expected non-finite values to be skipped")
	}

	if got := MergeDistributions([]runs.Record{a}, runs.MatchLevelDistribution); len(got) != 0 {
		t.Fatalf("expected empty merge for absent field, got %v", got)
	}
}

func TestMergeTopKeysSingleRunKeepsOrder(t *testing.T) {
	keys := make([]runs.MatchKey, 0, 12)
	for i := 0; i < 12; i++ {
		keys = append(keys, runs.MatchKey{Label: string(rune('a'+i)) + "_KEY", Count: float64(100 - i)})
	}
	got := MergeTopKeys([]runs.Record{{TopMatchKeys: keys}}, 0)
	if !reflect.DeepEqual(got, keys[:DefaultTopKeys]) {
		t.Fatalf("merge = %v, want %v", got, keys[:DefaultTopKeys])
	}

	if got := MergeTopKeys([]runs.Record{{TopMatchKeys: keys}}, 3); !reflect.DeepEqual(got, keys[:3]) {
		t.Fatalf("limit 3 = %v", got)
	}
}

func TestMergeTopKeysTieBreakAndDuplicates(t *testing.T) {
	records := []runs.Record{
		{TopMatchKeys: []runs.MatchKey{{Label: "b", Count: 5}, {Label: "a", Count: 3}}},
		{TopMatchKeys: []runs.MatchKey{{Label: "a", Count: 2}, {Label: "c", Count: 1}}},
	}
	got := MergeTopKeys(records, 10)
	want := []runs.MatchKey{{Label: "a", Count: 5}, {Label: "b", Count: 5}, {Label: "c", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merge = %v, want %v", got, want)
	}
}

// Per-run lists arrive truncated, so a label cut from one run's list is
// undercounted in the merge. The merge reports what the lists contain.
func TestMergeTopKeysIsLowerBoundForTruncatedLists(t *testing.T) {
	records := []runs.Record{
		// "Z" had 8 matches in this run but fell outside its top two.
		{TopMatchKeys: []runs.MatchKey{{Label: "X", Count: 10}, {Label: "Y", Count: 9}}},
		{TopMatchKeys: []runs.MatchKey{{Label: "Z", Count: 10}, {Label: "X", Count: 1}}},
	}
	got := MergeTopKeys(records, 2)
	want := []runs.MatchKey{{Label: "X", Count: 11}, {Label: "Z", Count: 10}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merge = %v, want %v", got, want)
	}
	if got[1].Count >= 18 {
		t.Fatalf("merged count for Z should be the observed lower bound, got %v", got[1].Count)
	}
}

func TestQualityGateHidesStalePrecision(t *testing.T) {
	rec := runs.Record{
		QualityAvailable:    false,
		PairPrecisionPct:    runs.Some(95),
		PairRecallPct:       runs.Some(90),
		TruePositive:        runs.Some(10),
		FalsePositive:       runs.Some(1),
		OurMatchCoveragePct: runs.Some(40),
	}
	if Precision(rec).Valid() || Recall(rec).Valid() || Missed(rec).Valid() {
		t.Fatalf("expected precision/recall/missed unavailable without quality")
	}
	if v := mustValue(t, Coverage(rec), "coverage"); v != 40 {
		t.Fatalf("coverage = %v", v)
	}
}

func TestResolvePrefersPrimaryThenFallback(t *testing.T) {
	rec := runs.Record{
		QualityAvailable:      true,
		TruePositive:          runs.Some(71),
		FalsePositive:         runs.Some(15),
		FalseNegative:         runs.Some(49),
		PairRecallPct:         runs.Some(59.17),
		OurTruePositive:       runs.Some(95),
		OurTruePairsTotal:     runs.Some(305),
		ExtraGainVsKnownPct:   runs.Some(174.74),
		ExtraTrueMatchesFound: runs.Some(1),
		KnownPairsIPG:         runs.Some(1),
	}
	d := Resolve(rec)

	if v := mustValue(t, d.PrecisionPct, "precision"); !approxEqual(v, 71.0/86.0*100) {
		t.Fatalf("precision fallback = %v", v)
	}
	if v := mustValue(t, d.RecallPct, "recall"); v != 59.17 {
		t.Fatalf("recall primary = %v", v)
	}
	if v := mustValue(t, d.MissedPct, "missed"); !approxEqual(v, 100-59.17) {
		t.Fatalf("missed = %v", v)
	}
	if v := mustValue(t, d.CoveragePct, "coverage"); !approxEqual(v, 95.0/305.0*100) {
		t.Fatalf("coverage fallback = %v", v)
	}
	if v := mustValue(t, d.GainPct, "gain"); v != 174.74 {
		t.Fatalf("gain primary = %v", v)
	}
	// No overall_false_positive_pct and no predicted_pairs_labeled.
	if d.FalsePositiveRatePct.Valid() {
		t.Fatalf("expected false positive rate unavailable, got %v", d.FalsePositiveRatePct)
	}
}

func TestResolveMissingAddendIsNotZero(t *testing.T) {
	rec := runs.Record{QualityAvailable: true, TruePositive: runs.Some(10)}
	if Precision(rec).Valid() {
		t.Fatalf("expected precision unavailable when false_positive is missing")
	}
	if ResolveMetric(runs.None(), nil).Valid() {
		t.Fatalf("expected nil fallback to be unavailable")
	}
}

func TestMissedFromRecallClamps(t *testing.T) {
	if MissedFromRecall(120) != 0 {
		t.Fatalf("expected clamp at 0")
	}
	if MissedFromRecall(-5) != 100 {
		t.Fatalf("expected clamp at 100")
	}
	if MissedFromRecall(25) != 75 {
		t.Fatalf("expected 75")
	}
}
