package runs

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestNumFromAcceptsOnlyFiniteNumbers(t *testing.T) {
	cases := []struct {
		name  string
		in    any
		want  float64
		valid bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"json number", json.Number("42"), 42, true},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"bool", true, 0, false},
		{"numeric string", "12", 0, false},
		{"nil", nil, 0, false},
		{"object", map[string]any{"a": 1.0}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NumFrom(tc.in).Value()
			if ok != tc.valid {
				t.Fatalf("valid = %v, want %v", ok, tc.valid)
			}
			if ok && got != tc.want {
				t.Fatalf("value = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCoerceNumAcceptsNumericStrings(t *testing.T) {
	if v, ok := CoerceNum(" 3 ").Value(); !ok || v != 3 {
		t.Fatalf("expected 3, got %v (%v)", v, ok)
	}
	if CoerceNum("abc").Valid() {
		t.Fatalf("expected non-numeric string to be unavailable")
	}
	if CoerceNum("NaN").Valid() {
		t.Fatalf("expected NaN string to be unavailable")
	}
}

func TestNumAddAndMap(t *testing.T) {
	if Some(1).Add(None()).Valid() {
		t.Fatalf("expected unavailable when an addend is missing")
	}
	if v := Some(1).Add(Some(2)).Or(-1); v != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
	if None().Map(func(f float64) float64 { return f + 1 }).Valid() {
		t.Fatalf("expected Map on None to stay unavailable")
	}
}

func TestNumJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Num `json:"a"`
		B Num `json:"b"`
	}{A: Some(1.5), B: None()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":1.5,"b":null}` {
		t.Fatalf("unexpected json: %s", data)
	}

	var n Num
	if err := json.Unmarshal([]byte(`"7"`), &n); err != nil {
		t.Fatalf("unmarshal should not fail: %v", err)
	}
	if n.Valid() {
		t.Fatalf("expected string to decode as unavailable")
	}
}

func TestRecordUnmarshalToleratesWrongTypes(t *testing.T) {
	raw := `{
		"run_id": "20260302_135931__sample_500",
		"run_status": "success",
		"quality_available": true,
		"records_input": 500,
		"matched_pairs": "430",
		"true_positive": null,
		"false_positive": 15,
		"pair_precision_pct": true,
		"entity_size_distribution": {"1": 163, "2": "54", "3": "x"},
		"match_level_distribution": [1, 2],
		"top_match_keys": [["NAME", 106], ["NAME+DOB", "31"], [5, 2], "bad", ["NAME+TAX_ID", 4]]
	}`
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !rec.Successful() || !rec.QualityAvailable {
		t.Fatalf("expected successful quality run, got %+v", rec)
	}
	if v, _ := rec.RecordsInput.Value(); v != 500 {
		t.Fatalf("records_input = %v", v)
	}
	if rec.MatchedPairs.Valid() || rec.TruePositive.Valid() || rec.PairPrecisionPct.Valid() {
		t.Fatalf("expected wrong-typed fields to be unavailable: %+v", rec)
	}
	wantDist := Distribution{"1": 163, "2": 54}
	if !reflect.DeepEqual(rec.EntitySizeDistribution, wantDist) {
		t.Fatalf("entity_size_distribution = %v, want %v", rec.EntitySizeDistribution, wantDist)
	}
	if rec.MatchLevelDistribution != nil {
		t.Fatalf("expected non-object distribution to be absent, got %v", rec.MatchLevelDistribution)
	}
	wantKeys := []MatchKey{{Label: "NAME", Count: 106}, {Label: "NAME+DOB", Count: 0}, {Label: "NAME+TAX_ID", Count: 4}}
	if !reflect.DeepEqual(rec.TopMatchKeys, wantKeys) {
		t.Fatalf("top_match_keys = %v, want %v", rec.TopMatchKeys, wantKeys)
	}
}

func TestRecordRoundTripKeepsShape(t *testing.T) {
	rec := Record{
		RunID:                  "20260101_000000",
		RunStatus:              StatusSuccess,
		TruePositive:           Some(3),
		EntitySizeDistribution: Distribution{"1": 2},
		TopMatchKeys:           []MatchKey{{Label: "NAME", Count: 2}},
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(rec, back) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, rec)
	}
}

func TestStatusNormalization(t *testing.T) {
	for in, want := range map[string]string{
		"success": StatusSuccess,
		"failed":  StatusFailed,
		"":        StatusIncomplete,
		"running": StatusIncomplete,
	} {
		if got := (Record{RunStatus: in}).Status(); got != want {
			t.Fatalf("Status(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDistributionSortedKeys(t *testing.T) {
	d := Distribution{"10": 1, "2": 1, "1": 1, "other": 1, "3": 1}
	got := d.SortedKeys()
	want := []string{"1", "2", "3", "10", "other"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SortedKeys = %v, want %v", got, want)
	}
	if d.Total() != 5 {
		t.Fatalf("Total = %v", d.Total())
	}
}

func TestParseRunTimeAndLabel(t *testing.T) {
	rec := Record{RunID: "20260302_135931__sample_500", SourceInputName: "sample_500.json"}
	got, ok := ParseRunTime(rec)
	if !ok {
		t.Fatalf("expected run id to parse")
	}
	want := time.Date(2026, 3, 2, 13, 59, 31, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("ParseRunTime = %v, want %v", got, want)
	}
	if label := DisplayLabel(rec); label != "sample_500.json | 02 March 2026 13:59" {
		t.Fatalf("DisplayLabel = %q", label)
	}
	if FolderLabel(rec.RunID) != "sample_500" {
		t.Fatalf("FolderLabel = %q", FolderLabel(rec.RunID))
	}

	fallback := Record{RunID: "custom", RunDatetime: "2026-01-05T08:30:00"}
	if _, ok := ParseRunTime(fallback); !ok {
		t.Fatalf("expected run_datetime fallback to parse")
	}
	if label := DisplayLabel(Record{RunID: "custom", RunLabel: "batch-a"}); label != "batch-a" {
		t.Fatalf("DisplayLabel without time = %q", label)
	}
	if label := DisplayLabel(Record{RunID: "custom"}); label != "custom" {
		t.Fatalf("DisplayLabel fallback = %q", label)
	}
}
