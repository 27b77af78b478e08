// internal/report/html.go
// Package report renders run batches as standalone HTML and audit results as Markdown.
package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strconv"
	"time"

	"github.com/mwiater/matchboard/internal/dashboard"
	"github.com/mwiater/matchboard/internal/metrics"
	"github.com/mwiater/matchboard/internal/runs"
)

// HTMLReportData is the view model handed to the HTML template.
type HTMLReportData struct {
	Title       string
	GeneratedAt string
	Summary     []dashboard.Card
	Runs        []RunSection
	RunsJSON    template.JS
}

// RunSection is one run (or the aggregate) in the report.
type RunSection struct {
	ID          string
	Title       string
	Aggregate   bool
	Cards       []dashboard.Card
	EntitySizes []BarView
	MatchLevels []BarView
	MatchKeys   []dashboard.MatchKeyRow
}

// BarView is a distribution bucket with its width relative to the largest bucket.
type BarView struct {
	Key      string
	Value    string
	WidthPct float64
}

// GenerateHTML renders a standalone HTML report of the aggregate followed by
// every successful run in store.
func GenerateHTML(store *dashboard.Store, topKeys int, now time.Time) (string, error) {
	sections := make([]RunSection, 0, len(store.Successful())+1)
	if agg, ok := store.Aggregate(); ok {
		sections = append(sections, buildSection(store, agg, topKeys))
	}
	for _, rec := range store.Successful() {
		sections = append(sections, buildSection(store, rec, topKeys))
	}

	type jsonRun struct {
		runs.Record
		Derived metrics.Derived `json:"derived"`
	}
	payloadRuns := make([]jsonRun, 0, len(store.Successful()))
	for _, rec := range store.Successful() {
		payloadRuns = append(payloadRuns, jsonRun{Record: rec, Derived: metrics.Resolve(rec)})
	}
	payload, err := json.Marshal(payloadRuns)
	if err != nil {
		return "", err
	}

	viewModel := HTMLReportData{
		Title:       "matchboard: Match Run Report",
		GeneratedAt: now.Format("02 January 2006 15:04"),
		Summary:     summaryCards(metrics.Summarize(store.All())),
		Runs:        sections,
		RunsJSON:    template.JS(payload),
	}

	var buf bytes.Buffer
	if err := htmlReportTemplate.Execute(&buf, viewModel); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildSection(store *dashboard.Store, rec runs.Record, topKeys int) RunSection {
	return RunSection{
		ID:          rec.RunID,
		Title:       dashboard.Title(rec),
		Aggregate:   metrics.IsAggregate(rec),
		Cards:       dashboard.Cards(rec),
		EntitySizes: barViews(rec.EntitySizeDistribution),
		MatchLevels: barViews(rec.MatchLevelDistribution),
		MatchKeys:   dashboard.MatchKeyRows(store.TopKeys(rec, topKeys)),
	}
}

func barViews(dist runs.Distribution) []BarView {
	bars := dashboard.DistributionBars(dist)
	maxValue := 0.0
	for _, b := range bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
	}
	views := make([]BarView, 0, len(bars))
	for _, b := range bars {
		width := 0.0
		if maxValue > 0 {
			width = b.Value / maxValue * 100
		}
		views = append(views, BarView{Key: b.Key, Value: dashboard.FormatInt(runs.Some(b.Value)), WidthPct: width})
	}
	return views
}

func summaryCards(s metrics.Summary) []dashboard.Card {
	count := func(n int) string { return dashboard.FormatInt(runs.Some(float64(n))) }
	latest := s.LatestRunID
	if latest == "" {
		latest = dashboard.NotAvailable
	}
	return []dashboard.Card{
		{Label: "Runs", Value: count(s.RunsTotal)},
		{Label: "Successful", Value: count(s.SuccessfulRuns)},
		{Label: "Failed", Value: count(s.FailedRuns)},
		{Label: "Incomplete", Value: count(s.IncompleteRuns)},
		{Label: "Quality Runs", Value: count(s.QualityRunsTotal)},
		{Label: "Latest Run", Value: latest},
		{Label: "Records Input (quality runs)", Value: dashboard.FormatInt(runs.Some(s.RecordsInputTotal))},
		{Label: "Matched Pairs (quality runs)", Value: dashboard.FormatInt(runs.Some(s.MatchedPairsTotal))},
		{Label: "Pooled Precision", Value: dashboard.FormatPct(s.PooledPrecisionPct)},
		{Label: "Pooled Recall", Value: dashboard.FormatPct(s.PooledRecallPct)},
	}
}

func widthStyle(pct float64) template.CSS {
	return template.CSS("width: " + strconv.FormatFloat(pct, 'f', 1, 64) + "%")
}

var htmlReportTemplate = template.Must(template.New("match-report").Funcs(template.FuncMap{
	"width": widthStyle,
}).Parse(htmlReportTemplateHTML))

const htmlReportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body { background-color: var(--light); color: var(--text); }
    .navbar-dark { background-color: var(--primary) !important; }
    .card { border: 1px solid var(--border); background-color: var(--background); }
    .metric-label { font-size: 0.8rem; color: #64748B; }
    .metric-value { font-size: 1.4rem; font-weight: 600; }
    .bar { background-color: var(--accent); height: 0.8rem; border-radius: 2px; }
    .run-aggregate { border-left: 4px solid var(--accent); }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark mb-4">
    <div class="container-fluid">
      <span class="navbar-brand">{{ .Title }}</span>
      <span class="text-light small">Generated {{ .GeneratedAt }}</span>
    </div>
  </nav>
  <main class="container-fluid">
    <section class="mb-4">
      <h2 class="h5">Batch Summary</h2>
      <div class="row g-2">
        {{ range .Summary }}
        <div class="col-6 col-md-3 col-xl-2">
          <div class="card p-2">
            <div class="metric-label">{{ .Label }}</div>
            <div class="metric-value">{{ .Value }}</div>
          </div>
        </div>
        {{ end }}
      </div>
    </section>
    {{ if not .Runs }}
    <p class="text-muted">No successful runs found.</p>
    {{ end }}
    {{ range .Runs }}
    <section class="card mb-4 p-3{{ if .Aggregate }} run-aggregate{{ end }}" id="run-{{ .ID }}">
      <h2 class="h5">{{ .Title }}</h2>
      {{ if not .Aggregate }}<div class="text-muted small mb-2">{{ .ID }}</div>{{ end }}
      <div class="row g-2 mb-3">
        {{ range .Cards }}
        <div class="col-6 col-md-4 col-xl-2">
          <div class="card p-2">
            <div class="metric-label">{{ .Label }}</div>
            <div class="metric-value">{{ .Value }}</div>
          </div>
        </div>
        {{ end }}
      </div>
      <div class="row">
        <div class="col-md-4">
          <h3 class="h6">Entity Size Distribution</h3>
          {{ if not .EntitySizes }}<p class="text-muted small">no data</p>{{ end }}
          <table class="table table-sm">
            {{ range .EntitySizes }}
            <tr><td>{{ .Key }}</td><td class="w-75"><div class="bar" style="{{ width .WidthPct }}"></div></td><td>{{ .Value }}</td></tr>
            {{ end }}
          </table>
        </div>
        <div class="col-md-4">
          <h3 class="h6">Match Level Distribution</h3>
          {{ if not .MatchLevels }}<p class="text-muted small">no data</p>{{ end }}
          <table class="table table-sm">
            {{ range .MatchLevels }}
            <tr><td>{{ .Key }}</td><td class="w-75"><div class="bar" style="{{ width .WidthPct }}"></div></td><td>{{ .Value }}</td></tr>
            {{ end }}
          </table>
        </div>
        <div class="col-md-4">
          <h3 class="h6">Top Match Keys</h3>
          {{ if not .MatchKeys }}<p class="text-muted small">no match keys reported</p>{{ end }}
          <table class="table table-sm">
            {{ range .MatchKeys }}
            <tr title="{{ .RawLabel }}"><td>{{ .Rank }}</td><td>{{ .Label }}</td><td class="w-50"><div class="bar" style="{{ width .WidthPct }}"></div></td><td>{{ printf "%.0f" .Count }}</td><td>{{ printf "%.1f" .SharePct }}%</td></tr>
            {{ end }}
          </table>
        </div>
      </div>
    </section>
    {{ end }}
  </main>
  <script>
    window.MATCHBOARD_RUNS = {{ .RunsJSON }};
  </script>
</body>
</html>
`
