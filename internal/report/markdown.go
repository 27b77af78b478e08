// internal/report/markdown.go
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mwiater/matchboard/internal/dashboard"
	"github.com/mwiater/matchboard/internal/metrics"
)

// AuditMarkdown renders an audit as a Markdown document: a tally followed by
// a table of every check per run.
func AuditMarkdown(audit metrics.AuditReport, tolerance float64, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Match Run Consistency Audit\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Tolerance: %.2f percentage points\n", tolerance)
	fmt.Fprintf(&b, "- Runs: %d (PASS %d, FAIL %d, SKIP %d)\n\n", audit.RunsTotal, audit.RunsPass, audit.RunsFail, audit.RunsSkip)

	if len(audit.Runs) == 0 {
		b.WriteString("No runs to audit.\n")
		return b.String()
	}

	b.WriteString("| Run | Status | Check | Reported | Recomputed | Result |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, run := range audit.Runs {
		if len(run.Checks) == 0 {
			fmt.Fprintf(&b, "| %s | %s | | | | %s |\n", escapeCell(run.RunID), run.RunStatus, run.OverallStatus)
			continue
		}
		for _, check := range run.Checks {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				escapeCell(run.RunID),
				run.RunStatus,
				check.Name,
				dashboard.FormatPct(check.Reported),
				dashboard.FormatPct(check.Recomputed),
				check.Status,
			)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
