// internal/cli/audit.go
package matchboard

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/mwiater/matchboard/internal/dashboard"
	"github.com/mwiater/matchboard/internal/logging"
	"github.com/mwiater/matchboard/internal/metrics"
	"github.com/mwiater/matchboard/internal/report"
	"github.com/mwiater/matchboard/internal/util"
	"github.com/spf13/cobra"
)

// ErrAuditFailed is returned by 'audit' when any run fails a check.
var ErrAuditFailed = errors.New("audit failed")

var (
	passResult = color.New(color.FgGreen).SprintFunc()
	failResult = color.New(color.FgRed).SprintFunc()
	skipResult = color.New(color.FgYellow).SprintFunc()
)

// auditCmd implements 'audit', which recomputes every reported percentage
// from the run's own counts.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check reported percentages against their recomputation",
	Long:  `Recompute precision, false positive %, missed %, coverage and gain from each run's counts and compare them with the reported values. Exits non-zero when any check fails.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadStore()
		if err != nil {
			return err
		}
		tolerance := config().Tolerance()
		audit := metrics.Audit(store.All(), tolerance)
		logging.LogEvent("[AUDIT] runs=%d pass=%d fail=%d skip=%d", audit.RunsTotal, audit.RunsPass, audit.RunsFail, audit.RunsSkip)

		if path, _ := cmd.Flags().GetString("markdown"); path != "" {
			if err := util.WriteFile(path, []byte(report.AuditMarkdown(audit, tolerance, time.Now()))); err != nil {
				return fmt.Errorf("write audit markdown: %w", err)
			}
			logging.LogEvent("[AUDIT] markdown written to %s", path)
		}

		out := cmd.OutOrStdout()
		if JSONModeEnabled() {
			if err := writeJSON(out, audit); err != nil {
				return err
			}
		} else {
			printAudit(out, audit)
		}
		if audit.Failed() {
			return fmt.Errorf("%w: %d of %d runs", ErrAuditFailed, audit.RunsFail, audit.RunsTotal)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().String("markdown", "", "also write the audit as Markdown to this file")
	rootCmd.AddCommand(auditCmd)
}

func statusText(status string) string {
	switch status {
	case metrics.CheckPass:
		return passResult(status)
	case metrics.CheckFail:
		return failResult(status)
	default:
		return skipResult(status)
	}
}

func printAudit(out io.Writer, audit metrics.AuditReport) {
	for _, run := range audit.Runs {
		fmt.Fprintf(out, "%s  %s (%s)\n", statusText(run.OverallStatus), run.RunID, run.RunStatus)
		for _, check := range run.Checks {
			fmt.Fprintf(out, "    %s %s reported=%s recomputed=%s\n",
				statusText(check.Status),
				util.PadRunes(check.Name, 24),
				dashboard.FormatPct(check.Reported),
				dashboard.FormatPct(check.Recomputed),
			)
		}
	}
	fmt.Fprintf(out, "\nRuns: %d  PASS: %d  FAIL: %d  SKIP: %d\n", audit.RunsTotal, audit.RunsPass, audit.RunsFail, audit.RunsSkip)
}
